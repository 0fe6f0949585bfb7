package cli

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/file"
	"timed-quiz-service/internal/infra/memory"
)

// NewGradeCmd scores an answer sheet offline and prints the result as JSON.
func NewGradeCmd() *cobra.Command {
	var (
		quizFile    string
		answersFile string
		feedback    bool
	)
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade an answers file against a quiz",
		Long:  "Answers are a JSON object of question id to a string or an array of strings. Without --quiz the reference quiz is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(answersFile)
			if err != nil {
				return errors.Wrapf(err, "read %s", answersFile)
			}
			var sheet domain.AnswerSheet
			if err := json.Unmarshal(raw, &sheet); err != nil {
				return errors.Wrapf(err, "decode answers %s", answersFile)
			}

			var loader memory.QuizLoader = memory.NewStaticQuizLoader(memory.ReferenceQuizzes())
			if quizFile != "" {
				loader = file.NewQuizLoader(quizFile, memory.DefaultQuizID)
			}
			service := app.NewQuizService(memory.NewSessionStore(), memory.NewQuizRepository(loader, 0))
			result, err := service.Grade(cmd.Context(), memory.DefaultQuizID, sheet)
			if err != nil {
				return err
			}
			if !feedback {
				result.Feedback = nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&quizFile, "quiz", "", "quiz JSON file")
	cmd.Flags().StringVar(&answersFile, "answers", "", "answers JSON file")
	cmd.Flags().BoolVar(&feedback, "feedback", false, "include per-question feedback")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}
