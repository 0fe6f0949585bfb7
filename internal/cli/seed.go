package cli

import (
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/memory"
	"timed-quiz-service/internal/infra/postgres"
	"timed-quiz-service/internal/quizschema"
)

// NewSeedCmd stores a quiz document in Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var (
		quizFile string
		quizID   string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Validate a quiz JSON file and upsert it into Postgres",
		Long:  "Without --file the built-in reference quiz is stored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			quiz, err := readQuiz(quizFile, quizID)
			if err != nil {
				return err
			}

			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			db, err := openBunDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.NewQuizWriter(db).SaveQuiz(cmd.Context(), quiz); err != nil {
				return err
			}
			glog.Infof("seeded quiz %s (%d questions, %ds)", quiz.ID, len(quiz.Questions), quiz.TimeLimit)
			return nil
		},
	}
	cmd.Flags().StringVar(&quizFile, "file", "", "quiz JSON file")
	cmd.Flags().StringVar(&quizID, "id", "", "quiz id when the file carries none")
	return cmd
}

// readQuiz decodes path, or returns the reference quiz when path is empty.
func readQuiz(path, quizID string) (domain.QuizSet, error) {
	if path == "" {
		quiz := memory.ReferenceQuiz()
		if quizID != "" {
			quiz.ID = quizID
		}
		return quiz, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.QuizSet{}, errors.Wrapf(err, "read %s", path)
	}
	if quizID == "" {
		quizID = memory.DefaultQuizID
	}
	return quizschema.Decode(raw, quizID)
}
