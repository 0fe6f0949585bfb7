package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/infra/file"
	"timed-quiz-service/internal/infra/memory"
	pgloader "timed-quiz-service/internal/infra/postgres"
	infraredis "timed-quiz-service/internal/infra/redis"
	transport "timed-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}
	defaultQuizID := cfg.DefaultQuizID(memory.DefaultQuizID)

	loader, cleanup, err := buildLoader(ctx, cfg, defaultQuizID)
	if err != nil {
		return err
	}
	defer cleanup()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	var store app.SessionRepository
	if redisClient != nil {
		quizRepo = infraredis.NewQuizRepository(redisClient, loader, quizTTL)
		store = infraredis.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
		store = memory.NewSessionStore()
	}

	seconds, ok, err := cfg.TimeLimitSeconds()
	if err != nil {
		return err
	}
	if ok {
		quizRepo = app.OverrideTimeLimit(quizRepo, seconds)
	}

	service := app.NewQuizService(store, quizRepo)
	router := transport.NewRouter(service, defaultQuizID)
	handler := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
		handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(router),
	)

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		glog.Infof("starting quiz service on :%s (default quiz %s)", finalPort, defaultQuizID)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		glog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.TTLDuration(cfg.Server.ShutdownTimeout, 5*time.Second))
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildLoader picks the quiz source: Postgres when configured, then a quiz
// file or directory, then the built-in reference quiz.
func buildLoader(ctx context.Context, cfg config.Config, defaultQuizID string) (memory.QuizLoader, func(), error) {
	noop := func() {}
	switch {
	case cfg.Postgres.URL != "":
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, noop, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, noop, errors.Wrap(err, "connect postgres")
		}
		glog.Info("loading quizzes from postgres")
		return pgloader.NewQuizLoader(pool), pool.Close, nil
	case cfg.Quiz.File != "":
		glog.Infof("loading quizzes from %s", cfg.Quiz.File)
		return file.NewQuizLoader(cfg.Quiz.File, defaultQuizID), noop, nil
	default:
		quizzes := memory.ReferenceQuizzes()
		if defaultQuizID != memory.DefaultQuizID {
			quiz := memory.ReferenceQuiz()
			quiz.ID = defaultQuizID
			quizzes[defaultQuizID] = quiz
		}
		return memory.NewStaticQuizLoader(quizzes), noop, nil
	}
}
