package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cellquest-service/internal/app"
	"cellquest-service/internal/config"
	"cellquest-service/internal/content"
	contentpg "cellquest-service/internal/content/postgres"
	"cellquest-service/internal/content/rediscache"
	"cellquest-service/internal/store"
	"cellquest-service/internal/store/memstore"
	"cellquest-service/internal/store/redisstore"
	transport "cellquest-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz and leaderboard server",
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

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader content.Loader = content.NewStaticLoader(content.SeedActivities())
	if pool != nil {
		loader = contentpg.NewLoader(pool)
	}

	contentTTL := config.TTLDuration(cfg.Content.TTL, 10*time.Minute)
	var catalog app.ActivityRepository
	if redisClient != nil {
		catalog = rediscache.NewRepository(redisClient, loader, contentTTL)
	} else {
		catalog = content.NewRepository(loader, contentTTL)
	}

	var docs store.Store
	if redisClient != nil {
		docTTL := config.TTLDuration(cfg.Redis.TTL, 0)
		docs = redisstore.New(redisClient, docTTL)
	} else {
		docs = memstore.New()
	}

	accounts := app.NewAccountService(docs, logger)
	progress := app.NewProgressService(docs, catalog, logger)
	quizzes := app.NewQuizService(catalog, progress, cfg.DwellConfig(), logger)
	leaderboards := app.NewLeaderboardService(docs, logger)
	wsHandler := transport.NewWSHandler(accounts, quizzes, leaderboards, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws/quiz", wsHandler.ServeQuiz)
	mux.HandleFunc("/ws/leaderboard", wsHandler.ServeLeaderboard)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting cellquest service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
