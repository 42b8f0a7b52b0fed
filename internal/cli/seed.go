package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cellquest-service/internal/config"
	"cellquest-service/internal/content"
)

// NewSeedCmd loads the built-in activity catalog into Postgres so the
// server can run with the database loader.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the activities table with the built-in catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := runMigrationsWithConfig(cmd.Context(), cfg, logger); err != nil {
				return err
			}
			db, err := openBun(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			for id, activity := range content.SeedActivities() {
				raw, err := json.Marshal(activity)
				if err != nil {
					return err
				}
				_, err = db.ExecContext(cmd.Context(),
					`INSERT INTO activities (id, data) VALUES (?, ?) ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
					id, string(raw))
				if err != nil {
					return err
				}
				logger.Info("seeded activity", zap.String("id", id))
			}
			return nil
		},
	}
}
