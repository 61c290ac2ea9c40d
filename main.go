package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"quiz_session_backend/internals/configs"
	database "quiz_session_backend/internals/databases"
	"quiz_session_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Load()
	log := configs.NewLogger(cfg.LogLevel, cfg.LogFormat)

	root := &cobra.Command{
		Use:           "quiz-session-backend",
		Short:         "Quiz session backend: random MA/TF quizzes, one scored submission per session",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg, log)
		},
	}
	root.AddCommand(serveCmd(cfg, log), migrateCmd(cfg, log), seedCmd(cfg, log))

	if err := root.Execute(); err != nil {
		log.WithError(err).Error("❌ command failed")
		os.Exit(1)
	}
}

func serveCmd(cfg *configs.AppConfig, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg, log)
		},
	}
}

func migrateCmd(cfg *configs.AppConfig, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, log, func(db *gorm.DB) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
				defer cancel()
				return database.Migrate(ctx, db, log)
			})
		},
	}
}

func seedCmd(cfg *configs.AppConfig, log *logrus.Logger) *cobra.Command {
	var file string
	var migrate bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import the question bank from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, log, func(db *gorm.DB) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
				defer cancel()
				if migrate {
					if err := database.Migrate(ctx, db, log); err != nil {
						return err
					}
				}
				return seeds.RunAllSeeds(ctx, db, file, log)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", seeds.DefaultQuestionsFile, "question bank JSON file")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run migrations before seeding")
	return cmd
}

func withDB(cfg *configs.AppConfig, log *logrus.Logger, fn func(db *gorm.DB) error) error {
	db, err := database.ConnectDB(cfg.DB, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Warn("close db")
		}
	}()
	return fn(db)
}
