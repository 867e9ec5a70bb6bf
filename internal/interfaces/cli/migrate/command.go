// Package migrate exposes the goose migrations as CLI subcommands.
package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/infrastructure/config"
	"github.com/fammo-app/fammo/internal/infrastructure/database"
	"github.com/fammo-app/fammo/internal/infrastructure/migration"
	"github.com/fammo-app/fammo/internal/shared/biztime"
	"github.com/fammo-app/fammo/internal/shared/constants"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

const scriptsDir = "./internal/infrastructure/migration/scripts"

var (
	env   string
	name  string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
	}
	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStrategy(true, func(s *migration.GooseStrategy, db *gorm.DB, log logger.Interface) error {
				log.Infow("rolling back migrations", "environment", env, "steps", steps)
				return s.MigrateDown(db, steps)
			})
		},
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to roll back")

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an empty SQL migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStrategy(false, func(s *migration.GooseStrategy, _ *gorm.DB, _ logger.Interface) error {
				if err := s.Create(name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Migration %q created in %s\n", name, scriptsDir)
				return nil
			})
		},
	}
	create.Flags().StringVarP(&name, "name", "n", "", "Migration name (required)")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStrategy(true, func(s *migration.GooseStrategy, db *gorm.DB, log logger.Interface) error {
					log.Infow("applying migrations", "environment", env)
					return s.Migrate(db)
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "status",
			Short: "Print the applied version and pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStrategy(true, func(s *migration.GooseStrategy, db *gorm.DB, _ logger.Interface) error {
					version, err := s.GetVersion(db)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "environment: %s\ncurrent version: %d\n\n", env, version)
					return s.Status(db, cmd.OutOrStdout())
				})
			},
		},
		create,
	)

	return cmd
}

type migrationTask func(s *migration.GooseStrategy, db *gorm.DB, log logger.Interface) error

// withStrategy loads config, the logger and optionally the database, then
// runs task. Creating a migration file needs no connection.
func withStrategy(needDB bool, task migrationTask) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	scriptsPath, err := filepath.Abs(scriptsDir)
	if err != nil {
		return fmt.Errorf("failed to resolve scripts path: %w", err)
	}
	strategy := migration.NewGooseStrategy(scriptsPath, log)

	var db *gorm.DB
	if needDB {
		if err := database.Init(&cfg.Database); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.Close()
		db = database.Get()
	}

	if err := task(strategy, db, log); err != nil {
		log.Errorw("migration command failed", "environment", env, "error", err)
		return err
	}
	return nil
}
