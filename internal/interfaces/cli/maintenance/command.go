// Package maintenance holds one-off operational commands. Each one runs a
// single use case against the configured database and exits.
package maintenance

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	clinicUsecases "github.com/fammo-app/fammo/internal/application/clinic/usecases"
	referralUsecases "github.com/fammo-app/fammo/internal/application/referral/usecases"
	usageUsecases "github.com/fammo-app/fammo/internal/application/usage/usecases"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/infrastructure/config"
	"github.com/fammo-app/fammo/internal/infrastructure/database"
	"github.com/fammo-app/fammo/internal/infrastructure/geocoding"
	"github.com/fammo-app/fammo/internal/infrastructure/repository"
	"github.com/fammo-app/fammo/internal/infrastructure/seed"
	"github.com/fammo-app/fammo/internal/shared/biztime"
	"github.com/fammo-app/fammo/internal/shared/constants"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

var (
	env       string
	force     bool
	limit     int
	plansFile string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Operational maintenance tasks",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")

	cmd.AddCommand(
		newResetUsageCommand(),
		newReferralCodesCommand(),
		newGeocodeCommand(),
		newSeedPlansCommand(),
	)

	return cmd
}

func newResetUsageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-ai-usage",
		Short: "Roll AI usage rows from earlier months into the current month",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) error {
				uc := usageUsecases.NewResetStaleUsageUseCase(repository.NewAIUsageRepository(db, log), log)
				res, err := uc.Execute(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d usage rows into %s\n", res.RowsAffected, res.Month)
				return nil
			})
		},
	}
}

func newReferralCodesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-missing-referral-codes",
		Short: "Mint a referral code for every confirmed clinic without an active one",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) error {
				settings := referralUsecases.Settings{
					SiteURL:     cfg.Referral.SiteURL,
					MaxAttempts: cfg.Referral.MaxAttempts,
					PendingTTL:  cfg.Referral.PendingTTL(),
				}
				generator := clinic.NewCodeGenerator(cfg.Referral.CodePrefix, cfg.Referral.SlugMaxLength, cfg.Referral.SuffixLength)
				minter := referralUsecases.NewCodeMinter(repository.NewReferralCodeRepository(db, log), generator, settings, log)
				uc := referralUsecases.NewCreateMissingReferralCodesUseCase(repository.NewClinicRepository(db, log), minter, log)

				created, err := uc.Execute(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %d referral codes\n", created)
				return nil
			})
		},
	}
}

func newGeocodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geocode-clinics",
		Short: "Look up coordinates for clinics from their address",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) error {
				geocoder := geocoding.NewNominatimClient(cfg.Geocoding, log)
				uc := clinicUsecases.NewGeocodeClinicsUseCase(repository.NewClinicRepository(db, log), geocoder, log)

				res, err := uc.Execute(ctx, clinicUsecases.GeocodeClinicsCommand{Force: force, Limit: limit})
				if res != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Processed %d clinics: %d updated, %d without coordinates\n",
						res.Processed, res.Updated, res.Failed)
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-geocode clinics that already have coordinates")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of clinics to process (0 = all)")

	return cmd
}

func newSeedPlansCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-plans",
		Short: "Create or update subscription plans from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := seed.LoadPlansFile(plansFile)
			if err != nil {
				return err
			}
			return withDB(func(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) error {
				uc := usageUsecases.NewSeedPlansUseCase(repository.NewSubscriptionPlanRepository(db, log), log)
				n, err := uc.Execute(ctx, plans)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d plans from %s\n", n, plansFile)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&plansFile, "file", "f", "./configs/plans.yaml", "Plans definition file")

	return cmd
}

type task func(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) error

func withDB(fn task) error {
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

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	return fn(context.Background(), database.Get(), cfg, log)
}
