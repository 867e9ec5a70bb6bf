package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fammo-app/fammo/internal/interfaces/cli/maintenance"
	"github.com/fammo-app/fammo/internal/interfaces/cli/migrate"
	"github.com/fammo-app/fammo/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fammo",
		Short: "FAMMO - pet care platform backend",
		Long:  `FAMMO serves the pet care API: clinic search and referrals, pet onboarding and metered AI recommendations.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		maintenance.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
