package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prepdeck/interview-manager/internal/business"
	"github.com/prepdeck/interview-manager/internal/cmdutils"
)

func Cmd(_ string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Interview Manager migrations",
		Long:  "Applies the database migrations for the postgres storage backend.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := cmdutils.Setup(configPath)
			if err != nil {
				return err
			}

			if err := business.MigrateMain(cmd.Context(), cfg); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}

			return nil
		},
	}
}
