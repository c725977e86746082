package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog/repository"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/config"
)

var schemaApply bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print or apply the Postgres schema",
	Long: `Print the DDL of the projects table.

Examples:
  catalogctl schema
  catalogctl schema --apply --backend postgres`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !schemaApply {
			fmt.Fprint(cmd.OutOrStdout(), repository.Schema)
			return nil
		}
		if cfg.Catalog.Backend != config.BackendPostgres {
			return fmt.Errorf("--apply needs the postgres backend, got %q", cfg.Catalog.Backend)
		}
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Postgres.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
		return nil
	},
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaApply, "apply", false, "Apply the schema to the configured database")
}
