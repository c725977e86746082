package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install the demo projects into an empty catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := repository.Seed(cmd.Context(), store.Repo, catalog.DemoProjects(time.Now()))
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "catalog is not empty, nothing seeded")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d projects\n", n)
		return nil
	},
}
