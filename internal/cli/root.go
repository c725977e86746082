package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/bootstrap"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/config"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/logger"
)

var (
	logLevel string
	backend  string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Administer the toyfactory project catalog",
	Long: `catalogctl manages the catalog store configured through the same
environment variables as the service (CATALOG_BACKEND, MONGODB_URI,
POSTGRES_HOST, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		if cmd.Flags().Changed("backend") {
			loaded.Catalog.Backend = backend
			if err := loaded.Validate(); err != nil {
				return err
			}
		}
		// one-shot commands never benefit from the read cache
		loaded.Catalog.CacheSize = 0
		logger.Init(loaded.LogLevel)
		cfg = loaded
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func openStore(ctx context.Context) (*bootstrap.Store, error) {
	return bootstrap.OpenRepository(ctx, cfg)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Override CATALOG_BACKEND (memory, mongo, postgres)")

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(listCmd)
}
