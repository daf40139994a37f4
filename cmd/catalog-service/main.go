package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/iyhunko/product-catalog/internal/config"
	"github.com/iyhunko/product-catalog/internal/logger"
	reposql "github.com/iyhunko/product-catalog/internal/repository/sql"
	"github.com/iyhunko/product-catalog/internal/service"
	"github.com/spf13/cobra"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:           "catalog-service",
	Short:         "Product catalog API with full-text search",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides "+config.DBPathEnv+")")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", slog.Any("err", err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and sets up the default logger.
func loadConfig() (*config.Config, error) {
	conf, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if dbPath != "" {
		conf.Database.Path = dbPath
	}
	logger.InitJSONLogger(conf.DebugMode)
	return conf, nil
}

// bootDB loads config and opens the migrated database.
func bootDB(ctx context.Context) (*config.Config, *sql.DB, error) {
	conf, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := reposql.StartDB(ctx, conf.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("starting database: %w", err)
	}
	return conf, db, nil
}

func newProductService(db *sql.DB) *service.ProductService {
	return service.NewProductService(
		reposql.NewProductRepository(db),
		reposql.NewTransactionalRepository(db),
		nil,
	)
}
