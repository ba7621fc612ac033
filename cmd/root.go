package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrisurvey/soilreport/internal/config"
	"github.com/agrisurvey/soilreport/internal/grading"
	"github.com/agrisurvey/soilreport/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "soilreport",
	Short: "Soil survey attribute grading and statistics",
	Long:  "Classifies soil survey attributes against grading standards and aggregates per-grade statistics by region, land use and soil type.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newRegistry builds the standard registry from the builtins plus any YAML
// standards in the configured directory, and applies the configured active
// standard.
func newRegistry() *grading.Registry {
	reg := grading.NewRegistry()
	if cfg.Standards.Dir != "" {
		if err := reg.LoadDir(cfg.Standards.Dir); err != nil {
			zap.L().Warn("load standards directory",
				zap.String("dir", cfg.Standards.Dir),
				zap.Error(err),
			)
		}
	}
	if cfg.Standards.Active != "" && !reg.SetActive(cfg.Standards.Active) {
		zap.L().Warn("configured active standard not found",
			zap.String("standard", cfg.Standards.Active),
		)
	}
	return reg
}

// openStore opens the configured store backend and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
