package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "empleo",
	Short: "Graduate employability dashboard",
	Long:  "Joins graduate records with labor, property, asset and location data and serves employability pages as JSON, PNG charts and XLSX exports.",
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

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
