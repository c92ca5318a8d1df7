// oggen stamps per-post Open Graph tags into static copies of the built SPA
// shell. It runs once after the production build; failures are logged and
// never fail the build.
package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/swairua/kennedynespot/internal/config"
	"github.com/swairua/kennedynespot/internal/logger"
	"github.com/swairua/kennedynespot/internal/oggen"
	"github.com/swairua/kennedynespot/internal/repository/storage"
)

func main() {
	var (
		configFile string
		distDir    string
		siteURL    string
	)

	root := &cobra.Command{
		Use:   "oggen",
		Short: "Generate static blog pages with per-post Open Graph tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			if err := cfg.Read(configFile); err != nil {
				return err
			}
			if distDir != "" {
				cfg.Site.DistDir = distDir
			}
			if siteURL != "" {
				cfg.Site.BaseURL = siteURL
			}

			lg, err := logger.New(cfg.LogMode)
			if err != nil {
				return err
			}
			defer lg.Sync()

			ctx := context.Background()
			repo, err := storage.New(ctx, cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer repo.Close()

			return oggen.New(repo, cfg.Site, lg).Run(ctx)
		},
	}

	root.Flags().StringVarP(&configFile, "config", "c", "config.json", "path to config file")
	root.Flags().StringVar(&distDir, "dist", "", "built SPA output directory (overrides config)")
	root.Flags().StringVar(&siteURL, "site-url", "", "site base url (overrides config)")

	if err := root.Execute(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}
