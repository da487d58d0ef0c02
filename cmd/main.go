package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/config"
	pkgconfig "github.com/weiawesome/wes-io-live/spellcheck-service/pkg/config"
	pkglog "github.com/weiawesome/wes-io-live/spellcheck-service/pkg/log"
)

const serviceName = "spellcheck-service"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:          serviceName,
		Short:        "Search views with \"did you mean\" spellcheck suggestions",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", pkgconfig.GetEnv("CONFIG_PATH", "./config"), "Directory containing config.yaml")

	serve := serveCmd()
	rootCmd.RunE = serve.RunE
	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(cacheCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configuration and initializes the structured logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(configPath, "config")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Level == "debug",
		ServiceName: serviceName,
	})
	return cfg, nil
}
