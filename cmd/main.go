package main

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"vision-inspector/config"
)

var rootCmd = &cobra.Command{
	Use:   "vision-inspector",
	Short: "Defect inspection service for product photos",
	Long: `vision-inspector runs a pretrained object detector over product photos,
keeps a history of inspections for the running session and exports quality reports.

Configuration is read from the environment (.env supported) and an optional
YAML file named by VISION_CONFIG_FILE.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig загружает конфигурацию и создаёт корневой логгер
func loadConfig() (*config.Config, *log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "vision-inspector",
	})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.LogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	return cfg, logger, nil
}
