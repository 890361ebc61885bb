package cli

import (
	"github.com/gear6io/tableserve/server/config"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "tableserve",
	Short: "A web service that renders a database table as HTML",
	Long: `Tableserve is a small containerized web service. It connects to a
pre-seeded PostgreSQL database, executes one fixed read-only query, and
renders the resulting rows as an HTML table on its root page.

Configuration comes from a YAML file plus environment overrides
(POSTGRES_* and TABLESERVE_*), matching the container composition.`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves the effective configuration: file if present, defaults
// otherwise, env overrides always applied last.
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		cfg = config.LoadDefaultConfig()
	}
	return config.FromEnv(cfg)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "tableserve.yml", "path to config file")
}
