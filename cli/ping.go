package cli

import (
	"time"

	"github.com/gear6io/tableserve/server/database"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the database is reachable",
	Long: `Probe the configured database until it accepts connections.

The composition only orders container startup; the database may not be ready
the moment the web service comes up. This command retries for that window.

Examples:
  tableserve ping
  tableserve ping --retries 10 --interval 2s`,
	RunE: runPing,
}

type pingOptions struct {
	retries  int
	interval time.Duration
}

var pingOpts = &pingOptions{}

func init() {
	rootCmd.AddCommand(pingCmd)

	pingCmd.Flags().IntVar(&pingOpts.retries, "retries", 5, "number of connection attempts")
	pingCmd.Flags().DurationVar(&pingOpts.interval, "interval", time.Second, "wait between attempts")
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	var lastErr error
	for attempt := 1; attempt <= pingOpts.retries; attempt++ {
		store, err := database.Open(cfg, zerolog.Nop())
		if err == nil {
			err = store.Ping(cmd.Context())
			store.Close()
		}
		if err == nil {
			pterm.Success.Printfln("Database %s@%s:%d is reachable (attempt %d)",
				cfg.Database.Name, cfg.Database.Host, cfg.Database.Port, attempt)
			return nil
		}

		lastErr = err
		pterm.Warning.Printfln("Attempt %d/%d failed: %v", attempt, pingOpts.retries, err)
		if attempt < pingOpts.retries {
			select {
			case <-time.After(pingOpts.interval):
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
		}
	}

	pterm.Error.Printfln("Database unreachable after %d attempts", pingOpts.retries)
	return lastErr
}
