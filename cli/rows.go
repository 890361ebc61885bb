package cli

import (
	"github.com/gear6io/tableserve/server/database"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "Print the configured table to the terminal",
	Long: `Execute the same fixed query the web page uses and print the row
set as a table. Useful for checking the seed data without a browser.

Examples:
  tableserve rows
  tableserve rows --config deploy/tableserve.yml`,
	RunE: runRows,
}

func init() {
	rootCmd.AddCommand(rowsCmd)
}

func runRows(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	store, err := database.Open(cfg, zerolog.Nop())
	if err != nil {
		pterm.Error.Printfln("Failed to connect: %v", err)
		return err
	}
	defer store.Close()

	rowSet, err := store.FetchRows(cmd.Context())
	if err != nil {
		pterm.Error.Printfln("Query failed: %v", err)
		return err
	}

	data := pterm.TableData{rowSet.Columns}
	for _, row := range rowSet.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if cell.Valid {
				cells[i] = cell.Value
			}
		}
		data = append(data, cells)
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	pterm.Info.Printfln("%d row(s) from %s", len(rowSet.Rows), cfg.GetTable())
	return nil
}
