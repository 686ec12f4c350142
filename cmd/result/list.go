package result

import (
	"fmt"
	"time"

	"github.com/drive2go/drive2go/cmd/global"
	"github.com/drive2go/drive2go/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored routine runs, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		global.LoadValidConfig()

		p, err := openPersistence()
		if err != nil {
			return err
		}
		runs, err := p.ListRuns()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			ui.Info("No runs stored yet")
			return nil
		}

		var rows [][]string
		for _, run := range runs {
			duration := ""
			if !run.FinishedAt.IsZero() {
				duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
			}
			rows = append(rows, []string{
				run.Id,
				run.Routine,
				string(run.Status),
				run.StartedAt.Format(time.RFC3339),
				duration,
				fmt.Sprintf("%d/%d", run.Converged, run.Motions),
				fmt.Sprintf("%d", run.TimedOut),
			})
		}

		tableString, err := global.RenderTable(table.Table{
			Headers: []string{"ID", "Routine", "Status", "Started", "Duration", "Converged", "Timed out"},
			Rows:    rows,
		})
		if err != nil {
			return err
		}
		ui.Printfln("%s", tableString)
		return nil
	},
}

func init() {
	Command.AddCommand(listCmd)
}
