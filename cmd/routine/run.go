package routine

import (
	"errors"
	"fmt"

	"github.com/drive2go/drive2go/cmd/global"
	"github.com/drive2go/drive2go/internal"
	"github.com/drive2go/drive2go/internal/routine"
	"github.com/drive2go/drive2go/internal/ui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <id>",
	Short: "Execute a routine in the foreground",
	Long:  `Executes the given routine once and prints its results. SIGINT cancels the running motion.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		global.LoadValidConfig()

		report, err := internal.RunRoutine(args[0])
		for idx, result := range report.Results {
			ui.Printfln("%d: %s target=%.2f outcome=%s ticks=%d elapsed=%s finalError=%.3f",
				idx, result.Kind, result.Target, result.Outcome, result.Ticks, result.Elapsed, result.FinalError)
		}
		switch {
		case err == nil:
			ui.Success("Routine %s completed (%d/%d converged)", args[0], report.Run.Converged, report.Run.Motions)
			return nil
		case errors.Is(err, routine.ErrCancelled):
			ui.Warning("Routine %s was cancelled", args[0])
			return nil
		default:
			return fmt.Errorf("routine %s failed: %w", args[0], err)
		}
	},
}

func init() {
	Command.AddCommand(runCmd)
}
