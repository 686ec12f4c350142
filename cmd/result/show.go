package result

import (
	"fmt"
	"strconv"

	"github.com/drive2go/drive2go/cmd/global"
	"github.com/drive2go/drive2go/internal/ui"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var plot bool

var showCmd = &cobra.Command{
	Use:   "show <runId>",
	Short: "Print the motion results of a routine run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		global.LoadValidConfig()

		p, err := openPersistence()
		if err != nil {
			return err
		}
		run, err := p.LoadRun(args[0])
		if err != nil {
			return err
		}
		results, err := p.LoadResults(run.Id)
		if err != nil {
			return err
		}

		ui.Printfln("Run %s of routine %s: %s", run.Id, run.Routine, run.Status)
		if len(run.Error) > 0 {
			ui.Printfln("Error: %s", run.Error)
		}

		var rows [][]string
		for idx, result := range results {
			rows = append(rows, []string{
				strconv.Itoa(idx),
				string(result.Kind),
				fmt.Sprintf("%.2f", result.Target),
				result.Outcome.String(),
				strconv.Itoa(result.Ticks),
				result.Elapsed.String(),
				fmt.Sprintf("%.3f", result.FinalError),
			})
		}
		tableString, err := global.RenderTable(table.Table{
			Headers: []string{"#", "Kind", "Target", "Outcome", "Ticks", "Elapsed", "Final Error"},
			Rows:    rows,
		})
		if err != nil {
			return err
		}
		ui.Printfln("%s", tableString)

		if !plot {
			return nil
		}
		for idx, result := range results {
			if len(result.ErrorTrace) == 0 {
				continue
			}
			caption := fmt.Sprintf("#%d %s error per tick", idx, result.Kind)
			graph := asciigraph.Plot(result.ErrorTrace, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
			ui.Printfln("")
			ui.Printfln("%s", graph)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVarP(&plot, "plot", "p", false, "Plot the error trace of every motion")
	Command.AddCommand(showCmd)
}
