package routine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/drive2go/drive2go/cmd/global"
	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/routine"
	"github.com/drive2go/drive2go/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
	"gopkg.in/yaml.v3"
)

var outputFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the configured routines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		global.LoadValidConfig()

		switch outputFormat {
		case "yaml":
			return printYaml(configuration.CurrentConfig.Routines)
		case "table", "":
			return printTable(configuration.CurrentConfig.Routines)
		default:
			return fmt.Errorf("unsupported output format: %s", outputFormat)
		}
	},
}

func printYaml(routines []configuration.RoutineConfig) error {
	out, err := yaml.Marshal(routines)
	if err != nil {
		return err
	}
	ui.Printfln("%s", string(out))
	return nil
}

func printTable(configs []configuration.RoutineConfig) error {
	routines, err := routine.NewRoutines(configs)
	if err != nil {
		return err
	}

	var rows [][]string
	for _, r := range routines {
		var steps []string
		for _, step := range r.Steps {
			steps = append(steps, step.String())
		}
		rows = append(rows, []string{
			r.Id,
			string(r.OnTimeout),
			strconv.Itoa(len(r.Steps)),
			strings.Join(steps, ", "),
		})
	}

	tableString, err := global.RenderTable(table.Table{
		Headers: []string{"ID", "On Timeout", "Steps", "Sequence"},
		Rows:    rows,
	})
	if err != nil {
		return err
	}
	ui.Printfln("%s", tableString)
	return nil
}

func init() {
	listCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format, one of: table, yaml")
	Command.AddCommand(listCmd)
}
