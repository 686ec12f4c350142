package result

import (
	"github.com/drive2go/drive2go/cmd/global"
	"github.com/drive2go/drive2go/internal/ui"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <runId>",
	Short: "Delete a stored routine run and its results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		global.LoadValidConfig()

		p, err := openPersistence()
		if err != nil {
			return err
		}
		if err := p.DeleteRun(args[0]); err != nil {
			return err
		}
		ui.Success("Deleted run %s", args[0])
		return nil
	},
}

func init() {
	Command.AddCommand(deleteCmd)
}
