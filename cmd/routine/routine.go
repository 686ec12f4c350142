package routine

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "routine",
	Short:            "Routine related commands",
	Long:             ``,
	TraverseChildren: true,
}
