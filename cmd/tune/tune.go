package tune

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "tune",
	Short:            "Controller tuning helpers",
	Long:             ``,
	TraverseChildren: true,
}
