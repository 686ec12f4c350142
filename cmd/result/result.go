package result

import (
	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/persistence"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "result",
	Short:            "Inspect stored routine runs and motion results",
	Long:             ``,
	TraverseChildren: true,
}

func openPersistence() (persistence.Persistence, error) {
	p := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
	return p, p.Init()
}
