package cmd

import (
	"fmt"
	"os"

	"github.com/drive2go/drive2go/cmd/actuator"
	"github.com/drive2go/drive2go/cmd/config"
	"github.com/drive2go/drive2go/cmd/global"
	"github.com/drive2go/drive2go/cmd/result"
	"github.com/drive2go/drive2go/cmd/routine"
	"github.com/drive2go/drive2go/cmd/sensor"
	"github.com/drive2go/drive2go/cmd/tune"
	"github.com/drive2go/drive2go/internal"
	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var routineId string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "drive2go",
	Short: "A motion control daemon for differential drive robots.",
	Long: `drive2go drives a differential drive robot using PID controllers
for distance and heading, and executes configured routines of motions.`,
	// this is the default command to run when no subcommand is specified
	Run: func(cmd *cobra.Command, args []string) {
		setupUi()
		printHeader()

		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()
		err := configuration.Validate()
		if err != nil {
			ui.Error("Config Validation Error: %v", err)
			os.Exit(1)
		}

		internal.RunDaemon(routineId)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "c", "", "config file (default is $HOME/.drive2go.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")
	rootCmd.Flags().StringVarP(&routineId, "routine", "r", "", "Routine to execute, the daemon exits when it has finished")

	rootCmd.AddCommand(config.Command)

	rootCmd.AddCommand(routine.Command)
	rootCmd.AddCommand(tune.Command)
	rootCmd.AddCommand(result.Command)
	rootCmd.AddCommand(actuator.Command)
	rootCmd.AddCommand(sensor.Command)
}

func setupUi() {
	ui.SetDebugEnabled(global.Verbose)

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

// Print a large text with the LetterStyle from the standard theme.
func printHeader() {
	err := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("drive", pterm.NewStyle(pterm.FgLightBlue)),
		pterm.NewLettersFromStringWithStyle("2", pterm.NewStyle(pterm.FgWhite)),
		pterm.NewLettersFromStringWithStyle("go", pterm.NewStyle(pterm.FgLightBlue)),
	).Render()
	if err != nil {
		fmt.Println("drive2go")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(func() {
		configuration.InitConfig(global.CfgFile)
		setupUi()
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
