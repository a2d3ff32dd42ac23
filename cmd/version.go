package cmd

import (
	"fmt"

	"github.com/alexiusacademia/gorebar/internal/units"
	"github.com/alexiusacademia/gorebar/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gorebar",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gorebar v%s\n", version.Version)
		fmt.Println("Rebar Mass and Center of Gravity Calculator")
		fmt.Printf("Default steel density: %.0f kg/m³\n", units.SteelDensity)
		if version.GitCommit != "unknown" {
			fmt.Printf("Commit: %s (built %s)\n", version.GitCommit, version.BuildTime)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
