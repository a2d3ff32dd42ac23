package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gorebar/internal/units"
	"github.com/spf13/cobra"
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List supported length units",
	Long: `List the working length units a selection may be expressed in,
with the configured steel density converted to kg per cubic unit.

Examples:
  gorebar units
  gorebar units --density 7800`,
	RunE: runUnits,
}

func init() {
	rootCmd.AddCommand(unitsCmd)
}

func runUnits(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("LENGTH UNITS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Name\tUnit\tMeters\tPer meter\tDensity (kg/unit³)\n")
	fmt.Fprintf(w, "  ────\t────\t──────\t─────────\t──────────────────\n")
	for _, s := range units.All() {
		marker := ""
		if s.Name == cfg.System().Name {
			marker = "  (default)"
		}
		fmt.Fprintf(w, "  %s\t%s\t%g\t%.6g\t%.10g%s\n", s.Label, s.Name, s.ToMeters(1), s.FromMeters(1), s.Density(cfg.Density), marker)
	}
	w.Flush()
	fmt.Println()
	return nil
}
