package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/alexiusacademia/gorebar/internal/config"
	"github.com/alexiusacademia/gorebar/internal/diagram"
	"github.com/alexiusacademia/gorebar/internal/mass"
	"github.com/alexiusacademia/gorebar/internal/report"
	"github.com/alexiusacademia/gorebar/internal/selection"
	"github.com/alexiusacademia/gorebar/internal/units"
	"github.com/spf13/cobra"
)

var (
	massFile        string
	massBreakdown   bool
	massShowDiagram bool
	massPlane       string
	massExportFile  string
	massReportFile  string
	massXLSXFile    string
	massJSON        bool
)

var massCmd = &cobra.Command{
	Use:   "mass",
	Short: "Compute the mass and center of gravity of a rebar selection",
	Long: `Compute the total steel mass and the 3D center of gravity of the
rebar elements in a selection file.

Elements whose category is not "rebar" are skipped. Every length in the
file is read in the selection's unit. A unit set with --unit, GOREBAR_UNIT
or the config file overrides it; millimeters apply when neither names one.

Examples:
  gorebar mass --file slab.json
  gorebar mass -f footing.toml --breakdown --diagram
  gorebar mass -f schedule.xlsx --unit ft --report cog.pdf --xlsx cog.xlsx
  gorebar mass -f slab.json --json`,
	RunE: runMass,
}

func init() {
	rootCmd.AddCommand(massCmd)

	massCmd.Flags().StringVarP(&massFile, "file", "f", "", "Path to selection file (json, toml, xlsx) [required]")
	massCmd.MarkFlagRequired("file")

	massCmd.Flags().BoolVar(&massBreakdown, "breakdown", false, "Show mass and centroid of every bar position")
	massCmd.Flags().BoolVar(&massJSON, "json", false, "Print the result as JSON")

	// Diagram options
	massCmd.Flags().BoolVar(&massShowDiagram, "diagram", false, "Show ASCII diagram of the selection")
	massCmd.Flags().StringVar(&massPlane, "plane", "xy", "Projection plane for diagrams (xy, xz, yz)")
	massCmd.Flags().StringVarP(&massExportFile, "output", "o", "", "Export diagram to file (png, svg, pdf)")

	// Report options
	massCmd.Flags().StringVar(&massReportFile, "report", "", "Write a PDF report")
	massCmd.Flags().StringVar(&massXLSXFile, "xlsx", "", "Write an XLSX breakdown")
}

// computation is one selection file run through the engine.
type computation struct {
	path    string
	sel     *selection.Selection
	system  units.System
	rebars  []mass.Rebar
	dropped int
	result  *mass.Result
}

// compute loads the selection at path and computes its mass and center of
// gravity with cfg.
func compute(cfg config.Config, path string) (*computation, error) {
	sel, err := selection.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading selection: %w", err)
	}
	system, err := cfg.SystemFor(sel.Unit)
	if err != nil {
		return nil, err
	}
	rebars, err := sel.Bars()
	if err != nil {
		return nil, err
	}
	_, dropped := sel.Filter()

	start := time.Now()
	res, err := cfg.Engine(system).Compute(rebars)
	if err != nil {
		return nil, err
	}
	slog.Debug("mass computed", "rebars", len(rebars), "dropped", dropped, "elapsed", time.Since(start))

	return &computation{
		path:    path,
		sel:     sel,
		system:  system,
		rebars:  rebars,
		dropped: dropped,
		result:  res,
	}, nil
}

func runMass(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	plane, err := diagram.ParsePlane(massPlane)
	if err != nil {
		return err
	}

	c, err := compute(cfg, massFile)
	if err != nil {
		return fmt.Errorf("Error computing mass: %w", err)
	}

	if massJSON {
		out := report.NewOutput(c.result, c.system, cfg.Precision)
		out.Name = c.sel.Name
		out.Dropped = c.dropped
		if err := report.WriteJSON(os.Stdout, out); err != nil {
			return err
		}
	} else {
		printMassReport(cfg, c, massBreakdown)
	}

	if massShowDiagram || massExportFile != "" {
		data, err := diagram.FromResult(c.sel.Name, c.system.Name, plane, c.rebars, c.result)
		if err != nil {
			return fmt.Errorf("building diagram: %w", err)
		}
		if massShowDiagram && !massJSON {
			fmt.Println("SELECTION DIAGRAM:")
			fmt.Println("───────────────────────────────────────────────────────────────")
			fmt.Println(diagram.DrawASCIICoGDiagram(data))
		}
		if massExportFile != "" {
			if err := diagram.ExportCoGDiagram(data, massExportFile); err != nil {
				return fmt.Errorf("exporting diagram: %w", err)
			}
			fmt.Fprintf(os.Stderr, "  Diagram exported to: %s\n", massExportFile)
		}
	}

	if massReportFile != "" || massXLSXFile != "" {
		summary := report.Summary{
			Title:     c.sel.Name,
			Source:    filepath.Base(c.path),
			Unit:      c.system.Name,
			Density:   cfg.Density,
			ArcModel:  cfg.ArcModel,
			Precision: cfg.Precision,
			Generated: time.Now(),
			Result:    c.result,
		}
		if massReportFile != "" {
			if err := report.SavePDF(massReportFile, summary); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			fmt.Fprintf(os.Stderr, "  Report written to: %s\n", massReportFile)
		}
		if massXLSXFile != "" {
			if err := report.SaveXLSX(massXLSXFile, summary); err != nil {
				return fmt.Errorf("writing breakdown: %w", err)
			}
			fmt.Fprintf(os.Stderr, "  Breakdown written to: %s\n", massXLSXFile)
		}
	}

	return nil
}

func printMassReport(cfg config.Config, c *computation, breakdown bool) {
	res := c.result
	unit := c.system.Name

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     REBAR MASS AND CENTER OF GRAVITY")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	if c.sel.Name != "" {
		fmt.Printf("  Selection: %s\n", c.sel.Name)
	}
	if c.sel.Description != "" {
		fmt.Printf("  Description: %s\n", c.sel.Description)
	}
	fmt.Println()

	fmt.Println("SETTINGS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Length unit:\t%s (%s)\n", c.system.Name, c.system.Label)
	fmt.Fprintf(w, "  Steel density:\t%.0f kg/m³ (%.6g kg/%s³)\n", cfg.Density, c.system.Density(cfg.Density), unit)
	fmt.Fprintf(w, "  Arc model:\t%s\n", cfg.ArcModel)
	fmt.Fprintf(w, "  Rebar elements:\t%d\n", len(c.rebars))
	if c.dropped > 0 {
		fmt.Fprintf(w, "  Skipped (not rebar):\t%d\n", c.dropped)
	}
	w.Flush()
	fmt.Println()

	fmt.Println("REBARS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ID\tDia. (%s)\tBars\tMass (kg)\tCentroid (%s)\n", unit, unit)
	fmt.Fprintf(w, "  ──\t─────────\t────\t─────────\t─────────────\n")
	for _, r := range res.Rebars {
		fmt.Fprintf(w, "  %s\t%g\t%d\t%.*f\t%s\n",
			r.ID, r.Diameter, len(r.Positions), cfg.Precision, r.Mass, formatPoint(r.Location.X, r.Location.Y, r.Location.Z))
	}
	w.Flush()
	fmt.Println()

	if breakdown {
		fmt.Println("BAR POSITIONS:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  ID\tPosition\tMass (kg)\tCentroid (%s)\n", unit)
		fmt.Fprintf(w, "  ──\t────────\t─────────\t─────────────\n")
		for _, r := range res.Rebars {
			for _, p := range r.Positions {
				fmt.Fprintf(w, "  %s\t%d\t%.*f\t%s\n",
					r.ID, p.Index, cfg.Precision+2, p.Mass, formatPoint(p.Location.X, p.Location.Y, p.Location.Z))
			}
		}
		w.Flush()
		fmt.Println()
	}

	fmt.Print(diagram.DrawSummaryBox("CENTER OF GRAVITY", []string{
		fmt.Sprintf("X = %.3f %s", res.Location.X, unit),
		fmt.Sprintf("Y = %.3f %s", res.Location.Y, unit),
		fmt.Sprintf("Z = %.3f %s", res.Location.Z, unit),
		fmt.Sprintf("Total mass = %.6g kg", res.TotalMass),
	}))
	fmt.Println()

	fmt.Printf("  %s\n", massMessage(res.TotalMass, cfg.Precision))
	fmt.Println()
}

// massMessage is the one-line result shown after every computation.
func massMessage(totalMass float64, precision int) string {
	return fmt.Sprintf("Calculated mass: %.*f kg.", precision, units.Round(totalMass, precision))
}

func formatPoint(x, y, z float64) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", x, y, z)
}
