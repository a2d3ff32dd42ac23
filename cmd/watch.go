package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexiusacademia/gorebar/internal/watch"
	"github.com/spf13/cobra"
)

var watchFile string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompute mass and center of gravity whenever a selection file changes",
	Long: `Watch a selection file and print a fresh mass report every time it
is saved. Stop with Ctrl+C.

Examples:
  gorebar watch --file slab.json
  gorebar watch -f footing.toml --unit cm`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFile, "file", "f", "", "Path to selection file (json, toml, xlsx) [required]")
	watchCmd.MarkFlagRequired("file")
	watchCmd.Flags().BoolVar(&massBreakdown, "breakdown", false, "Show mass and centroid of every bar position")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w, err := watch.NewWatcher(watchFile)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watching %s: %w", watchFile, err)
	}
	defer w.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	recompute := func() {
		c, err := compute(cfg, watchFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing mass: %v\n", err)
			return
		}
		printMassReport(cfg, c, massBreakdown)
	}

	recompute()
	fmt.Fprintf(os.Stderr, "  Watching %s (Ctrl+C to stop)\n", w.File)

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if change.Removed {
				slog.Warn("selection file removed", "file", change.File)
				continue
			}
			slog.Debug("selection file changed", "file", change.File)
			recompute()
		}
	}
}
