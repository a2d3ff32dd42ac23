package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/alexiusacademia/gorebar/internal/config"
	"github.com/alexiusacademia/gorebar/internal/version"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "gorebar",
	Short: "Rebar mass and center of gravity calculator",
	Long: `gorebar - Go Rebar Mass and Center of Gravity Calculator

A CLI tool that computes the total steel mass and the 3D center of
gravity of a selection of reinforcing bars.

Each rebar is a circular cross-section swept along a centerline made of
straight lines and circular arcs. Bar sets may hold many parallel
positions, some of which can be absent.

Selections are read from JSON, TOML or XLSX files.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gorebar v%-47s║\n", version.Version)
		fmt.Println("  ║   Go Rebar Mass and Center of Gravity Calculator          ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Computes the steel mass and center of gravity of rebar")
		fmt.Println("  selections defined in JSON, TOML or XLSX files.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Straight and arc centerline segments")
		fmt.Println("    • Bar sets with uniform or variable-length positions")
		fmt.Println("    • Millimeter, centimeter, meter, inch and foot units")
		fmt.Println("    • ASCII and image diagrams, PDF and XLSX reports")
		fmt.Println("    • File watching and an HTTP API")
		fmt.Println()
		fmt.Println("  Use 'gorebar --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().String("config", "", "config file (default .gorebar.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("unit", "", "working length unit, overrides the selection file (mm, cm, m, in, ft)")
	rootCmd.PersistentFlags().Float64("density", 0, "steel density in kg/m³")
	rootCmd.PersistentFlags().String("arc-model", "", "arc centroid model (annular, toroidal)")
	rootCmd.PersistentFlags().Int("workers", 0, "rebars computed concurrently (0 = all)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("unit", rootCmd.PersistentFlags().Lookup("unit"))
	_ = viper.BindPFlag("density", rootCmd.PersistentFlags().Lookup("density"))
	_ = viper.BindPFlag("arc_model", rootCmd.PersistentFlags().Lookup("arc-model"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
}

func initConfig() {
	// A missing .env is fine; anything else is worth a warning.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}

	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".gorebar")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("GOREBAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// loadConfig reads the merged configuration and installs the default
// logger at the configured level.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	lvl, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	if f := viper.ConfigFileUsed(); f != "" {
		slog.Debug("config loaded", "file", f)
	}
	return cfg, nil
}
