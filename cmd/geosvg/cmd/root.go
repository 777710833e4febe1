package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "geosvg",
	Short: "Draw GeoJSON layers as SVG",
	Long: `Draw one or more GeoJSON layers into a single SVG document sharing one
projection and one frame.

Examples:
  geosvg draw coast.geojson rivers.geojson -o map.svg       # Draw in the default projection
  geosvg draw --crs utm --bounds -74.05,40.68,-73.9,40.88 roads.geojson
  geosvg bounds data/*.geojson                                # Show extent and CRS of each layer
  geosvg project --method local roads.geojson                 # Print the projection draw would use`,
	Version:           "0.3.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyConfig,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "geosvg:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"TOML file with flag defaults (keys are flag names)")
}

// logger writes warnings to stderr, or everything with --verbose.
func logger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// applyConfig sets every flag named in the config file that was not given on
// the command line.
func applyConfig(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		return nil
	}
	var values map[string]any
	if _, err := toml.DecodeFile(configPath, &values); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	flags := cmd.Flags()
	for key, v := range values {
		f := flags.Lookup(key)
		if f == nil {
			if cmd.Root().PersistentFlags().Lookup(key) == nil {
				logger().Warn("unknown config key", "key", key, "file", configPath)
			}
			continue
		}
		if f.Changed {
			continue
		}
		if err := setFlag(flags, f, v); err != nil {
			return fmt.Errorf("config %s: %w", key, err)
		}
	}
	return nil
}

func setFlag(flags *pflag.FlagSet, f *pflag.Flag, v any) error {
	switch v := v.(type) {
	case []any:
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = fmt.Sprint(p)
		}
		return flags.Set(f.Name, strings.Join(parts, ","))
	default:
		return flags.Set(f.Name, fmt.Sprint(v))
	}
}

// readStyle returns the contents of arg when it names a file, else arg
// itself as CSS.
func readStyle(arg string) (string, error) {
	if arg == "" {
		return "", nil
	}
	if strings.ContainsAny(arg, "{}") {
		return arg, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("style: %w", err)
	}
	return string(data), nil
}

// output opens path for writing, or returns stdout for "" and "-".
func output(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
