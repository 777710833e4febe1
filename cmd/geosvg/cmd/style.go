package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/geosvg/internal/style"
)

var (
	styleCSS    string
	styleInline bool
	styleOutput string
)

var styleCmd = &cobra.Command{
	Use:   "style SVG",
	Short: "Restyle an existing SVG",
	Long: `Replace the stylesheet of an SVG, or with --inline move every matching rule
into style attributes so viewers without CSS support render it the same.

Examples:
  geosvg style map.svg --style theme.css -o themed.svg
  geosvg style map.svg --inline -o flat.svg`,
	Args: cobra.ExactArgs(1),
	RunE: runStyle,
}

func init() {
	rootCmd.AddCommand(styleCmd)

	styleCmd.Flags().StringVar(&styleCSS, "style", "", "CSS file or CSS text")
	styleCmd.Flags().BoolVar(&styleInline, "inline", false, "inline styles into attributes")
	styleCmd.Flags().StringVarP(&styleOutput, "output", "o", "", "output file (default stdout)")
}

func runStyle(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	css, err := readStyle(styleCSS)
	if err != nil {
		return err
	}
	if css == "" && !styleInline {
		return errors.New("nothing to do: give --style, --inline or both")
	}

	doc := string(data)
	if styleInline {
		doc, err = style.Inline(doc, css)
		if err != nil {
			return fmt.Errorf("inline: %w", err)
		}
	} else {
		doc = style.Inject(doc, css)
	}

	out, closeOut, err := output(styleOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, doc); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}
