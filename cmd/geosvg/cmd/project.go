package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/geosvg/internal/bounds"
	"github.com/beetlebugorg/geosvg/internal/crs"
	"github.com/beetlebugorg/geosvg/internal/source"
)

var (
	projectMethod string
	projectBounds string
	projectInCRS  string
)

var projectCmd = &cobra.Command{
	Use:   "project [FILE]",
	Short: "Print the projection draw would use",
	Long: `Resolve a projection method against a layer or a bounding box and print the
resulting proj4 definition.

Examples:
  geosvg project --method utm --bounds -74.05,40.68,-73.9,40.88
  geosvg project --method local coast.geojson
  geosvg project --method default --in-crs EPSG:2263 parcels.geojson`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProject,
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.Flags().StringVarP(&projectMethod, "method", "m", "default",
		"file, default, local, utm, or any projection --crs accepts")
	projectCmd.Flags().StringVar(&projectBounds, "bounds", "", "minx,miny,maxx,maxy in the input CRS")
	projectCmd.Flags().StringVar(&projectInCRS, "in-crs", "", "CRS of the layer and of --bounds")
}

func runProject(cmd *cobra.Command, args []string) error {
	spec, err := crs.ParseSpec(projectMethod)
	if err != nil {
		return err
	}

	var env crs.Env
	if projectInCRS != "" {
		in, err := crs.Parse(projectInCRS)
		if err != nil {
			return err
		}
		env.Native, env.BoundsCRS = in, in
	}

	if len(args) == 1 {
		l, err := source.Open(args[0])
		if err != nil {
			return err
		}
		if env.Native == nil {
			env.Native = crs.WGS84
			if def := l.CRS(); def != "" {
				if env.Native, err = crs.Parse(def); err != nil {
					return err
				}
			}
			env.BoundsCRS = env.Native
		}
		env.Bounds = l.Bounds()
	}

	if projectBounds != "" {
		p, err := bounds.Parse(projectBounds)
		if err != nil {
			return err
		}
		env.Bounds = p
	}
	if env.Native == nil {
		env.Native = crs.WGS84
	}

	out, err := crs.Select(spec, env)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.String())
	return nil
}
