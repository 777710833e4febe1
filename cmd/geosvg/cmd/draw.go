package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/geosvg/internal/bounds"
	"github.com/beetlebugorg/geosvg/internal/raster"
	"github.com/beetlebugorg/geosvg/pkg/geosvg"
)

var (
	drawOutput      string
	drawBounds      string
	drawCRS         string
	drawInCRS       string
	drawScale       float64
	drawPadding     float64
	drawNoClip      bool
	drawSimplify    float64
	drawPrecision   int
	drawStyle       string
	drawInline      bool
	drawNoViewBox   bool
	drawPointRadius float64
	drawIDField     string
	drawClassFields []string
	drawDataFields  []string
	drawPNG         string
	drawPNGWidth    int
)

var drawCmd = &cobra.Command{
	Use:   "draw FILES...",
	Short: "Draw layers into one SVG",
	Long: `Draw GeoJSON layers into a single SVG document. Layers are drawn in the
order given, each as a <g> element named after the layer.

--crs takes a proj4 string, an EPSG code, a file holding a proj4 string, or
one of the methods file, default, local and utm.

Examples:
  geosvg draw parcels.geojson -o parcels.svg
  geosvg draw --crs EPSG:3857 --scale 10 --precision 1 roads.geojson water.geojson
  geosvg draw --bounds 2.25,48.81,2.42,48.90 --padding 50 --class-fields highway paris.geojson
  geosvg draw --png preview.png --png-width 800 coast.geojson`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDraw,
}

func init() {
	rootCmd.AddCommand(drawCmd)

	f := drawCmd.Flags()
	f.StringVarP(&drawOutput, "output", "o", "", "SVG output file (default stdout)")
	f.StringVar(&drawBounds, "bounds", "", "minx,miny,maxx,maxy in the input CRS")
	f.StringVar(&drawCRS, "crs", "default", "output projection")
	f.StringVar(&drawInCRS, "in-crs", "", "CRS of the data and of --bounds")
	f.Float64Var(&drawScale, "scale", 1, "projected units per output unit")
	f.Float64Var(&drawPadding, "padding", 0, "padding around the drawing, projected units")
	f.BoolVar(&drawNoClip, "no-clip", false, "keep geometries outside the frame")
	f.Float64Var(&drawSimplify, "simplify", 0, "percentage of points to keep (0 disables)")
	f.IntVar(&drawPrecision, "precision", -1, "decimal places for coordinates (-1 unrounded)")
	f.StringVar(&drawStyle, "style", "", "CSS file or CSS text replacing the default style")
	f.BoolVar(&drawInline, "inline", false, "write styles as style attributes")
	f.BoolVar(&drawNoViewBox, "no-viewbox", false, "translate to the origin instead of setting a viewBox")
	f.Float64Var(&drawPointRadius, "point-radius", 1, "circle radius for points")
	f.StringVar(&drawIDField, "id-field", "", "property used as each feature's id")
	f.StringSliceVar(&drawClassFields, "class-fields", nil, "properties turned into field_value classes")
	f.StringSliceVar(&drawDataFields, "data-fields", nil, "properties copied to data-* attributes")
	f.StringVar(&drawPNG, "png", "", "also render a PNG preview to this file")
	f.IntVar(&drawPNGWidth, "png-width", 1024, "PNG width in pixels")
}

func runDraw(cmd *cobra.Command, args []string) error {
	opts, err := drawOptions()
	if err != nil {
		return err
	}

	d, err := geosvg.New(opts)
	if err != nil {
		return err
	}
	res, err := d.Compose(args...)
	if err != nil {
		return err
	}

	out, closeOut, err := output(drawOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, res.SVG); err != nil {
		closeOut()
		return fmt.Errorf("write svg: %w", err)
	}
	if err := closeOut(); err != nil {
		return err
	}

	if len(res.Skipped) > 0 {
		opts.Logger.Warn("features skipped", "count", len(res.Skipped))
	}
	opts.Logger.Info("drawing written", "crs", res.CRS, "bounds", res.Bounds.String(), "layers", len(res.Layers))

	if drawPNG != "" {
		return writePNG(drawPNG, res.SVG, drawPNGWidth)
	}
	return nil
}

func drawOptions() (geosvg.Options, error) {
	opts := geosvg.DefaultOptions()
	opts.Logger = logger()

	if drawBounds != "" {
		p, err := bounds.Parse(drawBounds)
		if err != nil {
			return opts, err
		}
		b, ok := bounds.Validate(p)
		if !ok {
			return opts, fmt.Errorf("bounds: %q is not finite", drawBounds)
		}
		opts.Bounds = []float64{b.MinX, b.MinY, b.MaxX, b.MaxY}
	}

	css, err := readStyle(drawStyle)
	if err != nil {
		return opts, err
	}
	if css != "" {
		opts.Style = css
	}

	opts.Projection = drawCRS
	opts.InputCRS = drawInCRS
	opts.Scale = drawScale
	opts.Padding = drawPadding
	opts.Clip = !drawNoClip
	opts.SimplifyRatio = drawSimplify
	opts.Precision = drawPrecision
	opts.InlineStyle = drawInline
	opts.ViewBox = !drawNoViewBox
	opts.PointRadius = drawPointRadius
	opts.IDField = drawIDField
	opts.ClassFields = drawClassFields
	opts.DataFields = drawDataFields
	return opts, nil
}

func writePNG(path, doc string, width int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := raster.PNG(f, doc, width); err != nil {
		f.Close()
		return fmt.Errorf("png: %w", err)
	}
	return f.Close()
}
