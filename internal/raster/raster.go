// Package raster renders finished drawings to PNG for previews.
package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/beetlebugorg/geosvg/internal/style"
)

// PNG rasterizes doc at the given pixel width, keeping the viewBox aspect
// ratio, and writes it to w. Documents without a viewBox are framed by their
// width and height. Stylesheet rules are inlined first because the rasterizer
// only reads style attributes.
func PNG(w io.Writer, doc string, width int) error {
	if width <= 0 {
		return fmt.Errorf("raster: width must be positive, got %d", width)
	}
	inlined, err := style.Inline(doc, "")
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(inlined), oksvg.IgnoreErrorMode)
	if err != nil {
		return fmt.Errorf("raster: read svg: %w", err)
	}
	vb := icon.ViewBox
	if vb.W <= 0 || vb.H <= 0 {
		return fmt.Errorf("raster: empty frame %vx%v", vb.W, vb.H)
	}

	height := int(math.Ceil(float64(width) * vb.H / vb.W))
	if height < 1 {
		height = 1
	}
	// SetTarget offsets by the viewBox origin before scaling, which misplaces
	// drawings whose origin is not 0,0 (every y-up frame has a negative one).
	icon.Transform = rasterx.Identity.
		Scale(float64(width)/vb.W, float64(height)/vb.H).
		Translate(-vb.X, -vb.Y)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("raster: encode png: %w", err)
	}
	return nil
}
