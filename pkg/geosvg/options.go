package geosvg

import (
	"log/slog"

	"github.com/beetlebugorg/geosvg/internal/bounds"
	"github.com/beetlebugorg/geosvg/internal/draw"
	"github.com/beetlebugorg/geosvg/internal/source"
	"github.com/beetlebugorg/geosvg/internal/transform"
)

// DefaultStyle is the stylesheet used when Options.Style is not changed.
const DefaultStyle = `polygon, path { fill: none; stroke: #000; stroke-width: 1; stroke-linejoin: round; }
polyline { fill: none; stroke: #000; stroke-width: 1; stroke-linejoin: round; stroke-linecap: round; }
circle { fill: #000; stroke: none; }
`

// Box is a fully known bounding box.
type Box = bounds.Box

// Layer is an opened GeoJSON layer.
type Layer = source.Layer

// Feature is one record of a Layer.
type Feature = source.Feature

// Source opens layers by path. Files reads from disk on every call; a Cache
// keeps decoded layers in memory between compositions.
type Source = source.Opener

// Files is a Source reading straight from disk.
type Files = source.Files

// Cache is a Source keeping recently used layers in memory.
type Cache = source.Cache

// NewCache returns a Cache limited to maxMemoryBytes (0 for unlimited).
func NewCache(maxMemoryBytes int64) *Cache {
	return source.NewCache(maxMemoryBytes)
}

// Simplifier reduces geometries to a percentage of their points. Options
// with a nil Simplifier never simplify.
type Simplifier = transform.Simplifier

// Clipper intersects geometries with the output window. Options with a nil
// Clipper never clip.
type Clipper = transform.Clipper

// Options configures a Drawing.
type Options struct {
	// Bounds limits the drawing to minx, miny, maxx, maxy expressed in the
	// input CRS. Anything other than four finite values means "use the
	// extent of the data".
	Bounds []float64

	// InputCRS overrides the coordinate system of the data and of Bounds.
	// When empty, the first layer's declared CRS is used, falling back to
	// WGS84.
	InputCRS string

	// Projection selects the output system: a proj4 string, EPSG code, the
	// path of a file holding one, or one of the methods "file", "default",
	// "local" and "utm". Empty means "default".
	Projection string

	// Scale is the number of projected units per output unit.
	Scale float64

	// Padding is added to every edge of the output bounds, in projected
	// units.
	Padding float64

	// Clip trims geometries to the output window.
	Clip bool

	// SimplifyRatio is the percentage of points kept per line or ring.
	// 0 and 100 disable simplification.
	SimplifyRatio float64

	// Precision is the number of decimal places written for coordinates.
	// Negative values write them unrounded.
	Precision int

	// Style is the CSS placed in the document's <style> block.
	Style string

	// ViewBox frames the document with a viewBox attribute. When false the
	// outer group is translated to the origin instead.
	ViewBox bool

	// PointRadius is the radius of circles drawn for points.
	PointRadius float64

	// IDField names the property used for each feature's id attribute.
	IDField string

	// ClassFields name properties turned into "field_value" classes.
	ClassFields []string

	// DataFields name properties copied to data-* attributes.
	DataFields []string

	// InlineStyle moves the stylesheet into style attributes.
	InlineStyle bool

	Logger     *slog.Logger
	Source     Source
	Simplifier Simplifier
	Clipper    Clipper
}

// DefaultOptions returns options that draw every feature unscaled in the
// "default" projection, clipped, with the default style.
func DefaultOptions() Options {
	return Options{
		Scale:       1,
		Clip:        true,
		Precision:   -1,
		Style:       DefaultStyle,
		ViewBox:     true,
		PointRadius: draw.DefaultPointRadius,
		Source:      Files{},
		Simplifier:  transform.VisvalingamSimplifier{},
		Clipper:     transform.RectClipper{},
	}
}
