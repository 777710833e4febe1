package transform

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/simplify"

	"github.com/beetlebugorg/geosvg/internal/bounds"
)

// Clipper intersects a geometry with a rectangle. Implementations must not
// fail: invalid input comes back unchanged. A nil return means nothing is
// left inside the window.
type Clipper interface {
	Clip(g orb.Geometry, window bounds.Box) orb.Geometry
}

// Simplifier reduces a geometry to roughly ratio percent of its points,
// 0 < ratio <= 100.
type Simplifier interface {
	Simplify(g orb.Geometry, ratio float64) orb.Geometry
}

// RectClipper clips with orb/clip.
type RectClipper struct{}

// Clip implements Clipper.
func (RectClipper) Clip(g orb.Geometry, window bounds.Box) (out orb.Geometry) {
	defer func() {
		if recover() != nil {
			out = g
		}
	}()
	out = clip.Geometry(window.Bound(), orb.Clone(g))
	if out == nil || empty(out) {
		return nil
	}
	return out
}

func empty(g orb.Geometry) bool {
	switch g := g.(type) {
	case orb.MultiPoint:
		return len(g) == 0
	case orb.LineString:
		return len(g) == 0
	case orb.MultiLineString:
		for _, ls := range g {
			if len(ls) > 0 {
				return false
			}
		}
		return true
	case orb.Ring:
		return len(g) == 0
	case orb.Polygon:
		return len(g) == 0 || len(g[0]) == 0
	case orb.MultiPolygon:
		for _, p := range g {
			if !empty(p) {
				return false
			}
		}
		return true
	case orb.Collection:
		for _, m := range g {
			if m != nil && !empty(m) {
				return false
			}
		}
		return true
	}
	return false
}

// VisvalingamSimplifier simplifies each line and ring independently with
// orb's Visvalingam implementation, keeping a share of its points.
type VisvalingamSimplifier struct{}

// Simplify implements Simplifier. Rings keep at least 4 points and lines at
// least 2.
func (v VisvalingamSimplifier) Simplify(g orb.Geometry, ratio float64) orb.Geometry {
	switch g := g.(type) {
	case orb.LineString:
		return line(g, ratio)
	case orb.MultiLineString:
		for i := range g {
			g[i] = line(g[i], ratio)
		}
		return g
	case orb.Ring:
		return ring(g, ratio)
	case orb.Polygon:
		for i := range g {
			g[i] = ring(g[i], ratio)
		}
		return g
	case orb.MultiPolygon:
		for i := range g {
			g[i] = v.Simplify(g[i], ratio).(orb.Polygon)
		}
		return g
	case orb.Collection:
		for i := range g {
			g[i] = v.Simplify(g[i], ratio)
		}
		return g
	}
	return g
}

func keep(n int, ratio float64, least int) int {
	k := int(math.Ceil(float64(n) * ratio / 100))
	if k < least {
		k = least
	}
	return k
}

func line(ls orb.LineString, ratio float64) orb.LineString {
	return simplify.VisvalingamKeep(keep(len(ls), ratio, 2)).LineString(ls)
}

func ring(r orb.Ring, ratio float64) orb.Ring {
	return simplify.VisvalingamKeep(keep(len(r), ratio, 4)).Ring(r)
}
