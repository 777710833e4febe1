// Package bounds implements the bounding box algebra used to derive the output
// frame of a drawing: validation, merging, padding, containment and
// reprojection through a densified ring.
package bounds

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/floats"
)

// DefaultPadding is the amount Pad adds to every edge when no padding is given.
const DefaultPadding = 100.0

// ringSteps is the number of segments each edge is split into by Ring.
const ringSteps = 10

// ErrNoTransform is returned by Reproject when no coordinate transform is available.
var ErrNoTransform = errors.New("bounds: no transform between coordinate systems")

// Box is an axis-aligned bounding box whose four edges are all known.
type Box struct {
	MinX float64 // Western edge
	MinY float64 // Southern edge
	MaxX float64 // Eastern edge
	MaxY float64 // Northern edge
}

// Partial is a bounding box in (minx, miny, maxx, maxy) order whose edges may
// be unknown. A nil edge is unknown; it is never treated as zero.
type Partial [4]*float64

// Of returns a Partial with all four edges set.
func Of(minx, miny, maxx, maxy float64) Partial {
	return Partial{&minx, &miny, &maxx, &maxy}
}

// FromSlice converts a caller-supplied slice to a Partial. Anything other than
// exactly four values yields a fully unknown box.
func FromSlice(v []float64) Partial {
	if len(v) != 4 {
		return Partial{}
	}
	return Of(v[0], v[1], v[2], v[3])
}

// Parse reads "minx,miny,maxx,maxy" (commas or spaces). Empty input is a
// fully unknown box, not an error.
func Parse(s string) (Partial, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return Partial{}, nil
	}
	if len(fields) != 4 {
		return Partial{}, fmt.Errorf("bounds: expected 4 values, got %d", len(fields))
	}
	var p Partial
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Partial{}, fmt.Errorf("bounds: parse %q: %w", f, err)
		}
		p[i] = &v
	}
	return p, nil
}

// Known reports whether every edge holds a finite value.
func (p Partial) Known() bool {
	for _, e := range p {
		if e == nil || math.IsNaN(*e) || math.IsInf(*e, 0) {
			return false
		}
	}
	return true
}

// Validate returns the box described by p with each axis ordered so that
// min <= max. The second result is false when any edge is unknown.
func Validate(p Partial) (Box, bool) {
	if !p.Known() {
		return Box{}, false
	}
	b := Box{MinX: *p[0], MinY: *p[1], MaxX: *p[2], MaxY: *p[3]}
	if b.MinX > b.MaxX {
		b.MinX, b.MaxX = b.MaxX, b.MinX
	}
	if b.MinY > b.MaxY {
		b.MinY, b.MaxY = b.MaxY, b.MinY
	}
	return b, true
}

// Extend merges next into old edge by edge: the low edges take the smaller
// value, the high edges the larger. An unknown edge loses to a known one; an
// edge unknown on both sides stays unknown.
func Extend(old, next Partial) Partial {
	var out Partial
	for i := range out {
		a, b := finite(old[i]), finite(next[i])
		switch {
		case a == nil:
			out[i] = b
		case b == nil:
			out[i] = a
		default:
			v := math.Max(*a, *b)
			if i < 2 {
				v = math.Min(*a, *b)
			}
			out[i] = &v
		}
	}
	return out
}

func finite(e *float64) *float64 {
	if e == nil || math.IsNaN(*e) || math.IsInf(*e, 0) {
		return nil
	}
	v := *e
	return &v
}

// Pad grows every edge of p by amount. A box with any unknown edge is returned
// unchanged.
func Pad(p Partial, amount float64) Partial {
	b, ok := Validate(p)
	if !ok {
		return p
	}
	return b.Pad(amount).Partial()
}

// Partial returns b as a fully known Partial.
func (b Box) Partial() Partial {
	return Of(b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// Pad returns b expanded by amount in all directions.
func (b Box) Pad(amount float64) Box {
	return Box{
		MinX: b.MinX - amount,
		MinY: b.MinY - amount,
		MaxX: b.MaxX + amount,
		MaxY: b.MaxY + amount,
	}
}

// Scale multiplies every edge by factor.
func (b Box) Scale(factor float64) Box {
	s := Box{MinX: b.MinX * factor, MinY: b.MinY * factor, MaxX: b.MaxX * factor, MaxY: b.MaxY * factor}
	v, _ := Validate(s.Partial())
	return v
}

// Width returns the horizontal extent.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box.
func (b Box) Center() (x, y float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// Contains returns true if the point (x, y) is within the box.
func (b Box) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX &&
		y >= b.MinY && y <= b.MaxY
}

// Intersects returns true if the given box intersects with this box.
func (b Box) Intersects(other Box) bool {
	return !(other.MaxX < b.MinX ||
		other.MinX > b.MaxX ||
		other.MaxY < b.MinY ||
		other.MinY > b.MaxY)
}

// Covers reports whether inner lies entirely within outer.
func Covers(outer, inner Box) bool {
	return inner.MinX >= outer.MinX &&
		inner.MinY >= outer.MinY &&
		inner.MaxX <= outer.MaxX &&
		inner.MaxY <= outer.MaxY
}

// Bound converts b to an orb.Bound.
func (b Box) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinX, b.MinY}, Max: orb.Point{b.MaxX, b.MaxY}}
}

// FromBound converts an orb.Bound to a Box.
func FromBound(ob orb.Bound) Box {
	return Box{MinX: ob.Min[0], MinY: ob.Min[1], MaxX: ob.Max[0], MaxY: ob.Max[1]}
}

// Ring returns a closed ring tracing the edges of b with ringSteps segments
// per edge. Reprojecting the densified ring captures the curvature a
// four-corner transform would miss.
func (b Box) Ring() orb.Ring {
	corners := [4]orb.Point{
		{b.MinX, b.MinY},
		{b.MinX, b.MaxY},
		{b.MaxX, b.MaxY},
		{b.MaxX, b.MinY},
	}
	ring := make(orb.Ring, 0, 4*ringSteps+1)
	for i, start := range corners {
		end := corners[(i+1)%len(corners)]
		for k := 0; k < ringSteps; k++ {
			t := float64(k) / ringSteps
			ring = append(ring, orb.Point{
				start[0] + t*(end[0]-start[0]),
				start[1] + t*(end[1]-start[1]),
			})
		}
	}
	return append(ring, corners[0])
}

// Transformer maps a coordinate from one reference system to another.
type Transformer func(x, y float64) (float64, float64, error)

// Reproject transforms every vertex of b's densified ring and returns the
// extent of the result. Vertices that fail to transform or land on a
// non-finite value are ignored as long as at least one vertex survives.
//
// Sampling the edges rather than the four corners keeps the curved edges of
// a projected box inside the result.
//
// Example:
//
//	from, _ := crs.Parse("EPSG:4326")
//	to, _ := crs.Parse("EPSG:3857")
//	t, _ := from.Transformer(to)
//	b, err := bounds.Reproject(bounds.Box{MinX: -10, MinY: 35, MaxX: 30, MaxY: 60}, t)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(b) // metres
func Reproject(b Box, t Transformer) (Box, error) {
	if t == nil {
		return Box{}, ErrNoTransform
	}
	ring := b.Ring()
	xs := make([]float64, 0, len(ring))
	ys := make([]float64, 0, len(ring))
	var lastErr error
	for _, p := range ring {
		x, y, err := t(p[0], p[1])
		if err != nil {
			lastErr = err
			continue
		}
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) == 0 {
		if lastErr != nil {
			return Box{}, fmt.Errorf("reproject bounds: %w", lastErr)
		}
		return Box{}, fmt.Errorf("reproject bounds: no finite coordinates for %v", b)
	}
	return Box{
		MinX: floats.Min(xs),
		MinY: floats.Min(ys),
		MaxX: floats.Max(xs),
		MaxY: floats.Max(ys),
	}, nil
}

// String formats b as "minx,miny,maxx,maxy".
func (b Box) String() string {
	return strings.Join([]string{
		strconv.FormatFloat(b.MinX, 'f', -1, 64),
		strconv.FormatFloat(b.MinY, 'f', -1, 64),
		strconv.FormatFloat(b.MaxX, 'f', -1, 64),
		strconv.FormatFloat(b.MaxY, 'f', -1, 64),
	}, ",")
}
