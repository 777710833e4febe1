// Package draw converts display-space geometries into SVG elements.
//
// Polygons with holes become a single path under the even-odd fill rule with
// the outer ring clockwise and every hole counter-clockwise. Multi-part
// geometries and collections become groups; attributes passed to Geometry
// land on the outermost element, so a multi-part feature carries one id.
package draw

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"

	"github.com/beetlebugorg/geosvg/internal/svg"
)

// DefaultPointRadius is the circle radius used for points when none is set.
const DefaultPointRadius = 1.0

// Options controls coordinate formatting.
type Options struct {
	// Precision is the number of decimal places written. Negative values
	// write coordinates unrounded.
	Precision int

	// PointRadius is the radius of circles drawn for points.
	PointRadius float64
}

// DefaultOptions returns unrounded coordinates and unit point radius.
func DefaultOptions() Options {
	return Options{Precision: -1, PointRadius: DefaultPointRadius}
}

// Error reports a geometry that could not be drawn.
type Error struct {
	Type string // geometry type being drawn
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("draw %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("draw %s: unrecognized geometry type", e.Type)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Geometry renders g. Empty geometries render as the empty string.
func Geometry(g orb.Geometry, opts Options, attrs ...svg.Attr) (string, error) {
	if opts.PointRadius <= 0 {
		opts.PointRadius = DefaultPointRadius
	}
	d := drawer{opts}
	return d.geometry(g, attrs)
}

type drawer struct {
	opts Options
}

func (d drawer) geometry(g orb.Geometry, attrs []svg.Attr) (string, error) {
	switch g := g.(type) {
	case orb.Point:
		return d.circle(g, attrs), nil
	case orb.MultiPoint:
		members := make([]string, len(g))
		for i, p := range g {
			members[i] = d.circle(p, nil)
		}
		return svg.Group(members, attrs...), nil
	case orb.LineString:
		return d.polyline(g, attrs), nil
	case orb.MultiLineString:
		members := make([]string, len(g))
		for i, ls := range g {
			members[i] = d.polyline(ls, nil)
		}
		return svg.Group(members, attrs...), nil
	case orb.Ring:
		return d.polygon(orb.Polygon{g}, attrs), nil
	case orb.Polygon:
		return d.polygon(g, attrs), nil
	case orb.MultiPolygon:
		members := make([]string, len(g))
		for i, p := range g {
			members[i] = d.polygon(p, nil)
		}
		return svg.Group(members, attrs...), nil
	case orb.Collection:
		members := make([]string, len(g))
		for i, m := range g {
			s, err := d.geometry(m, nil)
			if err != nil {
				return "", &Error{Type: g.GeoJSONType(), Err: err}
			}
			members[i] = s
		}
		return svg.Group(members, attrs...), nil
	case nil:
		return "", &Error{Type: "null"}
	}
	return "", &Error{Type: fmt.Sprintf("%T", g)}
}

func (d drawer) circle(p orb.Point, attrs []svg.Attr) string {
	a := append([]svg.Attr{
		{Name: "cx", Value: d.num(p[0])},
		{Name: "cy", Value: d.num(p[1])},
		{Name: "r", Value: svg.Num(d.opts.PointRadius, -1)},
	}, attrs...)
	return svg.Element("circle", a)
}

func (d drawer) polyline(ls orb.LineString, attrs []svg.Attr) string {
	pts := d.points([]orb.Point(ls))
	if len(pts) == 0 {
		return ""
	}
	return svg.Element("polyline", append([]svg.Attr{{Name: "points", Value: strings.Join(pts, " ")}}, attrs...))
}

// polygon draws a single ring as <polygon> and anything with holes as a
// <path> with the even-odd fill rule.
func (d drawer) polygon(p orb.Polygon, attrs []svg.Attr) string {
	if len(p) == 0 || len(p[0]) == 0 {
		return ""
	}
	if len(p) == 1 {
		pts := d.points([]orb.Point(p[0]))
		return svg.Element("polygon", append([]svg.Attr{{Name: "points", Value: strings.Join(pts, " ")}}, attrs...))
	}

	var path strings.Builder
	for i, r := range p {
		if len(r) == 0 {
			continue
		}
		if i == 0 {
			r = orient(r, true)
		} else {
			r = orient(r, false)
		}
		if path.Len() > 0 {
			path.WriteByte(' ')
		}
		path.WriteString("M ")
		path.WriteString(strings.Join(d.points([]orb.Point(r)), " "))
		path.WriteString(" z")
	}
	return svg.Element("path", append([]svg.Attr{
		{Name: "fill-rule", Value: "evenodd"},
		{Name: "d", Value: path.String()},
	}, attrs...))
}

// points formats coordinates as "x,y", dropping consecutive duplicates of
// the formatted text.
func (d drawer) points(pts []orb.Point) []string {
	out := make([]string, 0, len(pts))
	for _, p := range pts {
		s := d.num(p[0]) + "," + d.num(p[1])
		if len(out) > 0 && out[len(out)-1] == s {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (d drawer) num(v float64) string {
	return svg.Num(v, d.opts.Precision)
}
