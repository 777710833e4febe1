package draw

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/beetlebugorg/geosvg/internal/svg"
)

// counter-clockwise 0..10 square, closed
var outerCCW = orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}

// counter-clockwise hole, same winding as outerCCW
var holeCCW = orb.Ring{{2, 2}, {4, 2}, {4, 4}, {2, 4}, {2, 2}}

func mustDraw(t *testing.T, g orb.Geometry, attrs ...svg.Attr) string {
	t.Helper()
	s, err := Geometry(g, DefaultOptions(), attrs...)
	if err != nil {
		t.Fatalf("Geometry(%T) failed: %v", g, err)
	}
	return s
}

var segment = regexp.MustCompile(`M ([^z]*) z`)

func TestClockwise(t *testing.T) {
	if Clockwise(outerCCW) {
		t.Error("Expected counter-clockwise square")
	}
	cw := outerCCW.Clone()
	cw.Reverse()
	if !Clockwise(cw) {
		t.Error("Expected reversed square to be clockwise")
	}
	flat := orb.Ring{{0, 0}, {1, 1}, {2, 2}, {0, 0}}
	if Clockwise(flat) {
		t.Error("Expected zero-area ring to count as counter-clockwise")
	}
	open := orb.Ring{{0, 0}, {0, 10}, {10, 10}, {10, 0}}
	if !Clockwise(open) {
		t.Error("Expected unclosed ring to be treated as closed")
	}
}

func TestPoint(t *testing.T) {
	got := mustDraw(t, orb.Point{1.5, -2}, svg.Attr{Name: "id", Value: "p1"})
	want := `<circle cx="1.5" cy="-2" r="1" id="p1"/>`
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestLineStringDeduplicates(t *testing.T) {
	got := mustDraw(t, orb.LineString{{0, 0}, {0, 0}, {1, 1}, {1, 1}, {0, 0}})
	want := `<polyline points="0,0 1,1 0,0"/>`
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestPrecisionDeduplicates(t *testing.T) {
	s, err := Geometry(orb.LineString{{0.001, 0}, {0.002, 0}, {1, 1}}, Options{Precision: 1})
	if err != nil {
		t.Fatal(err)
	}
	if s != `<polyline points="0,0 1,1"/>` {
		t.Errorf("Expected points equal after rounding to collapse, got %s", s)
	}
}

func TestPolygonOneRing(t *testing.T) {
	got := mustDraw(t, orb.Polygon{outerCCW})
	if !strings.HasPrefix(got, "<polygon ") {
		t.Errorf("Expected a polygon element, got %s", got)
	}
	if strings.Contains(got, "evenodd") {
		t.Error("Single-ring polygon must not use evenodd")
	}
}

func TestPolygonWithHole(t *testing.T) {
	got := mustDraw(t, orb.Polygon{outerCCW, holeCCW})
	if !strings.HasPrefix(got, "<path ") || !strings.Contains(got, `fill-rule="evenodd"`) {
		t.Fatalf("Expected an evenodd path, got %s", got)
	}
	segs := segment.FindAllStringSubmatch(got, -1)
	if len(segs) != 2 {
		t.Fatalf("Expected 2 subpaths, got %d in %s", len(segs), got)
	}
	// outer forced clockwise, hole left counter-clockwise
	if segs[0][1] != "0,0 0,10 10,10 10,0 0,0" {
		t.Errorf("Expected outer ring reversed to clockwise, got %q", segs[0][1])
	}
	if segs[1][1] != "2,2 4,2 4,4 2,4 2,2" {
		t.Errorf("Expected hole to stay counter-clockwise, got %q", segs[1][1])
	}
	if segs[0][1] == segs[1][1] {
		t.Error("Outer and hole rings must differ in orientation")
	}
}

func TestMultiPolygonHoleReversed(t *testing.T) {
	outerCW := outerCCW.Clone()
	outerCW.Reverse()
	holeCW := orb.Ring{{2, 2}, {2, 4}, {4, 4}, {4, 2}, {2, 2}}

	got := mustDraw(t, orb.MultiPolygon{
		{outerCW, holeCW},
		{{{20, 20}, {21, 20}, {21, 21}, {20, 20}}},
	}, svg.Attr{Name: "id", Value: "f1"})

	if !strings.HasPrefix(got, `<g id="f1">`) {
		t.Errorf("Expected the id on the group, got %s", got)
	}
	if strings.Count(got, `id="f1"`) != 1 {
		t.Errorf("Expected id only once, got %s", got)
	}
	segs := segment.FindAllStringSubmatch(got, -1)
	if len(segs) != 2 {
		t.Fatalf("Expected 2 subpaths, got %d in %s", len(segs), got)
	}
	want := "2,2 4,2 4,4 2,4 2,2" // reverse of holeCW
	if segs[1][1] != want {
		t.Errorf("Expected hole reversed to %q, got %q", want, segs[1][1])
	}
}

func TestDoesNotModifyRings(t *testing.T) {
	p := orb.Polygon{outerCCW.Clone(), holeCCW.Clone()}
	mustDraw(t, p)
	if p[0][1] != (orb.Point{10, 0}) {
		t.Error("Expected input ring to be left in place")
	}
}

func TestCollection(t *testing.T) {
	got := mustDraw(t, orb.Collection{
		orb.Point{0, 0},
		orb.LineString{{0, 0}, {1, 1}},
	}, svg.Attr{Name: "class", Value: "c"})
	want := `<g class="c"><circle cx="0" cy="0" r="1"/><polyline points="0,0 1,1"/></g>`
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestEmptyGeometries(t *testing.T) {
	for _, g := range []orb.Geometry{
		orb.MultiPoint{},
		orb.LineString{},
		orb.Polygon{},
		orb.MultiPolygon{},
		orb.Collection{},
	} {
		if got := mustDraw(t, g); got != "" {
			t.Errorf("Expected empty %T to draw nothing, got %s", g, got)
		}
	}
}

func TestUnrecognizedGeometry(t *testing.T) {
	_, err := Geometry(orb.Bound{}, DefaultOptions())
	var drawErr *Error
	if !errors.As(err, &drawErr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if drawErr.Type != "orb.Bound" {
		t.Errorf("Expected type in error, got %q", drawErr.Type)
	}

	_, err = Geometry(orb.Collection{orb.Bound{}}, DefaultOptions())
	if !errors.As(err, &drawErr) || drawErr.Type != "GeometryCollection" {
		t.Errorf("Expected failure wrapped with the collection type, got %v", err)
	}
}
