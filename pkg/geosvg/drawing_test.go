package geosvg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beetlebugorg/geosvg/internal/bounds"
	"github.com/beetlebugorg/geosvg/internal/source"
	"github.com/beetlebugorg/geosvg/internal/transform"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Logger = quiet()
	return opts
}

func polygon(minx, miny, maxx, maxy float64, props string) string {
	return fmt.Sprintf(`{"type":"Feature","properties":%s,"geometry":{"type":"Polygon","coordinates":[[[%v,%v],[%v,%v],[%v,%v],[%v,%v],[%v,%v]]]}}`,
		props, minx, miny, maxx, miny, maxx, maxy, minx, maxy, minx, miny)
}

func point(x, y float64, props string) string {
	return fmt.Sprintf(`{"type":"Feature","properties":%s,"geometry":{"type":"Point","coordinates":[%v,%v]}}`, props, x, y)
}

func collection(name, crsName string, features ...string) string {
	crsMember := ""
	if crsName != "" {
		crsMember = fmt.Sprintf(`"crs":{"type":"name","properties":{"name":%q}},`, crsName)
	}
	return fmt.Sprintf(`{"type":"FeatureCollection","name":%q,%s"features":[%s]}`,
		name, crsMember, strings.Join(features, ","))
}

func readLayer(t *testing.T, body string) *Layer {
	t.Helper()
	l, err := source.Read("layer.geojson", []byte(body))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	return l
}

func mustNew(t *testing.T, opts Options) *Drawing {
	t.Helper()
	d, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return d
}

func TestComposeExtendsBoundsAcrossLayers(t *testing.T) {
	d := mustNew(t, testOptions())
	a := readLayer(t, collection("a", "EPSG:3857", polygon(0, 0, 10, 10, `{}`)))
	b := readLayer(t, collection("b", "EPSG:3857", polygon(5, 5, 20, 20, `{}`)))

	res, err := d.ComposeLayers(a, b)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !bounds.Covers(res.Bounds, Box{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}) {
		t.Errorf("Expected output bounds to cover (0,0,20,20), got %v", res.Bounds)
	}
	if len(res.Layers) != 2 || len(res.Layers[0].Members) != 1 || len(res.Layers[1].Members) != 1 {
		t.Errorf("Expected one member per layer, got %+v", res.Layers)
	}
	if res.CRS != "EPSG:3857" {
		t.Errorf("Expected projected data to keep its CRS by default, got %q", res.CRS)
	}
}

func TestComposePadding(t *testing.T) {
	opts := testOptions()
	opts.Padding = 5
	d := mustNew(t, opts)
	a := readLayer(t, collection("a", "EPSG:3857", polygon(0, 0, 10, 10, `{}`)))
	b := readLayer(t, collection("b", "EPSG:3857", polygon(5, 5, 20, 20, `{}`)))

	res, err := d.ComposeLayers(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := Box{MinX: -5, MinY: -5, MaxX: 25, MaxY: 25}
	if res.Bounds != want {
		t.Errorf("Expected padding applied once to the union, got %v", res.Bounds)
	}
}

func TestNullGeometryDrawsNothing(t *testing.T) {
	d := mustNew(t, testOptions())
	s, err := d.drawFeature(Feature{}, transform.New())
	if s != "" {
		t.Errorf("Expected empty markup, got %q", s)
	}
	if !errors.Is(err, transform.ErrNullGeometry) {
		t.Errorf("Expected the reason to be reported, got %v", err)
	}

	body := collection("n", "EPSG:3857",
		`{"type":"Feature","properties":{},"geometry":null}`,
		point(1, 1, `{}`))
	res, err := d.ComposeLayers(readLayer(t, body))
	if err != nil {
		t.Fatalf("Expected compose to succeed, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Feature != 0 {
		t.Errorf("Expected the null feature to be skipped, got %v", res.Skipped)
	}
	if len(res.Layers[0].Members) != 1 {
		t.Errorf("Expected the point to be drawn, got %v", res.Layers[0].Members)
	}
}

func TestComposeResetsState(t *testing.T) {
	d := mustNew(t, testOptions())
	big := readLayer(t, collection("big", "EPSG:3857", polygon(0, 0, 100, 100, `{}`)))
	small := readLayer(t, collection("small", "EPSG:3857", polygon(0, 0, 1, 1, `{}`)))

	if _, err := d.ComposeLayers(big); err != nil {
		t.Fatal(err)
	}
	if d.State() != StateUninitialized {
		t.Errorf("Expected state reset after compose, got %v", d.State())
	}
	res, err := d.ComposeLayers(small)
	if err != nil {
		t.Fatal(err)
	}
	if res.Bounds != (Box{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}) {
		t.Errorf("Expected bounds from the second compose only, got %v", res.Bounds)
	}
}

func TestComposeUserBounds(t *testing.T) {
	opts := testOptions()
	opts.Bounds = []float64{10, 10, 0, 0} // reversed on purpose
	d := mustNew(t, opts)

	l := readLayer(t, collection("l", "EPSG:3857",
		polygon(1, 1, 4, 4, `{}`),
		point(5000, 5000, `{}`),
	))
	res, err := d.ComposeLayers(l)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if res.Bounds != (Box{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}) {
		t.Errorf("Expected caller bounds as the frame, got %v", res.Bounds)
	}
	if n := len(res.Layers[0].Members); n != 1 {
		t.Errorf("Expected the distant point outside the read window, got %d members", n)
	}
}

func TestComposeClipsToWindow(t *testing.T) {
	opts := testOptions()
	opts.Bounds = []float64{0, 0, 10, 10}
	d := mustNew(t, opts)

	// crosses the frame; only the part within the padded window survives
	l := readLayer(t, collection("l", "EPSG:3857", polygon(5, 5, 5000, 5000, `{}`)))
	res, err := d.ComposeLayers(l)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(res.SVG, "5000") {
		t.Errorf("Expected geometry clipped to the padded window:\n%s", res.SVG)
	}
	if !strings.Contains(res.SVG, "1010") {
		t.Errorf("Expected clip edge at frame + 1000:\n%s", res.SVG)
	}
}

func TestComposeNoClip(t *testing.T) {
	opts := testOptions()
	opts.Bounds = []float64{0, 0, 10, 10}
	opts.Clip = false
	d := mustNew(t, opts)
	l := readLayer(t, collection("l", "EPSG:3857", polygon(5, 5, 5000, 5000, `{}`)))
	res, err := d.ComposeLayers(l)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.SVG, "5000") {
		t.Errorf("Expected geometry left whole without clipping:\n%s", res.SVG)
	}
}

func TestClipStageMemoized(t *testing.T) {
	d := mustNew(t, testOptions())
	frame := Box{MaxX: 10, MaxY: 10}
	first := d.clipStage(frame, 1)
	if !first.Present() || d.clipFor != frame {
		t.Fatal("Expected clip stage built for the frame")
	}
	d.clipStage(frame, 1)
	if d.clipFor != frame {
		t.Error("Expected clip stage kept for an unchanged frame")
	}
	wider := Box{MaxX: 20, MaxY: 20}
	d.clipStage(wider, 1)
	if d.clipFor != wider {
		t.Error("Expected clip stage rebuilt when the frame changes")
	}
}

func TestComposeGeographicDefaultsToLocal(t *testing.T) {
	var logs bytes.Buffer
	opts := testOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	d := mustNew(t, opts)

	l := readLayer(t, collection("places", "", point(-73.9, 40.7, `{}`), point(-73.8, 40.8, `{}`)))
	res, err := d.ComposeLayers(l)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !strings.Contains(res.CRS, "+proj=lcc") {
		t.Errorf("Expected local conic for lon/lat input, got %q", res.CRS)
	}
	if strings.Count(logs.String(), "assuming WGS84") != 1 {
		t.Errorf("Expected one WGS84 warning, got:\n%s", logs.String())
	}
	if res.Bounds.Width() > 100000 || res.Bounds.Width() < 1000 {
		t.Errorf("Expected bounds in metres, got %v", res.Bounds)
	}
}

func TestComposeUTM(t *testing.T) {
	opts := testOptions()
	opts.Projection = "utm"
	opts.InputCRS = "EPSG:4326"
	d := mustNew(t, opts)
	l := readLayer(t, collection("places", "", point(-73.9, 40.7, `{}`)))
	res, err := d.ComposeLayers(l)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.CRS, "+zone=18") {
		t.Errorf("Expected UTM zone 18, got %q", res.CRS)
	}
}

func TestComposeReprojectsLayers(t *testing.T) {
	opts := testOptions()
	opts.Projection = "EPSG:3857"
	d := mustNew(t, opts)

	geo := readLayer(t, collection("geo", "EPSG:4326", point(180, 0, `{}`)))
	merc := readLayer(t, collection("merc", "EPSG:3857", point(0, 0, `{}`)))
	res, err := d.ComposeLayers(geo, merc)
	if err != nil {
		t.Fatal(err)
	}
	if res.Bounds.MaxX < 20037508 || res.Bounds.MinX > 0 {
		t.Errorf("Expected both layers in one mercator frame, got %v", res.Bounds)
	}
}

func TestComposeScale(t *testing.T) {
	opts := testOptions()
	opts.Scale = 2
	d := mustNew(t, opts)
	res, err := d.ComposeLayers(readLayer(t, collection("a", "EPSG:3857", polygon(0, 0, 10, 20, `{}`))))
	if err != nil {
		t.Fatal(err)
	}
	if res.Bounds != (Box{MinX: 0, MinY: 0, MaxX: 5, MaxY: 10}) {
		t.Errorf("Expected bounds divided by scale, got %v", res.Bounds)
	}
	if !strings.Contains(res.SVG, `points="0,0 5,0 5,10 0,10 0,0"`) {
		t.Errorf("Expected scaled coordinates:\n%s", res.SVG)
	}
}

func TestComposeFraming(t *testing.T) {
	opts := testOptions()
	opts.ViewBox = false
	d := mustNew(t, opts)
	res, err := d.ComposeLayers(readLayer(t, collection("a", "EPSG:3857", polygon(2, 3, 10, 20, `{}`))))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.SVG, `transform="scale(1,-1) translate(-2,-20)"`) || strings.Contains(res.SVG, "viewBox") {
		t.Errorf("Expected translate framing only:\n%s", res.SVG)
	}
}

func TestComposeAttributes(t *testing.T) {
	opts := testOptions()
	opts.IDField = "name"
	opts.ClassFields = []string{"kind"}
	opts.DataFields = []string{"pop"}
	d := mustNew(t, opts)

	l := readLayer(t, collection("1st layer", "EPSG:3857",
		point(1, 1, `{"name":"Main St.","kind":"road","pop":12}`),
	))
	res, err := d.ComposeLayers(l)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`<g id="_1st_layer" class="name kind pop">`,
		`id="Main_St_"`,
		`class="kind_road"`,
		`data-pop="12"`,
	} {
		if !strings.Contains(res.SVG, want) {
			t.Errorf("Expected %s in:\n%s", want, res.SVG)
		}
	}
}

func TestComposeInlineStyle(t *testing.T) {
	opts := testOptions()
	opts.InlineStyle = true
	d := mustNew(t, opts)
	res, err := d.ComposeLayers(readLayer(t, collection("a", "EPSG:3857", polygon(0, 0, 1, 1, `{}`))))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(res.SVG, "<style") {
		t.Errorf("Expected style block removed:\n%s", res.SVG)
	}
	if !strings.Contains(res.SVG, `style="fill:none;stroke:#000`) {
		t.Errorf("Expected default style inlined:\n%s", res.SVG)
	}
}

func TestComposeFromFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roads.geojson")
	body := collection("OGRGeoJSON", "", polygon(0, 0, 1000, 1000, `{}`))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "roads.prj"), []byte("EPSG:3857"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := testOptions()
	opts.Source = NewCache(0)
	d := mustNew(t, opts)
	res, err := d.Compose(path)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if res.Layers[0].ID != "roads" {
		t.Errorf("Expected placeholder layer name replaced, got %q", res.Layers[0].ID)
	}

	if _, err := d.Compose(filepath.Join(dir, "missing.geojson")); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestNewConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Options)
	}{
		{"projection", func(o *Options) { o.Projection = "not-a-projection" }},
		{"input crs", func(o *Options) { o.InputCRS = "EPSG:1" }},
		{"scale", func(o *Options) { o.Scale = -1 }},
		{"simplify", func(o *Options) { o.SimplifyRatio = 150 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.edit(&opts)
			_, err := New(opts)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Expected *ConfigError, got %v", err)
			}
		})
	}
}

func TestInvalidBoundsFallBackToData(t *testing.T) {
	opts := testOptions()
	opts.Bounds = []float64{1, 2, 3}
	d := mustNew(t, opts)
	res, err := d.ComposeLayers(readLayer(t, collection("a", "EPSG:3857", polygon(0, 0, 4, 4, `{}`))))
	if err != nil {
		t.Fatal(err)
	}
	if res.Bounds != (Box{MaxX: 4, MaxY: 4}) {
		t.Errorf("Expected data-derived bounds, got %v", res.Bounds)
	}
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"roads":       "roads",
		"my layer.v2": "my_layer_v2",
		"2024":        "_2024",
		"a-b_c":       "a-b_c",
		"":            "",
	}
	for in, want := range tests {
		if got := sanitize(in); got != want {
			t.Errorf("sanitize(%q): expected %q, got %q", in, want, got)
		}
	}
}
