// Package source reads GeoJSON layers for drawing: features, property
// schema, native extent and coordinate system, with spatial filtering by a
// read window.
package source

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"

	"github.com/beetlebugorg/geosvg/internal/bounds"
)

// placeholderName is the layer name GDAL writes into GeoJSON it produces.
const placeholderName = "OGRGeoJSON"

// Error reports a layer that could not be opened or decoded.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Feature is one record of a layer. Geometry is nil for features written
// with a null geometry.
type Feature struct {
	ID         any
	Geometry   orb.Geometry
	Properties map[string]any
}

// Layer is a decoded GeoJSON file.
type Layer struct {
	path     string
	name     string
	crs      string
	extent   bounds.Partial
	fields   []string
	features []Feature
	index    *index
}

// Opener opens layers by path. *Cache and Files both satisfy it.
type Opener interface {
	Open(path string) (*Layer, error)
}

// Files opens layers straight from disk.
type Files struct{}

// Open implements Opener.
func (Files) Open(path string) (*Layer, error) {
	return Open(path)
}

// Open reads the GeoJSON file at path. The coordinate system comes from a
// sidecar "<name>.prj" file when one exists.
func Open(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	l, err := Read(path, data)
	if err != nil {
		return nil, err
	}
	prj := strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"
	if def, err := os.ReadFile(prj); err == nil {
		l.crs = strings.TrimSpace(string(def))
	}
	return l, nil
}

// Read decodes data as a FeatureCollection, a single Feature or a bare
// geometry. path names the layer and appears in errors.
func Read(path string, data []byte) (*Layer, error) {
	if !gjson.ValidBytes(data) {
		return nil, &Error{Path: path, Err: fmt.Errorf("invalid JSON")}
	}
	doc := gjson.ParseBytes(data)

	l := &Layer{path: path}
	var props []gjson.Result

	switch typ := doc.Get("type").String(); typ {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, &Error{Path: path, Err: err}
		}
		for _, f := range fc.Features {
			l.features = append(l.features, Feature{ID: f.ID, Geometry: f.Geometry, Properties: f.Properties})
		}
		if len(fc.BBox) == 4 {
			l.extent = bounds.FromSlice(fc.BBox)
		}
		props = doc.Get("features.#.properties").Array()
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, &Error{Path: path, Err: err}
		}
		l.features = []Feature{{ID: f.ID, Geometry: f.Geometry, Properties: f.Properties}}
		props = []gjson.Result{doc.Get("properties")}
	case "":
		return nil, &Error{Path: path, Err: fmt.Errorf("missing GeoJSON type")}
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, &Error{Path: path, Err: fmt.Errorf("%s: %w", typ, err)}
		}
		l.features = []Feature{{Geometry: g.Geometry()}}
	}

	l.name = doc.Get("name").String()
	if l.name == "" || l.name == placeholderName {
		base := filepath.Base(path)
		l.name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	l.crs = doc.Get("crs.properties.name").String()
	l.fields = fieldNames(props)

	if _, ok := bounds.Validate(l.extent); !ok {
		for _, f := range l.features {
			if f.Geometry != nil {
				l.extent = bounds.Extend(l.extent, bounds.FromBound(f.Geometry.Bound()).Partial())
			}
		}
	}
	l.index = buildIndex(l.features)
	return l, nil
}

// fieldNames returns the union of property keys in the order they first
// appear in the document.
func fieldNames(props []gjson.Result) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range props {
		p.ForEach(func(key, _ gjson.Result) bool {
			if k := key.String(); !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
			return true
		})
	}
	return names
}

// Path returns the file the layer was read from.
func (l *Layer) Path() string { return l.path }

// Name returns the layer's name member, or the file's base name.
func (l *Layer) Name() string { return l.name }

// CRS returns the layer's coordinate system definition, empty when the file
// does not declare one.
func (l *Layer) CRS() string { return l.crs }

// Bounds returns the native extent. It is unknown for a layer with no
// geometry.
func (l *Layer) Bounds() bounds.Partial { return l.extent }

// Fields returns the property names used by the layer's features.
func (l *Layer) Fields() []string { return l.fields }

// Len returns the number of features.
func (l *Layer) Len() int { return len(l.features) }

// Features yields, in file order, the features whose extent intersects
// window. An unknown window yields everything. Features with a null
// geometry are always yielded so the caller can account for them.
func (l *Layer) Features(window bounds.Partial) iter.Seq[Feature] {
	return func(yield func(Feature) bool) {
		w, ok := bounds.Validate(window)
		var hit []bool
		if ok {
			hit = l.index.search(w, len(l.features))
		}
		for i, f := range l.features {
			if ok && f.Geometry != nil && !hit[i] {
				continue
			}
			if !yield(f) {
				return
			}
		}
	}
}
