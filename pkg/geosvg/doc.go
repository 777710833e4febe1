// Package geosvg draws vector geodata layers into a single SVG document.
//
// Every layer is placed in one shared output frame regardless of the
// projection it is stored in. The output projection and bounds are worked out
// while layers are read, one at a time, without loading the whole dataset
// first.
//
// # Basic Usage
//
//	d, err := geosvg.New(geosvg.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := d.Compose("coast.geojson", "rivers.geojson")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("map.svg", []byte(res.SVG), 0o644)
//
// # Projections
//
// Options.Projection accepts a proj4 string, an EPSG code ("EPSG:3857"), the
// path of a file holding a proj4 string, or one of four methods:
//
//	file     keep the first layer's CRS
//	default  keep projected data as is, draw lon/lat data with "local"
//	local    Lambert conformal conic fitted to the bounds
//	utm      UTM zone containing the center of the bounds
//
// Layers in other systems are reprojected into the output CRS. The
// coordinate system of a layer is read from a "<name>.prj" sidecar file or
// the GeoJSON "crs" member; layers without either are taken to be in
// Options.InputCRS, or in the first layer's CRS, or in WGS84.
//
// # Bounds
//
// With Options.Bounds set (in the input CRS) the frame is fixed up front and
// each layer only reads the features inside it. Without bounds the frame
// grows to cover every layer. Either way the frame is padded by
// Options.Padding and geometries are divided by Options.Scale.
//
//	opts := geosvg.DefaultOptions()
//	opts.Bounds = []float64{-74.05, 40.68, -73.90, 40.88}
//	opts.Projection = "utm"
//	opts.Scale = 10 // 10 metres per output unit
//
// # Output
//
// Each layer becomes a <g> whose id is the layer name and whose classes are
// the layer's property names. Polygons with holes are written as paths with
// fill-rule="evenodd". Features that cannot be drawn are left out and listed
// in Result.Skipped; only configuration problems fail the whole composition,
// as *ConfigError.
//
// # Styling
//
// Options.Style holds the CSS written into the document, DefaultStyle unless
// changed. IDField, ClassFields and DataFields copy feature properties into
// attributes so rules can target individual features:
//
//	opts.IDField = "name"
//	opts.ClassFields = []string{"highway"}
//	opts.Style = geosvg.DefaultStyle + ".highway_primary { stroke-width: 3 }"
package geosvg
