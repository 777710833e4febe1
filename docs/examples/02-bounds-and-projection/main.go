package main

import (
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/geosvg/pkg/geosvg"
)

// Draw lower Manhattan only. Features outside the bounds are never read and
// the rest are clipped to the frame.
func drawViewport(projection string) (*geosvg.Result, error) {
	opts := geosvg.DefaultOptions()
	opts.Bounds = []float64{-74.02, 40.70, -73.97, 40.73} // lon/lat, the input CRS
	opts.Projection = projection
	opts.Padding = 50 // metres
	opts.Scale = 5    // 5 metres per SVG unit

	d, err := geosvg.New(opts)
	if err != nil {
		return nil, err
	}
	return d.Compose("streets.geojson", "buildings.geojson")
}

func main() {
	for _, projection := range []string{"local", "utm", "EPSG:2263"} {
		res, err := drawViewport(projection)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%-9s %s\n", projection, res.CRS)
		fmt.Printf("          %.0f x %.0f units\n", res.Bounds.Width(), res.Bounds.Height())

		if err := os.WriteFile("manhattan-"+projection[:3]+".svg", []byte(res.SVG), 0o644); err != nil {
			log.Fatal(err)
		}
	}
}
