package main

import (
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/geosvg/pkg/geosvg"
)

// Draw several viewports of the same data. The cache keeps the decoded
// layers, so only the first composition reads the files.
func main() {
	cache := geosvg.NewCache(256 * 1024 * 1024) // 256 MB

	viewports := map[string][]float64{
		"north": {5, 52, 7, 54},
		"south": {5, 50, 7, 52},
		"all":   nil,
	}

	for name, b := range viewports {
		opts := geosvg.DefaultOptions()
		opts.Source = cache
		opts.Bounds = b
		opts.Projection = "utm"

		d, err := geosvg.New(opts)
		if err != nil {
			log.Fatal(err)
		}
		res, err := d.Compose("water.geojson", "roads.geojson")
		if err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(name+".svg", []byte(res.SVG), 0o644); err != nil {
			log.Fatal(err)
		}
	}

	stats := cache.Stats()
	fmt.Printf("Cache: %d layers, %d accesses, %.1f MB\n",
		stats.LayerCount, stats.TotalAccess, float64(stats.UsedMemory)/1024/1024)
}
