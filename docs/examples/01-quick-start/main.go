package main

import (
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/geosvg/pkg/geosvg"
)

func main() {
	// Create drawing with default options
	d, err := geosvg.New(geosvg.DefaultOptions())
	if err != nil {
		log.Fatal(err)
	}

	// Draw the layers, coastline first so rivers sit on top
	res, err := d.Compose("coast.geojson", "rivers.geojson")
	if err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile("map.svg", []byte(res.SVG), 0o644); err != nil {
		log.Fatal(err)
	}

	// Print drawing info
	fmt.Printf("CRS: %s\n", res.CRS)
	fmt.Printf("Bounds: %s\n", res.Bounds)
	for _, g := range res.Layers {
		fmt.Printf("Layer %s: %d features\n", g.ID, len(g.Members))
	}
}
