package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/geosvg/pkg/geosvg"
)

// Compare output size at different simplification ratios
func drawSimplified(ratio float64) (int, error) {
	opts := geosvg.DefaultOptions()
	opts.Projection = "EPSG:3857"
	opts.Scale = 1000  // kilometres
	opts.Precision = 1 // 100 m
	opts.SimplifyRatio = ratio

	d, err := geosvg.New(opts)
	if err != nil {
		return 0, err
	}
	res, err := d.Compose("countries.geojson")
	if err != nil {
		return 0, err
	}
	return len(res.SVG), nil
}

func main() {
	for _, ratio := range []float64{0, 50, 10, 2} {
		size, err := drawSimplified(ratio)
		if err != nil {
			log.Fatal(err)
		}
		label := fmt.Sprintf("%.0f%%", ratio)
		if ratio == 0 {
			label = "full"
		}
		fmt.Printf("%-5s %8d bytes\n", label, size)
	}

	// Without clipping, every geometry is kept whole even outside the frame
	opts := geosvg.DefaultOptions()
	opts.Bounds = []float64{-10, 35, 30, 60}
	opts.Clip = false
	d, err := geosvg.New(opts)
	if err != nil {
		log.Fatal(err)
	}
	res, err := d.Compose("countries.geojson")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("unclipped europe: %d bytes\n", len(res.SVG))
}
