package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/geosvg/pkg/geosvg"
)

func safeCompose(projection string, paths ...string) (*geosvg.Result, error) {
	opts := geosvg.DefaultOptions()
	opts.Projection = projection

	d, err := geosvg.New(opts)
	if err != nil {
		// Bad options fail before anything is read
		var cfgErr *geosvg.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("invalid %s: %w", cfgErr.Op, cfgErr.Err)
		}
		return nil, err
	}

	res, err := d.Compose(paths...)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("layer file not found: %w", err)
		}
		return nil, err
	}

	// Broken features are left out, not fatal
	for _, s := range res.Skipped {
		log.Printf("Warning: skipped %s", s)
	}
	return res, nil
}

func main() {
	res, err := safeCompose("default", "parcels.geojson")
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}
	fmt.Printf("Drew %d layers, skipped %d features\n", len(res.Layers), len(res.Skipped))

	// Unknown projection
	if _, err := safeCompose("mercator-ish", "parcels.geojson"); err != nil {
		log.Printf("Expected error: %v", err)
	}

	// Missing file
	if _, err := safeCompose("default", "nonexistent.geojson"); err != nil {
		log.Printf("Expected error: %v", err)
	}
}
