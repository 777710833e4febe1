package main

import (
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/geosvg/pkg/geosvg"
)

const roadStyle = `
.highway_motorway { stroke: #e892a2; stroke-width: 4 }
.highway_primary  { stroke: #fcd6a4; stroke-width: 3 }
.highway_residential { stroke: #999; stroke-width: 1 }
`

func main() {
	opts := geosvg.DefaultOptions()

	// id="<osm_id>", class="highway_<value>", data-name="<name>"
	opts.IDField = "osm_id"
	opts.ClassFields = []string{"highway"}
	opts.DataFields = []string{"name", "maxspeed"}
	opts.Style = geosvg.DefaultStyle + roadStyle

	d, err := geosvg.New(opts)
	if err != nil {
		log.Fatal(err)
	}

	res, err := d.Compose("roads.geojson")
	if err != nil {
		log.Fatal(err)
	}

	// The layer group carries every property name as a class
	fmt.Printf("<g id=%q class=%q>\n", res.Layers[0].ID, res.Layers[0].Class)
	for _, m := range res.Layers[0].Members[:min(3, len(res.Layers[0].Members))] {
		fmt.Println("  " + m)
	}

	if err := os.WriteFile("roads.svg", []byte(res.SVG), 0o644); err != nil {
		log.Fatal(err)
	}
}
