package bounds_test

import (
	"fmt"

	"github.com/beetlebugorg/geosvg/internal/bounds"
)

func ExampleReproject() {
	// any func(x, y) (x, y, error) works, crs.CRS.Transformer returns one
	double := func(x, y float64) (float64, float64, error) { return 2 * x, 2 * y, nil }

	b, err := bounds.Reproject(bounds.Box{MinX: -1, MinY: 0, MaxX: 3, MaxY: 2}, double)
	if err != nil {
		panic(err)
	}
	fmt.Println(b)
	// Output: -2,0,6,4
}
