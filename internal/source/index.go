package source

import (
	"github.com/dhconnelly/rtreego"

	"github.com/beetlebugorg/geosvg/internal/bounds"
)

// minExtent keeps points and axis-parallel lines indexable; rtreego rejects
// rectangles with a zero side.
const minExtent = 1e-9

// index is an R-tree over feature extents. Features without geometry are not
// indexed.
type index struct {
	rtree *rtreego.Rtree
}

// indexEntry ties a feature's position in the layer to its extent.
type indexEntry struct {
	pos  int
	rect rtreego.Rect
}

// Bounds method for rtreego.Spatial interface.
func (e indexEntry) Bounds() rtreego.Rect {
	return e.rect
}

func rect(b bounds.Box) rtreego.Rect {
	point := rtreego.Point{b.MinX, b.MinY}
	lengths := []float64{
		max(b.Width(), minExtent),
		max(b.Height(), minExtent),
	}
	r, _ := rtreego.NewRect(point, lengths)
	return r
}

func buildIndex(features []Feature) *index {
	// 2D, min=25 children, max=50 children
	tree := rtreego.NewTree(2, 25, 50)
	for i, f := range features {
		if f.Geometry == nil {
			continue
		}
		tree.Insert(indexEntry{pos: i, rect: rect(bounds.FromBound(f.Geometry.Bound()))})
	}
	return &index{rtree: tree}
}

// search marks the positions of features intersecting w.
func (idx *index) search(w bounds.Box, n int) []bool {
	hit := make([]bool, n)
	for _, s := range idx.rtree.SearchIntersect(rect(w)) {
		hit[s.(indexEntry).pos] = true
	}
	return hit
}
