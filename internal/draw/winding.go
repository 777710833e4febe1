package draw

import "github.com/paulmach/orb"

// SignedArea returns the shoelace area of r treated as closed, whether or not
// its last point repeats the first. Negative means clockwise (y up).
func SignedArea(r orb.Ring) float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := range r {
		next := r[(i+1)%n]
		prev := r[(i-1+n)%n]
		sum += r[i][0] * (next[1] - prev[1])
	}
	return sum / 2
}

// Clockwise reports whether r winds clockwise. Zero-area rings count as
// counter-clockwise.
func Clockwise(r orb.Ring) bool {
	return SignedArea(r) < 0
}

// orient returns r wound clockwise (cw) or counter-clockwise, reversing a
// copy when needed. The input is never modified.
func orient(r orb.Ring, cw bool) orb.Ring {
	if Clockwise(r) == cw {
		return r
	}
	out := r.Clone()
	out.Reverse()
	return out
}
