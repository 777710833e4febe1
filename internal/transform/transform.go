// Package transform builds the ordered chain of geometry stages applied to
// every feature of a layer: reproject, scale, clip and simplify.
package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/beetlebugorg/geosvg/internal/bounds"
)

// ErrNullGeometry is returned by Apply for a feature without geometry.
var ErrNullGeometry = errors.New("feature has no geometry")

// StageError wraps a failure raised inside one stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Stage is one named step of a Pipeline. A Stage with a nil Func is absent
// and is dropped when the pipeline is built.
type Stage struct {
	Name string
	Func func(orb.Geometry) (orb.Geometry, error)
}

// Present reports whether the stage does anything.
func (s Stage) Present() bool {
	return s.Func != nil
}

// Reproject returns a stage passing every coordinate through t. A nil t
// (source and target systems are equal) yields an absent stage.
func Reproject(t bounds.Transformer) Stage {
	if t == nil {
		return Stage{}
	}
	return Stage{Name: "reproject", Func: func(g orb.Geometry) (orb.Geometry, error) {
		var firstErr error
		out := project.Geometry(g, func(p orb.Point) orb.Point {
			if firstErr != nil {
				return p
			}
			x, y, err := t(p[0], p[1])
			if err == nil && (math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0)) {
				err = fmt.Errorf("(%v, %v) has no finite projection", p[0], p[1])
			}
			if err != nil {
				firstErr = err
				return p
			}
			return orb.Point{x, y}
		})
		if firstErr != nil {
			return nil, firstErr
		}
		return out, nil
	}}
}

// Scale returns a stage multiplying every coordinate by factor. A factor of
// one yields an absent stage.
func Scale(factor float64) Stage {
	if factor == 1 {
		return Stage{}
	}
	return Stage{Name: "scale", Func: func(g orb.Geometry) (orb.Geometry, error) {
		return project.Geometry(g, func(p orb.Point) orb.Point {
			return orb.Point{p[0] * factor, p[1] * factor}
		}), nil
	}}
}

// Clip returns a stage intersecting geometries with window. A nil clipper
// yields an absent stage.
func Clip(c Clipper, window bounds.Box) Stage {
	if c == nil {
		return Stage{}
	}
	return Stage{Name: "clip", Func: func(g orb.Geometry) (orb.Geometry, error) {
		return c.Clip(g, window), nil
	}}
}

// Simplify returns a stage keeping ratio percent of each line's points. A nil
// simplifier, or a ratio outside (0, 100), yields an absent stage.
func Simplify(s Simplifier, ratio float64) Stage {
	if s == nil || ratio <= 0 || ratio >= 100 {
		return Stage{}
	}
	return Stage{Name: "simplify", Func: func(g orb.Geometry) (orb.Geometry, error) {
		return s.Simplify(g, ratio), nil
	}}
}

// Pipeline is an ordered list of present stages.
type Pipeline struct {
	stages []Stage
}

// New builds a pipeline from stages, dropping absent ones. Order is kept.
func New(stages ...Stage) *Pipeline {
	p := &Pipeline{}
	for _, s := range stages {
		if s.Present() {
			p.stages = append(p.stages, s)
		}
	}
	return p
}

// Names lists the present stages in order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Apply runs g through every stage. The input is not modified. A nil result
// with a nil error means a stage dropped the geometry entirely (it was clipped
// away); this is not a failure.
func (p *Pipeline) Apply(g orb.Geometry) (out orb.Geometry, err error) {
	if g == nil {
		return nil, ErrNullGeometry
	}
	out = orb.Clone(g)
	for _, s := range p.stages {
		out, err = run(s, out)
		if err != nil {
			return nil, &StageError{Stage: s.Name, Err: err}
		}
		if out == nil {
			return nil, nil
		}
	}
	return out, nil
}

func run(s Stage, g orb.Geometry) (out orb.Geometry, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Func(g)
}
