package geosvg

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/beetlebugorg/geosvg/internal/bounds"
	"github.com/beetlebugorg/geosvg/internal/crs"
	"github.com/beetlebugorg/geosvg/internal/draw"
	"github.com/beetlebugorg/geosvg/internal/style"
	"github.com/beetlebugorg/geosvg/internal/svg"
	"github.com/beetlebugorg/geosvg/internal/transform"
)

// clipPadding widens the clip window beyond the output bounds so strokes at
// the edge of the frame are not cut.
const clipPadding = 1000.0

// State is the phase of a composition.
type State int

const (
	StateUninitialized State = iota
	StateInputCRSKnown
	StateOutputCRSKnown
	StateBoundsKnown
	StateDrawing
	StateDone
)

var stateNames = [...]string{"uninitialized", "input-crs-known", "output-crs-known", "bounds-known", "drawing", "done"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Group is one drawn layer: its non-empty feature elements, the layer name
// as id and its property names as classes.
type Group struct {
	Members []string
	ID      string
	Class   string
}

// String renders the group as a <g> element.
func (g Group) String() string {
	return svg.Element("g", []svg.Attr{{Name: "id", Value: g.ID}, {Name: "class", Value: g.Class}},
		strings.Join(g.Members, ""))
}

// Result is a finished composition.
type Result struct {
	// SVG is the complete document.
	SVG string
	// Bounds is the document frame in output units, y up.
	Bounds Box
	// CRS is the output coordinate system.
	CRS string
	// Layers holds the drawn groups in input order.
	Layers []Group
	// Skipped lists the features that were left out.
	Skipped []Skip
}

// Drawing composes layers into one SVG document. All layers share one output
// CRS and frame, decided from the options and from the layers as they are
// read. A Drawing can be reused for several compositions but is not safe for
// concurrent use.
type Drawing struct {
	opts          Options
	log           *slog.Logger
	projection    crs.Spec
	inputOverride *crs.CRS
	userBounds    bounds.Partial

	// per-composition state, cleared by reset
	state   State
	in      *crs.CRS
	out     *crs.CRS
	accum   bounds.Partial // union of layer extents in the output CRS
	frame   bounds.Partial // padded output bounds, output CRS units
	clip    transform.Stage
	clipFor bounds.Box
	skipped []Skip
}

// New validates opts and returns a Drawing. Problems with the options are
// reported as *ConfigError.
func New(opts Options) (*Drawing, error) {
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if opts.Scale < 0 || math.IsNaN(opts.Scale) || math.IsInf(opts.Scale, 0) {
		return nil, &ConfigError{Op: "scale", Err: fmt.Errorf("must be a positive number, got %v", opts.Scale)}
	}
	if opts.SimplifyRatio < 0 || opts.SimplifyRatio > 100 {
		return nil, &ConfigError{Op: "simplify", Err: fmt.Errorf("ratio must be within 0-100, got %v", opts.SimplifyRatio)}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Source == nil {
		opts.Source = Files{}
	}

	d := &Drawing{opts: opts, log: opts.Logger}

	spec, err := crs.ParseSpec(opts.Projection)
	if err != nil {
		return nil, &ConfigError{Op: "projection", Err: err}
	}
	d.projection = spec

	if opts.InputCRS != "" {
		in, err := crs.Parse(opts.InputCRS)
		if err != nil {
			return nil, &ConfigError{Op: "input crs", Err: err}
		}
		d.inputOverride = in
	}

	d.userBounds = bounds.FromSlice(opts.Bounds)
	if len(opts.Bounds) > 0 && !d.userBounds.Known() {
		d.log.Warn("ignoring invalid bounds", "bounds", opts.Bounds)
	}
	return d, nil
}

// State returns the phase of the composition in progress.
func (d *Drawing) State() State {
	return d.state
}

// Compose opens and draws each path in turn and frames the result. Layers
// are read one at a time; a layer is fully drawn before the next is opened.
func (d *Drawing) Compose(paths ...string) (*Result, error) {
	defer d.reset()

	groups := make([]Group, 0, len(paths))
	for _, path := range paths {
		l, err := d.opts.Source.Open(path)
		if err != nil {
			return nil, fmt.Errorf("compose: %w", err)
		}
		g, err := d.drawLayer(l)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return d.finish(groups)
}

// ComposeLayers is Compose for layers that are already open.
func (d *Drawing) ComposeLayers(layers ...*Layer) (*Result, error) {
	defer d.reset()

	groups := make([]Group, 0, len(layers))
	for _, l := range layers {
		g, err := d.drawLayer(l)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return d.finish(groups)
}

func (d *Drawing) reset() {
	d.state = StateUninitialized
	d.in, d.out = nil, nil
	d.accum, d.frame = bounds.Partial{}, bounds.Partial{}
	d.clip, d.clipFor = transform.Stage{}, bounds.Box{}
	d.skipped = nil
}

func (d *Drawing) drawLayer(l *Layer) (Group, error) {
	group := Group{ID: sanitize(l.Name()), Class: layerClass(l.Fields())}

	native := d.layerCRS(l)
	if err := d.resolveOutput(l, native); err != nil {
		if errors.Is(err, crs.ErrDeferred) {
			d.log.Warn("skipping layer, projection undetermined", "layer", l.Name(), "reason", err)
			return group, nil
		}
		return Group{}, err
	}

	window, extent, err := d.extend(l, native)
	if err != nil {
		return Group{}, err
	}
	pipeline, err := d.pipeline(native, extent)
	if err != nil {
		return Group{}, err
	}

	d.state = StateDrawing
	i := 0
	for f := range l.Features(window) {
		s, err := d.drawFeature(f, pipeline)
		if err != nil {
			d.skip(l.Name(), i, f.ID, err)
		} else if s != "" {
			group.Members = append(group.Members, s)
		}
		i++
	}
	return group, nil
}

// layerCRS returns the system l's coordinates are in, fixing the input CRS
// on the first call of a composition.
func (d *Drawing) layerCRS(l *Layer) *crs.CRS {
	var native *crs.CRS
	if def := l.CRS(); def != "" {
		c, err := crs.Parse(def)
		if err != nil {
			d.log.Warn("ignoring unreadable layer CRS", "layer", l.Name(), "crs", def, "reason", err)
		} else {
			native = c
		}
	}

	if d.state == StateUninitialized {
		switch {
		case d.inputOverride != nil:
			d.in = d.inputOverride
		case native != nil:
			d.in = native
		default:
			d.in = crs.WGS84
			d.log.Warn("input CRS unknown, assuming WGS84", "layer", l.Name())
		}
		d.state = StateInputCRSKnown
	}

	switch {
	case d.inputOverride != nil:
		return d.inputOverride
	case native != nil:
		return native
	}
	return d.in
}

// resolveOutput picks the output CRS the first time a layer needs it.
func (d *Drawing) resolveOutput(l *Layer, native *crs.CRS) error {
	if d.out != nil {
		return nil
	}
	env := crs.Env{Native: native, Bounds: l.Bounds(), BoundsCRS: native}
	if d.userBounds.Known() {
		env.Bounds, env.BoundsCRS = d.userBounds, d.in
	}
	out, err := crs.Select(d.projection, env)
	if errors.Is(err, crs.ErrDeferred) {
		return err
	}
	if err != nil {
		return &ConfigError{Op: "select projection", Err: err}
	}
	d.out = out
	d.state = StateOutputCRSKnown
	d.log.Debug("output CRS selected", "crs", out.String(), "method", d.projection.String())
	return nil
}

// extend folds l into the output bounds. It returns the read window in l's
// native CRS and l's extent in the output CRS.
//
// With caller bounds the frame is fixed once and each layer reads only the
// frame projected back into its own CRS. Without them each layer reads its
// whole extent and widens the frame.
func (d *Drawing) extend(l *Layer, native *crs.CRS) (window, extent bounds.Partial, err error) {
	if nb, ok := bounds.Validate(l.Bounds()); ok {
		ob, err := crs.TransformBounds(nb, native, d.out)
		if err != nil {
			return window, extent, &ConfigError{Op: "reproject layer bounds", Err: err}
		}
		extent = ob.Partial()
	}

	if ub, ok := bounds.Validate(d.userBounds); ok {
		if !d.frame.Known() {
			ob, err := crs.TransformBounds(ub, d.in, d.out)
			if err != nil {
				return window, extent, &ConfigError{Op: "reproject bounds", Err: err}
			}
			d.frame = bounds.Pad(ob.Partial(), d.opts.Padding)
		}
		fb, _ := bounds.Validate(d.frame)
		nw, err := crs.TransformBounds(fb, d.out, native)
		if err != nil {
			return window, extent, &ConfigError{Op: "reproject read window", Err: err}
		}
		window = nw.Partial()
	} else {
		d.accum = bounds.Extend(d.accum, extent)
		d.frame = bounds.Pad(d.accum, d.opts.Padding)
		window = l.Bounds()
	}

	if d.frame.Known() {
		d.state = StateBoundsKnown
	}
	return window, extent, nil
}

// pipeline assembles reproject, scale, clip and simplify for one layer.
// Clipping is skipped when the layer already lies inside the frame.
func (d *Drawing) pipeline(native *crs.CRS, extent bounds.Partial) (*transform.Pipeline, error) {
	var reproject bounds.Transformer
	if !native.Equal(d.out) {
		t, err := native.Transformer(d.out)
		if err != nil {
			return nil, &ConfigError{Op: "reproject", Err: err}
		}
		reproject = t
	}

	factor := 1 / d.opts.Scale

	var clip transform.Stage
	if d.opts.Clip {
		frame, ok := bounds.Validate(d.frame)
		ext, known := bounds.Validate(extent)
		if ok && !(known && bounds.Covers(frame, ext)) {
			clip = d.clipStage(frame, factor)
		}
	}

	return transform.New(
		transform.Reproject(reproject),
		transform.Scale(factor),
		clip,
		transform.Simplify(d.opts.Simplifier, d.opts.SimplifyRatio),
	), nil
}

// clipStage returns the clip stage for frame, rebuilding it only when the
// frame has changed since the last call.
func (d *Drawing) clipStage(frame bounds.Box, factor float64) transform.Stage {
	if !d.clip.Present() || d.clipFor != frame {
		d.clip = transform.Clip(d.opts.Clipper, frame.Pad(clipPadding).Scale(factor))
		d.clipFor = frame
	}
	return d.clip
}

// drawFeature returns the markup for f. A feature clipped away draws as the
// empty string without error.
func (d *Drawing) drawFeature(f Feature, p *transform.Pipeline) (string, error) {
	g, err := p.Apply(f.Geometry)
	if err != nil {
		return "", err
	}
	if g == nil {
		return "", nil
	}
	return draw.Geometry(g, draw.Options{
		Precision:   d.opts.Precision,
		PointRadius: d.opts.PointRadius,
	}, d.featureAttrs(f)...)
}

func (d *Drawing) skip(layer string, i int, id any, reason error) {
	d.log.Warn("skipping feature", "layer", layer, "feature", i, "reason", reason)
	d.skipped = append(d.skipped, Skip{Layer: layer, Feature: i, ID: id, Reason: reason})
}

func (d *Drawing) finish(groups []Group) (*Result, error) {
	d.state = StateDone

	frame, ok := bounds.Validate(d.frame)
	if !ok {
		d.log.Warn("no bounds could be determined, drawing is empty")
	}
	display := frame.Scale(1 / d.opts.Scale)

	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = g.String()
	}
	doc := svg.Document(svg.Frame{
		Bounds:    display,
		ViewBox:   d.opts.ViewBox,
		Precision: d.opts.Precision,
		Style:     d.opts.Style,
	}, parts)

	if d.opts.InlineStyle {
		inlined, err := style.Inline(doc, "")
		if err != nil {
			return nil, fmt.Errorf("compose: %w", err)
		}
		doc = inlined
	}

	return &Result{
		SVG:     doc,
		Bounds:  display,
		CRS:     d.out.String(),
		Layers:  groups,
		Skipped: d.skipped,
	}, nil
}
