package crs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/beetlebugorg/geosvg/internal/bounds"
)

// ErrDeferred is returned by Select when the projection cannot be decided
// until a layer supplies its native CRS or extent.
var ErrDeferred = errors.New("crs: projection undetermined until a layer is read")

// SpecError reports a projection spec that is neither a CRS, a method keyword
// nor a readable file.
type SpecError struct {
	Spec string
	Err  error
}

func (e *SpecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unrecognized projection %q: %v", e.Spec, e.Err)
	}
	return fmt.Sprintf("unrecognized projection %q", e.Spec)
}

func (e *SpecError) Unwrap() error {
	return e.Err
}

// Kind discriminates the variants of Spec.
type Kind int

const (
	KindConcrete Kind = iota
	KindMethod
	KindPath
)

// Method is a projection derived from the data rather than named up front.
type Method int

const (
	// MethodFile keeps each layer's native CRS.
	MethodFile Method = iota + 1
	// MethodDefault keeps projected data as is and draws geographic data
	// with MethodLocal.
	MethodDefault
	// MethodLocal synthesizes a Lambert conformal conic fitted to the bounds.
	MethodLocal
	// MethodUTM picks the UTM zone containing the center of the bounds.
	MethodUTM
)

var methodNames = map[string]Method{
	"file":    MethodFile,
	"default": MethodDefault,
	"local":   MethodLocal,
	"utm":     MethodUTM,
}

func (m Method) String() string {
	for name, v := range methodNames {
		if v == m {
			return name
		}
	}
	return "Method(" + strconv.Itoa(int(m)) + ")"
}

// Spec is a resolved projection specification. Exactly one of CRS (for
// KindConcrete and KindPath) or Method (for KindMethod) is meaningful.
type Spec struct {
	Kind   Kind
	CRS    *CRS
	Method Method
	Path   string // file the CRS was read from, for KindPath
}

// Concrete wraps an already parsed CRS.
func Concrete(c *CRS) Spec {
	return Spec{Kind: KindConcrete, CRS: c}
}

// ParseSpec classifies s once: a CRS definition, a method keyword
// ("file", "default", "local", "utm") or the path of a file holding a proj4
// string. The empty string means "default".
func ParseSpec(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Spec{Kind: KindMethod, Method: MethodDefault}, nil
	}
	if c, err := Parse(s); err == nil {
		return Concrete(c), nil
	}
	if m, ok := methodNames[strings.ToLower(s)]; ok {
		return Spec{Kind: KindMethod, Method: m}, nil
	}
	if info, err := os.Stat(s); err == nil && !info.IsDir() {
		data, err := os.ReadFile(s)
		if err != nil {
			return Spec{}, &SpecError{Spec: s, Err: err}
		}
		c, err := Parse(string(data))
		if err != nil {
			return Spec{}, &SpecError{Spec: s, Err: err}
		}
		return Spec{Kind: KindPath, CRS: c, Path: s}, nil
	}
	return Spec{}, &SpecError{Spec: s}
}

func (s Spec) String() string {
	switch s.Kind {
	case KindConcrete:
		return s.CRS.String()
	case KindPath:
		return s.Path
	default:
		return s.Method.String()
	}
}

// Env is what is known about the data when a projection is selected.
type Env struct {
	// Native is the CRS of the layer being drawn, nil if not yet known.
	Native *CRS
	// Bounds is the extent to fit, expressed in BoundsCRS.
	Bounds bounds.Partial
	// BoundsCRS is the system Bounds is expressed in. Nil means geographic.
	BoundsCRS *CRS
}

// Select turns spec into a concrete CRS. It returns ErrDeferred when a method
// needs a native CRS or bounds that env does not have yet.
func Select(spec Spec, env Env) (*CRS, error) {
	switch spec.Kind {
	case KindConcrete, KindPath:
		if spec.CRS == nil {
			return nil, &SpecError{Spec: spec.String(), Err: errors.New("missing CRS")}
		}
		return spec.CRS, nil
	case KindMethod:
	default:
		return nil, &SpecError{Spec: fmt.Sprintf("kind %d", spec.Kind)}
	}

	switch spec.Method {
	case MethodFile:
		if env.Native == nil {
			return nil, ErrDeferred
		}
		return env.Native, nil
	case MethodDefault:
		if env.Native == nil {
			return nil, ErrDeferred
		}
		if !env.Native.IsGeographic() {
			return env.Native, nil
		}
		return synthesize(MethodLocal, env)
	case MethodLocal, MethodUTM:
		return synthesize(spec.Method, env)
	}
	return nil, &SpecError{Spec: spec.String()}
}

func synthesize(m Method, env Env) (*CRS, error) {
	b, ok := bounds.Validate(env.Bounds)
	if !ok {
		return nil, ErrDeferred
	}
	if env.BoundsCRS != nil && !env.BoundsCRS.IsGeographic() {
		geo, err := TransformBounds(b, env.BoundsCRS, WGS84)
		if err != nil {
			return nil, fmt.Errorf("%s projection: %w", m, err)
		}
		b = geo
	}

	var def string
	switch m {
	case MethodUTM:
		def = UTMDef(b.Center())
	default:
		def = LocalDef(b)
	}
	c, err := Parse(def)
	if err != nil {
		return nil, fmt.Errorf("%s projection: %w", m, err)
	}
	return c, nil
}

// LocalDef returns a Lambert conformal conic definition centered on the
// horizontal midpoint of the geographic box b, with standard parallels at its
// northern and southern edges.
func LocalDef(b bounds.Box) string {
	midx, _ := b.Center()
	return fmt.Sprintf("+proj=lcc +lon_0=%s +lat_1=%s +lat_2=%s +lat_0=%s +x_0=0 +y_0=0 +ellps=GRS80 +units=m +no_defs",
		num(midx), num(b.MaxY), num(b.MinY), num(b.MaxY))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
