// Package crs resolves coordinate reference systems: parsing proj4 strings and
// EPSG codes, synthesizing UTM and local conic systems from bounds, and
// building coordinate transforms between two systems.
package crs

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ctessum/geom/proj"

	"github.com/beetlebugorg/geosvg/internal/bounds"
)

// CRS is a parsed coordinate reference system. Two values describing the same
// parameters compare Equal regardless of parameter order or spelling of
// no-op flags.
type CRS struct {
	def        string // definition as supplied
	key        string // canonical parameter list
	sr         *proj.SR
	geographic bool
	params     map[string]string
}

// WGS84 is geographic longitude/latitude on the WGS84 datum (EPSG:4326).
var WGS84 = MustParse("EPSG:4326")

// flags that carry no meaning for the transform itself
var inertParams = map[string]bool{
	"no_defs": true,
	"wktext":  true,
	"type":    true,
	"north":   true,
}

var projAliases = map[string]string{
	"latlong": "longlat",
	"lonlat":  "longlat",
	"latlon":  "longlat",
}

// Parse reads a proj4 string ("+proj=..."), an EPSG reference ("EPSG:4326",
// "urn:ogc:def:crs:EPSG::4326"), "CRS84", or WKT.
func Parse(def string) (*CRS, error) {
	def = strings.TrimSpace(def)
	if def == "" {
		return nil, fmt.Errorf("crs: empty definition")
	}
	if isWKT(def) {
		return parseWKT(def)
	}
	projDef := def
	if !strings.HasPrefix(def, "+") {
		code, ok := epsgCode(def)
		if !ok {
			return nil, fmt.Errorf("crs: unrecognized definition %q", def)
		}
		projDef, ok = EPSG(code)
		if !ok {
			return nil, fmt.Errorf("crs: unsupported EPSG code %d", code)
		}
	}

	params, order := splitParams(projDef)
	if params["proj"] == "" {
		return nil, fmt.Errorf("crs: %q has no +proj parameter", def)
	}
	if alias, ok := projAliases[params["proj"]]; ok {
		params["proj"] = alias
	}

	var clean []string
	for _, k := range order {
		if inertParams[k] {
			continue
		}
		if v := params[k]; v != "" {
			clean = append(clean, "+"+k+"="+v)
		} else {
			clean = append(clean, "+"+k)
		}
	}
	sr, err := proj.Parse(strings.Join(clean, " "))
	if err != nil {
		return nil, fmt.Errorf("crs: parse %q: %w", def, err)
	}

	sort.Strings(clean)
	return &CRS{
		def:        def,
		key:        strings.Join(clean, " "),
		sr:         sr,
		geographic: params["proj"] == "longlat",
		params:     params,
	}, nil
}

func isWKT(def string) bool {
	upper := strings.ToUpper(def)
	return strings.HasPrefix(upper, "PROJCS[") || strings.HasPrefix(upper, "GEOGCS[")
}

// parseWKT handles the WKT found in shapefile-style .prj sidecars. Equality
// falls back to comparing the whitespace-normalized text.
func parseWKT(def string) (*CRS, error) {
	sr, err := proj.Parse(def)
	if err != nil {
		return nil, fmt.Errorf("crs: parse WKT: %w", err)
	}
	return &CRS{
		def:        def,
		key:        "wkt:" + strings.Join(strings.Fields(def), " "),
		sr:         sr,
		geographic: strings.HasPrefix(strings.ToUpper(def), "GEOGCS["),
		params:     map[string]string{},
	}, nil
}

// MustParse is like Parse but panics on error. Use only with constant input.
func MustParse(def string) *CRS {
	c, err := Parse(def)
	if err != nil {
		panic(err)
	}
	return c
}

func splitParams(def string) (map[string]string, []string) {
	params := make(map[string]string)
	var order []string
	for _, tok := range strings.Fields(def) {
		tok = strings.TrimPrefix(tok, "+")
		if tok == "" {
			continue
		}
		k, v, _ := strings.Cut(tok, "=")
		if _, seen := params[k]; !seen {
			order = append(order, k)
		}
		params[k] = v
	}
	return params, order
}

var (
	epsgPattern = regexp.MustCompile(`(?i)^epsg:(\d+)$`)
	urnPattern  = regexp.MustCompile(`(?i)^urn:ogc:def:crs:epsg:[\d.]*:(\d+)$`)
	crs84       = regexp.MustCompile(`(?i)^(urn:ogc:def:crs:ogc:[\d.]*:)?crs84$`)
)

func epsgCode(s string) (int, bool) {
	if crs84.MatchString(s) {
		return 4326, true
	}
	for _, re := range []*regexp.Regexp{epsgPattern, urnPattern} {
		if m := re.FindStringSubmatch(s); m != nil {
			code, err := strconv.Atoi(m[1])
			return code, err == nil
		}
	}
	return 0, false
}

// String returns the definition the CRS was parsed from.
func (c *CRS) String() string {
	if c == nil {
		return ""
	}
	return c.def
}

// Equal reports whether c and o describe the same system.
func (c *CRS) Equal(o *CRS) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.key == o.key
}

// IsGeographic reports whether coordinates are longitude/latitude degrees.
func (c *CRS) IsGeographic() bool {
	return c != nil && c.geographic
}

// Param returns the value of a proj4 parameter such as "proj" or "zone".
func (c *CRS) Param(name string) (string, bool) {
	v, ok := c.params[name]
	return v, ok
}

// Transformer returns a function mapping coordinates from c into to. Equal
// systems yield the identity.
func (c *CRS) Transformer(to *CRS) (bounds.Transformer, error) {
	if c == nil || to == nil {
		return nil, bounds.ErrNoTransform
	}
	if c.Equal(to) {
		return func(x, y float64) (float64, float64, error) { return x, y, nil }, nil
	}
	t, err := c.sr.NewTransform(to.sr)
	if err != nil {
		return nil, fmt.Errorf("crs: transform %s -> %s: %w", c, to, err)
	}
	return bounds.Transformer(t), nil
}

// TransformBounds reprojects b from one system into another. It fails with
// bounds.ErrNoTransform when either system is missing.
func TransformBounds(b bounds.Box, from, to *CRS) (bounds.Box, error) {
	if from == nil || to == nil {
		return bounds.Box{}, bounds.ErrNoTransform
	}
	if from.Equal(to) {
		return b, nil
	}
	t, err := from.Transformer(to)
	if err != nil {
		return bounds.Box{}, err
	}
	return bounds.Reproject(b, t)
}
