package geosvg

import "fmt"

// ConfigError reports a problem that stops a whole composition: an
// unresolvable projection, bounds that cannot be transformed, invalid
// options.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("geosvg: %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Skip records a feature left out of a drawing and why.
type Skip struct {
	Layer   string
	Feature int // position in the layer
	ID      any
	Reason  error
}

func (s Skip) String() string {
	return fmt.Sprintf("%s[%d]: %v", s.Layer, s.Feature, s.Reason)
}
