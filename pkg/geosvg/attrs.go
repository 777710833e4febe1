package geosvg

import (
	"fmt"
	"strings"

	"github.com/beetlebugorg/geosvg/internal/svg"
)

// sanitize makes s usable as an XML id or CSS class: characters outside
// [A-Za-z0-9_-] become underscores and a leading digit gets an underscore
// prefix.
func sanitize(s string) string {
	if s == "" {
		return ""
	}
	var sb strings.Builder
	if s[0] >= '0' && s[0] <= '9' {
		sb.WriteByte('_')
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func layerClass(fields []string) string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if s := sanitize(f); s != "" {
			names = append(names, s)
		}
	}
	return strings.Join(names, " ")
}

func (d *Drawing) featureAttrs(f Feature) []svg.Attr {
	var attrs []svg.Attr
	if d.opts.IDField != "" {
		if v, ok := f.Properties[d.opts.IDField]; ok && v != nil {
			attrs = append(attrs, svg.Attr{Name: "id", Value: sanitize(fmt.Sprint(v))})
		}
	}

	var classes []string
	for _, field := range d.opts.ClassFields {
		if v, ok := f.Properties[field]; ok && v != nil {
			classes = append(classes, sanitize(field+"_"+fmt.Sprint(v)))
		}
	}
	if len(classes) > 0 {
		attrs = append(attrs, svg.Attr{Name: "class", Value: strings.Join(classes, " ")})
	}

	for _, field := range d.opts.DataFields {
		if v, ok := f.Properties[field]; ok && v != nil {
			attrs = append(attrs, svg.Attr{Name: "data-" + sanitize(field), Value: fmt.Sprint(v)})
		}
	}
	return attrs
}
