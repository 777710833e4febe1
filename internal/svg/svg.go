// Package svg writes the small subset of SVG markup the renderer emits.
package svg

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"

	"github.com/beetlebugorg/geosvg/internal/bounds"
)

// Attr is one attribute of an element. Attributes with an empty value are
// omitted.
type Attr struct {
	Name  string
	Value string
}

// Element renders <name attrs...>children</name>, or a self-closing tag when
// there are no children.
func Element(name string, attrs []Attr, children ...string) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(name)
	writeAttrs(&sb, attrs)
	if len(children) == 0 {
		sb.WriteString("/>")
		return sb.String()
	}
	sb.WriteByte('>')
	for _, c := range children {
		sb.WriteString(c)
	}
	sb.WriteString("</")
	sb.WriteString(name)
	sb.WriteByte('>')
	return sb.String()
}

// Group wraps members in a <g>. Empty members are skipped and a group with no
// members renders as the empty string.
func Group(members []string, attrs ...Attr) string {
	kept := members[:0:0]
	for _, m := range members {
		if m != "" {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return Element("g", attrs, kept...)
}

func writeAttrs(sb *strings.Builder, attrs []Attr) {
	for _, a := range attrs {
		if a.Value == "" {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(Escape(a.Value))
		sb.WriteByte('"')
	}
}

// Escape escapes s for use in attribute values and text content.
func Escape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

// Num formats v rounded to precision decimal places, with trailing zeros
// dropped. A negative precision formats v unrounded.
func Num(v float64, precision int) string {
	if precision >= 0 {
		p := math.Pow(10, float64(precision))
		v = math.Round(v*p) / p
	}
	if v == 0 {
		v = 0 // no "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Frame describes the root of a document.
type Frame struct {
	// Bounds is the drawing extent in output units, y up.
	Bounds bounds.Box
	// ViewBox selects framing with a viewBox attribute; otherwise the outer
	// group translates the minimum corner to the origin.
	ViewBox   bool
	Precision int
	Style     string
}

// Document wraps groups in an <svg> root. Every group goes inside one outer
// group that flips the y axis.
func Document(f Frame, groups []string) string {
	b := f.Bounds
	n := func(v float64) string { return Num(v, f.Precision) }

	root := []Attr{
		{"xmlns", "http://www.w3.org/2000/svg"},
		{"baseProfile", "full"},
		{"width", n(b.Width())},
		{"height", n(b.Height())},
	}
	transform := "scale(1,-1)"
	if f.ViewBox {
		root = append(root, Attr{"viewBox", strings.Join([]string{n(b.MinX), n(-b.MaxY), n(b.Width()), n(b.Height())}, " ")})
	} else {
		transform += " translate(" + n(-b.MinX) + "," + n(-b.MaxY) + ")"
	}

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(Element("svg", root,
		Element("defs", nil, StyleBlock(f.Style)),
		Element("g", []Attr{{"transform", transform}}, strings.Join(groups, "")),
	))
	sb.WriteByte('\n')
	return sb.String()
}

// StyleBlock renders css inside a <style> element, or an empty element when
// css is empty.
func StyleBlock(css string) string {
	if strings.TrimSpace(css) == "" {
		return `<style type="text/css"/>`
	}
	css = strings.ReplaceAll(css, "]]>", "]]]]><![CDATA[>")
	return `<style type="text/css"><![CDATA[` + css + `]]></style>`
}
