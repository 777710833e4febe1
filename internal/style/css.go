// Package style parses the CSS used to style drawings and applies it to
// finished SVG, either as a <style> block or inlined per element.
//
// Only the selector forms that make sense for generated SVG are supported:
// type, #id, .class, * and compounds of those, joined by descendant or child
// combinators.
package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var cssLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `/\*([^*]|\*+[^*/])*\*+/`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Punct", Pattern: `[{}:;,>]`},
	{Name: "Word", Pattern: `[^\s{}:;,>]+`},
})

var parser = participle.MustBuild[Stylesheet](
	participle.Lexer(cssLexer),
	participle.Elide("Comment", "Whitespace"),
)

// Stylesheet is a parsed list of rules in source order.
type Stylesheet struct {
	Rules []*Rule `@@*`
}

// Rule is a selector list with its declaration block.
type Rule struct {
	Selectors    []*Selector    `@@ ( "," @@ )*`
	Declarations []*Declaration `"{" ( @@ | ";" )* "}"`
}

// Selector is a chain of compound selectors, outermost first.
type Selector struct {
	Steps []*Step `@@+`
}

// Step is one compound selector and the combinator linking it to the
// previous step.
type Step struct {
	Child    bool   `@">"?`
	Compound string `@Word`
}

// Declaration is a single property: value pair.
type Declaration struct {
	Property string   `@Word ":"`
	Value    []string `@( Word | "," )+`
}

// Parse reads css into a Stylesheet.
func Parse(css string) (*Stylesheet, error) {
	sheet, err := parser.ParseString("", css)
	if err != nil {
		return nil, fmt.Errorf("parse css: %w", err)
	}
	return sheet, nil
}

// Text returns the declaration's value as written, modulo whitespace.
func (d *Declaration) Text() string {
	var sb strings.Builder
	for i, v := range d.Value {
		if i > 0 && v != "," {
			sb.WriteByte(' ')
		}
		sb.WriteString(v)
	}
	return sb.String()
}

// compound is a parsed compound selector such as path.road#r1.
type compound struct {
	tag     string // "" or "*" matches anything
	id      string
	classes []string
}

func parseCompound(s string) compound {
	var c compound
	i := strings.IndexAny(s, ".#")
	if i < 0 {
		c.tag = s
		return c
	}
	c.tag, s = s[:i], s[i:]
	for s != "" {
		kind, rest := s[0], s[1:]
		j := strings.IndexAny(rest, ".#")
		if j < 0 {
			j = len(rest)
		}
		if kind == '#' {
			c.id = rest[:j]
		} else {
			c.classes = append(c.classes, rest[:j])
		}
		s = rest[j:]
	}
	return c
}

// Specificity is the (id, class, type) count of a selector.
type Specificity [3]int

// Less orders specificities lexicographically.
func (s Specificity) Less(o Specificity) bool {
	for i := range s {
		if s[i] != o[i] {
			return s[i] < o[i]
		}
	}
	return false
}

// Specificity returns the selector's specificity.
func (s *Selector) Specificity() Specificity {
	var sp Specificity
	for _, step := range s.Steps {
		c := parseCompound(step.Compound)
		if c.id != "" {
			sp[0]++
		}
		sp[1] += len(c.classes)
		if c.tag != "" && c.tag != "*" {
			sp[2]++
		}
	}
	return sp
}

// Element is the view of an SVG element the selector engine needs.
type Element struct {
	Tag     string
	ID      string
	Classes []string
}

func (c compound) matches(e Element) bool {
	if c.tag != "" && c.tag != "*" && c.tag != e.Tag {
		return false
	}
	if c.id != "" && c.id != e.ID {
		return false
	}
	for _, want := range c.classes {
		found := false
		for _, have := range e.Classes {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Matches reports whether the last element of path (root first) is selected.
func (s *Selector) Matches(path []Element) bool {
	if len(s.Steps) == 0 || len(path) == 0 {
		return false
	}
	return matchFrom(s.Steps, len(s.Steps)-1, path, len(path)-1)
}

// matchFrom matches steps[:si+1] with steps[si] against path[pi].
func matchFrom(steps []*Step, si int, path []Element, pi int) bool {
	if !parseCompound(steps[si].Compound).matches(path[pi]) {
		return false
	}
	if si == 0 {
		return true
	}
	if steps[si].Child {
		return pi > 0 && matchFrom(steps, si-1, path, pi-1)
	}
	for a := pi - 1; a >= 0; a-- {
		if matchFrom(steps, si-1, path, a) {
			return true
		}
	}
	return false
}

// Declarations returns the properties applying to the last element of path
// in cascade order: lower specificity first, then source order. Later
// entries override earlier ones.
func (s *Stylesheet) Declarations(path []Element) []*Declaration {
	type match struct {
		spec  Specificity
		order int
		decls []*Declaration
	}
	var matches []match
	for i, r := range s.Rules {
		best, hit := Specificity{}, false
		for _, sel := range r.Selectors {
			if sel.Matches(path) {
				if sp := sel.Specificity(); !hit || best.Less(sp) {
					best = sp
				}
				hit = true
			}
		}
		if hit {
			matches = append(matches, match{best, i, r.Declarations})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].spec != matches[j].spec {
			return matches[i].spec.Less(matches[j].spec)
		}
		return matches[i].order < matches[j].order
	})
	var out []*Declaration
	for _, m := range matches {
		out = append(out, m.decls...)
	}
	return out
}
