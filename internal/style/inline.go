package style

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/beetlebugorg/geosvg/internal/svg"
)

var (
	styleElement = regexp.MustCompile(`(?s)<style[^>]*/>|<style[^>]*>.*?</style>`)
	defsElement  = regexp.MustCompile(`<defs\s*/>|<defs[^>]*>`)
	svgOpen      = regexp.MustCompile(`<svg[^>]*>`)
)

// textEscaper leaves whitespace alone: character references are not allowed
// in the prolog.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Inject replaces the document's <style> block with css. A document without
// one gets a <defs><style> block as the first child of <svg>.
func Inject(doc, css string) string {
	block := svg.StyleBlock(css)
	if loc := styleElement.FindStringIndex(doc); loc != nil {
		return doc[:loc[0]] + block + doc[loc[1]:]
	}
	if loc := defsElement.FindStringIndex(doc); loc != nil {
		tag := doc[loc[0]:loc[1]]
		if strings.HasSuffix(tag, "/>") {
			return doc[:loc[0]] + "<defs>" + block + "</defs>" + doc[loc[1]:]
		}
		return doc[:loc[1]] + block + doc[loc[1]:]
	}
	if loc := svgOpen.FindStringIndex(doc); loc != nil {
		return doc[:loc[1]] + "<defs>" + block + "</defs>" + doc[loc[1]:]
	}
	return doc
}

// Embedded returns the text of the document's <style> block.
func Embedded(doc string) string {
	m := styleElement.FindString(doc)
	if m == "" || strings.HasSuffix(m, "/>") {
		return ""
	}
	body := m[strings.Index(m, ">")+1 : len(m)-len("</style>")]
	body = strings.ReplaceAll(body, "<![CDATA[", "")
	return strings.ReplaceAll(body, "]]>", "")
}

// Inline applies the document's own <style> block plus css to every element
// as a style attribute, then removes the <style> block. Declarations already
// in an element's style attribute win over stylesheet ones.
func Inline(doc, css string) (string, error) {
	sheet, err := Parse(Embedded(doc) + "\n" + css)
	if err != nil {
		return "", err
	}

	dec := xml.NewDecoder(strings.NewReader(doc))
	var out strings.Builder
	var path []Element
	var pending *xml.StartElement
	skip := 0 // depth inside <style>

	flush := func(selfClose bool) {
		if pending == nil {
			return
		}
		writeStart(&out, *pending, selfClose)
		pending = nil
	}

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("inline style: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skip > 0 || t.Name.Local == "style" {
				skip++
				continue
			}
			flush(false)
			el := element(t)
			path = append(path, el)
			t = t.Copy()
			applyStyle(&t, sheet.Declarations(path))
			pending = &t
		case xml.EndElement:
			if skip > 0 {
				skip--
				continue
			}
			path = path[:len(path)-1]
			if pending != nil {
				flush(true)
				continue
			}
			out.WriteString("</" + qualified(t.Name) + ">")
		case xml.CharData:
			if skip > 0 {
				continue
			}
			flush(false)
			out.WriteString(textEscaper.Replace(string(t)))
		case xml.Comment:
			flush(false)
			out.WriteString("<!--" + string(t) + "-->")
		case xml.ProcInst:
			flush(false)
			out.WriteString("<?" + t.Target + " " + string(t.Inst) + "?>")
		case xml.Directive:
			flush(false)
			out.WriteString("<!" + string(t) + ">")
		}
	}
	return out.String(), nil
}

func qualified(n xml.Name) string {
	if n.Space != "" {
		return n.Space + ":" + n.Local
	}
	return n.Local
}

func element(t xml.StartElement) Element {
	e := Element{Tag: t.Name.Local}
	for _, a := range t.Attr {
		if a.Name.Space != "" {
			continue
		}
		switch a.Name.Local {
		case "id":
			e.ID = a.Value
		case "class":
			e.Classes = strings.Fields(a.Value)
		}
	}
	return e
}

// applyStyle merges decls into t's style attribute, keeping its existing
// declarations last so they take precedence.
func applyStyle(t *xml.StartElement, decls []*Declaration) {
	if len(decls) == 0 {
		return
	}
	var props []string
	values := make(map[string]string)
	set := func(k, v string) {
		if _, ok := values[k]; !ok {
			props = append(props, k)
		}
		values[k] = v
	}
	for _, d := range decls {
		set(d.Property, d.Text())
	}

	at := -1
	for i, a := range t.Attr {
		if a.Name.Space == "" && a.Name.Local == "style" {
			at = i
			for _, part := range strings.Split(a.Value, ";") {
				if k, v, ok := strings.Cut(part, ":"); ok {
					set(strings.TrimSpace(k), strings.TrimSpace(v))
				}
			}
		}
	}

	parts := make([]string, len(props))
	for i, k := range props {
		parts[i] = k + ":" + values[k]
	}
	style := strings.Join(parts, ";")
	if at >= 0 {
		t.Attr[at].Value = style
	} else {
		t.Attr = append(t.Attr, xml.Attr{Name: xml.Name{Local: "style"}, Value: style})
	}
}

func writeStart(out *strings.Builder, t xml.StartElement, selfClose bool) {
	out.WriteString("<" + qualified(t.Name))
	for _, a := range t.Attr {
		out.WriteString(" " + qualified(a.Name) + `="` + svg.Escape(a.Value) + `"`)
	}
	if selfClose {
		out.WriteString("/>")
	} else {
		out.WriteString(">")
	}
}
