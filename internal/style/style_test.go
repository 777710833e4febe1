package style

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	sheet, err := Parse(`
		/* roads */
		path.road, polyline { stroke: #333; stroke-width: 2 }
		g.water > path { fill: blue }
		text { font-family: Helvetica, Arial, sans-serif }
	`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(sheet.Rules) != 3 {
		t.Fatalf("Expected 3 rules, got %d", len(sheet.Rules))
	}
	first := sheet.Rules[0]
	if len(first.Selectors) != 2 || len(first.Declarations) != 2 {
		t.Errorf("Expected 2 selectors and 2 declarations, got %d and %d",
			len(first.Selectors), len(first.Declarations))
	}
	if got := sheet.Rules[1].Selectors[0].Steps[1]; !got.Child || got.Compound != "path" {
		t.Errorf("Expected child step path, got %+v", got)
	}
	if got := sheet.Rules[2].Declarations[0].Text(); got != "Helvetica, Arial, sans-serif" {
		t.Errorf("Expected comma list preserved, got %q", got)
	}
}

func TestParseError(t *testing.T) {
	if _, err := Parse("path { fill: red"); err == nil {
		t.Error("Expected error for unterminated block")
	}
}

func TestSpecificity(t *testing.T) {
	sheet, err := Parse(`* {a:b} path {a:b} .x {a:b} path.x {a:b} #i {a:b} g .x path#i {a:b}`)
	if err != nil {
		t.Fatal(err)
	}
	want := []Specificity{{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1}, {1, 0, 0}, {1, 1, 2}}
	for i, r := range sheet.Rules {
		if got := r.Selectors[0].Specificity(); got != want[i] {
			t.Errorf("Rule %d: expected %v, got %v", i, want[i], got)
		}
	}
}

func TestMatches(t *testing.T) {
	path := []Element{
		{Tag: "svg"},
		{Tag: "g", ID: "roads", Classes: []string{"highway", "name"}},
		{Tag: "g"},
		{Tag: "path", Classes: []string{"kind_primary"}},
	}
	tests := []struct {
		css  string
		want bool
	}{
		{"path {a:b}", true},
		{"circle {a:b}", false},
		{"#roads path {a:b}", true},
		{"#roads > path {a:b}", false},
		{"g > path.kind_primary {a:b}", true},
		{"g.highway.name path {a:b}", true},
		{"g.highway.other path {a:b}", false},
		{"svg * {a:b}", true},
	}
	for _, tt := range tests {
		sheet, err := Parse(tt.css)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tt.css, err)
		}
		if got := sheet.Rules[0].Selectors[0].Matches(path); got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.css, tt.want, got)
		}
	}
}

func TestDeclarationsCascade(t *testing.T) {
	sheet, _ := Parse(`#a { fill: red } path { fill: blue; stroke: black } path { fill: green }`)
	decls := sheet.Declarations([]Element{{Tag: "path", ID: "a"}})
	final := map[string]string{}
	for _, d := range decls {
		final[d.Property] = d.Text()
	}
	if final["fill"] != "red" {
		t.Errorf("Expected id rule to win, got fill=%q", final["fill"])
	}
	if final["stroke"] != "black" {
		t.Errorf("Expected stroke from type rule, got %q", final["stroke"])
	}
}

const doc = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><defs><style type="text/css"><![CDATA[polygon{fill:red}]]></style></defs><g id="parks"><polygon points="0,0 1,1 1,0" style="stroke:blue"/><circle cx="1" cy="1" r="1"/></g></svg>`

func TestInject(t *testing.T) {
	got := Inject(doc, "circle{fill:green}")
	if !strings.Contains(got, "<![CDATA[circle{fill:green}]]>") {
		t.Errorf("Expected new CSS in document:\n%s", got)
	}
	if strings.Contains(got, "polygon{fill:red}") {
		t.Error("Expected old CSS replaced")
	}

	bare := Inject(`<svg width="1"><g/></svg>`, "g{}")
	if !strings.HasPrefix(bare, `<svg width="1"><defs><style`) {
		t.Errorf("Expected defs inserted after <svg>, got %s", bare)
	}
}

func TestEmbedded(t *testing.T) {
	if got := Embedded(doc); got != "polygon{fill:red}" {
		t.Errorf("Expected embedded CSS, got %q", got)
	}
}

func TestInline(t *testing.T) {
	got, err := Inline(doc, "#parks circle { fill: green } polygon { stroke: black; opacity: 0.5 }")
	if err != nil {
		t.Fatalf("Inline failed: %v", err)
	}
	if strings.Contains(got, "<style") {
		t.Errorf("Expected style block removed:\n%s", got)
	}
	if !strings.Contains(got, `<polygon points="0,0 1,1 1,0" style="fill:red;stroke:blue;opacity:0.5"/>`) {
		t.Errorf("Expected inline declarations with existing ones winning:\n%s", got)
	}
	if !strings.Contains(got, `<circle cx="1" cy="1" r="1" style="fill:green"/>`) {
		t.Errorf("Expected descendant rule applied to circle:\n%s", got)
	}
	if !strings.HasPrefix(got, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("Expected XML declaration kept:\n%s", got)
	}
}
