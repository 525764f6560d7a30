package template

import (
	"testing"

	"github.com/relit-dev/relit/pkg/dom"
)

func TestParseCountsHoles(t *testing.T) {
	tpl, err := Parse(`<li class="{}">{}</li>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tpl.Holes() != 2 {
		t.Errorf("Holes() = %d, want 2", tpl.Holes())
	}
}

func TestParseNoHoles(t *testing.T) {
	tpl, err := Parse(`<p>static</p>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tpl.Holes() != 0 {
		t.Errorf("Holes() = %d, want 0", tpl.Holes())
	}
}

func TestFindDocumentOrder(t *testing.T) {
	tpl, err := Parse(`<div title="{}"><span>{}</span><textarea>{}</textarea></div>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	_, holes := tpl.Instantiate()
	if len(holes) != 3 {
		t.Fatalf("Expected 3 holes, got %d", len(holes))
	}
	if holes[0].Kind != HoleAttr || holes[0].Name != "title" {
		t.Errorf("hole 0 = %v %q, want Attr title", holes[0].Kind, holes[0].Name)
	}
	if holes[1].Kind != HoleContent {
		t.Errorf("hole 1 = %v, want Content", holes[1].Kind)
	}
	if holes[2].Kind != HoleText {
		t.Errorf("hole 2 = %v, want Text", holes[2].Kind)
	}
}

func TestContentHoleBecomesCommentAnchor(t *testing.T) {
	tpl, err := Parse(`<p>before {} after</p>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	root, holes := tpl.Instantiate()
	if len(holes) != 1 {
		t.Fatalf("Expected 1 hole, got %d", len(holes))
	}
	anchor := holes[0].Target
	if anchor.Kind != dom.KindComment {
		t.Fatalf("anchor Kind = %v, want KindComment", anchor.Kind)
	}

	// Surrounding text is preserved around the anchor.
	p := root.FirstChild()
	if p.TextContent() != "before  after" {
		t.Errorf("TextContent = %q, want %q", p.TextContent(), "before  after")
	}
	kids := p.Children()
	if len(kids) != 3 {
		t.Fatalf("Expected text, comment, text; got %d children", len(kids))
	}
	if kids[1] != anchor {
		t.Errorf("anchor is not the middle child")
	}
}

func TestAdjacentContentHoles(t *testing.T) {
	tpl, err := Parse(`<p>{}{}</p>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tpl.Holes() != 2 {
		t.Errorf("Holes() = %d, want 2", tpl.Holes())
	}
}

func TestInstantiateIndependence(t *testing.T) {
	tpl, err := Parse(`<div>{}</div>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	r1, h1 := tpl.Instantiate()
	r2, h2 := tpl.Instantiate()

	if r1 == r2 {
		t.Fatalf("instantiations share a root")
	}
	if h1[0].Target == h2[0].Target {
		t.Fatalf("instantiations share a hole anchor")
	}

	// Mutating one instance leaves the other and the shape untouched.
	div := r1.FirstChild()
	div.AppendChild(tpl.Document().CreateText("x"))
	if r2.FirstChild().TextContent() != "" {
		t.Errorf("mutation leaked into sibling instance")
	}
	if tpl.Root().FirstChild().TextContent() != "" {
		t.Errorf("mutation leaked into template shape")
	}
}

func TestRawTextMultipleHolesRejected(t *testing.T) {
	_, err := Parse(`<style>{} {}</style>`)
	if err == nil {
		t.Fatalf("Parse accepted two holes in a raw-text element")
	}
}

func TestPartialAttributeHoleRejected(t *testing.T) {
	_, err := Parse(`<div class="a {} b"></div>`)
	if err == nil {
		t.Fatalf("Parse accepted a marker mixed with literal attribute text")
	}

	// A full-value hole next to static attributes is still fine.
	tpl, err := Parse(`<div id="x" class="{}"></div>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tpl.Holes() != 1 {
		t.Errorf("Holes = %d, want 1", tpl.Holes())
	}
}

func TestMustPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Must did not panic")
		}
	}()
	Must(Parse(`<style>{} {}</style>`))
}

func TestParseInSharesDocument(t *testing.T) {
	doc := dom.NewDocument()
	tpl, err := ParseIn(doc, `<span>{}</span>`)
	if err != nil {
		t.Fatalf("ParseIn: %v", err)
	}
	if tpl.Document() != doc {
		t.Errorf("template not backed by the supplied document")
	}
	root, _ := tpl.Instantiate()
	if root.Document() != doc {
		t.Errorf("instance not backed by the supplied document")
	}
}
