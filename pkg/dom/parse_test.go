package dom

import "testing"

func TestParseFragmentBasic(t *testing.T) {
	doc := NewDocument()
	frag, err := doc.ParseFragment(`<div class="a">hi <b>there</b></div>`)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}

	if frag.Kind != KindFragment {
		t.Fatalf("Kind = %v, want KindFragment", frag.Kind)
	}
	if len(frag.Children()) != 1 {
		t.Fatalf("Expected 1 child, got %d", len(frag.Children()))
	}
	div := frag.FirstChild()
	if div.Tag != "div" {
		t.Errorf("Tag = %q, want div", div.Tag)
	}
	if v, _ := div.Attribute("class"); v != "a" {
		t.Errorf("class = %q, want a", v)
	}
	if div.TextContent() != "hi there" {
		t.Errorf("TextContent = %q, want %q", div.TextContent(), "hi there")
	}
}

func TestParseFragmentPreservesComments(t *testing.T) {
	doc := NewDocument()
	frag, err := doc.ParseFragment(`<p><!--mark--></p>`)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}

	p := frag.FirstChild()
	if len(p.Children()) != 1 {
		t.Fatalf("Expected 1 child, got %d", len(p.Children()))
	}
	c := p.FirstChild()
	if c.Kind != KindComment {
		t.Fatalf("Kind = %v, want KindComment", c.Kind)
	}
	if c.Data() != "mark" {
		t.Errorf("Data = %q, want mark", c.Data())
	}
}

func TestParseFragmentStyleAttribute(t *testing.T) {
	doc := NewDocument()
	frag, err := doc.ParseFragment(`<div style="color: red; margin: 4px"></div>`)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}

	div := frag.FirstChild()
	if got := div.Style().GetProperty("color"); got != "red" {
		t.Errorf("color = %q, want red", got)
	}
	if got := div.Style().GetProperty("margin"); got != "4px" {
		t.Errorf("margin = %q, want 4px", got)
	}
}

func TestParseFragmentMultipleRoots(t *testing.T) {
	doc := NewDocument()
	frag, err := doc.ParseFragment(`<span>a</span><span>b</span>`)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	if len(frag.Children()) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(frag.Children()))
	}
}

func TestParseFragmentSVGNamespace(t *testing.T) {
	doc := NewDocument()
	frag, err := doc.ParseFragment(`<svg><circle r="4"></circle></svg>`)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}

	svg := frag.FirstChild()
	if !svg.IsSVG() {
		t.Errorf("svg element not in svg namespace")
	}
	if len(svg.Children()) == 1 && !svg.FirstChild().IsSVG() {
		t.Errorf("circle not in svg namespace")
	}
}
