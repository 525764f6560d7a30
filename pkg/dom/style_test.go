package dom

import "testing"

func TestStyleSetAndRemove(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	s := div.Style()

	s.SetProperty("color", "red")
	s.SetProperty("width", "10px")
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}

	// Empty value removes the property.
	s.SetProperty("color", "")
	if s.Len() != 1 {
		t.Errorf("Len = %d after removal, want 1", s.Len())
	}
	if s.GetProperty("color") != "" {
		t.Errorf("removed property still present")
	}
}

func TestStyleCSSTextRoundTrip(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	s := div.Style()

	s.SetCSSText("color: red; margin: 4px")
	if got := s.CSSText(); got != "color:red;margin:4px" {
		t.Errorf("CSSText = %q", got)
	}

	s.SetCSSText("width: 1px")
	if s.Len() != 1 {
		t.Errorf("SetCSSText did not replace, Len = %d", s.Len())
	}
	if s.GetProperty("width") != "1px" {
		t.Errorf("width = %q, want 1px", s.GetProperty("width"))
	}
}

func TestStylePreservesInsertionOrder(t *testing.T) {
	doc := NewDocument()
	s := doc.CreateElement("div").Style()

	s.SetProperty("b", "2")
	s.SetProperty("a", "1")
	s.SetProperty("b", "3")

	if got := s.CSSText(); got != "b:3;a:1" {
		t.Errorf("CSSText = %q, want %q", got, "b:3;a:1")
	}
}

func TestStyleClear(t *testing.T) {
	doc := NewDocument()
	s := doc.CreateElement("div").Style()
	s.SetProperty("color", "red")

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", s.Len())
	}
}
