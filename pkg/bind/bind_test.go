package bind

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/relit-dev/relit/pkg/dom"
	"github.com/relit-dev/relit/pkg/render"
	"github.com/relit-dev/relit/pkg/template"
)

// newHole instantiates source and wires its holes.
func newHole(t *testing.T, source string, opts ...Option) (*dom.Node, []Update) {
	t.Helper()
	tpl, err := template.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root, holes := tpl.Instantiate()
	return root, Create(root, holes, opts...)
}

// contentHTML renders an element's children, skipping comment nodes so
// hole anchors do not show up in expectations.
func contentHTML(parent *dom.Node) string {
	var b strings.Builder
	for _, c := range parent.Children() {
		if c.Kind == dom.KindComment {
			continue
		}
		b.WriteString(render.String(c))
	}
	return b.String()
}

func TestRegularAttribute(t *testing.T) {
	root, updates := newHole(t, `<div data-id="{}"></div>`)
	div := root.FirstChild()

	if div.HasAttribute("data-id") {
		t.Fatalf("marker attribute not cleared at create time")
	}

	updates[0]("hello")
	if v, _ := div.Attribute("data-id"); v != "hello" {
		t.Errorf("data-id = %q, want hello", v)
	}

	updates[0](nil)
	if div.HasAttribute("data-id") {
		t.Errorf("nil did not remove the attribute")
	}

	updates[0](42)
	if v, _ := div.Attribute("data-id"); v != "42" {
		t.Errorf("data-id = %q, want 42", v)
	}
}

func TestRegularAttributeIdempotent(t *testing.T) {
	root, updates := newHole(t, `<div data-id="{}"></div>`)
	doc := root.Document()

	updates[0]("x")
	before := doc.MutationOps()
	updates[0]("x")
	if doc.MutationOps() != before {
		t.Errorf("repeated equal value performed mutations")
	}
}

func TestPropertyAttribute(t *testing.T) {
	root, updates := newHole(t, `<input value="{}">`)
	input := root.FirstChild()

	updates[0]("abc")
	if v, ok := input.Prop("value"); !ok || v != "abc" {
		t.Errorf("Prop = (%v, %v), want (abc, true)", v, ok)
	}
	// Property path writes the property, not the attribute.
	if input.HasAttribute("value") {
		t.Errorf("property path wrote an attribute")
	}

	updates[0](nil)
	if v, ok := input.Prop("value"); !ok || v != nil {
		t.Errorf("Prop after nil = (%v, %v), want (nil, true)", v, ok)
	}
}

func TestAttributeTypedNilDetaches(t *testing.T) {
	root, updates := newHole(t, `<div data-id="{}"></div>`)
	div := root.FirstChild()

	updates[0]("x")
	var p *int
	updates[0](p)
	if div.HasAttribute("data-id") {
		t.Errorf("typed nil left the attribute attached")
	}
}

func TestPropertyTypedNilClears(t *testing.T) {
	root, updates := newHole(t, `<input value="{}">`)
	input := root.FirstChild()

	updates[0]("abc")
	var s []string
	updates[0](s)
	if v, ok := input.Prop("value"); !ok || v != nil {
		t.Errorf("Prop after typed nil = (%v, %v), want (nil, true)", v, ok)
	}
}

func TestAttributeKindSelectedOnce(t *testing.T) {
	// "title" is a universal property, so the hole binds as a property
	// even when a text-shaped value arrives later.
	root, updates := newHole(t, `<div title="{}"></div>`)
	div := root.FirstChild()

	updates[0]("first")
	updates[0]("second")
	if div.HasAttribute("title") {
		t.Errorf("property-bound hole leaked into attributes")
	}
	if v, _ := div.Prop("title"); v != "second" {
		t.Errorf("Prop = %v, want second", v)
	}
}

func TestEventAttribute(t *testing.T) {
	root, updates := newHole(t, `<button onclick="{}"></button>`)
	btn := root.FirstChild()

	var clicks int
	updates[0](func(*dom.Event) { clicks++ })
	btn.Dispatch(&dom.Event{Type: "click"})
	if clicks != 1 {
		t.Fatalf("clicks = %d, want 1", clicks)
	}

	// A new handler replaces the old one.
	var other int
	updates[0](func(*dom.Event) { other++ })
	btn.Dispatch(&dom.Event{Type: "click"})
	if clicks != 1 || other != 1 {
		t.Errorf("clicks = %d, other = %d; want 1, 1", clicks, other)
	}

	// nil detaches.
	updates[0](nil)
	btn.Dispatch(&dom.Event{Type: "click"})
	if other != 1 {
		t.Errorf("handler fired after nil")
	}
	if btn.ListenerCount("click") != 0 {
		t.Errorf("ListenerCount = %d, want 0", btn.ListenerCount("click"))
	}
}

func TestEventAttributeRejectsNonFunc(t *testing.T) {
	_, updates := newHole(t, `<button onclick="{}"></button>`)
	defer func() {
		if recover() == nil {
			t.Errorf("non-func event value did not panic")
		}
	}()
	updates[0]("not a handler")
}

func TestStyleString(t *testing.T) {
	root, updates := newHole(t, `<div style="{}"></div>`)
	div := root.FirstChild()

	updates[0]("color: red; width: 4px")
	if div.Style().GetProperty("color") != "red" {
		t.Errorf("color = %q, want red", div.Style().GetProperty("color"))
	}

	doc := root.Document()
	before := doc.MutationOps()
	updates[0]("color: red; width: 4px")
	if doc.MutationOps() != before {
		t.Errorf("repeated equal style string performed mutations")
	}
}

func TestStyleMapDiffing(t *testing.T) {
	root, updates := newHole(t, `<div style="{}"></div>`)
	st := root.FirstChild().Style()

	updates[0](map[string]any{"width": 10, "opacity": 0.5})
	if got := st.GetProperty("width"); got != "10px" {
		t.Errorf("width = %q, want 10px", got)
	}
	if got := st.GetProperty("opacity"); got != "0.5" {
		t.Errorf("opacity = %q, want 0.5 (unitless)", got)
	}

	// Keys absent from the next mapping are removed.
	updates[0](map[string]any{"width": 12})
	if st.GetProperty("opacity") != "" {
		t.Errorf("stale key survived the next mapping")
	}
	if got := st.GetProperty("width"); got != "12px" {
		t.Errorf("width = %q, want 12px", got)
	}
}

func TestStyleRepresentationSwitch(t *testing.T) {
	root, updates := newHole(t, `<div style="{}"></div>`)
	st := root.FirstChild().Style()

	updates[0]("color: red")
	updates[0](map[string]string{"width": "1px"})

	if st.GetProperty("color") != "" {
		t.Errorf("string-era key survived the switch to mapping")
	}
	if st.GetProperty("width") != "1px" {
		t.Errorf("width = %q, want 1px", st.GetProperty("width"))
	}
}

func TestBindingRender(t *testing.T) {
	tpl, err := template.Parse(`<li class="{}">{}</li>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b := New(tpl)

	if err := b.Render("item", "Hello"); err != nil {
		t.Fatalf("Render: %v", err)
	}

	li := b.Root().FirstChild()
	class, _ := li.Attribute("class")
	got := struct{ Class, Text string }{class, li.TextContent()}
	want := struct{ Class, Text string }{"item", "Hello"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered instance mismatch (-want +got):\n%s", diff)
	}
}

func TestBindingAttachThenRender(t *testing.T) {
	tpl, err := template.Parse(`<span>x</span>{}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b := New(tpl)
	doc := b.Root().Document()
	doc.Root().AppendChild(b.Root())

	if err := b.Render("hello"); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := doc.Root().TextContent(); got != "xhello" {
		t.Errorf("TextContent = %q, want xhello", got)
	}

	if err := b.Render(nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := doc.Root().TextContent(); got != "x" {
		t.Errorf("after clear: TextContent = %q, want x", got)
	}
}

func TestBindingRenderCountMismatch(t *testing.T) {
	tpl, err := template.Parse(`<li>{}</li>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b := New(tpl)

	if err := b.Render("a", "b"); err == nil {
		t.Errorf("value-count mismatch not rejected")
	}
	if len(b.Updates()) != 1 {
		t.Errorf("Updates() = %d callbacks, want 1", len(b.Updates()))
	}
}
