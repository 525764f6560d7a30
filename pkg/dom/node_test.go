package dom

import "testing"

func TestAppendChildSetsParent(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div")
	child := doc.CreateElement("span")

	parent.AppendChild(child)

	if child.Parent() != parent {
		t.Errorf("Parent() = %v, want parent", child.Parent())
	}
	if len(parent.Children()) != 1 {
		t.Fatalf("Expected 1 child, got %d", len(parent.Children()))
	}
	if parent.FirstChild() != child {
		t.Errorf("FirstChild() != child")
	}
}

func TestInsertBeforeReference(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("ul")
	a := doc.CreateElement("li")
	c := doc.CreateElement("li")
	parent.AppendChild(a)
	parent.AppendChild(c)

	b := doc.CreateElement("li")
	parent.InsertBefore(b, c)

	kids := parent.Children()
	if len(kids) != 3 {
		t.Fatalf("Expected 3 children, got %d", len(kids))
	}
	if kids[0] != a || kids[1] != b || kids[2] != c {
		t.Errorf("child order = [%p %p %p], want [a b c]", kids[0], kids[1], kids[2])
	}
}

func TestInsertBeforeMovesExistingChild(t *testing.T) {
	doc := NewDocument()
	p1 := doc.CreateElement("div")
	p2 := doc.CreateElement("div")
	child := doc.CreateElement("span")
	p1.AppendChild(child)

	p2.AppendChild(child)

	if child.Parent() != p2 {
		t.Errorf("Parent() = %v, want p2", child.Parent())
	}
	if len(p1.Children()) != 0 {
		t.Errorf("old parent still has %d children", len(p1.Children()))
	}
}

func TestInsertFragmentExpandsChildren(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div")
	frag := doc.CreateFragment()
	a := doc.CreateText("a")
	b := doc.CreateText("b")
	frag.AppendChild(a)
	frag.AppendChild(b)

	parent.AppendChild(frag)

	kids := parent.Children()
	if len(kids) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(kids))
	}
	if kids[0] != a || kids[1] != b {
		t.Errorf("fragment children not spliced in order")
	}
	if len(frag.Children()) != 0 {
		t.Errorf("fragment still owns %d children", len(frag.Children()))
	}
}

func TestRemoveChild(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div")
	child := doc.CreateElement("span")
	parent.AppendChild(child)

	parent.RemoveChild(child)

	if child.Parent() != nil {
		t.Errorf("Parent() = %v, want nil", child.Parent())
	}
	if len(parent.Children()) != 0 {
		t.Errorf("Expected 0 children, got %d", len(parent.Children()))
	}
}

func TestReplaceChild(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div")
	old := doc.CreateElement("a")
	parent.AppendChild(old)

	repl := doc.CreateElement("b")
	parent.ReplaceChild(repl, old)

	if len(parent.Children()) != 1 || parent.FirstChild() != repl {
		t.Fatalf("replacement not in place")
	}
	if old.Parent() != nil {
		t.Errorf("old child still attached")
	}
}

func TestTextContent(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	span := doc.CreateElement("span")
	span.AppendChild(doc.CreateText("Hello "))
	div.AppendChild(span)
	div.AppendChild(doc.CreateText("World"))
	div.AppendChild(doc.CreateComment("ignored"))

	if got := div.TextContent(); got != "Hello World" {
		t.Errorf("TextContent() = %q, want %q", got, "Hello World")
	}

	div.SetTextContent("replaced")
	if len(div.Children()) != 1 {
		t.Fatalf("Expected 1 child after SetTextContent, got %d", len(div.Children()))
	}
	if got := div.TextContent(); got != "replaced" {
		t.Errorf("TextContent() = %q, want %q", got, "replaced")
	}
}

func TestNextSibling(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div")
	a := doc.CreateText("a")
	b := doc.CreateText("b")
	parent.AppendChild(a)
	parent.AppendChild(b)

	if a.NextSibling() != b {
		t.Errorf("a.NextSibling() != b")
	}
	if b.NextSibling() != nil {
		t.Errorf("b.NextSibling() = %v, want nil", b.NextSibling())
	}
}

func TestHasProperty(t *testing.T) {
	doc := NewDocument()
	input := doc.CreateElement("input")
	div := doc.CreateElement("div")

	if !input.HasProperty("value") {
		t.Errorf("input should expose value property")
	}
	if div.HasProperty("value") {
		t.Errorf("div should not expose value property")
	}
	if !div.HasProperty("onclick") {
		t.Errorf("on-prefixed names are always properties")
	}
	if !div.HasProperty("id") {
		t.Errorf("id is a universal property")
	}
}

func TestSetPropNil(t *testing.T) {
	doc := NewDocument()
	input := doc.CreateElement("input")
	input.SetProp("value", "abc")

	input.SetProp("value", nil)

	if v, ok := input.Prop("value"); !ok || v != nil {
		t.Errorf("Prop after nil set = (%v, %v), want (nil, true)", v, ok)
	}
}

func TestCloneNodeDeep(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	div.SetAttribute("class", "x")
	div.Style().SetProperty("color", "red")
	span := doc.CreateElement("span")
	span.AppendChild(doc.CreateText("hi"))
	div.AppendChild(span)

	clone := div.CloneNode(true)

	if clone == div {
		t.Fatalf("clone is the original")
	}
	if v, _ := clone.Attribute("class"); v != "x" {
		t.Errorf("clone class = %q, want x", v)
	}
	if clone.Style().GetProperty("color") != "red" {
		t.Errorf("clone style not copied")
	}
	if clone.TextContent() != "hi" {
		t.Errorf("clone TextContent = %q, want hi", clone.TextContent())
	}

	// Mutating the clone must not touch the original.
	clone.Style().SetProperty("color", "blue")
	clone.SetAttribute("class", "y")
	if div.Style().GetProperty("color") != "red" {
		t.Errorf("original style mutated through clone")
	}
	if v, _ := div.Attribute("class"); v != "x" {
		t.Errorf("original attribute mutated through clone")
	}
}

func TestCloneNodeShallow(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	div.AppendChild(doc.CreateText("hi"))

	clone := div.CloneNode(false)

	if len(clone.Children()) != 0 {
		t.Errorf("shallow clone has %d children, want 0", len(clone.Children()))
	}
}

func TestMutationOpsCounter(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	before := doc.MutationOps()

	div.SetAttribute("id", "x")
	div.AppendChild(doc.CreateText("t"))

	if doc.MutationOps() == before {
		t.Errorf("MutationOps did not advance after mutations")
	}
}

func TestDetachedAttrNode(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	a := NewAttr("title")
	a.SetValue("hello")

	if a.Attached() {
		t.Fatalf("fresh attr reports attached")
	}
	div.SetAttributeNode(a)
	if !a.Attached() {
		t.Fatalf("attr not attached after SetAttributeNode")
	}
	if v, ok := div.Attribute("title"); !ok || v != "hello" {
		t.Errorf("Attribute = (%q, %v), want (hello, true)", v, ok)
	}

	div.RemoveAttributeNode(a)
	if a.Attached() {
		t.Errorf("attr still attached after removal")
	}
	if div.HasAttribute("title") {
		t.Errorf("element still reports title attribute")
	}
	if a.Value() != "hello" {
		t.Errorf("detached attr lost its value")
	}
}

func TestEventDispatch(t *testing.T) {
	doc := NewDocument()
	btn := doc.CreateElement("button")

	var clicks int
	l := btn.AddEventListener("click", func(e *Event) { clicks++ })

	btn.Dispatch(&Event{Type: "click"})
	if clicks != 1 {
		t.Fatalf("clicks = %d, want 1", clicks)
	}

	btn.RemoveEventListener(l)
	btn.Dispatch(&Event{Type: "click"})
	if clicks != 1 {
		t.Errorf("listener fired after removal")
	}
	if btn.ListenerCount("click") != 0 {
		t.Errorf("ListenerCount = %d, want 0", btn.ListenerCount("click"))
	}
}
