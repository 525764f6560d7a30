package dom

import "strings"

// NodeKind is the node type discriminator.
type NodeKind uint8

const (
	KindElement  NodeKind = iota // <div>, <button>, etc.
	KindText                     // Plain text
	KindComment                  // <!-- comment -->
	KindFragment                 // Grouping without wrapper; children move on insert
	KindDocument                 // Root of a Document's tree
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	case KindDocument:
		return "Document"
	default:
		return "Unknown"
	}
}

// Node is a live document-tree node. Nodes are created through a Document
// so that every mutation is attributed to the right operation counter and
// mutation-record queue.
type Node struct {
	Kind      NodeKind
	Tag       string // element tag name (e.g. "div")
	Namespace string // "svg", "math", or "" for HTML

	data string // text/comment content

	doc      *Document
	parent   *Node
	children []*Node

	attrs     []*Attr
	props     map[string]any
	style     *StyleDecl
	listeners map[string][]*Listener
}

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

// Parent returns the parent node, or nil for a detached node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children. The slice is the node's own
// backing storage; callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// Data returns the content of a text or comment node.
func (n *Node) Data() string { return n.data }

// SetData replaces the content of a text or comment node.
func (n *Node) SetData(s string) {
	if n.data == s {
		return
	}
	n.data = s
	n.doc.countOp()
}

// IsSVG reports whether the node belongs to the SVG namespace.
func (n *Node) IsSVG() bool { return n.Namespace == "svg" }

// InsertBefore inserts child before ref among n's children. A nil ref
// appends. An already-attached child is detached from its current parent
// first, so InsertBefore doubles as a move. Inserting a fragment moves
// the fragment's children, not the fragment itself.
func (n *Node) InsertBefore(child, ref *Node) {
	if child == nil {
		return
	}
	if child.Kind == KindFragment {
		for len(child.children) > 0 {
			n.InsertBefore(child.children[0], ref)
		}
		return
	}
	if child.parent != nil {
		child.parent.removeChild(child, false)
	}
	idx := len(n.children)
	if ref != nil {
		for i, c := range n.children {
			if c == ref {
				idx = i
				break
			}
		}
	}
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
	child.parent = n
	n.doc.countOp()
	n.doc.recordChildList(n, []*Node{child}, nil)
}

// AppendChild appends child to n's children.
func (n *Node) AppendChild(child *Node) {
	n.InsertBefore(child, nil)
}

// RemoveChild detaches child from n. Removing a node that is not a child
// of n is a no-op.
func (n *Node) RemoveChild(child *Node) {
	n.removeChild(child, true)
}

func (n *Node) removeChild(child *Node, record bool) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children = n.children[:len(n.children)-1]
			child.parent = nil
			n.doc.countOp()
			if record {
				n.doc.recordChildList(n, nil, []*Node{child})
			}
			return
		}
	}
}

// ReplaceChild swaps oldChild for newChild in place.
func (n *Node) ReplaceChild(newChild, oldChild *Node) {
	n.InsertBefore(newChild, oldChild)
	n.RemoveChild(oldChild)
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// NextSibling returns the node immediately after n in its parent, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	sib := n.parent.children
	for i, c := range sib {
		if c == n && i+1 < len(sib) {
			return sib[i+1]
		}
	}
	return nil
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Kind == KindText {
		return n.data
	}
	var b strings.Builder
	for _, c := range n.children {
		if c.Kind == KindComment {
			continue
		}
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// SetTextContent removes all children and replaces them with a single
// text node holding s. An empty s leaves the node childless.
func (n *Node) SetTextContent(s string) {
	for len(n.children) > 0 {
		n.RemoveChild(n.children[len(n.children)-1])
	}
	if s != "" {
		n.AppendChild(n.doc.CreateText(s))
	}
}

// SetProp assigns an element property. Properties live beside attributes,
// like IDL attributes in a browser; setting one does not write the
// attribute of the same name.
func (n *Node) SetProp(name string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
	n.doc.countOp()
}

// Prop returns an element property and whether it was ever set.
func (n *Node) Prop(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}

// HasProperty reports whether name is a settable property on this
// element. Event-handler names ("on" prefix) exist on every element, a
// small universal set exists on every HTML element, and form/media
// elements add their own.
func (n *Node) HasProperty(name string) bool {
	if n.Kind != KindElement {
		return false
	}
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "on") {
		return true
	}
	if universalProps[lower] {
		return true
	}
	return tagProps[n.Tag][lower]
}

var universalProps = map[string]bool{
	"id":        true,
	"title":     true,
	"lang":      true,
	"dir":       true,
	"hidden":    true,
	"tabindex":  true,
	"classname": true,
	"data":      true,
}

var tagProps = map[string]map[string]bool{
	"input": {
		"value": true, "checked": true, "disabled": true, "required": true,
		"placeholder": true, "type": true, "name": true, "readonly": true,
	},
	"textarea": {
		"value": true, "disabled": true, "required": true, "placeholder": true,
		"readonly": true, "rows": true, "cols": true,
	},
	"select":   {"value": true, "disabled": true, "multiple": true, "selectedindex": true},
	"option":   {"value": true, "selected": true, "disabled": true},
	"button":   {"disabled": true, "type": true, "value": true},
	"form":     {"action": true, "method": true, "novalidate": true},
	"a":        {"href": true, "target": true, "rel": true},
	"img":      {"src": true, "alt": true, "width": true, "height": true},
	"video":    {"src": true, "muted": true, "controls": true, "loop": true, "autoplay": true},
	"audio":    {"src": true, "muted": true, "controls": true, "loop": true, "autoplay": true},
	"progress": {"value": true, "max": true},
	"meter":    {"value": true, "min": true, "max": true},
}

// CloneNode copies the node. With deep, children are cloned recursively.
// Properties and event listeners are not cloned; attributes and style are.
func (n *Node) CloneNode(deep bool) *Node {
	clone := &Node{
		Kind:      n.Kind,
		Tag:       n.Tag,
		Namespace: n.Namespace,
		data:      n.data,
		doc:       n.doc,
	}
	for _, a := range n.attrs {
		clone.attrs = append(clone.attrs, &Attr{Name: a.Name, value: a.value, owner: clone})
	}
	if n.style != nil {
		clone.style = n.style.clone()
	}
	if deep {
		for _, c := range n.children {
			cc := c.CloneNode(true)
			cc.parent = clone
			clone.children = append(clone.children, cc)
		}
	}
	return clone
}

// Walk visits n and its descendants in document order. Returning false
// from fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}
