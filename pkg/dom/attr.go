package dom

// Attr is an attribute node. Attr nodes can live detached from any
// element: the attribute reconciler keeps one detached clone per hole and
// re-attaches it on demand instead of reallocating, which also preserves
// the case of the original name.
type Attr struct {
	Name  string // case-preserved
	value string
	owner *Node // nil while detached
}

// Value returns the attribute's value.
func (a *Attr) Value() string { return a.value }

// SetValue updates the attribute's value. When the attribute is attached
// the write counts as a tree mutation.
func (a *Attr) SetValue(v string) {
	if a.value == v {
		return
	}
	a.value = v
	if a.owner != nil {
		a.owner.doc.countOp()
	}
}

// Attached reports whether the attribute is currently on an element.
func (a *Attr) Attached() bool { return a.owner != nil }

// NewAttr creates a detached attribute node.
func NewAttr(name string) *Attr {
	return &Attr{Name: name}
}

// SetAttribute sets an attribute by name, creating it if absent.
func (n *Node) SetAttribute(name, value string) {
	for _, a := range n.attrs {
		if a.Name == name {
			if a.value != value {
				a.value = value
				n.doc.countOp()
			}
			return
		}
	}
	n.attrs = append(n.attrs, &Attr{Name: name, value: value, owner: n})
	n.doc.countOp()
}

// Attribute returns the value of the named attribute and whether it is
// present.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the named attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

// RemoveAttribute removes the named attribute if present.
func (n *Node) RemoveAttribute(name string) {
	for i, a := range n.attrs {
		if a.Name == name {
			a.owner = nil
			copy(n.attrs[i:], n.attrs[i+1:])
			n.attrs = n.attrs[:len(n.attrs)-1]
			n.doc.countOp()
			return
		}
	}
}

// SetAttributeNode attaches an attribute node, replacing any attribute
// with the same name. Attaching an already-attached node is a no-op.
func (n *Node) SetAttributeNode(a *Attr) {
	if a.owner == n {
		return
	}
	if a.owner != nil {
		a.owner.RemoveAttributeNode(a)
	}
	n.RemoveAttribute(a.Name)
	a.owner = n
	n.attrs = append(n.attrs, a)
	n.doc.countOp()
}

// RemoveAttributeNode detaches an attribute node. The node keeps its name
// and value and can be re-attached later.
func (n *Node) RemoveAttributeNode(a *Attr) {
	for i, cur := range n.attrs {
		if cur == a {
			a.owner = nil
			copy(n.attrs[i:], n.attrs[i+1:])
			n.attrs = n.attrs[:len(n.attrs)-1]
			n.doc.countOp()
			return
		}
	}
}

// Attrs returns the element's attributes in insertion order. The slice is
// the node's own backing storage; callers must not mutate it.
func (n *Node) Attrs() []*Attr { return n.attrs }
