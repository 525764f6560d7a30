package bind

import (
	"strings"

	"github.com/relit-dev/relit/internal/errors"
	"github.com/relit-dev/relit/pkg/dom"
	"github.com/relit-dev/relit/pkg/lifecycle"
)

// attribute builds the update callback for an attribute hole. The four
// attribute kinds are mutually exclusive and chosen once, here; only the
// closure for the chosen kind is ever constructed.
func (b *binder) attribute(node *dom.Node, name string) Update {
	node.RemoveAttribute(name) // clear the template marker
	switch {
	case strings.HasPrefix(name, "on"):
		return b.locked(eventAttribute(node, name))
	case name == "style":
		return b.locked(styleAttribute(node))
	case name == "data" || (!node.IsSVG() && node.HasProperty(name)):
		return b.locked(propertyAttribute(node, name))
	default:
		return b.locked(regularAttribute(node, name))
	}
}

// eventAttribute handles "on*" holes. The event type is the name minus
// the prefix, lower-cased when the node exposes the same-named handler
// property (normalizes authoring-case inconsistency). The connect and
// disconnect sentinels additionally flag the node as a component so the
// lifecycle dispatcher will notify it.
func eventAttribute(node *dom.Node, name string) func(any) {
	typ := name[2:]
	if lower := strings.ToLower(name); node.HasProperty(lower) {
		typ = lower[2:]
	}
	if typ == lifecycle.Connected || typ == lifecycle.Disconnected {
		lifecycle.MarkComponent(node)
	}

	var current *dom.Listener
	return func(v any) {
		if current != nil {
			node.RemoveEventListener(current)
			current = nil
		}
		switch fn := v.(type) {
		case nil:
			// no listener stays attached
		case dom.Handler:
			current = node.AddEventListener(typ, fn)
		case func(*dom.Event):
			current = node.AddEventListener(typ, fn)
		default:
			panic(errors.New(errors.CategoryBind, "event hole %q needs a func(*dom.Event), got %T", name, v))
		}
	}
}

// propertyAttribute assigns straight to the element property. A nil
// value also removes the attribute representation to keep the two in
// sync; unchanged values are skipped.
func propertyAttribute(node *dom.Node, name string) func(any) {
	var old any
	first := true
	return func(v any) {
		if isNil(v) {
			v = nil
		}
		if !first && sameValue(old, v) {
			return
		}
		first = false
		old = v
		node.SetProp(name, v)
		if v == nil {
			node.RemoveAttribute(name)
		}
	}
}

// regularAttribute maintains one detached attribute-node clone, reused
// across updates: nil detaches it, a real value updates it in place and
// re-attaches it if needed. Reusing the clone avoids reallocation and
// the double-attribute bug class, and preserves case-sensitive naming.
func regularAttribute(node *dom.Node, name string) func(any) {
	clone := dom.NewAttr(name)
	var old any
	first := true
	return func(v any) {
		if isNil(v) {
			v = nil
		}
		if !first && sameValue(old, v) {
			return
		}
		first = false
		old = v
		if v == nil {
			if clone.Attached() {
				node.RemoveAttributeNode(clone)
			}
			return
		}
		clone.SetValue(mustText(v))
		if !clone.Attached() {
			node.SetAttributeNode(clone)
		}
	}
}
