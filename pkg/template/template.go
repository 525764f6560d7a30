// Package template parses hole-annotated markup and locates the holes.
//
// A hole is written as {} and may sit in three positions:
//
//	<li class="{}">{}</li>     attribute hole, then content hole
//	<style>{}</style>          text-only hole (raw-text elements)
//
// Parse normalizes content holes into comment marker nodes so that later
// instantiations can locate them by walking the cloned tree; Find returns
// the hole descriptors in document order, which is exactly the order
// callers must supply interpolation values in.
//
// Deciding whether a given markup shape was seen before (template
// identity caching) is the caller's concern, not this package's: one
// Tpl is one parsed shape, and Instantiate hands out fresh clones of it.
package template

import (
	"strings"

	"github.com/relit-dev/relit/internal/errors"
	"github.com/relit-dev/relit/pkg/dom"
)

// marker is the internal token Parse substitutes for {} before handing
// the markup to the HTML parser. Content holes are re-normalized into
// comment nodes carrying the same token.
const marker = "‸relit‸"

// HoleKind says what part of its target node a hole substitutes.
type HoleKind uint8

const (
	HoleAttr    HoleKind = iota // one attribute of an element
	HoleContent                 // any content, anchored at a comment marker
	HoleText                    // whole text of a raw-text element
)

// String returns the string representation of the HoleKind.
func (k HoleKind) String() string {
	switch k {
	case HoleAttr:
		return "Attr"
	case HoleContent:
		return "Content"
	case HoleText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Hole locates one interpolation position inside an instantiated tree.
// For HoleAttr, Target is the element and Name the attribute; for
// HoleContent, Target is the anchor comment node; for HoleText, Target
// is the raw-text element itself.
type Hole struct {
	Kind   HoleKind
	Target *dom.Node
	Name   string
}

// rawText elements may not contain structured content; a hole inside one
// is a text-only hole.
var rawText = map[string]bool{
	"style":    true,
	"textarea": true,
	"title":    true,
	"script":   true,
}

// Tpl is one parsed template shape.
type Tpl struct {
	doc  *dom.Document
	root *dom.Node // fragment
	n    int       // hole count
}

// Parse parses hole-annotated markup into a template backed by a fresh
// document.
func Parse(source string) (*Tpl, error) {
	return ParseIn(dom.NewDocument(), source)
}

// ParseIn parses hole-annotated markup into a template backed by the
// given document.
func ParseIn(doc *dom.Document, source string) (*Tpl, error) {
	instrumented := strings.ReplaceAll(source, "{}", marker)
	frag, err := doc.ParseFragment(instrumented)
	if err != nil {
		return nil, errors.Wrap(errors.CategoryTemplate, err, "parse markup")
	}
	t := &Tpl{doc: doc, root: frag}
	if err := t.normalize(frag); err != nil {
		return nil, err
	}
	t.n = len(Find(frag))
	return t, nil
}

// Must is a helper that panics if Parse fails. Intended for templates
// defined at package level.
func Must(t *Tpl, err error) *Tpl {
	if err != nil {
		panic(err)
	}
	return t
}

// Document returns the document backing this template and its
// instantiations.
func (t *Tpl) Document() *dom.Document { return t.doc }

// Holes returns the number of holes in the template shape.
func (t *Tpl) Holes() int { return t.n }

// Root returns the template's own fragment. It is the pristine shape;
// render into clones from Instantiate, never into this.
func (t *Tpl) Root() *dom.Node { return t.root }

// Instantiate deep-clones the template shape and locates the clone's
// holes. Every call returns an independent live tree.
func (t *Tpl) Instantiate() (*dom.Node, []Hole) {
	clone := t.root.CloneNode(true)
	return clone, Find(clone)
}

// normalize splits text nodes around the marker token, leaving a comment
// marker node per content hole. Raw-text elements keep the token in
// their text; Find recognizes it there as a text-only hole.
func (t *Tpl) normalize(n *dom.Node) error {
	if n.Kind == dom.KindElement {
		// An attribute hole substitutes the whole value; a marker mixed
		// with literal text has no hole to bind and would leak into the
		// rendered attribute.
		for _, a := range n.Attrs() {
			if strings.Contains(a.Value(), marker) && a.Value() != marker {
				return errors.New(errors.CategoryTemplate, "partial hole in attribute %q of <%s>", a.Name, n.Tag).
					WithSuggestion("a {} must be the entire attribute value; compose mixed values in the bound value instead")
			}
		}
	}
	if n.Kind == dom.KindElement && rawText[n.Tag] {
		if strings.Count(n.TextContent(), marker) > 1 {
			return errors.New(errors.CategoryTemplate, "multiple holes in <%s>", n.Tag).
				WithSuggestion("raw-text elements support a single {} covering their whole content")
		}
		return nil
	}
	// children mutate during the split; walk a snapshot
	kids := append([]*dom.Node(nil), n.Children()...)
	for _, c := range kids {
		if c.Kind == dom.KindText && strings.Contains(c.Data(), marker) {
			t.splitTextHole(n, c)
			continue
		}
		if err := t.normalize(c); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tpl) splitTextHole(parent, text *dom.Node) {
	parts := strings.Split(text.Data(), marker)
	ref := text.NextSibling()
	parent.RemoveChild(text)
	for i, part := range parts {
		if part != "" {
			parent.InsertBefore(t.doc.CreateText(part), ref)
		}
		if i < len(parts)-1 {
			parent.InsertBefore(t.doc.CreateComment(marker), ref)
		}
	}
}

// Find walks a tree and returns its hole descriptors in document order.
// The order is the contract: values are later supplied positionally, so
// descriptor i always corresponds to value i.
func Find(root *dom.Node) []Hole {
	var holes []Hole
	root.Walk(func(n *dom.Node) bool {
		switch n.Kind {
		case dom.KindComment:
			if n.Data() == marker {
				holes = append(holes, Hole{Kind: HoleContent, Target: n})
			}
		case dom.KindElement:
			for _, a := range n.Attrs() {
				if a.Value() == marker {
					holes = append(holes, Hole{Kind: HoleAttr, Target: n, Name: a.Name})
				}
			}
			if rawText[n.Tag] && strings.Contains(n.TextContent(), marker) {
				holes = append(holes, Hole{Kind: HoleText, Target: n})
			}
		}
		return true
	})
	return holes
}
