package render

import (
	"bytes"
	"io"
	"strings"

	"github.com/relit-dev/relit/pkg/dom"
)

// voidElements cannot have children and render without a closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// rawTextElements hold text that is never entity-escaped.
var rawTextElements = map[string]bool{
	"script":   true,
	"style":    true,
	"textarea": true,
	"title":    true,
}

// String serializes a node (and its subtree) to HTML.
func String(n *dom.Node) string {
	var buf bytes.Buffer
	_ = Write(&buf, n)
	return buf.String()
}

// Inner serializes only the node's children.
func Inner(n *dom.Node) string {
	var buf bytes.Buffer
	for _, c := range n.Children() {
		_ = Write(&buf, c)
	}
	return buf.String()
}

// Write streams a node's HTML to w.
func Write(w io.Writer, n *dom.Node) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case dom.KindText:
		return writeString(w, escapeHTML(n.Data()))
	case dom.KindComment:
		if err := writeString(w, "<!--"); err != nil {
			return err
		}
		if err := writeString(w, n.Data()); err != nil {
			return err
		}
		return writeString(w, "-->")
	case dom.KindElement:
		return writeElement(w, n)
	case dom.KindFragment, dom.KindDocument:
		for _, c := range n.Children() {
			if err := Write(w, c); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func writeElement(w io.Writer, n *dom.Node) error {
	if err := writeString(w, "<"+n.Tag); err != nil {
		return err
	}
	for _, a := range n.Attrs() {
		if a.Name == "style" && n.Style().Len() > 0 {
			continue // live style surface wins over the parsed attribute
		}
		if err := writeString(w, " "+a.Name+`="`+escapeAttr(a.Value())+`"`); err != nil {
			return err
		}
	}
	if n.Style().Len() > 0 {
		if err := writeString(w, ` style="`+escapeAttr(n.Style().CSSText())+`"`); err != nil {
			return err
		}
	}
	if voidElements[n.Tag] {
		return writeString(w, ">")
	}
	if err := writeString(w, ">"); err != nil {
		return err
	}
	raw := rawTextElements[n.Tag]
	for _, c := range n.Children() {
		if raw && c.Kind == dom.KindText {
			if err := writeString(w, c.Data()); err != nil {
				return err
			}
			continue
		}
		if err := Write(w, c); err != nil {
			return err
		}
	}
	return writeString(w, "</"+n.Tag+">")
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// escapeAttr escapes text for attribute values; it additionally escapes
// whitespace that could break attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
