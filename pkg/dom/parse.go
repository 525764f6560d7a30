package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses HTML markup in body context and returns a
// fragment node holding the parsed children. Comments are preserved;
// they carry the hole markers the template locator looks for.
func (d *Document) ParseFragment(markup string) (*Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, err
	}
	frag := d.CreateFragment()
	for _, hn := range parsed {
		if n := d.convert(hn); n != nil {
			// direct append: parse output is construction, not live
			// mutation, so it bypasses records via a detached fragment
			n.parent = frag
			frag.children = append(frag.children, n)
		}
	}
	return frag, nil
}

func (d *Document) convert(hn *html.Node) *Node {
	switch hn.Type {
	case html.TextNode:
		return d.CreateText(hn.Data)
	case html.CommentNode:
		return d.CreateComment(hn.Data)
	case html.ElementNode:
		n := d.CreateElementNS(hn.Namespace, hn.Data)
		for _, a := range hn.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			n.attrs = append(n.attrs, &Attr{Name: name, value: a.Val, owner: n})
		}
		if css, ok := n.Attribute("style"); ok {
			n.Style().SetCSSText(css)
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if cc := d.convert(c); cc != nil {
				cc.parent = n
				n.children = append(n.children, cc)
			}
		}
		return n
	default:
		return nil
	}
}
