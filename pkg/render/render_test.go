package render

import (
	"testing"

	"github.com/relit-dev/relit/pkg/dom"
)

func TestStringElement(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div")
	div.SetAttribute("class", "box")
	div.AppendChild(doc.CreateText("hi"))

	if got := String(div); got != `<div class="box">hi</div>` {
		t.Errorf("String = %q", got)
	}
}

func TestStringEscapesText(t *testing.T) {
	doc := dom.NewDocument()
	p := doc.CreateElement("p")
	p.AppendChild(doc.CreateText(`<b>&"'`))

	if got := String(p); got != `<p>&lt;b&gt;&amp;&quot;&#39;</p>` {
		t.Errorf("String = %q", got)
	}
}

func TestStringEscapesAttr(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div")
	div.SetAttribute("title", `a"b`)

	if got := String(div); got != `<div title="a&quot;b"></div>` {
		t.Errorf("String = %q", got)
	}
}

func TestStringVoidElement(t *testing.T) {
	doc := dom.NewDocument()
	br := doc.CreateElement("br")

	if got := String(br); got != `<br>` {
		t.Errorf("String = %q", got)
	}
}

func TestStringComment(t *testing.T) {
	doc := dom.NewDocument()
	c := doc.CreateComment("note")

	if got := String(c); got != `<!--note-->` {
		t.Errorf("String = %q", got)
	}
}

func TestStringRawText(t *testing.T) {
	doc := dom.NewDocument()
	s := doc.CreateElement("script")
	s.AppendChild(doc.CreateText(`if (a < b) { go() }`))

	if got := String(s); got != `<script>if (a < b) { go() }</script>` {
		t.Errorf("raw text was escaped: %q", got)
	}
}

func TestStringLiveStyleWins(t *testing.T) {
	doc := dom.NewDocument()
	frag, err := doc.ParseFragment(`<div style="color: red"></div>`)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	div := frag.FirstChild()
	div.Style().SetProperty("color", "blue")

	if got := String(div); got != `<div style="color:blue"></div>` {
		t.Errorf("String = %q", got)
	}
}

func TestInnerSkipsOuterTag(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div")
	div.AppendChild(doc.CreateText("a"))
	div.AppendChild(doc.CreateElement("br"))

	if got := Inner(div); got != `a<br>` {
		t.Errorf("Inner = %q", got)
	}
}

func TestStringFragmentFlattens(t *testing.T) {
	doc := dom.NewDocument()
	frag := doc.CreateFragment()
	frag.AppendChild(doc.CreateText("a"))
	frag.AppendChild(doc.CreateText("b"))

	if got := String(frag); got != "ab" {
		t.Errorf("String = %q", got)
	}
}
