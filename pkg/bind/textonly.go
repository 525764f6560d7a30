package bind

import (
	"reflect"

	"github.com/relit-dev/relit/internal/errors"
	"github.com/relit-dev/relit/pkg/dom"
)

// textHole is the simplified reconciler for contexts that may not
// contain structured content (style, textarea, and friends): whatever
// the value's shape, it collapses to a string and replaces the node's
// whole text content in one mutation, memoized against the previous
// string.
type textHole struct {
	b    *binder
	node *dom.Node
	old  string
	has  bool
	gen  uint64
}

// textOnly builds the update callback for a text-only hole.
func (b *binder) textOnly(node *dom.Node) Update {
	h := &textHole{b: b, node: node}
	return b.locked(h.set)
}

func (h *textHole) set(v any) {
	h.gen++
	h.apply(v)
}

func (h *textHole) apply(v any) {
	switch x := v.(type) {
	case nil:
		h.write("")
	case string:
		h.write(x)
	case []any:
		h.writeJoined(x)
	case Deferred:
		gen := h.gen
		h.b.post(func() {
			x.Then(func(v any) {
				h.b.enter(func() {
					if h.gen != gen {
						return
					}
					h.apply(v)
				})
			})
		})
	case Intent:
		h.applyIntent(x)
	default:
		if isScalar(v) {
			h.write(mustText(v))
			return
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			seq := make([]any, rv.Len())
			for i := range seq {
				seq[i] = rv.Index(i).Interface()
			}
			h.writeJoined(seq)
			return
		}
		if h.b.cfg.transform == nil {
			panic(errors.New(errors.CategoryBind, "no text form for value of type %T", v).
				WithSuggestion("wrap it in an intent or configure WithTransform"))
		}
		gen := h.gen
		refresh := func(nv any) {
			h.b.enter(func() {
				if h.gen != gen {
					return
				}
				h.apply(nv)
			})
		}
		h.apply(h.b.cfg.transform(v, refresh))
	}
}

// applyIntent reduces every intent to its string form; text, any, and
// html are all the same thing in a text-only context.
func (h *textHole) applyIntent(it Intent) {
	switch it.kind {
	case IntentText, IntentAny, IntentHTML:
		h.apply(it.value)
	case IntentPlaceholder:
		h.apply(it.fallback)
		inner, _ := it.value.(Intent)
		if d, ok := inner.value.(Deferred); ok {
			gen := h.gen
			h.b.post(func() {
				d.Then(func(v any) {
					h.b.enter(func() {
						if h.gen != gen {
							return
						}
						h.apply(Intent{kind: inner.kind, value: v})
					})
				})
			})
			return
		}
		h.apply(inner)
	}
}

func (h *textHole) writeJoined(seq []any) {
	var out string
	for _, el := range seq {
		out += mustText(el)
	}
	h.write(out)
}

func (h *textHole) write(s string) {
	if h.has && h.old == s {
		return
	}
	h.has = true
	h.old = s
	h.node.SetTextContent(s)
}
