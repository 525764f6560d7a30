package bind

import (
	"reflect"

	"github.com/relit-dev/relit/internal/errors"
	"github.com/relit-dev/relit/pkg/dom"
	"github.com/relit-dev/relit/pkg/listdiff"
)

// contentHole owns one any-content hole: the anchor comment it renders
// before, and the live window of child nodes it currently has rendered.
//
// gen is the staleness guard for deferred values: every top-level update
// bumps it, every registered continuation captures it, and a
// continuation that settles after the hole moved on is discarded instead
// of overwriting newer state.
type contentHole struct {
	b      *binder
	anchor *dom.Node
	window []*dom.Node
	text   *dom.Node // reused single-text-node fast path
	old    any       // memo for the primitive fast path only
	gen    uint64
}

// content builds the update callback for an any-content hole anchored at
// the given comment marker.
func (b *binder) content(anchor *dom.Node) Update {
	h := &contentHole{b: b, anchor: anchor}
	return b.locked(h.set)
}

// parent resolves the anchor's parent at use time. A top-level hole
// starts out under the instance fragment and moves with the anchor when
// the root is attached, so the parent cannot be captured at create time.
func (h *contentHole) parent() *dom.Node {
	return h.anchor.Parent()
}

func (h *contentHole) set(v any) {
	h.gen++
	h.apply(v)
}

// apply routes the value to exactly one reconciliation branch. First
// match wins; the primitive text path comes first because it is the
// majority case.
func (h *contentHole) apply(v any) {
	switch x := v.(type) {
	case string:
		h.setText(x)
	case nil:
		h.apply("")
	case []any:
		h.setSequence(x)
	case *dom.Node:
		h.setNode(x)
	case Deferred:
		h.setDeferred(x)
	case Intent:
		h.setIntent(x)
	default:
		if isScalar(v) {
			h.setText(mustText(v))
			return
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			// generic iterable: materialize and re-route
			seq := make([]any, rv.Len())
			for i := range seq {
				seq[i] = rv.Index(i).Interface()
			}
			h.setSequence(seq)
			return
		}
		h.fallback(v)
	}
}

// setText is the single-text-node fast path, memoized against the last
// primitive so an unchanged value performs zero tree mutation. The empty
// string clears the window rather than rendering an empty text node;
// this is also where nil values land.
func (h *contentHole) setText(s string) {
	if prev, ok := h.old.(string); ok && prev == s {
		return
	}
	h.old = s
	if s == "" {
		h.clear()
		return
	}
	if h.text == nil {
		h.text = h.b.doc.CreateText(s)
	} else {
		h.text.SetData(s)
	}
	h.reconcile([]*dom.Node{h.text})
}

// setSequence implements the sequence branch: the first element decides
// how the whole sequence is treated.
func (h *contentHole) setSequence(seq []any) {
	h.old = nil
	if len(seq) == 0 {
		h.clear()
		return
	}
	first := seq[0]
	switch {
	case isScalar(first):
		// historical convention: a sequence of primitives is raw
		// markup, not a list of text nodes
		h.setIntent(HTML(seq))
	case isNested(first):
		h.apply(flattenOne(seq))
	case isDeferred(first):
		h.awaitAll(seq)
	default:
		h.reconcile(h.materialize(seq))
	}
}

// setNode treats a node value as a one-element sequence, unwrapping
// fragment containers to their children first. Component handles are
// nodes too and take this same path.
func (h *contentHole) setNode(n *dom.Node) {
	h.old = nil
	if n == nil {
		h.apply("")
		return
	}
	if n.Kind == dom.KindFragment {
		target := append([]*dom.Node(nil), n.Children()...)
		h.reconcile(target)
		return
	}
	h.reconcile([]*dom.Node{n})
}

// setDeferred registers a continuation and mutates nothing this cycle.
// The captured generation discards the continuation if a newer value
// reaches the hole before this one settles.
func (h *contentHole) setDeferred(d Deferred) {
	h.old = nil
	gen := h.gen
	h.b.post(func() {
		d.Then(func(v any) {
			h.b.enter(func() {
				if h.gen != gen {
					return
				}
				h.apply(v)
			})
		})
	})
}

// setIntent dispatches an explicit intent.
func (h *contentHole) setIntent(it Intent) {
	switch it.kind {
	case IntentText:
		h.setText(mustText(it.value))
	case IntentAny:
		h.apply(it.value)
	case IntentHTML:
		h.injectHTML(it.value)
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

// injectHTML clears the window and injects the joined markup as parsed
// fragment content, registering the resulting nodes as the new window.
func (h *contentHole) injectHTML(v any) {
	h.old = nil
	markup := joinMarkup(v)
	if h.b.cfg.sanitizer != nil {
		markup = h.b.cfg.sanitizer.Sanitize(markup)
	}
	frag, err := h.b.doc.ParseFragment(markup)
	if err != nil {
		panic(errors.Wrap(errors.CategoryBind, err, "parse html intent"))
	}
	h.clear()
	nodes := append([]*dom.Node(nil), frag.Children()...)
	parent := h.parent()
	for _, n := range nodes {
		parent.InsertBefore(n, h.anchor)
	}
	h.window = nodes
}

// fallback hands the value to the configured transform; its result is
// fed back into the classifier. The refresh continuation re-enters the
// hole later under the usual staleness guard.
func (h *contentHole) fallback(v any) {
	if h.b.cfg.transform == nil {
		panic(errors.New(errors.CategoryBind, "no branch for value of type %T", v).
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

// awaitAll resolves a sequence whose first element is deferred as one
// deferred composite: the classifier re-runs once with every element
// settled.
func (h *contentHole) awaitAll(seq []any) {
	gen := h.gen
	settled := make([]any, len(seq))
	remaining := len(seq) // guarded by the binder lock
	finish := func() {
		remaining--
		if remaining == 0 && h.gen == gen {
			h.apply(settled)
		}
	}
	for i, el := range seq {
		if d, ok := el.(Deferred); ok {
			h.b.post(func() {
				d.Then(func(v any) {
					h.b.enter(func() {
						settled[i] = v
						finish()
					})
				})
			})
		} else {
			settled[i] = el
			finish()
		}
	}
}

// materialize converts sequence elements to nodes: nodes pass through,
// fragments expand, components are nodes already, and leftover scalars
// become text nodes.
func (h *contentHole) materialize(seq []any) []*dom.Node {
	target := make([]*dom.Node, 0, len(seq))
	for _, el := range seq {
		switch n := el.(type) {
		case nil:
			continue
		case *dom.Node:
			if n == nil {
				continue
			}
			if n.Kind == dom.KindFragment {
				target = append(target, n.Children()...)
				continue
			}
			target = append(target, n)
		default:
			target = append(target, h.b.doc.CreateText(mustText(el)))
		}
	}
	return target
}

// reconcile brings the live window to the target sequence. Equal-length
// windows are scanned pairwise from both ends first; only a detected
// difference pays for the minimal-edit computation.
func (h *contentHole) reconcile(target []*dom.Node) {
	if len(h.window) == len(target) {
		same := true
		for i, j := 0, len(target)-1; i <= j; i, j = i+1, j-1 {
			if h.window[i] != target[i] || h.window[j] != target[j] {
				same = false
				break
			}
		}
		if same {
			return
		}
	}
	h.window = listdiff.Reconcile(h.parent(), h.window, target, h.anchor, h.b.cfg.maxDiff)
}

// clear empties the live window wholesale.
func (h *contentHole) clear() {
	if len(h.window) == 0 {
		return
	}
	parent := h.parent()
	for _, n := range h.window {
		parent.RemoveChild(n)
	}
	h.window = h.window[:0]
}

func isNested(v any) bool {
	_, ok := v.([]any)
	return ok
}

func isDeferred(v any) bool {
	_, ok := v.(Deferred)
	return ok
}

// flattenOne flattens a single level of nesting, the shape conditional
// spreads produce.
func flattenOne(seq []any) []any {
	out := make([]any, 0, len(seq))
	for _, el := range seq {
		if inner, ok := el.([]any); ok {
			out = append(out, inner...)
			continue
		}
		out = append(out, el)
	}
	return out
}

// joinMarkup joins an html-intent payload into one markup string.
func joinMarkup(v any) string {
	if seq, ok := v.([]any); ok {
		var out string
		for _, el := range seq {
			out += mustText(el)
		}
		return out
	}
	return mustText(v)
}
