package bind

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/relit-dev/relit/pkg/dom"
	"github.com/relit-dev/relit/pkg/listdiff"
	"github.com/relit-dev/relit/pkg/template"
)

// Update applies a new interpolation value to the hole it was created
// for. Calling it twice with an equal primitive value mutates the tree
// at most once; the second call is a no-op. The closure's internal state
// is private to the callback.
type Update func(value any)

type config struct {
	maxDiff   int
	transform TransformFunc
	sanitizer *bluemonday.Policy
}

// Option configures the callbacks produced by one Create call.
type Option func(*config)

// WithMaxDiffSize bounds the minimal-edit computation for sequence
// holes. Sequences longer than n fall back to a full replace instead of
// paying unbounded edit-distance cost. Defaults to listdiff.DefaultMaxSize.
func WithMaxDiffSize(n int) Option {
	return func(c *config) { c.maxDiff = n }
}

// WithTransform installs the fallback transform invoked for values no
// built-in branch recognizes. Without one, such values are a bind error.
func WithTransform(fn TransformFunc) Option {
	return func(c *config) { c.transform = fn }
}

// WithSanitizer runs every html-intent payload through the policy before
// it is parsed and injected.
func WithSanitizer(p *bluemonday.Policy) Option {
	return func(c *config) { c.sanitizer = p }
}

// binder is the state shared by the callbacks of one Create call: the
// configuration, the owning document, and the mutex that serializes
// synchronous renders with deferred continuations.
//
// Continuation registration is queued in after and performed once the
// lock is released: a Deferred that has already settled invokes its
// continuation synchronously, and that continuation needs the lock.
type binder struct {
	cfg   config
	doc   *dom.Document
	mu    sync.Mutex
	after []func()
}

// enter runs fn under the binder lock, then drains the queue of
// registrations fn (or anything it called) deferred to after unlock.
func (b *binder) enter(fn func()) {
	b.mu.Lock()
	fn()
	for len(b.after) > 0 {
		queue := b.after
		b.after = nil
		b.mu.Unlock()
		for _, f := range queue {
			f()
		}
		b.mu.Lock()
	}
	b.mu.Unlock()
}

// post queues fn to run after the current locked section releases the
// binder lock. Must be called with the lock held.
func (b *binder) post(fn func()) {
	b.after = append(b.after, fn)
}

// locked adapts a hole applier into an Update serialized by the binder.
func (b *binder) locked(apply func(any)) Update {
	return func(v any) {
		b.enter(func() { apply(v) })
	}
}

// Create produces one update callback per hole, in hole order. Hole i
// consumes value i of every subsequent positional render. The callback
// kind is selected here, once, from the hole kind (and for attributes,
// from the attribute name); it is not re-evaluated per update.
func Create(root *dom.Node, holes []template.Hole, opts ...Option) []Update {
	b := &binder{
		cfg: config{maxDiff: listdiff.DefaultMaxSize},
		doc: root.Document(),
	}
	for _, opt := range opts {
		opt(&b.cfg)
	}

	updates := make([]Update, len(holes))
	for i, h := range holes {
		switch h.Kind {
		case template.HoleAttr:
			updates[i] = b.attribute(h.Target, h.Name)
		case template.HoleContent:
			updates[i] = b.content(h.Target)
		case template.HoleText:
			updates[i] = b.textOnly(h.Target)
		}
	}
	return updates
}

// Find locates a tree's holes in document order. Re-exported from
// pkg/template so callers of Create need only this package.
func Find(root *dom.Node) []template.Hole {
	return template.Find(root)
}
