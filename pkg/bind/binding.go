package bind

import (
	"github.com/relit-dev/relit/internal/errors"
	"github.com/relit-dev/relit/pkg/dom"
	"github.com/relit-dev/relit/pkg/template"
)

// Binding couples one template instantiation with its update callbacks.
// It is the package's high-level entry point: parse once, New per
// instance, Render per frame.
type Binding struct {
	root    *dom.Node
	updates []Update
}

// New instantiates the template and wires an update callback to each of
// its holes.
func New(t *template.Tpl, opts ...Option) *Binding {
	root, holes := t.Instantiate()
	return &Binding{
		root:    root,
		updates: Create(root, holes, opts...),
	}
}

// Root returns the instance's root fragment. Attach it to a document
// position once; subsequent Render calls mutate it in place.
func (bn *Binding) Root() *dom.Node { return bn.root }

// Updates exposes the per-hole callbacks for callers that drive holes
// individually.
func (bn *Binding) Updates() []Update { return bn.updates }

// Render applies one value per hole, positionally. The value count must
// match the hole count.
func (bn *Binding) Render(values ...any) error {
	if len(values) != len(bn.updates) {
		return errors.New(errors.CategoryBind,
			"got %d values for %d holes", len(values), len(bn.updates)).
			WithSuggestion("pass exactly one value per {} in the template")
	}
	for i, v := range values {
		bn.updates[i](v)
	}
	return nil
}
