package lifecycle

import "github.com/relit-dev/relit/pkg/dom"

// Dispatcher turns a document's mutation notifications into synthetic
// connected/disconnected events on component nodes.
//
// Dispatch is fire-and-forget: listeners are called directly, nothing is
// retried, and a panicking listener propagates in a host-dependent way.
// This is best-effort notification, not guaranteed delivery.
type Dispatcher struct {
	doc *dom.Document
}

// Attach wires a dispatcher to the document's mutation source. With
// batched records available it observes them; otherwise it falls back to
// the legacy synchronous per-node insert/remove hooks.
func Attach(doc *dom.Document) *Dispatcher {
	d := &Dispatcher{doc: doc}
	if !doc.Observe(d.handleBatch) {
		doc.OnNodeInserted(func(n *dom.Node) { deliver(n, Connected) })
		doc.OnNodeRemoved(func(n *dom.Node) { deliver(n, Disconnected) })
	}
	return d
}

// handleBatch processes one batch of mutation records in record order.
func (d *Dispatcher) handleBatch(records []dom.MutationRecord) {
	for _, rec := range records {
		for _, n := range rec.Added {
			deliver(n, Connected)
		}
		for _, n := range rec.Removed {
			deliver(n, Disconnected)
		}
	}
}

// deliver dispatches the event to a flagged node, or recurses into the
// children of an unflagged one looking for flagged descendants.
func deliver(n *dom.Node, typ string) {
	if IsComponent(n) {
		n.Dispatch(&dom.Event{Type: typ, Target: n})
		return
	}
	for _, c := range n.Children() {
		deliver(c, typ)
	}
}
