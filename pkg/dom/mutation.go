package dom

// MutationRecord describes one child-list mutation: nodes added to and
// removed from Target. Record order follows the order mutations were
// made.
type MutationRecord struct {
	Target  *Node
	Added   []*Node
	Removed []*Node
}

// ObserverFunc receives a batch of queued mutation records.
type ObserverFunc func([]MutationRecord)

// SupportsBatching reports whether batched mutation records are
// available. Dispatchers fall back to the per-node hooks when it returns
// false.
func (d *Document) SupportsBatching() bool { return d.batching }

// Observe registers a batch observer. Records accumulate as mutations
// happen and are delivered on the next Flush, decoupled in time from the
// mutation calls that caused them. Returns false when batching is
// disabled.
func (d *Document) Observe(fn ObserverFunc) bool {
	if !d.batching {
		return false
	}
	d.mu.Lock()
	d.observers = append(d.observers, fn)
	d.mu.Unlock()
	return true
}

// OnNodeInserted registers a legacy synchronous hook, fired once per
// inserted node at mutation time. Only used when batching is disabled.
func (d *Document) OnNodeInserted(fn func(*Node)) {
	d.mu.Lock()
	d.onInsert = append(d.onInsert, fn)
	d.mu.Unlock()
}

// OnNodeRemoved registers a legacy synchronous hook, fired once per
// removed node at mutation time. Only used when batching is disabled.
func (d *Document) OnNodeRemoved(fn func(*Node)) {
	d.mu.Lock()
	d.onRemove = append(d.onRemove, fn)
	d.mu.Unlock()
}

// Flush delivers all pending mutation records to every observer and
// clears the queue. Delivery order within the batch follows mutation
// order. A mutation made by an observer during Flush queues for the next
// Flush.
func (d *Document) Flush() {
	d.mu.Lock()
	records := d.pending
	d.pending = nil
	observers := make([]ObserverFunc, len(d.observers))
	copy(observers, d.observers)
	d.mu.Unlock()

	if len(records) == 0 {
		return
	}
	for _, fn := range observers {
		fn(records)
	}
}

// PendingRecords returns the number of queued mutation records.
func (d *Document) PendingRecords() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *Document) recordChildList(target *Node, added, removed []*Node) {
	if d == nil {
		return
	}
	if !d.batching {
		d.mu.Lock()
		ins := make([]func(*Node), len(d.onInsert))
		copy(ins, d.onInsert)
		rem := make([]func(*Node), len(d.onRemove))
		copy(rem, d.onRemove)
		d.mu.Unlock()
		for _, n := range added {
			for _, fn := range ins {
				fn(n)
			}
		}
		for _, n := range removed {
			for _, fn := range rem {
				fn(n)
			}
		}
		return
	}
	d.mu.Lock()
	if len(d.observers) > 0 || len(d.pending) > 0 {
		d.pending = append(d.pending, MutationRecord{Target: target, Added: added, Removed: removed})
	}
	d.mu.Unlock()
}
