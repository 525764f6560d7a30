package dom

import (
	"sync"
	"sync/atomic"
)

// Document owns a tree, its operation counter, and its mutation-record
// queue. Node constructors hang off the document so every node knows
// where its mutations are accounted.
type Document struct {
	root *Node

	ops atomic.Uint64

	mu        sync.Mutex
	observers []ObserverFunc
	pending   []MutationRecord

	// legacy single-node hooks; used when batching is disabled
	batching bool
	onInsert []func(*Node)
	onRemove []func(*Node)
}

// DocumentOption configures a new Document.
type DocumentOption func(*Document)

// WithoutBatching disables batched mutation records. Observers cannot be
// attached; instead the synchronous per-node insert/remove hooks fire at
// mutation time, one node at a time, modeling legacy hosts.
func WithoutBatching() DocumentOption {
	return func(d *Document) {
		d.batching = false
	}
}

// NewDocument creates an empty document with batched mutation records
// enabled.
func NewDocument(opts ...DocumentOption) *Document {
	d := &Document{batching: true}
	for _, opt := range opts {
		opt(d)
	}
	d.root = &Node{Kind: KindDocument, doc: d}
	return d
}

// Root returns the document node.
func (d *Document) Root() *Node { return d.root }

// CreateElement creates a detached element node.
func (d *Document) CreateElement(tag string) *Node {
	return &Node{Kind: KindElement, Tag: tag, doc: d}
}

// CreateElementNS creates a detached element node in a namespace.
func (d *Document) CreateElementNS(ns, tag string) *Node {
	return &Node{Kind: KindElement, Tag: tag, Namespace: ns, doc: d}
}

// CreateText creates a detached text node.
func (d *Document) CreateText(data string) *Node {
	return &Node{Kind: KindText, data: data, doc: d}
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(data string) *Node {
	return &Node{Kind: KindComment, data: data, doc: d}
}

// CreateFragment creates a detached fragment node.
func (d *Document) CreateFragment() *Node {
	return &Node{Kind: KindFragment, doc: d}
}

// MutationOps returns the total count of mutating operations performed on
// this document's nodes.
func (d *Document) MutationOps() uint64 {
	return d.ops.Load()
}

func (d *Document) countOp() {
	if d != nil {
		d.ops.Add(1)
	}
}
