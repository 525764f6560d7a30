// Package lifecycle tracks component nodes and delivers their
// connected/disconnected events.
//
// A component is an ordinary dom node flagged in a process-wide
// membership set. The set holds weak references only: flagging a node
// never extends its lifetime, and entries vanish on their own when the
// node is collected.
package lifecycle

import (
	"runtime"
	"sync"
	"weak"

	"github.com/relit-dev/relit/pkg/dom"
)

// Connected and Disconnected are the event types the dispatcher delivers
// to component nodes.
const (
	Connected    = "connected"
	Disconnected = "disconnected"
)

// registry is the process-wide component membership set. Created at
// package initialization; entries are removed by runtime cleanups when
// their nodes are collected, so there is no explicit teardown.
var registry = struct {
	mu    sync.Mutex
	nodes map[weak.Pointer[dom.Node]]struct{}
}{nodes: make(map[weak.Pointer[dom.Node]]struct{})}

// MarkComponent flags a node as a component so the dispatcher will
// deliver connect/disconnect events to it. Marking twice is a no-op.
func MarkComponent(n *dom.Node) {
	if n == nil {
		return
	}
	p := weak.Make(n)
	registry.mu.Lock()
	_, exists := registry.nodes[p]
	if !exists {
		registry.nodes[p] = struct{}{}
	}
	registry.mu.Unlock()
	if !exists {
		runtime.AddCleanup(n, dropEntry, p)
	}
}

// IsComponent reports whether the node is flagged as a component.
func IsComponent(n *dom.Node) bool {
	if n == nil {
		return false
	}
	p := weak.Make(n)
	registry.mu.Lock()
	_, ok := registry.nodes[p]
	registry.mu.Unlock()
	return ok
}

func dropEntry(p weak.Pointer[dom.Node]) {
	registry.mu.Lock()
	delete(registry.nodes, p)
	registry.mu.Unlock()
}
