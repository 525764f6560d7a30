package dom

// Event is a synthetic event delivered to node listeners.
type Event struct {
	Type   string
	Target *Node
	Data   any
}

// Handler handles a dispatched event.
type Handler func(*Event)

// Listener is a registered handler. The handle identifies the
// registration so it can be removed later; Go functions are not
// comparable, so removal works by handle rather than by function value.
type Listener struct {
	Type    string
	Handler Handler
}

// AddEventListener registers a handler for events of the given type and
// returns the registration handle.
func (n *Node) AddEventListener(typ string, fn Handler) *Listener {
	l := &Listener{Type: typ, Handler: fn}
	if n.listeners == nil {
		n.listeners = make(map[string][]*Listener)
	}
	n.listeners[typ] = append(n.listeners[typ], l)
	return l
}

// RemoveEventListener removes a previously registered handler. Removing
// an unknown handle is a no-op.
func (n *Node) RemoveEventListener(l *Listener) {
	if l == nil || n.listeners == nil {
		return
	}
	list := n.listeners[l.Type]
	for i, cur := range list {
		if cur == l {
			copy(list[i:], list[i+1:])
			n.listeners[l.Type] = list[:len(list)-1]
			return
		}
	}
}

// Dispatch delivers the event to every listener registered on n for the
// event's type, in registration order. Dispatch is fire-and-forget: a
// panicking listener propagates to the caller and skips the rest.
func (n *Node) Dispatch(e *Event) {
	if e.Target == nil {
		e.Target = n
	}
	for _, l := range n.listeners[e.Type] {
		l.Handler(e)
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}
