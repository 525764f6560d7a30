package bind

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/relit-dev/relit/internal/errors"
)

// Deferred is a value that is not available synchronously. The
// classifier registers a continuation via Then and performs no mutation
// until the value settles; Then must call its continuation exactly once,
// immediately if the value has already settled.
type Deferred interface {
	Then(func(any))
}

// Future is the concrete resolvable Deferred. The zero value is not
// usable; create one with NewFuture.
type Future struct {
	mu    sync.Mutex
	done  bool
	val   any
	conts []func(any)
}

// NewFuture creates an unresolved Future.
func NewFuture() *Future {
	return &Future{}
}

// Resolve settles the future and runs registered continuations on the
// caller's goroutine, in registration order. Resolving twice is a no-op;
// the first value wins. Do not resolve from inside an update callback:
// continuations re-enter the reconciler.
func (f *Future) Resolve(v any) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}
	f.done = true
	f.val = v
	conts := f.conts
	f.conts = nil
	f.mu.Unlock()
	for _, fn := range conts {
		fn(v)
	}
}

// Then implements Deferred.
func (f *Future) Then(fn func(any)) {
	f.mu.Lock()
	if f.done {
		v := f.val
		f.mu.Unlock()
		fn(v)
		return
	}
	f.conts = append(f.conts, fn)
	f.mu.Unlock()
}

// IntentKind names the reconciliation branch an Intent forces.
type IntentKind uint8

const (
	IntentText        IntentKind = iota // coerce to a string
	IntentAny                           // pass through shape-based routing
	IntentHTML                          // inject as parsed markup
	IntentPlaceholder                   // eager fallback + deferred payload
)

// Intent forces a specific reconciliation branch independent of the
// value's shape. Construct intents with Text, Any, HTML, or Placeholder;
// each carries exactly one payload.
type Intent struct {
	kind     IntentKind
	value    any
	fallback any
}

// Kind returns the branch this intent forces.
func (it Intent) Kind() IntentKind { return it.kind }

// Text forces v to be reconciled as text.
func Text(v any) Intent { return Intent{kind: IntentText, value: v} }

// Any passes v through shape-based routing. Useful inside Placeholder.
func Any(v any) Intent { return Intent{kind: IntentAny, value: v} }

// HTML forces v (a string, or a sequence joined as markup fragments) to
// be parsed and injected as raw markup.
func HTML(v any) Intent { return Intent{kind: IntentHTML, value: v} }

// Placeholder renders fallback synchronously, then re-renders under the
// inner intent once the intent's (usually Deferred) payload settles.
// A nested Placeholder is flattened to Any.
func Placeholder(fallback any, inner Intent) Intent {
	if inner.kind == IntentPlaceholder {
		inner = Intent{kind: IntentAny, value: inner.value}
	}
	return Intent{kind: IntentPlaceholder, value: inner, fallback: fallback}
}

// TransformFunc is the last-resort extension point for domain-specific
// value shapes. It receives the unrecognized value and a refresh
// continuation, and returns a classifiable value. The continuation may
// be invoked later (from any goroutine, but never synchronously inside
// the transform itself) to push a new value into the same hole.
type TransformFunc func(value any, refresh func(any)) any

// toText coerces a scalar-ish value to its text form. Values outside the
// coercible set produce a bind-category error; per the error model this
// is a type failure surfaced to the caller, not something the
// reconcilers recover from.
func toText(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case fmt.Stringer:
		return x.String(), nil
	case error:
		return x.Error(), nil
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return strconv.FormatInt(rv.Int(), 10), nil
	case rv.CanUint():
		return strconv.FormatUint(rv.Uint(), 10), nil
	case rv.Kind() == reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case rv.CanFloat():
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}
	return "", errors.New(errors.CategoryBind, "cannot coerce %T to text", v)
}

// mustText is toText for paths where the error model is a propagated
// panic (update callbacks return nothing).
func mustText(v any) string {
	s, err := toText(v)
	if err != nil {
		panic(err)
	}
	return s
}

// isScalar reports whether v takes the primitive text fast path.
func isScalar(v any) bool {
	switch v.(type) {
	case string, bool:
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && (rv.CanInt() || rv.CanUint() || rv.CanFloat())
}

// sameValue is the memoization equality: strict equality for comparable
// types, never equal otherwise. Composite shapes are deliberately always
// "different" because equality is not cheaply decidable for them.
// isNil reports nil including typed nils carried in an interface, so a
// (*T)(nil) detaches an attribute the same way a literal nil does.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() {
		return a == b
	}
	return false
}
