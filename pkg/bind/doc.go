// Package bind turns a template's holes into reusable update callbacks.
//
// Create walks the ordered hole descriptors of an instantiated template
// and produces one Update per hole. Re-rendering never re-parses or
// re-walks the tree: callers invoke the cached callbacks positionally
// with new values, and each callback classifies its value and performs
// the minimal mutation needed on the region of the live tree it owns.
// Re-supplying an unchanged value performs zero tree mutation.
//
// A value routes through exactly one reconciliation branch: primitives
// become text, nil clears, sequences reconcile through a bounded
// minimal-edit diff, nodes and component handles splice in directly,
// Deferred values re-enter the classifier when they settle, and Intent
// values (Text, Any, HTML, Placeholder) force a branch regardless of the
// value's shape. Anything else falls through to the transform configured
// with WithTransform.
//
// Per-hole state (previous value, live window, attribute clone, style
// map, listener handle) lives in the callback's closure and is never
// shared across holes or instances. The callbacks produced by one Create
// call share a mutex, so deferred continuations settling on other
// goroutines serialize with synchronous renders.
package bind
