// Package dom provides the live document tree that relit renders into.
//
// Unlike a virtual DOM, nodes in this package are the single source of
// truth: reconcilers mutate them directly and there is no shadow tree to
// diff against. The package plays the role the browser platform plays for
// a JavaScript renderer, so it also carries the platform services the
// reconcilers depend on:
//
//   - attribute nodes (Attr) that can be detached and re-attached without
//     reallocation, with case-preserved names
//   - element properties, kept distinct from attributes
//   - event listeners and synthetic event dispatch
//   - a style surface addressable per key or as a whole string
//   - batched, asynchronous mutation records (Observe/Flush), with a
//     synchronous per-node insert/remove fallback for hosts without
//     batching
//
// Every mutating primitive increments the owning Document's operation
// counter. Tests and the instrument package use the counter to verify
// that reconcilers are idempotent: re-applying an unchanged value must
// leave the counter untouched.
package dom
