// Package render serializes live dom trees to HTML.
//
// It is a one-way serializer, not a server-side rendering pipeline: the
// reconcilers in pkg/bind mutate dom nodes directly, and render exists so
// tests, the bench harness, and the demo server can observe the resulting
// tree as markup. Text and attribute values are escaped; raw-text
// elements (script, style) are emitted verbatim; void elements render
// without a closing tag.
package render
