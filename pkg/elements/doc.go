// Package elements provides the built-in widget set: containers (Board,
// Card, Row, Switch), leaves (Text, Button, TextInput, TextClock), and the
// Form composite.
//
// Elements are plain widget values; their drawable behavior lives in the
// rendering backend, which type-switches on the element payloads it finds
// in the host tree. User-defined widgets compose these or implement the
// core interfaces directly; the framework treats both identically.
package elements
