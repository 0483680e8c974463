// Package term provides the expression-tree front end used to describe
// constraints and objectives before they are compiled into a shared DAG.
//
// A Term is an immutable value: internally it wraps a pointer to a node,
// but every exported operation returns a new Term rather than mutating
// one in place, so the same sub-term can be shared across many parents
// without aliasing surprises. Builder applies the bottom-up
// simplifications (constant folding, absorption of 0/1, linear-sum
// collection into Lin) at construction time when simplification is
// enabled, mirroring the optional simplification toggle of the system
// this package is modelled on.
package term
