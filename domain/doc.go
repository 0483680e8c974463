// Package domain holds the data model shared by every other package in
// this module: Variable, Scope, Domain, DomainBox and IntervalBox (§3).
//
// Variable and Scope are immutable after construction, mirroring the
// teacher library's Vertex/Edge value types and its O(1) membership
// contract for adjacency lookups — here realised as an index map on
// Scope rather than a hash-set, since scopes are small, shared across
// many contractors, and need O(1) index-of-variable as well as O(1)
// membership.
//
// DomainBox and IntervalBox are value types: cloning is a slice copy,
// and propagation/splitting always work on a clone so a failed branch
// can be discarded without disturbing its parent (§3 Lifecycles).
package domain
