// Package dag implements the shared expression graph: constraints and
// the objective compile their Terms into a single Dag so that common
// sub-expressions are evaluated and contracted exactly once per
// propagation step.
//
// Nodes live in a flat arena and are addressed by NodeID, an index
// rather than a pointer, so a Dag can be serialised or inspected
// without chasing pointers and so evaluation caches are plain slices
// indexed by NodeID. Hash-consing at Compile time means two Terms with
// structurally identical sub-expressions compile to the same NodeID.
package dag
