// Package flatfn provides the two per-constraint views of a shared
// Dag. DagFun is the thin one: a root node, the scope of variables it
// reads, and (for constraints) the image interval the root must lie
// in, evaluated and contracted through the Dag itself so hash-consed
// sub-terms are narrowed once across occurrences.
//
// FlatFunction is the straight-line one: the same constraint
// re-flattened into a dense instruction array with specialised
// opcodes for the const-operand shapes, dispatching without the
// arena's indirection. Contractors that re-evaluate one constraint
// many times per call (the BC4 slicing pass, the smear ranking's
// derivative sweep) run on the flat form; single-pass HC4 stays on
// the Dag.
package flatfn
