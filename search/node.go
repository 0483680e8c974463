// Package search implements the branch-and-prune tree of §4.7: each
// node is propagated, tested against the stop criteria, proved if it
// qualifies as a candidate solution, or split into two children and
// pushed back on the node store. Solutions and pending boxes are
// collected into a Result once the store empties or a limit fires.
//
// Grounded on original_source/src/realpaver/CSPNode.hpp/CSPSolver.hpp
// for the node/solver shape, and on dfs.go's stack-of-frames traversal
// loop generalised from "visit a vertex" to "process a search node".
package search

import (
	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/domain"
)

// Node is one element of the branch-and-prune tree: a box, its depth,
// its parent's index in the tree that produced it (-1 for the root),
// and the certificate its last propagation/proof pass reached. Info is
// the generic side-channel §3's glossary describes — keyed by
// whatever symbolic kind a splitter or contractor wants to remember
// between visits to the same node (which variable it last split on,
// how many CID contractors it spent, ...).
type Node struct {
	Box      domain.DomainBox
	Depth    int
	Parent   int
	Cert     cert.Certificate
	SplitVar int // variable ID the node was split on to produce it, -1 for the root
	Info     map[string]any
}
