package dag

import "github.com/realpaver-go/ncsp/interval"

// NodeID addresses a node in a Dag's arena. Ids are dense arena
// indices: the first node allocated gets id 0, so the zero value is
// itself a valid id that Compile can return.
type NodeID int

// linItem is one coefficient*variable addend of an OpLin node, mirroring
// term.linItem; dag keeps its own copy so it never needs term's
// unexported node representation.
type linItem struct {
	coef  interval.Interval
	varID int
}

// opcode enumerates the node shapes the Dag knows how to evaluate and
// contract. It is numerically distinct from term.Op so this package
// never depends on term's internals, only on term.Term's exported
// walk surface at Compile time.
type opcode int

const (
	opConst opcode = iota
	opVar
	opAdd
	opSub
	opMul
	opDiv
	opMin
	opMax
	opUsb
	opAbs
	opSgn
	opSqr
	opSqrt
	opPow
	opExp
	opLog
	opCos
	opSin
	opTan
	opLin
)

type node struct {
	op       opcode
	children []NodeID
	value    interval.Interval // opConst
	varID    int                // opVar
	n        int                // opPow exponent
	cst      interval.Interval  // opLin constant offset
	items    []linItem          // opLin
}
