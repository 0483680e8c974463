package dag

import (
	"fmt"

	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/term"
)

// Dag is a hash-consed arena of expression nodes shared by every
// constraint and the objective of a single problem.
type Dag struct {
	nodes []node
	memo  map[string]NodeID
}

// New returns an empty Dag.
func New() *Dag {
	return &Dag{memo: make(map[string]NodeID)}
}

// NumNodes returns the number of distinct nodes currently in the arena.
func (d *Dag) NumNodes() int { return len(d.nodes) }

func (d *Dag) alloc(n node, key string) NodeID {
	if id, ok := d.memo[key]; ok {
		return id
	}
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, n)
	d.memo[key] = id
	return id
}

// Compile inserts t into the Dag, sharing any sub-term already present
// under hash-consing, and returns the id of its root node. Children are
// always allocated before their parent, so a forward evaluation pass
// can walk the arena id 0..NumNodes()-1 in a single linear scan instead
// of recursing.
func (d *Dag) Compile(t term.Term) NodeID {
	switch t.Op() {
	case term.OpConst:
		v := t.ConstValue()
		return d.alloc(node{op: opConst, value: v}, fmt.Sprintf("c:%v:%v", v.Lo, v.Hi))
	case term.OpVar:
		return d.alloc(node{op: opVar, varID: t.VarID()}, fmt.Sprintf("v:%d", t.VarID()))
	case term.OpLin:
		items := make([]linItem, t.LinLen())
		key := fmt.Sprintf("lin:%v:%v:", t.LinConst().Lo, t.LinConst().Hi)
		for i := 0; i < t.LinLen(); i++ {
			c := t.LinCoef(i)
			items[i] = linItem{coef: c, varID: t.LinVarID(i)}
			key += fmt.Sprintf("%d:%v:%v;", t.LinVarID(i), c.Lo, c.Hi)
		}
		return d.alloc(node{op: opLin, cst: t.LinConst(), items: items}, key)
	case term.OpPow:
		c := d.Compile(t.Child(0))
		return d.alloc(node{op: opPow, children: []NodeID{c}, n: t.Exponent()}, fmt.Sprintf("pow:%d:%d", c, t.Exponent()))
	default:
		kids := make([]NodeID, t.Arity())
		key := fmt.Sprintf("op%d:", opFromTerm(t.Op()))
		for i := 0; i < t.Arity(); i++ {
			kids[i] = d.Compile(t.Child(i))
			key += fmt.Sprintf("%d,", kids[i])
		}
		return d.alloc(node{op: opFromTerm(t.Op()), children: kids}, key)
	}
}

func opFromTerm(o term.Op) opcode {
	switch o {
	case term.OpAdd:
		return opAdd
	case term.OpSub:
		return opSub
	case term.OpMul:
		return opMul
	case term.OpDiv:
		return opDiv
	case term.OpMin:
		return opMin
	case term.OpMax:
		return opMax
	case term.OpUsb:
		return opUsb
	case term.OpAbs:
		return opAbs
	case term.OpSgn:
		return opSgn
	case term.OpSqr:
		return opSqr
	case term.OpSqrt:
		return opSqrt
	case term.OpExp:
		return opExp
	case term.OpLog:
		return opLog
	case term.OpCos:
		return opCos
	case term.OpSin:
		return opSin
	case term.OpTan:
		return opTan
	default:
		panic("dag: opFromTerm: unhandled term op")
	}
}

// Values is a forward-evaluation cache: one interval per NodeID.
type Values []interval.Interval

// VariableLookup resolves a variable id to its current interval; it is
// satisfied by domain.IntervalBox.At with the error discarded at the
// call site that already validated the Dag's variables are a subset of
// the box's scope.
type VariableLookup func(varID int) interval.Interval

// Eval performs the forward phase of HC4Revise (§4.3): a single linear
// scan over the arena, each node's value computed from its
// already-evaluated children.
func (d *Dag) Eval(lookup VariableLookup) Values {
	vals := make(Values, len(d.nodes))
	for id := range d.nodes {
		vals[id] = d.evalOne(NodeID(id), vals, lookup)
	}
	return vals
}

func (d *Dag) evalOne(id NodeID, vals Values, lookup VariableLookup) interval.Interval {
	n := &d.nodes[id]
	child := func(i int) interval.Interval { return vals[n.children[i]] }
	switch n.op {
	case opConst:
		return n.value
	case opVar:
		return lookup(n.varID)
	case opLin:
		acc := n.cst
		for _, it := range n.items {
			acc = interval.Add(acc, interval.Mul(it.coef, lookup(it.varID)))
		}
		return acc
	case opAdd:
		return interval.Add(child(0), child(1))
	case opSub:
		return interval.Sub(child(0), child(1))
	case opMul:
		return interval.Mul(child(0), child(1))
	case opDiv:
		return interval.Div(child(0), child(1))
	case opMin:
		return interval.Min(child(0), child(1))
	case opMax:
		return interval.Max(child(0), child(1))
	case opUsb:
		return interval.Neg(child(0))
	case opAbs:
		return interval.Abs(child(0))
	case opSgn:
		return interval.Sign(child(0))
	case opSqr:
		return interval.Sqr(child(0))
	case opSqrt:
		return interval.Sqrt(child(0))
	case opPow:
		return interval.IntPow(child(0), n.n)
	case opExp:
		return interval.Exp(child(0))
	case opLog:
		return interval.Log(child(0))
	case opCos:
		return interval.Cos(child(0))
	case opSin:
		return interval.Sin(child(0))
	case opTan:
		return interval.Tan(child(0))
	default:
		panic("dag: evalOne: unhandled opcode")
	}
}
