package dag

import "github.com/realpaver-go/ncsp/interval"

// Diff performs reverse-mode interval automatic differentiation of the
// sub-dag rooted at root, given the forward values vals already
// computed by Eval over the same box: it returns, for every variable
// reachable from root, an interval enclosure of the partial derivative
// of root's value with respect to that variable over the box (the
// Jacobian row the Newton and Taylor-linearization contractors need,
// §4.2/§4.6).
//
// Both gradient rules (Min/Max, Abs, Sgn) are the conservative interval
// subgradient: where the true function is non-differentiable somewhere
// in the box, the returned interval spans every subgradient value
// rather than picking one, which keeps Diff sound for a box of
// non-zero width.
func (d *Dag) Diff(root NodeID, vals Values) map[int]interval.Interval {
	adj := make(Values, len(d.nodes))
	adj[root] = interval.Degenerate(1)
	grad := make(map[int]interval.Interval)

	for id := len(d.nodes) - 1; id >= 0; id-- {
		a := adj[NodeID(id)]
		if a == (interval.Interval{}) {
			continue
		}
		n := &d.nodes[id]
		switch n.op {
		case opConst:
		case opVar:
			accumulate(grad, n.varID, a)
		case opLin:
			for _, it := range n.items {
				accumulate(grad, it.varID, interval.Mul(a, it.coef))
			}
		case opAdd:
			addAdj(adj, n.children[0], a)
			addAdj(adj, n.children[1], a)
		case opSub:
			addAdj(adj, n.children[0], a)
			addAdj(adj, n.children[1], interval.Neg(a))
		case opMul:
			x, y := vals[n.children[0]], vals[n.children[1]]
			addAdj(adj, n.children[0], interval.Mul(a, y))
			addAdj(adj, n.children[1], interval.Mul(a, x))
		case opDiv:
			x, y := vals[n.children[0]], vals[n.children[1]]
			addAdj(adj, n.children[0], interval.Div(a, y))
			ySqr := interval.Sqr(y)
			addAdj(adj, n.children[1], interval.Neg(interval.Div(interval.Mul(a, x), ySqr)))
		case opMin:
			gx, gy := subgradMinMax(vals[n.children[0]], vals[n.children[1]], true)
			addAdj(adj, n.children[0], interval.Mul(a, gx))
			addAdj(adj, n.children[1], interval.Mul(a, gy))
		case opMax:
			gx, gy := subgradMinMax(vals[n.children[0]], vals[n.children[1]], false)
			addAdj(adj, n.children[0], interval.Mul(a, gx))
			addAdj(adj, n.children[1], interval.Mul(a, gy))
		case opUsb:
			addAdj(adj, n.children[0], interval.Neg(a))
		case opAbs:
			x := vals[n.children[0]]
			addAdj(adj, n.children[0], interval.Mul(a, interval.Sign(x)))
		case opSgn:
			// derivative is 0 almost everywhere; the Dirac mass at 0 is
			// not representable here, so this contributes nothing.
		case opSqr:
			x := vals[n.children[0]]
			addAdj(adj, n.children[0], interval.Mul(a, interval.MulScalar(x, 2)))
		case opSqrt:
			x := vals[n.children[0]]
			denom := interval.MulScalar(interval.Sqrt(x), 2)
			addAdj(adj, n.children[0], interval.Div(a, denom))
		case opPow:
			x := vals[n.children[0]]
			deriv := interval.MulScalar(interval.IntPow(x, n.n-1), float64(n.n))
			addAdj(adj, n.children[0], interval.Mul(a, deriv))
		case opExp:
			addAdj(adj, n.children[0], interval.Mul(a, vals[id]))
		case opLog:
			x := vals[n.children[0]]
			addAdj(adj, n.children[0], interval.Div(a, x))
		case opCos:
			x := vals[n.children[0]]
			addAdj(adj, n.children[0], interval.Mul(a, interval.Neg(interval.Sin(x))))
		case opSin:
			x := vals[n.children[0]]
			addAdj(adj, n.children[0], interval.Mul(a, interval.Cos(x)))
		case opTan:
			t := vals[id]
			deriv := interval.Add(interval.Degenerate(1), interval.Sqr(t))
			addAdj(adj, n.children[0], interval.Mul(a, deriv))
		default:
			panic("dag: Diff: unhandled opcode")
		}
	}
	return grad
}

func accumulate(grad map[int]interval.Interval, varID int, contrib interval.Interval) {
	if cur, ok := grad[varID]; ok {
		grad[varID] = interval.Add(cur, contrib)
	} else {
		grad[varID] = contrib
	}
}

func addAdj(adj Values, id NodeID, contrib interval.Interval) {
	if adj[id] == (interval.Interval{}) {
		adj[id] = contrib
	} else {
		adj[id] = interval.Add(adj[id], contrib)
	}
}

// subgradMinMax returns the interval subgradient of min(x,y) (or
// max(x,y) when isMin is false) with respect to x and y, conservative
// over the full box.
func subgradMinMax(x, y interval.Interval, isMin bool) (interval.Interval, interval.Interval) {
	xWins := x.Hi <= y.Lo
	yWins := y.Hi <= x.Lo
	if !isMin {
		xWins, yWins = yWins, xWins
	}
	switch {
	case xWins:
		return interval.Degenerate(1), interval.Degenerate(0)
	case yWins:
		return interval.Degenerate(0), interval.Degenerate(1)
	default:
		return interval.New(0, 1), interval.New(0, 1)
	}
}
