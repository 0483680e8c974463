package dag

import (
	"math"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/interval"
)

// VariableNarrow is called once per variable occurrence during the
// backward phase with the newly projected interval for that
// occurrence. A variable referenced from several places in the same
// Dag is narrowed once per occurrence; the propagator's contractor
// wrapper takes the intersection across every occurrence before
// writing the result back into the box (§4.3: "a variable occurring
// several times in the same function is narrowed to the intersection
// of every occurrence's projection").
type VariableNarrow func(varID int, x interval.Interval)

// HC4Revise performs the forward/backward HC4Revise contraction for
// the sub-dag rooted at root with the given image interval: forward
// evaluate with Eval, intersect the root's value with image, and if
// the result changed, propagate it backward to every leaf via notify.
//
// The returned certificate follows the lattice in package cert: Empty
// when the intersection is empty, Inner when the forward image already
// lies inside image (no narrowing needed), Maybe otherwise.
func (d *Dag) HC4Revise(root NodeID, image interval.Interval, lookup VariableLookup, notify VariableNarrow) cert.Certificate {
	vals := d.Eval(lookup)
	rootVal := vals[root]
	if rootVal.IsEmpty() {
		return cert.Empty
	}
	if rootVal.IsSubset(image) {
		return cert.Inner
	}
	narrowed := rootVal.Inter(image)
	if narrowed.IsEmpty() {
		return cert.Empty
	}
	vals[root] = narrowed
	d.backward(root, vals, lookup, notify)
	return cert.Maybe
}

// HC4ReviseNeg is the hull contractor for the COMPLEMENT of the
// constraint "root in image" (§4.3): when image is a half-line the
// complement is the opposite half-line and a single HC4Revise pass
// suffices; when image is bounded both open complement half-lines are
// contracted separately and every variable receives the union of its
// surviving projections. The certificate reads relative to the
// negation: Empty means the box holds no violating point (the original
// constraint is satisfied everywhere), Inner means every point
// violates it.
func (d *Dag) HC4ReviseNeg(root NodeID, image interval.Interval, lookup VariableLookup, notify VariableNarrow) cert.Certificate {
	pieces := complementPieces(image)
	if len(pieces) == 0 {
		return cert.Empty
	}

	union := make(map[int]interval.Interval)
	out := cert.Empty
	for _, piece := range pieces {
		collected := make(map[int]interval.Interval)
		c := d.HC4Revise(root, piece, lookup, func(varID int, x interval.Interval) {
			if cur, ok := collected[varID]; ok {
				collected[varID] = cur.Inter(x)
			} else {
				collected[varID] = x
			}
		})
		if c == cert.Empty {
			continue
		}
		if c == cert.Inner {
			return cert.Inner
		}
		out = cert.Maybe
		for id, x := range collected {
			if cur, ok := union[id]; ok {
				union[id] = cur.Hull(x)
			} else {
				union[id] = x
			}
		}
	}
	if out == cert.Empty {
		return cert.Empty
	}
	for id, x := range union {
		notify(id, x)
	}
	return out
}

// complementPieces returns the closed outer enclosures of the open
// complement half-lines of image. Stepping one ulp past each finite
// endpoint keeps the enclosure a superset of the true open set without
// re-admitting the endpoint itself.
func complementPieces(image interval.Interval) []interval.Interval {
	if image.IsEmpty() {
		return []interval.Interval{interval.Universe()}
	}
	var out []interval.Interval
	if !math.IsInf(image.Lo, -1) {
		out = append(out, interval.New(math.Inf(-1), math.Nextafter(image.Lo, math.Inf(-1))))
	}
	if !math.IsInf(image.Hi, 1) {
		out = append(out, interval.New(math.Nextafter(image.Hi, math.Inf(1)), math.Inf(1)))
	}
	return out
}

// backward propagates vals[id] (already narrowed) down to id's
// children and recurses; leaves report through notify.
func (d *Dag) backward(id NodeID, vals Values, lookup VariableLookup, notify VariableNarrow) {
	n := &d.nodes[id]
	z := vals[id]
	if z.IsEmpty() {
		switch n.op {
		case opVar:
			notify(n.varID, z)
		case opLin:
			for _, it := range n.items {
				notify(it.varID, interval.Empty())
			}
		default:
			for _, c := range n.children {
				d.narrowChild(c, interval.Empty(), vals, lookup, notify)
			}
		}
		return
	}

	switch n.op {
	case opConst:
	case opVar:
		notify(n.varID, z)
	case opLin:
		d.backwardLin(n, z, lookup, notify)
	case opAdd:
		x, y := vals[n.children[0]], vals[n.children[1]]
		d.narrowChild(n.children[0], interval.ProjAddX(x, y, z), vals, lookup, notify)
		d.narrowChild(n.children[1], interval.ProjAddY(x, y, z), vals, lookup, notify)
	case opSub:
		x, y := vals[n.children[0]], vals[n.children[1]]
		d.narrowChild(n.children[0], interval.ProjSubX(x, y, z), vals, lookup, notify)
		d.narrowChild(n.children[1], interval.ProjSubY(x, y, z), vals, lookup, notify)
	case opMul:
		x, y := vals[n.children[0]], vals[n.children[1]]
		d.narrowChild(n.children[0], interval.ProjMulX(x, y, z), vals, lookup, notify)
		d.narrowChild(n.children[1], interval.ProjMulY(x, y, z), vals, lookup, notify)
	case opDiv:
		x, y := vals[n.children[0]], vals[n.children[1]]
		d.narrowChild(n.children[0], interval.ProjDivX(x, y, z), vals, lookup, notify)
		d.narrowChild(n.children[1], interval.ProjDivY(x, y, z), vals, lookup, notify)
	case opMin:
		x, y := vals[n.children[0]], vals[n.children[1]]
		d.narrowChild(n.children[0], interval.ProjMin(x, y, z), vals, lookup, notify)
		d.narrowChild(n.children[1], interval.ProjMin(y, x, z), vals, lookup, notify)
	case opMax:
		x, y := vals[n.children[0]], vals[n.children[1]]
		d.narrowChild(n.children[0], interval.ProjMax(x, y, z), vals, lookup, notify)
		d.narrowChild(n.children[1], interval.ProjMax(y, x, z), vals, lookup, notify)
	case opUsb:
		x := vals[n.children[0]]
		d.narrowChild(n.children[0], interval.ProjNeg(x, z), vals, lookup, notify)
	case opAbs:
		x := vals[n.children[0]]
		d.narrowChild(n.children[0], interval.ProjAbs(x, z), vals, lookup, notify)
	case opSgn:
		x := vals[n.children[0]]
		d.narrowChild(n.children[0], interval.ProjSign(x, z), vals, lookup, notify)
	case opSqr:
		x := vals[n.children[0]]
		d.narrowChild(n.children[0], interval.ProjSqr(x, z), vals, lookup, notify)
	case opSqrt:
		x := vals[n.children[0]]
		d.narrowChild(n.children[0], interval.ProjSqrt(x, z), vals, lookup, notify)
	case opPow:
		x := vals[n.children[0]]
		d.narrowChild(n.children[0], interval.ProjIntPow(x, z, n.n), vals, lookup, notify)
	case opExp:
		x := vals[n.children[0]]
		d.narrowChild(n.children[0], interval.ProjExp(x, z), vals, lookup, notify)
	case opLog:
		x := vals[n.children[0]]
		d.narrowChild(n.children[0], interval.ProjLog(x, z), vals, lookup, notify)
	case opCos:
		x := vals[n.children[0]]
		d.narrowChild(n.children[0], interval.ProjCos(x, z), vals, lookup, notify)
	case opSin:
		x := vals[n.children[0]]
		d.narrowChild(n.children[0], interval.ProjSin(x, z), vals, lookup, notify)
	case opTan:
		x := vals[n.children[0]]
		d.narrowChild(n.children[0], interval.ProjTan(x, z), vals, lookup, notify)
	default:
		panic("dag: backward: unhandled opcode")
	}
}

// narrowChild intersects the child's cached value with the freshly
// projected one and, if it changed, recurses into it. A variable leaf
// is reported through notify whether or not it changed.
func (d *Dag) narrowChild(id NodeID, proj interval.Interval, vals Values, lookup VariableLookup, notify VariableNarrow) {
	cur := vals[id]
	next := cur.Inter(proj)
	if next == cur {
		if n := &d.nodes[id]; n.op == opVar {
			notify(n.varID, cur)
		}
		return
	}
	vals[id] = next
	d.backward(id, vals, lookup, notify)
}

// backwardLin projects an opLin node's z back onto each addend
// independently: for z = cst + sum_i(coef_i * x_i), isolate x_i as
// (z - cst - sum_{j!=i} coef_j*x_j) / coef_i, using lookup for every
// other addend's current interval (its own occurrence is a leaf with
// no further children to recurse into, matching TermLin's flat
// representation).
func (d *Dag) backwardLin(n *node, z interval.Interval, lookup VariableLookup, notify VariableNarrow) {
	for i, it := range n.items {
		rest := n.cst
		for j, other := range n.items {
			if j == i {
				continue
			}
			rest = interval.Add(rest, interval.Mul(other.coef, lookup(other.varID)))
		}
		target := interval.Div(interval.Sub(z, rest), it.coef)
		notify(it.varID, lookup(it.varID).Inter(target))
	}
}
