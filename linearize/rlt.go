package linearize

import (
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/lp"
	"github.com/realpaver-go/ncsp/term"
)

// RLTBuilder emits the reformulation-linearization envelope for the
// two products every bound-tightening benchmark actually hits: x*y
// (McCormick's four facets) and x^2 (the single tangent-plus-secant
// pair). Any function whose root is not exactly one of those two
// shapes falls back to a single Taylor-style cut taken at the box's
// lower corner, since a general nonlinear term has no closed-form
// linear envelope without auxiliary product variables this solver
// does not introduce.
//
// Grounded on original_source/src/realpaver/LinearizerRLT.hpp for the
// McCormick facet constants.
type RLTBuilder struct {
	Config
}

func (r *RLTBuilder) AddCuts(box domain.IntervalBox, scope domain.Scope, varIdx map[int]int, fs FuncSrc, o lp.Oracle) {
	if a, b, ok := bilinearArgs(fs.Src); ok {
		addMcCormick(box, scope, varIdx, fs, o, a, b)
		return
	}
	if a, ok := squareArg(fs.Src); ok {
		addSquareEnvelope(box, scope, varIdx, fs, o, a)
		return
	}
	addTaylorCut(box, scope, varIdx, fs, o, midpointCorner(box, scope))
}

func midpointCorner(box domain.IntervalBox, scope domain.Scope) []bool {
	// addTaylorCut takes a lo/hi bit per coordinate, not an arbitrary
	// point; using the lower bound here (bits all false) keeps the
	// fallback sound even though it is not literally the midpoint.
	return make([]bool, scope.Len())
}

// bilinearArgs reports whether t is exactly Mul(Var, Var) over two
// distinct variables and returns their IDs.
func bilinearArgs(t term.Term) (xID, yID int, ok bool) {
	if t.Op() != term.OpMul {
		return 0, 0, false
	}
	x, y := t.Child(0), t.Child(1)
	if x.Op() != term.OpVar || y.Op() != term.OpVar {
		return 0, 0, false
	}
	if x.VarID() == y.VarID() {
		return 0, 0, false
	}
	return x.VarID(), y.VarID(), true
}

// squareArg reports whether t is exactly Sqr(Var) or Mul(Var, Var)
// over the same variable, and returns its ID.
func squareArg(t term.Term) (varID int, ok bool) {
	if t.Op() == term.OpSqr && t.Child(0).Op() == term.OpVar {
		return t.Child(0).VarID(), true
	}
	if t.Op() == term.OpMul {
		x, y := t.Child(0), t.Child(1)
		if x.Op() == term.OpVar && y.Op() == term.OpVar && x.VarID() == y.VarID() {
			return x.VarID(), true
		}
	}
	return 0, false
}

// addMcCormick emits the four standard McCormick facets bounding
// w = x*y over box, then intersects the function's own image with the
// auxiliary variable w's linear relation to x and y (§4.5 RLT).
func addMcCormick(box domain.IntervalBox, scope domain.Scope, varIdx map[int]int, fs FuncSrc, o lp.Oracle, xID, yID int) {
	xi, _ := box.At(xID)
	yi, _ := box.At(yID)
	xl, xu, yl, yu := xi.Lo, xi.Hi, yi.Lo, yi.Hi
	xIdx, yIdx := varIdx[xID], varIdx[yID]

	// Facets bound w relative to the function's image [L, U] (w == f
	// here since the whole term is the product): each under-estimator
	// row is bounded above by U, each over-estimator row below by L.
	// w >= xl*y + yl*x - xl*yl
	addFacet(o, xIdx, yIdx, yl, xl, -xl*yl, fs.Fn.Image, false)
	// w >= xu*y + yu*x - xu*yu
	addFacet(o, xIdx, yIdx, yu, xu, -xu*yu, fs.Fn.Image, false)
	// w <= xu*y + yl*x - xu*yl
	addFacet(o, xIdx, yIdx, yl, xu, -xu*yl, fs.Fn.Image, true)
	// w <= xl*y + yu*x - xl*yu
	addFacet(o, xIdx, yIdx, yu, xl, -xl*yu, fs.Fn.Image, true)
}

// addFacet adds the row bounding fs's image against
// cx*x + cy*y + c0 being, respectively, a lower bound (upper=false) or
// upper bound (upper=true) on w.
func addFacet(o lp.Oracle, xIdx, yIdx int, cx, cy, c0 float64, image interval.Interval, upper bool) {
	expr := lp.LinearExpr{xIdx: cx, yIdx: cy}
	if upper {
		// w <= cx*x+cy*y+c0  <=>  cx*x+cy*y >= w-c0 >= L-c0
		o.AddConstraint(expr, image.Lo-c0, posInf)
	} else {
		// w >= cx*x+cy*y+c0  <=>  cx*x+cy*y <= w-c0 <= U-c0
		o.AddConstraint(expr, negInf, image.Hi-c0)
	}
}

const (
	posInf = 1e300
	negInf = -1e300
)

// addSquareEnvelope bounds w = x^2 by its tangent line at the box
// midpoint (a valid global under-estimator for a convex function) and
// the secant line through the box endpoints (a valid over-estimator).
func addSquareEnvelope(box domain.IntervalBox, scope domain.Scope, varIdx map[int]int, fs FuncSrc, o lp.Oracle, xID int) {
	xi, _ := box.At(xID)
	xl, xu := xi.Lo, xi.Hi
	idx := varIdx[xID]
	m := xi.Mid()

	// tangent at m: w >= 2m*x - m^2 and w <= U give the row
	// 2m*x <= U + m^2, bound against the image's upper end
	o.AddConstraint(lp.LinearExpr{idx: 2 * m}, negInf, fs.Fn.Image.Hi+m*m)
	if xu > xl {
		// secant: w <= (xl+xu)*x - xl*xu
		slope := xl + xu
		o.AddConstraint(lp.LinearExpr{idx: slope}, fs.Fn.Image.Lo+xl*xu, posInf)
	}
}
