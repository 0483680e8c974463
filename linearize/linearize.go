// Package linearize builds an LP relaxation of a shared Dag function
// on a box (§4.5 Linearisers): given a box and a DagFun, each builder
// emits one or more linear rows into an lp.Oracle that every
// real point of the box satisfying the DagFun's constraint is
// guaranteed to also satisfy — the necessary condition the polytope
// contractor's LP min/max bounds exploit.
//
// Grounded on original_source/src/realpaver/Linearizer.hpp for the
// three builder styles (RLT, Taylor, affine) and on builder.WeightFn's
// *rand.Rand-threading convention for the Taylor corner choice.
package linearize

import (
	"math"

	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/flatfn"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/lp"
	"github.com/realpaver-go/ncsp/term"
)

// FuncSrc pairs a DagFun with the term.Term its root was compiled
// from; every builder needs the original Term to walk operator
// structure the Dag's arena no longer exposes directly.
type FuncSrc struct {
	Fn  flatfn.DagFun
	Src term.Term
}

// Style selects which Linearisers builder a Builder factory constructs
// (§6 POLYTOPE_STYLE parameter).
type Style int

const (
	RLT Style = iota
	Taylor
	Affine
)

// CutBuilder emits one or more linear rows bounding fs's value over
// box into o, whose variables have already been added via AddVars in
// the order given by varIdx (scope variable ID -> oracle variable
// index).
type CutBuilder interface {
	AddCuts(box domain.IntervalBox, scope domain.Scope, varIdx map[int]int, fs FuncSrc, o lp.Oracle)
}

// AddVars adds one bounded LP variable per member of scope, using
// box's current interval for its bounds, and returns the scope
// variable ID -> oracle variable index map every CutBuilder needs.
func AddVars(box domain.IntervalBox, scope domain.Scope, o lp.Oracle) map[int]int {
	idx := make(map[int]int, scope.Len())
	for _, v := range scope.Vars() {
		x, _ := box.At(v.ID)
		lo, hi := x.Lo, x.Hi
		if math.IsInf(lo, -1) {
			lo = -1e300
		}
		if math.IsInf(hi, 1) {
			hi = 1e300
		}
		idx[v.ID] = o.AddVariable(lo, hi)
	}
	return idx
}

func boxLookup(box domain.IntervalBox) func(int) interval.Interval {
	return func(varID int) interval.Interval {
		x, err := box.At(varID)
		if err != nil {
			return interval.Universe()
		}
		return x
	}
}

// NewCutBuilder returns the CutBuilder for the given style.
func NewCutBuilder(style Style, cfg Config) CutBuilder {
	switch style {
	case Taylor:
		return &TaylorBuilder{Config: cfg}
	case Affine:
		return &AffineBuilder{Config: cfg}
	default:
		return &RLTBuilder{Config: cfg}
	}
}

// Config carries the knobs shared across builders (§6 parameters).
type Config struct {
	// Seed drives the Taylor corner RNG when FixedCorner is nil
	// (DESIGN.md Open Question #2: seeded, never wall-clock, so a run
	// stays reproducible from a single seed, §5 Determinism).
	Seed int64
	// FixedCorner pins one bit per scope position (true = hi corner);
	// nil means the builder derives its own seeded corner.
	FixedCorner []bool
}
