package linearize

import (
	"math"
	"math/rand"

	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/lp"
)

// TaylorBuilder linearises a function at a corner of box by a
// first-order Taylor expansion whose remainder is enclosed by the
// interval gradient over the whole box (§4.5 Linearisers, Taylor
// style): f(x) ~= f(c) + grad(xi)*(x - c), and the interval width of
// grad over the box bounds how far that enclosure can be from the
// true value, which becomes the cut's slack.
//
// Grounded on original_source/src/realpaver/LinearizerTaylor.hpp.
type TaylorBuilder struct {
	Config
	// RNG, when set, is the generator corner() draws from — wire this
	// to env.Env.RNG() (the single process-local generator, §5) so a
	// whole run's Taylor corner choices share its seed. Left nil, the
	// builder lazily creates its own from Seed (DESIGN.md's Taylor
	// corner decision: never wall-clock seeded).
	RNG *rand.Rand
	rng *rand.Rand
}

// NewTaylorBuilder returns a TaylorBuilder drawing corner choices from
// rng (pass nil to keep the lazy Seed-derived default).
func NewTaylorBuilder(cfg Config, rng *rand.Rand) *TaylorBuilder {
	return &TaylorBuilder{Config: cfg, RNG: rng}
}

func (t *TaylorBuilder) corner(scope domain.Scope) []bool {
	if t.FixedCorner != nil {
		return t.FixedCorner
	}
	gen := t.RNG
	if gen == nil {
		if t.rng == nil {
			seed := t.Seed
			if seed == 0 {
				seed = 1
			}
			t.rng = rand.New(rand.NewSource(seed))
		}
		gen = t.rng
	}
	bits := make([]bool, scope.Len())
	for i := range bits {
		bits[i] = gen.Intn(2) == 1
	}
	return bits
}

// AddCuts emits cuts at the chosen corner and at its opposite (§4.5:
// "at a pair of opposite corners of the box").
func (t *TaylorBuilder) AddCuts(box domain.IntervalBox, scope domain.Scope, varIdx map[int]int, fs FuncSrc, o lp.Oracle) {
	bits := t.corner(scope)
	addTaylorCut(box, scope, varIdx, fs, o, bits)
	opp := make([]bool, len(bits))
	for i, b := range bits {
		opp[i] = !b
	}
	addTaylorCut(box, scope, varIdx, fs, o, opp)
}

// addTaylorCut emits the rows for fs at the corner chosen by bits
// (true = upper bound of that coordinate). The mean-value form
// f(x) = f(c) + sum g_i(xi)*(x_i - c_i) with g_i enclosed by the
// interval gradient over the whole box, plus the fixed sign of
// (x_i - c_i) at a corner, gives two linear estimators: one below f
// built from the favourable gradient endpoint per coordinate, one
// above f from the other endpoint. Every feasible point then
// satisfies under(x) <= Image.Hi and over(x) >= Image.Lo; those are
// the rows (half-line images drop the vacuous one).
func addTaylorCut(box domain.IntervalBox, scope domain.Scope, varIdx map[int]int, fs FuncSrc, o lp.Oracle, bits []bool) {
	n := scope.Len()
	corner := make([]float64, n)
	for i, v := range scope.Vars() {
		x, _ := box.At(v.ID)
		if i < len(bits) && bits[i] {
			corner[i] = x.Hi
		} else {
			corner[i] = x.Lo
		}
		if math.IsInf(corner[i], 0) {
			return
		}
	}
	lookupCorner := func(varID int) interval.Interval {
		if i, ok := scope.IndexOf(varID); ok {
			return interval.Degenerate(corner[i])
		}
		return boxLookup(box)(varID)
	}
	valsCorner := fs.Fn.Dag.Eval(lookupCorner)
	fAtCorner := valsCorner[fs.Fn.Root]
	if fAtCorner.IsEmpty() {
		return
	}

	valsBox := fs.Fn.Dag.Eval(boxLookup(box))
	grad := fs.Fn.Dag.Diff(fs.Fn.Root, valsBox)

	under := lp.LinearExpr{}
	over := lp.LinearExpr{}
	// Constants fold f(c) and the -d_i*c_i corrections so the rows
	// only ever carry x_i terms.
	underC := fAtCorner.Lo
	overC := fAtCorner.Hi
	for i, v := range scope.Vars() {
		g, ok := grad[v.ID]
		if !ok {
			g = interval.Zero()
		}
		if g.IsEmpty() || math.IsInf(g.Lo, 0) || math.IsInf(g.Hi, 0) {
			return
		}
		du, dv := g.Lo, g.Hi // (x_i - c_i) >= 0 at a left corner
		if i < len(bits) && bits[i] {
			du, dv = g.Hi, g.Lo // (x_i - c_i) <= 0 at a right corner
		}
		under[varIdx[v.ID]] = du
		underC -= du * corner[i]
		over[varIdx[v.ID]] = dv
		overC -= dv * corner[i]
	}
	if !math.IsInf(fs.Fn.Image.Hi, 1) {
		o.AddConstraint(under, math.Inf(-1), fs.Fn.Image.Hi-underC)
	}
	if !math.IsInf(fs.Fn.Image.Lo, -1) {
		o.AddConstraint(over, fs.Fn.Image.Lo-overC, math.Inf(1))
	}
}
