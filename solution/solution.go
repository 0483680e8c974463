// Package solution renders a search run into the §6 `.sol` text
// format: a header identifying the tool and input, a PREPROCESSING
// section, a SOLVING section, one SOLUTION block per result box, an
// optional HULL OF PENDING NODES block, and the echoed input problem
// and parameters.
//
// Grounded on original_source/src/realpaver/*Printer* classes (the
// section-by-section report shape); no repo in the retrieval pack ships
// a templating engine so this stays a direct io.Writer, hand-built
// Fprintf/WriteString report code.
package solution

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/env"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/preprocess"
	"github.com/realpaver-go/ncsp/problem"
	"github.com/realpaver-go/ncsp/search"
)

// Tag classifies a solution box for display (§6: "tag ∈ {inner, safe,
// unsafe}").
type Tag string

const (
	TagInner  Tag = "inner"
	TagSafe   Tag = "safe"
	TagUnsafe Tag = "unsafe"
)

func tagOf(c cert.Certificate) Tag {
	switch c {
	case cert.Inner:
		return TagInner
	case cert.Feasible:
		return TagSafe
	default:
		return TagUnsafe
	}
}

// PreprocessReport summarises the §4.9 pass for the PREPROCESSING
// section; Ran is false when the parameter file disabled it
// (PREPROCESSING = NO).
type PreprocessReport struct {
	Ran     bool
	Elapsed time.Duration
	Mapping preprocess.Mapping
	// Empty is true when the single propagation pass proved the whole
	// initial box has no solution (§4.9, §7 DomainEmpty).
	Empty bool
}

// Report is everything Write needs besides the problem and
// parameters: the preprocessing summary and the search.Result.
type Report struct {
	Pre    PreprocessReport
	Search search.Result
}

// solveStatus mirrors §6's "solution status ∈ {proved feasible, proved
// unfeasible, no proof certificate, no solution found}".
func solveStatus(r Report) string {
	if r.Pre.Empty {
		return "proved unfeasible"
	}
	if len(r.Search.Solutions) == 0 {
		if r.Search.Partial {
			return "no proof certificate"
		}
		return "no solution found"
	}
	for _, n := range r.Search.Solutions {
		if n.Cert == cert.Feasible || n.Cert == cert.Inner {
			return "proved feasible"
		}
	}
	return "no proof certificate"
}

// Write renders the full .sol report for p/cfg/rep to w (§6).
func Write(w io.Writer, p *problem.Problem, cfg env.Config, rep Report) error {
	bw := &errWriter{w: w}

	bw.printf("NCSP SOLVER REPORT\n")
	bw.printf("input: %s\n\n", displayOr(p.Meta.SourceFile, "<unnamed>"))

	bw.printf("PREPROCESSING\n")
	if !rep.Pre.Ran {
		bw.printf("  status: skipped\n\n")
	} else {
		bw.printf("  time: %s\n", rep.Pre.Elapsed)
		if rep.Pre.Empty {
			bw.printf("  status: proved unfeasible\n\n")
		} else {
			bw.printf("  status: complete\n")
			writeFixed(bw, p, rep.Pre.Mapping)
			writeInactive(bw, rep.Pre.Mapping)
			bw.printf("\n")
		}
	}

	bw.printf("SOLVING\n")
	bw.printf("  time: %s\n", rep.Search.Elapsed)
	bw.printf("  nodes: %d\n", rep.Search.Nodes)
	searchStatus := "complete"
	if rep.Search.Partial {
		searchStatus = "partial"
	}
	bw.printf("  search status: %s\n", searchStatus)
	bw.printf("  solution status: %s\n\n", solveStatus(rep))

	for i, n := range rep.Search.Solutions {
		writeBox(bw, p.Scope, i+1, n, cfg)
	}

	if len(rep.Search.Pending) > 0 {
		bw.printf("HULL OF PENDING NODES\n")
		hull := pendingHull(p.Scope, rep.Search.Pending)
		writeDomains(bw, p.Scope, hull, cfg)
		bw.printf("\n")
	}

	writeProblemEcho(bw, p)
	writeParamsEcho(bw, cfg)

	return bw.err
}

func displayOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func writeFixed(bw *errWriter, p *problem.Problem, m preprocess.Mapping) {
	if len(m.Fixed) == 0 {
		return
	}
	ids := make([]int, 0, len(m.Fixed))
	for id := range m.Fixed {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	bw.printf("  fixed variables:\n")
	for _, id := range ids {
		name := variableName(p.Scope, id)
		bw.printf("    %s = %g\n", name, m.Fixed[id])
	}
}

func writeInactive(bw *errWriter, m preprocess.Mapping) {
	if len(m.InactiveConstraints) == 0 {
		return
	}
	bw.printf("  inactive constraints:\n")
	for _, name := range m.InactiveConstraints {
		bw.printf("    %s\n", name)
	}
}

func variableName(s domain.Scope, id int) string {
	if i, ok := s.IndexOf(id); ok {
		return s.At(i).Name
	}
	return fmt.Sprintf("v%d", id)
}

func writeBox(bw *errWriter, scope domain.Scope, idx int, n *search.Node, cfg env.Config) {
	hull := n.Box.Hull()
	w := widestWidth(hull)
	bw.printf("SOLUTION %d [%.*g] [%s]\n", idx, precision(cfg), w, tagOf(n.Cert))
	writeDomains(bw, scope, hull, cfg)
	bw.printf("\n")
}

func widestWidth(b domain.IntervalBox) float64 {
	best := 0.0
	for i := 0; i < b.Scope().Len(); i++ {
		w := b.AtIndex(i).Width()
		if w > best {
			best = w
		}
	}
	return best
}

func precision(cfg env.Config) int {
	if cfg.FloatPrecision <= 0 {
		return 8
	}
	return cfg.FloatPrecision
}

func writeDomains(bw *errWriter, scope domain.Scope, b domain.IntervalBox, cfg env.Config) {
	prec := precision(cfg)
	for i, v := range scope.Vars() {
		x := b.AtIndex(i)
		switch cfg.DisplayRegion {
		case env.DisplayVec:
			bw.printf("  %.*g %.*g\n", prec, x.Lo, prec, x.Hi)
		default:
			bw.printf("  %s in [%.*g, %.*g]\n", v.Name, prec, x.Lo, prec, x.Hi)
		}
	}
}

// pendingHull returns the interval hull of every still-pending node's
// box, one component per variable, for the HULL OF PENDING NODES block.
func pendingHull(scope domain.Scope, pending []*search.Node) domain.IntervalBox {
	hull := domain.NewIntervalBox(scope)
	if len(pending) == 0 {
		return hull
	}
	hull = pending[0].Box.Hull()
	for _, n := range pending[1:] {
		b := n.Box.Hull()
		for i := 0; i < scope.Len(); i++ {
			x, y := hull.AtIndex(i), b.AtIndex(i)
			lo, hi := x.Lo, x.Hi
			if y.Lo < lo {
				lo = y.Lo
			}
			if y.Hi > hi {
				hi = y.Hi
			}
			hull.SetAtIndex(i, interval.New(lo, hi))
		}
	}
	return hull
}

func writeProblemEcho(bw *errWriter, p *problem.Problem) {
	bw.printf("INPUT PROBLEM\n")
	bw.printf("Variables  ")
	for i, v := range p.Scope.Vars() {
		if i > 0 {
			bw.printf(", ")
		}
		dom := v.Image()
		bw.printf("%s in [%g, %g]", v.Name, dom.Lo, dom.Hi)
	}
	bw.printf(";\n")
	bw.printf("Constraints\n")
	for i, c := range p.Constraints {
		bw.printf("  %s: image [%g, %g]", c.Name, c.Image.Lo, c.Image.Hi)
		if i < len(p.Constraints)-1 {
			bw.printf(",")
		}
		bw.printf("\n")
	}
	if p.Objective != nil {
		dir := "MAX"
		if p.Objective.Minimize {
			dir = "MIN"
		}
		bw.printf("Objective  %s <objective expression>;\n", dir)
	}
	bw.printf("\n")
}

func writeParamsEcho(bw *errWriter, cfg env.Config) {
	bw.printf("PARAMETERS\n")
	bw.printf("  LOG_LEVEL = %v\n", cfg.LogLevel)
	bw.printf("  TIME_LIMIT = %s\n", cfg.TimeLimit)
	bw.printf("  NODE_LIMIT = %d\n", cfg.NodeLimit)
	bw.printf("  SOLUTION_LIMIT = %d\n", cfg.SolutionLimit)
	bw.printf("  DEPTH_LIMIT = %d\n", cfg.DepthLimit)
	bw.printf("  PREPROCESSING = %v\n", cfg.Preprocessing)
	bw.printf("  PROPAGATOR = %v\n", cfg.Propagators)
	bw.printf("  SPLIT_STRATEGY = %s\n", cfg.SplitStrategy)
	bw.printf("  SPLIT_TOL_ABS = %g\n", cfg.SplitTolAbs)
	bw.printf("  SPLIT_TOL_REL = %g\n", cfg.SplitTolRel)
	bw.printf("  POLYTOPE_STYLE = %s\n", cfg.PolytopeStyle)
	bw.printf("  TAYLOR_CORNER_SEED = %d\n", cfg.TaylorCornerSeed)
	bw.printf("  DISPLAY_REGION = %s\n", cfg.DisplayRegion)
	bw.printf("  FLOAT_PRECISION = %d\n", cfg.FloatPrecision)
}

// errWriter collapses every Fprintf error check into one sticky flag
// instead of checking each write individually.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
