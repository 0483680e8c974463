// Package main hosts the ncsp-solver binary: parse a problem file and
// an optional parameter file, run preprocessing and branch-and-prune
// search, and write the .sol report. engine.go assembles the
// contractor pool, propagator, splitter, and prover from an
// env.Config the way original_source/src/realpaver/CSPSolver.cpp's
// parameter-driven factory does; main.go stays a thin cobra wrapper
// around a testable Run function (§6: "the Run function returns a
// typed error so it stays testable").
package main

import (
	"github.com/realpaver-go/ncsp/contractor"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/env"
	"github.com/realpaver-go/ncsp/flatfn"
	"github.com/realpaver-go/ncsp/linearize"
	"github.com/realpaver-go/ncsp/lp"
	"github.com/realpaver-go/ncsp/problem"
	"github.com/realpaver-go/ncsp/propagator"
	"github.com/realpaver-go/ncsp/prove"
	"github.com/realpaver-go/ncsp/search"
)

// buildPropagator assembles the contractor pool named by
// cfg.Propagators, in the order given, over compiled's constraint
// functions (§6 PROPAGATOR key: "ordered list of contractors in the
// pool"). p's Constraints[i].Term is the pre-compile source BC4 and
// the polytope builders need (the shared Dag no longer distinguishes
// occurrence count once terms are hash-consed together).
func buildPropagator(p *problem.Problem, compiled *problem.Compiled, cfg env.Config, e *env.Env) *propagator.Propagator {
	var pool contractor.Pool
	for _, name := range cfg.Propagators {
		switch name {
		case env.PropHC4:
			for _, fn := range compiled.Funcs {
				pool = append(pool, contractor.NewHC4(fn))
			}
		case env.PropBC4:
			for i, fn := range compiled.Funcs {
				pool = append(pool, contractor.NewBC4(fn, p.Constraints[i].Term))
			}
		case env.PropNewton:
			if len(compiled.Funcs) > 0 {
				scope := compiled.Funcs[0].Scope
				for _, fn := range compiled.Funcs[1:] {
					scope = domain.Union(scope, fn.Scope)
				}
				if scope.Len() == len(compiled.Funcs) {
					pool = append(pool, contractor.NewNewton(compiled.Funcs, scope))
				}
			}
		case env.PropACID:
			for _, fn := range compiled.Funcs {
				inner := contractor.NewHC4(fn)
				vars := make([]int, 0, fn.Scope.Len())
				for _, v := range fn.Scope.Vars() {
					vars = append(vars, v.ID)
				}
				pool = append(pool, contractor.NewACID(inner, vars, contractor.DefaultSlices, 0))
			}
		case env.PropPolytope:
			if poly := buildPolytope(p, compiled, cfg, e); poly != nil {
				pool = append(pool, poly)
			}
		}
	}
	return propagator.New(pool)
}

// buildPolytope assembles the polytope-hull contractor (§4.5) using
// cfg.PolytopeStyle's linearisation (§6 POLYTOPE_STYLE, TAYLOR_CORNER_SEED).
func buildPolytope(p *problem.Problem, compiled *problem.Compiled, cfg env.Config, e *env.Env) *linearize.Polytope {
	if len(compiled.Funcs) == 0 {
		return nil
	}
	var style linearize.Style
	switch cfg.PolytopeStyle {
	case env.PolytopeRLT:
		style = linearize.RLT
	case env.PolytopeAffine:
		style = linearize.Affine
	default:
		style = linearize.Taylor
	}
	lcfg := linearize.Config{Seed: cfg.TaylorCornerSeed}
	builder := linearize.NewCutBuilder(style, lcfg)
	if tb, ok := builder.(*linearize.TaylorBuilder); ok {
		tb.RNG = e.RNG()
	}

	funcs := make([]linearize.FuncSrc, len(compiled.Funcs))
	for i, fn := range compiled.Funcs {
		funcs[i] = linearize.FuncSrc{Fn: fn, Src: p.Constraints[i].Term}
	}
	return linearize.NewPolytope(funcs, builder, func() lp.Oracle { return lp.NewGonumOracle() })
}

// buildSplitter assembles the §4.7 splitter named by
// cfg.SplitStrategy. SMEAR ranks candidates by the summed interval
// Jacobian magnitude over every constraint, computed on per-constraint
// FlatFunctions (§4.4's derivative pass).
func buildSplitter(cfg env.Config, p *problem.Problem, compiled *problem.Compiled) search.Splitter {
	switch cfg.SplitStrategy {
	case env.SplitRoundRobin:
		return &search.RoundRobin{}
	case env.SplitSmear:
		fns := make([]search.DagFunLike, len(compiled.Funcs))
		for i, fn := range compiled.Funcs {
			fns[i] = flatfn.Compile(p.Constraints[i].Term, fn.Scope, fn.Image)
		}
		return &search.LargestWidth{Smear: &search.SmearRanking{Fns: fns}}
	default:
		return &search.LargestWidth{}
	}
}

// buildProver assembles the §4.8 prover from compiled's equations and
// inequalities, splitting on whether a constraint's image is a single
// point.
func buildProver(compiled *problem.Compiled, p *problem.Problem) *prove.Prover {
	var equations, inequalities []flatfn.DagFun
	for i, c := range p.Constraints {
		if c.Image.IsDegenerate() {
			equations = append(equations, compiled.Funcs[i])
		} else {
			inequalities = append(inequalities, compiled.Funcs[i])
		}
	}
	scope := domain.Scope{}
	if len(equations) > 0 {
		scope = equations[0].Scope
		for _, fn := range equations[1:] {
			scope = domain.Union(scope, fn.Scope)
		}
	}
	if scope.Len() != len(equations) {
		// Not a square system: Newton-based proof does not apply, but
		// the inequality containment test still can (§4.8).
		return prove.NewProver(nil, domain.Scope{}, inequalities)
	}
	return prove.NewProver(equations, scope, inequalities)
}

// limitsFromConfig translates the parameter-file cutoffs into
// search.Limits (§6 TIME_LIMIT/NODE_LIMIT/SOLUTION_LIMIT/DEPTH_LIMIT).
func limitsFromConfig(cfg env.Config) search.Limits {
	return search.Limits{
		Time:      cfg.TimeLimit,
		Nodes:     int(cfg.NodeLimit),
		Solutions: int(cfg.SolutionLimit),
		Depth:     cfg.DepthLimit,
	}
}
