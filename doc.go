// Package ncsp is a rigorous nonlinear constraint solver over the
// reals: given a finite set of real/integer variables with initial
// interval domains and a set of equations and inequalities built from
// the usual arithmetic vocabulary, it produces a finite cover of the
// solution set by boxes, each tagged with a proof certificate drawn
// from {Empty, Maybe, Feasible, Inner}.
//
// The module has no code at its own root; it is a flat collection of
// packages, one per concern:
//
//	interval/    directed-rounded interval arithmetic
//	affine/      affine arithmetic + affine-revise contractor math
//	domain/      Variable, Scope, Domain, DomainBox, IntervalBox
//	term/        expression value type + builder with optional simplification
//	dag/         shared expression graph, hash-consing, HC4Revise, AD
//	flatfn/      bytecode flattening of one DAG function
//	contractor/  HC4, BC4, affine-revise, Newton, var3B, varCID, ACID
//	linearize/   Taylor / affine / RLT LP-relaxation builders
//	lp/          LP oracle interface + gonum-backed implementation
//	propagator/  AC3-style fixpoint loop over a contractor pool
//	prove/       feasibility/inner proof upgrades
//	search/      branch-and-prune tree, node store, splitters
//	preprocess/  fix-and-eliminate pass run once before search
//	problem/     Problem/Constraint/Objective assembly
//	parser/      problem-file and parameter-file text formats
//	solution/    .sol file writer
//	env/         process-local logger, RNG, and stat counters
//	cmd/ncsp-solver  command-line front end
//
// Arithmetic throughout is performed with directed rounding so that
// every returned box is guaranteed to contain or exclude solutions
// according to its certificate; the core is single-threaded and
// cooperative, with cancellation and deadlines polled between node
// expansions rather than enforced by background workers.
package ncsp
