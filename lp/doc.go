// Package lp provides the linear-programming oracle the polytope-hull
// contractor and the linearization builders (both in package
// linearize) use to bound a variable over a relaxation of the
// feasible region (§4.11).
//
// Oracle is intentionally narrow — add a bounded variable, add a
// linear constraint, set the objective, optimize, read back a
// certified bound — so that a different LP backend could stand in for
// GonumOracle without touching either caller.
package lp
