// Package interval provides closed real intervals with outward-rounded
// arithmetic and, for every operation, a projection (inverse) form used
// by the HC4Revise backward pass.
//
// Every forward operation computes the tightest representable interval
// containing the true image of its arguments, rounded outward by one
// ULP in each direction so that floating-point truncation can never
// shrink a result past the true range. Every projection operation
// narrows one argument against the other argument(s) and a target
// image, also rounding outward, so a projection never removes a
// genuine solution.
//
// All operations are total. Degenerate inputs (division by an interval
// straddling zero, log of a non-positive interval, and so on) return
// Empty or widen to Universe rather than signalling an error — this
// package has no error type; Empty/Universe are values.
//
// Rounding-mode discipline lives in round.go: it is the only file in
// this package that calls math.Nextafter. Outside this package, the one
// other caller is dag's complementPieces, which steps an image endpoint
// one ULP to enclose an open complement half-line.
package interval
