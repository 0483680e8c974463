// Package affine implements first-order affine forms
// a0 + Σ aᵢ·εᵢ + E, εᵢ ∈ [-1, 1], used by the affine-revise contractor
// (§4.2) and the affine-lifting linearizer (§4.5's Linearisers) for
// tighter range bounds than plain interval evaluation gives on
// expressions with repeated variables.
//
// Each noise symbol εᵢ is identified by a small integer index; index
// allocation and the mapping back to the domain variable it represents
// is the caller's responsibility (contractor.AffineRevise and the
// linearize affine builder each assign one noise index per scope
// variable before lifting a constraint's term). The non-negative error
// term E is tracked as a scalar radius rather than as an interval —
// numerically the same information (eval widens both sides by the same
// magnitude) with a lighter representation.
package affine
