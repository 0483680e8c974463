package env

import "time"

// PropagatorName names one contractor in the PROPAGATOR pool ordering
// (§6 parameter file).
type PropagatorName string

const (
	PropHC4     PropagatorName = "HC4"
	PropBC4     PropagatorName = "BC4"
	PropACID    PropagatorName = "ACID"
	PropPolytope PropagatorName = "POLYTOPE"
	PropNewton  PropagatorName = "NEWTON"
)

// SplitStrategy names a search splitter choice (§6).
type SplitStrategy string

const (
	SplitLargestWidth SplitStrategy = "LARGEST_WIDTH"
	SplitRoundRobin   SplitStrategy = "ROUND_ROBIN"
	SplitSmear        SplitStrategy = "SMEAR"
)

// PolytopeStyle names the linearisation style feeding the polytope-hull
// contractor (§6).
type PolytopeStyle string

const (
	PolytopeRLT    PolytopeStyle = "RLT"
	PolytopeTaylor PolytopeStyle = "TAYLOR"
	PolytopeAffine PolytopeStyle = "AFFINE"
)

// DisplayRegion names the solution-box print layout (§6).
type DisplayRegion string

const (
	DisplayStd DisplayRegion = "STD"
	DisplayVec DisplayRegion = "VEC"
)

// Config is the parsed, defaulted form of a parameter file (§6):
// everything the CLI and the search driver need besides the problem
// itself. Defaults here match realpaver's own out-of-the-box behaviour
// per original_source, not arbitrary choices.
type Config struct {
	LogLevel LogLevel

	TimeLimit     time.Duration
	NodeLimit     int64
	SolutionLimit int64
	DepthLimit    int

	Preprocessing bool
	Propagators   []PropagatorName
	SplitStrategy SplitStrategy

	SplitTolAbs float64
	SplitTolRel float64

	PolytopeStyle    PolytopeStyle
	TaylorCornerSeed int64

	DisplayRegion  DisplayRegion
	FloatPrecision int
}

// DefaultConfig returns the parameter file's documented defaults
// (§6): preprocessing on, the full HC4→BC4→ACID→POLYTOPE→NEWTON pool,
// largest-width splitting, and the same tolerances as
// domain.DefaultTolerance.
func DefaultConfig() Config {
	return Config{
		LogLevel:         LogMain,
		TimeLimit:        0, // 0 == unlimited
		NodeLimit:        0,
		SolutionLimit:    0,
		DepthLimit:       0,
		Preprocessing:    true,
		Propagators:      []PropagatorName{PropHC4, PropBC4, PropACID, PropPolytope, PropNewton},
		SplitStrategy:    SplitLargestWidth,
		SplitTolAbs:      1e-8,
		SplitTolRel:      1e-8,
		PolytopeStyle:    PolytopeTaylor,
		TaylorCornerSeed: 0,
		DisplayRegion:    DisplayStd,
		FloatPrecision:   8,
	}
}
