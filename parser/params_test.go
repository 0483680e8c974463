package parser

import (
	"testing"
	"time"

	"github.com/realpaver-go/ncsp/env"
	"github.com/stretchr/testify/require"
)

func TestParseParamsOverridesDefaults(t *testing.T) {
	src := `
# a comment
LOG_LEVEL = full
TIME_LIMIT = 2.5
NODE_LIMIT = 1000
PREPROCESSING = NO
PROPAGATOR = HC4, NEWTON
SPLIT_STRATEGY = ROUND_ROBIN
POLYTOPE_STYLE = RLT
DISPLAY_REGION = VEC
FLOAT_PRECISION = 4
`
	cfg, err := ParseParams(src)
	require.NoError(t, err)
	require.Equal(t, env.LogFull, cfg.LogLevel)
	require.Equal(t, 2500*time.Millisecond, cfg.TimeLimit)
	require.Equal(t, int64(1000), cfg.NodeLimit)
	require.False(t, cfg.Preprocessing)
	require.Equal(t, []env.PropagatorName{env.PropHC4, env.PropNewton}, cfg.Propagators)
	require.Equal(t, env.SplitRoundRobin, cfg.SplitStrategy)
	require.Equal(t, env.PolytopeRLT, cfg.PolytopeStyle)
	require.Equal(t, env.DisplayVec, cfg.DisplayRegion)
	require.Equal(t, 4, cfg.FloatPrecision)
}

func TestParseParamsKeepsDefaultsForOmittedKeys(t *testing.T) {
	cfg, err := ParseParams("LOG_LEVEL = none\n")
	require.NoError(t, err)
	def := env.DefaultConfig()
	require.Equal(t, def.Propagators, cfg.Propagators)
	require.Equal(t, def.SplitStrategy, cfg.SplitStrategy)
}

func TestParseParamsRejectsUnknownKey(t *testing.T) {
	_, err := ParseParams("NOT_A_KEY = 1\n")
	require.Error(t, err)
}

func TestParseParamsRejectsMalformedLine(t *testing.T) {
	_, err := ParseParams("this is not key value\n")
	require.Error(t, err)
}

func TestParseParamsRejectsBadEnumValue(t *testing.T) {
	_, err := ParseParams("LOG_LEVEL = loud\n")
	require.Error(t, err)
}
