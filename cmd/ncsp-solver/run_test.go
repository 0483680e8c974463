package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRunEndToEndProducesSolFile exercises the whole CLI pipeline
// (parse, preprocess, search, write) on a small circle/line problem,
// mirroring §8's intersection scenario.
func TestRunEndToEndProducesSolFile(t *testing.T) {
	dir := t.TempDir()
	problemPath := filepath.Join(dir, "circle.ncsp")
	src := `
Variables  x in [-2, 2], y in [-2, 2];
Constraints
   x * x + y * y == 1.0,
   y == x;
`
	require.NoError(t, os.WriteFile(problemPath, []byte(src), 0o644))

	require.NoError(t, Run(problemPath, ""))

	solPath := filepath.Join(dir, "circle.sol")
	data, err := os.ReadFile(solPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "NCSP SOLVER REPORT")
	require.Contains(t, string(data), "SOLVING")
}

func TestRunReportsBadArgsOnMissingFile(t *testing.T) {
	err := Run(filepath.Join(t.TempDir(), "does-not-exist.ncsp"), "")
	require.Error(t, err)
	var rerr *RunError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, ExitBadArgs, rerr.Code)
}

func TestRunReportsParseErrorOnBadProblem(t *testing.T) {
	dir := t.TempDir()
	problemPath := filepath.Join(dir, "bad.ncsp")
	require.NoError(t, os.WriteFile(problemPath, []byte("Variables x in [1, 0];"), 0o644))

	err := Run(problemPath, "")
	require.Error(t, err)
	var rerr *RunError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, ExitParseError, rerr.Code)
}

func TestRunWithParamFileAppliesLimits(t *testing.T) {
	dir := t.TempDir()
	problemPath := filepath.Join(dir, "p.ncsp")
	require.NoError(t, os.WriteFile(problemPath, []byte(`
Variables  x in [-1, 1], y in [-1, 1];
Constraints
   x * y == 0.5;
`), 0o644))
	paramPath := filepath.Join(dir, "p.par")
	require.NoError(t, os.WriteFile(paramPath, []byte("NODE_LIMIT = 50\nPREPROCESSING = NO\n"), 0o644))

	require.NoError(t, Run(problemPath, paramPath))
	data, err := os.ReadFile(filepath.Join(dir, "p.sol"))
	require.NoError(t, err)
	require.Contains(t, string(data), "NODE_LIMIT = 50")
}
