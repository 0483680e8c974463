package solution

import (
	"strings"
	"testing"
	"time"

	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/env"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/problem"
	"github.com/realpaver-go/ncsp/search"
	"github.com/stretchr/testify/require"
)

func sampleProblem(t *testing.T) *problem.Problem {
	t.Helper()
	b := problem.NewBuilder(true)
	x, err := b.NewVar("x", domain.Continuous, domain.NewInterval(interval.New(-1, 1)), domain.DefaultTolerance)
	require.NoError(t, err)
	b.AddInequality("c1", x, -1, 1)
	b.SetSource("demo.ncsp")
	return b.Build()
}

func TestWriteProducesAllSections(t *testing.T) {
	p := sampleProblem(t)
	cfg := env.DefaultConfig()

	node := &search.Node{Box: p.InitialBox(), Cert: cert.Inner}
	rep := Report{
		Pre: PreprocessReport{Ran: true, Elapsed: time.Millisecond},
		Search: search.Result{
			Solutions: []*search.Node{node},
			Elapsed:   time.Millisecond,
			Nodes:     1,
		},
	}

	var sb strings.Builder
	require.NoError(t, Write(&sb, p, cfg, rep))
	out := sb.String()

	require.Contains(t, out, "NCSP SOLVER REPORT")
	require.Contains(t, out, "demo.ncsp")
	require.Contains(t, out, "PREPROCESSING")
	require.Contains(t, out, "SOLVING")
	require.Contains(t, out, "SOLUTION 1")
	require.Contains(t, out, "inner")
	require.Contains(t, out, "INPUT PROBLEM")
	require.Contains(t, out, "PARAMETERS")
}

func TestWriteReportsUnfeasibleFromPreprocessing(t *testing.T) {
	p := sampleProblem(t)
	cfg := env.DefaultConfig()
	rep := Report{Pre: PreprocessReport{Ran: true, Empty: true}}

	var sb strings.Builder
	require.NoError(t, Write(&sb, p, cfg, rep))
	require.Contains(t, sb.String(), "proved unfeasible")
}

func TestWritePendingHullBlock(t *testing.T) {
	p := sampleProblem(t)
	cfg := env.DefaultConfig()
	pending := &search.Node{Box: p.InitialBox(), Cert: cert.Maybe}
	rep := Report{
		Search: search.Result{Pending: []*search.Node{pending}, Partial: true},
	}

	var sb strings.Builder
	require.NoError(t, Write(&sb, p, cfg, rep))
	require.Contains(t, sb.String(), "HULL OF PENDING NODES")
	require.Contains(t, sb.String(), "partial")
}

func TestSolveStatusNoSolutionFound(t *testing.T) {
	rep := Report{Search: search.Result{}}
	require.Equal(t, "no solution found", solveStatus(rep))
}
