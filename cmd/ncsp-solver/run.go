package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/realpaver-go/ncsp/env"
	"github.com/realpaver-go/ncsp/parser"
	"github.com/realpaver-go/ncsp/preprocess"
	"github.com/realpaver-go/ncsp/problem"
	"github.com/realpaver-go/ncsp/search"
	"github.com/realpaver-go/ncsp/solution"
)

// ExitCode mirrors §6's CLI exit code table.
type ExitCode int

const (
	ExitOK         ExitCode = 0
	ExitBadArgs    ExitCode = 1
	ExitParseError ExitCode = 2
	ExitInternal   ExitCode = 3
)

// RunError pairs a message with the exit code main.go should use,
// keeping Run itself free of os.Exit (§6 expansion: "the Run function
// returns a typed error so it stays testable").
type RunError struct {
	Code ExitCode
	Err  error
}

func (e *RunError) Error() string { return e.Err.Error() }
func (e *RunError) Unwrap() error { return e.Err }

// Run executes one ncsp-solver invocation: read problemFile (and
// paramFile, if non-empty), solve, and write the .sol report next to
// problemFile.
func Run(problemFile, paramFile string) error {
	src, err := os.ReadFile(problemFile)
	if err != nil {
		return &RunError{Code: ExitBadArgs, Err: fmt.Errorf("reading %s: %w", problemFile, err)}
	}

	cfg := env.DefaultConfig()
	if paramFile != "" {
		psrc, err := os.ReadFile(paramFile)
		if err != nil {
			return &RunError{Code: ExitBadArgs, Err: fmt.Errorf("reading %s: %w", paramFile, err)}
		}
		cfg, err = parser.ParseParams(string(psrc))
		if err != nil {
			return &RunError{Code: ExitParseError, Err: err}
		}
	}

	p, err := parser.ParseProblem(string(src), filepath.Base(problemFile), true)
	if err != nil {
		return &RunError{Code: ExitParseError, Err: err}
	}

	e := env.New(env.WithSeed(cfg.TaylorCornerSeed), env.WithLogLevel(cfg.LogLevel))

	rep, err := solve(p, cfg, e)
	if err != nil {
		return &RunError{Code: ExitInternal, Err: err}
	}

	outPath := strings.TrimSuffix(problemFile, filepath.Ext(problemFile)) + ".sol"
	f, err := os.Create(outPath)
	if err != nil {
		return &RunError{Code: ExitInternal, Err: err}
	}
	defer f.Close()
	if err := solution.Write(f, p, cfg, rep); err != nil {
		return &RunError{Code: ExitInternal, Err: err}
	}
	return nil
}

// solve runs the §4.9 preprocessing pass (if enabled) followed by the
// §4.7 branch-and-prune search, assembling the propagator/splitter/
// prover from cfg via engine.go.
func solve(p *problem.Problem, cfg env.Config, e *env.Env) (solution.Report, error) {
	var rep solution.Report
	working := p

	if cfg.Preprocessing {
		start := time.Now()
		result, ok := preprocess.Run(p)
		rep.Pre.Ran = true
		rep.Pre.Elapsed = time.Since(start)
		if !ok {
			rep.Pre.Empty = true
			return rep, nil
		}
		rep.Pre.Mapping = result.Mapping
		working = result.Problem
	}

	compiled := working.Compile()
	prop := buildPropagator(working, compiled, cfg, e)
	splitter := buildSplitter(cfg, working, compiled)
	prover := buildProver(compiled, working)

	ctx := context.Background()
	if cfg.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.TimeLimit)
		defer cancel()
	}

	rep.Search = search.Solve(working.InitialBox(), search.Options{
		Ctx:    ctx,
		Prop:   prop,
		Split:  splitter,
		Prove:  prover,
		Limits: limitsFromConfig(cfg),
	})
	return rep, nil
}
