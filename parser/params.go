package parser

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/realpaver-go/ncsp/env"
)

// ParseParams parses a §6 parameter-file source ("key = value" lines,
// "#" line comments) into an env.Config seeded from env.DefaultConfig,
// so an omitted key keeps its documented default.
func ParseParams(src string) (env.Config, error) {
	cfg := env.DefaultConfig()
	sc := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return cfg, &Error{Pos: Pos{Line: lineNo, Col: 1}, Code: ErrSyntax, Msg: "expected key = value"}
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		if err := applyParam(&cfg, key, val, lineNo); err != nil {
			return cfg, err
		}
	}
	if err := sc.Err(); err != nil {
		return cfg, &Error{Pos: Pos{Line: lineNo, Col: 1}, Code: ErrSyntax, Msg: err.Error()}
	}
	return cfg, nil
}

func applyParam(cfg *env.Config, key, val string, line int) error {
	perr := func(msg string) error {
		return &Error{Pos: Pos{Line: line, Col: 1}, Code: ErrSyntax, Msg: msg}
	}
	switch key {
	case "LOG_LEVEL":
		switch val {
		case "none":
			cfg.LogLevel = env.LogNone
		case "main":
			cfg.LogLevel = env.LogMain
		case "inter":
			cfg.LogLevel = env.LogInter
		case "low":
			cfg.LogLevel = env.LogLow
		case "full":
			cfg.LogLevel = env.LogFull
		default:
			return perr("unknown LOG_LEVEL " + val)
		}
	case "TIME_LIMIT":
		secs, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return perr("invalid TIME_LIMIT " + val)
		}
		cfg.TimeLimit = time.Duration(secs * float64(time.Second))
	case "NODE_LIMIT":
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return perr("invalid NODE_LIMIT " + val)
		}
		cfg.NodeLimit = n
	case "SOLUTION_LIMIT":
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return perr("invalid SOLUTION_LIMIT " + val)
		}
		cfg.SolutionLimit = n
	case "DEPTH_LIMIT":
		n, err := strconv.Atoi(val)
		if err != nil {
			return perr("invalid DEPTH_LIMIT " + val)
		}
		cfg.DepthLimit = n
	case "PREPROCESSING":
		switch val {
		case "YES":
			cfg.Preprocessing = true
		case "NO":
			cfg.Preprocessing = false
		default:
			return perr("PREPROCESSING must be YES or NO")
		}
	case "PROPAGATOR":
		var props []env.PropagatorName
		for _, tok := range strings.Split(val, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			switch env.PropagatorName(tok) {
			case env.PropHC4, env.PropBC4, env.PropACID, env.PropPolytope, env.PropNewton:
				props = append(props, env.PropagatorName(tok))
			default:
				return perr("unknown PROPAGATOR entry " + tok)
			}
		}
		if len(props) == 0 {
			return perr("PROPAGATOR list is empty")
		}
		cfg.Propagators = props
	case "SPLIT_STRATEGY":
		switch env.SplitStrategy(val) {
		case env.SplitLargestWidth, env.SplitRoundRobin, env.SplitSmear:
			cfg.SplitStrategy = env.SplitStrategy(val)
		default:
			return perr("unknown SPLIT_STRATEGY " + val)
		}
	case "SPLIT_TOL_ABS":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return perr("invalid SPLIT_TOL_ABS " + val)
		}
		cfg.SplitTolAbs = f
	case "SPLIT_TOL_REL":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return perr("invalid SPLIT_TOL_REL " + val)
		}
		cfg.SplitTolRel = f
	case "POLYTOPE_STYLE":
		switch env.PolytopeStyle(val) {
		case env.PolytopeRLT, env.PolytopeTaylor, env.PolytopeAffine:
			cfg.PolytopeStyle = env.PolytopeStyle(val)
		default:
			return perr("unknown POLYTOPE_STYLE " + val)
		}
	case "TAYLOR_CORNER_SEED":
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return perr("invalid TAYLOR_CORNER_SEED " + val)
		}
		cfg.TaylorCornerSeed = n
	case "DISPLAY_REGION":
		switch env.DisplayRegion(val) {
		case env.DisplayStd, env.DisplayVec:
			cfg.DisplayRegion = env.DisplayRegion(val)
		default:
			return perr("unknown DISPLAY_REGION " + val)
		}
	case "FLOAT_PRECISION":
		n, err := strconv.Atoi(val)
		if err != nil {
			return perr("invalid FLOAT_PRECISION " + val)
		}
		cfg.FloatPrecision = n
	default:
		return perr(fmt.Sprintf("unrecognised parameter key %q", key))
	}
	return nil
}
