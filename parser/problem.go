package parser

import (
	"fmt"

	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/problem"
	"github.com/realpaver-go/ncsp/term"
)

// funcDef is a user-defined Functions-section entry: its formal
// parameter names and the unparsed token stream of its body, replayed
// with a fresh environment (params bound to the call's actual
// argument Terms) at every call site — a function is a textual macro,
// not a DAG node of its own (§6: Functions section).
type funcDef struct {
	params []string
	body   []Token
}

// problemParser holds the token stream and the growing symbol
// environment (variables, constants, aliases all become term.Term
// once declared; functions stay as funcDef until called).
type problemParser struct {
	toks []Token
	pos  int

	pb  *problem.Builder
	tb  term.Builder
	env map[string]term.Term
	fns map[string]funcDef

	conIdx int
}

// ParseProblem parses a §6 problem-file source into a *problem.Problem.
// simplify controls the underlying term.Builder's simplification pass
// (§4.3); a parser-driven build normally wants it on. sourceName is
// recorded on the result for the solution writer's header echo and
// may be empty.
func ParseProblem(src, sourceName string, simplify bool) (*problem.Problem, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &problemParser{
		toks: toks,
		pb:   problem.NewBuilder(simplify),
		tb:   term.NewBuilder(simplify),
		env:  map[string]term.Term{},
		fns:  map[string]funcDef{},
	}
	if err := p.parseSections(); err != nil {
		return nil, err
	}
	p.pb.SetSource(sourceName)
	return p.pb.Build(), nil
}

func (p *problemParser) cur() Token  { return p.toks[p.pos] }
func (p *problemParser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *problemParser) expectPunct(s string) error {
	t := p.cur()
	if t.Kind != TokPunct || t.Text != s {
		return &Error{Pos: t.Pos, Code: ErrSyntax, Msg: fmt.Sprintf("expected %q, got %q", s, t.Text)}
	}
	p.advance()
	return nil
}

func (p *problemParser) parseSections() error {
	for p.cur().Kind != TokEOF {
		t := p.cur()
		if t.Kind != TokKeyword {
			return &Error{Pos: t.Pos, Code: ErrSyntax, Msg: "expected a section keyword"}
		}
		p.advance()
		var err error
		switch t.Text {
		case "Variables":
			err = p.parseVariables()
		case "Constants":
			err = p.parseConstants()
		case "Aliases":
			err = p.parseAliases()
		case "Functions":
			err = p.parseFunctions()
		case "Constraints":
			err = p.parseConstraints()
		case "Objective":
			err = p.parseObjective()
		default:
			err = &Error{Pos: t.Pos, Code: ErrSyntax, Msg: "unknown section " + t.Text}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// parseVariables parses "x in [-7,3], y in [-6,4], n in {0..6};".
func (p *problemParser) parseVariables() error {
	for {
		nameTok := p.cur()
		if nameTok.Kind != TokIdent {
			return &Error{Pos: nameTok.Pos, Code: ErrSyntax, Msg: "expected a variable name"}
		}
		p.advance()
		if p.cur().Kind != TokRel || p.cur().Text != "in" {
			return &Error{Pos: p.cur().Pos, Code: ErrSyntax, Msg: "expected 'in'"}
		}
		p.advance()
		dom, kind, err := p.parseDomain()
		if err != nil {
			return err
		}
		if dom.IsEmpty() {
			return &Error{Pos: nameTok.Pos, Code: ErrEmptyDomain, Msg: "variable " + nameTok.Text + " declared with empty domain"}
		}
		t, err := p.pb.NewVar(nameTok.Text, kind, dom, domain.DefaultTolerance)
		if err != nil {
			return &Error{Pos: nameTok.Pos, Code: ErrDuplicateName, Msg: err.Error()}
		}
		p.env[nameTok.Text] = t
		if !p.maybeComma() {
			break
		}
	}
	return p.expectPunct(";")
}

// parseDomain parses "[lo, hi]" (continuous interval), "{lo..hi}"
// (integer range), or "{v1, v2, ...}" (integer set).
func (p *problemParser) parseDomain() (domain.Domain, domain.Kind, error) {
	t := p.cur()
	switch {
	case t.Kind == TokPunct && t.Text == "[":
		p.advance()
		lo, err := p.parseSignedNumber()
		if err != nil {
			return domain.Domain{}, 0, err
		}
		if err := p.expectPunct(","); err != nil {
			return domain.Domain{}, 0, err
		}
		hi, err := p.parseSignedNumber()
		if err != nil {
			return domain.Domain{}, 0, err
		}
		if err := p.expectPunct("]"); err != nil {
			return domain.Domain{}, 0, err
		}
		return domain.NewInterval(interval.New(lo, hi)), domain.Continuous, nil
	case t.Kind == TokPunct && t.Text == "{":
		p.advance()
		first, err := p.parseSignedNumber()
		if err != nil {
			return domain.Domain{}, 0, err
		}
		if p.cur().Kind == TokPunct && p.cur().Text == ".." {
			p.advance()
			second, err := p.parseSignedNumber()
			if err != nil {
				return domain.Domain{}, 0, err
			}
			if err := p.expectPunct("}"); err != nil {
				return domain.Domain{}, 0, err
			}
			return domain.NewIntRange(int64(first), int64(second)), domain.Discrete, nil
		}
		vals := []int64{int64(first)}
		for p.cur().Kind == TokPunct && p.cur().Text == "," {
			p.advance()
			v, err := p.parseSignedNumber()
			if err != nil {
				return domain.Domain{}, 0, err
			}
			vals = append(vals, int64(v))
		}
		if err := p.expectPunct("}"); err != nil {
			return domain.Domain{}, 0, err
		}
		return domain.NewIntSet(vals...), domain.Discrete, nil
	default:
		return domain.Domain{}, 0, &Error{Pos: t.Pos, Code: ErrSyntax, Msg: "expected a domain literal"}
	}
}

func (p *problemParser) parseSignedNumber() (float64, error) {
	neg := false
	if p.cur().Kind == TokOp && p.cur().Text == "-" {
		neg = true
		p.advance()
	}
	t := p.cur()
	if t.Kind != TokNumber {
		return 0, &Error{Pos: t.Pos, Code: ErrSyntax, Msg: "expected a number"}
	}
	p.advance()
	if neg {
		return -t.Num, nil
	}
	return t.Num, nil
}

func (p *problemParser) maybeComma() bool {
	if p.cur().Kind == TokPunct && p.cur().Text == "," {
		p.advance()
		return true
	}
	return false
}

// parseConstants parses "pi = 3.14159..., e = 2.71828...;".
func (p *problemParser) parseConstants() error {
	for {
		nameTok := p.cur()
		if nameTok.Kind != TokIdent {
			return &Error{Pos: nameTok.Pos, Code: ErrSyntax, Msg: "expected a constant name"}
		}
		p.advance()
		if err := p.expectPunct("="); err != nil {
			return err
		}
		val, err := p.parseExpr()
		if err != nil {
			return err
		}
		p.env[nameTok.Text] = val
		if !p.maybeComma() {
			break
		}
	}
	return p.expectPunct(";")
}

// parseAliases parses "d = sqrt(sqr(x) + sqr(y)), ...;".
func (p *problemParser) parseAliases() error {
	return p.parseConstants() // identical grammar: name = expr, ...;
}

// parseFunctions parses "f(a, b) = sqr(a) + sqr(b), ...;", stashing
// each body's raw tokens for substitution at call sites.
func (p *problemParser) parseFunctions() error {
	for {
		nameTok := p.cur()
		if nameTok.Kind != TokIdent {
			return &Error{Pos: nameTok.Pos, Code: ErrSyntax, Msg: "expected a function name"}
		}
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return err
		}
		var params []string
		if !(p.cur().Kind == TokPunct && p.cur().Text == ")") {
			for {
				pt := p.cur()
				if pt.Kind != TokIdent {
					return &Error{Pos: pt.Pos, Code: ErrSyntax, Msg: "expected a parameter name"}
				}
				p.advance()
				params = append(params, pt.Text)
				if !p.maybeComma() {
					break
				}
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return err
		}
		if err := p.expectPunct("="); err != nil {
			return err
		}
		start := p.pos
		if err := p.skipExpr(); err != nil {
			return err
		}
		body := append([]Token(nil), p.toks[start:p.pos]...)
		p.fns[nameTok.Text] = funcDef{params: params, body: body}
		if !p.maybeComma() {
			break
		}
	}
	return p.expectPunct(";")
}

// skipExpr advances past one expression without building a Term,
// scanning tokens and tracking parenthesis depth until a top-level
// delimiter, so parseFunctions can
// capture a function body's raw token span for later substitution.
func (p *problemParser) skipExpr() error {
	depth := 0
	for {
		t := p.cur()
		if t.Kind == TokEOF {
			return &Error{Pos: t.Pos, Code: ErrSyntax, Msg: "unexpected end of input in expression"}
		}
		if t.Kind == TokPunct {
			switch t.Text {
			case "(":
				depth++
			case ")":
				if depth == 0 {
					return nil
				}
				depth--
			case ",", ";":
				if depth == 0 {
					return nil
				}
			}
		}
		if t.Kind == TokRel && depth == 0 {
			return nil
		}
		p.advance()
	}
}

// parseConstraints parses the comma-separated relation list.
func (p *problemParser) parseConstraints() error {
	for {
		if err := p.parseOneConstraint(); err != nil {
			return err
		}
		if !p.maybeComma() {
			break
		}
	}
	return p.expectPunct(";")
}

func (p *problemParser) parseOneConstraint() error {
	lhs, err := p.parseExpr()
	if err != nil {
		return err
	}
	relTok := p.cur()
	if relTok.Kind != TokRel {
		return &Error{Pos: relTok.Pos, Code: ErrSyntax, Msg: "expected a relational operator"}
	}
	p.advance()
	p.conIdx++
	name := fmt.Sprintf("c%d", p.conIdx)

	if relTok.Text == "in" {
		lo, hi, err := p.parseIntervalLiteral()
		if err != nil {
			return err
		}
		p.pb.AddInequality(name, lhs, lo, hi)
		return nil
	}

	rhs, err := p.parseExpr()
	if err != nil {
		return err
	}
	switch relTok.Text {
	case "==":
		p.pb.AddEquation(name, lhs, rhs)
	case "<=", "<":
		p.pb.AddConstraint(name, p.tb.Sub(lhs, rhs), interval.New(interval.Universe().Lo, 0))
	case ">=", ">":
		p.pb.AddConstraint(name, p.tb.Sub(lhs, rhs), interval.New(0, interval.Universe().Hi))
	default:
		return &Error{Pos: relTok.Pos, Code: ErrSyntax, Msg: "unsupported relation " + relTok.Text}
	}
	return nil
}

func (p *problemParser) parseIntervalLiteral() (float64, float64, error) {
	if err := p.expectPunct("["); err != nil {
		return 0, 0, err
	}
	lo, err := p.parseSignedNumber()
	if err != nil {
		return 0, 0, err
	}
	if err := p.expectPunct(","); err != nil {
		return 0, 0, err
	}
	hi, err := p.parseSignedNumber()
	if err != nil {
		return 0, 0, err
	}
	if err := p.expectPunct("]"); err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

// parseObjective parses "MIN f(x, y);" or "MAX f(x, y);".
func (p *problemParser) parseObjective() error {
	dirTok := p.cur()
	if dirTok.Kind != TokMinMax {
		return &Error{Pos: dirTok.Pos, Code: ErrSyntax, Msg: "expected MIN or MAX"}
	}
	p.advance()
	t, err := p.parseExpr()
	if err != nil {
		return err
	}
	p.pb.SetObjective(t, dirTok.Text == "MIN")
	return p.expectPunct(";")
}

// --- expression grammar: additive -> multiplicative -> unary -> power -> primary ---

func (p *problemParser) parseExpr() (term.Term, error) { return p.parseAdditive() }

func (p *problemParser) parseAdditive() (term.Term, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return term.Term{}, err
	}
	for p.cur().Kind == TokOp && (p.cur().Text == "+" || p.cur().Text == "-") {
		op := p.advance().Text
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return term.Term{}, err
		}
		if op == "+" {
			lhs = p.tb.Add(lhs, rhs)
		} else {
			lhs = p.tb.Sub(lhs, rhs)
		}
	}
	return lhs, nil
}

func (p *problemParser) parseMultiplicative() (term.Term, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return term.Term{}, err
	}
	for p.cur().Kind == TokOp && (p.cur().Text == "*" || p.cur().Text == "/") {
		op := p.advance().Text
		rhs, err := p.parseUnary()
		if err != nil {
			return term.Term{}, err
		}
		if op == "*" {
			lhs = p.tb.Mul(lhs, rhs)
		} else {
			lhs = p.tb.Div(lhs, rhs)
		}
	}
	return lhs, nil
}

func (p *problemParser) parseUnary() (term.Term, error) {
	if p.cur().Kind == TokOp && p.cur().Text == "-" {
		p.advance()
		t, err := p.parseUnary()
		if err != nil {
			return term.Term{}, err
		}
		return p.tb.Neg(t), nil
	}
	if p.cur().Kind == TokOp && p.cur().Text == "+" {
		p.advance()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *problemParser) parsePower() (term.Term, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return term.Term{}, err
	}
	if p.cur().Kind == TokOp && p.cur().Text == "^" {
		p.advance()
		expTok := p.cur()
		neg := false
		if expTok.Kind == TokOp && expTok.Text == "-" {
			neg = true
			p.advance()
			expTok = p.cur()
		}
		if expTok.Kind != TokNumber {
			return term.Term{}, &Error{Pos: expTok.Pos, Code: ErrSyntax, Msg: "expected an integer exponent"}
		}
		p.advance()
		n := int(expTok.Num)
		if neg {
			n = -n
		}
		return p.tb.Pow(base, n), nil
	}
	return base, nil
}

func (p *problemParser) parsePrimary() (term.Term, error) {
	t := p.cur()
	switch {
	case t.Kind == TokNumber:
		p.advance()
		return p.tb.Num(t.Num), nil
	case t.Kind == TokPunct && t.Text == "(":
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return term.Term{}, err
		}
		if err := p.expectPunct(")"); err != nil {
			return term.Term{}, err
		}
		return inner, nil
	case t.Kind == TokPunct && t.Text == "[":
		lo, hi, err := p.parseIntervalLiteral()
		if err != nil {
			return term.Term{}, err
		}
		return p.tb.Const(interval.New(lo, hi)), nil
	case t.Kind == TokIdent:
		p.advance()
		return p.resolveIdent(t)
	default:
		return term.Term{}, &Error{Pos: t.Pos, Code: ErrSyntax, Msg: "unexpected token " + t.Text}
	}
}

// resolveIdent handles a bare name (variable/constant/alias lookup) or
// a call `name(args...)` (builtin function or a Functions-section
// macro expansion).
func (p *problemParser) resolveIdent(nameTok Token) (term.Term, error) {
	if !(p.cur().Kind == TokPunct && p.cur().Text == "(") {
		v, ok := p.env[nameTok.Text]
		if !ok {
			return term.Term{}, &Error{Pos: nameTok.Pos, Code: ErrUnknownName, Msg: "unknown name " + nameTok.Text}
		}
		return v, nil
	}

	p.advance() // consume '('
	var args []term.Term
	if !(p.cur().Kind == TokPunct && p.cur().Text == ")") {
		for {
			a, err := p.parseExpr()
			if err != nil {
				return term.Term{}, err
			}
			args = append(args, a)
			if !p.maybeComma() {
				break
			}
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return term.Term{}, err
	}

	if t, err, ok := p.builtinCall(nameTok, args); ok {
		return t, err
	}
	fn, ok := p.fns[nameTok.Text]
	if !ok {
		return term.Term{}, &Error{Pos: nameTok.Pos, Code: ErrUnknownName, Msg: "unknown function " + nameTok.Text}
	}
	if len(args) != len(fn.params) {
		return term.Term{}, &Error{Pos: nameTok.Pos, Code: ErrSyntax, Msg: fmt.Sprintf("%s expects %d arguments, got %d", nameTok.Text, len(fn.params), len(args))}
	}
	return p.expandCall(fn, args)
}

// expandCall replays fn.body's token stream with a fresh parser whose
// environment extends the caller's with fn's parameters bound to args
// (a textual macro expansion, §6 Functions section).
func (p *problemParser) expandCall(fn funcDef, args []term.Term) (term.Term, error) {
	sub := &problemParser{
		toks: append(append([]Token(nil), fn.body...), Token{Kind: TokEOF}),
		pb:   p.pb,
		tb:   p.tb,
		env:  map[string]term.Term{},
		fns:  p.fns,
	}
	for k, v := range p.env {
		sub.env[k] = v
	}
	for i, name := range fn.params {
		sub.env[name] = args[i]
	}
	return sub.parseExpr()
}

// builtinCall dispatches the fixed-arity builtin functions of §1
// (`sqrt sqr abs sgn exp log sin cos tan min max pow`). ok is false
// when name is not a builtin, so the caller falls through to a
// Functions-section lookup.
func (p *problemParser) builtinCall(nameTok Token, args []term.Term) (term.Term, error, bool) {
	arity1 := func(f func(term.Term) term.Term) (term.Term, error, bool) {
		if len(args) != 1 {
			return term.Term{}, &Error{Pos: nameTok.Pos, Code: ErrSyntax, Msg: nameTok.Text + " expects 1 argument"}, true
		}
		return f(args[0]), nil, true
	}
	arity2 := func(f func(a, b term.Term) term.Term) (term.Term, error, bool) {
		if len(args) != 2 {
			return term.Term{}, &Error{Pos: nameTok.Pos, Code: ErrSyntax, Msg: nameTok.Text + " expects 2 arguments"}, true
		}
		return f(args[0], args[1]), nil, true
	}
	switch nameTok.Text {
	case "sqrt":
		return arity1(p.tb.Sqrt)
	case "sqr":
		return arity1(p.tb.Sqr)
	case "abs":
		return arity1(p.tb.Abs)
	case "sgn":
		return arity1(p.tb.Sgn)
	case "exp":
		return arity1(p.tb.Exp)
	case "log":
		return arity1(p.tb.Log)
	case "sin":
		return arity1(p.tb.Sin)
	case "cos":
		return arity1(p.tb.Cos)
	case "tan":
		return arity1(p.tb.Tan)
	case "min":
		return arity2(p.tb.Min)
	case "max":
		return arity2(p.tb.Max)
	case "pow":
		if len(args) != 2 {
			return term.Term{}, &Error{Pos: nameTok.Pos, Code: ErrSyntax, Msg: "pow expects 2 arguments"}, true
		}
		if !args[1].IsConstant() {
			return term.Term{}, &Error{Pos: nameTok.Pos, Code: ErrSyntax, Msg: "pow's exponent must be a constant"}, true
		}
		return p.tb.Pow(args[0], int(args[1].ConstValue().Mid())), nil, true
	}
	return term.Term{}, nil, false
}
