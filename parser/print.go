package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/interval"
	"github.com/realpaver-go/ncsp/problem"
	"github.com/realpaver-go/ncsp/term"
)

// PrintProblem renders p back into the problem-file grammar ParseProblem
// reads, fully parenthesised so no precedence information is lost.
// Constants, aliases, and Functions-section macros were inlined at
// parse time and do not reappear; re-parsing the output yields the same
// Problem (the §8 round-trip property, checked in print_test.go).
func PrintProblem(p *problem.Problem) string {
	var sb strings.Builder
	names := make(map[int]string, p.Scope.Len())
	for _, v := range p.Scope.Vars() {
		names[v.ID] = v.Name
	}

	sb.WriteString("Variables  ")
	for i, v := range p.Scope.Vars() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.Name)
		sb.WriteString(" in ")
		sb.WriteString(domainText(v.Initial))
	}
	sb.WriteString(";\n")

	if len(p.Constraints) > 0 {
		sb.WriteString("Constraints\n")
		for i, c := range p.Constraints {
			sb.WriteString("   ")
			writeInfix(&sb, c.Term, names)
			sb.WriteString(relationText(c.Image))
			if i < len(p.Constraints)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(";\n")
	}

	if p.Objective != nil {
		dir := "MAX"
		if p.Objective.Minimize {
			dir = "MIN"
		}
		sb.WriteString("Objective  ")
		sb.WriteString(dir)
		sb.WriteString(" ")
		writeInfix(&sb, p.Objective.Term, names)
		sb.WriteString(";\n")
	}
	return sb.String()
}

func domainText(d domain.Domain) string {
	switch d.Kind() {
	case domain.KindIntRange:
		h := d.Hull()
		return fmt.Sprintf("{%d..%d}", int64(h.Lo), int64(h.Hi))
	case domain.KindIntSet:
		vals, _ := d.IntValues()
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = strconv.FormatInt(v, 10)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		h := d.Hull()
		return "[" + num(h.Lo) + ", " + num(h.Hi) + "]"
	}
}

// relationText picks the relation that reconstructs the given image
// when re-parsed: an equation for a point image, a one-sided relation
// for a half-line, a membership literal otherwise.
func relationText(image interval.Interval) string {
	switch {
	case image.IsDegenerate():
		return " == " + num(image.Lo)
	case image.Lo == interval.Universe().Lo:
		return " <= " + num(image.Hi)
	case image.Hi == interval.Universe().Hi:
		return " >= " + num(image.Lo)
	default:
		return " in [" + num(image.Lo) + ", " + num(image.Hi) + "]"
	}
}

// num renders x losslessly (shortest decimal that parses back to the
// same float64).
func num(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

func constText(x interval.Interval) string {
	if x.IsDegenerate() {
		return num(x.Lo)
	}
	return "[" + num(x.Lo) + ", " + num(x.Hi) + "]"
}

func writeInfix(sb *strings.Builder, t term.Term, names map[int]string) {
	switch t.Op() {
	case term.OpConst:
		sb.WriteString(constText(t.ConstValue()))
	case term.OpVar:
		sb.WriteString(names[t.VarID()])
	case term.OpLin:
		sb.WriteString("(")
		sb.WriteString(constText(t.LinConst()))
		for i := 0; i < t.LinLen(); i++ {
			sb.WriteString(" + ")
			sb.WriteString(constText(t.LinCoef(i)))
			sb.WriteString("*")
			sb.WriteString(names[t.LinVarID(i)])
		}
		sb.WriteString(")")
	case term.OpAdd, term.OpSub, term.OpMul, term.OpDiv:
		sb.WriteString("(")
		writeInfix(sb, t.Child(0), names)
		sb.WriteString(" " + binOpText(t.Op()) + " ")
		writeInfix(sb, t.Child(1), names)
		sb.WriteString(")")
	case term.OpUsb:
		sb.WriteString("-(")
		writeInfix(sb, t.Child(0), names)
		sb.WriteString(")")
	case term.OpPow:
		sb.WriteString("(")
		writeInfix(sb, t.Child(0), names)
		sb.WriteString(")^")
		sb.WriteString(strconv.Itoa(t.Exponent()))
	case term.OpMin, term.OpMax:
		name := "min"
		if t.Op() == term.OpMax {
			name = "max"
		}
		sb.WriteString(name + "(")
		writeInfix(sb, t.Child(0), names)
		sb.WriteString(", ")
		writeInfix(sb, t.Child(1), names)
		sb.WriteString(")")
	default:
		sb.WriteString(funcName(t.Op()) + "(")
		writeInfix(sb, t.Child(0), names)
		sb.WriteString(")")
	}
}

func binOpText(o term.Op) string {
	switch o {
	case term.OpAdd:
		return "+"
	case term.OpSub:
		return "-"
	case term.OpMul:
		return "*"
	default:
		return "/"
	}
}

func funcName(o term.Op) string {
	switch o {
	case term.OpAbs:
		return "abs"
	case term.OpSgn:
		return "sgn"
	case term.OpSqr:
		return "sqr"
	case term.OpSqrt:
		return "sqrt"
	case term.OpExp:
		return "exp"
	case term.OpLog:
		return "log"
	case term.OpCos:
		return "cos"
	case term.OpSin:
		return "sin"
	case term.OpTan:
		return "tan"
	default:
		panic("parser: funcName: unhandled operator")
	}
}
