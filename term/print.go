package term

import (
	"fmt"
	"strings"
)

// String renders t as an s-expression-like text form, good enough for
// debugging and test failure messages; it is not a parser round-trip
// format (see package parser for that).
func (t Term) String() string {
	var sb strings.Builder
	writeNode(&sb, t.n)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *node) {
	switch n.op {
	case OpConst:
		fmt.Fprintf(sb, "%s", n.value.String())
	case OpVar:
		fmt.Fprintf(sb, "x%d", n.varID)
	case OpLin:
		sb.WriteString("(lin ")
		fmt.Fprintf(sb, "%s", n.cst.String())
		for _, it := range n.items {
			fmt.Fprintf(sb, " + %s*x%d", it.coef.String(), it.varID)
		}
		sb.WriteString(")")
	case OpPow:
		sb.WriteString("(pow ")
		writeNode(sb, n.children[0])
		fmt.Fprintf(sb, " %d)", n.n)
	default:
		fmt.Fprintf(sb, "(%s", n.op.String())
		for _, c := range n.children {
			sb.WriteString(" ")
			writeNode(sb, c)
		}
		sb.WriteString(")")
	}
}
