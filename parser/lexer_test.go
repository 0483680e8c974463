package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func kinds(t *testing.T, toks []Token) []TokenKind {
	t.Helper()
	out := make([]TokenKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeVariablesLine(t *testing.T) {
	toks, err := Tokenize("Variables x in [-7, 3], n in {0..6};")
	require.NoError(t, err)
	require.Equal(t, TokKeyword, toks[0].Kind)
	require.Equal(t, "Variables", toks[0].Text)
	require.Equal(t, TokIdent, toks[1].Kind)
	require.Equal(t, TokRel, toks[2].Kind)
	require.Equal(t, "in", toks[2].Text)
	require.Equal(t, TokEOF, toks[len(toks)-1].Kind)
}

func TestTokenizeIntegerRangeSeparator(t *testing.T) {
	toks, err := Tokenize("{0..6}")
	require.NoError(t, err)
	var texts []string
	for _, tok := range toks {
		if tok.Kind != TokEOF {
			texts = append(texts, tok.Text)
		}
	}
	require.Equal(t, []string{"{", "0", "..", "6", "}"}, texts)
}

func TestTokenizeScientificNotation(t *testing.T) {
	toks, err := Tokenize("1.5e-3")
	require.NoError(t, err)
	require.Equal(t, TokNumber, toks[0].Kind)
	require.InDelta(t, 1.5e-3, toks[0].Num, 1e-18)
}

func TestTokenizeRelationalOperators(t *testing.T) {
	toks, err := Tokenize("a == b <= c >= d < e > f")
	require.NoError(t, err)
	var rels []string
	for _, tok := range toks {
		if tok.Kind == TokRel {
			rels = append(rels, tok.Text)
		}
	}
	require.Equal(t, []string{"==", "<=", ">=", "<", ">"}, rels)
}

func TestTokenizeCommentsAreSkipped(t *testing.T) {
	toks, err := Tokenize("x # a comment\n// another\ny")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{TokIdent, TokIdent, TokEOF}, kinds(t, toks))
}

func TestTokenizeRejectsUnknownCharacter(t *testing.T) {
	_, err := Tokenize("x $ y")
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, ErrLex, perr.Code)
}

func TestTokenizeMinMaxKeyword(t *testing.T) {
	toks, err := Tokenize("MIN f(x)")
	require.NoError(t, err)
	require.Equal(t, TokMinMax, toks[0].Kind)
}
