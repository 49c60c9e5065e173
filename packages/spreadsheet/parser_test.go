package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/sets"
)

// mapResolver resolves references from a fixed table
type mapResolver map[Address]int64

func (m mapResolver) ValueAt(addr Address) int64 {
	return m[addr]
}

func intTok(v string) Token  { return Token{Type: TokenInt, Value: v} }
func addrTok(v string) Token { return Token{Type: TokenAddr, Value: v} }
func opTok(tt TokenType) Token {
	return Token{Type: tt, Value: map[TokenType]string{
		TokenPlus: "+", TokenMinus: "-", TokenStar: "*", TokenSlash: "/",
		TokenLeftParen: "(", TokenRightParen: ")",
	}[tt]}
}

func evalNode(t *testing.T, node ASTNode, r ValueResolver) int64 {
	t.Helper()
	v, err := node.Eval(r)
	require.NoError(t, err)
	return v
}

func TestParserParseInt(t *testing.T) {
	p := NewParser([]Token{intTok("1234")})
	node, err := p.parseInt()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), evalNode(t, node, mapResolver{}))
}

func TestParserParseAddr(t *testing.T) {
	p := NewParser([]Token{addrTok("A1")})
	node, err := p.parseAddr()
	require.NoError(t, err)

	r := mapResolver{MustParseAddress("A1"): 1234}
	assert.Equal(t, int64(1234), evalNode(t, node, r))
	assert.Equal(t, sets.New(MustParseAddress("A1")), p.references)
}

func TestParserParseFactor(t *testing.T) {
	t.Run("Int", func(t *testing.T) {
		node, err := NewParser([]Token{intTok("1234")}).parseFactor()
		require.NoError(t, err)
		assert.Equal(t, int64(1234), evalNode(t, node, mapResolver{}))
	})

	t.Run("Addr", func(t *testing.T) {
		node, err := NewParser([]Token{addrTok("A1")}).parseFactor()
		require.NoError(t, err)
		assert.Equal(t, int64(1234), evalNode(t, node, mapResolver{MustParseAddress("A1"): 1234}))
	})

	t.Run("NegativeFactor", func(t *testing.T) {
		node, err := NewParser([]Token{opTok(TokenMinus), intTok("1234")}).parseFactor()
		require.NoError(t, err)
		assert.Equal(t, int64(-1234), evalNode(t, node, mapResolver{}))
	})

	t.Run("NestedExpr", func(t *testing.T) {
		node, err := NewParser([]Token{opTok(TokenLeftParen), intTok("2"), opTok(TokenRightParen)}).parseFactor()
		require.NoError(t, err)
		assert.Equal(t, int64(2), evalNode(t, node, mapResolver{}))
	})

	t.Run("MismatchedParentheses", func(t *testing.T) {
		_, err := NewParser([]Token{opTok(TokenLeftParen), intTok("2")}).parseFactor()
		assert.ErrorIs(t, err, ErrMismatchedParentheses)
	})

	t.Run("InvalidSyntax", func(t *testing.T) {
		_, err := NewParser([]Token{opTok(TokenStar)}).parseFactor()
		assert.ErrorIs(t, err, ErrInvalidSyntax)

		_, err = NewParser(nil).parseFactor()
		assert.ErrorIs(t, err, ErrInvalidSyntax)
	})
}

func TestParserParseTerm(t *testing.T) {
	node, err := NewParser([]Token{intTok("1234")}).parseTerm()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), evalNode(t, node, mapResolver{}))

	node, err = NewParser([]Token{
		intTok("6"), opTok(TokenStar), intTok("5"), opTok(TokenSlash), intTok("2"),
	}).parseTerm()
	require.NoError(t, err)
	assert.Equal(t, int64(15), evalNode(t, node, mapResolver{}))

	_, err = NewParser([]Token{intTok("1234"), opTok(TokenStar)}).parseTerm()
	assert.ErrorIs(t, err, ErrInvalidSyntax)
}

func TestParserParseExpr(t *testing.T) {
	node, err := NewParser([]Token{
		intTok("5"), opTok(TokenPlus), intTok("3"), opTok(TokenMinus), intTok("2"),
	}).parseExpr()
	require.NoError(t, err)
	assert.Equal(t, int64(6), evalNode(t, node, mapResolver{}))

	node, err = NewParser([]Token{
		opTok(TokenLeftParen), intTok("2"), opTok(TokenRightParen),
		opTok(TokenStar),
		opTok(TokenLeftParen), intTok("3"), opTok(TokenRightParen),
	}).parseExpr()
	require.NoError(t, err)
	assert.Equal(t, int64(6), evalNode(t, node, mapResolver{}))

	_, err = NewParser([]Token{intTok("1234"), opTok(TokenPlus)}).parseExpr()
	assert.ErrorIs(t, err, ErrInvalidSyntax)

	_, err = NewParser([]Token{opTok(TokenRightParen)}).parseExpr()
	assert.ErrorIs(t, err, ErrInvalidSyntax)
}

func TestParseFormulaEvaluation(t *testing.T) {
	r := mapResolver{
		MustParseAddress("A1"): 10,
		MustParseAddress("B2"): -3,
	}

	tests := []struct {
		content string
		want    int64
	}{
		{"2", 2},
		{"=2+3", 5},
		{"=6*5/2", 15},
		{"=-1234", -1234},
		{"=(2)*(3)", 6},
		{"=1+2*3", 7},
		{"=(1+2)*3", 9},
		{"=10-4-3", 3},
		{"=100/10/5", 2},
		{"=--5", 5},
		{"=-2*-3", 6},
		{"=7/2", 3},
		{"=-7/2", -4},
		{"=7/-2", -4},
		{"=-7/-2", 3},
		{"=-6/2", -3},
		{"=A1*B2", -30},
		{"=A1 + A1 + C9", 20},
		{"= ( A1 - 4 ) / B2", -2},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			node, _, err := ParseFormula(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, evalNode(t, node, r))
		})
	}
}

func TestParseFormulaReferences(t *testing.T) {
	_, refs, err := ParseFormula("=A1+B2*A1-(C3/A1)")
	require.NoError(t, err)
	assert.Equal(t, sets.New(
		MustParseAddress("A1"),
		MustParseAddress("B2"),
		MustParseAddress("C3"),
	), refs)

	_, refs, err = ParseFormula("42")
	require.NoError(t, err)
	assert.Equal(t, 0, refs.Len())
}

func TestParseFormulaErrors(t *testing.T) {
	tests := []struct {
		content string
		want    error
	}{
		{"", ErrInvalidSyntax},
		{"=", ErrInvalidSyntax},
		{"=1+", ErrInvalidSyntax},
		{"=*2", ErrInvalidSyntax},
		{"=1 2", ErrInvalidSyntax},
		{"=A1 B1", ErrInvalidSyntax},
		{"=(1+2", ErrMismatchedParentheses},
		{"=((1)", ErrMismatchedParentheses},
		{"=1)", ErrMismatchedParentheses},
		{"=)", ErrInvalidSyntax},
		{"=AOEU", ErrMalformedAddress},
		{"=AOEU+1", ErrMalformedAddress},
		{"=1$", ErrUnexpectedCharacter},
		{"=99999999999999999999", ErrInvalidSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			node, refs, err := ParseFormula(tt.content)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, node)
			assert.Nil(t, refs)
		})
	}
}

func TestParseFormulaErrorPosition(t *testing.T) {
	_, _, err := ParseFormula("=1+$")
	var formulaErr *FormulaError
	require.ErrorAs(t, err, &formulaErr)
	assert.Equal(t, 3, formulaErr.Pos)

	_, _, err = ParseFormula("1+$")
	require.ErrorAs(t, err, &formulaErr)
	assert.Equal(t, 2, formulaErr.Pos)
}

func TestParserDivisionByZero(t *testing.T) {
	node, _, err := ParseFormula("=10/(A1-A1)")
	require.NoError(t, err)

	_, err = node.Eval(mapResolver{MustParseAddress("A1"): 4})
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestASTToString(t *testing.T) {
	tests := map[string]string{
		"=1+2*3":   "(1+(2*3))",
		"=(1+2)*3": "((1+2)*3)",
		"=-A1/B2":  "(-A1/B2)",
		"7":        "7",
		"=--C3":    "--C3",
	}
	for content, want := range tests {
		node, _, err := ParseFormula(content)
		require.NoError(t, err)
		assert.Equal(t, want, node.ToString(), content)
	}
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, int64(3), floorDiv(6, 2))
	assert.Equal(t, int64(2), floorDiv(5, 2))
	assert.Equal(t, int64(-3), floorDiv(-5, 2))
	assert.Equal(t, int64(-3), floorDiv(5, -2))
	assert.Equal(t, int64(2), floorDiv(-5, -2))
	assert.Equal(t, int64(0), floorDiv(0, -7))
}
