package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// BinaryOp represents binary operators in AST nodes
type BinaryOp int

const (
	BinOpAdd BinaryOp = iota
	BinOpSubtract
	BinOpMultiply
	BinOpDivide
)

// UnaryOp represents unary operators in AST nodes
type UnaryOp int

const (
	UnaryOpMinus UnaryOp = iota
)

type NodePosition struct {
	Start int
	End   int
}

// ValueResolver supplies the current value of a referenced cell while an
// expression is evaluated.
type ValueResolver interface {
	ValueAt(addr Address) int64
}

// ASTNode is a parsed formula. it is built once per SetContents call and
// re-evaluated, never rebuilt, on every recomputation.
type ASTNode interface {
	Eval(r ValueResolver) (int64, error)
	GetPosition() NodePosition
	ToString() string
}

// NumberNode represents an integer literal
type NumberNode struct {
	Value    int64
	Position NodePosition
}

func (n *NumberNode) Eval(r ValueResolver) (int64, error) {
	return n.Value, nil
}

func (n *NumberNode) GetPosition() NodePosition {
	return n.Position
}

func (n *NumberNode) ToString() string {
	return strconv.FormatInt(n.Value, 10)
}

// CellRefNode represents a reference to another cell
type CellRefNode struct {
	Address  Address
	Position NodePosition
}

func (n *CellRefNode) Eval(r ValueResolver) (int64, error) {
	return r.ValueAt(n.Address), nil
}

func (n *CellRefNode) GetPosition() NodePosition {
	return n.Position
}

func (n *CellRefNode) ToString() string {
	return n.Address.String()
}

// UnaryOpNode represents a unary operation
type UnaryOpNode struct {
	Op       UnaryOp
	Operand  ASTNode
	Position NodePosition
}

func (n *UnaryOpNode) Eval(r ValueResolver) (int64, error) {
	val, err := n.Operand.Eval(r)
	if err != nil {
		return 0, err
	}

	switch n.Op {
	case UnaryOpMinus:
		return -val, nil
	default:
		return 0, fmt.Errorf("unknown unary operator %d", n.Op)
	}
}

func (n *UnaryOpNode) GetPosition() NodePosition {
	return n.Position
}

func (n *UnaryOpNode) ToString() string {
	return "-" + n.Operand.ToString()
}

// BinaryOpNode represents a binary operation
type BinaryOpNode struct {
	Op       BinaryOp
	Left     ASTNode
	Right    ASTNode
	Position NodePosition
}

func (n *BinaryOpNode) Eval(r ValueResolver) (int64, error) {
	leftVal, err := n.Left.Eval(r)
	if err != nil {
		return 0, err
	}
	rightVal, err := n.Right.Eval(r)
	if err != nil {
		return 0, err
	}

	switch n.Op {
	case BinOpAdd:
		return leftVal + rightVal, nil
	case BinOpSubtract:
		return leftVal - rightVal, nil
	case BinOpMultiply:
		return leftVal * rightVal, nil
	case BinOpDivide:
		if rightVal == 0 {
			return 0, NewFormulaError(ErrorCodeDivisionByZero, n.Right.GetPosition().Start,
				fmt.Sprintf("division by zero: %s", n.ToString()))
		}
		return floorDiv(leftVal, rightVal), nil
	default:
		return 0, fmt.Errorf("unknown binary operator %d", n.Op)
	}
}

func (n *BinaryOpNode) GetPosition() NodePosition {
	return n.Position
}

func (n *BinaryOpNode) ToString() string {
	opStr := ""
	switch n.Op {
	case BinOpAdd:
		opStr = "+"
	case BinOpSubtract:
		opStr = "-"
	case BinOpMultiply:
		opStr = "*"
	case BinOpDivide:
		opStr = "/"
	}
	return fmt.Sprintf("(%s%s%s)", n.Left.ToString(), opStr, n.Right.ToString())
}

// floorDiv divides rounding toward negative infinity
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// zeroExpression is installed on cells that have never been given contents
// or were cleared
func zeroExpression() ASTNode {
	return &NumberNode{Value: 0}
}

// Parser is a recursive-descent parser over a token slice. the cursor only
// moves forward.
//
//	expr   := term (('+' | '-') term)*
//	term   := factor (('*' | '/') factor)*
//	factor := INT | ADDR | '-' factor | '(' expr ')'
type Parser struct {
	tokens     []Token
	pos        int
	references sets.Set[Address]
}

// NewParser creates a new parser with the given tokens
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens:     tokens,
		pos:        0,
		references: sets.New[Address](),
	}
}

// Parse parses the full token slice and returns the expression together with
// the distinct addresses it references
func (p *Parser) Parse() (ASTNode, sets.Set[Address], error) {
	node, err := p.parseExpr()
	if err != nil {
		return nil, nil, err
	}

	// ensure we've consumed all tokens
	if p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		if tok.Type == TokenRightParen {
			return nil, nil, NewFormulaError(ErrorCodeMismatchedParentheses, tok.Pos,
				fmt.Sprintf("mismatched parentheses: unexpected ')' at %d", tok.Pos))
		}
		return nil, nil, NewFormulaError(ErrorCodeInvalidSyntax, tok.Pos,
			fmt.Sprintf("invalid syntax: unexpected token after expression: %s", tok.Value))
	}

	return node, p.references, nil
}

// parseExpr handles addition and subtraction
func (p *Parser) parseExpr() (ASTNode, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.pos < len(p.tokens) {
		var op BinaryOp
		switch p.tokens[p.pos].Type {
		case TokenPlus:
			op = BinOpAdd
		case TokenMinus:
			op = BinOpSubtract
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		left = &BinaryOpNode{
			Op:       op,
			Left:     left,
			Right:    right,
			Position: NodePosition{Start: left.GetPosition().Start, End: right.GetPosition().End},
		}
	}

	return left, nil
}

// parseTerm handles multiplication and division
func (p *Parser) parseTerm() (ASTNode, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.pos < len(p.tokens) {
		var op BinaryOp
		switch p.tokens[p.pos].Type {
		case TokenStar:
			op = BinOpMultiply
		case TokenSlash:
			op = BinOpDivide
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}

		left = &BinaryOpNode{
			Op:       op,
			Left:     left,
			Right:    right,
			Position: NodePosition{Start: left.GetPosition().Start, End: right.GetPosition().End},
		}
	}

	return left, nil
}

// parseFactor handles literals, references, negation and parentheses
func (p *Parser) parseFactor() (ASTNode, error) {
	if p.pos >= len(p.tokens) {
		return nil, NewFormulaError(ErrorCodeInvalidSyntax, p.endPos(),
			"invalid syntax: unexpected end of expression")
	}

	tok := p.tokens[p.pos]

	switch tok.Type {
	case TokenInt:
		return p.parseInt()

	case TokenAddr:
		return p.parseAddr()

	case TokenMinus:
		p.pos++
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &UnaryOpNode{
			Op:       UnaryOpMinus,
			Operand:  operand,
			Position: NodePosition{Start: tok.Pos, End: operand.GetPosition().End},
		}, nil

	case TokenLeftParen:
		p.pos++
		node, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if p.pos >= len(p.tokens) || p.tokens[p.pos].Type != TokenRightParen {
			return nil, NewFormulaError(ErrorCodeMismatchedParentheses, tok.Pos,
				fmt.Sprintf("mismatched parentheses: '(' at %d is never closed", tok.Pos))
		}
		p.pos++

		return node, nil

	default:
		return nil, NewFormulaError(ErrorCodeInvalidSyntax, tok.Pos,
			fmt.Sprintf("invalid syntax: unexpected token: %s", tok.Value))
	}
}

// parseInt consumes an INT token
func (p *Parser) parseInt() (ASTNode, error) {
	tok := p.tokens[p.pos]
	p.pos++

	val, err := strconv.ParseInt(tok.Value, 10, 64)
	if err != nil {
		return nil, NewFormulaError(ErrorCodeInvalidSyntax, tok.Pos,
			fmt.Sprintf("invalid syntax: integer out of range: %s", tok.Value))
	}

	return &NumberNode{
		Value:    val,
		Position: NodePosition{Start: tok.Pos, End: tok.Pos + len(tok.Value)},
	}, nil
}

// parseAddr consumes an ADDR token and records the reference
func (p *Parser) parseAddr() (ASTNode, error) {
	tok := p.tokens[p.pos]
	p.pos++

	addr, err := ParseAddress(tok.Value)
	if err != nil {
		return nil, NewFormulaError(ErrorCodeMalformedAddress, tok.Pos, err.Error())
	}
	p.references.Insert(addr)

	return &CellRefNode{
		Address:  addr,
		Position: NodePosition{Start: tok.Pos, End: tok.Pos + len(tok.Value)},
	}, nil
}

// endPos is the position just past the last token
func (p *Parser) endPos() int {
	if len(p.tokens) == 0 {
		return 0
	}
	last := p.tokens[len(p.tokens)-1]
	return last.Pos + len(last.Value)
}

// ParseFormula strips a leading '=' from content, tokenizes and parses it
func ParseFormula(content string) (ASTNode, sets.Set[Address], error) {
	text, isFormula := strings.CutPrefix(content, string(charEqual))

	tokens, err := NewLexer(text).Tokenize()
	if err != nil {
		return nil, nil, shiftPosition(err, isFormula)
	}

	node, refs, err := NewParser(tokens).Parse()
	if err != nil {
		return nil, nil, shiftPosition(err, isFormula)
	}

	return node, refs, nil
}

// shiftPosition makes error positions relative to the content as given,
// including the stripped '='
func shiftPosition(err error, shifted bool) error {
	if formulaErr, ok := err.(*FormulaError); ok && shifted && formulaErr.Pos >= 0 {
		formulaErr.Pos++
	}
	return err
}
