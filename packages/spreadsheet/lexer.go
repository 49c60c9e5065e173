package spreadsheet

import "fmt"

// TokenType represents the different kinds of tokens in a formula
type TokenType int

const (
	TokenInvalid TokenType = iota
	TokenInt
	TokenAddr
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenLeftParen
	TokenRightParen
)

var tokenTypeNames = map[TokenType]string{
	TokenInvalid:    "INVALID",
	TokenInt:        "INT",
	TokenAddr:       "ADDR",
	TokenPlus:       "PLUS",
	TokenMinus:      "MINUS",
	TokenStar:       "STAR",
	TokenSlash:      "SLASH",
	TokenLeftParen:  "LPAREN",
	TokenRightParen: "RPAREN",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// character classification constants. slightly easier to read.
const (
	charNull     = 0
	charTab      = '\t'
	charNewline  = '\n'
	charReturn   = '\r'
	charSpace    = ' '
	charLParen   = '('
	charRParen   = ')'
	charAsterisk = '*'
	charPlus     = '+'
	charMinus    = '-'
	charSlash    = '/'
	charEqual    = '='
)

// singleCharTokens maps operator and parenthesis characters to their tokens
var singleCharTokens = map[rune]TokenType{
	charPlus:     TokenPlus,
	charMinus:    TokenMinus,
	charAsterisk: TokenStar,
	charSlash:    TokenSlash,
	charLParen:   TokenLeftParen,
	charRParen:   TokenRightParen,
}

// Token represents a lexical token with position information
type Token struct {
	Type  TokenType
	Value string
	Pos   int // rune position in input
}

func (t Token) String() string {
	switch t.Type {
	case TokenInt, TokenAddr:
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	default:
		return t.Type.String()
	}
}

// Lexer tokenizes formula text. the leading '=' of a formula must already be
// stripped; a bare integer literal is tokenized the same way.
type Lexer struct {
	runes  []rune
	pos    int
	tokens []Token
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	return &Lexer{
		runes:  []rune(input),
		pos:    0,
		tokens: []Token{},
	}
}

// Tokenize tokenizes the entire input. it stops at the first error.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.runes) {
			break
		}

		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
	}

	return l.tokens, nil
}

// nextToken scans one token starting at the current, non-whitespace position
func (l *Lexer) nextToken() (Token, error) {
	startPos := l.pos
	ch := l.current()

	switch {
	case isDigit(ch):
		return l.scanInt(), nil
	case isUpper(ch):
		return l.scanAddr()
	}

	if tokenType, ok := singleCharTokens[ch]; ok {
		l.pos++
		return Token{Type: tokenType, Value: string(ch), Pos: startPos}, nil
	}

	return Token{}, NewFormulaError(ErrorCodeUnexpectedCharacter, startPos,
		fmt.Sprintf("unexpected character: %c", ch))
}

// scanInt scans a maximal run of digits
func (l *Lexer) scanInt() Token {
	startPos := l.pos
	for l.pos < len(l.runes) && isDigit(l.current()) {
		l.pos++
	}
	return Token{Type: TokenInt, Value: l.substring(startPos, l.pos), Pos: startPos}
}

// scanAddr scans uppercase column letters that must be followed by the row
// digits
func (l *Lexer) scanAddr() (Token, error) {
	startPos := l.pos
	for l.pos < len(l.runes) && isUpper(l.current()) {
		l.pos++
	}

	if !isDigit(l.current()) {
		return Token{}, NewFormulaError(ErrorCodeMalformedAddress, startPos,
			fmt.Sprintf("malformed address: %s", l.substring(startPos, l.pos)))
	}

	for l.pos < len(l.runes) && isDigit(l.current()) {
		l.pos++
	}

	return Token{Type: TokenAddr, Value: l.substring(startPos, l.pos), Pos: startPos}, nil
}

func (l *Lexer) substring(start, end int) string {
	if start < 0 || end > len(l.runes) || start > end {
		return ""
	}
	return string(l.runes[start:end])
}

func (l *Lexer) current() rune {
	if l.pos >= len(l.runes) {
		return charNull
	}
	return l.runes[l.pos]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.runes) {
		ch := l.current()
		if ch == charSpace || ch == charTab || ch == charNewline || ch == charReturn {
			l.pos++
		} else {
			break
		}
	}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isUpper(ch rune) bool {
	return ch >= 'A' && ch <= 'Z'
}
