package spreadsheet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies the kind of failure raised while tokenizing, parsing
// or recomputing a cell
type ErrorCode uint8

const (
	ErrorCodeMalformedAddress      ErrorCode = 1 // letters not followed by a row number
	ErrorCodeUnexpectedCharacter   ErrorCode = 2 // character outside the formula alphabet
	ErrorCodeInvalidSyntax         ErrorCode = 3 // no valid factor, or input ended early
	ErrorCodeMismatchedParentheses ErrorCode = 4 // '(' without ')' or a stray ')'
	ErrorCodeCyclicReference       ErrorCode = 5 // dependency graph has a cycle
	ErrorCodeDivisionByZero        ErrorCode = 6 // integer division by zero
)

// ErrorMapper maps error codes to their default messages
var ErrorMapper = map[ErrorCode]string{
	ErrorCodeMalformedAddress:      "malformed address",
	ErrorCodeUnexpectedCharacter:   "unexpected character",
	ErrorCodeInvalidSyntax:         "invalid syntax",
	ErrorCodeMismatchedParentheses: "mismatched parentheses",
	ErrorCodeCyclicReference:       "cyclic reference detected",
	ErrorCodeDivisionByZero:        "division by zero",
}

func (c ErrorCode) String() string {
	if s, ok := ErrorMapper[c]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", uint8(c))
}

var (
	ErrMalformedAddress      = &FormulaError{ErrorCode: ErrorCodeMalformedAddress}
	ErrUnexpectedCharacter   = &FormulaError{ErrorCode: ErrorCodeUnexpectedCharacter}
	ErrInvalidSyntax         = &FormulaError{ErrorCode: ErrorCodeInvalidSyntax}
	ErrMismatchedParentheses = &FormulaError{ErrorCode: ErrorCodeMismatchedParentheses}
	ErrCyclicReference       = &FormulaError{ErrorCode: ErrorCodeCyclicReference}
	ErrDivisionByZero        = &FormulaError{ErrorCode: ErrorCodeDivisionByZero}
)

// FormulaError is returned for every failure the engine reports. Pos is the
// rune offset into the formula text, or -1 when it does not apply.
type FormulaError struct {
	ErrorCode ErrorCode
	Message   string
	Pos       int
}

func (e *FormulaError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorCode.String()
}

// Is reports whether target is a FormulaError with the same code, so callers
// can match on the Err* sentinels with errors.Is.
func (e *FormulaError) Is(target error) bool {
	t, ok := target.(*FormulaError)
	if !ok {
		return false
	}
	return t.ErrorCode == e.ErrorCode
}

func NewFormulaError(code ErrorCode, pos int, message string) *FormulaError {
	if message == "" {
		message = code.String()
	}
	return &FormulaError{
		ErrorCode: code,
		Message:   message,
		Pos:       pos,
	}
}

// CycleError reports the cells that could not be placed in a topological
// order because they sit on, or behind, a dependency cycle.
type CycleError struct {
	Cells []Address
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.Cells))
	for i, addr := range e.Cells {
		names[i] = addr.String()
	}
	return fmt.Sprintf("%s: %s", ErrorCodeCyclicReference, strings.Join(names, ", "))
}

func (e *CycleError) Is(target error) bool {
	t, ok := target.(*FormulaError)
	return ok && t.ErrorCode == ErrorCodeCyclicReference
}

// AsCycleError returns the CycleError wrapped in err, or nil.
func AsCycleError(err error) *CycleError {
	var cycleErr *CycleError
	if errors.As(err, &cycleErr) {
		return cycleErr
	}
	return nil
}

// CodeOf extracts the ErrorCode carried by err. ok is false for errors the
// engine did not produce.
func CodeOf(err error) (code ErrorCode, ok bool) {
	if AsCycleError(err) != nil {
		return ErrorCodeCyclicReference, true
	}
	var formulaErr *FormulaError
	if errors.As(err, &formulaErr) {
		return formulaErr.ErrorCode, true
	}
	return 0, false
}
