package spreadsheet

import (
	"cmp"
	"fmt"
	"strconv"
)

// Address identifies a cell by its column letters and 1-based row number.
// It is comparable and used directly as a map key.
type Address struct {
	Col string
	Row int
}

// ParseAddress converts "A1", "AA10", ... into an Address. the input must be
// one or more uppercase letters immediately followed by one or more digits,
// and the row must be at least 1.
func ParseAddress(s string) (Address, error) {
	letterEnd := 0
	for letterEnd < len(s) && isUpper(rune(s[letterEnd])) {
		letterEnd++
	}

	if letterEnd == 0 || letterEnd == len(s) {
		return Address{}, NewFormulaError(ErrorCodeMalformedAddress, -1,
			fmt.Sprintf("malformed address: %s", s))
	}

	for i := letterEnd; i < len(s); i++ {
		if !isDigit(rune(s[i])) {
			return Address{}, NewFormulaError(ErrorCodeMalformedAddress, -1,
				fmt.Sprintf("malformed address: %s", s))
		}
	}

	row, err := strconv.Atoi(s[letterEnd:])
	if err != nil || row < 1 {
		return Address{}, NewFormulaError(ErrorCodeMalformedAddress, -1,
			fmt.Sprintf("malformed address: %s: row must be a positive integer", s))
	}

	return Address{Col: s[:letterEnd], Row: row}, nil
}

// MustParseAddress is like ParseAddress but panics on malformed input. it is
// meant for literals in tests.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// NewAddress builds an Address from 0-based column and row indices
func NewAddress(col, row int) Address {
	return Address{Col: ColumnName(col), Row: row + 1}
}

// Column returns the 0-based column index (A=0, Z=25, AA=26, ...)
func (a Address) Column() int {
	col := 0
	for i, ch := range a.Col {
		col = col*26 + int(ch-'A')
		if i < len(a.Col)-1 {
			col++ // account for positional notation
		}
	}
	return col
}

// RowIndex returns the 0-based row index
func (a Address) RowIndex() int {
	return a.Row - 1
}

func (a Address) String() string {
	return a.Col + strconv.Itoa(a.Row)
}

// Compare orders addresses row-major: by row, then by column index
func (a Address) Compare(b Address) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.Column(), b.Column())
}

// ColumnName converts a 0-based column index back to its letters
func ColumnName(col int) string {
	var letters []byte
	for col >= 0 {
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col = col/26 - 1
	}
	return string(letters)
}
