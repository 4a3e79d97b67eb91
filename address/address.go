// Package address converts between spreadsheet address text ("AA15") and
// (column, row) coordinates, and implements relocation under row/column
// shift with independent absolute markers per axis.
package address

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidAddress = errors.New("invalid cell address")

const MaxCoord = 9999

var pattern = regexp.MustCompile(`^(\$?)([A-Za-z]{1,4})(\$?)([0-9]{1,4})$`)

// Address is a parsed cell reference: a 1-based (col, row) pair plus the
// absolute markers that accompanied it, if any.
type Address struct {
	Col, Row       int
	AbsCol, AbsRow bool
}

// Parse accepts case-insensitive address text with optional '$' markers
// before the column letters and/or the row digits.
func Parse(text string) (Address, error) {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, text)
	}
	col := columnToNumber(strings.ToUpper(m[2]))
	row, err := strconv.Atoi(m[4])
	if err != nil || col < 1 || col > MaxCoord || row < 1 || row > MaxCoord {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, text)
	}
	return Address{Col: col, Row: row, AbsCol: m[1] == "$", AbsRow: m[3] == "$"}, nil
}

// Key renders the canonical, marker-free storage key for (col, row):
// uppercase letters followed by digits, e.g. "AA15".
func Key(col, row int) string {
	return numberToColumn(col) + strconv.Itoa(row)
}

// String renders the address without absolute markers.
func (a Address) String() string {
	return Key(a.Col, a.Row)
}

// Display renders the address including any absolute markers that were
// set on it, e.g. "$A$1" or "A$1".
func (a Address) Display() string {
	var b strings.Builder
	if a.AbsCol {
		b.WriteByte('$')
	}
	b.WriteString(numberToColumn(a.Col))
	if a.AbsRow {
		b.WriteByte('$')
	}
	b.WriteString(strconv.Itoa(a.Row))
	return b.String()
}

// Shift relocates an address by (dCol, dRow), skipping any axis marked
// absolute. It fails if the shifted address would leave the valid
// [1, MaxCoord] range on either axis that actually moved.
func Shift(a Address, dCol, dRow int) (Address, error) {
	out := a
	if !a.AbsCol {
		out.Col = a.Col + dCol
	}
	if !a.AbsRow {
		out.Row = a.Row + dRow
	}
	if out.Col < 1 || out.Col > MaxCoord || out.Row < 1 || out.Row > MaxCoord {
		return Address{}, fmt.Errorf("%w: shift out of bounds", ErrInvalidAddress)
	}
	return out, nil
}

func columnToNumber(letters string) int {
	n := 0
	for i := 0; i < len(letters); i++ {
		n = n*26 + int(letters[i]-'A'+1)
	}
	return n
}

func numberToColumn(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
