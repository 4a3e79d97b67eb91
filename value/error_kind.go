package value

// ErrorKind enumerates the cell-error taxonomy. Kinds are
// ordered by propagation precedence: a lower rank wins when more than
// one error could propagate out of the same operator or function call.
type ErrorKind int

const (
	Parse ErrorKind = iota
	CircRef
	BadRef
	BadName
	Type
	DivZero
)

var displayStrings = map[ErrorKind]string{
	Parse:   "#ERROR!",
	CircRef: "#CIRCREF!",
	BadRef:  "#REF!",
	BadName: "#NAME?",
	Type:    "#VALUE!",
	DivZero: "#DIV/0!",
}

var precedenceRank = map[ErrorKind]int{
	Parse:   0,
	CircRef: 1,
	BadRef:  2,
	BadName: 3,
	Type:    4,
	DivZero: 5,
}

func (k ErrorKind) Display() string {
	if s, ok := displayStrings[k]; ok {
		return s
	}
	return "#ERROR!"
}

// ErrorKindFromLiteral resolves a formula error literal ("#REF!", ...)
// to its ErrorKind. ok is false for unrecognized text.
func ErrorKindFromLiteral(text string) (ErrorKind, bool) {
	for k, s := range displayStrings {
		if s == text {
			return k, true
		}
	}
	return 0, false
}

// HigherPrecedence returns whichever of a, b must win when both could
// propagate from the same expression; the highest-precedence kind
// is surfaced.
func HigherPrecedence(a, b ErrorKind) ErrorKind {
	if precedenceRank[a] <= precedenceRank[b] {
		return a
	}
	return b
}

// FirstError returns the highest-precedence error among vs, and true if
// any of vs is an error.
func FirstError(vs ...Value) (Value, bool) {
	var best Value
	found := false
	for _, v := range vs {
		if !v.IsError() {
			continue
		}
		if !found {
			best = v
			found = true
			continue
		}
		bestKind, _, _ := best.ErrorInfo()
		vKind, _, _ := v.ErrorInfo()
		if HigherPrecedence(vKind, bestKind) == vKind && vKind != bestKind {
			best = v
		}
	}
	return best, found
}
