package eval_test

import (
	"strings"
	"testing"

	"github.com/broyeztony/sheets/eval"
	"github.com/broyeztony/sheets/parser"
	"github.com/broyeztony/sheets/value"
	"github.com/stretchr/testify/require"
)

type fakeCtx struct {
	owner   string
	version string
	cells   map[string]map[string]value.Value // sheet(upper) -> addr(upper) -> value
}

func newFakeCtx(owner string) *fakeCtx {
	return &fakeCtx{owner: owner, version: "sheets/test", cells: map[string]map[string]value.Value{strings.ToUpper(owner): {}}}
}

func (f *fakeCtx) set(sheet, addr string, v value.Value) {
	sheet = strings.ToUpper(sheet)
	if f.cells[sheet] == nil {
		f.cells[sheet] = map[string]value.Value{}
	}
	f.cells[sheet][strings.ToUpper(addr)] = v
}

func (f *fakeCtx) GetValue(sheetName *string, addr string) value.Value {
	sheet := f.owner
	if sheetName != nil {
		sheet = *sheetName
	}
	cells, ok := f.cells[strings.ToUpper(sheet)]
	if !ok {
		return value.Err(value.BadRef, "unknown sheet "+sheet)
	}
	v, ok := cells[strings.ToUpper(addr)]
	if !ok {
		return value.Empty()
	}
	return v
}

func (f *fakeCtx) OwningSheetName() string { return f.owner }
func (f *fakeCtx) EngineVersion() string   { return f.version }

func eval_(t *testing.T, ctx eval.EvalContext, src string) value.Value {
	t.Helper()
	expr, errs := parser.Parse(src)
	require.Empty(t, errs, src)
	return eval.Evaluate(expr, ctx)
}

func TestArithmeticAndDivZero(t *testing.T) {
	ctx := newFakeCtx("SHEET1")
	require.Equal(t, "3", eval_(t, ctx, "1+2").Display())
	require.Equal(t, "#DIV/0!", eval_(t, ctx, "1/0").Display())
	require.Equal(t, "-5", eval_(t, ctx, "-5").Display())
}

func TestConcatAndComparison(t *testing.T) {
	ctx := newFakeCtx("SHEET1")
	require.Equal(t, "AB", eval_(t, ctx, `"A"&"B"`).Display())
	require.Equal(t, "TRUE", eval_(t, ctx, "1<2").Display())
	require.Equal(t, "FALSE", eval_(t, ctx, `"a"="b"`).Display())
}

func TestCellRefUnqualifiedAndQualified(t *testing.T) {
	ctx := newFakeCtx("SHEET1")
	d, _ := value.ParseDecimalLiteral("42")
	ctx.set("SHEET1", "A1", value.Number(d))
	ctx.set("SHEET2", "B2", value.Text("hi"))

	require.Equal(t, "42", eval_(t, ctx, "A1").Display())
	require.Equal(t, "hi", eval_(t, ctx, "Sheet2!B2").Display())
}

func TestUnknownSheetIsBadRef(t *testing.T) {
	ctx := newFakeCtx("SHEET1")
	require.Equal(t, "#REF!", eval_(t, ctx, "Ghost!A1").Display())
}

func TestIfOnlyEvaluatesSelectedBranch(t *testing.T) {
	ctx := newFakeCtx("SHEET1")
	require.Equal(t, "1", eval_(t, ctx, "IF(TRUE, 1, 1/0)").Display())
	require.Equal(t, "#DIV/0!", eval_(t, ctx, "IF(FALSE, 1, 1/0)").Display())
	require.Equal(t, "FALSE", eval_(t, ctx, "IF(FALSE, 1)").Display())
}

func TestIfError(t *testing.T) {
	ctx := newFakeCtx("SHEET1")
	require.Equal(t, "5", eval_(t, ctx, "IFERROR(5, 99)").Display())
	require.Equal(t, "99", eval_(t, ctx, "IFERROR(1/0, 99)").Display())
	require.Equal(t, "", eval_(t, ctx, "IFERROR(1/0)").Display())
}

func TestChoose(t *testing.T) {
	ctx := newFakeCtx("SHEET1")
	require.Equal(t, "B", eval_(t, ctx, `CHOOSE(2, "A", "B", "C")`).Display())
	require.Equal(t, "#VALUE!", eval_(t, ctx, `CHOOSE(9, "A", "B")`).Display())
}

func TestBooleanFunctions(t *testing.T) {
	ctx := newFakeCtx("SHEET1")
	require.Equal(t, "TRUE", eval_(t, ctx, "AND(TRUE, 1, 2)").Display())
	require.Equal(t, "FALSE", eval_(t, ctx, "AND(TRUE, FALSE)").Display())
	require.Equal(t, "TRUE", eval_(t, ctx, "OR(FALSE, FALSE, TRUE)").Display())
	require.Equal(t, "TRUE", eval_(t, ctx, "XOR(TRUE, FALSE)").Display())
	require.Equal(t, "FALSE", eval_(t, ctx, "NOT(TRUE)").Display())
}

func TestIsBlankIsErrorExact(t *testing.T) {
	ctx := newFakeCtx("SHEET1")
	require.Equal(t, "TRUE", eval_(t, ctx, "ISBLANK(A1)").Display())
	require.Equal(t, "TRUE", eval_(t, ctx, "ISERROR(1/0)").Display())
	require.Equal(t, "FALSE", eval_(t, ctx, `EXACT("a", "A")`).Display())
	require.Equal(t, "TRUE", eval_(t, ctx, `EXACT("a", "a")`).Display())
}

func TestIndirectDynamicLookup(t *testing.T) {
	ctx := newFakeCtx("SHEET1")
	d, _ := value.ParseDecimalLiteral("7")
	ctx.set("SHEET1", "B3", value.Number(d))
	require.Equal(t, "7", eval_(t, ctx, `INDIRECT("B3")`).Display())
	require.Equal(t, "#REF!", eval_(t, ctx, `INDIRECT("not an address")`).Display())
}

func TestUnknownFunctionIsBadName(t *testing.T) {
	ctx := newFakeCtx("SHEET1")
	require.Equal(t, "#NAME?", eval_(t, ctx, "NOPE(1)").Display())
}

func TestWrongArityIsTypeError(t *testing.T) {
	ctx := newFakeCtx("SHEET1")
	require.Equal(t, "#VALUE!", eval_(t, ctx, "NOT(1,2)").Display())
}

func TestVersion(t *testing.T) {
	ctx := newFakeCtx("SHEET1")
	require.Equal(t, "sheets/test", eval_(t, ctx, "VERSION()").Display())
}

func TestErrorLiteral(t *testing.T) {
	ctx := newFakeCtx("SHEET1")
	require.Equal(t, "#VALUE!", eval_(t, ctx, "#VALUE!").Display())
}
