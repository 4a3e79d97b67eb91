package refs_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/broyeztony/sheets/parser"
	"github.com/broyeztony/sheets/refs"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, src, owner string) []refs.Ref {
	t.Helper()
	e, errs := parser.Parse(src)
	require.Empty(t, errs, src)
	out := refs.Extract(e, owner, strings.ToUpper)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sheet != out[j].Sheet {
			return out[i].Sheet < out[j].Sheet
		}
		return out[i].Addr < out[j].Addr
	})
	return out
}

func TestExtractUnqualifiedUsesOwningSheet(t *testing.T) {
	got := extract(t, "A1 + B2", "SHEET1")
	require.Equal(t, []refs.Ref{{Sheet: "SHEET1", Addr: "A1"}, {Sheet: "SHEET1", Addr: "B2"}}, got)
}

func TestExtractQualifiedUsesNamedSheet(t *testing.T) {
	got := extract(t, "Sheet2!A1", "SHEET1")
	require.Equal(t, []refs.Ref{{Sheet: "SHEET2", Addr: "A1"}}, got)
}

func TestExtractDeduplicates(t *testing.T) {
	got := extract(t, "A1 + A1 + A1", "SHEET1")
	require.Equal(t, []refs.Ref{{Sheet: "SHEET1", Addr: "A1"}}, got)
}

func TestExtractWalksBothBranchesOfIf(t *testing.T) {
	got := extract(t, `IF(A1>0, B1, C1)`, "SHEET1")
	require.Equal(t, []refs.Ref{
		{Sheet: "SHEET1", Addr: "A1"},
		{Sheet: "SHEET1", Addr: "B1"},
		{Sheet: "SHEET1", Addr: "C1"},
	}, got)
}

func TestExtractSkipsIndirectArgument(t *testing.T) {
	got := extract(t, `INDIRECT("A1") + B1`, "SHEET1")
	require.Equal(t, []refs.Ref{{Sheet: "SHEET1", Addr: "B1"}}, got)
}

func TestExtractNoRefsInLiteralsOnly(t *testing.T) {
	got := extract(t, `1 + 2 & "x"`, "SHEET1")
	require.Empty(t, got)
}
