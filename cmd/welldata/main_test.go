package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"welldata/internal/shared/testutil"
)

func fieldWorkbook(t *testing.T) string {
	when := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	return testutil.WriteWorkbook(t, "field.xlsx",
		testutil.SheetFixture{Name: "2020", Rows: [][]any{
			testutil.StandardHeader(),
			{"A7", when.AddDate(-1, 0, 0), 10.5, 4, 61.2},
			{"B2", when.AddDate(-1, 0, 1), 8, 2, 58},
		}},
		testutil.SheetFixture{Name: "2021", Rows: [][]any{
			testutil.StandardHeader(),
			{"A7", when, 11, 5, 60},
		}},
	)
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestInspect(t *testing.T) {
	code, out, errOut := runCLI(t, "inspect", "-in", fieldWorkbook(t))
	require.Equal(t, 0, code, errOut)

	assert.Contains(t, out, "records: 3\n")
	assert.Contains(t, out, "years:   2020, 2021\n")
	assert.Contains(t, out, "wells:   A7, B2\n")
	assert.Contains(t, errOut, "loaded")
}

func TestExport(t *testing.T) {
	in := fieldWorkbook(t)
	dest := filepath.Join(t.TempDir(), "wells.xlsx")

	code, out, errOut := runCLI(t, "export", "-q", "-in", in, "-out", dest, "-all")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "Success! File saved: "+dest+"\n", out)

	assert.Equal(t, []string{"A7", "B2"}, testutil.SheetList(t, dest))
	assert.Len(t, testutil.ReadRows(t, dest, "A7"), 3)
}

func TestExportFromYearAndWells(t *testing.T) {
	in := fieldWorkbook(t)
	dest := filepath.Join(t.TempDir(), "wells.xlsx")

	code, _, errOut := runCLI(t, "export", "-q", "-in", in, "-out", dest, "-from", "2021", "-wells", "A7")
	require.Equal(t, 0, code, errOut)

	assert.Equal(t, []string{"A7"}, testutil.SheetList(t, dest))
	assert.Len(t, testutil.ReadRows(t, dest, "A7"), 2)
}

func TestExportFailures(t *testing.T) {
	in := fieldWorkbook(t)
	dest := filepath.Join(t.TempDir(), "wells.xlsx")

	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"unknown year", []string{"-from", "1999", "-all"}, 1, "year is not in the loaded workbook"},
		{"unknown well", []string{"-wells", "Z9"}, 1, "well is not in the loaded workbook"},
		{"both selections", []string{"-wells", "A7", "-all"}, 2, "exactly one of -wells and -all"},
		{"no selection", nil, 2, "exactly one of -wells and -all"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"export", "-q", "-in", in, "-out", dest}, tt.args...)
			code, _, errOut := runCLI(t, args...)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestLoadFailure(t *testing.T) {
	code, _, errOut := runCLI(t, "inspect", "-q", "-in", filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "error:")
}

func TestUsage(t *testing.T) {
	code, _, errOut := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage: welldata")

	code, _, errOut = runCLI(t, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "frobnicate"`)

	code, _, errOut = runCLI(t, "inspect")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "-in is required")

	code, out, _ := runCLI(t, "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "commands:")
}

func TestExportRejectsDestination(t *testing.T) {
	code, _, errOut := runCLI(t, "export", "-q", "-in", fieldWorkbook(t), "-out", filepath.Join(t.TempDir(), "wells.txt"), "-all")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "must end in .xlsx or .csv")
}

func TestExportYearZeroAndSpacedWellNames(t *testing.T) {
	when := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	in := testutil.WriteWorkbook(t, "field.xlsx",
		testutil.SheetFixture{Name: "-1", Rows: [][]any{
			testutil.StandardHeader(),
			{" A7 ", when.AddDate(0, 0, -1), 1},
			{"B2", when.AddDate(0, 0, -1), 2},
		}},
		testutil.SheetFixture{Name: "0", Rows: [][]any{
			testutil.StandardHeader(),
			{" A7 ", when, 3},
		}},
	)
	dest := filepath.Join(t.TempDir(), "wells.xlsx")

	code, _, errOut := runCLI(t, "export", "-q", "-in", in, "-out", dest, "-from", "0", "-wells", " A7 ")
	require.Equal(t, 0, code, errOut)

	assert.Equal(t, []string{" A7 "}, testutil.SheetList(t, dest))
	assert.Len(t, testutil.ReadRows(t, dest, " A7 "), 2)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{" A7 ", "B2"}, splitList(" A7 ,B2,,"))
	assert.Nil(t, splitList(""))
}
