package srm

import (
	"errors"
	"io"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

const sampleTable = `SRM,Description,Hex
2,Straw,#FFD878
4,Deep Gold,#FFBF42
6,Medium Amber,#F8A600
10,Amber Brown,#DE7C00
20+,Black,#361F1B
`

func mustLoad(t *testing.T, data string) *Table {
	t.Helper()
	table, err := Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return table
}

func TestLookup(t *testing.T) {
	table := mustLoad(t, sampleTable)
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"below smallest key", 1.5, FallbackHex},
		{"exact", 4, "#FFBF42"},
		{"nearest below", 5.9, "#FFBF42"},
		{"between wide keys", 15, "#DE7C00"},
		{"ceiling threshold", 20, "#361F1B"},
		{"far above ceiling", 400, "#361F1B"},
		{"negative", -1, FallbackHex},
		{"nan", math.NaN(), FallbackHex},
		{"inf", math.Inf(1), FallbackHex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Lookup(tt.in); got != tt.want {
				t.Fatalf("Lookup(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestCeilingFollowsMarkedRow(t *testing.T) {
	table := mustLoad(t, `SRM,Description,Hex
10,Amber,#DE7C00
20,Brown,#A13700
30+,Black,#000000
`)
	if got := table.Lookup(25); got != "#A13700" {
		t.Fatalf("25 should use nearest-below 20, got %s", got)
	}
	if got := table.Lookup(30); got != "#000000" {
		t.Fatalf("30 should hit the ceiling, got %s", got)
	}
}

func TestNoCeilingFallsBackToLargestKey(t *testing.T) {
	table := mustLoad(t, `SRM,Description,Hex
1,Straw,#FFE699
5,Amber,#FBB123
`)
	if got := table.Lookup(99); got != "#FBB123" {
		t.Fatalf("Lookup above largest key = %s", got)
	}
	entry, ok := table.Match(99)
	if !ok || entry.Description != "Amber" {
		t.Fatalf("unexpected match %+v %v", entry, ok)
	}
}

func TestEmptyTableAlwaysFallsBack(t *testing.T) {
	var nilTable *Table
	for _, table := range []*Table{nilTable, {}} {
		for _, v := range []float64{0, 5, 20, 1000} {
			if got := table.Lookup(v); got != FallbackHex {
				t.Fatalf("empty table Lookup(%v) = %s", v, got)
			}
		}
	}
}

func TestDefaultTable(t *testing.T) {
	table, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	if table.Len() != 20 {
		t.Fatalf("expected 20 rows, got %d", table.Len())
	}
	if got := table.Lookup(6.4); got != "#F8A600" {
		t.Fatalf("Lookup(6.4) = %s", got)
	}
	if got := table.Lookup(35); got != "#361F1B" {
		t.Fatalf("Lookup(35) = %s", got)
	}
	if got := table.Lookup(0.5); got != FallbackHex {
		t.Fatalf("Lookup(0.5) = %s", got)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"header only": "SRM,Description,Hex\n",
		"bad scale":   "SRM,Description,Hex\nabc,Straw,#FFE699\n",
		"bad hex":     "SRM,Description,Hex\n1,Straw,#FFE6\n",
		"two ceiling": "SRM,Description,Hex\n10+,A,#000000\n20+,B,#000000\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadMatchesColumnsByHeader(t *testing.T) {
	table := mustLoad(t, "hex,srm,description\nffe699,1,Straw\n")
	entry, ok := table.Match(1)
	if !ok || entry.Hex != "#FFE699" || entry.Description != "Straw" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestLazyLoadFailureYieldsFallback(t *testing.T) {
	calls := 0
	lazy := NewLazy(SourceFunc(func() (io.ReadCloser, error) {
		calls++
		return nil, errors.New("boom")
	}))
	if got := lazy.Lookup(10); got != FallbackHex {
		t.Fatalf("Lookup = %s", got)
	}
	if got := lazy.Lookup(25); got != FallbackHex {
		t.Fatalf("Lookup = %s", got)
	}
	if lazy.Err() == nil {
		t.Fatal("expected load error to be retained")
	}
	if calls != 1 {
		t.Fatalf("expected a single load attempt, got %d", calls)
	}
}

func TestLazyMissingFile(t *testing.T) {
	lazy := NewLazy(FileSource(filepath.Join(t.TempDir(), "missing.csv")))
	if got := lazy.Lookup(5); got != FallbackHex {
		t.Fatalf("Lookup = %s", got)
	}
	if lazy.Table().Len() != 0 {
		t.Fatal("expected empty table")
	}
}

func TestParseHexAndLuminance(t *testing.T) {
	c, err := ParseHex("#FFFFFF")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if Luminance(c) < 0.99 {
		t.Fatalf("white luminance too low: %v", Luminance(c))
	}
	black, _ := ParseHex("000000")
	if Luminance(black) != 0 {
		t.Fatalf("black luminance = %v", Luminance(black))
	}
}
