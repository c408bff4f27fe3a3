package srm

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"
)

// FallbackHex is returned whenever a reading cannot be matched.
const FallbackHex = "#808080"

// Entry is one row of the color table.
type Entry struct {
	SRM         float64 `json:"srm"`
	Hex         string  `json:"hex"`
	Description string  `json:"description,omitempty"`
	Ceiling     bool    `json:"ceiling,omitempty"`
}

// RGBA parses the entry's hex color.
func (e Entry) RGBA() (color.RGBA, error) {
	return ParseHex(e.Hex)
}

// Table resolves SRM readings to colors. The zero value and nil are empty
// tables that always return the fallback.
type Table struct {
	entries []Entry // sorted by SRM, unique keys
	ceiling *Entry
}

// NewTable builds a table from entries. At most one entry may be marked as
// the ceiling bucket; later duplicates of a key replace earlier ones.
func NewTable(entries []Entry) (*Table, error) {
	byKey := make(map[float64]Entry, len(entries))
	var ceiling *Entry
	for _, e := range entries {
		if !isUsable(e.SRM) {
			return nil, fmt.Errorf("srm table: invalid scale value %v", e.SRM)
		}
		if e.Ceiling {
			if ceiling != nil && ceiling.SRM != e.SRM {
				return nil, fmt.Errorf("srm table: multiple ceiling rows (%v and %v)", ceiling.SRM, e.SRM)
			}
			cp := e
			ceiling = &cp
		}
		byKey[e.SRM] = e
	}
	sorted := make([]Entry, 0, len(byKey))
	for _, e := range byKey {
		sorted = append(sorted, e)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SRM < sorted[j].SRM })
	return &Table{entries: sorted, ceiling: ceiling}, nil
}

// Len reports the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the rows in ascending order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	return append([]Entry(nil), t.entries...)
}

// Lookup returns the display color for v.
func (t *Table) Lookup(v float64) string {
	entry, ok := t.Match(v)
	if !ok {
		return FallbackHex
	}
	return entry.Hex
}

// Match resolves v to a table row:
//  1. non-finite or negative readings never match
//  2. the ceiling row wins for v >= its threshold
//  3. otherwise the largest key <= v (an exact key is its own floor), which
//     also covers readings above the largest key
func (t *Table) Match(v float64) (Entry, bool) {
	if t == nil || len(t.entries) == 0 || !isUsable(v) {
		return Entry{}, false
	}
	if t.ceiling != nil && v >= t.ceiling.SRM {
		return *t.ceiling, true
	}
	// first index whose key is > v; the row before it is the floor
	idx := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].SRM > v })
	if idx == 0 {
		return Entry{}, false
	}
	return t.entries[idx-1], true
}

func isUsable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// ParseHex parses "#RRGGBB" or "RRGGBB" into an opaque color.
func ParseHex(hex string) (color.RGBA, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(trimmed) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}
	value, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(value >> 16), G: uint8(value >> 8), B: uint8(value), A: 255}, nil
}

// NormalizeHex returns the canonical upper-case "#RRGGBB" form.
func NormalizeHex(hex string) (string, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B), nil
}

// Luminance returns the relative luminance of c in [0,1] (Rec. 709 weights).
func Luminance(c color.RGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}
