package srm

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

//go:embed srm_colors.csv
var defaultTable []byte

// Source opens the delimited color table.
type Source interface {
	Open() (io.ReadCloser, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (io.ReadCloser, error)

// Open implements Source.
func (f SourceFunc) Open() (io.ReadCloser, error) { return f() }

// EmbeddedSource serves the table compiled into the binary.
func EmbeddedSource() Source {
	return SourceFunc(func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(defaultTable)), nil
	})
}

// FileSource reads the table from path.
func FileSource(path string) Source {
	return SourceFunc(func() (io.ReadCloser, error) {
		return os.Open(path)
	})
}

// LoadSource builds a table from src.
func LoadSource(src Source) (*Table, error) {
	if src == nil {
		return nil, errors.New("srm table: nil source")
	}
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("srm table: open: %w", err)
	}
	defer rc.Close()
	return Load(rc)
}

// LoadDefault builds the embedded table.
func LoadDefault() (*Table, error) {
	return LoadSource(EmbeddedSource())
}

// Load parses a header row followed by scaleValue, description, hexColor rows.
// Columns are matched by header name (srm/scale, description, hex/color) when
// present, positionally otherwise. A trailing "+" on the scale value marks the
// ceiling bucket.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("srm table: empty source")
		}
		return nil, fmt.Errorf("srm table: read header: %w", err)
	}
	cols := resolveColumns(header)

	var entries []Entry
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("srm table: line %d: %w", line, err)
		}
		if blankRecord(record) {
			continue
		}
		entry, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("srm table: line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, errors.New("srm table: no rows")
	}
	return NewTable(entries)
}

type columns struct {
	scale, description, hex int
}

func resolveColumns(header []string) columns {
	cols := columns{scale: 0, description: 1, hex: 2}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "srm", "scale", "scalevalue", "value":
			cols.scale = i
		case "description", "name":
			cols.description = i
		case "hex", "hexcolor", "color":
			cols.hex = i
		}
	}
	return cols
}

func parseRecord(record []string, cols columns) (Entry, error) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rawScale := field(cols.scale)
	ceiling := strings.HasSuffix(rawScale, "+")
	scale, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(rawScale, "+")), 64)
	if err != nil {
		return Entry{}, fmt.Errorf("scale value %q: %w", rawScale, err)
	}
	hex, err := NormalizeHex(field(cols.hex))
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		SRM:         scale,
		Hex:         hex,
		Description: field(cols.description),
		Ceiling:     ceiling,
	}, nil
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Lazy defers loading until the first lookup. A failed load leaves an empty
// table behind, so lookups keep returning the fallback; Err reports why.
type Lazy struct {
	src   Source
	once  sync.Once
	table *Table
	err   error
}

// NewLazy wraps src. A nil src uses the embedded table.
func NewLazy(src Source) *Lazy {
	if src == nil {
		src = EmbeddedSource()
	}
	return &Lazy{src: src}
}

// Table returns the loaded table, loading it on first use.
func (l *Lazy) Table() *Table {
	l.once.Do(func() {
		table, err := LoadSource(l.src)
		if err != nil {
			l.err = err
			l.table = &Table{}
			return
		}
		l.table = table
	})
	return l.table
}

// Err returns the load error, if any. It triggers the load.
func (l *Lazy) Err() error {
	l.Table()
	return l.err
}

// Lookup resolves v against the lazily loaded table.
func (l *Lazy) Lookup(v float64) string {
	return l.Table().Lookup(v)
}

// Match resolves v against the lazily loaded table.
func (l *Lazy) Match(v float64) (Entry, bool) {
	return l.Table().Match(v)
}
