package index

import (
	"database/sql"
	"time"
)

const summaryColumns = `slug, name, style, author, og, fg, abv, ibu, color_srm, color_hex, hop_count, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (Summary, error) {
	var (
		s        Summary
		og, fg   sql.NullFloat64
		ibu, srm sql.NullFloat64
		updated  string
	)
	if err := row.Scan(&s.Slug, &s.Name, &s.Style, &s.Author, &og, &fg, &s.ABV, &ibu, &srm, &s.ColorHex, &s.HopCount, &updated); err != nil {
		return Summary{}, err
	}
	s.OG = floatPtr(og)
	s.FG = floatPtr(fg)
	s.IBU = floatPtr(ibu)
	s.ColorSRM = floatPtr(srm)
	if ts, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		s.UpdatedAt = ts
	}
	return s, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
