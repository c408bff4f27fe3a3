package label

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"brewbook/internal/srm"
)

// Options controls label geometry.
type Options struct {
	Width  int
	Height int
	// WrapAt is the maximum characters per ingredient line.
	WrapAt int
}

// DefaultOptions returns a 400x240 label.
func DefaultOptions() Options {
	return Options{Width: 400, Height: 240, WrapAt: 42}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.WrapAt <= 0 {
		o.WrapAt = def.WrapAt
	}
	return o
}

// RenderSVG draws s as a standalone SVG document. The background is the
// recipe color; text switches to white on dark beers.
func RenderSVG(s Summary, opts Options) ([]byte, error) {
	opts = opts.normalized()
	background, err := srm.NormalizeHex(s.ColorHex)
	if err != nil {
		background = srm.FallbackHex
	}
	ink := inkFor(background)

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		opts.Width, opts.Height, opts.Width, opts.Height)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%d" height="%d" rx="12" fill="%s"/>`+"\n", opts.Width, opts.Height, background)
	fmt.Fprintf(&buf, `  <rect x="8" y="8" width="%d" height="%d" rx="8" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
		opts.Width-16, opts.Height-16, ink)

	margin := 24
	y := 52
	if err := writeText(&buf, margin, y, 28, "bold", ink, s.Name); err != nil {
		return nil, err
	}
	if s.Style != "" {
		y += 24
		if err := writeText(&buf, margin, y, 15, "normal", ink, s.Style); err != nil {
			return nil, err
		}
	}

	y += 34
	if err := writeText(&buf, margin, y, 18, "bold", ink, statsLine(s)); err != nil {
		return nil, err
	}

	if s.Ingredients != "" {
		for _, line := range wrap(s.Ingredients, opts.WrapAt) {
			y += 20
			if y > opts.Height-16 {
				break
			}
			if err := writeText(&buf, margin, y, 13, "normal", ink, line); err != nil {
				return nil, err
			}
		}
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func statsLine(s Summary) string {
	parts := make([]string, 0, 3)
	if s.ABV != "" {
		parts = append(parts, s.ABV+"% ABV")
	}
	if s.IBU != nil {
		parts = append(parts, strconv.FormatFloat(*s.IBU, 'f', -1, 64)+" IBU")
	}
	if s.ColorSRM != nil {
		color := strconv.FormatFloat(*s.ColorSRM, 'f', -1, 64) + " SRM"
		if s.ColorName != "" {
			color += " (" + s.ColorName + ")"
		}
		parts = append(parts, color)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "  ·  ")
}

func writeText(buf *bytes.Buffer, x, y, size int, weight, fill, text string) error {
	fmt.Fprintf(buf, `  <text x="%d" y="%d" font-family="Helvetica, Arial, sans-serif" font-size="%d" font-weight="%s" fill="%s">`,
		x, y, size, weight, fill)
	if err := xml.EscapeText(buf, []byte(text)); err != nil {
		return fmt.Errorf("escape label text: %w", err)
	}
	buf.WriteString("</text>\n")
	return nil
}

func inkFor(hex string) string {
	c, err := srm.ParseHex(hex)
	if err != nil || srm.Luminance(c) < 0.5 {
		return "#FFFFFF"
	}
	return "#1A1A1A"
}

// wrap breaks text on spaces into lines of at most width runes. Words longer
// than width get their own line.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	var lines []string
	var current strings.Builder
	length := 0
	for _, word := range words {
		n := len([]rune(word))
		if length > 0 && length+1+n > width {
			lines = append(lines, current.String())
			current.Reset()
			length = 0
		}
		if length > 0 {
			current.WriteByte(' ')
			length++
		}
		current.WriteString(word)
		length += n
	}
	if length > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
