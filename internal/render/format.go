package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// gutter is the fixed spacing added to every computed column width.
const gutter = 2

// Column maps a display header to the record field it projects.
type Column struct {
	Header string
	Field  string
}

// Record is a single row keyed by field name.
type Record map[string]string

// Field is one key/value line of a single-record view.
type Field struct {
	Key   string
	Value string
}

// Option adjusts the text surrounding a rendered block.
type Option func(*block)

type block struct {
	preamble string
	footer   []string
}

// WithPreamble places a preamble ahead of the body, separated by a blank line.
func WithPreamble(preamble string) Option {
	return func(b *block) {
		b.preamble = preamble
	}
}

// WithFooter appends footer lines after the body, separated by a blank line.
func WithFooter(lines ...string) Option {
	return func(b *block) {
		b.footer = append(b.footer, lines...)
	}
}

// Table renders records under the given column spec. Each column is padded to
// the width of its widest entry (header included) plus the gutter. An empty
// record sequence omits the header and data block entirely; preamble and
// footer are still emitted. A record missing a referenced field is a shape
// error and produces no partial output.
func Table(columns []Column, records []Record, opts ...Option) (string, error) {
	if len(columns) == 0 {
		return "", errors.New("render: column spec must not be empty")
	}
	var b block
	for _, opt := range opts {
		opt(&b)
	}

	if len(records) == 0 {
		return b.wrap(""), nil
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col.Header)
	}
	for idx, record := range records {
		for i, col := range columns {
			value, ok := record[col.Field]
			if !ok {
				return "", fmt.Errorf("render: record %d missing field %q", idx, col.Field)
			}
			if len(value) > widths[i] {
				widths[i] = len(value)
			}
		}
	}
	for i := range widths {
		widths[i] += gutter
	}

	lines := make([]string, 0, len(records)+1)
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = text.Pad(col.Header, widths[i], ' ')
	}
	lines = append(lines, strings.Join(header, ""))
	for _, record := range records {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = text.Pad(record[col.Field], widths[i], ' ')
		}
		lines = append(lines, strings.Join(cells, ""))
	}
	return b.wrap(strings.Join(lines, "\n")), nil
}

// SingleRecord renders ordered key/value pairs as aligned "key  value" lines.
// Values start at a shared offset of the longest key plus the gutter.
func SingleRecord(fields []Field, opts ...Option) string {
	var b block
	for _, opt := range opts {
		opt(&b)
	}
	if len(fields) == 0 {
		return b.wrap("")
	}

	width := 0
	for _, field := range fields {
		if len(field.Key) > width {
			width = len(field.Key)
		}
	}
	width += gutter

	lines := make([]string, len(fields))
	for i, field := range fields {
		lines[i] = text.Pad(field.Key, width, ' ') + field.Value
	}
	return b.wrap(strings.Join(lines, "\n"))
}

// Columns packs a flat list of short strings into a grid with the given
// column count, filled row-major left to right; the last row may be short.
// A columnCount of zero selects the count from the list length (up to 40
// items fit one column, 80 two, 180 three, anything larger four). Each
// column's width comes from the longest item assigned to it. Items are never
// truncated or reordered.
func Columns(items []string, columnCount int) string {
	if len(items) == 0 {
		return ""
	}
	count := columnCount
	if count <= 0 {
		count = autoColumnCount(len(items))
	}
	if count > len(items) {
		count = len(items)
	}

	widths := make([]int, count)
	for i, item := range items {
		col := i % count
		if len(item) > widths[col] {
			widths[col] = len(item)
		}
	}
	for i := range widths {
		widths[i] += gutter
	}

	rows := (len(items) + count - 1) / count
	lines := make([]string, 0, rows)
	var sb strings.Builder
	for row := 0; row < rows; row++ {
		sb.Reset()
		for col := 0; col < count; col++ {
			idx := row*count + col
			if idx >= len(items) {
				break
			}
			if col == count-1 || idx == len(items)-1 {
				sb.WriteString(items[idx])
			} else {
				sb.WriteString(text.Pad(items[idx], widths[col], ' '))
			}
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func autoColumnCount(n int) int {
	switch {
	case n <= 40:
		return 1
	case n <= 80:
		return 2
	case n <= 180:
		return 3
	default:
		return 4
	}
}

func (b *block) wrap(body string) string {
	parts := make([]string, 0, 3)
	if b.preamble != "" {
		parts = append(parts, b.preamble)
	}
	if body != "" {
		parts = append(parts, body)
	}
	if len(b.footer) > 0 {
		parts = append(parts, strings.Join(b.footer, "\n"))
	}
	return strings.Join(parts, "\n\n")
}
