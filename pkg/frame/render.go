package frame

import (
	"io"
	"strconv"

	stringpool "github.com/ajitpratap0/colframe/pkg/strings"
)

// String renders the full table for human inspection: every column's name,
// kind and values. The output is not meant to be parsed.
func (f *DataFrame) String() string {
	b := stringpool.GetBuilder(stringpool.Medium)
	defer stringpool.PutBuilder(b, stringpool.Medium)
	f.writeDebug(b)
	return b.String()
}

// Render writes the String form of the table to w
func (f *DataFrame) Render(w io.Writer) error {
	b := stringpool.GetBuilder(stringpool.Medium)
	defer stringpool.PutBuilder(b, stringpool.Medium)
	f.writeDebug(b)
	_, err := w.Write(b.Bytes())
	return err
}

func (f *DataFrame) writeDebug(b *stringpool.Builder) {
	b.WriteString("DataFrame")
	if f.name != "" {
		b.WriteString(" ")
		b.WriteString(strconv.Quote(f.name))
	}
	b.WriteString(stringpool.Sprintf(" (%d columns, %d rows)\n", len(f.columns), f.numRows))

	for i, col := range f.columns {
		b.WriteString("  ")
		b.WriteString(strconv.Quote(f.names[i]))
		b.WriteString(" ")
		b.WriteString(col.Kind().String())
		b.WriteString(": [")
		for r := 0; r < col.Len(); r++ {
			if r > 0 {
				b.WriteString(", ")
			}
			b.WriteString(col.At(r).String())
		}
		b.WriteString("]\n")
	}
}

// RenderTable writes an aligned grid with a header row of names, a row of
// kinds and one line per table row.
//
//	Name   | Age
//	string | int
//	-------+----
//	Joe    | 11
func (f *DataFrame) RenderTable(w io.Writer) error {
	if len(f.columns) == 0 {
		_, err := io.WriteString(w, "(no columns)\n")
		return err
	}

	cells := make([][]string, len(f.columns))
	widths := make([]int, len(f.columns))
	for c, col := range f.columns {
		cells[c] = MatchColumn(col,
			func(v []int64) []string {
				out := make([]string, len(v))
				for i, x := range v {
					out[i] = strconv.FormatInt(x, 10)
				}
				return out
			},
			func(v []string) []string {
				out := make([]string, len(v))
				for i, x := range v {
					out[i] = strconv.QuoteToGraphic(x)
					out[i] = out[i][1 : len(out[i])-1]
				}
				return out
			},
			func(v []bool) []string {
				out := make([]string, len(v))
				for i, x := range v {
					out[i] = strconv.FormatBool(x)
				}
				return out
			},
		)
		widths[c] = max(stringpool.Width(f.names[c]), stringpool.Width(col.Kind().String()))
		for _, s := range cells[c] {
			widths[c] = max(widths[c], stringpool.Width(s))
		}
	}

	b := stringpool.GetBuilder(stringpool.Medium)
	defer stringpool.PutBuilder(b, stringpool.Medium)

	line := func(cell func(c int) string) {
		for c := range f.columns {
			if c > 0 {
				b.WriteString(" | ")
			}
			if c == len(f.columns)-1 {
				b.WriteString(cell(c))
			} else {
				stringpool.PadRight(b, cell(c), widths[c])
			}
		}
		b.WriteString("\n")
	}

	line(func(c int) string { return f.names[c] })
	line(func(c int) string { return f.columns[c].Kind().String() })
	for c := range f.columns {
		if c > 0 {
			b.WriteString("-+-")
		}
		b.WriteRepeat("-", widths[c])
	}
	b.WriteString("\n")
	for r := 0; r < f.numRows; r++ {
		line(func(c int) string { return cells[c][r] })
	}

	_, err := w.Write(b.Bytes())
	return err
}
