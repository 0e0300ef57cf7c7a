package columnar

import (
	"io"

	"github.com/ajitpratap0/colframe/pkg/frame"
	jsonpool "github.com/ajitpratap0/colframe/pkg/json"
)

func encodeTable(w io.Writer, f *frame.DataFrame, _ *WriterConfig) error {
	return f.Render(w)
}

func encodeGrid(w io.Writer, f *frame.DataFrame, _ *WriterConfig) error {
	return f.RenderTable(w)
}

type jsonFrame struct {
	Name    string       `json:"name,omitempty"`
	Rows    int          `json:"rows"`
	Columns []jsonColumn `json:"columns"`
}

type jsonColumn struct {
	Name   string      `json:"name"`
	Kind   string      `json:"kind"`
	Values interface{} `json:"values"`
}

// encodeJSON writes {"name":..,"rows":N,"columns":[{"name","kind","values"}]}
// followed by a newline
func encodeJSON(w io.Writer, f *frame.DataFrame, config *WriterConfig) error {
	doc := jsonFrame{
		Name:    f.Name(),
		Rows:    f.NumRows(),
		Columns: make([]jsonColumn, 0, f.NumColumns()),
	}
	for i, field := range f.Schema() {
		col, err := f.ColumnAt(i)
		if err != nil {
			return err
		}
		doc.Columns = append(doc.Columns, jsonColumn{
			Name: field.Name,
			Kind: field.Kind.String(),
			Values: frame.MatchColumn(col,
				func(v []int64) interface{} { return nonNil(v) },
				func(v []string) interface{} { return nonNil(v) },
				func(v []bool) interface{} { return nonNil(v) },
			),
		})
	}

	indent := ""
	if config.Indent {
		indent = "  "
	}
	_, err := jsonpool.MarshalToWriter(w, doc, indent)
	return err
}

// nonNil keeps empty columns encoding as [] rather than null
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
