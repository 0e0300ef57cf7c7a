package columnar

import (
	"io"
	"strings"

	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/colframe/pkg/errors"
	"github.com/ajitpratap0/colframe/pkg/frame"
	jsonpool "github.com/ajitpratap0/colframe/pkg/json"
)

const defaultAvroRecordName = "Row"

func avroCodec(name string) (string, error) {
	switch strings.ToLower(name) {
	case "", "none", "null":
		return goavro.CompressionNullLabel, nil
	case "deflate":
		return goavro.CompressionDeflateLabel, nil
	case "snappy":
		return goavro.CompressionSnappyLabel, nil
	default:
		return "", errors.Newf(errors.ErrorTypeConfig, "unsupported avro compression %q", name).
			WithDetail("compression", name)
	}
}

func avroType(k frame.Kind) (string, error) {
	switch k {
	case frame.KindInt:
		return "long", nil
	case frame.KindString:
		return "string", nil
	case frame.KindBool:
		return "boolean", nil
	default:
		return "", errors.Newf(errors.ErrorTypeInternal, "no avro type for %s", k)
	}
}

// AvroName rewrites s to match the Avro name grammar [A-Za-z_][A-Za-z0-9_]*
func AvroName(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

type avroField struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Doc  string `json:"doc"`
}

type avroSchema struct {
	Type   string      `json:"type"`
	Name   string      `json:"name"`
	Doc    string      `json:"doc,omitempty"`
	Fields []avroField `json:"fields"`
}

// AvroSchema returns the record schema used for f and the Avro field name of
// every column in order. Names are sanitized with AvroName and then made
// unique; each field's doc holds the original column name.
func AvroSchema(f *frame.DataFrame) (string, []string, error) {
	schema := f.Schema()
	raw := make([]string, len(schema))
	for i, field := range schema {
		raw[i] = AvroName(field.Name)
	}
	names := uniqueNames(raw)

	rec := avroSchema{
		Type:   "record",
		Name:   defaultAvroRecordName,
		Doc:    f.Name(),
		Fields: make([]avroField, len(schema)),
	}
	if f.Name() != "" {
		rec.Name = AvroName(f.Name())
	}
	for i, field := range schema {
		typ, err := avroType(field.Kind)
		if err != nil {
			return "", nil, err
		}
		rec.Fields[i] = avroField{Name: names[i], Type: typ, Doc: field.Name}
	}

	data, err := jsonpool.Marshal(rec)
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrorTypeInternal, "marshal avro schema")
	}
	return string(data), names, nil
}

func encodeAvro(w io.Writer, f *frame.DataFrame, config *WriterConfig) error {
	if err := requireColumns(f, Avro); err != nil {
		return err
	}
	compression, err := avroCodec(config.Compression)
	if err != nil {
		return err
	}
	schema, names, err := AvroSchema(f)
	if err != nil {
		return err
	}
	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "avro codec")
	}
	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: compression,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "avro container")
	}

	records := make([]interface{}, 0, f.NumRows())
	for r := 0; r < f.NumRows(); r++ {
		row, err := f.Row(r)
		if err != nil {
			return err
		}
		native := make(map[string]interface{}, len(row))
		for c, v := range row {
			native[names[c]] = frame.MatchValue(v,
				func(x int64) interface{} { return x },
				func(x string) interface{} { return x },
				func(x bool) interface{} { return x },
			)
		}
		records = append(records, native)
	}
	if len(records) == 0 {
		return nil
	}
	if err := ocf.Append(records); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "append avro records")
	}
	return nil
}
