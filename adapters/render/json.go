package render

import (
	"io"

	"fdrtidy/domain/table"

	jsoniter "github.com/json-iterator/go"
)

// WriteJSON writes the table as an array of row objects whose keys keep the
// column order. Missing cells are null.
func WriteJSON(w io.Writer, t table.Table) error {
	stream := jsoniter.NewStream(jsoniter.ConfigCompatibleWithStandardLibrary, w, 4096)
	names := t.Names()

	stream.WriteArrayStart()
	for i := 0; i < t.NumRows(); i++ {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectStart()
		for j, v := range t.Row(i).Values() {
			if j > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(names[j])
			writeValue(stream, v)
		}
		stream.WriteObjectEnd()
	}
	stream.WriteArrayEnd()
	stream.WriteRaw("\n")

	if stream.Error != nil {
		return stream.Error
	}
	return stream.Flush()
}

func writeValue(stream *jsoniter.Stream, v table.Value) {
	if v.NA {
		stream.WriteNil()
		return
	}
	switch v.Kind {
	case table.KindNumber:
		stream.WriteFloat64(v.Num)
	case table.KindBool:
		stream.WriteBool(v.Bool)
	default:
		stream.WriteString(v.Str)
	}
}
