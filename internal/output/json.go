package output

import (
	"encoding/json"
	"io"

	"github.com/SergeyKa2021/rtl-433/internal/device"
)

// JSONWriter writes each record as a single JSON object per line, the
// format most downstream tooling expects from a 433 MHz receiver.
type JSONWriter struct {
	enc *json.Encoder
}

// NewJSONWriter creates a writer emitting JSON lines to w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w)}
}

// Publish writes rec as one JSON line.
func (j *JSONWriter) Publish(rec *device.Record) error {
	if err := j.enc.Encode(rec); err != nil {
		return &PublishError{Sink: "json", Err: err}
	}
	return nil
}

// Close is a no-op; the underlying writer is owned by the caller.
func (j *JSONWriter) Close() error {
	return nil
}
