package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// record is a wire object whose members are resolved one field at a time.
// The sum types in this package decode through it so that sibling fields
// contributed by different types can share one flat object.
type record map[string]json.RawMessage

func decodeRecord(data []byte) (record, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedField, err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: expected an object, got null", ErrMalformedField)
	}
	return r, nil
}

// has reports whether name is present with a non-null value.
func (r record) has(name string) bool {
	raw, ok := r[name]
	return ok && !isNull(raw)
}

// optional decodes name into dst when present. A JSON null counts as absent.
func (r record) optional(name string, dst any) (bool, error) {
	if !r.has(name) {
		return false, nil
	}
	if err := json.Unmarshal(r[name], dst); err != nil {
		return false, fieldErr(name, err)
	}
	return true, nil
}

func (r record) required(name string, dst any) error {
	ok, err := r.optional(name, dst)
	if err != nil {
		return err
	}
	if !ok {
		return &FieldError{Field: name, Err: fmt.Errorf("%w: missing field", ErrMalformedField)}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// objectWriter emits a JSON object with members in call order. The first
// marshal failure sticks and is reported by bytes.
type objectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{}
	w.buf.WriteByte('{')
	return w
}

func (w *objectWriter) field(name string, v any) {
	if w.err != nil {
		return
	}
	val, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("%s: %w", name, err)
		return
	}
	if w.n > 0 {
		w.buf.WriteByte(',')
	}
	w.buf.WriteString(strconv.Quote(name))
	w.buf.WriteByte(':')
	w.buf.Write(val)
	w.n++
}

func (w *objectWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}
