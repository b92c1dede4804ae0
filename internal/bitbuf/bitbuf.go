package bitbuf

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// MaxRowBits bounds the size of a single row. The longest frame any
// registered decoder handles is well under this; anything larger is a
// slicer artifact and gets truncated.
const MaxRowBits = 1024

// Row is one demodulated candidate transmission: raw bits packed
// MSB-first into bytes plus the count of valid bits.
type Row struct {
	data []byte
	bits int
}

// NewRow builds a row from packed bytes and a bit count. The data is
// copied so the caller's buffer stays independent. Bit counts beyond
// the packed data or beyond MaxRowBits are clamped.
func NewRow(data []byte, bits int) Row {
	if bits < 0 {
		bits = 0
	}
	if bits > len(data)*8 {
		bits = len(data) * 8
	}
	if bits > MaxRowBits {
		bits = MaxRowBits
	}
	n := (bits + 7) / 8
	r := Row{
		data: make([]byte, n),
		bits: bits,
	}
	copy(r.data, data[:n])
	return r
}

// ParseRow parses the {bitcount}hex row literal form.
func ParseRow(s string) (Row, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return Row{}, fmt.Errorf("row literal must start with '{': %q", s)
	}
	end := strings.IndexByte(s, '}')
	if end < 0 {
		return Row{}, fmt.Errorf("row literal missing '}': %q", s)
	}
	bits, err := strconv.Atoi(s[1:end])
	if err != nil {
		return Row{}, fmt.Errorf("invalid bit count in row literal %q: %w", s, err)
	}
	if bits < 0 || bits > MaxRowBits {
		return Row{}, fmt.Errorf("bit count %d out of range (0-%d)", bits, MaxRowBits)
	}
	data, err := hex.DecodeString(s[end+1:])
	if err != nil {
		return Row{}, fmt.Errorf("invalid hex in row literal %q: %w", s, err)
	}
	if bits > len(data)*8 {
		return Row{}, fmt.Errorf("bit count %d exceeds %d data bytes", bits, len(data))
	}
	return NewRow(data, bits), nil
}

// BitCount returns the number of valid bits in the row.
func (r Row) BitCount() int {
	return r.bits
}

// Byte returns the i-th packed byte. Indexes past the stored data
// return zero: decoders probe a fixed window around the payload and a
// short capture simply reads as silence there, exactly as it would from
// the front end's zeroed row buffer.
func (r Row) Byte(i int) byte {
	if i < 0 || i >= len(r.data) {
		return 0
	}
	return r.data[i]
}

// Bit returns bit i (0 = MSB of the first byte) as 0 or 1.
func (r Row) Bit(i int) byte {
	if i < 0 || i >= r.bits {
		return 0
	}
	return (r.data[i/8] >> (7 - i%8)) & 1
}

// Invert returns a new row with every bit complemented. The receiver is
// left untouched, so captures can be decoded repeatedly.
func (r Row) Invert() Row {
	inv := Row{
		data: make([]byte, len(r.data)),
		bits: r.bits,
	}
	for i, b := range r.data {
		inv.data[i] = ^b
	}
	return inv
}

// String renders the {bitcount}hex row literal form.
func (r Row) String() string {
	return fmt.Sprintf("{%d}%s", r.bits, hex.EncodeToString(r.data))
}

// ParseCapture parses a whitespace-separated sequence of row literals
// making up one capture.
func ParseCapture(s string) ([]Row, error) {
	fields := strings.Fields(s)
	rows := make([]Row, 0, len(fields))
	for _, f := range fields {
		row, err := ParseRow(f)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
