package rst

import (
	"math"

	"github.com/SergeyKa2021/rtl-433/internal/bitbuf"
	"github.com/SergeyKa2021/rtl-433/internal/checksum"
)

// Frame describes the logical field content of one RST transmission.
// It is the input to Encode, which builds the raw capture a receiver
// would hand to the decoder; tests and test-signal generation use it
// to produce known-good (and deliberately corrupted) rows.
type Frame struct {
	RollingCode int // 0-15
	ChannelRaw  int // on-air channel value, before the reserved-slot remap (0-7)
	Sequence    int // 0-3
	// Subtype is the sensor subtype code for payload byte 2. The zero
	// value encodes the thermo/hygro variant.
	Subtype      byte
	BatteryOK    bool
	TemperatureC float64 // one decimal place, magnitude up to 99.9

	// DropLeadingBits removes up to 4 bits from the front of the built
	// row, simulating a receiver that locked onto the bitstream late.
	DropLeadingBits int
}

// Encode runs the decode pipeline in reverse: lay out the fields
// MSB-first, reflect each byte to wire order, append the XOR and CRC
// bytes, stuff an even-parity bit after every data byte, and invert
// the payload polarity behind the sync pattern.
func Encode(f Frame) bitbuf.Row {
	tenths := int(math.Round(math.Abs(f.TemperatureC) * 10))

	sub := f.Subtype
	if sub == 0 {
		sub = subtypeThermoHygro
	}

	var fields [frameLen - 1]byte
	fields[0] = byte(f.ChannelRaw&0x07)<<5 | byte(f.RollingCode&0x0f)
	fields[1] = byte((frameLen-3)&0x1f) << 1 // declared length: payload bytes minus the two checksum bytes
	fields[2] = byte(f.Sequence&0x03)<<6 | sub&0x1f
	fields[3] = byte(tenths/10%10)<<4 | byte(tenths%10)
	fields[4] = byte(tenths / 100 % 10)
	if f.TemperatureC >= 0 {
		fields[4] |= 1 << 7 // inverted-sense sign bit
	}
	if f.BatteryOK {
		fields[4] |= 1 << 6
	}
	// fields[5] and fields[6] carry humidity and an undocumented field;
	// both stay zero for the temperature-only variant.

	// Checksums are computed over the wire (LSB-first) byte values.
	var wire [frameLen - 1]byte
	for i := 0; i < frameLen-3; i++ {
		wire[i] = checksum.ReflectByte(fields[i])
	}
	wire[frameLen-3] = checksum.XORBytes(wire[:frameLen-3])
	wire[frameLen-2] = checksum.CRC8(wire[:frameLen-2], crcPoly, crcInit)

	// Raw capture: the sync pattern as-is, then each wire byte MSB
	// first plus its parity bit, all payload bits complemented because
	// the link transmits inverted polarity.
	bits := make([]byte, 0, 9+9*(frameLen-1))
	for i := 8; i >= 0; i-- {
		bits = append(bits, byte(syncPattern>>i)&1)
	}
	for _, w := range wire {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (w>>i)&1^1)
		}
		bits = append(bits, checksum.Parity8(w)^1)
	}

	drop := f.DropLeadingBits
	if drop < 0 {
		drop = 0
	}
	if drop > syncWindow {
		drop = syncWindow
	}
	bits = bits[drop:]

	data := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b != 0 {
			data[i/8] |= 1 << (7 - i%8)
		}
	}
	return bitbuf.NewRow(data, len(bits))
}
