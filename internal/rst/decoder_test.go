package rst

import (
	"testing"
	"time"

	"github.com/SergeyKa2021/rtl-433/internal/bitbuf"
	"github.com/SergeyKa2021/rtl-433/internal/checksum"
	"github.com/SergeyKa2021/rtl-433/internal/device"
)

// goldenRow is a clean capture of a thermo/hygro transmission:
// rolling code 5, channel 3, battery ok, 24.8 degrees.
const goldenRow = "{90}06ace3d0aedde3ffff020bc0"

func testDecoder() *Decoder {
	d := New()
	d.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return d
}

func mustParseRow(t *testing.T, s string) bitbuf.Row {
	t.Helper()
	row, err := bitbuf.ParseRow(s)
	if err != nil {
		t.Fatalf("ParseRow(%q): %v", s, err)
	}
	return row
}

// flipBits returns a copy of row with the given bit positions
// complemented (0 = MSB of the first byte).
func flipBits(row bitbuf.Row, positions ...int) bitbuf.Row {
	data := make([]byte, (row.BitCount()+7)/8)
	for i := range data {
		data[i] = row.Byte(i)
	}
	for _, p := range positions {
		data[p/8] ^= 1 << (7 - p%8)
	}
	return bitbuf.NewRow(data, row.BitCount())
}

func TestDecodeGoldenRow(t *testing.T) {
	d := testDecoder()
	rec, status := d.Decode([]bitbuf.Row{mustParseRow(t, goldenRow)})
	if status != device.StatusOK {
		t.Fatalf("status = %v, want ok", status)
	}
	if rec == nil {
		t.Fatal("record is nil")
	}
	if rec.Model != Model {
		t.Errorf("Model = %q, want %q", rec.Model, Model)
	}
	if rec.ID != 5 {
		t.Errorf("ID = %d, want 5", rec.ID)
	}
	if rec.Channel != 3 {
		t.Errorf("Channel = %d, want 3", rec.Channel)
	}
	if rec.BatteryOK != 1 {
		t.Errorf("BatteryOK = %d, want 1", rec.BatteryOK)
	}
	if rec.TemperatureC != 24.8 {
		t.Errorf("TemperatureC = %v, want 24.8", rec.TemperatureC)
	}
	if rec.MIC != "CRC" {
		t.Errorf("MIC = %q, want CRC", rec.MIC)
	}
	if rec.Time.IsZero() {
		t.Error("Time not set")
	}
}

func TestDecodeDroppedLeadingBits(t *testing.T) {
	frame := Frame{RollingCode: 5, ChannelRaw: 3, Sequence: 1, BatteryOK: true, TemperatureC: 24.8}
	d := testDecoder()

	for drop := 0; drop <= 3; drop++ {
		frame.DropLeadingBits = drop
		rec, status := d.Decode([]bitbuf.Row{Encode(frame)})
		if status != device.StatusOK {
			t.Errorf("drop %d: status = %v, want ok", drop, status)
			continue
		}
		if rec.TemperatureC != 24.8 {
			t.Errorf("drop %d: TemperatureC = %v, want 24.8", drop, rec.TemperatureC)
		}
	}

	// A fourth missing bit pushes the header out of the scan window.
	frame.DropLeadingBits = 4
	_, status := d.Decode([]bitbuf.Row{Encode(frame)})
	if status != device.StatusSyncNotFound {
		t.Errorf("drop 4: status = %v, want sync_not_found", status)
	}
}

func TestDecodeCorruptedRows(t *testing.T) {
	golden := func(t *testing.T) bitbuf.Row { return mustParseRow(t, goldenRow) }

	// Row bit layout: 9 sync bits, then 9 bits per payload byte (8 data
	// bits MSB-first plus an even-parity bit).
	tests := []struct {
		name string
		row  func(t *testing.T) bitbuf.Row
		want device.Status
	}{
		{
			name: "too short",
			row: func(t *testing.T) bitbuf.Row {
				return bitbuf.NewRow([]byte{0x06, 0xac, 0xe3}, 24)
			},
			want: device.StatusLengthMismatch,
		},
		{
			name: "no sync header",
			row: func(t *testing.T) bitbuf.Row {
				return bitbuf.NewRow(make([]byte, 12), 90)
			},
			want: device.StatusSyncNotFound,
		},
		{
			name: "single data bit flipped",
			row: func(t *testing.T) bitbuf.Row {
				return flipBits(golden(t), 9)
			},
			want: device.StatusParityError,
		},
		{
			name: "field byte corrupted with matching parity",
			row: func(t *testing.T) bitbuf.Row {
				// Data bit and parity bit of payload byte 0 flipped
				// together, so only the running XOR catches it.
				return flipBits(golden(t), 9, 17)
			},
			want: device.StatusXORError,
		},
		{
			name: "crc byte corrupted with matching parity",
			row: func(t *testing.T) bitbuf.Row {
				// Payload byte 8 is outside the XOR span; only the CRC
				// residue catches it.
				return flipBits(golden(t), 81, 89)
			},
			want: device.StatusCRCError,
		},
	}

	d := testDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, status := d.Decode([]bitbuf.Row{tt.row(t)})
			if status != tt.want {
				t.Errorf("status = %v, want %v", status, tt.want)
			}
			if rec != nil {
				t.Errorf("record = %v, want nil", rec)
			}
		})
	}
}

func TestDecodeDeclaredLengthMismatch(t *testing.T) {
	// A frame whose checksums validate but whose length field disagrees
	// with the actual payload size.
	row := encodeWithDeclaredLength(t, 6)
	d := testDecoder()
	rec, status := d.Decode([]bitbuf.Row{row})
	if status != device.StatusPacketLengthMismatch {
		t.Errorf("status = %v, want packet_length_mismatch", status)
	}
	if rec != nil {
		t.Errorf("record = %v, want nil", rec)
	}
}

// encodeWithDeclaredLength builds an otherwise valid capture whose
// declared payload length is forced to the given value.
func encodeWithDeclaredLength(t *testing.T, declared byte) bitbuf.Row {
	t.Helper()

	var fields [frameLen - 1]byte
	fields[0] = 3<<5 | 5
	fields[1] = (declared & 0x1f) << 1
	fields[2] = 1<<6 | subtypeThermoHygro
	fields[3] = 0x48
	fields[4] = 0x02 | 1<<7 | 1<<6

	var wire [frameLen - 1]byte
	for i := 0; i < frameLen-3; i++ {
		wire[i] = checksum.ReflectByte(fields[i])
	}
	wire[frameLen-3] = checksum.XORBytes(wire[:frameLen-3])
	wire[frameLen-2] = checksum.CRC8(wire[:frameLen-2], crcPoly, crcInit)

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

	data := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b != 0 {
			data[i/8] |= 1 << (7 - i%8)
		}
	}
	return bitbuf.NewRow(data, len(bits))
}

func TestDecodeUnknownSubtype(t *testing.T) {
	tests := []struct {
		name    string
		subtype byte
	}{
		{"anemometer", subtypeAnemometer},
		{"uv", subtypeUV},
		{"rain", subtypeRain},
		{"unassigned", 0x05},
	}

	d := testDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Encode(Frame{RollingCode: 5, ChannelRaw: 3, Subtype: tt.subtype, BatteryOK: true, TemperatureC: 10})
			rec, status := d.Decode([]bitbuf.Row{row})
			if status != device.StatusUnknownSubtype {
				t.Errorf("status = %v, want unknown_sensor_subtype", status)
			}
			if rec != nil {
				t.Errorf("record = %v, want nil", rec)
			}
			if !status.Fatal() {
				t.Error("status should be fatal for the capture")
			}
		})
	}
}

func TestDecodeUnknownSubtypeAbortsCapture(t *testing.T) {
	// A terminal row must stop the scan even when a decodable row
	// follows: the repeats of a transmission carry the same subtype.
	bad := Encode(Frame{RollingCode: 5, ChannelRaw: 3, Subtype: subtypeRain, TemperatureC: 10})
	good := mustParseRow(t, goldenRow)

	d := testDecoder()
	rec, status := d.Decode([]bitbuf.Row{bad, good})
	if status != device.StatusUnknownSubtype {
		t.Errorf("status = %v, want unknown_sensor_subtype", status)
	}
	if rec != nil {
		t.Errorf("record = %v, want nil", rec)
	}
}

func TestDecodeFirstValidRowWins(t *testing.T) {
	noise := bitbuf.NewRow(make([]byte, 12), 90)
	good := mustParseRow(t, goldenRow)

	d := testDecoder()
	rec, status := d.Decode([]bitbuf.Row{noise, good, Encode(Frame{RollingCode: 1, ChannelRaw: 1, TemperatureC: 1})})
	if status != device.StatusOK {
		t.Fatalf("status = %v, want ok", status)
	}
	if rec.ID != 5 {
		t.Errorf("ID = %d, want 5 (first valid row)", rec.ID)
	}
}

func TestDecodeReportsLastRowStatus(t *testing.T) {
	short := bitbuf.NewRow([]byte{0xff}, 8)
	noSync := bitbuf.NewRow(make([]byte, 12), 90)

	d := testDecoder()
	rec, status := d.Decode([]bitbuf.Row{short, noSync})
	if rec != nil {
		t.Errorf("record = %v, want nil", rec)
	}
	if status != device.StatusSyncNotFound {
		t.Errorf("status = %v, want sync_not_found (last row attempted)", status)
	}
}

func TestDecodeEmptyCapture(t *testing.T) {
	d := testDecoder()
	rec, status := d.Decode(nil)
	if rec != nil || status != device.StatusLengthMismatch {
		t.Errorf("Decode(nil) = (%v, %v), want (nil, length_mismatch)", rec, status)
	}
}

func TestDecodeLeavesRowIntact(t *testing.T) {
	row := mustParseRow(t, goldenRow)
	d := testDecoder()

	before := row.String()
	if _, status := d.Decode([]bitbuf.Row{row}); status != device.StatusOK {
		t.Fatalf("first decode: status = %v", status)
	}
	if got := row.String(); got != before {
		t.Fatalf("row mutated by decode: %s != %s", got, before)
	}

	// Same row must decode again to the same result.
	rec, status := d.Decode([]bitbuf.Row{row})
	if status != device.StatusOK {
		t.Fatalf("second decode: status = %v", status)
	}
	if rec.TemperatureC != 24.8 {
		t.Errorf("second decode: TemperatureC = %v, want 24.8", rec.TemperatureC)
	}
}

func TestChannelRemap(t *testing.T) {
	// On-air channel values skip a reserved slot above 4.
	want := []int{0, 1, 2, 3, 4, 4, 5, 6}

	d := testDecoder()
	for raw := 0; raw < 8; raw++ {
		row := Encode(Frame{RollingCode: 1, ChannelRaw: raw, BatteryOK: true, TemperatureC: 10})
		rec, status := d.Decode([]bitbuf.Row{row})
		if status != device.StatusOK {
			t.Errorf("raw %d: status = %v", raw, status)
			continue
		}
		if rec.Channel != want[raw] {
			t.Errorf("raw %d: Channel = %d, want %d", raw, rec.Channel, want[raw])
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		batt  int
		temp  float64
	}{
		{"positive temp", Frame{RollingCode: 5, ChannelRaw: 3, Sequence: 1, BatteryOK: true, TemperatureC: 24.8}, 1, 24.8},
		{"negative temp", Frame{RollingCode: 9, ChannelRaw: 2, BatteryOK: false, TemperatureC: -7.3}, 0, -7.3},
		{"zero temp", Frame{RollingCode: 0, ChannelRaw: 0, BatteryOK: true, TemperatureC: 0}, 1, 0},
		{"hot", Frame{RollingCode: 15, ChannelRaw: 1, Sequence: 3, BatteryOK: true, TemperatureC: 99.9}, 1, 99.9},
		{"cold", Frame{RollingCode: 7, ChannelRaw: 4, BatteryOK: false, TemperatureC: -27.4}, 0, -27.4},
	}

	d := testDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, status := d.Decode([]bitbuf.Row{Encode(tt.frame)})
			if status != device.StatusOK {
				t.Fatalf("status = %v, want ok", status)
			}
			if rec.ID != tt.frame.RollingCode {
				t.Errorf("ID = %d, want %d", rec.ID, tt.frame.RollingCode)
			}
			if rec.BatteryOK != tt.batt {
				t.Errorf("BatteryOK = %d, want %d", rec.BatteryOK, tt.batt)
			}
			if rec.TemperatureC != tt.temp {
				t.Errorf("TemperatureC = %v, want %v", rec.TemperatureC, tt.temp)
			}
		})
	}
}

func TestProtocolMetadata(t *testing.T) {
	p := New().Protocol()
	if p.Name != Model {
		t.Errorf("Name = %q, want %q", p.Name, Model)
	}
	if p.Modulation != device.ModOOKPulseDMC {
		t.Errorf("Modulation = %q, want %q", p.Modulation, device.ModOOKPulseDMC)
	}
	if p.ShortWidth != 520 || p.LongWidth != 1040 {
		t.Errorf("pulse widths = %d/%d, want 520/1040", p.ShortWidth, p.LongWidth)
	}
}
