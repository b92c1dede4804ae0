package rst

import (
	"testing"

	"github.com/SergeyKa2021/rtl-433/internal/bitbuf"
	"github.com/SergeyKa2021/rtl-433/internal/device"
)

func TestEncodeGoldenLiteral(t *testing.T) {
	row := Encode(Frame{RollingCode: 5, ChannelRaw: 3, Sequence: 1, BatteryOK: true, TemperatureC: 24.8})
	if got := row.String(); got != goldenRow {
		t.Errorf("Encode() = %s, want %s", got, goldenRow)
	}
}

func TestEncodeBitCount(t *testing.T) {
	tests := []struct {
		drop int
		want int
	}{
		{0, 90},
		{3, 87},
		{4, 86},
		{-1, 90}, // negative drops are ignored
		{9, 86},  // drops clamp at the sync scan window
	}
	for _, tt := range tests {
		row := Encode(Frame{TemperatureC: 1, DropLeadingBits: tt.drop})
		if got := row.BitCount(); got != tt.want {
			t.Errorf("drop %d: BitCount() = %d, want %d", tt.drop, got, tt.want)
		}
	}
}

func TestEncodeDefaultSubtype(t *testing.T) {
	// The zero Subtype encodes the thermo/hygro variant, which must
	// decode cleanly.
	d := testDecoder()
	rec, status := d.Decode([]bitbuf.Row{Encode(Frame{TemperatureC: 12.3})})
	if status != device.StatusOK {
		t.Fatalf("status = %v, want ok", status)
	}
	if rec.TemperatureC != 12.3 {
		t.Errorf("TemperatureC = %v, want 12.3", rec.TemperatureC)
	}
}
