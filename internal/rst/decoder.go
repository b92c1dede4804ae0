package rst

import (
	"time"

	"go.uber.org/zap"

	"github.com/SergeyKa2021/rtl-433/internal/bitbuf"
	"github.com/SergeyKa2021/rtl-433/internal/checksum"
	"github.com/SergeyKa2021/rtl-433/internal/device"
	"github.com/SergeyKa2021/rtl-433/internal/logging"
)

// Model is the model identifier reported in decoded records.
const Model = "RST-Temperature"

const (
	// maxPacketLen bounds the unstuffed packet buffer; it is sized for
	// the largest frame any subtype of this family transmits.
	maxPacketLen = 10
	// frameLen is the unstuffed length, sync byte included, of the
	// temperature frame, the one shape this core decodes.
	frameLen = 10
	// syncPattern is the 9-bit header as it appears on the raw,
	// uninverted capture.
	syncPattern = 0x0d
	// syncWindow is how many bit offsets the sync scan tries, allowing
	// for leading bits lost to late bit lock.
	syncWindow = 4

	crcPoly = 0x07
	crcInit = 0x00
)

// Sensor subtype codes carried in payload byte 2. Only the
// thermo/hygro variant is decodable; the others are recognized members
// of the family awaiting implementation.
const (
	subtypeAnemometer  = 0x0c
	subtypeUV          = 0x0d
	subtypeRain        = 0x0e
	subtypeThermoHygro = 0x1e
)

func init() {
	device.Register(New())
}

// Decoder is the RST decode core. It holds no per-call state and is
// safe for concurrent use.
type Decoder struct {
	now func() time.Time
}

// New returns a ready Decoder.
func New() *Decoder {
	return &Decoder{now: time.Now}
}

// Protocol returns the registration metadata the capture host uses to
// route demodulated rows to this core.
func (d *Decoder) Protocol() device.Protocol {
	return device.Protocol{
		Name:       Model,
		Modulation: device.ModOOKPulseDMC,
		ShortWidth: 520,
		LongWidth:  1040,
		ResetLimit: 4000,
		Tolerance:  240,
		Fields: []string{
			"model", "id", "channel", "battery_ok", "temperature_C",
			"humidity", "wind_avg_mi_h", "wind_max_mi_h", "wind_approach",
			"wind_dir_deg", "rain_mm", "mic",
		},
	}
}

// rowResult makes the row loop's control flow an explicit value:
// either keep scanning with a per-row classification, or stop with a
// final outcome.
type rowResult struct {
	stop   bool
	status device.Status
	record *device.Record
}

func scanNext(status device.Status) rowResult {
	return rowResult{status: status}
}

func stopScan(rec *device.Record, status device.Status) rowResult {
	return rowResult{stop: true, status: status, record: rec}
}

// Decode evaluates the capture's rows in order. The first row that
// validates fully produces the record; otherwise the classification of
// the last row attempted is returned. An unknown sensor subtype is
// terminal for the whole capture.
func (d *Decoder) Decode(rows []bitbuf.Row) (*device.Record, device.Status) {
	last := device.StatusLengthMismatch
	for i, row := range rows {
		res := d.decodeRow(row)
		if res.stop {
			return res.record, res.status
		}
		logging.Debug("row rejected",
			zap.Int("row", i),
			zap.Stringer("status", res.status),
			zap.Stringer("bits", row),
		)
		last = res.status
	}
	return nil, last
}

func (d *Decoder) decodeRow(row bitbuf.Row) rowResult {
	// Expect 10 unstuffed bytes, allowing up to 4 missing bits.
	unstuffed := (row.BitCount() + 4) / 9
	if unstuffed != frameLen {
		return scanNext(device.StatusLengthMismatch)
	}
	unstuffed-- // the sync byte is not part of the payload

	start, ok := locateSync(row)
	if !ok {
		return scanNext(device.StatusSyncNotFound)
	}

	// The link transmits inverted polarity. Work on an inverted copy so
	// the caller's row survives the attempt and can be decoded again.
	inv := row.Invert()

	var packet [maxPacketLen]byte
	payload := packet[:unstuffed]
	if !unstuffBytes(inv, start, payload) {
		return scanNext(device.StatusParityError)
	}

	if checksum.XORBytes(payload[:unstuffed-1]) != 0 {
		return scanNext(device.StatusXORError)
	}
	if checksum.CRC8(payload, crcPoly, crcInit) != 0 {
		return scanNext(device.StatusCRCError)
	}

	// The checksums are defined over the as-received LSB-first bit
	// order; the field layout is MSB-first.
	checksum.ReflectBytes(payload)

	return d.decodeFields(payload)
}

// locateSync slides a 9-bit window over the first raw bytes looking
// for the header pattern. It returns the payload start offset in bits.
func locateSync(row bitbuf.Row) (int, bool) {
	window := int(row.Byte(0))<<1 | int(row.Byte(1))>>7
	for i := 0; i < syncWindow; i++ {
		if window == syncPattern {
			return 9 - i, true
		}
		window >>= 1
	}
	return 0, false
}

// unstuffBytes extracts len(dst) stuffed bytes from the inverted row
// starting at bit offset start, validating the even-parity bit that
// trails each one. It stops at the first parity failure; dst contents
// are then meaningless.
func unstuffBytes(inv bitbuf.Row, start int, dst []byte) bool {
	for i := range dst {
		off := start + i*9
		b := inv.Byte(off/8)<<(off%8) | inv.Byte(off/8+1)>>(8-off%8)
		parity := (inv.Byte(off/8+1) >> (7 - off%8)) & 1
		if parity != checksum.Parity8(b) {
			logging.Debug("parity error", zap.Int("byte", i))
			return false
		}
		dst[i] = b
	}
	return true
}

func (d *Decoder) decodeFields(payload []byte) rowResult {
	declared := int(payload[1]>>1) & 0x1f
	if declared+2 != len(payload) {
		logging.Debug("declared length mismatch",
			zap.Int("declared", declared),
			zap.Int("actual", len(payload)),
		)
		return scanNext(device.StatusPacketLengthMismatch)
	}

	subtype := payload[2] & 0x1f
	switch subtype {
	case subtypeThermoHygro:
		// decoded below
	case subtypeAnemometer, subtypeUV, subtypeRain:
		// Recognized members of the sensor family without a decode path
		// yet. Terminal for the capture: other rows of the same
		// transmission carry the same subtype.
		logging.Debug("recognized but unsupported sensor subtype",
			zap.Uint8("subtype", subtype))
		return stopScan(nil, device.StatusUnknownSubtype)
	default:
		logging.Debug("unknown sensor subtype", zap.Uint8("subtype", subtype))
		return stopScan(nil, device.StatusUnknownSubtype)
	}

	channel := int(payload[0]>>5) & 0x0f
	if channel >= 5 {
		channel-- // channel numbering skips a reserved value
	}
	code := int(payload[0] & 0x0f)

	temp := int(payload[4]&0x0f)*100 + int(payload[3]>>4&0x0f)*10 + int(payload[3]&0x0f)
	if (payload[4]>>7)&1 == 0 {
		temp = -temp // sign bit 0 means below zero
	}
	battery := int(payload[4]>>6) & 1

	return stopScan(&device.Record{
		Time:         d.now(),
		Model:        Model,
		ID:           code,
		Channel:      channel,
		BatteryOK:    battery,
		TemperatureC: float64(temp) / 10,
		MIC:          "CRC",
	}, device.StatusOK)
}
