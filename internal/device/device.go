package device

import (
	"fmt"
	"time"
)

// Modulation identifies the radio modulation family a protocol uses.
type Modulation string

const (
	// ModOOKPulseDMC is pulse-width coded OOK with a differential
	// ("double") Manchester-like scheme.
	ModOOKPulseDMC Modulation = "OOK_PULSE_DMC"
)

// Protocol is the registration metadata for one sensor protocol. The
// timing values are in microseconds and describe the demodulator
// configuration under which this decoder's captures arrive.
type Protocol struct {
	Name       string
	Modulation Modulation
	ShortWidth int // nominal half-bit width
	LongWidth  int // nominal bit width
	ResetLimit int // inter-frame reset gap
	Tolerance  int // pulse timing tolerance
	Fields     []string
}

func (p Protocol) String() string {
	return fmt.Sprintf("%s (%s short=%dus long=%dus reset=%dus tol=%dus)",
		p.Name, p.Modulation, p.ShortWidth, p.LongWidth, p.ResetLimit, p.Tolerance)
}

// Status classifies the outcome of a decode attempt.
type Status int

const (
	// StatusOK means a row decoded fully and a Record was produced.
	StatusOK Status = iota
	// StatusLengthMismatch means the row's bit count does not fit any
	// frame shape the decoder knows.
	StatusLengthMismatch
	// StatusSyncNotFound means the header bit pattern was absent
	// within the allowed offset window.
	StatusSyncNotFound
	// StatusParityError means a stuffed byte failed its parity bit.
	StatusParityError
	// StatusXORError means the payload's running XOR was nonzero.
	StatusXORError
	// StatusCRCError means the payload's CRC residue was nonzero.
	StatusCRCError
	// StatusPacketLengthMismatch means the declared payload length
	// disagrees with the unstuffed length.
	StatusPacketLengthMismatch
	// StatusUnknownSubtype means the frame validated but carries a
	// sensor subtype this decoder cannot interpret. Unlike the other
	// classifications it aborts the remaining rows of the capture.
	StatusUnknownSubtype
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusLengthMismatch:
		return "length_mismatch"
	case StatusSyncNotFound:
		return "sync_not_found"
	case StatusParityError:
		return "parity_error"
	case StatusXORError:
		return "xor_checksum_error"
	case StatusCRCError:
		return "crc_error"
	case StatusPacketLengthMismatch:
		return "packet_length_mismatch"
	case StatusUnknownSubtype:
		return "unknown_sensor_subtype"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Fatal reports whether the status terminates the whole capture rather
// than just the row that produced it.
func (s Status) Fatal() bool {
	return s == StatusUnknownSubtype
}

// Record is one decoded sensor reading, constructed once per
// successful row and handed to the output layer. It is a value type;
// nothing mutates it after construction.
type Record struct {
	Time         time.Time `json:"time"`
	Model        string    `json:"model"`
	ID           int       `json:"id"`
	Channel      int       `json:"channel"`
	BatteryOK    int       `json:"battery_ok"`
	TemperatureC float64   `json:"temperature_C"`
	// MIC names the integrity mechanism that validated the frame.
	MIC string `json:"mic"`
}

func (r *Record) String() string {
	return fmt.Sprintf("%s id=%d channel=%d battery_ok=%d temperature=%.1fC mic=%s",
		r.Model, r.ID, r.Channel, r.BatteryOK, r.TemperatureC, r.MIC)
}
