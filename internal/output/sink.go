package output

import (
	"errors"

	"github.com/SergeyKa2021/rtl-433/internal/device"
)

// Sink consumes decoded sensor records.
type Sink interface {
	// Publish delivers one record. Implementations must not retain the
	// record past the call.
	Publish(rec *device.Record) error
	// Close releases the sink's resources. Publish must not be called
	// after Close.
	Close() error
}

// MultiSink fans records out to every child sink. Publish keeps going
// after a child fails and returns the joined errors.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink wraps the given sinks. Nil entries are skipped.
func NewMultiSink(sinks ...Sink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Publish delivers rec to every child.
func (m *MultiSink) Publish(rec *device.Record) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Publish(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every child and returns the joined errors.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
