package device

import (
	"fmt"
	"sync"

	"github.com/SergeyKa2021/rtl-433/internal/bitbuf"
)

// Decoder is implemented by each sensor decode core. Decode evaluates
// the rows of one capture in order and either produces a record (first
// success wins) or the classification of the last row attempted. A
// fatal classification aborts the scan early.
//
// Decode is synchronous and keeps no state between calls. The cores in
// this repository never mutate the rows they are given, so a capture
// can be offered to several decoders without copying.
type Decoder interface {
	Protocol() Protocol
	Decode(rows []bitbuf.Row) (*Record, Status)
}

var (
	regMu    sync.RWMutex
	registry []Decoder
)

// Register stores a decoder in the global registry. Decode cores call
// this from init.
func Register(d Decoder) {
	regMu.Lock()
	defer regMu.Unlock()
	registry = append(registry, d)
}

// Decoders returns the registered decoders in registration order.
func Decoders() []Decoder {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]Decoder, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the decoder registered under the given protocol name.
func Lookup(name string) (Decoder, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	for _, d := range registry {
		if d.Protocol().Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no decoder registered for protocol %q", name)
}
