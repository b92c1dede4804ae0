// Package rst decodes transmissions from RST Sweden temperature
// sensors (a Hideki-derived protocol).
//
// # Frame format
//
// The radio link transmits with inverted polarity. After re-inversion
// the stream is a 9-bit sync byte followed by nine stuffed bytes: each
// byte is 8 data bits MSB-on-air first with one even-parity bit
// appended. The unstuffed payload layout (after per-byte bit
// reflection, since fields are defined MSB-first but bytes arrive
// LSB-first):
//
//	byte 0   rolling code (low nibble), channel (bits 5-7)
//	byte 1   declared payload length (bits 1-5)
//	byte 2   sequence (bits 6-7), sensor subtype (bits 0-4)
//	byte 3   temperature, BCD tenths and ones
//	byte 4   temperature BCD hundreds, battery bit 6, sign bit 7
//	byte 5-6 humidity and unknown fields (unused by this variant)
//	byte 7   XOR of bytes 0-6
//	byte 8   CRC-8, poly 0x07 init 0x00, over bytes 0-7
//
// The sign bit has inverted sense: 0 means negative. Channel numbering
// skips a reserved value, so raw channels of 5 and above are shifted
// down by one.
//
// # Validation
//
// A frame is accepted only when every parity bit checks out, the XOR
// over all payload bytes except the CRC reduces to zero, the CRC
// residue over the whole payload is zero, and the declared length
// agrees with the unstuffed length. Validation failures are expected
// outcomes of noisy reception and come back as device.Status codes,
// never as partial records.
//
// Up to four leading bits of the sync pattern may be lost to late bit
// lock; the sync scan slides over that window before giving up.
//
// The package also provides Encode, the exact inverse of the decode
// pipeline, used to build synthetic captures for tests and test-signal
// generation.
package rst
