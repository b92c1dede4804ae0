// Package checksum provides the small integrity primitives shared by
// device decoders: CRC-8, even parity, XOR reduction and per-byte bit
// reflection.
package checksum

// CRC8 computes a CRC-8 over data with the given polynomial and
// initial value. Bits are processed MSB-first with no reflection and
// no final XOR. A payload whose last byte is the transmitted CRC
// reduces to zero.
func CRC8(data []byte, poly, init byte) byte {
	crc := init
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// Parity8 returns the even-parity bit of b: 0 when the number of set
// bits is even, 1 when odd.
func Parity8(b byte) byte {
	b ^= b >> 4
	b ^= b >> 2
	b ^= b >> 1
	return b & 1
}

// XORBytes folds data together with XOR. A payload carrying a trailing
// XOR byte reduces to zero when intact.
func XORBytes(data []byte) byte {
	var x byte
	for _, b := range data {
		x ^= b
	}
	return x
}

// ReflectByte reverses the bit order of b, swapping bit 0 with bit 7,
// bit 1 with bit 6 and so on.
func ReflectByte(b byte) byte {
	b = b>>4 | b<<4
	b = b>>2&0x33 | b<<2&0xCC
	b = b>>1&0x55 | b<<1&0xAA
	return b
}

// ReflectBytes reverses the bit order of every byte of data in place.
// Used to convert an LSB-first transmission into the MSB-first layout
// the field definitions are written against.
func ReflectBytes(data []byte) {
	for i, b := range data {
		data[i] = ReflectByte(b)
	}
}
