// Package codec implements the low-level binary primitives the container
// format is built from: LEB128 varints, delta-encoded integer lists, CRC32
// checksums and front-coded sorted strings.
package codec

import (
	"github.com/staticdex/staticdex/internal/errors"
)

// maxVarintBytes is the most bytes a 64-bit varint can occupy; a tenth byte
// of pure continuation bits is never valid and signals a corrupt stream.
const maxVarintBytes = 10

// EncodeVarint appends the LEB128 encoding of v to buf and returns the
// extended slice.
func EncodeVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// DecodeVarint decodes a LEB128 varint from the front of buf, returning the
// value and the number of bytes consumed.
func DecodeVarint(buf []byte) (uint64, int, error) {
	if len(buf) == 0 {
		return 0, 0, errors.CodecError(errors.ErrCodeEmptyBuffer, "varint: empty buffer", nil)
	}

	var v uint64
	var shift uint
	for i := 0; i < len(buf); i++ {
		if i >= maxVarintBytes {
			return 0, 0, errors.CodecError(errors.ErrCodeOverlongVarint, "varint: more than 10 bytes", nil)
		}
		b := buf[i]
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, errors.CodecError(errors.ErrCodeTruncatedVarint, "varint: truncated, continuation bit set at end of buffer", nil)
}

// VarintLen returns the number of bytes EncodeVarint would produce for v.
func VarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		n++
		v >>= 7
	}
	return n
}
