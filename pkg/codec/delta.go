package codec

// EncodeDeltaList encodes an ascending sequence of uint64 values as the
// first value followed by successive differences, each varint-coded.
func EncodeDeltaList(buf []byte, values []uint64) []byte {
	buf = EncodeVarint(buf, uint64(len(values)))
	var prev uint64
	for i, v := range values {
		if i == 0 {
			buf = EncodeVarint(buf, v)
		} else {
			buf = EncodeVarint(buf, v-prev)
		}
		prev = v
	}
	return buf
}

// DecodeDeltaList reconstructs the original ascending sequence by
// prefix-summing the deltas, returning the values and bytes consumed.
func DecodeDeltaList(buf []byte) ([]uint64, int, error) {
	n, consumed, err := DecodeVarint(buf)
	if err != nil {
		return nil, 0, err
	}
	total := consumed

	values := make([]uint64, 0, n)
	var acc uint64
	for i := uint64(0); i < n; i++ {
		d, c, err := DecodeVarint(buf[total:])
		if err != nil {
			return nil, 0, err
		}
		total += c
		if i == 0 {
			acc = d
		} else {
			acc += d
		}
		values = append(values, acc)
	}
	return values, total, nil
}
