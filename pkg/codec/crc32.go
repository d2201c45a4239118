package codec

import "hash/crc32"

// ieeeTable is the standard CRC32 IEEE polynomial table (0xEDB88320),
// used to validate a container's bytes against its footer checksum.
var ieeeTable = crc32.MakeTable(crc32.IEEE)

// CRC32 computes the IEEE CRC32 checksum of data.
func CRC32(data []byte) uint32 {
	return crc32.Checksum(data, ieeeTable)
}

// PutUint32LE appends v to buf in little-endian byte order.
func PutUint32LE(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// Uint32LE reads a little-endian uint32 from the front of buf.
func Uint32LE(buf []byte) uint32 {
	_ = buf[3]
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}
