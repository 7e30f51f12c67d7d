package colmap

import (
	"encoding/binary"
	"math"
)

// cursor is a forward-only little-endian reader over a raw file buffer.
//
// All three files in the sparse model format interleave fixed-width fields
// with data-dependent ones (param counts via model lookup, array lengths via
// a preceding count, string lengths via a NUL sentinel), so records cannot
// be overlaid as fixed structs. Every read bounds-checks and advances; a
// read past the end returns ErrBufferTruncated wrapped with the file name
// and the offset at which the cursor stopped.
type cursor struct {
	buf  []byte
	off  int
	file string
}

func newCursor(file string, buf []byte) *cursor {
	return &cursor{buf: buf, file: file}
}

// need reports a truncation error unless n more bytes are available.
func (c *cursor) need(n int) error {
	if c.off+n > len(c.buf) {
		return decodeErr(c.file, c.off, ErrBufferTruncated)
	}
	return nil
}

func (c *cursor) uint8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.buf[c.off]
	c.off++
	return v, nil
}

func (c *cursor) int32() (int32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.LittleEndian.Uint32(c.buf[c.off:]))
	c.off += 4
	return v, nil
}

func (c *cursor) int64() (int64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := int64(binary.LittleEndian.Uint64(c.buf[c.off:]))
	c.off += 8
	return v, nil
}

func (c *cursor) uint64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v, nil
}

// count reads a uint64 element count and rejects any value whose minimum
// encoded size exceeds the bytes remaining. Counts come straight off the
// wire, so without this check a corrupt field (say 1<<62) would size an
// allocation before the per-element reads could catch the truncation.
func (c *cursor) count(minElemSize int) (uint64, error) {
	at := c.off
	n, err := c.uint64()
	if err != nil {
		return 0, err
	}
	if n > uint64(len(c.buf)-c.off)/uint64(minElemSize) {
		return 0, decodeErr(c.file, at, ErrBufferTruncated)
	}
	return n, nil
}

func (c *cursor) float64() (float64, error) {
	bits, err := c.uint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// cstring reads a NUL-terminated byte string. The terminator is consumed
// but not included. Hitting the end of the buffer before the terminator is
// a truncation error, so a corrupt file cannot send the scan off the end.
func (c *cursor) cstring() (string, error) {
	start := c.off
	for c.off < len(c.buf) {
		if c.buf[c.off] == 0 {
			s := string(c.buf[start:c.off])
			c.off++
			return s, nil
		}
		c.off++
	}
	return "", decodeErr(c.file, c.off, ErrBufferTruncated)
}
