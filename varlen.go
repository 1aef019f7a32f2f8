package smf

// This file contains the fixed-width and variable-length integer readers.

import (
	"io"
)

// Reads a 16-bit big-endian integer.
func (c *Cursor) NextU16() (uint16, error) {
	var toReturn uint16
	for i := 0; i < 2; i++ {
		b, e := c.NextByte()
		if e != nil {
			return 0, e
		}
		toReturn = (toReturn << 8) | uint16(b)
	}
	return toReturn, nil
}

// Reads a 32-bit big-endian integer.
func (c *Cursor) NextU32() (uint32, error) {
	var toReturn uint32
	for i := 0; i < 4; i++ {
		b, e := c.NextByte()
		if e != nil {
			return 0, e
		}
		toReturn = (toReturn << 8) | uint32(b)
	}
	return toReturn, nil
}

// Reads a 4-byte chunk type, such as "MThd" or "MTrk". The bytes aren't
// checked for being printable.
func (c *Cursor) ReadTag() (string, error) {
	var tag [4]byte
	for i := range tag {
		b, e := c.NextByte()
		if e != nil {
			return "", e
		}
		tag[i] = b
	}
	return string(tag[:]), nil
}

// Reads a 4-byte chunk type and returns true if it equals expected. The four
// bytes are consumed whether or not they match.
func (c *Cursor) CheckTag(expected string) (bool, error) {
	tag, e := c.ReadTag()
	if e != nil {
		return false, e
	}
	return tag == expected, nil
}

// The largest value a MIDI variable-length quantity may hold.
const MaxVarLen = 0x0fffffff

// Reads a MIDI-format variable-length quantity. The second return value is
// false, with a nil error, if the cursor ended cleanly before the first byte.
// Ending after the first byte is an ErrBrokenFormat error, as is a quantity
// longer than 4 bytes.
func (c *Cursor) TryReadVarLen() (uint32, bool, error) {
	start := c.offset
	b, e := c.next()
	if e == io.EOF {
		return 0, false, nil
	}
	if e != nil {
		return 0, false, e
	}
	toReturn := uint32(0)
	for i := 1; (b & 0x80) != 0; i++ {
		if i == 4 {
			return 0, false, brokenFormat(start, "variable-length quantity "+
				"is longer than 4 bytes")
		}
		toReturn = (toReturn << 7) | uint32(b&0x7f)
		b, e = c.NextByte()
		if e != nil {
			return 0, false, e
		}
	}
	toReturn = (toReturn << 7) | uint32(b)
	return toReturn, true, nil
}

// Like TryReadVarLen, but a clean end before the first byte is also an
// ErrBrokenFormat error.
func (c *Cursor) ReadVarLen() (uint32, error) {
	toReturn, ok, e := c.TryReadVarLen()
	if e != nil {
		return 0, e
	}
	if !ok {
		return 0, unexpectedEnd(c.offset)
	}
	return toReturn, nil
}
