package smf

// This file contains the Cursor type, which every decoding function in this
// package reads from.

import (
	"bufio"
	"bytes"
	"io"
)

// Reads SMF data one byte at a time from an underlying io.ByteReader. A
// Cursor never seeks or peeks, so after any error it must not be used again.
type Cursor struct {
	src io.ByteReader
	// Non-nil if this cursor was returned by Limit. In that case all bytes
	// come from the parent, and remaining counts down to 0.
	parent    *Cursor
	remaining int64
	offset    int64
}

// Returns a Cursor reading from r. If r doesn't implement io.ByteReader it
// will be wrapped in a bufio.Reader, so it may be read past the end of the
// SMF data.
func NewCursor(r io.Reader) *Cursor {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Cursor{
		src: br,
	}
}

// Returns a Cursor reading from an in-memory slice.
func NewBytesCursor(data []byte) *Cursor {
	return NewCursor(bytes.NewReader(data))
}

// Returns a new Cursor that reads at most n bytes from c. The returned cursor
// reaches a clean end after exactly n bytes; if c ends before then, reading
// from the returned cursor produces an ErrBrokenFormat error. While the
// returned cursor is in use, c must not be read directly.
func (c *Cursor) Limit(n uint32) *Cursor {
	return &Cursor{
		parent:    c,
		remaining: int64(n),
		offset:    c.offset,
	}
}

// Returns the number of bytes consumed from the start of the outermost
// source.
func (c *Cursor) Offset() int64 {
	return c.offset
}

// Returns the number of bytes left before a limited cursor's end, or -1 if c
// wasn't created by Limit.
func (c *Cursor) Remaining() int64 {
	if c.parent == nil {
		return -1
	}
	return c.remaining
}

// Returns the next byte. Returns io.EOF if and only if the data ended cleanly
// before this byte: at the end of the source for an unlimited cursor, or at
// the limit for one created by Limit.
func (c *Cursor) next() (byte, error) {
	if c.parent != nil {
		if c.remaining <= 0 {
			return 0, io.EOF
		}
		b, e := c.parent.next()
		if e != nil {
			if e == io.EOF {
				return 0, brokenFormat(c.offset, "data ended %d bytes before "+
					"the end of its chunk", c.remaining)
			}
			return 0, e
		}
		c.remaining--
		c.offset++
		return b, nil
	}
	b, e := c.src.ReadByte()
	if e != nil {
		if e == io.EOF {
			return 0, io.EOF
		}
		return 0, &IOError{
			Offset: c.offset,
			Err:    e,
		}
	}
	c.offset++
	return b, nil
}

// Reads and returns the next byte. Running out of data is an ErrBrokenFormat
// error here; the source's own failures are returned as an *IOError.
func (c *Cursor) NextByte() (byte, error) {
	b, e := c.next()
	if e == io.EOF {
		return 0, unexpectedEnd(c.offset)
	}
	return b, e
}

// Caps the up-front allocation for length-prefixed data, so a bogus length
// can't allocate more than the input actually holds.
const maxPrealloc = 4096

// Reads exactly n bytes. The returned slice is never nil, even if n is 0.
func (c *Cursor) ReadBytes(n uint32) ([]byte, error) {
	capacity := n
	if capacity > maxPrealloc {
		capacity = maxPrealloc
	}
	toReturn := make([]byte, 0, capacity)
	for i := uint32(0); i < n; i++ {
		b, e := c.NextByte()
		if e != nil {
			return nil, e
		}
		toReturn = append(toReturn, b)
	}
	return toReturn, nil
}

// Consumes and discards exactly n bytes.
func (c *Cursor) Skip(n uint32) error {
	for i := uint32(0); i < n; i++ {
		_, e := c.NextByte()
		if e != nil {
			return e
		}
	}
	return nil
}
