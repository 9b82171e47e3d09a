// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

import (
	"encoding/binary"
	"math"
)

// Cursor is a seekable, position-tracked reader over the inflated
// payload. It is the only component in this package that ever performs an
// absolute seek, via SeekAnd; every other reader composes on top of it.
//
// Reads are boundary-checked against the payload length before any bytes
// are consumed, generalized into a stateful cursor instead of a one-shot
// offset+size read, because the wire format here is read sequentially
// rather than directory-indexed.
type Cursor struct {
	data  []byte
	pos   uint32
	order binary.ByteOrder

	// counts of each inline sentinel seen, kept for telemetry so the pass
	// can log the rarer 0xFFFFFFFE when it is observed.
	inlineFFSeen uint64
	inlineFESeen uint64
}

// NewCursor wraps data for sequential reads in the given byte order.
func NewCursor(data []byte, order binary.ByteOrder) *Cursor {
	return &Cursor{data: data, order: order}
}

// Position returns the current read offset.
func (c *Cursor) Position() uint32 { return c.pos }

// Length returns the total payload length.
func (c *Cursor) Length() uint32 { return uint32(len(c.data)) }

// boundsCheck verifies [offset, offset+size) lies within the payload,
// guarding against integer overflow in the offset+size addition.
func (c *Cursor) boundsCheck(site string, offset, size uint32) *Error {
	total := offset + size
	if (total > offset) != (size > 0) && size != 0 {
		return newErrSeek(site, offset, c.Length())
	}
	if offset > c.Length() || total > c.Length() {
		return newErrSeek(site, offset, c.Length())
	}
	return nil
}

// ReadExact consumes n bytes at the current position and advances it.
func (c *Cursor) ReadExact(n uint32) ([]byte, error) {
	if err := c.boundsCheck("Cursor.ReadExact", c.pos, n); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.ReadExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads one signed byte.
func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

// ReadU16 reads a 16-bit unsigned integer in the cursor's byte order.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.ReadExact(2)
	if err != nil {
		return 0, err
	}
	return c.order.Uint16(b), nil
}

// ReadU32 reads a 32-bit unsigned integer in the cursor's byte order.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.ReadExact(4)
	if err != nil {
		return 0, err
	}
	return c.order.Uint32(b), nil
}

// ReadI32 reads a 32-bit signed integer in the cursor's byte order.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// ReadF32 reads an IEEE-754 single-precision float.
func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// SeekAnd saves the current position, jumps to target, invokes f, then
// unconditionally restores the saved position -- even if f returns an
// error. This is the only place absolute seeks happen; schema code must
// route every pointer traversal through it.
func (c *Cursor) SeekAnd(target uint32, f func() error) error {
	if target > c.Length() {
		return newErrSeek("Cursor.SeekAnd", target, c.Length())
	}
	saved := c.pos
	c.pos = target
	err := f()
	c.pos = saved
	return err
}
