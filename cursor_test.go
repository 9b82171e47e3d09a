// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

import (
	"encoding/binary"
	"testing"
)

func TestCursorSeekAndRestores(t *testing.T) {
	data := make([]byte, 32)
	c := NewCursor(data, binary.LittleEndian)

	if _, err := c.ReadU32(); err != nil {
		t.Fatalf("ReadU32 failed: %v", err)
	}
	before := c.Position()

	err := c.SeekAnd(16, func() error {
		if c.Position() != 16 {
			t.Errorf("inside SeekAnd, position = %d, want 16", c.Position())
		}
		_, err := c.ReadU32()
		return err
	})
	if err != nil {
		t.Fatalf("SeekAnd failed: %v", err)
	}
	if c.Position() != before {
		t.Errorf("position after SeekAnd = %d, want restored %d", c.Position(), before)
	}
}

func TestCursorSeekAndRestoresOnError(t *testing.T) {
	data := make([]byte, 8)
	c := NewCursor(data, binary.LittleEndian)
	before := c.Position()

	wantErr := newErr("test", 0, KindDecode)
	err := c.SeekAnd(4, func() error {
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("SeekAnd returned %v, want %v", err, wantErr)
	}
	if c.Position() != before {
		t.Errorf("position after failing SeekAnd = %d, want restored %d", c.Position(), before)
	}
}

func TestCursorSeekAndOutOfRange(t *testing.T) {
	c := NewCursor(make([]byte, 4), binary.LittleEndian)
	err := c.SeekAnd(100, func() error { return nil })
	xerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error is %T, want *Error", err)
	}
	if xerr.Kind != KindInvalidSeek {
		t.Errorf("kind = %v, want KindInvalidSeek", xerr.Kind)
	}
}

func TestCursorReadExactBoundsCheck(t *testing.T) {
	c := NewCursor(make([]byte, 4), binary.LittleEndian)
	if _, err := c.ReadExact(4); err != nil {
		t.Fatalf("ReadExact(4) at empty cursor failed: %v", err)
	}
	if _, err := c.ReadExact(1); err == nil {
		t.Fatal("ReadExact past the end should fail")
	}
}

func TestCursorFloatRoundTrip(t *testing.T) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], 0x3F800000) // 1.0f
	c := NewCursor(buf[:], binary.LittleEndian)
	v, err := c.ReadF32()
	if err != nil {
		t.Fatalf("ReadF32 failed: %v", err)
	}
	if v != 1.0 {
		t.Errorf("ReadF32() = %v, want 1.0", v)
	}
}
