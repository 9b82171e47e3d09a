// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

import "testing"

func TestBlockAddressSpaceResolve(t *testing.T) {
	b := NewBlockAddressSpace([numBlocks]uint32{10, 20, 0, 0, 0, 0, 0})

	block, offset, err := b.Resolve(1) // dec=0, block=0, within=0
	if err != nil {
		t.Fatalf("Resolve(1) failed: %v", err)
	}
	if block != 0 || offset != 0 {
		t.Errorf("Resolve(1) = (%d, %d), want (0, 0)", block, offset)
	}

	// Token 0x20000005: dec = 0x20000004, block = 1, within = 4.
	block, offset, err = b.Resolve(0x20000005)
	if err != nil {
		t.Fatalf("Resolve(0x20000005) failed: %v", err)
	}
	if block != 1 || offset != 14 { // prefix[1] = 10
		t.Errorf("Resolve(0x20000005) = (%d, %d), want (1, 14)", block, offset)
	}

	if _, _, err := b.Resolve(0xE0000001); err == nil {
		t.Fatal("Resolve with block index 7 should fail")
	} else if xerr, ok := err.(*Error); !ok || xerr.Kind != KindInvalidSeek {
		t.Errorf("got %v, want KindInvalidSeek", err)
	}
}

func TestBlockAddressSpaceTotal(t *testing.T) {
	b := NewBlockAddressSpace([numBlocks]uint32{1, 2, 3, 4, 5, 6, 7})
	if got, want := b.Total(), uint32(28); got != want {
		t.Errorf("Total() = %d, want %d", got, want)
	}
}

func TestSentinels(t *testing.T) {
	if !IsNull(0) {
		t.Error("0 should be null")
	}
	if IsNull(tokenInline) {
		t.Error("tokenInline should not be null")
	}
	if !IsInline(tokenInline) || !IsInline(tokenInlineRare) {
		t.Error("both 0xFFFFFFFF and 0xFFFFFFFE should be inline")
	}
	if IsInline(1) {
		t.Error("an absolute token should not be inline")
	}
}
