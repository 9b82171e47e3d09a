// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

import (
	"bytes"
	"testing"
)

// TestMinimalFile covers an empty asset list, no
// script strings, final cursor position equal to the declared size.
func TestMinimalFile(t *testing.T) {
	order := PlatformWindows.ByteOrder()
	var body bytes.Buffer
	u32At(&body, order, 0) // strings count
	u32At(&body, order, 0) // strings ptr
	u32At(&body, order, 0) // assets count
	u32At(&body, order, 0) // assets ptr

	blocks := [numBlocks]uint32{}
	inflated := buildInflated(order, blocks, body.Bytes())
	blocks[0] = uint32(len(inflated))
	inflated = buildInflated(order, blocks, body.Bytes())

	container := buildContainer(PlatformWindows, inflated)

	d, err := NewBytes(container, &Options{Platform: PlatformWindows})
	if err != nil {
		t.Fatalf("NewBytes failed: %v", err)
	}
	result, err := d.Deserialize()
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if len(result.Assets) != 0 {
		t.Errorf("got %d assets, want 0", len(result.Assets))
	}
	if d.Position() != uint32(len(inflated)) {
		t.Errorf("final position = %d, want %d", d.Position(), len(inflated))
	}
}

// TestOneRawFileAsset covers a single RAWFILE asset
// whose name and buffer are both inline.
func TestOneRawFileAsset(t *testing.T) {
	order := PlatformWindows.ByteOrder()
	var body bytes.Buffer
	u32At(&body, order, 0)          // strings count
	u32At(&body, order, 0)          // strings ptr
	u32At(&body, order, 1)          // assets count
	u32At(&body, order, tokenInline) // assets ptr: records start right here

	u32At(&body, order, uint32(AssetRawFile)) // asset_type
	u32At(&body, order, tokenInline)          // asset_data: inline, right here

	// The 12-byte raw struct is read as one block before either of its
	// pointers is dereferenced, so both inline referents follow it, in
	// field order.
	u32At(&body, order, tokenInline) // name: inline
	u32At(&body, order, 5)           // buffer count
	u32At(&body, order, tokenInline) // buffer ptr: inline
	body.Write(nulString("hello"))
	body.WriteString("world")

	blocks := [numBlocks]uint32{}
	inflated := buildInflated(order, blocks, body.Bytes())
	container := buildContainer(PlatformWindows, inflated)

	d, err := NewBytes(container, &Options{Platform: PlatformWindows})
	if err != nil {
		t.Fatalf("NewBytes failed: %v", err)
	}
	result, err := d.Deserialize()
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if len(result.Assets) != 1 {
		t.Fatalf("got %d assets, want 1", len(result.Assets))
	}
	rf, ok := result.Assets[0].Data.(RawFile)
	if !ok {
		t.Fatalf("asset data is %T, want RawFile", result.Assets[0].Data)
	}
	if rf.Name != "hello" {
		t.Errorf("name = %q, want %q", rf.Name, "hello")
	}
	if string(rf.Buffer) != "world" {
		t.Errorf("buffer = %q, want %q", string(rf.Buffer), "world")
	}
	if d.Position() != uint32(len(inflated)) {
		t.Errorf("final position = %d, want %d", d.Position(), len(inflated))
	}
}

// TestScriptStringFanOut covers a font referencing
// ScriptString(1), and the BadScriptString failure when the index is
// mutated out of range.
func TestScriptStringFanOut(t *testing.T) {
	build := func(styleIdx uint16) []byte {
		order := PlatformWindows.ByteOrder()
		var body bytes.Buffer
		// The 16-byte envelope is read as a unit: both fat pointers
		// first, before either referent is dereferenced. With both
		// tokens inline, the strings referent (resolved first) starts
		// right after the envelope, and the assets referent (resolved
		// second) starts right after that -- not interleaved with it.
		u32At(&body, order, 2)           // strings count
		u32At(&body, order, tokenInline) // strings ptr: inline
		u32At(&body, order, 1)           // assets count
		u32At(&body, order, tokenInline) // assets ptr: inline

		u32At(&body, order, tokenInline) // entry 0 token: inline
		body.Write(nulString("alpha"))
		u32At(&body, order, tokenInline) // entry 1 token: inline
		body.Write(nulString("beta"))

		u32At(&body, order, uint32(AssetFont)) // asset_type
		u32At(&body, order, tokenInline)       // asset_data: inline

		// The raw struct's seven fixed fields are read as one 26-byte
		// block before any pointer in it is dereferenced, so the inline
		// name referent must follow the whole block, not sit between
		// NameToken and PixelHeight.
		u32At(&body, order, tokenInline) // font name: inline
		i32At(&body, order, 12)          // pixel height
		i32At(&body, order, 0)           // glyph count
		u16At(&body, order, styleIdx)
		u32At(&body, order, 0) // material: null
		u32At(&body, order, 0) // glow material: null
		u32At(&body, order, 0) // glyphs: null (count 0 anyway)
		body.Write(nulString("myfont"))

		blocks := [numBlocks]uint32{}
		return buildContainer(PlatformWindows, buildInflated(order, blocks, body.Bytes()))
	}

	t.Run("valid index", func(t *testing.T) {
		d, err := NewBytes(build(1), &Options{Platform: PlatformWindows})
		if err != nil {
			t.Fatalf("NewBytes failed: %v", err)
		}
		result, err := d.Deserialize()
		if err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		font, ok := result.Assets[0].Data.(Font)
		if !ok {
			t.Fatalf("asset data is %T, want Font", result.Assets[0].Data)
		}
		if font.Style != "beta" {
			t.Errorf("style = %q, want %q", font.Style, "beta")
		}
	})

	t.Run("out of range index", func(t *testing.T) {
		d, err := NewBytes(build(2), &Options{Platform: PlatformWindows})
		if err != nil {
			t.Fatalf("NewBytes failed: %v", err)
		}
		_, err = d.Deserialize()
		xerr, ok := err.(*Error)
		if !ok {
			t.Fatalf("error is %T, want *Error", err)
		}
		if xerr.Kind != KindBadScriptString {
			t.Errorf("kind = %v, want %v", xerr.Kind, KindBadScriptString)
		}
		if xerr.Value != 2 {
			t.Errorf("value = %v, want 2", xerr.Value)
		}
	})
}

// TestPhysPresetAsset covers a schema with no nested pointers at all,
// just a name and three trailing floats.
func TestPhysPresetAsset(t *testing.T) {
	order := PlatformWindows.ByteOrder()
	var body bytes.Buffer
	u32At(&body, order, 0)           // strings count
	u32At(&body, order, 0)           // strings ptr
	u32At(&body, order, 1)           // assets count
	u32At(&body, order, tokenInline) // assets ptr: inline

	u32At(&body, order, uint32(AssetPhysPreset)) // asset_type
	u32At(&body, order, tokenInline)             // asset_data: inline

	u32At(&body, order, tokenInline) // name: inline
	f32At(&body, order, 12.5)        // mass
	f32At(&body, order, 0.75)        // friction
	f32At(&body, order, 0.3)         // bounce
	body.Write(nulString("rubber"))

	blocks := [numBlocks]uint32{}
	inflated := buildInflated(order, blocks, body.Bytes())
	container := buildContainer(PlatformWindows, inflated)

	d, err := NewBytes(container, &Options{Platform: PlatformWindows})
	if err != nil {
		t.Fatalf("NewBytes failed: %v", err)
	}
	result, err := d.Deserialize()
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	pp, ok := result.Assets[0].Data.(PhysPreset)
	if !ok {
		t.Fatalf("asset data is %T, want PhysPreset", result.Assets[0].Data)
	}
	if pp.Name != "rubber" {
		t.Errorf("name = %q, want %q", pp.Name, "rubber")
	}
	if pp.Mass != 12.5 || pp.Friction != 0.75 || pp.Bounce != 0.3 {
		t.Errorf("mass/friction/bounce = %v/%v/%v, want 12.5/0.75/0.3", pp.Mass, pp.Friction, pp.Bounce)
	}
}

// TestWrongEndianness exercises this boundary case.
func TestWrongEndianness(t *testing.T) {
	var hdr bytes.Buffer
	hdr.WriteString("IWff")
	hdr.WriteByte('u')
	hdr.WriteString("100")
	var v [4]byte
	// Byte-swapped relative to Windows (little-endian).
	PlatformWindows.ByteOrder().PutUint32(v[:], xfileVersion)
	hdr.Write([]byte{v[3], v[2], v[1], v[0]})

	_, err := NewBytes(hdr.Bytes(), &Options{Platform: PlatformWindows})
	xerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error is %T, want *Error", err)
	}
	if xerr.Kind != KindWrongEndiannessForPlatform {
		t.Errorf("kind = %v, want %v", xerr.Kind, KindWrongEndiannessForPlatform)
	}
}

// TestOutOfRangePointer exercises this boundary case.
func TestOutOfRangePointer(t *testing.T) {
	order := PlatformWindows.ByteOrder()
	var body bytes.Buffer
	u32At(&body, order, 0) // strings count
	u32At(&body, order, 0) // strings ptr

	// Token 0xE0000001 decodes (per the block/offset formula) to block
	// index 7, one past the fixed 7-block address space -- out of range
	// regardless of the fixture's actual block sizes.
	badToken := uint32(0xE0000001)
	u32At(&body, order, 1)        // assets count
	u32At(&body, order, tokenInline)

	u32At(&body, order, uint32(AssetRawFile))
	u32At(&body, order, badToken)

	blocks := [numBlocks]uint32{}
	inflated := buildInflated(order, blocks, body.Bytes())
	blocks[0] = uint32(len(inflated))
	inflated = buildInflated(order, blocks, body.Bytes())
	container := buildContainer(PlatformWindows, inflated)

	d, err := NewBytes(container, &Options{Platform: PlatformWindows})
	if err != nil {
		t.Fatalf("NewBytes failed: %v", err)
	}
	_, err = d.Deserialize()
	xerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error is %T, want *Error", err)
	}
	if xerr.Kind != KindInvalidSeek {
		t.Errorf("kind = %v, want %v", xerr.Kind, KindInvalidSeek)
	}
	if xerr.Max == 0 {
		t.Errorf("Max = 0, want the block address space's total size")
	}
}

// TestResolvedOffsetBeyondStreamLength exercises the InvalidSeek path
// where the token decodes to a valid block index but the resolved
// offset itself lands past the end of the inflated payload.
func TestResolvedOffsetBeyondStreamLength(t *testing.T) {
	order := PlatformWindows.ByteOrder()
	var body bytes.Buffer
	u32At(&body, order, 0) // strings count
	u32At(&body, order, 0) // strings ptr

	// Block 0, maximum within-block offset: decodes to a huge absolute
	// offset that is certain to exceed this tiny fixture's length, while
	// still resolving to a valid block index (0).
	badToken := uint32(0x20000000)
	u32At(&body, order, 1) // assets count
	u32At(&body, order, tokenInline)

	u32At(&body, order, uint32(AssetRawFile))
	u32At(&body, order, badToken)

	blocks := [numBlocks]uint32{}
	inflated := buildInflated(order, blocks, body.Bytes())
	blocks[0] = uint32(len(inflated))
	inflated = buildInflated(order, blocks, body.Bytes())
	container := buildContainer(PlatformWindows, inflated)

	d, err := NewBytes(container, &Options{Platform: PlatformWindows})
	if err != nil {
		t.Fatalf("NewBytes failed: %v", err)
	}
	_, err = d.Deserialize()
	xerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error is %T, want *Error", err)
	}
	if xerr.Kind != KindInvalidSeek {
		t.Errorf("kind = %v, want %v", xerr.Kind, KindInvalidSeek)
	}
	if xerr.Offset <= xerr.Max {
		t.Errorf("Offset = %d, want it to exceed Max = %d", xerr.Offset, xerr.Max)
	}
}

// TestBadHeaderMagic covers the magic-mutation boundary behavior.
func TestBadHeaderMagic(t *testing.T) {
	good := buildContainer(PlatformWindows, buildInflated(PlatformWindows.ByteOrder(), [numBlocks]uint32{}, nil))
	for i := 0; i < 8; i++ {
		mutated := append([]byte(nil), good...)
		mutated[i] ^= 0xFF
		_, err := NewBytes(mutated, &Options{Platform: PlatformWindows})
		if err == nil {
			t.Fatalf("byte %d: expected error, got none", i)
			continue
		}
		xerr, ok := err.(*Error)
		if !ok {
			t.Fatalf("byte %d: error is %T, want *Error", i, err)
		}
		if xerr.Kind != KindBadHeaderMagic && xerr.Kind != KindWrongVersion {
			t.Errorf("byte %d: kind = %v, want BadHeaderMagic or WrongVersion", i, xerr.Kind)
		}
	}
}
