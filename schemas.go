// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

// This file ships a handful of asset schema descriptors -- enough to
// exercise every primitive reader and to make the documented end-to-end
// scenarios pass. The remaining ~38 XAssetType variants are genuinely
// out of scope and route through notImplementedSchema in dispatcher.go.
//
// Each schema here follows the same raw/decoded split: a `fooRaw` struct
// holding only the fixed-size wire fields (tokens, counts, numeric
// fields) is read in one shot via readRawStruct, which asserts the
// struct's size is fixed before consuming any bytes; the raw struct's
// tokens are then resolved (strings, nested pointers, arrays) to produce
// the owned, pointer-free decoded value schemas return to the
// dispatcher.

// rawFileRaw is RawFile's fixed-size wire layout: a name token, a buffer
// count, and a buffer token, 12 bytes total.
type rawFileRaw struct {
	NameToken   uint32
	BufferCount uint32
	BufferToken uint32
}

// RawFile is the simplest schema in the format: a name and an opaque
// byte blob.
type RawFile struct {
	Name   string `json:"name"`
	Buffer []byte `json:"buffer"`
}

func readRawFile(d *Deserializer) (any, string, error) {
	raw, err := readRawStruct[rawFileRaw](d)
	if err != nil {
		return nil, "", err
	}

	name, err := ReadString(d, raw.NameToken)
	if err != nil {
		return nil, "", err
	}
	buf, err := ReadPointerArray(d, raw.BufferToken, raw.BufferCount, func(dd *Deserializer) (byte, error) {
		return dd.cursor.ReadU8()
	})
	if err != nil {
		return nil, "", err
	}

	return RawFile{Name: name, Buffer: buf}, name, nil
}

// localizeEntryRaw is LocalizeEntry's fixed-size wire layout: a value
// token followed by a name token, 8 bytes total.
type localizeEntryRaw struct {
	ValueToken uint32
	NameToken  uint32
}

// LocalizeEntry is a single localized-string table row: a value and the
// key it's stored under.
type LocalizeEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func readLocalizeEntry(d *Deserializer) (any, string, error) {
	raw, err := readRawStruct[localizeEntryRaw](d)
	if err != nil {
		return nil, "", err
	}

	value, err := ReadString(d, raw.ValueToken)
	if err != nil {
		return nil, "", err
	}
	name, err := ReadString(d, raw.NameToken)
	if err != nil {
		return nil, "", err
	}

	return LocalizeEntry{Name: name, Value: value}, name, nil
}

// stringTableRaw is StringTable's fixed-size wire layout: a name token, a
// column count, a row count, and the values array's fat pointer token, 16
// bytes total.
type stringTableRaw struct {
	NameToken   uint32
	ColumnCount int32
	RowCount    int32
	ValuesToken uint32
}

// stringTableCellRaw is StringTableCell's fixed-size wire layout: a
// string token followed by a hash, 8 bytes total.
type stringTableCellRaw struct {
	StringToken uint32
	Hash        int32
}

// StringTableCell is one resolved cell of a StringTable's row-major grid.
type StringTableCell struct {
	String string `json:"string"`
	Hash   int32  `json:"hash"`
}

// StringTable is a menu-data spreadsheet: a row/column count plus the
// row-major array of cells.
type StringTable struct {
	Name        string            `json:"name"`
	ColumnCount int32             `json:"column_count"`
	RowCount    int32             `json:"row_count"`
	Values      []StringTableCell `json:"values"`
}

func readStringTable(d *Deserializer) (any, string, error) {
	raw, err := readRawStruct[stringTableRaw](d)
	if err != nil {
		return nil, "", err
	}

	name, err := ReadString(d, raw.NameToken)
	if err != nil {
		return nil, "", err
	}

	cellCount := uint32(0)
	if raw.ColumnCount > 0 && raw.RowCount > 0 {
		cellCount = uint32(raw.ColumnCount) * uint32(raw.RowCount)
	}
	values, err := ReadPointerArray(d, raw.ValuesToken, cellCount, func(dd *Deserializer) (StringTableCell, error) {
		cell, err := readRawStruct[stringTableCellRaw](dd)
		if err != nil {
			return StringTableCell{}, err
		}
		s, err := ReadString(dd, cell.StringToken)
		if err != nil {
			return StringTableCell{}, err
		}
		return StringTableCell{String: s, Hash: cell.Hash}, nil
	})
	if err != nil {
		return nil, "", err
	}

	return StringTable{Name: name, ColumnCount: raw.ColumnCount, RowCount: raw.RowCount, Values: values}, name, nil
}

// materialRaw is Material's fixed-size wire layout: just a name token.
type materialRaw struct {
	NameToken uint32
}

// Material is a minimal stand-in for the full material schema: just
// enough (a name) for Font to have something concrete to point to.
type Material struct {
	Name string `json:"name"`
}

func decodeMaterial(d *Deserializer) (Material, error) {
	raw, err := readRawStruct[materialRaw](d)
	if err != nil {
		return Material{}, err
	}
	name, err := ReadString(d, raw.NameToken)
	if err != nil {
		return Material{}, err
	}
	return Material{Name: name}, nil
}

func readMaterial(d *Deserializer) (any, string, error) {
	m, err := decodeMaterial(d)
	return m, m.Name, err
}

// glyphRaw is Glyph's full wire layout -- already fixed-size with no
// pointers, so the raw struct doubles as the decoded value. The "_"
// field absorbs the single pad byte after PixelHeight; encoding/binary
// consumes it without binding it to an exported field.
type glyphRaw struct {
	Letter      uint16
	X0          int8
	Y0          int8
	Dx          uint8
	PixelWidth  uint8
	PixelHeight uint8
	_           uint8 // pad
	S0          float32
	T0          float32
	S1          float32
	T1          float32
}

// Glyph is one fixed-size font glyph record, 24 bytes on the wire.
type Glyph struct {
	Letter      uint16  `json:"letter"`
	X0          int8    `json:"x0"`
	Y0          int8    `json:"y0"`
	Dx          uint8   `json:"dx"`
	PixelWidth  uint8   `json:"pixel_width"`
	PixelHeight uint8   `json:"pixel_height"`
	S0          float32 `json:"s0"`
	T0          float32 `json:"t0"`
	S1          float32 `json:"s1"`
	T1          float32 `json:"t1"`
}

func decodeGlyph(d *Deserializer) (Glyph, error) {
	raw, err := readRawStruct[glyphRaw](d)
	if err != nil {
		return Glyph{}, err
	}
	return Glyph{
		Letter:      raw.Letter,
		X0:          raw.X0,
		Y0:          raw.Y0,
		Dx:          raw.Dx,
		PixelWidth:  raw.PixelWidth,
		PixelHeight: raw.PixelHeight,
		S0:          raw.S0,
		T0:          raw.T0,
		S1:          raw.S1,
		T1:          raw.T1,
	}, nil
}

// fontRaw is Font's fixed-size wire layout: a name token, pixel height,
// glyph count, script-string style index, and three further pointer
// tokens (material, glow material, glyphs), 26 bytes total.
type fontRaw struct {
	NameToken     uint32
	PixelHeight   int32
	GlyphCount    int32
	StyleIdx      uint16
	MaterialToken uint32
	GlowToken     uint32
	GlyphsToken   uint32
}

// Font has a String name, a ScriptString-resolved style name, two
// Material pointers, and a glyph array sized by a sibling count field.
type Font struct {
	Name         string    `json:"name"`
	PixelHeight  int32     `json:"pixel_height"`
	Style        string    `json:"style"`
	Material     *Material `json:"material,omitempty"`
	GlowMaterial *Material `json:"glow_material,omitempty"`
	Glyphs       []Glyph   `json:"glyphs"`
}

func readFont(d *Deserializer) (any, string, error) {
	raw, err := readRawStruct[fontRaw](d)
	if err != nil {
		return nil, "", err
	}

	name, err := ReadString(d, raw.NameToken)
	if err != nil {
		return nil, "", err
	}
	style, err := d.ResolveScriptString(ScriptString(raw.StyleIdx))
	if err != nil {
		return nil, "", err
	}
	material, err := ReadPointer(d, raw.MaterialToken, decodeMaterial)
	if err != nil {
		return nil, "", err
	}
	glow, err := ReadPointer(d, raw.GlowToken, decodeMaterial)
	if err != nil {
		return nil, "", err
	}
	glyphs, err := ReadPointerArray(d, raw.GlyphsToken, uint32(raw.GlyphCount), decodeGlyph)
	if err != nil {
		return nil, "", err
	}

	return Font{
		Name:         name,
		PixelHeight:  raw.PixelHeight,
		Style:        style,
		Material:     material,
		GlowMaterial: glow,
		Glyphs:       glyphs,
	}, name, nil
}

// physPresetRaw is PhysPreset's fixed-size wire layout: a name token
// followed by three floats, 16 bytes total.
type physPresetRaw struct {
	NameToken uint32
	Mass      float32
	Friction  float32
	Bounce    float32
}

// PhysPreset is a simplified physics-material preset: enough fields to
// exercise a schema with no nested pointers at all.
type PhysPreset struct {
	Name     string  `json:"name"`
	Mass     float32 `json:"mass"`
	Friction float32 `json:"friction"`
	Bounce   float32 `json:"bounce"`
}

func readPhysPreset(d *Deserializer) (any, string, error) {
	raw, err := readRawStruct[physPresetRaw](d)
	if err != nil {
		return nil, "", err
	}
	name, err := ReadString(d, raw.NameToken)
	if err != nil {
		return nil, "", err
	}
	return PhysPreset{Name: name, Mass: raw.Mass, Friction: raw.Friction, Bounce: raw.Bounce}, name, nil
}

// xGlobalsRaw is XGlobals's fixed-size wire layout: a name token followed
// by a flags word, 8 bytes total.
type xGlobalsRaw struct {
	NameToken uint32
	Flags     uint32
}

// XGlobals is a single flat bag of engine-wide tunables, represented
// here by its name plus a flags word -- enough to be a real, dispatched
// schema without pretending to model every real T5 XGlobals field.
type XGlobals struct {
	Name  string `json:"name"`
	Flags uint32 `json:"flags"`
}

func readXGlobals(d *Deserializer) (any, string, error) {
	raw, err := readRawStruct[xGlobalsRaw](d)
	if err != nil {
		return nil, "", err
	}
	name, err := ReadString(d, raw.NameToken)
	if err != nil {
		return nil, "", err
	}
	return XGlobals{Name: name, Flags: raw.Flags}, name, nil
}
