// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

import "strings"

// Decoder reads one T starting at the cursor's current position. Schemas
// supply these as closures; the primitives below are generic over them.
type Decoder[T any] func(d *Deserializer) (T, error)

// dispatchToken runs readInline when token is a sentinel (recording which
// sentinel was seen), or seeks to the token's resolved offset and runs
// readInline there when it's an absolute address. Every pointer-shaped
// primitive below is built on this one dispatch.
func (d *Deserializer) dispatchToken(site string, token uint32, readInline func() error) error {
	switch {
	case IsNull(token):
		return nil
	case token == tokenInlineRare:
		d.cursor.inlineFESeen++
		return readInline()
	case token == tokenInline:
		d.cursor.inlineFFSeen++
		return readInline()
	default:
		_, offset, err := d.blocks.Resolve(token)
		if err != nil {
			return err
		}
		if offset > d.cursor.Length() {
			return newErrSeek(site, offset, d.cursor.Length())
		}
		return d.cursor.SeekAnd(offset, readInline)
	}
}

// ReadPointer decodes a 32-bit pointer token already consumed by the
// caller (schemas read the token field themselves, since it's just
// another u32 in the raw struct). Null yields (nil, nil); a sentinel
// decodes T inline and recurses into T's own sub-reads; an absolute
// token seeks and decodes, then restores position.
func ReadPointer[T any](d *Deserializer, token uint32, dec Decoder[T]) (*T, error) {
	if IsNull(token) {
		return nil, nil
	}
	var result T
	err := d.dispatchToken("ReadPointer", token, func() error {
		v, err := dec(d)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ReadPointerArray decodes a pointer token plus an externally-supplied
// count n into a slice of n consecutively-read T. A null token or a zero
// count yields an empty slice without reading any bytes.
func ReadPointerArray[T any](d *Deserializer, token uint32, n uint32, dec Decoder[T]) ([]T, error) {
	if IsNull(token) || n == 0 {
		return nil, nil
	}
	var result []T
	err := d.dispatchToken("ReadPointerArray", token, func() error {
		out := make([]T, n)
		for i := range out {
			v, err := dec(d)
			if err != nil {
				return err
			}
			out[i] = v
		}
		result = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReadPointerArrayConst is ReadPointerArray with the count fixed at build
// time instead of supplied by a sibling field.
func ReadPointerArrayConst[T any](d *Deserializer, token uint32, n int, dec Decoder[T]) ([]T, error) {
	return ReadPointerArray(d, token, uint32(n), dec)
}

// ReadFatPtrCountFirst16 reads a u16 count followed by a pointer token,
// then dispatches ReadPointerArray with that count.
func ReadFatPtrCountFirst16[T any](d *Deserializer, dec Decoder[T]) ([]T, error) {
	count, err := d.cursor.ReadU16()
	if err != nil {
		return nil, err
	}
	token, err := d.cursor.ReadU32()
	if err != nil {
		return nil, err
	}
	return ReadPointerArray(d, token, uint32(count), dec)
}

// ReadFatPtrCountFirst32 reads a u32 count followed by a pointer token.
func ReadFatPtrCountFirst32[T any](d *Deserializer, dec Decoder[T]) ([]T, error) {
	count, err := d.cursor.ReadU32()
	if err != nil {
		return nil, err
	}
	token, err := d.cursor.ReadU32()
	if err != nil {
		return nil, err
	}
	return ReadPointerArray(d, token, count, dec)
}

// ReadFatPtrCountLast16 reads a pointer token followed by a u16 count.
func ReadFatPtrCountLast16[T any](d *Deserializer, dec Decoder[T]) ([]T, error) {
	token, err := d.cursor.ReadU32()
	if err != nil {
		return nil, err
	}
	count, err := d.cursor.ReadU16()
	if err != nil {
		return nil, err
	}
	return ReadPointerArray(d, token, uint32(count), dec)
}

// ReadFatPtrCountLast32 reads a pointer token followed by a u32 count.
func ReadFatPtrCountLast32[T any](d *Deserializer, dec Decoder[T]) ([]T, error) {
	token, err := d.cursor.ReadU32()
	if err != nil {
		return nil, err
	}
	count, err := d.cursor.ReadU32()
	if err != nil {
		return nil, err
	}
	return ReadPointerArray(d, token, count, dec)
}

// ReadFlexibleArray16 reads a u16 count with no token: the count*T bytes
// follow immediately, in stream order, at the current position.
func ReadFlexibleArray16[T any](d *Deserializer, dec Decoder[T]) ([]T, error) {
	count, err := d.cursor.ReadU16()
	if err != nil {
		return nil, err
	}
	return readFlexible(d, uint32(count), dec)
}

// ReadFlexibleArray32 reads a u32 count with no token.
func ReadFlexibleArray32[T any](d *Deserializer, dec Decoder[T]) ([]T, error) {
	count, err := d.cursor.ReadU32()
	if err != nil {
		return nil, err
	}
	return readFlexible(d, count, dec)
}

func readFlexible[T any](d *Deserializer, count uint32, dec Decoder[T]) ([]T, error) {
	if count == 0 {
		return nil, nil
	}
	out := make([]T, count)
	for i := range out {
		v, err := dec(d)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadString decodes a 32-bit pointer token the same way ReadPointer
// does, except the referent is a NUL-terminated byte sequence decoded
// (lossily) as UTF-8 rather than a typed T.
func ReadString(d *Deserializer, token uint32) (string, error) {
	if IsNull(token) {
		return "", nil
	}
	var result string
	err := d.dispatchToken("ReadString", token, func() error {
		s, err := d.readNulString()
		if err != nil {
			return err
		}
		result = s
		return nil
	})
	return result, err
}

func (d *Deserializer) readNulString() (string, error) {
	start := d.cursor.pos
	for {
		b, err := d.cursor.ReadU8()
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
	}
	raw := d.cursor.data[start : d.cursor.pos-1]
	return strings.ToValidUTF8(string(raw), "�"), nil
}

// ScriptString is a 16-bit index into the script-string table, read as a
// plain u16 by schemas and resolved lazily during conversion via
// Deserializer.ResolveScriptString.
type ScriptString uint16

// ResolveScriptString looks up s in the pre-populated script-string
// table. An index equal to or beyond the table length is BadScriptString.
func (d *Deserializer) ResolveScriptString(s ScriptString) (string, error) {
	if int(s) >= len(d.scriptStrings) {
		return "", newErrValue("ResolveScriptString", d.cursor.Position(), KindBadScriptString, int64(s))
	}
	return d.scriptStrings[s], nil
}
