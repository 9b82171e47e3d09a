// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

import "fmt"

// Kind is a closed tag identifying the category of a deserialization
// failure.
type Kind int

const (
	// KindIO is reported when the underlying reader fails.
	KindIO Kind = iota

	// KindDecode is reported when a primitive decoder hits malformed
	// length or truncated data.
	KindDecode

	// KindInflate is reported when DEFLATE rejects the payload.
	KindInflate

	// KindBadPrimitive is reported when an integer doesn't map to any
	// variant of a closed enum.
	KindBadPrimitive

	// KindBadBitflags is reported when bits outside a defined mask are set.
	KindBadBitflags

	// KindBadChar is reported when a code point is outside the valid range.
	KindBadChar

	// KindBrokenInvariant is reported when an internal consistency check
	// fails; a strong signal of corruption or a schema bug.
	KindBrokenInvariant

	// KindInvalidSeek is reported when a resolved pointer escapes the
	// payload.
	KindInvalidSeek

	// KindBadHeaderMagic is reported when the container's magic bytes
	// don't match "IWff[u0]100".
	KindBadHeaderMagic

	// KindWrongVersion is reported when the version word isn't
	// xfileVersion in either endianness.
	KindWrongVersion

	// KindWrongEndiannessForPlatform is reported when the version word's
	// endianness doesn't match the caller-specified platform.
	KindWrongEndiannessForPlatform

	// KindUnimplementedPlatform is reported for platforms the core
	// doesn't support (Wii).
	KindUnimplementedPlatform

	// KindUnsupportedPlatform is reported for platforms outside the
	// core's supported set.
	KindUnsupportedPlatform

	// KindTodo is reported when a schema stub isn't implemented yet.
	KindTodo

	// KindBadScriptString is reported when a script-string index is out
	// of range of the table.
	KindBadScriptString

	// KindInvalidXAssetType is reported when an asset tag doesn't decode
	// to any known XAssetType variant.
	KindInvalidXAssetType

	// KindUnusedXAssetType is reported when an asset tag decodes to a
	// known variant this build isn't expected to emit.
	KindUnusedXAssetType
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindDecode:
		return "decode"
	case KindInflate:
		return "inflate"
	case KindBadPrimitive:
		return "bad-primitive"
	case KindBadBitflags:
		return "bad-bitflags"
	case KindBadChar:
		return "bad-char"
	case KindBrokenInvariant:
		return "broken-invariant"
	case KindInvalidSeek:
		return "invalid-seek"
	case KindBadHeaderMagic:
		return "bad-header-magic"
	case KindWrongVersion:
		return "wrong-version"
	case KindWrongEndiannessForPlatform:
		return "wrong-endianness-for-platform"
	case KindUnimplementedPlatform:
		return "unimplemented-platform"
	case KindUnsupportedPlatform:
		return "unsupported-platform"
	case KindTodo:
		return "todo"
	case KindBadScriptString:
		return "bad-script-string"
	case KindInvalidXAssetType:
		return "invalid-xasset-type"
	case KindUnusedXAssetType:
		return "unused-xasset-type"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by this package. It always
// carries the call site, the stream offset the failure was detected at,
// and a closed Kind. The core is fail-fast: the first Error aborts the
// pass.
//
// Max is only meaningful for KindInvalidSeek: it carries the stream
// bound the offending offset escaped, so the reported payload matches
// InvalidSeek{offset, max} rather than just the bare offset.
type Error struct {
	Site    string
	Offset  uint32
	Max     uint32
	Kind    Kind
	Value   int64
	Message string
}

func (e *Error) Error() string {
	if e.Kind == KindInvalidSeek {
		return fmt.Sprintf("%s: %s at offset 0x%X (max 0x%X)", e.Site, e.Kind, e.Offset, e.Max)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s at offset 0x%X (%s)", e.Site, e.Kind, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s at offset 0x%X (value=0x%X)", e.Site, e.Kind, e.Offset, e.Value)
}

func newErr(site string, offset uint32, kind Kind) *Error {
	return &Error{Site: site, Offset: offset, Kind: kind}
}

func newErrValue(site string, offset uint32, kind Kind, value int64) *Error {
	return &Error{Site: site, Offset: offset, Kind: kind, Value: value}
}

func newErrMsg(site string, offset uint32, kind Kind, msg string) *Error {
	return &Error{Site: site, Offset: offset, Kind: kind, Message: msg}
}

// newErrSeek builds an InvalidSeek error: offset is the resolved address
// that escaped the payload, max is the stream bound it was checked
// against.
func newErrSeek(site string, offset, max uint32) *Error {
	return &Error{Site: site, Offset: offset, Max: max, Kind: KindInvalidSeek}
}
