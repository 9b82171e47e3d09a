// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

const (
	xfileVersion   uint32 = 0x000001D9
	containerMagic        = "IWff"
	containerTail         = "100"

	inflatedHeaderSize = 36
)

// ContainerHeader is the 12-byte plaintext header every FastFile begins
// with: magic, a one-byte compression tag, and the version word whose
// endianness pins the platform byte order for the rest of the file.
//
// A tiny fixed-size sniff header gates whether the rest of the file is
// even worth parsing, fatally and before any large read happens.
type ContainerHeader struct {
	Magic       [8]byte
	Compression byte // 'u' (zlib) or '0' (console raw deflate)
	Version     uint32
}

// readContainerHeader reads and validates the 12-byte plaintext header,
// returning the parsed header. It does not decompress anything.
func readContainerHeader(r io.Reader, platform Platform) (ContainerHeader, error) {
	var hdr ContainerHeader
	raw := make([]byte, 12)
	if _, err := io.ReadFull(r, raw); err != nil {
		return hdr, newErrMsg("readContainerHeader", 0, KindIO, err.Error())
	}
	copy(hdr.Magic[:], raw[0:8])
	hdr.Compression = raw[4]

	if string(hdr.Magic[0:4]) != containerMagic ||
		(hdr.Compression != 'u' && hdr.Compression != '0') ||
		string(hdr.Magic[5:8]) != containerTail {
		return hdr, newErr("readContainerHeader", 0, KindBadHeaderMagic)
	}

	if platform == PlatformWii {
		return hdr, newErrValue("readContainerHeader", 0, KindUnimplementedPlatform, int64(platform))
	}

	versionLE := binary.LittleEndian.Uint32(raw[8:12])
	versionBE := binary.BigEndian.Uint32(raw[8:12])

	switch xfileVersion {
	case versionLE:
		hdr.Version = versionLE
		if !platform.IsLittleEndian() {
			return hdr, newErrValue("readContainerHeader", 8, KindWrongEndiannessForPlatform, int64(platform))
		}
	case versionBE:
		hdr.Version = versionBE
		if platform.IsLittleEndian() {
			return hdr, newErrValue("readContainerHeader", 8, KindWrongEndiannessForPlatform, int64(platform))
		}
	default:
		return hdr, newErrValue("readContainerHeader", 8, KindWrongVersion, int64(versionLE))
	}

	return hdr, nil
}

// inflate decompresses the remainder of the container according to the
// header's compression tag: 'u' is zlib-wrapped DEFLATE, '0' is raw
// DEFLATE (the console convention). Uses klauspost/compress rather than
// the standard library's compress/flate for its faster inflate path.
func inflate(hdr ContainerHeader, rest io.Reader) ([]byte, error) {
	var rc io.ReadCloser
	var err error
	switch hdr.Compression {
	case 'u':
		rc, err = zlib.NewReader(rest)
	default: // '0'
		rc = flate.NewReader(rest)
	}
	if err != nil {
		return nil, newErrMsg("inflate", 12, KindInflate, err.Error())
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, newErrMsg("inflate", 12, KindInflate, err.Error())
	}
	return buf.Bytes(), nil
}

// InflatedHeader is the 36-byte structure immediately following
// decompression: total size, an external size the core ignores, and the
// seven block sizes partitioning the rest of the payload.
type InflatedHeader struct {
	Size         uint32
	ExternalSize uint32
	BlockSize    [numBlocks]uint32
}

// readInflatedHeader reads the 36-byte inflated header from the front of
// the cursor.
func readInflatedHeader(c *Cursor) (InflatedHeader, error) {
	var h InflatedHeader
	var err error
	if h.Size, err = c.ReadU32(); err != nil {
		return h, err
	}
	if h.ExternalSize, err = c.ReadU32(); err != nil {
		return h, err
	}
	for i := range h.BlockSize {
		if h.BlockSize[i], err = c.ReadU32(); err != nil {
			return h, err
		}
	}
	return h, nil
}
