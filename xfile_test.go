// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/klauspost/compress/zlib"
)

// Test fixtures are built in-process rather than loaded from .ff binaries
// checked into the repo, because FastFiles are a proprietary,
// unlicensable format with no redistributable public corpus; every
// fixture below is a hand-assembled byte buffer encoding one scenario.

// u32At appends v to buf in order's byte order.
func u32At(buf *bytes.Buffer, order binary.ByteOrder, v uint32) {
	var b [4]byte
	order.PutUint32(b[:], v)
	buf.Write(b[:])
}

func u16At(buf *bytes.Buffer, order binary.ByteOrder, v uint16) {
	var b [2]byte
	order.PutUint16(b[:], v)
	buf.Write(b[:])
}

func i32At(buf *bytes.Buffer, order binary.ByteOrder, v int32) {
	u32At(buf, order, uint32(v))
}

func f32At(buf *bytes.Buffer, order binary.ByteOrder, v float32) {
	u32At(buf, order, math.Float32bits(v))
}

// buildInflated assembles the 36-byte inflated header (size computed
// automatically) plus block sizes plus body.
func buildInflated(order binary.ByteOrder, blockSizes [numBlocks]uint32, body []byte) []byte {
	var buf bytes.Buffer
	size := uint32(8+4*numBlocks) + uint32(len(body))
	u32At(&buf, order, size)
	u32At(&buf, order, 0) // external_size
	for _, bs := range blockSizes {
		u32At(&buf, order, bs)
	}
	buf.Write(body)
	return buf.Bytes()
}

// buildContainer wraps an inflated payload in the 12-byte plaintext
// header and zlib-compresses it, as the 'u' compression tag requires.
func buildContainer(platform Platform, inflated []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("IWff")
	buf.WriteByte('u')
	buf.WriteString("100")
	var v [4]byte
	platform.ByteOrder().PutUint32(v[:], xfileVersion)
	buf.Write(v[:])

	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(inflated)
	_ = zw.Close()
	return buf.Bytes()
}

func nulString(s string) []byte {
	return append([]byte(s), 0)
}
