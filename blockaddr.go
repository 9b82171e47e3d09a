// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

// Pointer token sentinels.
const (
	tokenNull       uint32 = 0x00000000
	tokenInline     uint32 = 0xFFFFFFFF
	tokenInlineRare uint32 = 0xFFFFFFFE
)

const numBlocks = 7

// BlockAddressSpace holds the seven block sizes carried in the inflated
// header and translates a 32-bit stream token into a linear payload
// offset.
//
// The table has a fixed size (7 entries) and the token itself encodes
// which entry to use instead of requiring a linear scan.
type BlockAddressSpace struct {
	sizes  [numBlocks]uint32
	prefix [numBlocks]uint32 // prefix[i] = sum(sizes[0..i])
}

// NewBlockAddressSpace builds the address space from the seven block
// sizes in file order.
func NewBlockAddressSpace(sizes [numBlocks]uint32) *BlockAddressSpace {
	b := &BlockAddressSpace{sizes: sizes}
	var running uint32
	for i, s := range sizes {
		b.prefix[i] = running
		running += s
	}
	return b
}

// Total returns the sum of all block sizes.
func (b *BlockAddressSpace) Total() uint32 {
	var total uint32
	for _, s := range b.sizes {
		total += s
	}
	return total
}

// IsNull reports whether token is the null sentinel.
func IsNull(token uint32) bool { return token == tokenNull }

// IsInline reports whether token is either inline sentinel.
func IsInline(token uint32) bool { return token == tokenInline || token == tokenInlineRare }

// Resolve decodes a non-sentinel token into (block index, absolute
// offset):
//
//	block  = (token - 1) >> 29
//	within = (token - 1) & 0x1FFFFFFF
//	offset = sum(block_sizes[0..block]) + within
//
// Callers must exclude 0x00000000, 0xFFFFFFFF and 0xFFFFFFFE before
// calling; Resolve treats every other value as an encoded absolute
// address.
func (b *BlockAddressSpace) Resolve(token uint32) (block uint8, offset uint32, err error) {
	dec := token - 1
	block = uint8(dec >> 29)
	within := dec & 0x1FFFFFFF
	if int(block) >= numBlocks {
		return 0, 0, newErrSeek("BlockAddressSpace.Resolve", token, b.Total())
	}
	offset = b.prefix[block] + within
	return block, offset, nil
}
