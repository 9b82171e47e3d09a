// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/dchest/siphash"
)

// cacheKey is a fixed key used only to make the sidecar checksum
// collision-resistant against accidental bit flips; it is not a secret.
var cacheKey = [16]byte{0x74, 0x35, 0x78, 0x66, 0x69, 0x6c, 0x65, 0x00, 0xca, 0xfe, 0xba, 0xbe, 0x00, 0x00, 0x00, 0x00}

// cachePath returns the sidecar path for input, embedding a siphash
// checksum of the pre-inflate container bytes in the filename.
//
// The `.cache` sidecar is advisory and carries no version stamp of its
// own, so a stale cache from a mismatched build could otherwise silently
// poison later runs. Embedding the checksum in the filename (rather than
// inside the file, which stays byte-identical to the raw inflation)
// means a changed source file simply misses the cache instead of
// returning stale bytes -- the checksum is recomputed from the current
// source on every call and compared by filename lookup, never trusted
// blindly.
func cachePath(input string, rawChecksum uint64) string {
	return fmt.Sprintf("%s.%016x.cache", input, rawChecksum)
}

// checksum computes the sidecar key's siphash-2-4 digest. Callers pass
// the pre-inflate container bytes, not the inflated payload, so the key
// can be recomputed before inflate runs.
func checksum(data []byte) uint64 {
	return siphash.Hash(
		binary.LittleEndian.Uint64(cacheKey[0:8]),
		binary.LittleEndian.Uint64(cacheKey[8:16]),
		data,
	)
}

// loadCache returns the cached inflated payload for input if the sidecar
// named after rawChecksum exists. rawChecksum is computed over the
// pre-inflate container bytes (everything past the 12-byte header), so a
// changed source file hashes to a different sidecar name and this simply
// misses. Presence of the cache is checked first and unconditionally;
// validity is advisory, never version-checked, so this never returns a
// stale sidecar for a source that has since changed.
func loadCache(input string, rawChecksum uint64) ([]byte, bool) {
	b, err := os.ReadFile(cachePath(input, rawChecksum))
	if err != nil {
		return nil, false
	}
	return b, true
}

// storeCache writes the inflated payload to the sidecar named after
// rawChecksum. Only called after a successful inflate, keyed by the same
// pre-inflate checksum loadCache will look for on the next run.
func storeCache(input string, rawChecksum uint64, data []byte) error {
	return os.WriteFile(cachePath(input, rawChecksum), data, 0o644)
}
