// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package xfile implements the stream-oriented graph reconstruction
// engine for T5 FastFiles (XFiles): the container loader, the
// block-addressed virtual memory model, the stream cursor, the generic
// primitive readers, the script-string table, and the asset dispatcher.
// Per-asset schemas are pluggable external collaborators; this package
// ships a handful of them and routes the rest through a stub that
// reports KindTodo.
package xfile

import (
	"bytes"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/google/uuid"

	xlog "github.com/xfiledeserializer/xfile/log"
)

// Options configures a deserialization pass.
type Options struct {
	// Platform is the target the FastFile is expected to be built for.
	// Required: it pins the expected endianness and console-ness used
	// throughout the pass, including Platform.MaxLocalClients.
	Platform Platform

	// AllowUnusedXAssetTypes downgrades UnusedXAssetType from fatal to a
	// recorded Anomaly. The zero value (false) means unused types are
	// fatal by default.
	AllowUnusedXAssetTypes bool

	// DisableCache skips both reading and writing the .cache sidecar.
	DisableCache bool

	// Logger receives non-fatal, informational events. Defaults to a
	// stderr logger filtered to info and above.
	Logger xlog.Logger
}

// Deserializer owns the inflated payload, the block address space, and
// the script-string table for the duration of one pass. It is not safe
// for concurrent use -- the stream cursor it wraps is exclusively owned
// by the single deserialization pass in progress.
//
// Lifecycle is mmap-backed: New/NewBytes/Close, Options-with-defaults
// construction, and an Anomalies accumulator for non-fatal findings.
type Deserializer struct {
	Platform Platform

	cursor        *Cursor
	blocks        *BlockAddressSpace
	scriptStrings []string

	Anomalies []string

	opts   *Options
	logger *xlog.Helper
	passID string

	data mmap.MMap
	f    *os.File
}

// New opens name, memory-maps it, and validates the container header.
// The mmap is released once the payload has been inflated into an owned
// buffer -- nothing downstream keeps the file descriptor open.
func New(name string, opts *Options) (*Deserializer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	d := newDeserializer(opts)
	d.f = f
	d.data = data

	payload, err := d.loadPayload(name, data)
	d.Close()
	d.data, d.f = nil, nil
	if err != nil {
		return nil, err
	}
	d.cursor = NewCursor(payload, d.Platform.ByteOrder())
	return d, nil
}

// NewBytes behaves like New but reads the container from an in-memory
// buffer instead of a file; no cache sidecar is consulted or written.
func NewBytes(data []byte, opts *Options) (*Deserializer, error) {
	d := newDeserializer(opts)
	d.opts.DisableCache = true

	hdr, err := readContainerHeader(bytes.NewReader(data), d.Platform)
	if err != nil {
		return nil, err
	}
	payload, err := inflate(hdr, bytes.NewReader(data[12:]))
	if err != nil {
		return nil, err
	}
	d.cursor = NewCursor(payload, d.Platform.ByteOrder())
	return d, nil
}

func newDeserializer(opts *Options) *Deserializer {
	if opts == nil {
		opts = &Options{}
	}
	o := *opts
	if o.Logger == nil {
		o.Logger = xlog.NewFilter(xlog.NewStdLogger(os.Stderr), xlog.FilterLevel(xlog.LevelInfo))
	}
	return &Deserializer{
		Platform: o.Platform,
		opts:     &o,
		logger:   xlog.NewHelper(o.Logger),
		passID:   uuid.NewString(),
	}
}

// loadPayload validates the header, checks the cache sidecar, and
// inflates the remainder, writing a fresh sidecar on a cache miss.
func (d *Deserializer) loadPayload(name string, data []byte) ([]byte, error) {
	hdr, err := readContainerHeader(bytes.NewReader(data), d.Platform)
	if err != nil {
		return nil, err
	}

	rawChecksum := checksum(data[12:])

	if !d.opts.DisableCache {
		if cached, ok := loadCache(name, rawChecksum); ok {
			d.logger.Info("pass", d.passID, "event", "cache_hit", "file", name)
			return cached, nil
		}
	}

	payload, err := inflate(hdr, bytes.NewReader(data[12:]))
	if err != nil {
		return nil, err
	}

	if !d.opts.DisableCache {
		if err := storeCache(name, rawChecksum, payload); err != nil {
			d.logger.Warn("pass", d.passID, "event", "cache_write_failed", "error", err.Error())
		}
	}
	return payload, nil
}

// Position returns the cursor's current byte offset into the inflated
// payload. Exposed primarily so callers (and tests) can check the
// end-of-pass invariant that position == the inflated header's size.
func (d *Deserializer) Position() uint32 {
	if d.cursor == nil {
		return 0
	}
	return d.cursor.Position()
}

// Close releases the underlying mmap and file descriptor, if any.
func (d *Deserializer) Close() error {
	if d.data != nil {
		_ = d.data.Unmap()
	}
	if d.f != nil {
		return d.f.Close()
	}
	return nil
}

// Result is everything a pass produces: the decoded asset list plus any
// non-fatal anomalies collected along the way.
type Result struct {
	Assets    []XAsset
	Anomalies []string
}

// Deserialize runs the full pass: validates the platform is supported,
// reads the inflated header, builds the block address space, reads the
// 16-byte asset-list envelope as a unit, then resolves the script-string
// table and dispatches every record in the asset list. The first error
// aborts the pass.
func (d *Deserializer) Deserialize() (*Result, error) {
	if d.Platform == PlatformWii {
		return nil, newErrValue("Deserialize", 0, KindUnimplementedPlatform, int64(d.Platform))
	}

	ihdr, err := readInflatedHeader(d.cursor)
	if err != nil {
		return nil, err
	}
	d.blocks = NewBlockAddressSpace(ihdr.BlockSize)

	// Both fat pointers of the envelope are read before either referent
	// is dereferenced. The envelope is 16 contiguous bytes; when the
	// strings token is an inline sentinel, its referent starts right
	// after the whole envelope, not right after the strings fat pointer
	// alone -- reading the assets fat pointer in between would put it
	// inside the script-string data instead of immediately following the
	// envelope.
	stringCount, stringToken, err := d.readEnvelopeFatPtr()
	if err != nil {
		return nil, err
	}
	assetCount, assetToken, err := d.readEnvelopeFatPtr()
	if err != nil {
		return nil, err
	}

	if err := d.readScriptStringTable(stringCount, stringToken); err != nil {
		return nil, err
	}

	assets, err := d.readAssetList(assetCount, assetToken)
	if err != nil {
		return nil, err
	}

	if d.cursor.inlineFESeen > 0 {
		d.logger.Info("pass", d.passID, "event", "rare_inline_sentinel",
			"count_fffffffe", d.cursor.inlineFESeen, "count_ffffffff", d.cursor.inlineFFSeen)
	}

	if d.cursor.Position() != ihdr.Size {
		d.logger.Warn("pass", d.passID, "event", "final_position_mismatch",
			"position", d.cursor.Position(), "expected", ihdr.Size)
	}

	return &Result{Assets: assets, Anomalies: d.Anomalies}, nil
}

// readEnvelopeFatPtr reads one (count u32, pointer token) pair from the
// outer envelope -- the shape shared by both the string array and the
// asset array fat pointers.
func (d *Deserializer) readEnvelopeFatPtr() (count uint32, token uint32, err error) {
	if count, err = d.cursor.ReadU32(); err != nil {
		return 0, 0, err
	}
	if token, err = d.cursor.ReadU32(); err != nil {
		return 0, 0, err
	}
	return count, token, nil
}

// Fuzz is a go-fuzz entrypoint: it never panics on malformed input, only
// on a bug.
func Fuzz(data []byte) int {
	d, err := NewBytes(data, &Options{Platform: PlatformWindows})
	if err != nil {
		return 0
	}
	if _, err := d.Deserialize(); err != nil {
		return 0
	}
	return 1
}
