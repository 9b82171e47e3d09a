// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

import "encoding/binary"

// Platform is the closed set of target platforms a FastFile can be built
// for. It pins endianness and PC-vs-console classification.
type Platform int

const (
	PlatformWindows Platform = iota
	PlatformMacOS
	PlatformXbox360
	PlatformPS3
	PlatformWii
)

func (p Platform) String() string {
	switch p {
	case PlatformWindows:
		return "Windows"
	case PlatformMacOS:
		return "macOS"
	case PlatformXbox360:
		return "Xbox 360"
	case PlatformPS3:
		return "PS3"
	case PlatformWii:
		return "Wii"
	default:
		return "unknown"
	}
}

// IsLittleEndian reports whether this platform's XFiles are little-endian.
func (p Platform) IsLittleEndian() bool {
	switch p {
	case PlatformWindows, PlatformMacOS:
		return true
	case PlatformXbox360, PlatformPS3:
		return false
	default:
		// Wii is rejected before any byte order decision is made.
		return true
	}
}

// IsConsole reports whether this platform is a console target.
func (p Platform) IsConsole() bool {
	switch p {
	case PlatformXbox360, PlatformPS3, PlatformWii:
		return true
	default:
		return false
	}
}

// ByteOrder returns the binary.ByteOrder matching this platform.
func (p Platform) ByteOrder() binary.ByteOrder {
	if p.IsLittleEndian() {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// MaxLocalClients is the MAX_LOCAL_CLIENTS constant that sizes
// per-splitscreen-client arrays in gfx_world/menu/menu_list assets: 1 on
// PC, 4 on console. Those asset types aren't decoded yet (they route
// through notImplementedSchema), so this isn't called anywhere in this
// build; it's kept ready for whichever of them is implemented next.
func (p Platform) MaxLocalClients() int {
	if p.IsConsole() {
		return 4
	}
	return 1
}
