// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

import (
	"bytes"
	"encoding/binary"
)

// readRawStruct decodes T's fixed-size fields off the cursor in one shot.
// T's wire size is asserted via binary.Size before any byte is consumed,
// run against a sequential cursor instead of an absolute offset. A T
// with any variable-size field (a string, a slice)
// fails binary.Size and is rejected immediately rather than silently
// misreading the stream -- raw schema structs may only contain integers,
// floats, fixed-size arrays, and "_"-named padding fields.
func readRawStruct[T any](d *Deserializer) (T, error) {
	var raw T
	size := binary.Size(raw)
	if size < 0 {
		return raw, newErrMsg("readRawStruct", d.cursor.Position(), KindBrokenInvariant,
			"raw schema type has no fixed binary size")
	}
	buf, err := d.cursor.ReadExact(uint32(size))
	if err != nil {
		return raw, err
	}
	if err := binary.Read(bytes.NewReader(buf), d.cursor.order, &raw); err != nil {
		return raw, newErrMsg("readRawStruct", d.cursor.Position(), KindDecode, err.Error())
	}
	return raw, nil
}
