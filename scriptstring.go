// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

// readScriptStringTable resolves the script-string fat pointer whose
// count and token Deserialize has already read from the envelope: each
// of the count entries is a String pointer token, decoded to an owned
// string. The table is stored for the rest of the pass. Must run exactly
// once, before any asset is read; the table is read-only afterwards.
func (d *Deserializer) readScriptStringTable(count uint32, token uint32) error {
	strs, err := ReadPointerArray(d, token, count, func(dd *Deserializer) (string, error) {
		tok, err := dd.cursor.ReadU32()
		if err != nil {
			return "", err
		}
		return ReadString(dd, tok)
	})
	if err != nil {
		return err
	}
	d.scriptStrings = strs
	d.logger.Debug("pass", d.passID, "event", "script_strings_loaded", "count", len(strs))
	return nil
}
