// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfile

// AssetType is the closed, ~45-variant enum every top-level XAsset record
// is tagged with. A tag outside the enum is rejected with
// KindInvalidXAssetType; every defined tag is routed either to its
// schema in schemaTable or, if it has none, to notImplementedSchema.
type AssetType uint32

const (
	AssetXModelPieces    AssetType = 0x00
	AssetPhysPreset      AssetType = 0x01
	AssetPhysConstraints AssetType = 0x02
	AssetDestructibleDef AssetType = 0x03
	AssetXAnimParts      AssetType = 0x04
	AssetXModel          AssetType = 0x05
	AssetMaterial        AssetType = 0x06
	AssetTechniqueSet    AssetType = 0x07
	AssetImage           AssetType = 0x08
	AssetSound           AssetType = 0x09
	AssetSoundPatch      AssetType = 0x0A
	AssetClipMap         AssetType = 0x0B
	AssetClipMapPVS      AssetType = 0x0C
	AssetComWorld        AssetType = 0x0D
	AssetGameWorldSP     AssetType = 0x0E
	AssetGameWorldMP     AssetType = 0x0F
	AssetMapEnts         AssetType = 0x10
	AssetGfxWorld        AssetType = 0x11
	AssetLightDef        AssetType = 0x12
	AssetUIMap           AssetType = 0x13
	AssetFont            AssetType = 0x14
	AssetMenuList        AssetType = 0x15
	AssetMenu            AssetType = 0x16
	AssetLocalizeEntry   AssetType = 0x17
	AssetWeapon          AssetType = 0x18
	AssetWeaponDef       AssetType = 0x19
	AssetWeaponVariant   AssetType = 0x1A
	AssetSndDriverGlobals AssetType = 0x1B
	AssetFx              AssetType = 0x1C
	AssetImpactFx        AssetType = 0x1D
	AssetAIType          AssetType = 0x1E
	AssetMPType          AssetType = 0x1F
	AssetMPBody          AssetType = 0x20
	AssetMPHead          AssetType = 0x21
	AssetCharacter       AssetType = 0x22
	AssetXModelAlias     AssetType = 0x23
	AssetRawFile         AssetType = 0x24
	AssetStringTable     AssetType = 0x25
	AssetPackIndex       AssetType = 0x26
	AssetXGlobals        AssetType = 0x27
	AssetDdl             AssetType = 0x28
	AssetGlasses         AssetType = 0x29
	AssetEmblemSet       AssetType = 0x2A
	AssetString          AssetType = 0x2B
	AssetAssetList       AssetType = 0x2C
)

var assetTypeNames = map[AssetType]string{
	AssetXModelPieces:     "xmodelpieces",
	AssetPhysPreset:       "physpreset",
	AssetPhysConstraints:  "physconstraints",
	AssetDestructibleDef:  "destructibledef",
	AssetXAnimParts:       "xanimparts",
	AssetXModel:           "xmodel",
	AssetMaterial:         "material",
	AssetTechniqueSet:     "techniqueset",
	AssetImage:            "image",
	AssetSound:            "sound",
	AssetSoundPatch:       "soundpatch",
	AssetClipMap:          "clipmap",
	AssetClipMapPVS:       "clipmap_pvs",
	AssetComWorld:         "comworld",
	AssetGameWorldSP:      "gameworld_sp",
	AssetGameWorldMP:      "gameworld_mp",
	AssetMapEnts:          "map_ents",
	AssetGfxWorld:         "gfxworld",
	AssetLightDef:         "light_def",
	AssetUIMap:            "ui_map",
	AssetFont:             "font",
	AssetMenuList:         "menulist",
	AssetMenu:             "menu",
	AssetLocalizeEntry:    "localize_entry",
	AssetWeapon:           "weapon",
	AssetWeaponDef:        "weapondef",
	AssetWeaponVariant:    "weapon_variant",
	AssetSndDriverGlobals: "snddriver_globals",
	AssetFx:               "fx",
	AssetImpactFx:         "impact_fx",
	AssetAIType:           "aitype",
	AssetMPType:           "mptype",
	AssetMPBody:           "mpbody",
	AssetMPHead:           "mphead",
	AssetCharacter:        "character",
	AssetXModelAlias:      "xmodelalias",
	AssetRawFile:          "rawfile",
	AssetStringTable:      "stringtable",
	AssetPackIndex:        "packindex",
	AssetXGlobals:         "xglobals",
	AssetDdl:              "ddl",
	AssetGlasses:          "glasses",
	AssetEmblemSet:        "emblemset",
	AssetString:           "string",
	AssetAssetList:        "assetlist",
}

func (t AssetType) String() string {
	if n, ok := assetTypeNames[t]; ok {
		return n
	}
	return "unknown"
}

// unusedAssetTypes are variants this build of T5 is known not to emit,
// even though the tag is a defined enum member.
var unusedAssetTypes = map[AssetType]bool{
	AssetXModelPieces:     true,
	AssetSndDriverGlobals: true,
}

// XAsset is one decoded top-level record: its tag, its name when the
// underlying schema exposes one, and the schema-specific decoded value
// (nil for asset kinds this package doesn't implement a schema for).
type XAsset struct {
	Type AssetType `json:"type"`
	Name string    `json:"name,omitempty"`
	Data any       `json:"data,omitempty"`
}

// schemaReader decodes one asset's raw data, already positioned at (or
// about to be seeked/inlined to) the asset's raw bytes by the dispatcher.
// It returns the decoded value and the asset's name, if any.
type schemaReader func(d *Deserializer) (value any, name string, err error)

// schemaTable is the static tag->reader mapping for the implemented
// schemas. Everything not present here is out of scope; readOneAsset
// falls back to notImplementedSchema for those tags.
var schemaTable = map[AssetType]schemaReader{
	AssetRawFile:       readRawFile,
	AssetLocalizeEntry: readLocalizeEntry,
	AssetStringTable:   readStringTable,
	AssetFont:          readFont,
	AssetMaterial:      readMaterial,
	AssetPhysPreset:    readPhysPreset,
	AssetXGlobals:      readXGlobals,
}

// notImplementedSchema stands in for the ~38 asset kinds this package
// doesn't ship a schema descriptor for. Returning KindTodo here, rather
// than silently returning an empty value, means every defined tag has a
// definite outcome: a decoded value from its schema, or a KindTodo error.
func notImplementedSchema(d *Deserializer) (any, string, error) {
	return nil, "", newErrMsg("notImplementedSchema", d.cursor.Position(), KindTodo, "schema not implemented")
}

// readAssetList reads the asset array's fat pointer referent: count
// consecutive (asset_type u32, asset_data pointer-token) records, each
// record's data pointer immediately dispatched to its schema so that an
// inline sentinel's referent lands exactly where the format expects it
// (right after the record that names it).
func (d *Deserializer) readAssetList(count uint32, token uint32) ([]XAsset, error) {
	if IsNull(token) || count == 0 {
		return nil, nil
	}
	var assets []XAsset
	err := d.dispatchToken("readAssetList", token, func() error {
		assets = make([]XAsset, 0, count)
		for i := uint32(0); i < count; i++ {
			asset, err := d.readOneAsset()
			if err != nil {
				return err
			}
			assets = append(assets, asset)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func (d *Deserializer) readOneAsset() (XAsset, error) {
	rawType, err := d.cursor.ReadU32()
	if err != nil {
		return XAsset{}, err
	}
	dataToken, err := d.cursor.ReadU32()
	if err != nil {
		return XAsset{}, err
	}

	assetType := AssetType(rawType)
	if _, known := assetTypeNames[assetType]; !known {
		return XAsset{}, newErrValue("readOneAsset", d.cursor.Position(), KindInvalidXAssetType, int64(rawType))
	}

	if unusedAssetTypes[assetType] {
		if !d.opts.AllowUnusedXAssetTypes {
			return XAsset{}, newErrValue("readOneAsset", d.cursor.Position(), KindUnusedXAssetType, int64(rawType))
		}
		d.Anomalies = append(d.Anomalies, "unused asset type emitted: "+assetType.String())
	}

	reader, ok := schemaTable[assetType]
	if !ok {
		reader = notImplementedSchema
	}

	var (
		value any
		name  string
	)
	err = d.dispatchToken("readOneAsset.data", dataToken, func() error {
		v, n, e := reader(d)
		value, name = v, n
		return e
	})
	if err != nil {
		return XAsset{}, err
	}
	return XAsset{Type: assetType, Name: name, Data: value}, nil
}
