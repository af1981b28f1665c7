package scenedata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// File layout:
//
//	magic   "ASCN"
//	body    protobuf wire message
//	          1: varint  format version
//	          2: bytes   record (repeated)
//	crc     uint32 little endian, CRC-32 (IEEE) of magic+body
//
// Record message fields:
//
//	1 asset key, 2 id (bytes)
//	3-5 position xyz, 6-9 rotation xyzw, 10-12 scale xyz (fixed32 float bits)
//
// Readers skip fields they do not know, so later versions may add fields
// without breaking older readers of the same major layout.
const (
	FormatVersion = 1

	magic      = "ASCN"
	trailerLen = 4
)

const (
	fieldVersion protowire.Number = 1
	fieldRecord  protowire.Number = 2
)

const (
	fieldAssetKey protowire.Number = iota + 1
	fieldID
	fieldPosX
	fieldPosY
	fieldPosZ
	fieldRotX
	fieldRotY
	fieldRotZ
	fieldRotW
	fieldScaleX
	fieldScaleY
	fieldScaleZ
)

var (
	ErrCorrupt            = errors.New("corrupt scene data")
	ErrUnsupportedVersion = errors.New("unsupported scene data version")
)

// Encode serialises records. Every field is written, including zeros, so
// a decoded record never depends on defaults.
func Encode(records []Record) []byte {
	b := make([]byte, 0, len(magic)+8+len(records)*96+trailerLen)
	b = append(b, magic...)
	b = protowire.AppendTag(b, fieldVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, FormatVersion)

	var rec []byte
	for i := range records {
		rec = appendRecord(rec[:0], &records[i])
		b = protowire.AppendTag(b, fieldRecord, protowire.BytesType)
		b = protowire.AppendBytes(b, rec)
	}
	return binary.LittleEndian.AppendUint32(b, crc32.ChecksumIEEE(b))
}

func appendRecord(b []byte, r *Record) []byte {
	b = protowire.AppendTag(b, fieldAssetKey, protowire.BytesType)
	b = protowire.AppendString(b, r.AssetKey)
	b = protowire.AppendTag(b, fieldID, protowire.BytesType)
	b = protowire.AppendString(b, r.ID)

	floats := [...]struct {
		num protowire.Number
		v   float32
	}{
		{fieldPosX, r.PosX}, {fieldPosY, r.PosY}, {fieldPosZ, r.PosZ},
		{fieldRotX, r.RotX}, {fieldRotY, r.RotY}, {fieldRotZ, r.RotZ}, {fieldRotW, r.RotW},
		{fieldScaleX, r.ScaleX}, {fieldScaleY, r.ScaleY}, {fieldScaleZ, r.ScaleZ},
	}
	for _, f := range floats {
		b = protowire.AppendTag(b, f.num, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(f.v))
	}
	return b
}

// Decode parses data produced by Encode. Any structural problem is
// reported as ErrCorrupt; no partial result is returned.
func Decode(data []byte) ([]Record, error) {
	if len(data) < len(magic)+trailerLen {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrCorrupt, len(data))
	}
	if !bytes.Equal(data[:len(magic)], []byte(magic)) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, data[:len(magic)])
	}
	payload := data[:len(data)-trailerLen]
	want := binary.LittleEndian.Uint32(data[len(data)-trailerLen:])
	if got := crc32.ChecksumIEEE(payload); got != want {
		return nil, fmt.Errorf("%w: checksum mismatch (%08x != %08x)", ErrCorrupt, got, want)
	}

	body := payload[len(magic):]
	var (
		version    uint64
		hasVersion bool
		records    []Record
	)
	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			return nil, wireError(protowire.ParseError(n))
		}
		body = body[n:]

		switch {
		case num == fieldVersion && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, wireError(protowire.ParseError(n))
			}
			version, hasVersion = v, true
			if version > FormatVersion {
				return nil, fmt.Errorf("%w: %d (reader supports up to %d)", ErrUnsupportedVersion, version, FormatVersion)
			}
			body = body[n:]
		case num == fieldRecord && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(body)
			if n < 0 {
				return nil, wireError(protowire.ParseError(n))
			}
			r, err := decodeRecord(raw)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", len(records), err)
			}
			records = append(records, r)
			body = body[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, body)
			if n < 0 {
				return nil, wireError(protowire.ParseError(n))
			}
			body = body[n:]
		}
	}
	if !hasVersion {
		return nil, fmt.Errorf("%w: missing version", ErrCorrupt)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func decodeRecord(b []byte) (Record, error) {
	var r Record
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Record{}, wireError(protowire.ParseError(n))
		}
		b = b[n:]

		if typ == protowire.BytesType && (num == fieldAssetKey || num == fieldID) {
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return Record{}, wireError(protowire.ParseError(n))
			}
			if num == fieldAssetKey {
				r.AssetKey = s
			} else {
				r.ID = s
			}
			b = b[n:]
			continue
		}

		if dst := r.floatField(num); dst != nil && typ == protowire.Fixed32Type {
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return Record{}, wireError(protowire.ParseError(n))
			}
			*dst = math.Float32frombits(v)
			b = b[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return Record{}, wireError(protowire.ParseError(n))
		}
		b = b[n:]
	}
	return r, nil
}

func (r *Record) floatField(num protowire.Number) *float32 {
	switch num {
	case fieldPosX:
		return &r.PosX
	case fieldPosY:
		return &r.PosY
	case fieldPosZ:
		return &r.PosZ
	case fieldRotX:
		return &r.RotX
	case fieldRotY:
		return &r.RotY
	case fieldRotZ:
		return &r.RotZ
	case fieldRotW:
		return &r.RotW
	case fieldScaleX:
		return &r.ScaleX
	case fieldScaleY:
		return &r.ScaleY
	case fieldScaleZ:
		return &r.ScaleZ
	}
	return nil
}

func wireError(err error) error {
	return fmt.Errorf("%w: %v", ErrCorrupt, err)
}
