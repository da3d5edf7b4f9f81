package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// VD (vertex data) format errors.
var (
	ErrTruncatedVDData     = errors.New("truncated VD data")
	ErrVertexCountMismatch = errors.New("VD vertex count does not match mesh")
	ErrEmptyVDData         = errors.New("VD stream has no vertices")
)

// MaterialVertexSize is the encoded size of one MaterialVertex in bytes.
const MaterialVertexSize = 8

// vdHeaderSize is the leading uint32 vertex count.
const vdHeaderSize = 4

// maxVDVertices bounds the allocation for streams read without an expected count.
const maxVDVertices = 1 << 24

// MaterialVertex is the per-vertex material blend record.
// Layout on disk and on the GPU: float32 weight, then four uint8 layer ids.
type MaterialVertex struct {
	Weight float32
	Select [4]uint8
}

// DefaultMaterialVertex returns the record every vertex starts with.
func DefaultMaterialVertex() MaterialVertex {
	return MaterialVertex{Weight: 0, Select: [4]uint8{0, 1, 2, 3}}
}

// PutMaterialVertex encodes v into dst, which must hold MaterialVertexSize bytes.
func PutMaterialVertex(dst []byte, v MaterialVertex) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(v.Weight))
	copy(dst[4:8], v.Select[:])
}

// MaterialVertexAt decodes the record at the start of src.
func MaterialVertexAt(src []byte) MaterialVertex {
	var v MaterialVertex
	v.Weight = math.Float32frombits(binary.LittleEndian.Uint32(src[0:4]))
	copy(v.Select[:], src[4:8])
	return v
}

// EncodeMaterialVertices packs records back to back without a header.
// This is the byte image uploaded to the GPU buffer.
func EncodeMaterialVertices(records []MaterialVertex) []byte {
	buf := make([]byte, len(records)*MaterialVertexSize)
	for i, r := range records {
		PutMaterialVertex(buf[i*MaterialVertexSize:], r)
	}
	return buf
}

// EncodeVD encodes a complete VD stream: vertex count followed by the records.
func EncodeVD(records []MaterialVertex) []byte {
	buf := make([]byte, vdHeaderSize, vdHeaderSize+len(records)*MaterialVertexSize)
	binary.LittleEndian.PutUint32(buf, uint32(len(records)))
	return append(buf, EncodeMaterialVertices(records)...)
}

// ReadVD decodes a VD stream from r. When expected is non-negative the
// stored vertex count must equal it, and the payload is not read otherwise.
func ReadVD(r io.Reader, expected int) ([]MaterialVertex, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading vertex count", ErrTruncatedVDData)
	}

	if expected >= 0 && int64(count) != int64(expected) {
		return nil, fmt.Errorf("%w: file has %d, expected %d", ErrVertexCountMismatch, count, expected)
	}
	if count > maxVDVertices {
		return nil, fmt.Errorf("invalid VD vertex count: %d", count)
	}

	payload := make([]byte, int(count)*MaterialVertexSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: reading %d records", ErrTruncatedVDData, count)
	}

	records := make([]MaterialVertex, count)
	for i := range records {
		records[i] = MaterialVertexAt(payload[i*MaterialVertexSize:])
	}
	return records, nil
}

// ParseVD decodes a VD stream from raw bytes without a count check.
func ParseVD(data []byte) ([]MaterialVertex, error) {
	if len(data) < vdHeaderSize {
		return nil, ErrTruncatedVDData
	}
	return ReadVD(bytes.NewReader(data), -1)
}

// ReadVDFile reads a VD file from disk, requiring expected vertices
// (pass -1 to accept any count).
func ReadVDFile(path string, expected int) ([]MaterialVertex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening VD file: %w", err)
	}
	defer f.Close()

	return ReadVD(f, expected)
}

// WriteVDFile writes records to path as a VD stream.
func WriteVDFile(path string, records []MaterialVertex) error {
	if len(records) == 0 {
		return ErrEmptyVDData
	}
	if err := os.WriteFile(path, EncodeVD(records), 0644); err != nil {
		return fmt.Errorf("writing VD file: %w", err)
	}
	return nil
}
