// Package surface holds the per-vertex material blend painted onto a mesh.
//
// A Store keeps one Record per mesh vertex on the CPU and mirrors it into a
// GPU buffer. Reads always come from the CPU copy. Every write updates the
// CPU record first and then pushes the same bytes to the GPU as a range.
package surface

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/surface-decals/internal/engine/gpu"
	"github.com/Faultbox/surface-decals/internal/engine/mesh"
	"github.com/Faultbox/surface-decals/internal/logger"
	"github.com/Faultbox/surface-decals/pkg/formats"
	"github.com/Faultbox/surface-decals/pkg/math"
)

// Record is the material blend of one vertex.
type Record = formats.MaterialVertex

// RecordSize is the byte size of one Record in the GPU buffer.
const RecordSize = formats.MaterialVertexSize

// Store errors.
var (
	ErrNotAllocated = errors.New("material store not allocated")
	ErrEmptyMesh    = errors.New("mesh has no vertices")
)

// DefaultRecord returns the record every vertex starts with.
func DefaultRecord() Record {
	return formats.DefaultMaterialVertex()
}

// Store owns the material records of one mesh.
type Store struct {
	mesh *mesh.Mesh
	buf  gpu.Buffer
	log  *zap.Logger

	records     []Record
	allocated   bool
	addressable bool
}

// NewStore creates an unallocated store for m. buf receives every upload.
func NewStore(m *mesh.Mesh, buf gpu.Buffer) *Store {
	return &Store{
		mesh: m,
		buf:  buf,
		log:  logger.Named("surface"),
	}
}

// Allocate creates one default record per vertex and uploads them.
// It runs once; later calls do nothing. The result reports whether
// triangles can be addressed through their provoking vertex, which fails
// when the mesh uses 16-bit indices but has more vertices than they reach.
func (s *Store) Allocate() bool {
	if s.allocated {
		return s.addressable
	}

	n := s.mesh.VertexCount()
	s.records = make([]Record, n)
	for i := range s.records {
		s.records[i] = DefaultRecord()
	}
	s.buf.Create(formats.EncodeMaterialVertices(s.records))
	s.allocated = true
	s.addressable = n <= s.mesh.IndexFormat.MaxVertices()

	if !s.addressable {
		s.log.Warn("triangle addressing unavailable",
			zap.Int("vertices", n),
			zap.Stringer("indexFormat", s.mesh.IndexFormat),
		)
	}
	s.log.Debug("material records allocated", zap.Int("vertices", n))
	return s.addressable
}

// Allocated reports whether Allocate has run since the last Release.
func (s *Store) Allocated() bool {
	return s.allocated
}

// Addressable reports whether triangle reads and writes are available.
func (s *Store) Addressable() bool {
	return s.allocated && s.addressable
}

// VertexCount returns the number of records, 0 when unallocated.
func (s *Store) VertexCount() int {
	return len(s.records)
}

// TriangleCount returns the number of mesh triangles.
func (s *Store) TriangleCount() int {
	return s.mesh.TriangleCount()
}

// ReadByVertex returns the record of vertex i.
func (s *Store) ReadByVertex(i int) (Record, bool) {
	if !s.allocated || i < 0 || i >= len(s.records) {
		return Record{}, false
	}
	return s.records[i], true
}

// ReadByTriangle returns the record of the provoking vertex of triangle t.
func (s *Store) ReadByTriangle(t int) (Record, bool) {
	v, ok := s.provoking(t)
	if !ok {
		return Record{}, false
	}
	return s.ReadByVertex(v)
}

// Update overwrites the record of vertex i and pushes it to the GPU.
// Out-of-range indices and an unallocated store are ignored.
func (s *Store) Update(i int, r Record) {
	if !s.allocated || i < 0 || i >= len(s.records) {
		return
	}
	s.records[i] = r

	data := make([]byte, RecordSize)
	formats.PutMaterialVertex(data, r)
	s.buf.Write(gpu.Range{Offset: i * RecordSize, Data: data})
}

// UpdateTriangle overwrites the record of the provoking vertex of triangle t.
func (s *Store) UpdateTriangle(t int, r Record) {
	if v, ok := s.provoking(t); ok {
		s.Update(v, r)
	}
}

// AdjustWeights adds delta to the weight of each listed vertex, clamped to
// [0, 1], and returns how many records changed.
func (s *Store) AdjustWeights(vertices []int, delta float32) int {
	changed := 0
	for _, i := range vertices {
		r, ok := s.ReadByVertex(i)
		if !ok {
			continue
		}
		w := math.Clamp(r.Weight+delta, 0, 1)
		if w == r.Weight {
			continue
		}
		r.Weight = w
		s.Update(i, r)
		changed++
	}
	return changed
}

// Release frees the CPU records and the GPU buffer.
func (s *Store) Release() {
	if !s.allocated {
		return
	}
	s.buf.Delete()
	s.records = nil
	s.allocated = false
	s.addressable = false
	s.log.Debug("material records released")
}

// Records returns the live records. Callers must not modify the slice.
func (s *Store) Records() []Record {
	return s.records
}

func (s *Store) provoking(t int) (int, bool) {
	if !s.Addressable() || t < 0 || t >= s.mesh.TriangleCount() {
		return 0, false
	}
	return int(s.mesh.ProvokingVertex(t)), true
}
