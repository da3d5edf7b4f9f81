package surface

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/surface-decals/internal/engine/gpu"
	"github.com/Faultbox/surface-decals/pkg/formats"
)

// Save writes every record to path as a VD stream.
func (s *Store) Save(path string) error {
	if !s.allocated {
		return ErrNotAllocated
	}
	if len(s.records) == 0 {
		return ErrEmptyMesh
	}
	if err := formats.WriteVDFile(path, s.records); err != nil {
		return fmt.Errorf("saving material records: %w", err)
	}
	s.log.Info("material records saved",
		zap.String("path", path),
		zap.Int("vertices", len(s.records)),
	)
	return nil
}

// Load replaces every record with the contents of a VD file. The file must
// hold exactly one record per vertex. On any error the store and the GPU
// buffer are left untouched; on success the whole buffer is rewritten once.
func (s *Store) Load(path string) error {
	if !s.allocated {
		return ErrNotAllocated
	}
	if len(s.records) == 0 {
		return ErrEmptyMesh
	}

	records, err := formats.ReadVDFile(path, len(s.records))
	if err != nil {
		return fmt.Errorf("loading material records: %w", err)
	}

	copy(s.records, records)
	s.buf.Write(gpu.Range{Offset: 0, Data: formats.EncodeMaterialVertices(s.records)})

	s.log.Info("material records loaded",
		zap.String("path", path),
		zap.Int("vertices", len(s.records)),
	)
	return nil
}
