package mesh

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignProvokingVertices_Rotations(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    []uint32
		shared  int
	}{
		{
			name:    "last vertex free",
			indices: []uint32{0, 1, 2, 3, 4, 5},
			want:    []uint32{0, 1, 2, 3, 4, 5},
		},
		{
			name:    "second vertex rotated last",
			indices: []uint32{0, 1, 2, 3, 4, 2},
			want:    []uint32{0, 1, 2, 2, 3, 4},
		},
		{
			name:    "first vertex rotated last",
			indices: []uint32{0, 1, 2, 5, 6, 1, 3, 1, 2},
			want:    []uint32{0, 1, 2, 5, 6, 1, 1, 2, 3},
		},
		{
			name:    "all claimed left alone",
			indices: []uint32{0, 1, 2, 3, 0, 1, 1, 2, 0, 2, 0, 1},
			want:    []uint32{0, 1, 2, 3, 0, 1, 1, 2, 0, 2, 0, 1},
			shared:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := append([]uint32(nil), tt.indices...)
			shared := AssignProvokingVertices(got, 4+len(tt.indices))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.shared, shared)
		})
	}
}

// gridIndices builds a w x h quad grid, two triangles per cell.
func gridIndices(w, h int) ([]uint32, int) {
	var idx []uint32
	stride := w + 1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint32(y*stride + x)
			s := uint32(stride)
			idx = append(idx, v, v+1, v+s, v+s, v+1, v+s+1)
		}
	}
	return idx, (w + 1) * (h + 1)
}

func TestAssignProvokingVertices_GridSharedCount(t *testing.T) {
	// Two triangles per cell outnumber the vertices, so some must share
	indices, vertexCount := gridIndices(8, 8)
	require.Greater(t, len(indices)/3, vertexCount)

	shared := AssignProvokingVertices(indices, vertexCount)

	seen := make(map[uint32]int)
	for i := 2; i < len(indices); i += 3 {
		seen[indices[i]]++
	}
	dups := 0
	for _, n := range seen {
		if n > 1 {
			dups += n - 1
		}
	}
	assert.Equal(t, shared, dups, "shared count must match duplicated provoking vertices")
}

func TestAssignProvokingVertices_DisjointAlwaysUnique(t *testing.T) {
	// A strip where each triangle brings a fresh vertex can always be satisfied
	var indices []uint32
	for i := uint32(0); i+2 < 40; i++ {
		indices = append(indices, i, i+1, i+2)
	}

	shared := AssignProvokingVertices(indices, 40)
	assert.Zero(t, shared)

	provoking := make(map[uint32]bool)
	for i := 2; i < len(indices); i += 3 {
		assert.False(t, provoking[indices[i]], "vertex %d provokes twice", indices[i])
		provoking[indices[i]] = true
	}
}

func TestAssignProvokingVertices_WindingPreserved(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const vertexCount = 30
	indices := make([]uint32, 3*60)
	for i := 0; i < len(indices); i += 3 {
		perm := rng.Perm(vertexCount)
		indices[i], indices[i+1], indices[i+2] = uint32(perm[0]), uint32(perm[1]), uint32(perm[2])
	}
	before := append([]uint32(nil), indices...)

	AssignProvokingVertices(indices, vertexCount)

	for i := 0; i < len(indices); i += 3 {
		a, b, c := before[i], before[i+1], before[i+2]
		got := [3]uint32{indices[i], indices[i+1], indices[i+2]}
		rotations := [][3]uint32{{a, b, c}, {c, a, b}, {b, c, a}}
		assert.Contains(t, rotations, got, "triangle %d is not a cyclic rotation", i/3)

		sortedBefore := []int{int(a), int(b), int(c)}
		sortedAfter := []int{int(got[0]), int(got[1]), int(got[2])}
		sort.Ints(sortedBefore)
		sort.Ints(sortedAfter)
		assert.Equal(t, sortedBefore, sortedAfter)
	}
}
