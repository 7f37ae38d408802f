package chunks

import (
	"errors"
	"fmt"
)

// MaxPartEntries caps the size of the part storage (both halves together).
const MaxPartEntries = 1 << 28

// ErrAllocation is returned when the chunk arrays or the part storage cannot
// be sized for the current world. The renderer cannot run without them.
var ErrAllocation = errors.New("chunks: allocation failed")

// PartKind selects one half of the part storage.
type PartKind int

const (
	Normal PartKind = iota
	Translucent
)

func (k PartKind) String() string {
	if k == Translucent {
		return "translucent"
	}
	return "normal"
}

// PartStorage holds one ChunkPart per chunk, atlas batch and kind. Each half
// is batch major: parts[kind][batch][chunk]. Both halves share one backing
// array that is zeroed on allocation.
type PartStorage struct {
	chunks  int
	batches int
	raw     []ChunkPart
	parts   [2][][]ChunkPart
	rows    [2][]PartRow
}

// PartRow is the run of one chunk's parts across every atlas batch.
type PartRow struct {
	s     *PartStorage
	kind  PartKind
	chunk int
}

// At returns the part for an atlas batch. It panics if batch is out of range.
func (r *PartRow) At(batch int) *ChunkPart {
	return &r.s.parts[r.kind][batch][r.chunk]
}

// Len returns the number of atlas batches in the row.
func (r *PartRow) Len() int {
	return r.s.batches
}

// Clear marks every batch of the row unused.
func (r *PartRow) Clear() {
	for b := 0; b < r.s.batches; b++ {
		*r.At(b) = ChunkPart{Offset: -1}
	}
}

func checkPartSize(chunks, batches int) (int, error) {
	if chunks < 0 || batches < 0 {
		return 0, fmt.Errorf("%w: %d chunks x %d batches", ErrAllocation, chunks, batches)
	}
	if batches > 0 && chunks > MaxPartEntries/2/batches {
		return 0, fmt.Errorf("%w: %d chunks x %d batches exceeds %d parts", ErrAllocation, chunks, batches, MaxPartEntries)
	}
	return chunks * batches, nil
}

// Allocate replaces the storage with zeroed parts for the given size.
func (s *PartStorage) Allocate(chunks, batches int) error {
	count, err := checkPartSize(chunks, batches)
	if err != nil {
		return err
	}
	s.Free()
	s.chunks, s.batches = chunks, batches
	s.raw = make([]ChunkPart, count*2)

	for kind := range s.parts {
		half := s.raw[kind*count : (kind+1)*count]
		s.parts[kind] = make([][]ChunkPart, batches)
		for b := range s.parts[kind] {
			s.parts[kind][b] = half[b*chunks : (b+1)*chunks : (b+1)*chunks]
		}
		s.rows[kind] = make([]PartRow, chunks)
		for c := range s.rows[kind] {
			s.rows[kind][c] = PartRow{s: s, kind: PartKind(kind), chunk: c}
		}
	}
	return nil
}

// Free drops the storage. Rows handed out earlier must not be used again.
func (s *PartStorage) Free() {
	s.raw = nil
	s.parts = [2][][]ChunkPart{}
	s.rows = [2][]PartRow{}
	s.chunks, s.batches = 0, 0
}

// Allocated reports whether Allocate has been called since the last Free.
func (s *PartStorage) Allocated() bool {
	return s.raw != nil
}

// Row returns the row of a chunk. The pointer is stable until the next
// Allocate or Free.
func (s *PartStorage) Row(kind PartKind, chunkIndex int) *PartRow {
	return &s.rows[kind][chunkIndex]
}

// Batches returns the number of atlas batches per row.
func (s *PartStorage) Batches() int { return s.batches }

// Chunks returns the number of chunks per batch.
func (s *PartStorage) Chunks() int { return s.chunks }
