package chunks

import (
	"fmt"
	"math"

	"chunkview/internal/world"
)

// Pack returns the index of the chunk at chunk coordinates (cx, cy, cz).
func (r *ChunkRenderer) Pack(cx, cy, cz int) int {
	return cx + cy*r.ChunksX + cz*r.ChunksX*r.ChunksY
}

// GetChunk returns the chunk at chunk coordinates, which must be in range.
func (r *ChunkRenderer) GetChunk(cx, cy, cz int) *ChunkInfo {
	return &r.mapChunks[r.Pack(cx, cy, cz)]
}

// Loaded reports whether the chunk arrays are allocated for a world.
func (r *ChunkRenderer) Loaded() bool {
	return r.mapChunks != nil
}

func chunksFor(blocks int) int {
	return (blocks + chunkMask) >> chunkShift
}

// OnNewMap deletes every chunk and frees all arrays.
func (r *ChunkRenderer) OnNewMap() {
	r.totalUpdates = 0
	r.deleteChunks()
	r.resetPartCounts()

	r.resetChunkPos()
	r.freeChunks()
	r.parts.Free()
}

// OnNewMapLoaded sizes the chunk grid for the current world and resets every
// chunk. ErrAllocation means the world is too large to render.
func (r *ChunkRenderer) OnNewMapLoaded() error {
	if r.world == nil {
		return fmt.Errorf("%w: no world", ErrAllocation)
	}
	w, h, l := r.world.Dimensions()
	cx, cy, cz := chunksFor(w), chunksFor(h), chunksFor(l)
	count := int64(cx) * int64(cy) * int64(cz)
	if cx <= 0 || cy <= 0 || cz <= 0 || count > math.MaxInt32 {
		return fmt.Errorf("%w: %dx%dx%d chunks", ErrAllocation, cx, cy, cz)
	}

	r.deleteChunks()
	r.ChunksX, r.ChunksY, r.ChunksZ = cx, cy, cz
	r.ChunksCount = int(count)

	r.UsedBatches = r.usedAtlases()
	r.resizeBatchFlags()
	r.resetPartCounts()
	r.resetPartFlags()

	r.freeChunks()
	r.parts.Free()
	if err := r.parts.Allocate(r.ChunksCount, r.UsedBatches); err != nil {
		r.ChunksCount = 0
		return err
	}
	r.allocateChunks()
	r.initChunks()

	if r.builder != nil {
		r.builder.OnNewMapLoaded(r.world)
	}
	r.resetChunkPos()
	r.forceMoved()
	r.logger.Printf("allocated %d chunks (%dx%dx%d), %d atlas batches", r.ChunksCount, cx, cy, cz, r.UsedBatches)
	return nil
}

func (r *ChunkRenderer) allocateChunks() {
	r.mapChunks = make([]ChunkInfo, r.ChunksCount)
	r.sorted = make([]sortEntry, r.ChunksCount)
	r.render = make([]*ChunkInfo, 0, r.ChunksCount)
}

func (r *ChunkRenderer) freeChunks() {
	r.mapChunks = nil
	r.sorted = nil
	r.render = nil
}

// initChunks resets every chunk and points the sorted and render lists at
// the chunks in index order.
func (r *ChunkRenderer) initChunks() {
	r.resetChunks()
	r.render = r.render[:0]
	for i := range r.mapChunks {
		r.sorted[i] = sortEntry{info: &r.mapChunks[i]}
		r.render = append(r.render, &r.mapChunks[i])
	}
}

func (r *ChunkRenderer) resetChunks() {
	w, h, l := r.world.Dimensions()
	index := 0
	for z := 0; z < l; z += ChunkSize {
		for y := 0; y < h; y += ChunkSize {
			for x := 0; x < w; x += ChunkSize {
				r.mapChunks[index].Index = index
				r.mapChunks[index].reset(x, y, z)
				index++
			}
		}
	}
}

func (r *ChunkRenderer) deleteChunks() {
	if r.mapChunks == nil {
		return
	}
	for i := range r.mapChunks {
		r.deleteChunk(&r.mapChunks[i])
	}
	r.resetPartCounts()
}

// deleteChunk frees the chunk's vertex buffer and releases its part rows.
func (r *ChunkRenderer) deleteChunk(info *ChunkInfo) {
	if r.dev != nil {
		r.dev.DeleteVb(&info.Vb)
	}
	info.Empty = false
	info.AllAir = false

	if info.NormalParts != nil {
		releaseRow(info.NormalParts, r.normPartsCount)
		info.NormalParts = nil
	}
	if info.TranslucentParts != nil {
		releaseRow(info.TranslucentParts, r.tranPartsCount)
		info.TranslucentParts = nil
	}
}

func releaseRow(row *PartRow, counts []int) {
	n := min(row.Len(), len(counts))
	for b := 0; b < n; b++ {
		if row.At(b).Empty() {
			continue
		}
		counts[b]--
	}
}

func claimRow(row *PartRow, counts []int) {
	n := min(row.Len(), len(counts))
	for b := 0; b < n; b++ {
		if !row.At(b).Empty() {
			counts[b]++
		}
	}
}

// RefreshChunk marks a chunk stale so it is rebuilt on a later Update.
// Out of range and all-air chunks are ignored.
func (r *ChunkRenderer) RefreshChunk(cx, cy, cz int) {
	if cx < 0 || cy < 0 || cz < 0 || cx >= r.ChunksX || cy >= r.ChunksY || cz >= r.ChunksZ {
		return
	}
	if r.mapChunks == nil {
		return
	}
	info := r.GetChunk(cx, cy, cz)
	if info.AllAir {
		return
	}
	info.Empty = false
	info.PendingDelete = true
}

// RefreshAll deletes all chunk geometry and resets every chunk. The part
// storage is reallocated when the number of used atlas batches changed.
func (r *ChunkRenderer) RefreshAll() {
	r.resetChunkPos()

	if r.mapChunks != nil && r.world != nil {
		r.deleteChunks()
		r.resetChunks()

		old := r.UsedBatches
		r.UsedBatches = r.usedAtlases()
		if r.UsedBatches != old {
			r.resizeBatchFlags()
			if err := r.parts.Allocate(r.ChunksCount, r.UsedBatches); err != nil {
				r.logger.Fatalf("reallocating chunk parts: %v", err)
			}
		}
	}
	r.resetPartCounts()
}

// RefreshBorders marks stale every chunk on the world's X/Z border whose
// bottom lies below maxHeight.
func (r *ChunkRenderer) RefreshBorders(maxHeight int) {
	r.resetChunkPos()
	if r.mapChunks == nil {
		return
	}
	for cz := 0; cz < r.ChunksZ; cz++ {
		for cy := 0; cy < r.ChunksY; cy++ {
			for cx := 0; cx < r.ChunksX; cx++ {
				onBorder := cx == 0 || cz == 0 || cx == r.ChunksX-1 || cz == r.ChunksZ-1
				if onBorder && cy*ChunkSize < maxHeight {
					r.RefreshChunk(cx, cy, cz)
				}
			}
		}
	}
}

// RefreshBlock marks stale the chunk containing a block and, for blocks on a
// chunk face, the neighbouring chunk sharing that face.
func (r *ChunkRenderer) RefreshBlock(x, y, z int) {
	if r.mapChunks == nil || x < 0 || y < 0 || z < 0 {
		return
	}
	cx, cy, cz := x>>chunkShift, y>>chunkShift, z>>chunkShift
	bx, by, bz := x&chunkMask, y&chunkMask, z&chunkMask
	if cx >= r.ChunksX || cy >= r.ChunksY || cz >= r.ChunksZ {
		return
	}

	// A block placed into an all-air chunk makes it buildable again.
	if r.registry != nil && r.registry.Draw(r.world.SafeGetBlock(x, y, z)) != world.DrawGas {
		r.GetChunk(cx, cy, cz).AllAir = false
	}
	r.RefreshChunk(cx, cy, cz)
	if bx == 0 {
		r.RefreshChunk(cx-1, cy, cz)
	} else if bx == chunkMask {
		r.RefreshChunk(cx+1, cy, cz)
	}
	if by == 0 {
		r.RefreshChunk(cx, cy-1, cz)
	} else if by == chunkMask {
		r.RefreshChunk(cx, cy+1, cz)
	}
	if bz == 0 {
		r.RefreshChunk(cx, cy, cz-1)
	} else if bz == chunkMask {
		r.RefreshChunk(cx, cy, cz+1)
	}
}
