package chunks

import (
	"cmp"
	"math"
	"slices"
)

// cameraChunkCentre returns the centre of the chunk the camera is in.
func (r *ChunkRenderer) cameraChunkCentre() [3]int {
	p := r.camera.CurrentPos()
	x := int(math.Floor(float64(p.X())))
	y := int(math.Floor(float64(p.Y())))
	z := int(math.Floor(float64(p.Z())))
	return [3]int{
		(x &^ chunkMask) + HalfChunkSize,
		(y &^ chunkMask) + HalfChunkSize,
		(z &^ chunkMask) + HalfChunkSize,
	}
}

// updateSortOrder re-sorts the chunks by distance when the camera entered a
// different chunk since the last call. Distances are measured to the centre
// of the camera's chunk, so they and the face flags only change on chunk
// transitions.
func (r *ChunkRenderer) updateSortOrder() {
	pos := r.cameraChunkCentre()
	if pos == r.chunkPos {
		return
	}
	r.chunkPos = pos
	if r.ChunksCount == 0 {
		return
	}

	for i := range r.sorted {
		e := &r.sorted[i]
		info := e.info
		dx := info.CentreX - pos[0]
		dy := info.CentreY - pos[1]
		dz := info.CentreZ - pos[2]
		e.dist = dx*dx + dy*dy + dz*dz

		// For chunks X-1, X, X+1 with the camera in X:
		//   X-1 draws only its XMax faces, X+1 only its XMin faces,
		//   X draws both.
		info.DrawXMin, info.DrawXMax = dx >= 0, dx <= 0
		info.DrawZMin, info.DrawZMax = dz >= 0, dz <= 0
		info.DrawYMin, info.DrawYMax = dy >= 0, dy <= 0
	}

	slices.SortFunc(r.sorted, func(a, b sortEntry) int {
		return cmp.Compare(a.dist, b.dist)
	})
	r.resetPartFlags()
}
