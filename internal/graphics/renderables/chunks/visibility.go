package chunks

import "chunkview/internal/config"

// AdjustDist converts a view distance in blocks into the squared distance
// chunk centres are compared against. The sqrt(2) factor covers the corners
// of the view and the extra 24 blocks cover half a chunk diagonal.
func AdjustDist(dist int) int {
	if dist < ChunkSize {
		dist = ChunkSize
	}
	dist = int(1.4142135 * float64(dist))
	return (dist + 24) * (dist + 24)
}

// calcViewDists reads both view distances. Chunks stay built within the
// user's view distance even when the current one is reduced.
func (r *ChunkRenderer) calcViewDists() {
	r.buildDistSq = AdjustDist(config.GetUserViewDistance())
	r.renderDistSq = AdjustDist(config.GetViewDistance())
}

// RenderDistSq and BuildDistSq return the current squared thresholds.
func (r *ChunkRenderer) RenderDistSq() int { return r.renderDistSq }
func (r *ChunkRenderer) BuildDistSq() int  { return r.buildDistSq }

// testVisible updates info.Visible and reports whether the chunk should be
// drawn this frame.
func (r *ChunkRenderer) testVisible(info *ChunkInfo, dist int) bool {
	info.Visible = dist <= r.renderDistSq &&
		r.frustum.SphereInFrustum(float32(info.CentreX), float32(info.CentreY), float32(info.CentreZ), chunkRadius)
	return info.Visible && !info.Empty
}
