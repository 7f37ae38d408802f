package chunks

import "chunkview/internal/profiling"

const (
	initialTarget = 12
	minTarget     = 4
	// targetFrameTime is the slowest frame time (in seconds) that still lets
	// the build budget grow.
	targetFrameTime = 1.0/30 + 0.01
	// evictMargin keeps built chunks resident a little past the build
	// distance so a camera on the boundary does not rebuild every frame.
	evictMargin = 32 * 16
)

// Update re-sorts chunks if the camera changed chunk, then evicts, builds and
// culls chunks for this frame. delta is the last frame's duration in seconds.
func (r *ChunkRenderer) Update(delta float64) {
	if r.mapChunks == nil {
		return
	}
	defer profiling.Track("chunks.Update")()

	r.updateSortOrder()
	r.updateChunks(delta)
}

// Target returns the current per-frame build budget.
func (r *ChunkRenderer) Target() int { return r.chunksTarget }

func (r *ChunkRenderer) adjustTarget(delta float64) {
	if delta < targetFrameTime {
		r.chunksTarget++
	} else {
		r.chunksTarget--
	}
	r.chunksTarget = max(minTarget, min(r.chunksTarget, r.MaxUpdates))
}

func (r *ChunkRenderer) updateChunks(delta float64) {
	r.adjustTarget(delta)

	pos := r.camera.CurrentPos()
	yaw, pitch := r.camera.CurrentYaw(), r.camera.CurrentPitch()
	samePos := pos == r.lastCamPos && yaw == r.lastYaw && pitch == r.lastPitch

	r.frustum = r.camera.Frustum()
	updates := 0
	if samePos {
		r.updateChunksStill(&updates)
	} else {
		r.updateChunksAndVisibility(&updates)
	}

	r.lastCamPos, r.lastYaw, r.lastPitch = pos, yaw, pitch
	r.frameUpdates = updates
	r.totalUpdates += updates
	profiling.Add("chunks.updates", updates)

	if !samePos || updates > 0 {
		r.resetPartFlags()
	}
}

// needsBuild evicts chunks past the build distance and reports whether the
// chunk should be (re)built. evicted is true when the chunk was dropped.
func (r *ChunkRenderer) needsBuild(info *ChunkInfo, dist int) (build, evicted bool) {
	noData := !info.HasData()
	if !noData && dist >= r.buildDistSq+evictMargin {
		r.deleteChunk(info)
		return false, true
	}
	noData = noData || info.PendingDelete
	return noData && dist <= r.buildDistSq, false
}

// updateChunksAndVisibility is used after the camera moved: every non-empty
// chunk is frustum tested again.
func (r *ChunkRenderer) updateChunksAndVisibility(updates *int) {
	r.render = r.render[:0]
	for i := range r.sorted {
		info, dist := r.sorted[i].info, r.sorted[i].dist
		if info.Empty {
			continue
		}
		build, evicted := r.needsBuild(info, dist)
		if evicted {
			continue
		}
		if build && *updates < r.chunksTarget {
			r.deleteChunk(info)
			r.buildChunk(info, updates)
		}
		if r.testVisible(info, dist) {
			r.render = append(r.render, info)
		}
	}
}

// updateChunksStill is used while the camera is still: only chunks built
// this frame are frustum tested, the rest keep their visibility.
func (r *ChunkRenderer) updateChunksStill(updates *int) {
	r.render = r.render[:0]
	for i := range r.sorted {
		info, dist := r.sorted[i].info, r.sorted[i].dist
		if info.Empty {
			continue
		}
		build, evicted := r.needsBuild(info, dist)
		if evicted {
			continue
		}
		if build && *updates < r.chunksTarget {
			r.deleteChunk(info)
			r.buildChunk(info, updates)
			if r.testVisible(info, dist) {
				r.render = append(r.render, info)
			}
		} else if info.Visible {
			r.render = append(r.render, info)
		}
	}
}

func (r *ChunkRenderer) buildChunk(info *ChunkInfo, updates *int) {
	*updates++
	info.PendingDelete = false
	r.builder.MakeChunk(info, &r.parts)

	if !info.HasData() {
		info.Empty = true
		return
	}
	if info.NormalParts != nil {
		claimRow(info.NormalParts, r.normPartsCount)
	}
	if info.TranslucentParts != nil {
		claimRow(info.TranslucentParts, r.tranPartsCount)
	}
}
