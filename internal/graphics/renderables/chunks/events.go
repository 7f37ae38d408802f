package chunks

import (
	"chunkview/internal/event"
	"chunkview/internal/world"
)

// registerEvents hooks the renderer to the bus. Handlers only mark state
// (stale chunks, forced re-sort); the chunk arrays are rebuilt by Update.
func (r *ChunkRenderer) registerEvents() {
	if r.bus == nil {
		return
	}
	b := r.bus
	keep := func(unregister func(event.ID), id event.ID) {
		r.unregister = append(r.unregister, func() { unregister(id) })
	}

	keep(b.AtlasChanged.Unregister, b.AtlasChanged.Register(r.onAtlasChanged))
	keep(b.BlockDefChanged.Unregister, b.BlockDefChanged.Register(r.onBlockDefChanged))
	keep(b.EnvVarChanged.Unregister, b.EnvVarChanged.Register(r.onEnvVarChanged))
	keep(b.BlockChanged.Unregister, b.BlockChanged.Register(r.RefreshBlock))

	keep(b.ViewDistanceChanged.Unregister, b.ViewDistanceChanged.Register(r.recalcVisibility))
	keep(b.ProjectionChanged.Unregister, b.ProjectionChanged.Register(r.recalcVisibility))
	keep(b.ContextLost.Unregister, b.ContextLost.Register(r.onContextLost))
	keep(b.ContextRecreated.Unregister, b.ContextRecreated.Register(r.RefreshAll))

	keep(b.NewMap.Unregister, b.NewMap.Register(r.OnNewMap))
	keep(b.NewMapLoaded.Unregister, b.NewMapLoaded.Register(r.onNewMapLoaded))
}

func (r *ChunkRenderer) unregisterEvents() {
	for _, fn := range r.unregister {
		fn()
	}
	r.unregister = nil
}

func (r *ChunkRenderer) onNewMapLoaded() {
	if err := r.OnNewMapLoaded(); err != nil {
		r.logger.Fatalf("new map: %v", err)
	}
}

// onAtlasChanged refreshes everything only when the batch layout changed;
// an atlas of the same tile layout keeps the existing geometry.
func (r *ChunkRenderer) onAtlasChanged() {
	tiles := r.atlas.TilesPerBatch()
	used := r.usedAtlases()
	if r.mapChunks != nil && (tiles != r.tilesPerAtlas || used != r.UsedBatches) {
		r.logger.Printf("atlas layout changed (%d -> %d tiles per batch), refreshing", r.tilesPerAtlas, tiles)
		r.RefreshAll()
	}
	r.UsedBatches = used
	r.resizeBatchFlags()
	r.tilesPerAtlas = tiles
	r.resetPartFlags()
}

func (r *ChunkRenderer) onBlockDefChanged() {
	r.RefreshAll()
	r.UsedBatches = r.usedAtlases()
	r.resizeBatchFlags()
	r.resetPartFlags()
}

func (r *ChunkRenderer) onEnvVarChanged(v int) {
	switch world.EnvVar(v) {
	case world.EnvVarSunCol, world.EnvVarShadowCol:
		r.RefreshAll()
	case world.EnvVarEdgeHeight, world.EnvVarSidesOffset:
		oldClip := r.builder.EdgeLevel()
		edge := max(0, r.env.EdgeHeight)
		r.builder.SetLevels(edge, max(0, r.env.SidesHeight()))

		// Only chunks on the map border up to the highest edge level
		// contain edge dependent geometry.
		r.RefreshBorders(max(oldClip, edge))
	}
}

func (r *ChunkRenderer) recalcVisibility() {
	r.forceMoved()
	r.calcViewDists()
}

// onContextLost drops every GPU buffer. The geometry is rebuilt on demand
// once ContextRecreated refreshes the chunks.
func (r *ChunkRenderer) onContextLost() {
	r.logger.Printf("graphics context lost, deleting %d chunks", r.ChunksCount)
	r.deleteChunks()
}
