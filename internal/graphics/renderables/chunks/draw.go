package chunks

import (
	"math"

	"chunkview/internal/graphics/gfx"
	"chunkview/internal/profiling"
	"chunkview/internal/world"
)

// DrawFacePair draws the min and max face runs of one axis starting at
// offset. When both are drawn they go out as one call with face culling so
// the back facing half is dropped by the GPU; a single face needs no
// culling. It returns the number of vertices submitted.
func DrawFacePair(dev gfx.Device, minCount, maxCount int32, drawMin, drawMax, cull bool, offset int) int {
	drawMin = drawMin && minCount > 0
	drawMax = drawMax && maxCount > 0

	switch {
	case drawMin && drawMax:
		if cull {
			dev.SetFaceCulling(true)
		}
		dev.DrawIndexedTris(int(minCount+maxCount), offset)
		if cull {
			dev.SetFaceCulling(false)
		}
		return int(minCount + maxCount)
	case drawMin:
		dev.DrawIndexedTris(int(minCount), offset)
		return int(minCount)
	case drawMax:
		dev.DrawIndexedTris(int(maxCount), offset+int(minCount))
		return int(maxCount)
	}
	return 0
}

// drawFaces draws the three axis pairs of a part beginning at offset.
func (r *ChunkRenderer) drawFaces(info *ChunkInfo, part *ChunkPart, offset int, cull, all bool) {
	c := &part.Counts
	r.vertices += DrawFacePair(r.dev, c[world.FaceXMin], c[world.FaceXMax],
		all || info.DrawXMin, all || info.DrawXMax, cull, offset)
	offset += int(c[world.FaceXMin] + c[world.FaceXMax])

	r.vertices += DrawFacePair(r.dev, c[world.FaceZMin], c[world.FaceZMax],
		all || info.DrawZMin, all || info.DrawZMax, cull, offset)
	offset += int(c[world.FaceZMin] + c[world.FaceZMax])

	r.vertices += DrawFacePair(r.dev, c[world.FaceYMin], c[world.FaceYMax],
		all || info.DrawYMin, all || info.DrawYMax, cull, offset)
}

// drawSprites draws the four quadrant runs of a part's sprites, each only
// when the camera can see that side of the chunk.
func (r *ChunkRenderer) drawSprites(info *ChunkInfo, part *ChunkPart) {
	if part.SpriteCount == 0 {
		return
	}
	offset := int(part.Offset)
	count := int(part.SpriteCount) / 4

	quadrants := [4]bool{
		info.DrawXMax || info.DrawZMin,
		info.DrawXMin || info.DrawZMax,
		info.DrawXMin || info.DrawZMin,
		info.DrawXMax || info.DrawZMax,
	}
	r.dev.SetFaceCulling(true)
	for _, visible := range quadrants {
		if visible {
			r.dev.DrawIndexedTris(count, offset)
			r.vertices += count
		}
		offset += count
	}
	r.dev.SetFaceCulling(false)
}

func (r *ChunkRenderer) renderNormalBatch(batch int) {
	for _, info := range r.render {
		if info.NormalParts == nil {
			continue
		}
		part := info.NormalParts.At(batch)
		if part.Empty() {
			continue
		}
		r.hasNormParts[batch] = true

		r.dev.BindVb(info.Vb)
		r.drawFaces(info, part, int(part.Offset+part.SpriteCount), true, false)
		r.drawSprites(info, part)
	}
}

// RenderOpaque draws the normal parts of every render chunk, one atlas batch
// at a time. Weather is drawn here, before translucent geometry, when the
// camera is inside translucent blocks.
func (r *ChunkRenderer) RenderOpaque(delta float64) {
	if r.mapChunks == nil {
		return
	}
	defer profiling.Track("chunks.RenderOpaque")()
	prev := r.dev.State()
	start := r.vertices

	r.dev.SetTexturing(true)
	r.dev.SetAlphaTest(true)
	r.dev.EnableMipmaps()
	for batch := 0; batch < r.UsedBatches; batch++ {
		if r.normPartsCount[batch] <= 0 {
			continue
		}
		if r.hasNormParts[batch] || r.checkNormParts[batch] {
			r.dev.BindTexture(r.atlas.Texture(batch))
			r.renderNormalBatch(batch)
			r.checkNormParts[batch] = false
		}
	}
	r.dev.DisableMipmaps()

	r.checkWeather(delta)
	profiling.Add("chunks.vertices", r.vertices-start)
	gfx.Restore(r.dev, prev)
}

// checkWeather decides whether the camera is in translucent blocks (under
// water, or below the edge level outside the map). In that case weather has
// to be drawn before translucent geometry to blend correctly.
func (r *ChunkRenderer) checkWeather(delta float64) {
	p := r.camera.CurrentPos()
	x := int(math.Floor(float64(p.X())))
	y := int(math.Floor(float64(p.Y())))
	z := int(math.Floor(float64(p.Z())))

	block := r.world.SafeGetBlock(x, y, z)
	outside := y < 0 || !r.world.ContainsXZ(x, z)
	r.inTranslucent = r.registry.Draw(block) == world.DrawTranslucent ||
		(r.env != nil && y < r.env.EdgeHeight && outside)

	if !r.inTranslucent || r.weather == nil || r.sunny() {
		return
	}
	r.dev.SetAlphaBlending(true)
	r.weather.Render(delta)
	r.dev.SetAlphaBlending(false)
}

func (r *ChunkRenderer) sunny() bool {
	return r.env == nil || r.env.Weather == world.WeatherSunny
}

// InTranslucent reports the result of the last camera block check.
func (r *ChunkRenderer) InTranslucent() bool { return r.inTranslucent }

func (r *ChunkRenderer) renderTranslucentBatch(batch int) {
	for _, info := range r.render {
		if info.TranslucentParts == nil {
			continue
		}
		part := info.TranslucentParts.At(batch)
		if part.Empty() {
			continue
		}
		r.hasTranParts[batch] = true

		r.dev.BindVb(info.Vb)
		r.drawFaces(info, part, int(part.Offset), false, r.inTranslucent)
	}
}

// RenderTranslucent draws the translucent parts in two passes: a depth only
// pass that fills the depth buffer, then a blended colour pass that does not
// write depth. Weather follows unless it was already drawn by RenderOpaque.
func (r *ChunkRenderer) RenderTranslucent(delta float64) {
	if r.mapChunks == nil {
		return
	}
	defer profiling.Track("chunks.RenderTranslucent")()
	prev := r.dev.State()

	// Depth pre-pass. Its vertices are not counted.
	vertices := r.vertices
	r.dev.SetTexturing(false)
	r.dev.SetAlphaBlending(false)
	r.dev.SetColorWriteMask(false, false, false, false)
	for batch := 0; batch < r.UsedBatches; batch++ {
		if r.tranPartsCount[batch] <= 0 {
			continue
		}
		if r.hasTranParts[batch] || r.checkTranParts[batch] {
			r.renderTranslucentBatch(batch)
			r.checkTranParts[batch] = false
		}
	}
	r.vertices = vertices

	// Colour pass over the depth written above.
	r.dev.SetAlphaBlending(true)
	r.dev.SetTexturing(true)
	r.dev.SetColorWriteMask(true, true, true, true)
	r.dev.SetDepthWrite(false)
	r.dev.SetDepthTest(true)
	r.dev.EnableMipmaps()
	for batch := 0; batch < r.UsedBatches; batch++ {
		if r.tranPartsCount[batch] <= 0 || !r.hasTranParts[batch] {
			continue
		}
		r.dev.BindTexture(r.atlas.Texture(batch))
		r.renderTranslucentBatch(batch)
	}
	r.dev.DisableMipmaps()
	r.dev.SetDepthWrite(true)

	if !r.inTranslucent && r.weather != nil && !r.sunny() {
		r.dev.SetAlphaTest(true)
		r.weather.Render(delta)
		r.dev.SetAlphaTest(false)
	}
	profiling.Add("chunks.vertices", r.vertices-vertices)
	gfx.Restore(r.dev, prev)
}
