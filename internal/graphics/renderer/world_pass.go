package renderer

import (
	"chunkview/internal/graphics/renderables/chunks"
	"chunkview/internal/graphics/renderables/weather"
)

// WorldPass draws the world: it updates the chunk renderer and runs its
// opaque and translucent passes. Weather is drawn from inside those passes.
type WorldPass struct {
	Chunks  *chunks.ChunkRenderer
	Weather *weather.Renderer
}

func (p *WorldPass) Init() error {
	if p.Weather != nil {
		if err := p.Weather.Init(); err != nil {
			return err
		}
	}
	p.Chunks.Init()
	return nil
}

func (p *WorldPass) Render(ctx RenderContext) {
	p.Chunks.ResetVertices()
	p.Chunks.Update(ctx.DT)
	p.Chunks.RenderOpaque(ctx.DT)
	p.Chunks.RenderTranslucent(ctx.DT)
}

func (p *WorldPass) Dispose() {
	p.Chunks.Shutdown()
	if p.Weather != nil {
		p.Weather.Dispose()
	}
}

// SetViewport is a no-op; the chunk renderer reacts to ProjectionChanged.
func (p *WorldPass) SetViewport(width, height int) {}
