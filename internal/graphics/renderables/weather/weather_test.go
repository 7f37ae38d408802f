package weather

import (
	"testing"

	"chunkview/internal/event"
	"chunkview/internal/graphics/gfx"
	"chunkview/internal/graphics/gfx/gfxtest"
	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

type camera struct{ pos mgl32.Vec3 }

func (c *camera) CurrentPos() mgl32.Vec3 { return c.pos }

func setup(t *testing.T) (*Renderer, *world.Grid, *gfxtest.Recorder, *event.Bus, *camera) {
	t.Helper()
	bus := event.NewBus()
	grid, err := world.NewGrid(16, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	grid.Attach(bus)
	grid.Fill(0, 0, 0, 15, 3, 15, world.BlockStone)

	dev := gfxtest.NewRecorder()
	cam := &camera{pos: mgl32.Vec3{8.5, 10, 8.5}}
	r := New(dev, bus, world.NewEnv(bus, 16), world.DefaultRegistry(nil), cam)
	if err := r.Init(); err != nil {
		t.Fatal(err)
	}
	r.SetWorld(grid)
	bus.NewMapLoaded.Raise()
	dev.Reset()
	return r, grid, dev, bus, cam
}

func TestSunnyDrawsNothing(t *testing.T) {
	r, _, dev, _, _ := setup(t)
	r.Render(0.016)
	if len(dev.Draws()) != 0 {
		t.Fatalf("sunny: got %d draws, want 0", len(dev.Draws()))
	}
}

func TestRainColumns(t *testing.T) {
	r, _, dev, _, _ := setup(t)
	r.env.SetWeather(world.WeatherRainy)
	r.Render(0.016)

	draws := dev.Draws()
	if len(draws) != 1 {
		t.Fatalf("draws: got %d, want 1", len(draws))
	}
	// 69 columns lie strictly inside a radius of five cells.
	if got := draws[0].Args[0]; got != 69*8 {
		t.Fatalf("vertices: got %d, want %d", got, 69*8)
	}
	s := draws[0].State
	if !s.Texturing || s.DepthWrite {
		t.Fatalf("draw state: got %+v", s)
	}
	if draws[0].Tex != r.rain {
		t.Fatalf("texture: got %d, want rain %d", draws[0].Tex, r.rain)
	}
	if dev.State() != gfx.DefaultState {
		t.Fatalf("state after render: got %+v, want default", dev.State())
	}
	for _, v := range r.Vertices() {
		if v.Y < 6 || v.Y > 16 {
			t.Fatalf("vertex y %v outside [6, 16]", v.Y)
		}
	}

	r.env.SetWeather(world.WeatherSnowy)
	dev.Reset()
	r.Render(0.016)
	if dev.Draws()[0].Tex != r.snow {
		t.Fatal("snowy: snow texture not bound")
	}
}

func TestColumnHeights(t *testing.T) {
	r, grid, _, _, _ := setup(t)
	if got := r.Height(5, 5); got != 4 {
		t.Fatalf("ground: got %d, want 4", got)
	}

	grid.SetBlock(5, 12, 5, world.BlockStone)
	if got := r.Height(5, 5); got != 13 {
		t.Fatalf("after placing a block: got %d, want 13", got)
	}
	// Flowers do not stop rain.
	grid.SetBlock(6, 9, 6, world.BlockRose)
	if got := r.Height(6, 6); got != 4 {
		t.Fatalf("under a flower: got %d, want 4", got)
	}
	if got := r.Height(-3, 5); got != r.env.EdgeHeight {
		t.Fatalf("outside the map: got %d, want edge height %d", got, r.env.EdgeHeight)
	}
}

func TestColumnsBelowGroundSkipped(t *testing.T) {
	r, _, dev, _, cam := setup(t)
	r.env.SetWeather(world.WeatherRainy)
	cam.pos = mgl32.Vec3{8, -8, 8}
	r.Render(0.016)
	if len(dev.Draws()) != 0 {
		t.Fatal("camera under the map: weather drawn")
	}
}

func TestDispose(t *testing.T) {
	r, _, dev, bus, _ := setup(t)
	r.env.SetWeather(world.WeatherRainy)
	r.Render(0.016)
	r.Dispose()
	if dev.LiveTextures() != 0 || dev.LiveVbs() != 0 {
		t.Fatalf("after dispose: %d textures, %d buffers live", dev.LiveTextures(), dev.LiveVbs())
	}
	if bus.BlockChanged.Len() != 0 || bus.NewMapLoaded.Len() != 0 {
		t.Fatal("handlers still registered after dispose")
	}
}
