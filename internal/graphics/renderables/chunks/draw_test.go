package chunks

import (
	"testing"

	"chunkview/internal/graphics/gfx"
	"chunkview/internal/graphics/gfx/gfxtest"
	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDrawFacePair(t *testing.T) {
	cases := []struct {
		name             string
		minC, maxC       int32
		drawMin, drawMax bool
		cull             bool
		want             int
		draws            [][2]int
		culled           bool
	}{
		{"both culled", 4, 8, true, true, true, 12, [][2]int{{12, 100}}, true},
		{"both unculled", 4, 8, true, true, false, 12, [][2]int{{12, 100}}, false},
		{"min only", 4, 8, true, false, true, 4, [][2]int{{4, 100}}, false},
		{"max only", 4, 8, false, true, true, 8, [][2]int{{8, 104}}, false},
		{"neither", 4, 8, false, false, true, 0, nil, false},
		{"empty min", 0, 8, true, true, true, 8, [][2]int{{8, 100}}, false},
		{"empty max", 4, 0, true, true, true, 4, [][2]int{{4, 100}}, false},
	}
	for _, c := range cases {
		dev := gfxtest.NewRecorder()
		got := DrawFacePair(dev, c.minC, c.maxC, c.drawMin, c.drawMax, c.cull, 100)
		if got != c.want {
			t.Fatalf("%s: got %d vertices, want %d", c.name, got, c.want)
		}
		draws := dev.Draws()
		if len(draws) != len(c.draws) {
			t.Fatalf("%s: got %d draws, want %d", c.name, len(draws), len(c.draws))
		}
		for i, d := range draws {
			if d.Args != c.draws[i] {
				t.Fatalf("%s: draw %d got %v, want %v", c.name, i, d.Args, c.draws[i])
			}
			if d.State.FaceCulling != c.culled {
				t.Fatalf("%s: draw %d culling %v, want %v", c.name, i, d.State.FaceCulling, c.culled)
			}
		}
		if dev.State().FaceCulling {
			t.Fatalf("%s: culling left enabled", c.name)
		}
	}
}

func drawsOf(dev *gfxtest.Recorder, vb gfx.VertexBuffer) [][2]int {
	var out [][2]int
	for _, d := range dev.Draws() {
		if d.Vb == vb {
			out = append(out, d.Args)
		}
	}
	return out
}

func equalDraws(a, b [][2]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRenderOpaqueDrawsBatches(t *testing.T) {
	rig := newRig(t, 16, 16, 16)
	rig.grid.Fill(3, 3, 3, 3, 3, 3, world.BlockStone)
	rig.camera.pos = mgl32.Vec3{8, 8, 8}
	rig.settle(t)

	rig.dev.Reset()
	rig.r.ResetVertices()
	rig.r.RenderOpaque(0.016)

	info := rig.r.GetChunk(0, 0, 0)
	want := [][2]int{{8, 0}, {8, 8}, {8, 16}}
	if got := drawsOf(rig.dev, info.Vb); !equalDraws(got, want) {
		t.Fatalf("draws: got %v, want %v", got, want)
	}
	for _, d := range rig.dev.Draws() {
		s := d.State
		if !s.Texturing || !s.AlphaTest || !s.Mipmaps || !s.FaceCulling {
			t.Fatalf("draw state: got %+v", s)
		}
		if d.Tex != rig.atlas.Texture(0) {
			t.Fatalf("draw texture: got %d, want %d", d.Tex, rig.atlas.Texture(0))
		}
	}
	for _, c := range rig.dev.Calls {
		if c.Op == gfxtest.OpBindTexture && c.Tex == rig.atlas.Texture(1) {
			t.Fatal("bound the texture of a batch with no parts")
		}
	}
	if got := rig.r.Stats().Vertices; got != 24 {
		t.Fatalf("vertices: got %d, want 24", got)
	}
	if rig.dev.State() != gfx.DefaultState {
		t.Fatalf("state after pass: got %+v, want default", rig.dev.State())
	}
}

func TestRenderOpaqueSkipsBackFaces(t *testing.T) {
	rig := newRig(t, 32, 16, 16)
	rig.grid.Fill(3, 3, 3, 3, 3, 3, world.BlockStone)
	rig.camera.pos = mgl32.Vec3{24, 8, 8}
	rig.settle(t)

	rig.dev.Reset()
	rig.r.RenderOpaque(0.016)

	// The camera is on the +X side: only the XMax run of the X pair.
	info := rig.r.GetChunk(0, 0, 0)
	want := [][2]int{{4, 4}, {8, 8}, {8, 16}}
	if got := drawsOf(rig.dev, info.Vb); !equalDraws(got, want) {
		t.Fatalf("draws: got %v, want %v", got, want)
	}
	if rig.dev.Draws()[0].State.FaceCulling {
		t.Fatal("single face run drawn with culling")
	}
}

func TestSpriteQuadrants(t *testing.T) {
	rig := newRig(t, 32, 16, 32)
	rig.grid.Fill(8, 8, 8, 8, 8, 8, world.BlockRose)
	rig.camera.pos = mgl32.Vec3{24, 8, 24}
	rig.settle(t)

	rig.dev.Reset()
	rig.r.RenderOpaque(0.016)

	// Seen from +X+Z the XMin|ZMin quadrant faces away.
	info := rig.r.GetChunk(0, 0, 0)
	want := [][2]int{{4, 0}, {4, 4}, {4, 12}}
	if got := drawsOf(rig.dev, info.Vb); !equalDraws(got, want) {
		t.Fatalf("sprite draws: got %v, want %v", got, want)
	}
	for _, d := range rig.dev.Draws() {
		if !d.State.FaceCulling {
			t.Fatal("sprite drawn without culling")
		}
	}
}

func TestBatchWithoutVisiblePartsIsSkipped(t *testing.T) {
	rig := newRig(t, 16, 16, 16)
	rig.grid.Fill(3, 3, 3, 3, 3, 3, world.BlockStone)
	rig.settle(t)

	// Nothing to draw: the first pass probes the batch, the second skips it.
	rig.r.render = rig.r.render[:0]
	rig.r.RenderOpaque(0.016)
	rig.dev.Reset()
	rig.r.RenderOpaque(0.016)
	for _, c := range rig.dev.Calls {
		if c.Op == gfxtest.OpBindTexture {
			t.Fatal("second pass bound a texture for a batch with nothing visible")
		}
	}

	// Moving the camera probes again.
	rig.camera.pos = rig.camera.pos.Add(mgl32.Vec3{0.5, 0, 0})
	rig.r.Update(0.01)
	rig.dev.Reset()
	rig.r.RenderOpaque(0.016)
	if len(rig.dev.Draws()) == 0 {
		t.Fatal("after moving: nothing drawn")
	}
}

func TestRenderTranslucentPasses(t *testing.T) {
	rig := newRig(t, 16, 16, 16)
	rig.grid.Fill(5, 5, 5, 5, 5, 5, world.BlockStillWater)
	rig.grid.Fill(3, 3, 3, 3, 3, 3, world.BlockStone)
	rig.camera.pos = mgl32.Vec3{8, 8, 8}
	rig.settle(t)

	rig.dev.Reset()
	rig.r.ResetVertices()
	rig.r.RenderTranslucent(0.016)

	var depth, colour []gfxtest.Call
	for _, d := range rig.dev.Draws() {
		if d.State.ColorWrite == [4]bool{} {
			depth = append(depth, d)
		} else {
			colour = append(colour, d)
		}
	}
	if len(depth) != 3 || len(colour) != 3 {
		t.Fatalf("draws: got %d depth and %d colour, want 3 and 3", len(depth), len(colour))
	}
	for _, d := range depth {
		if d.State.Texturing || d.State.AlphaBlending || !d.State.DepthWrite {
			t.Fatalf("depth pass state: got %+v", d.State)
		}
		if d.Args[1] < 24 {
			t.Fatalf("depth pass drew normal geometry at %d", d.Args[1])
		}
	}
	for _, d := range colour {
		if !d.State.Texturing || !d.State.AlphaBlending || d.State.DepthWrite || d.State.FaceCulling {
			t.Fatalf("colour pass state: got %+v", d.State)
		}
	}
	if got := rig.r.Stats().Vertices; got != 24 {
		t.Fatalf("vertices: got %d, want 24 (colour pass only)", got)
	}
	if rig.dev.State() != gfx.DefaultState {
		t.Fatalf("state after pass: got %+v, want default", rig.dev.State())
	}
}

func TestWeatherDrawnOnce(t *testing.T) {
	rig := newRig(t, 16, 16, 16)
	rig.grid.Fill(0, 0, 0, 15, 3, 15, world.BlockStillWater)
	rig.camera.pos = mgl32.Vec3{8, 10, 8}
	rig.settle(t)

	// Sunny: no weather at all.
	rig.r.RenderOpaque(0.016)
	rig.r.RenderTranslucent(0.016)
	if len(rig.weather.states) != 0 {
		t.Fatalf("sunny: weather drawn %d times", len(rig.weather.states))
	}

	rig.env.SetWeather(world.WeatherRainy)
	rig.r.RenderOpaque(0.016)
	if len(rig.weather.states) != 0 {
		t.Fatal("above water: weather drawn in the opaque pass")
	}
	rig.r.RenderTranslucent(0.016)
	if len(rig.weather.states) != 1 || !rig.weather.states[0].AlphaTest {
		t.Fatalf("above water: got %d weather draws, want 1 alpha tested", len(rig.weather.states))
	}

	rig.weather.states = nil
	rig.camera.pos = mgl32.Vec3{8, 2, 8}
	rig.r.Update(0.01)
	rig.r.RenderOpaque(0.016)
	if !rig.r.InTranslucent() {
		t.Fatal("under water: InTranslucent got false")
	}
	if len(rig.weather.states) != 1 || !rig.weather.states[0].AlphaBlending {
		t.Fatalf("under water: got %d weather draws, want 1 blended", len(rig.weather.states))
	}
	rig.r.RenderTranslucent(0.016)
	if len(rig.weather.states) != 1 {
		t.Fatal("under water: weather drawn twice")
	}
}

func TestUnderWaterDrawsAllTranslucentFaces(t *testing.T) {
	rig := newRig(t, 32, 16, 16)
	rig.grid.Fill(20, 5, 5, 20, 5, 5, world.BlockStillWater)
	rig.grid.Fill(8, 8, 8, 8, 8, 8, world.BlockStillWater)
	rig.camera.pos = mgl32.Vec3{8.5, 8.5, 8.5}
	rig.settle(t)

	rig.r.RenderOpaque(0.016)
	if !rig.r.InTranslucent() {
		t.Fatal("InTranslucent: got false inside water")
	}
	rig.dev.Reset()
	rig.r.ResetVertices()
	rig.r.RenderTranslucent(0.016)

	// Inside water the far chunk draws its back faces too.
	far := rig.r.GetChunk(1, 0, 0)
	want := [][2]int{{8, 0}, {8, 8}, {8, 16}}
	got := drawsOf(rig.dev, far.Vb)
	if len(got) != 6 || !equalDraws(got[:3], want) || !equalDraws(got[3:], want) {
		t.Fatalf("far chunk draws: got %v, want %v twice", got, want)
	}
}
