package chunks

import (
	"testing"

	"chunkview/internal/config"
	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAdjustDist(t *testing.T) {
	cases := []struct {
		dist, want int
	}{
		{0, (22 + 24) * (22 + 24)},
		{16, (22 + 24) * (22 + 24)},
		{100, (141 + 24) * (141 + 24)},
		{512, (724 + 24) * (724 + 24)},
	}
	for _, c := range cases {
		if got := AdjustDist(c.dist); got != c.want {
			t.Fatalf("AdjustDist(%d): got %d, want %d", c.dist, got, c.want)
		}
	}
}

func TestBuildAndEvictBoundary(t *testing.T) {
	rig := newRig(t, 16, 16, 16)
	r := rig.r
	info := r.GetChunk(0, 0, 0)
	build := r.BuildDistSq()

	if ok, evicted := r.needsBuild(info, build); !ok || evicted {
		t.Fatalf("at build distance: got build %v evicted %v, want build", ok, evicted)
	}
	if ok, _ := r.needsBuild(info, build+1); ok {
		t.Fatal("past build distance: got build, want none")
	}

	rig.grid.Fill(8, 8, 8, 8, 8, 8, world.BlockStone)
	updates := 0
	r.buildChunk(info, &updates)

	// Between the build distance and the eviction margin a built chunk is
	// neither rebuilt nor dropped.
	for _, dist := range []int{build, build + 1, build + evictMargin - 1} {
		if ok, evicted := r.needsBuild(info, dist); ok || evicted {
			t.Fatalf("built chunk at %d: got build %v evicted %v, want kept", dist, ok, evicted)
		}
	}
	if _, evicted := r.needsBuild(info, build+evictMargin); !evicted {
		t.Fatal("at the eviction margin: got kept, want evicted")
	}
	if info.HasData() || info.Vb != 0 {
		t.Fatal("evicted chunk: still has geometry")
	}
}

func TestStationaryCameraAtBoundaryDoesNotThrash(t *testing.T) {
	rig := newRig(t, 160, 16, 16)
	config.SetUserViewDistance(16)
	config.SetViewDistance(16)
	t.Cleanup(func() {
		config.SetUserViewDistance(512)
		config.SetViewDistance(512)
	})
	rig.r.calcViewDists()
	rig.fillChunks()
	rig.camera.pos = mgl32.Vec3{8, 8, 8}

	rig.settle(t)
	built := len(rig.builder.built)
	for i := 0; i < 50; i++ {
		rig.r.Update(0.01)
	}
	if got := len(rig.builder.built); got != built {
		t.Fatalf("stationary camera: %d extra builds", got-built)
	}

	// Nudging the camera within its chunk keeps every decision.
	rig.camera.pos = mgl32.Vec3{15.9, 8, 8}
	for i := 0; i < 10; i++ {
		rig.r.Update(0.01)
	}
	if got := len(rig.builder.built); got != built {
		t.Fatalf("camera moved within its chunk: %d extra builds", got-built)
	}
	if built != 3 {
		t.Fatalf("built: got %d chunks, want 3", built)
	}
}

func TestBudgetPerUpdate(t *testing.T) {
	rig := newRig(t, 128, 32, 128)
	rig.fillChunks()
	rig.r.MaxUpdates = 8

	frames := []float64{0.01, 0.2, 0.001, 0.05, 0.01, 0.01, 0.5}
	for i := 0; i < 500; i++ {
		before := len(rig.builder.built)
		rig.r.Update(frames[i%len(frames)])
		target := rig.r.Target()
		if target < minTarget || target > 8 {
			t.Fatalf("frame %d: target %d outside [%d, 8]", i, target, minTarget)
		}
		if got := len(rig.builder.built) - before; got > target {
			t.Fatalf("frame %d: built %d chunks, target %d", i, got, target)
		}
		if i%50 == 0 {
			rig.r.RefreshAll()
		}
	}
}

func TestTargetDropsOnSlowFrames(t *testing.T) {
	rig := newRig(t, 16, 16, 16)
	for i := 0; i < 20; i++ {
		rig.r.Update(0.1)
	}
	if got := rig.r.Target(); got != minTarget {
		t.Fatalf("after slow frames: got target %d, want %d", got, minTarget)
	}
}

func TestRefreshChunkIdempotent(t *testing.T) {
	rig := newRig(t, 32, 16, 16)
	rig.fillChunks()
	rig.settle(t)

	info := rig.r.GetChunk(1, 0, 0)
	rig.r.RefreshChunk(1, 0, 0)
	rig.r.RefreshChunk(1, 0, 0)
	if !info.PendingDelete {
		t.Fatal("PendingDelete: got false after refresh")
	}
	// Out of range refreshes are ignored.
	rig.r.RefreshChunk(-1, 0, 0)
	rig.r.RefreshChunk(2, 0, 0)

	before := rig.builder.builds(info.Index)
	rig.settle(t)
	if got := rig.builder.builds(info.Index) - before; got != 1 {
		t.Fatalf("rebuilds: got %d, want 1", got)
	}
	if got := rig.builder.builds(0); got != 1 {
		t.Fatalf("untouched chunk builds: got %d, want 1", got)
	}
	if info.PendingDelete {
		t.Fatal("PendingDelete: still set after rebuild")
	}
}

func TestAllAirChunkIgnoresRefresh(t *testing.T) {
	rig := newRig(t, 32, 16, 16)
	rig.grid.Fill(8, 8, 8, 8, 8, 8, world.BlockStone)
	rig.settle(t)

	air := rig.r.GetChunk(1, 0, 0)
	if !air.Empty || !air.AllAir {
		t.Fatalf("air chunk: got empty %v allAir %v, want both", air.Empty, air.AllAir)
	}
	rig.r.RefreshChunk(1, 0, 0)
	if !air.Empty || air.PendingDelete {
		t.Fatal("air chunk: refresh was not ignored")
	}

	// Placing a block through the world clears AllAir and rebuilds.
	rig.grid.SetBlock(20, 3, 3, world.BlockStone)
	if air.AllAir || air.Empty || !air.PendingDelete {
		t.Fatalf("after SetBlock: got allAir %v empty %v pending %v", air.AllAir, air.Empty, air.PendingDelete)
	}
	rig.settle(t)
	if !air.HasData() || contains(rig.r.RenderChunks(), air) != 1 {
		t.Fatal("after SetBlock: chunk not rebuilt and drawn")
	}
}

func TestRefreshBlockOnChunkFaceTouchesNeighbour(t *testing.T) {
	rig := newRig(t, 48, 16, 16)
	rig.fillChunks()
	rig.settle(t)

	rig.r.RefreshBlock(16, 5, 5)
	left, mid, right := rig.r.GetChunk(0, 0, 0), rig.r.GetChunk(1, 0, 0), rig.r.GetChunk(2, 0, 0)
	if !left.PendingDelete || !mid.PendingDelete || right.PendingDelete {
		t.Fatalf("pending: got %v %v %v, want true true false", left.PendingDelete, mid.PendingDelete, right.PendingDelete)
	}
}

func TestStillCameraKeepsVisibility(t *testing.T) {
	rig := newRig(t, 32, 16, 16)
	rig.fillChunks()
	rig.settle(t)
	if got := len(rig.r.RenderChunks()); got != 2 {
		t.Fatalf("render list: got %d, want 2", got)
	}

	// A chunk hidden while the camera moved stays hidden while it is still.
	rig.r.GetChunk(1, 0, 0).Visible = false
	rig.r.Update(0.01)
	if got := len(rig.r.RenderChunks()); got != 1 {
		t.Fatalf("still camera: got %d chunks, want 1", got)
	}

	// Any movement re-tests every chunk.
	rig.camera.yaw += 10
	rig.r.Update(0.01)
	if got := len(rig.r.RenderChunks()); got != 2 {
		t.Fatalf("after turning: got %d chunks, want 2", got)
	}
}

func TestRenderDistanceLimitsDrawnChunks(t *testing.T) {
	rig := newRig(t, 160, 16, 16)
	rig.fillChunks()
	rig.camera.pos = mgl32.Vec3{8, 8, 8}
	config.SetViewDistance(16)
	rig.bus.ViewDistanceChanged.Raise()
	t.Cleanup(func() { config.SetViewDistance(512) })

	rig.settle(t)
	if rig.r.RenderDistSq() != AdjustDist(16) || rig.r.BuildDistSq() != AdjustDist(512) {
		t.Fatalf("distances: got render %d build %d", rig.r.RenderDistSq(), rig.r.BuildDistSq())
	}
	// Everything within the user view distance is built, only the chunks
	// within 46 blocks of the camera chunk are drawn.
	if got := len(rig.builder.built); got != 10 {
		t.Fatalf("built: got %d, want 10", got)
	}
	for _, info := range rig.r.RenderChunks() {
		dx := info.CentreX - 8
		if dx*dx > AdjustDist(16) {
			t.Fatalf("chunk %d at dx %d drawn past the render distance", info.Index, dx)
		}
	}
	if got := len(rig.r.RenderChunks()); got != 3 {
		t.Fatalf("drawn: got %d, want 3", got)
	}
}

func BenchmarkUpdate(b *testing.B) {
	rig := newRig(b, 256, 64, 256)
	rig.fillChunks()
	rig.settle(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rig.camera.pos = mgl32.Vec3{float32(i % 256), 32, 128}
		rig.r.Update(0.01)
	}
}
