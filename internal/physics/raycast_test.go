package physics_test

import (
	"testing"

	"chunkview/internal/physics"
	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRaycast(t *testing.T) {
	w, err := world.NewGrid(16, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	reg := world.DefaultRegistry(nil)

	// Place a block at (5, 0, 0)
	w.SetBlock(5, 0, 0, world.BlockStone)

	start := mgl32.Vec3{0.5, 0.5, 0.5}
	dir := mgl32.Vec3{1, 0, 0}

	result := physics.Raycast(start, dir, 0.1, 10, w, reg)
	if !result.Hit {
		t.Fatalf("Expected hit, got miss")
	}
	if result.HitPosition != [3]int{5, 0, 0} {
		t.Errorf("Expected hit at {5,0,0}, got %v", result.HitPosition)
	}
	if result.AdjacentPosition != [3]int{4, 0, 0} {
		t.Errorf("Expected adjacent at {4,0,0}, got %v", result.AdjacentPosition)
	}
	// The ray enters x=5 after 4.5 blocks, within one step.
	if result.Distance < 4.49 || result.Distance > 4.53 {
		t.Errorf("Expected distance 4.5, got %f", result.Distance)
	}

	// Miss due to maxDist
	if r := physics.Raycast(start, dir, 0.1, 4, w, reg); r.Hit {
		t.Errorf("Expected miss due to maxDist, got hit at %v", r.HitPosition)
	}

	// Miss in the wrong direction
	if r := physics.Raycast(start, mgl32.Vec3{0, 1, 0}, 0.1, 10, w, reg); r.Hit {
		t.Errorf("Expected miss, got hit")
	}

	// Diagonal hit
	w.SetBlock(2, 2, 2, world.BlockStone)
	diag := physics.Raycast(start, mgl32.Vec3{1, 1, 1}.Normalize(), 0.1, 10, w, reg)
	if !diag.Hit || diag.HitPosition != [3]int{2, 2, 2} {
		t.Errorf("Expected hit at {2,2,2}, got %v (hit %v)", diag.HitPosition, diag.Hit)
	}
}

func TestRaycastPassesThroughWater(t *testing.T) {
	w, err := world.NewGrid(16, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	reg := world.DefaultRegistry(nil)
	w.Fill(0, 0, 0, 15, 4, 15, world.BlockStillWater)
	w.SetBlock(3, 0, 3, world.BlockSand)

	r := physics.Raycast(mgl32.Vec3{3.5, 8.5, 3.5}, mgl32.Vec3{0, -1, 0}, 0.1, 10, w, reg)
	if !r.Hit || r.HitPosition != [3]int{3, 0, 3} {
		t.Fatalf("Expected hit at the sand under water, got %v (hit %v)", r.HitPosition, r.Hit)
	}
	if r.AdjacentPosition != [3]int{3, 1, 3} {
		t.Fatalf("Expected adjacent {3,1,3}, got %v", r.AdjacentPosition)
	}
}

func BenchmarkRaycast(b *testing.B) {
	w, err := world.NewGrid(16, 16, 16)
	if err != nil {
		b.Fatal(err)
	}
	w.Fill(0, 0, 5, 15, 15, 5, world.BlockGrass)
	reg := world.DefaultRegistry(nil)
	start := mgl32.Vec3{0, 8, 0}
	dir := mgl32.Vec3{0, 0, 1}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = physics.Raycast(start, dir, 0.1, 10.0, w, reg)
	}
}
