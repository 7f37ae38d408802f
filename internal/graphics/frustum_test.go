package graphics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func lookingDownNegZ() *Camera {
	c := NewCamera(800, 600)
	c.Position = mgl32.Vec3{0, 0, 0}
	c.Yaw = -90
	c.Pitch = 0
	return c
}

func TestFrontVector(t *testing.T) {
	c := lookingDownNegZ()
	f := c.Front()
	if f.Sub(mgl32.Vec3{0, 0, -1}).Len() > 1e-5 {
		t.Fatalf("front: got %v, want (0,0,-1)", f)
	}
	c.Rotate(0, 200)
	if c.Pitch != 89 {
		t.Fatalf("pitch clamp: got %v, want 89", c.Pitch)
	}
}

func TestSphereInFrustum(t *testing.T) {
	f := lookingDownNegZ().Frustum()

	if !f.SphereInFrustum(0, 0, -10, 1) {
		t.Fatalf("sphere in front should be visible")
	}
	if f.SphereInFrustum(0, 0, 10, 1) {
		t.Fatalf("sphere behind should be culled")
	}
	// Centre just behind the camera, radius reaching into the near plane.
	if !f.SphereInFrustum(0, 0, 1, 14) {
		t.Fatalf("large sphere overlapping camera should be visible")
	}
	if f.SphereInFrustum(0, 0, -2000, 14) {
		t.Fatalf("sphere past far plane should be culled")
	}
	if f.SphereInFrustum(500, 0, -10, 14) {
		t.Fatalf("sphere far to the right should be culled")
	}
}

func TestAABBInFrustum(t *testing.T) {
	f := lookingDownNegZ().Frustum()

	if !f.AABBInFrustum(mgl32.Vec3{-1, -1, -11}, mgl32.Vec3{1, 1, -9}) {
		t.Fatalf("box in front should be visible")
	}
	if f.AABBInFrustum(mgl32.Vec3{-1, -1, 9}, mgl32.Vec3{1, 1, 11}) {
		t.Fatalf("box behind should be culled")
	}
}
