package main

import "testing"

func TestMouseLookFirstEventIsIgnored(t *testing.T) {
	m := &mouseLook{first: true}
	if dx, dy := m.delta(400, 300); dx != 0 || dy != 0 {
		t.Fatalf("first event: got (%v, %v), want (0, 0)", dx, dy)
	}
	dx, dy := m.delta(410, 290)
	if dx != 10*mouseSensitivity || dy != 10*mouseSensitivity {
		t.Fatalf("delta: got (%v, %v), want (%v, %v)", dx, dy, 10*mouseSensitivity, 10*mouseSensitivity)
	}
}
