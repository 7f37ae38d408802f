package world

import (
	"bytes"
	"errors"
	"testing"
)

func TestSaveLoad(t *testing.T) {
	g, _ := NewGrid(20, 10, 12)
	NewGenerator(3).Generate(g)

	var buf bytes.Buffer
	if err := Save(&buf, g); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Width != 20 || loaded.Height != 10 || loaded.Length != 12 {
		t.Fatalf("dims: got %dx%dx%d", loaded.Width, loaded.Height, loaded.Length)
	}
	if loaded.UUID != g.UUID {
		t.Fatalf("uuid: got %v, want %v", loaded.UUID, g.UUID)
	}
	if hashGridBlocks(loaded) != hashGridBlocks(g) {
		t.Fatalf("blocks differ after load")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	var buf bytes.Buffer
	g, _ := NewGrid(1, 1, 1)
	if err := Save(&buf, g); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if _, err := Load(bytes.NewReader(data[:len(data)/2])); err == nil {
		t.Fatalf("truncated stream loaded without error")
	}
	if _, err := Load(bytes.NewReader([]byte("not a map"))); err == nil {
		t.Fatalf("garbage loaded without error")
	}
}

func TestLoadRejectsWrongMagic(t *testing.T) {
	g, _ := NewGrid(2, 2, 2)
	var bad bytes.Buffer
	if err := saveWithMagic(&bad, g, "NOPE"); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(&bad); !errors.Is(err, ErrBadSave) {
		t.Fatalf("wrong magic: got %v, want ErrBadSave", err)
	}
}
