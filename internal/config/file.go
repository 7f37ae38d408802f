package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

type File struct {
	Window Window `yaml:"window"`
	Render Render `yaml:"render"`
	World  World  `yaml:"world"`
	Atlas  Atlas  `yaml:"atlas"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type Render struct {
	ViewDistance     int `yaml:"view_distance"`
	UserViewDistance int `yaml:"user_view_distance"`
	MaxChunkUpdates  int `yaml:"max_chunk_updates"`
	FPSLimit         int `yaml:"fps_limit"`
}

type World struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Length int   `yaml:"length"`
	Seed   int64 `yaml:"seed"`
	// Map is an optional saved map to load instead of generating one.
	Map string `yaml:"map"`
}

type Atlas struct {
	// Path to a PNG terrain atlas; empty uses the built-in procedural atlas.
	Path             string `yaml:"path"`
	TileSize         int    `yaml:"tile_size"`
	MaxTextureHeight int    `yaml:"max_texture_height"`
}

func Default() File {
	return File{
		Window: Window{Width: 1280, Height: 720, Title: "chunkview", VSync: false},
		Render: Render{ViewDistance: 512, UserViewDistance: 512, MaxChunkUpdates: 30, FPSLimit: 120},
		World:  World{Width: 256, Height: 64, Length: 256, Seed: 1},
		Atlas:  Atlas{TileSize: 16, MaxTextureHeight: 4096},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (File, error) {
	f := Default()
	if path == "" {
		return f, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, err
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return f, fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return f, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func (f File) Validate() error {
	checks := []struct {
		name string
		v    int
	}{
		{"window.width", f.Window.Width},
		{"window.height", f.Window.Height},
		{"world.width", f.World.Width},
		{"world.height", f.World.Height},
		{"world.length", f.World.Length},
		{"atlas.tile_size", f.Atlas.TileSize},
		{"atlas.max_texture_height", f.Atlas.MaxTextureHeight},
	}
	for _, c := range checks {
		if c.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalid, c.name, c.v)
		}
	}
	if f.Render.ViewDistance < 0 || f.Render.UserViewDistance < 0 {
		return fmt.Errorf("%w: negative view distance", ErrInvalid)
	}
	if f.Render.MaxChunkUpdates < 0 || f.Render.FPSLimit < 0 {
		return fmt.Errorf("%w: negative render limit", ErrInvalid)
	}
	if f.Atlas.TileSize&(f.Atlas.TileSize-1) != 0 {
		return fmt.Errorf("%w: atlas.tile_size %d is not a power of two", ErrInvalid, f.Atlas.TileSize)
	}
	return nil
}

// Apply pushes the render section into the process-wide settings.
func (f File) Apply() {
	SetViewDistance(f.Render.ViewDistance)
	SetUserViewDistance(f.Render.UserViewDistance)
	SetMaxChunkUpdates(f.Render.MaxChunkUpdates)
	SetFPSLimit(f.Render.FPSLimit)
}
