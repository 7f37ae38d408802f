package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"chunkview/internal/config"

	"github.com/fatih/color"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

type flags struct {
	configPath string
	mapPath    string
	savePath   string
	seed       int64
	size       string
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", "chunkview.yaml", "YAML settings file; missing files use the defaults")
	flag.StringVar(&f.mapPath, "map", "", "saved map to load instead of generating one")
	flag.StringVar(&f.savePath, "save", "map.chkv", "where F2 writes the current map")
	flag.Int64Var(&f.seed, "seed", 0, "terrain seed, overrides the config when non zero")
	flag.StringVar(&f.size, "size", "", "generated map size as WIDTHxHEIGHTxLENGTH")
	flag.Parse()
	return f
}

// applyFlags layers the command line over the loaded settings.
func applyFlags(cfg *config.File, f flags) error {
	if f.mapPath != "" {
		cfg.World.Map = f.mapPath
	}
	if f.seed != 0 {
		cfg.World.Seed = f.seed
	}
	if f.size != "" {
		var w, h, l int
		if _, err := fmt.Sscanf(f.size, "%dx%dx%d", &w, &h, &l); err != nil {
			return fmt.Errorf("-size %q: %w", f.size, err)
		}
		cfg.World.Width, cfg.World.Height, cfg.World.Length = w, h, l
	}
	return cfg.Validate()
}

func main() {
	f := parseFlags()
	cfg, err := config.Load(f.configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := applyFlags(&cfg, f); err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.Apply()

	if err := glfw.Init(); err != nil {
		log.Fatalf("glfw: %v", err)
	}

	window, err := setupWindow(cfg.Window)
	if err != nil {
		glfw.Terminate()
		log.Fatalf("window: %v", err)
	}

	v, err := setupViewer(window, cfg)
	if err != nil {
		glfw.Terminate()
		log.Fatalf("setup: %v", err)
	}

	loop := NewGameLoop(window, v, f.savePath)
	setupInputHandlers(window, loop)

	// closer runs the bound functions on Ctrl+C as well as on a normal exit.
	closer.Bind(func() {
		s := v.Chunks.Stats()
		color.Cyan("chunkview: %d chunk builds, %d frames", s.TotalUpdates, loop.totalFrames)
	})

	loop.Run()

	v.Dispose()
	glfw.Terminate()
	closer.Close()
}
