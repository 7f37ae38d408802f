package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"chunkview/internal/config"
	"chunkview/internal/event"
	"chunkview/internal/graphics"
	"chunkview/internal/graphics/atlas"
	"chunkview/internal/graphics/gfx/glgfx"
	"chunkview/internal/graphics/renderables/chunks"
	"chunkview/internal/graphics/renderables/crosshair"
	"chunkview/internal/graphics/renderables/weather"
	"chunkview/internal/graphics/renderables/wireframe"
	"chunkview/internal/graphics/renderer"
	"chunkview/internal/meshing"
	"chunkview/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupWindow(cfg config.Window) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		return nil, err
	}

	// V-Sync off unless asked for; the FPS limiter paces frames
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	return window, nil
}

// Viewer holds every component of a running viewer.
type Viewer struct {
	Device   *glgfx.Device
	Bus      *event.Bus
	Registry *world.Registry
	Env      *world.Env
	Atlas    *atlas.Atlas1D
	Grid     *world.Grid
	Camera   *graphics.Camera
	Chunks   *chunks.ChunkRenderer
	Weather  *weather.Renderer
	Renderer *renderer.Renderer
	Editor   *editor
}

func setupViewer(window *glfw.Window, cfg config.File) (*Viewer, error) {
	dev, err := glgfx.New()
	if err != nil {
		return nil, err
	}

	grid, err := loadOrGenerate(cfg.World)
	if err != nil {
		dev.Dispose()
		return nil, err
	}

	bus := event.NewBus()
	grid.Attach(bus)
	reg := world.DefaultRegistry(bus)
	env := world.NewEnv(bus, grid.Height)

	terrain, err := loadAtlas(cfg.Atlas)
	if err != nil {
		dev.Dispose()
		return nil, err
	}
	a1d := atlas.New1D(bus, cfg.Atlas.MaxTextureHeight)
	a1d.Reload(dev, terrain)

	fbW, fbH := window.GetFramebufferSize()
	dev.SetViewport(fbW, fbH)
	cam := graphics.NewCamera(fbW, fbH)

	builder := meshing.NewBuilder(dev, reg, a1d, env)
	wr := weather.New(dev, bus, env, reg, cam)
	cr := chunks.New(chunks.Options{
		Device:   dev,
		Builder:  builder,
		Bus:      bus,
		Env:      env,
		Registry: reg,
		Atlas:    a1d,
		Camera:   cam,
		Weather:  wr,
		Logger:   log.New(os.Stderr, "[chunks] ", log.LstdFlags|log.Lmicroseconds),
	})

	ed := &editor{grid: grid, reg: reg, selected: world.BlockStone}
	cross := crosshair.NewCrosshair(dev)
	cross.SetViewport(fbW, fbH)

	r, err := renderer.NewRenderer(dev, bus, cam,
		&renderer.WorldPass{Chunks: cr, Weather: wr},
		wireframe.NewWireframe(dev, ed),
		cross,
	)
	if err != nil {
		a1d.Free(dev)
		dev.Dispose()
		return nil, err
	}

	v := &Viewer{
		Device:   dev,
		Bus:      bus,
		Registry: reg,
		Env:      env,
		Atlas:    a1d,
		Grid:     grid,
		Camera:   cam,
		Chunks:   cr,
		Weather:  wr,
		Renderer: r,
		Editor:   ed,
	}
	v.loadMap(grid)
	return v, nil
}

// loadMap swaps the world shown by every renderer and puts the camera above
// the centre of the map.
func (v *Viewer) loadMap(grid *world.Grid) {
	v.Bus.NewMap.Raise()
	if v.Grid != grid {
		grid.Attach(v.Bus)
	}
	v.Grid = grid
	v.Editor.grid = grid
	v.Env.SetEdgeHeight(grid.Height / 2)
	v.Chunks.SetWorld(grid)
	v.Weather.SetWorld(grid)
	v.Bus.NewMapLoaded.Raise()

	cx, cz := grid.Width/2, grid.Length/2
	v.Camera.Position[0] = float32(cx) + 0.5
	v.Camera.Position[1] = float32(v.Weather.Height(cx, cz)) + 1.6
	v.Camera.Position[2] = float32(cz) + 0.5
	log.Printf("map %s: %dx%dx%d", grid.UUID, grid.Width, grid.Height, grid.Length)
}

func (v *Viewer) Dispose() {
	v.Renderer.Dispose()
	v.Atlas.Free(v.Device)
	v.Device.Dispose()
}

func loadAtlas(cfg config.Atlas) (*atlas.Atlas2D, error) {
	if cfg.Path == "" {
		return atlas.Procedural(cfg.TileSize), nil
	}
	return atlas.Load2D(cfg.Path)
}

// loadOrGenerate reads cfg.Map when it exists and generates terrain otherwise.
func loadOrGenerate(cfg config.World) (*world.Grid, error) {
	if cfg.Map != "" {
		g, err := loadMapFile(cfg.Map)
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		log.Printf("map %s not found, generating one", cfg.Map)
	}

	g, err := world.NewGrid(cfg.Width, cfg.Height, cfg.Length)
	if err != nil {
		return nil, err
	}
	world.NewGenerator(cfg.Seed).Generate(g)
	return g, nil
}

func loadMapFile(path string) (*world.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := world.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// saveMapFile writes through a temporary file so a failed save never
// truncates an existing map.
func saveMapFile(path string, g *world.Grid) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := world.Save(f, g); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
