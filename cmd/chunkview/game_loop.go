package main

import (
	"log"
	"time"

	"chunkview/internal/config"
	"chunkview/internal/input"
	"chunkview/internal/profiling"

	"github.com/fatih/color"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// slowFrame is the frame time above which the stats line is highlighted.
const slowFrame = 50 * time.Millisecond

// GameLoop manages the main loop state
type GameLoop struct {
	window       *glfw.Window
	viewer       *Viewer
	inputManager *input.InputManager
	savePath     string

	paused      bool
	showStats   bool
	zoomed      bool
	fpsLimiter  *FPSLimiter
	slowestTick time.Duration

	// Timing
	frames           int
	totalFrames      int
	lastFPSCheckTime time.Time
	lastTime         time.Time
}

// NewGameLoop creates a new game loop with all components
func NewGameLoop(window *glfw.Window, v *Viewer, savePath string) *GameLoop {
	return &GameLoop{
		window:           window,
		viewer:           v,
		inputManager:     input.NewInputManager(),
		savePath:         savePath,
		showStats:        true,
		fpsLimiter:       NewFPSLimiter(),
		lastFPSCheckTime: time.Now(),
		lastTime:         time.Now(),
	}
}

// Run starts the main loop and returns when the window is closed.
func (gl *GameLoop) Run() {
	for !gl.window.ShouldClose() {
		gl.tick()
	}
}

func (gl *GameLoop) tick() {
	profiling.ResetFrame()
	now := time.Now()
	dt := now.Sub(gl.lastTime).Seconds()
	gl.lastTime = now

	// Poll events at start
	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

	gl.handleInputActions()
	if !gl.paused {
		gl.moveCamera(dt)
		gl.viewer.Editor.updateHover(gl.viewer.Camera.Position, gl.viewer.Camera.Front())
	}

	gl.renderFrame(dt)

	// Present
	func() { defer profiling.Track("glfw.SwapBuffers")(); gl.window.SwapBuffers() }()

	// Clear edge flags at end of frame
	gl.inputManager.PostUpdate()

	gl.updateStats(now)

	gl.fpsLimiter.Wait(gl.paused)
}

// RefreshRender redraws a frame while the window is being resized.
func (gl *GameLoop) RefreshRender() {
	gl.renderFrame(0)
	gl.window.SwapBuffers()
}

func (gl *GameLoop) renderFrame(dt float64) {
	gl.viewer.Renderer.Render(dt)
}

func (gl *GameLoop) moveCamera(dt float64) {
	im := gl.inputManager
	var forward, right, up float32
	if im.IsActive(input.ActionMoveForward) {
		forward++
	}
	if im.IsActive(input.ActionMoveBackward) {
		forward--
	}
	if im.IsActive(input.ActionMoveRight) {
		right++
	}
	if im.IsActive(input.ActionMoveLeft) {
		right--
	}
	if im.IsActive(input.ActionMoveUp) {
		up++
	}
	if im.IsActive(input.ActionMoveDown) {
		up--
	}

	speed := moveSpeed * float32(dt)
	if im.IsActive(input.ActionFast) {
		speed *= fastMultiplier
	}
	gl.viewer.Camera.Move(forward*speed, right*speed, up*speed)
}

func (gl *GameLoop) handleInputActions() {
	im := gl.inputManager
	v := gl.viewer

	// Pause Toggle
	if im.JustPressed(input.ActionPause) {
		gl.paused = !gl.paused
		if gl.paused {
			gl.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		} else {
			gl.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		}
	}
	if gl.paused {
		return
	}

	if im.JustPressed(input.ActionViewFarther) || im.JustPressed(input.ActionViewNearer) {
		dist := stepViewDistance(config.GetUserViewDistance(), im.JustPressed(input.ActionViewFarther))
		config.SetUserViewDistance(dist)
		config.SetViewDistance(dist)
		v.Bus.ViewDistanceChanged.Raise()
		log.Printf("view distance %d", dist)
	}

	if im.JustPressed(input.ActionCycleWeather) {
		v.Env.SetWeather(nextWeather(v.Env.Weather))
		log.Printf("weather %s", v.Env.Weather)
	}
	if im.JustPressed(input.ActionRaiseEdge) {
		v.Env.SetEdgeHeight(min(v.Env.EdgeHeight+1, v.Grid.Height))
	}
	if im.JustPressed(input.ActionLowerEdge) {
		v.Env.SetEdgeHeight(max(v.Env.EdgeHeight-1, 0))
	}

	if im.JustPressed(input.ActionZoom) || im.JustReleased(input.ActionZoom) {
		gl.zoomed = im.IsActive(input.ActionZoom)
		v.Renderer.SetZoom(gl.zoomed)
	}

	if im.JustPressed(input.ActionToggleStats) {
		gl.showStats = !gl.showStats
	}
	if im.JustPressed(input.ActionRefreshChunks) {
		v.Chunks.RefreshAll()
	}
	if im.JustPressed(input.ActionSimulateContextLoss) {
		v.Bus.ContextLost.Raise()
		v.Bus.ContextRecreated.Raise()
	}

	if im.JustPressed(input.ActionSave) {
		if err := saveMapFile(gl.savePath, v.Grid); err != nil {
			color.Red("save %s: %v", gl.savePath, err)
		} else {
			color.Green("saved %s", gl.savePath)
		}
	}

	eye, dir := v.Camera.Position, v.Camera.Front()
	if im.JustPressed(input.ActionBreakBlock) {
		func() { defer profiling.Track("physics.Break")(); v.Editor.breakBlock(eye, dir) }()
	}
	if im.JustPressed(input.ActionPlaceBlock) {
		func() { defer profiling.Track("physics.Place")(); v.Editor.placeBlock(eye, dir) }()
	}
	if im.JustPressed(input.ActionPickBlock) && v.Editor.pickBlock(eye, dir) {
		log.Printf("selected %s", v.Registry.Get(v.Editor.selected).Name)
	}
}

func (gl *GameLoop) updateStats(now time.Time) {
	gl.frames++
	gl.totalFrames++
	gl.slowestTick = max(gl.slowestTick, time.Since(now))

	if time.Since(gl.lastFPSCheckTime) < time.Second {
		return
	}
	if gl.showStats {
		s := gl.viewer.Chunks.Stats()
		c := color.New(color.FgCyan)
		if gl.slowestTick > slowFrame {
			c = color.New(color.FgYellow)
		}
		c.Printf("FPS: %d  chunks %d/%d  target %d  built %d  verts %d  slowest %.1fms\n",
			gl.frames, s.RenderCount, s.ChunksCount, s.Target, s.TotalUpdates, s.Vertices,
			float64(gl.slowestTick.Microseconds())/1000)
		color.White("  chunks %s  weather %s  %s",
			profiling.SumWithPrefix("chunks."), profiling.SumWithPrefix("weather."), profiling.Counters())
		if top := profiling.TopN(3); top != "" {
			color.White("  %s", top)
		}
	}
	profiling.ResetCounters()
	gl.frames = 0
	gl.slowestTick = 0
	gl.lastFPSCheckTime = time.Now()
}
