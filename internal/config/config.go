package config

import "sync"

const (
	MinViewDistance = 16
	MaxViewDistance = 4096

	MinChunkUpdates = 4
	MaxChunkUpdates = 1024
)

// RenderSettings holds render configuration
type RenderSettings struct {
	mu               sync.RWMutex
	viewDistance     int // in blocks
	userViewDistance int // in blocks
	maxChunkUpdates  int
	fpsLimit         int // 0 = unlimited
}

var globalRenderSettings = &RenderSettings{
	viewDistance:     512,
	userViewDistance: 512,
	maxChunkUpdates:  30,
	fpsLimit:         120,
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// GetViewDistance returns the distance in blocks chunks are drawn within.
func GetViewDistance() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.viewDistance
}

// SetViewDistance sets the current view distance in blocks
func SetViewDistance(distance int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.viewDistance = clamp(distance, MinViewDistance, MaxViewDistance)
}

// GetUserViewDistance returns the view distance the user configured. Chunks
// are kept built within it even when the current view distance is lower.
func GetUserViewDistance() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.userViewDistance
}

func SetUserViewDistance(distance int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.userViewDistance = clamp(distance, MinViewDistance, MaxViewDistance)
}

// GetMaxChunkUpdates returns the upper bound of chunk builds per frame.
func GetMaxChunkUpdates() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.maxChunkUpdates
}

func SetMaxChunkUpdates(n int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.maxChunkUpdates = clamp(n, MinChunkUpdates, MaxChunkUpdates)
}

// GetFPSLimit returns the frame cap, 0 when uncapped.
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

func SetFPSLimit(fps int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	if fps < 0 {
		fps = 0
	}
	globalRenderSettings.fpsLimit = fps
}
