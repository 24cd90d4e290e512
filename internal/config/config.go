package config

import "sync"

// RenderSettings holds the viewer's runtime render configuration.
// World and traversal parameters live in Config and never change after startup.
type RenderSettings struct {
	mu       sync.RWMutex
	upscale  int // internal raymarch resolution divisor
	fpsLimit int // 0 = unlimited
	showHUD  bool
}

var globalRenderSettings = &RenderSettings{
	upscale:  2,
	fpsLimit: 60,
	showHUD:  true,
}

// GetUpscale returns how many screen pixels one marched pixel covers per axis
func GetUpscale() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.upscale
}

// SetUpscale sets the raymarch upscale factor
func SetUpscale(factor int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	if factor < 1 {
		factor = 1
	}
	if factor > 8 {
		factor = 8
	}

	globalRenderSettings.upscale = factor
}

// GetFPSLimit returns the frame cap, 0 meaning unlimited
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if limit < 0 {
		limit = 0
	}
	if limit > 240 {
		limit = 240
	}

	globalRenderSettings.fpsLimit = limit
}

// GetShowHUD returns whether the text overlay is drawn
func GetShowHUD() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.showHUD
}

// SetShowHUD sets whether the text overlay is drawn
func SetShowHUD(show bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.showHUD = show
}
