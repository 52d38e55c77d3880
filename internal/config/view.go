package config

import "sync"

// ViewSettings holds interactive viewer state
type ViewSettings struct {
	mu      sync.RWMutex
	panStep float64 // in pixels per key press
	zoom    int
}

var globalViewSettings = &ViewSettings{
	panStep: 32,
	zoom:    2,
}

// GetPanStep returns how far one arrow key press moves the view
func GetPanStep() float64 {
	globalViewSettings.mu.RLock()
	defer globalViewSettings.mu.RUnlock()
	return globalViewSettings.panStep
}

// SetPanStep sets the pan distance in pixels
func SetPanStep(step float64) {
	globalViewSettings.mu.Lock()
	defer globalViewSettings.mu.Unlock()

	if !(step >= 1) {
		step = 1
	}
	if step > 1024 {
		step = 1024
	}

	globalViewSettings.panStep = step
}

// GetZoom returns the on-screen pixel size of one field cell
func GetZoom() int {
	globalViewSettings.mu.RLock()
	defer globalViewSettings.mu.RUnlock()
	return globalViewSettings.zoom
}

// SetZoom sets the on-screen cell size
func SetZoom(zoom int) {
	globalViewSettings.mu.Lock()
	defer globalViewSettings.mu.Unlock()

	if zoom < 1 {
		zoom = 1
	}
	if zoom > 8 {
		zoom = 8
	}

	globalViewSettings.zoom = zoom
}
