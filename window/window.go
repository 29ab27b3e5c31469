// Package window defines the windowing interface the editor drives.
package window

import (
	"sync/atomic"

	"github.com/pavanmanishd/pulsar/types"
)

// Window is a platform window driven by the editor loop.
type Window interface {
	ShouldClose() bool
	PollEvents()
}

// Settings describes the window to create.
type Settings struct {
	InnerSize  types.UVec2 `json:"inner_size"`
	Title      string      `json:"title"`
	Visible    bool        `json:"visible"`
	Resizable  bool        `json:"resizable"`
	Fullscreen bool        `json:"fullscreen"`
}

// DefaultSettings returns a visible, resizable 1280x720 window.
func DefaultSettings() Settings {
	return Settings{
		InnerSize: types.UVec2{X: 1280, Y: 720},
		Title:     "Pulsar Editor",
		Visible:   true,
		Resizable: true,
	}
}

// Headless is a Window without a display. It asks to close after MaxFrames
// polls, or once Close is called. MaxFrames <= 0 means no limit.
type Headless struct {
	settings  Settings
	maxFrames int64
	frames    atomic.Int64
	closed    atomic.Bool
}

// NewHeadless creates a headless window.
func NewHeadless(settings Settings, maxFrames int) *Headless {
	return &Headless{settings: settings, maxFrames: int64(maxFrames)}
}

// ShouldClose reports whether the frame budget is spent or Close was called.
func (h *Headless) ShouldClose() bool {
	if h.closed.Load() {
		return true
	}
	return h.maxFrames > 0 && h.frames.Load() >= h.maxFrames
}

// PollEvents advances the frame counter.
func (h *Headless) PollEvents() {
	h.frames.Add(1)
}

// Close requests the window to close.
func (h *Headless) Close() {
	h.closed.Store(true)
}

// Frames returns the number of PollEvents calls so far.
func (h *Headless) Frames() int {
	return int(h.frames.Load())
}

// Settings returns the settings the window was created with.
func (h *Headless) Settings() Settings {
	return h.settings
}
