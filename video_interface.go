// video_interface.go - video output backend interface

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

package main

import "fmt"

// VideoError provides detailed error context for video operations
type VideoError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("video %s failed: %s", e.Operation, e.Details)
}

func (e *VideoError) Unwrap() error { return e.Err }

// DisplayConfig contains hardware-independent output configuration.
type DisplayConfig struct {
	Width       int
	Height      int
	Scale       int // Integer scaling factor for output
	RefreshRate int // Target refresh rate in Hz
	VSync       bool
	Fullscreen  bool
}

// VideoOutput is the minimal surface a display backend must implement.
// UpdateFrame takes one complete RGBA frame, Width*Height*4 bytes.
type VideoOutput interface {
	Start() error
	Stop() error
	Close() error
	IsStarted() bool

	SetDisplayConfig(config DisplayConfig) error
	GetDisplayConfig() DisplayConfig
	UpdateFrame(buffer []byte) error

	WaitForVSync() error
	GetFrameCount() uint64
	GetRefreshRate() int
}

// ScancodeCapable backends turn host input into a PS/2 set-2 byte stream.
// The handler runs on the backend's input goroutine.
type ScancodeCapable interface {
	SetScancodeHandler(handler func(b byte))
}

// StatusCapable backends render a one-line status strip outside the
// emulated display area.
type StatusCapable interface {
	SetStatusLine(text string)
}

// statusToken is one named on/off indicator in the status bar.
type statusToken struct {
	name    string
	enabled bool
}

// TokenCapable backends show named device indicators in their status bar.
type TokenCapable interface {
	SetDeviceTokens(tokens []statusToken)
}

// DoneCapable backends report when their event loop exits.
type DoneCapable interface {
	Done() <-chan struct{}
}

// Predefined video backend types
const (
	VIDEO_BACKEND_EBITEN   = iota // Ebiten windowed backend
	VIDEO_BACKEND_HEADLESS        // In-memory backend for tests and CI
)

// NewVideoOutput creates a video output instance using the given backend.
func NewVideoOutput(backend int) (VideoOutput, error) {
	switch backend {
	case VIDEO_BACKEND_EBITEN:
		return NewEbitenOutput()
	case VIDEO_BACKEND_HEADLESS:
		return NewHeadlessOutput(), nil
	}
	return nil, &VideoError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}
