// video_backend_headless.go - in-memory video backend

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
video_backend_headless.go - Headless Backend

Keeps the last pushed frame in memory and counts updates. Used by the test
suite and by -headless runs on machines with no display. Implements the
same optional capabilities as the window backend so the firmware wires up
identically against either.
*/

package main

import "sync"

type HeadlessOutput struct {
	mu          sync.Mutex
	running     bool
	config      DisplayConfig
	frameBuffer []byte
	frameCount  uint64

	scancodeHandler func(byte)
	statusText      string
}

func NewHeadlessOutput() *HeadlessOutput {
	return &HeadlessOutput{
		config: DisplayConfig{
			Width:       DISPLAY_WIDTH,
			Height:      DISPLAY_HEIGHT,
			Scale:       1,
			RefreshRate: REFRESH_RATE,
		},
		frameBuffer: make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*BYTES_PER_PIXEL),
	}
}

func (ho *HeadlessOutput) Start() error {
	ho.mu.Lock()
	ho.running = true
	ho.mu.Unlock()
	return nil
}

func (ho *HeadlessOutput) Stop() error {
	ho.mu.Lock()
	ho.running = false
	ho.mu.Unlock()
	return nil
}

func (ho *HeadlessOutput) Close() error {
	return ho.Stop()
}

func (ho *HeadlessOutput) IsStarted() bool {
	ho.mu.Lock()
	defer ho.mu.Unlock()
	return ho.running
}

func (ho *HeadlessOutput) SetDisplayConfig(config DisplayConfig) error {
	ho.mu.Lock()
	defer ho.mu.Unlock()
	if config.Width <= 0 || config.Height <= 0 {
		return &VideoError{
			Operation: "display config",
			Details:   "non-positive dimensions",
		}
	}
	ho.config = config
	size := config.Width * config.Height * BYTES_PER_PIXEL
	if len(ho.frameBuffer) != size {
		ho.frameBuffer = make([]byte, size)
	}
	return nil
}

func (ho *HeadlessOutput) GetDisplayConfig() DisplayConfig {
	ho.mu.Lock()
	defer ho.mu.Unlock()
	return ho.config
}

func (ho *HeadlessOutput) UpdateFrame(data []byte) error {
	ho.mu.Lock()
	copy(ho.frameBuffer, data)
	ho.frameCount++
	ho.mu.Unlock()
	return nil
}

// WaitForVSync is immediate; there is no display to sync against.
func (ho *HeadlessOutput) WaitForVSync() error { return nil }

func (ho *HeadlessOutput) GetFrameCount() uint64 {
	ho.mu.Lock()
	defer ho.mu.Unlock()
	return ho.frameCount
}

func (ho *HeadlessOutput) GetRefreshRate() int {
	ho.mu.Lock()
	defer ho.mu.Unlock()
	return ho.config.RefreshRate
}

func (ho *HeadlessOutput) SetScancodeHandler(fn func(byte)) {
	ho.mu.Lock()
	ho.scancodeHandler = fn
	ho.mu.Unlock()
}

// InjectScancode feeds one byte into the registered handler, as the window
// backend would on a key event. Test hook.
func (ho *HeadlessOutput) InjectScancode(b byte) {
	ho.mu.Lock()
	handler := ho.scancodeHandler
	ho.mu.Unlock()
	if handler != nil {
		handler(b)
	}
}

func (ho *HeadlessOutput) SetStatusLine(s string) {
	ho.mu.Lock()
	ho.statusText = s
	ho.mu.Unlock()
}

// StatusLine returns the last status text. Test hook.
func (ho *HeadlessOutput) StatusLine() string {
	ho.mu.Lock()
	defer ho.mu.Unlock()
	return ho.statusText
}

// FrameSnapshot copies the last pushed frame. Test hook.
func (ho *HeadlessOutput) FrameSnapshot() []byte {
	ho.mu.Lock()
	defer ho.mu.Unlock()
	out := make([]byte, len(ho.frameBuffer))
	copy(out, ho.frameBuffer)
	return out
}
