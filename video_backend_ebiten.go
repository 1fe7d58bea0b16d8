// video_backend_ebiten.go - windowed video backend

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
video_backend_ebiten.go - Host Window Backend

Features:
- Presents the driver's RGBA frames in a scalable window
- Synthesizes a PS/2 set-2 scancode stream from host key events, so the
  firmware sees exactly the bytes a real keyboard would clock in
- Clipboard paste (Ctrl+Shift+V) replayed as synthesized keystrokes
- F11 toggles fullscreen and F9 the status bar host-side; every other key
  reaches the firmware
- Status bar with device indicators and the function key legend

Signal Flow:
  host key event -> hostKeyTable -> MakeCodes/BreakCodes -> scancode handler
  VideoDriver.UpdateFrame -> frameBuffer -> Draw -> window
*/

package main

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

type EbitenOutput struct {
	running     bool
	window      *ebiten.Image
	width       int
	height      int
	fullscreen  bool
	scale       int
	windowedW   int
	windowedH   int
	frameBuffer []byte
	bufferMutex sync.RWMutex
	frameCount  uint64
	refreshRate int
	vsyncChan   chan struct{}
	done        chan struct{}

	scancodeHandler func(byte)
	pressedKeys     []ebiten.Key
	releasedKeys    []ebiten.Key

	clipboardOnce sync.Once
	clipboardOK   bool

	showStatusBar bool
	statusText    string
	deviceTokens  []statusToken
}

func NewEbitenOutput() (VideoOutput, error) {
	return &EbitenOutput{
		width:         DISPLAY_WIDTH,
		height:        DISPLAY_HEIGHT,
		scale:         2,
		windowedW:     DISPLAY_WIDTH * 2,
		windowedH:     DISPLAY_HEIGHT * 2,
		frameBuffer:   make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*BYTES_PER_PIXEL),
		refreshRate:   REFRESH_RATE,
		vsyncChan:     make(chan struct{}, 1),
		done:          make(chan struct{}),
		showStatusBar: true,
	}, nil
}

func (eo *EbitenOutput) Start() error {
	if eo.running {
		return nil
	}
	eo.bufferMutex.Lock()
	eo.done = make(chan struct{})
	eo.bufferMutex.Unlock()
	eo.running = true
	ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
	ebiten.SetWindowTitle("STM32 Spectrum (c) 2025 - 2026 belykhm")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	if eo.fullscreen {
		ebiten.SetFullscreen(true)
	}

	go func() {
		defer func() {
			eo.running = false
			eo.bufferMutex.RLock()
			done := eo.done
			eo.bufferMutex.RUnlock()
			select {
			case <-done:
			default:
				close(done)
			}
		}()
		if err := ebiten.RunGame(eo); err != nil {
			errorf("ebiten: %v", err)
		}
	}()

	// Wait for first Draw call to ensure Ebiten is ready
	<-eo.vsyncChan
	return nil
}

func (eo *EbitenOutput) Stop() error {
	eo.running = false
	return nil
}

func (eo *EbitenOutput) Close() error {
	return eo.Stop()
}

func (eo *EbitenOutput) Done() <-chan struct{} {
	eo.bufferMutex.RLock()
	done := eo.done
	eo.bufferMutex.RUnlock()
	return done
}

func (eo *EbitenOutput) UpdateFrame(data []byte) error {
	eo.bufferMutex.Lock()
	copy(eo.frameBuffer, data)
	eo.bufferMutex.Unlock()
	return nil
}

func (eo *EbitenOutput) SetDisplayConfig(config DisplayConfig) error {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()

	width := config.Width
	height := config.Height
	if width <= 0 {
		width = DISPLAY_WIDTH
	}
	if height <= 0 {
		height = DISPLAY_HEIGHT
	}
	eo.width = width
	eo.height = height
	eo.scale = clampScale(config.Scale)
	newSize := eo.width * eo.height * BYTES_PER_PIXEL

	if len(eo.frameBuffer) != newSize {
		eo.frameBuffer = make([]byte, newSize)
	}

	eo.windowedW = eo.width * eo.scale
	eo.windowedH = eo.height * eo.scale
	eo.fullscreen = config.Fullscreen
	ebiten.SetFullscreen(eo.fullscreen)
	if !eo.fullscreen {
		ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
	}
	if eo.window != nil {
		eo.window.Dispose()
		eo.window = nil
	}
	return nil
}

func (eo *EbitenOutput) GetDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Width:       eo.width,
		Height:      eo.height,
		Scale:       eo.scale,
		RefreshRate: eo.refreshRate,
		VSync:       true,
		Fullscreen:  eo.fullscreen,
	}
}

func (eo *EbitenOutput) WaitForVSync() error {
	<-eo.vsyncChan
	return nil
}

func (eo *EbitenOutput) GetFrameCount() uint64 {
	return eo.frameCount
}

func (eo *EbitenOutput) GetRefreshRate() int {
	return eo.refreshRate
}

func (eo *EbitenOutput) IsStarted() bool {
	return eo.running
}

func (eo *EbitenOutput) SetScancodeHandler(fn func(byte)) {
	eo.bufferMutex.Lock()
	eo.scancodeHandler = fn
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) SetStatusLine(s string) {
	eo.bufferMutex.Lock()
	eo.statusText = s
	eo.bufferMutex.Unlock()
}

// SetDeviceTokens replaces the status bar's device indicator row.
func (eo *EbitenOutput) SetDeviceTokens(tokens []statusToken) {
	eo.bufferMutex.Lock()
	eo.deviceTokens = append(eo.deviceTokens[:0], tokens...)
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if !eo.running {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		eo.bufferMutex.Lock()
		eo.fullscreen = !eo.fullscreen
		ebiten.SetFullscreen(eo.fullscreen)
		if !eo.fullscreen {
			ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
		}
		eo.bufferMutex.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		eo.bufferMutex.Lock()
		eo.showStatusBar = !eo.showStatusBar
		eo.bufferMutex.Unlock()
	}
	eo.handleKeyboardInput()
	return nil
}

func (eo *EbitenOutput) emitByte(b byte) {
	eo.bufferMutex.RLock()
	handler := eo.scancodeHandler
	eo.bufferMutex.RUnlock()
	if handler != nil {
		handler(b)
	}
}

func (eo *EbitenOutput) emitSeq(seq []byte) {
	for _, b := range seq {
		eo.emitByte(b)
	}
}

// hostKeyTable maps the host keys the firmware cares about to PS/2 keys.
// F11 (fullscreen) and F9 (status bar) are host-side and deliberately
// absent.
var hostKeyTable = map[ebiten.Key]Key{
	ebiten.KeyA: KEY_A, ebiten.KeyB: KEY_B, ebiten.KeyC: KEY_C,
	ebiten.KeyD: KEY_D, ebiten.KeyE: KEY_E, ebiten.KeyF: KEY_F,
	ebiten.KeyG: KEY_G, ebiten.KeyH: KEY_H, ebiten.KeyI: KEY_I,
	ebiten.KeyJ: KEY_J, ebiten.KeyK: KEY_K, ebiten.KeyL: KEY_L,
	ebiten.KeyM: KEY_M, ebiten.KeyN: KEY_N, ebiten.KeyO: KEY_O,
	ebiten.KeyP: KEY_P, ebiten.KeyQ: KEY_Q, ebiten.KeyR: KEY_R,
	ebiten.KeyS: KEY_S, ebiten.KeyT: KEY_T, ebiten.KeyU: KEY_U,
	ebiten.KeyV: KEY_V, ebiten.KeyW: KEY_W, ebiten.KeyX: KEY_X,
	ebiten.KeyY: KEY_Y, ebiten.KeyZ: KEY_Z,

	ebiten.KeyDigit0: KEY_0, ebiten.KeyDigit1: KEY_1, ebiten.KeyDigit2: KEY_2,
	ebiten.KeyDigit3: KEY_3, ebiten.KeyDigit4: KEY_4, ebiten.KeyDigit5: KEY_5,
	ebiten.KeyDigit6: KEY_6, ebiten.KeyDigit7: KEY_7, ebiten.KeyDigit8: KEY_8,
	ebiten.KeyDigit9: KEY_9,

	ebiten.KeyBackquote:    KEY_BACKQUOTE,
	ebiten.KeyMinus:        KEY_MINUS,
	ebiten.KeyEqual:        KEY_EQUALS,
	ebiten.KeyBackslash:    KEY_BACKSLASH,
	ebiten.KeyBackspace:    KEY_BACKSPACE,
	ebiten.KeySpace:        KEY_SPACE,
	ebiten.KeyTab:          KEY_TAB,
	ebiten.KeyCapsLock:     KEY_CAPS,
	ebiten.KeyShiftLeft:    KEY_LSHIFT,
	ebiten.KeyShiftRight:   KEY_RSHIFT,
	ebiten.KeyControlLeft:  KEY_LCTRL,
	ebiten.KeyControlRight: KEY_RCTRL,
	ebiten.KeyAltLeft:      KEY_LALT,
	ebiten.KeyAltRight:     KEY_RALT,
	ebiten.KeyEnter:        KEY_ENTER,
	ebiten.KeyNumpadEnter:  KEY_ENTER,
	ebiten.KeyEscape:       KEY_ESC,
	ebiten.KeyBracketLeft:  KEY_LBRACKET,
	ebiten.KeyBracketRight: KEY_RBRACKET,
	ebiten.KeySemicolon:    KEY_SEMICOLON,
	ebiten.KeyApostrophe:   KEY_APOSTROPHE,
	ebiten.KeyComma:        KEY_COMMA,
	ebiten.KeyPeriod:       KEY_PERIOD,
	ebiten.KeySlash:        KEY_SLASH,

	ebiten.KeyF1: KEY_F1, ebiten.KeyF2: KEY_F2, ebiten.KeyF3: KEY_F3,
	ebiten.KeyF4: KEY_F4, ebiten.KeyF5: KEY_F5, ebiten.KeyF6: KEY_F6,
	ebiten.KeyF7: KEY_F7, ebiten.KeyF8: KEY_F8, ebiten.KeyF10: KEY_F10,
	ebiten.KeyF12: KEY_F12,

	ebiten.KeyArrowUp:    KEY_UP,
	ebiten.KeyArrowDown:  KEY_DOWN,
	ebiten.KeyArrowLeft:  KEY_LEFT,
	ebiten.KeyArrowRight: KEY_RIGHT,
	ebiten.KeyDelete:     KEY_DELETE,
}

func (eo *EbitenOutput) handleKeyboardInput() {
	eo.bufferMutex.RLock()
	hasHandler := eo.scancodeHandler != nil
	eo.bufferMutex.RUnlock()
	if !hasHandler {
		return
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)

	// Clipboard paste: Ctrl+Shift+V
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		eo.handleClipboardPaste()
		return
	}

	eo.pressedKeys = inpututil.AppendJustPressedKeys(eo.pressedKeys[:0])
	for _, hostKey := range eo.pressedKeys {
		if key, ok := hostKeyTable[hostKey]; ok {
			eo.emitSeq(MakeCodes(key))
		}
	}
	eo.releasedKeys = inpututil.AppendJustReleasedKeys(eo.releasedKeys[:0])
	for _, hostKey := range eo.releasedKeys {
		if key, ok := hostKeyTable[hostKey]; ok {
			eo.emitSeq(BreakCodes(key))
		}
	}
}

// asciiKeyStroke maps a text byte back to the key and shift state that
// produce it, for paste replay.
func asciiKeyStroke(b byte) (Key, bool, bool) {
	for key, pair := range keyASCII {
		if pair[0] == b {
			return key, false, true
		}
		if pair[1] == b && pair[0] != pair[1] {
			return key, true, true
		}
	}
	return KEY_NONE, false, false
}

func normalizePasteText(raw []byte) []byte {
	norm := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\r' {
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			norm = append(norm, '\n')
			continue
		}
		norm = append(norm, raw[i])
	}
	return norm
}

func capPasteText(raw []byte, max int) []byte {
	if len(raw) <= max {
		return raw
	}
	return raw[:max]
}

func (eo *EbitenOutput) handleClipboardPaste() {
	eo.clipboardOnce.Do(func() {
		eo.clipboardOK = clipboard.Init() == nil
	})
	if !eo.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	data = normalizePasteText(data)
	data = capPasteText(data, 4096)
	for _, b := range data {
		key, shifted, ok := asciiKeyStroke(b)
		if !ok {
			continue
		}
		if shifted {
			eo.emitSeq(MakeCodes(KEY_LSHIFT))
		}
		eo.emitSeq(MakeCodes(key))
		eo.emitSeq(BreakCodes(key))
		if shifted {
			eo.emitSeq(BreakCodes(KEY_LSHIFT))
		}
	}
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	if eo.window == nil {
		eo.window = ebiten.NewImage(eo.width, eo.height)
	}

	eo.bufferMutex.RLock()
	eo.window.WritePixels(eo.frameBuffer)
	showStatusBar := eo.showStatusBar
	eo.bufferMutex.RUnlock()
	screen.DrawImage(eo.window, nil)
	if showStatusBar {
		eo.drawStatusBar(screen)
	}

	eo.frameCount++
	select {
	case eo.vsyncChan <- struct{}{}:
	default:
	}
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	return eo.width, eo.height
}

func drawStatusLine(screen *ebiten.Image, x, baselineY int, label string, tokens []statusToken) {
	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}
	offColor := color.RGBA{120, 120, 120, 255}
	onColor := color.RGBA{0, 220, 90, 255}

	text.Draw(screen, label, face, x, baselineY, labelColor)
	cursorX := x + text.BoundString(face, label).Dx() + 6

	for _, token := range tokens {
		c := offColor
		if token.enabled {
			c = onColor
		}
		text.Draw(screen, token.name, face, cursorX, baselineY, c)
		cursorX += text.BoundString(face, token.name).Dx() + 8
	}
}

func (eo *EbitenOutput) drawStatusBar(screen *ebiten.Image) {
	eo.bufferMutex.RLock()
	statusText := eo.statusText
	tokens := eo.deviceTokens
	eo.bufferMutex.RUnlock()

	barHeight := 31
	if barHeight >= eo.height {
		return
	}
	y := eo.height - barHeight
	ebitenutil.DrawRect(screen, 0, float64(y), float64(eo.width), float64(barHeight), color.RGBA{0, 0, 0, 180})

	drawStatusLine(screen, 6, y+13, "DEV", tokens)
	if statusText != "" {
		text.Draw(screen, statusText, basicfont.Face7x13, 6, y+26, color.RGBA{190, 190, 190, 255})
	}

	legendColor := color.RGBA{160, 160, 160, 255}
	legend := "F1 Help  F11 Fullscreen  F9 Status Bar"
	legendW := text.BoundString(basicfont.Face7x13, legend).Dx()
	legendX := eo.width - legendW - 6
	if legendX < 6 {
		legendX = 6
	}
	text.Draw(screen, legend, basicfont.Face7x13, legendX, y+26, legendColor)
}

// clampScale bounds the integer window scale factor.
func clampScale(scale int) int {
	if scale < 1 {
		return 1
	}
	if scale > 8 {
		return 8
	}
	return scale
}
