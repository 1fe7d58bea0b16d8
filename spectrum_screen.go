// spectrum_screen.go - Spectrum display file rendered as a text screen

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
spectrum_screen.go - Spectrum View

Renders the emulated machine's display file through the same scanline
rasterizer the console uses. The trick is a glyph source backed by VRAM
instead of a font ROM: each cell's character code is its own column index,
and GlyphRow resolves (column, textRow, subRow) through the Spectrum's
non-linear display file layout. Attributes are mirrored from the attribute
file at 0x5800 into the cell grid once per frame by SyncAttributes.

Display file addressing: for pixel line y and column x the byte lives at
  ((y & 0xC0) << 5) + ((y & 0x07) << 8) + ((y & 0x38) << 2) + x
relative to 0x4000. The line starts are precomputed; GlyphRow is a single
table lookup plus add.
*/

package main

const (
	SPECTRUM_COLUMNS     = 32
	SPECTRUM_ROWS        = 24
	SPECTRUM_PIXEL_LINES = 192
)

// vramGlyphSource adapts the machine's display file to the GlyphSource
// capability. The character code passed to GlyphRow is the column index.
type vramGlyphSource struct {
	machine   *MachineState
	lineStart [SPECTRUM_PIXEL_LINES]uint16
}

func newVRAMGlyphSource(machine *MachineState) *vramGlyphSource {
	g := &vramGlyphSource{machine: machine}
	for y := 0; y < SPECTRUM_PIXEL_LINES; y++ {
		g.lineStart[y] = uint16(((y & 0xC0) << 5) | ((y & 0x07) << 8) | ((y & 0x38) << 2))
	}
	return g
}

func (g *vramGlyphSource) GlyphHeight() int { return 8 }

func (g *vramGlyphSource) GlyphRow(code byte, textRow, subRow int) byte {
	y := textRow*8 + subRow
	if y < 0 || y >= SPECTRUM_PIXEL_LINES || code >= SPECTRUM_COLUMNS {
		return 0
	}
	return g.machine.RAM[int(g.lineStart[y])+int(code)]
}

// SpectrumScreen is the machine display band: a Screen whose cells mirror
// the attribute file and whose glyphs come straight from VRAM.
type SpectrumScreen struct {
	*Screen
	machine *MachineState
}

// NewSpectrumScreen builds the Spectrum view over the standard 320x240 band
// with 32-pixel side borders and 24-line top/bottom borders around the
// 256x192 active area.
func NewSpectrumScreen(machine *MachineState, frames *FrameCounter) *SpectrumScreen {
	settings := VideoSettings{
		HResolution: DISPLAY_WIDTH,
		StartLine:   SPECTRUM_START_LINE,
		Height:      SPECTRUM_HEIGHT,
		HBorder:     SPECTRUM_H_BORDER,
		VBorder:     SPECTRUM_V_BORDER,
	}
	ss := &SpectrumScreen{
		Screen:  NewScreen(settings, newVRAMGlyphSource(machine), frames),
		machine: machine,
	}
	ss.HideCursor()
	// Character codes are column indices, fixed for the lifetime of the
	// screen. Only attributes change frame to frame.
	ss.Lock()
	for row := 0; row < SPECTRUM_ROWS; row++ {
		for col := 0; col < SPECTRUM_COLUMNS; col++ {
			ss.cells[row*SPECTRUM_COLUMNS+col].Char = byte(col)
		}
	}
	ss.Unlock()
	ss.SyncAttributes()
	return ss
}

// WithMachine runs fn with the display file locked against the per-frame
// sweep. Snapshot loads and resets go through here so a frame never
// observes a half-written machine state.
func (ss *SpectrumScreen) WithMachine(fn func(*MachineState) error) error {
	ss.Lock()
	defer ss.Unlock()
	return fn(ss.machine)
}

// SyncAttributes mirrors the machine's attribute file and border color into
// the cell grid. Called once per frame before the band is swept.
func (ss *SpectrumScreen) SyncAttributes() {
	ss.Lock()
	for i := 0; i < SPECTRUM_ATTR_SIZE; i++ {
		ss.cells[i].Attr = Attribute(ss.machine.RAM[SPECTRUM_ATTR_OFFSET+i])
	}
	ss.border = ss.machine.Border & 0x07
	ss.Unlock()
}
