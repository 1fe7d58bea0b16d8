// screen.go - text-mode screen instance and console mutation API

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
screen.go - Text Screen and Console Mutation API

A Screen owns one character/attribute cell grid covering a contiguous band of
physical scanlines. The video driver calls Rasterize (screen_raster.go) once
per physical line inside the timing window; the firmware mutates the grid
through the API here between frames.

Features:
- Fixed-geometry cell grid sized at construction, never reallocated
- Print with wrap and scroll-up overflow policy (top row lost, bottom cleared)
- Aligned prints with left/symmetric truncation when text exceeds the row
- Cursor position clamping: coordinates past the last cell land on it
- Font swap via any GlyphSource; the cell grid is untouched

Concurrency: one mutex guards the grid and cursor. The mutation API locks it
per call; the video driver locks it once per frame around the band's raster
calls. Rasterize itself never locks (caller-serialized contract).
*/

package main

import "sync"

// VideoSettings fixes a Screen's placement and border geometry. Immutable
// after construction.
type VideoSettings struct {
	HResolution int // emitted pixels per scanline
	StartLine   int // first physical line of the band
	Height      int // band height in physical lines
	HBorder     int // horizontal border thickness in pixels, each side
	VBorder     int // vertical border thickness in lines, top and bottom
}

// Screen is one independently rasterized text region of the display.
type Screen struct {
	mu sync.Mutex

	settings VideoSettings
	columns  int
	rows     int
	cells    []Cell

	cursorX       int
	cursorY       int
	cursorVisible bool

	attr   Attribute
	border uint8 // border color index 0-7

	glyphs GlyphSource
	frames *FrameCounter
}

// NewScreen builds a screen over the given band. Column count derives from
// the horizontal resolution and border; row count from the band height, the
// vertical border and the initial font's glyph height.
func NewScreen(settings VideoSettings, glyphs GlyphSource, frames *FrameCounter) *Screen {
	columns := (settings.HResolution - 2*settings.HBorder) / GLYPH_WIDTH
	rows := (settings.Height - 2*settings.VBorder) / glyphs.GlyphHeight()
	if columns < 1 {
		columns = 1
	}
	if rows < 1 {
		rows = 1
	}
	s := &Screen{
		settings: settings,
		columns:  columns,
		rows:     rows,
		cells:    make([]Cell, columns*rows),
		attr:     DEFAULT_ATTRIBUTE,
		border:   DEFAULT_ATTRIBUTE.Paper(),
		glyphs:   glyphs,
		frames:   frames,
	}
	s.clearLocked()
	return s
}

// Columns returns the text column count.
func (s *Screen) Columns() int { return s.columns }

// Rows returns the text row count.
func (s *Screen) Rows() int { return s.rows }

// Settings returns the band placement descriptor.
func (s *Screen) Settings() VideoSettings { return s.settings }

// Cell returns the cell at (x, y); out-of-range coordinates clamp.
func (s *Screen) Cell(x, y int) Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	x, y = s.clampLocked(x, y)
	return s.cells[y*s.columns+x]
}

// CursorPosition returns the current cursor cell.
func (s *Screen) CursorPosition() (x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorX, s.cursorY
}

// Lock serializes the grid against Rasterize. The video driver holds it for
// the duration of one band sweep; the mutation API takes it per call.
func (s *Screen) Lock() { s.mu.Lock() }

// Unlock releases the grid.
func (s *Screen) Unlock() { s.mu.Unlock() }

// Clear resets every cell to a space with the default attribute and homes
// the cursor.
func (s *Screen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Screen) clearLocked() {
	blank := Cell{Char: ' ', Attr: s.attr}
	for i := range s.cells {
		s.cells[i] = blank
	}
	s.cursorX = 0
	s.cursorY = 0
}

// SetFont swaps the glyph source. The cell grid is untouched; if the new
// glyph height does not fill the band evenly the bottom rows fall into the
// border (see visibleRows in screen_raster.go).
func (s *Screen) SetFont(glyphs GlyphSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.glyphs = glyphs
}

// SetAttribute sets the attribute applied by subsequent prints.
func (s *Screen) SetAttribute(attr Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attr = attr
}

// SetBorder sets the border color index (bits 0-2 only, like the ULA port).
func (s *Screen) SetBorder(color uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.border = color & 0x07
}

// SetCursorPosition moves the cursor. Coordinates at or past the grid edge
// clamp to the last valid cell; they never wrap and never land out of range.
func (s *Screen) SetCursorPosition(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursorX, s.cursorY = s.clampLocked(x, y)
}

func (s *Screen) clampLocked(x, y int) (int, int) {
	if x < 0 {
		x = 0
	} else if x >= s.columns {
		x = s.columns - 1
	}
	if y < 0 {
		y = 0
	} else if y >= s.rows {
		y = s.rows - 1
	}
	return x, y
}

// ShowCursor enables cursor display; the stored cell is not altered.
func (s *Screen) ShowCursor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursorVisible = true
}

// HideCursor disables cursor display.
func (s *Screen) HideCursor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursorVisible = false
}

// Print writes text at the cursor, advancing it. Columns wrap to the next
// row; past the last row the grid scrolls up one text row ('\n' starts a new
// row, '\r' returns to column 0).
func (s *Screen) Print(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < len(text); i++ {
		s.printCharLocked(text[i])
	}
}

// PrintAt positions the cursor (with clamping) and prints. Cursor visibility
// is not touched.
func (s *Screen) PrintAt(x, y int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursorX, s.cursorY = s.clampLocked(x, y)
	for i := 0; i < len(text); i++ {
		s.printCharLocked(text[i])
	}
}

// PrintAlignRight prints text so its last character lands in the rightmost
// column of row y. Overlong text is truncated from the left.
func (s *Screen) PrintAlignRight(y int, text string) {
	if len(text) > s.columns {
		text = text[len(text)-s.columns:]
	}
	s.PrintAt(s.columns-len(text), y, text)
}

// PrintAlignCenter centers text on row y. Overlong text is truncated
// symmetrically.
func (s *Screen) PrintAlignCenter(y int, text string) {
	if len(text) > s.columns {
		excess := len(text) - s.columns
		text = text[excess/2 : excess/2+s.columns]
	}
	s.PrintAt((s.columns-len(text))/2, y, text)
}

func (s *Screen) printCharLocked(ch byte) {
	switch ch {
	case '\r':
		s.cursorX = 0
		return
	case '\n':
		s.cursorX = 0
		s.advanceRowLocked()
		return
	}
	s.cells[s.cursorY*s.columns+s.cursorX] = Cell{Char: ch, Attr: s.attr}
	s.cursorX++
	if s.cursorX >= s.columns {
		s.cursorX = 0
		s.advanceRowLocked()
	}
}

func (s *Screen) advanceRowLocked() {
	s.cursorY++
	if s.cursorY >= s.rows {
		s.scrollLocked()
		s.cursorY = s.rows - 1
	}
}

// scrollLocked shifts every text row up by one and clears the bottom row.
// In-place copy over the fixed grid; no allocation.
func (s *Screen) scrollLocked() {
	copy(s.cells, s.cells[s.columns:])
	blank := Cell{Char: ' ', Attr: s.attr}
	bottom := s.cells[(s.rows-1)*s.columns:]
	for i := range bottom {
		bottom[i] = blank
	}
}
