// screen_constants.go - display geometry, attribute layout and palette constants

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
screen_constants.go - Display Geometry and Attribute Constants

The firmware drives a VGA 640x480@60 signal with a doubled pixel clock and
line doubling, so every component works in a 320x240 logical pixel space.
One scanline of that space is synthesized on demand by Screen.Rasterize.

Attribute Byte Format (authentic ZX Spectrum layout):
  Bit 7: FLASH (swap INK/PAPER, toggles every FLASH_FRAMES frames)
  Bit 6: BRIGHT (intensify both INK and PAPER)
  Bits 5-3: PAPER (background color, 0-7)
  Bits 2-0: INK (foreground color, 0-7)

Every possible 8-bit attribute value maps to a defined foreground and
background pixel, so the raster hot path never needs a validity check.

Pixel values are palette indices: low 3 bits select the base color, bit 3
selects the bright variant. The video driver expands indices to RGBA through
PaletteRGBA when it assembles the host frame.
*/

package main

// =============================================================================
// Physical Display Geometry
// =============================================================================

const (
	// Logical pixel space (VGA 640x480 with 2x pixel clock, line doubled)
	DISPLAY_WIDTH  = 320
	DISPLAY_HEIGHT = 240

	// Pixel clock divider relative to the VGA dot clock
	CYCLES_PER_PIXEL = 2

	// Host framebuffer format
	BYTES_PER_PIXEL = 4

	// Display refresh
	REFRESH_RATE = 60
)

// =============================================================================
// Glyph Geometry
// =============================================================================

const (
	// All fonts are 8 pixels wide; one glyph row fits one byte, MSB leftmost.
	GLYPH_WIDTH = 8

	FONT8_HEIGHT  = 8
	FONT16_HEIGHT = 16
)

// =============================================================================
// Default Firmware Screen Bands
// =============================================================================

// The default machine splits the display into a main console band and a
// two-row status strip. A loaded snapshot replaces the main band with the
// Spectrum display, which uses the authentic 256x192 active area.
const (
	CONSOLE_START_LINE = 0
	CONSOLE_HEIGHT     = 216
	CONSOLE_H_BORDER   = 32
	CONSOLE_V_BORDER   = 4

	STATUS_START_LINE = 216
	STATUS_HEIGHT     = 24
	STATUS_H_BORDER   = 32
	STATUS_V_BORDER   = 4

	SPECTRUM_START_LINE = 0
	SPECTRUM_HEIGHT     = 240
	SPECTRUM_H_BORDER   = 32
	SPECTRUM_V_BORDER   = 24
)

// =============================================================================
// Attribute Byte Layout
// =============================================================================

const (
	ATTR_INK_MASK    = 0x07
	ATTR_PAPER_MASK  = 0x38
	ATTR_PAPER_SHIFT = 3
	ATTR_BRIGHT      = 0x40
	ATTR_FLASH       = 0x80

	// White ink on blue paper, the firmware's boot attribute.
	DEFAULT_ATTRIBUTE = Attribute(0x0F)
)

// =============================================================================
// Cursor and FLASH Timing
// =============================================================================

const (
	// Cursor is ON for CURSOR_BLINK_FRAMES frames, then OFF for the same.
	CURSOR_BLINK_FRAMES = 16

	// FLASH attribute toggles every FLASH_FRAMES frames (~1.6Hz at 50Hz on
	// real hardware; ~1.9Hz at the host's 60Hz refresh).
	FLASH_FRAMES = 32
)

// =============================================================================
// Color Palette
// =============================================================================

// Pixel indices 0-7 select normal colors, 8-15 the bright variants.
// Black has no bright variant on real hardware, so 0 and 8 are identical.
var PaletteRGBA = [16]uint32{
	0xFF000000, // 0: Black
	0xFFCD0000, // 1: Blue
	0xFF0000CD, // 2: Red
	0xFFCD00CD, // 3: Magenta
	0xFF00CD00, // 4: Green
	0xFFCDCD00, // 5: Cyan
	0xFF00CDCD, // 6: Yellow
	0xFFCDCDCD, // 7: White
	0xFF000000, // 8: Black (bright)
	0xFFFF0000, // 9: Bright Blue
	0xFF0000FF, // 10: Bright Red
	0xFFFF00FF, // 11: Bright Magenta
	0xFF00FF00, // 12: Bright Green
	0xFFFFFF00, // 13: Bright Cyan
	0xFF00FFFF, // 14: Bright Yellow
	0xFFFFFFFF, // 15: Bright White
}

// Pixel is one palette-indexed output pixel of the scanline synthesizer.
type Pixel uint8

// Attribute packs a foreground/background color pair for one cell.
type Attribute uint8

// Ink returns the foreground color index (0-7).
func (a Attribute) Ink() uint8 { return uint8(a) & ATTR_INK_MASK }

// Paper returns the background color index (0-7).
func (a Attribute) Paper() uint8 { return uint8(a&ATTR_PAPER_MASK) >> ATTR_PAPER_SHIFT }

// Bright reports whether the BRIGHT bit is set.
func (a Attribute) Bright() bool { return a&ATTR_BRIGHT != 0 }

// Flash reports whether the FLASH bit is set.
func (a Attribute) Flash() bool { return a&ATTR_FLASH != 0 }

// Pixels resolves the attribute to (foreground, background) pixel values.
// flashOn swaps the pair for cells carrying the FLASH bit.
func (a Attribute) Pixels(flashOn bool) (fg, bg Pixel) {
	var bright Pixel
	if a.Bright() {
		bright = 8
	}
	fg = bright + Pixel(a.Ink())
	bg = bright + Pixel(a.Paper())
	if flashOn && a.Flash() {
		fg, bg = bg, fg
	}
	return fg, bg
}

// MakeAttribute builds an attribute from ink and paper color indices.
func MakeAttribute(ink, paper uint8) Attribute {
	return Attribute(ink&ATTR_INK_MASK) | Attribute(paper<<ATTR_PAPER_SHIFT)&ATTR_PAPER_MASK
}

// Cell is one character cell: a character code and its attribute.
// The two fields are always written together.
type Cell struct {
	Char byte
	Attr Attribute
}
