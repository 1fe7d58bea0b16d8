// font_table.go - glyph tables and the glyph source capability

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

package main

// GlyphSource supplies glyph pixel rows to the scanline synthesizer. It is
// the narrow seam between the synthesizer and whatever backs the pixels: a
// font ROM for text screens, or snapshot VRAM for the Spectrum display
// (which needs the text row to resolve its non-linear layout).
//
// GlyphRow must be total: any code outside the backing range returns the
// row of entry 0. The raster hot path never branches into error handling.
type GlyphSource interface {
	// GlyphHeight returns the glyph height in pixel rows.
	GlyphHeight() int

	// GlyphRow returns the 8 pixel bits (MSB leftmost) of one glyph row
	// for the cell holding code at the given text row.
	GlyphRow(code byte, textRow, subRow int) byte
}

// FontTable is an immutable character-code to glyph-bitmap mapping.
// Glyphs are 8 pixels wide; rows are stored as consecutive bytes per glyph.
type FontTable struct {
	height int
	first  byte
	glyphs []byte
}

// NewFontTable wraps raw glyph data. first is the character code of the
// first glyph; data length must be a multiple of height.
func NewFontTable(height int, first byte, data []byte) *FontTable {
	return &FontTable{height: height, first: first, glyphs: data}
}

func (f *FontTable) GlyphHeight() int { return f.height }

func (f *FontTable) GlyphRow(code byte, _ int, subRow int) byte {
	if subRow < 0 || subRow >= f.height {
		return 0
	}
	idx := int(code) - int(f.first)
	if idx < 0 || (idx+1)*f.height > len(f.glyphs) {
		idx = 0
	}
	return f.glyphs[idx*f.height+subRow]
}

// GlyphCount returns the number of glyphs in the table.
func (f *FontTable) GlyphCount() int { return len(f.glyphs) / f.height }

// FirstCode returns the character code of glyph 0.
func (f *FontTable) FirstCode() byte { return f.first }

var (
	font8x8Table  = NewFontTable(FONT8_HEIGHT, 0x20, font8x8[:])
	font8x16Table = NewFontTable(FONT16_HEIGHT, 0x20, font8x16[:])
)

// Font8x8 returns the firmware's primary 8x8 console font (ASCII 0x20-0x7F).
func Font8x8() *FontTable { return font8x8Table }

// Font8x16 returns the alternate 8x16 VGA ROM font (ASCII 0x20-0x7F).
func Font8x16() *FontTable { return font8x16Table }
