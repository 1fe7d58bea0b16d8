// screen_raster.go - per-scanline rasterizer for text screens

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
screen_raster.go - Scanline Rasterizer

Signal Flow:
  video driver line sweep -> OwnsLine -> Rasterize -> target []Pixel
                                              |
                               GlyphSource.GlyphRow per column
                               Attribute.Pixels per column

Rasterize runs once per physical line inside the horizontal blanking window.
It never locks, never allocates and has no error path: every reachable input
produces exactly HResolution pixels. Lines in the vertical border, and text
rows the current font pushes past the band, emit solid border color.

The caller serializes Rasterize against the mutation API by holding the
screen lock around the band sweep (see video_driver.go).
*/

package main

// RasterInfo describes the pixels a Rasterize call emitted.
type RasterInfo struct {
	Offset         int // index into target of the first emitted pixel
	Length         int // emitted pixel count, always HResolution
	CyclesPerPixel int // pixel clock divider echoed back to the driver
	RepeatLines    int // physical lines this scanline covers, minimum 1
}

// OwnsLine reports whether the physical line falls inside this screen's band.
func (s *Screen) OwnsLine(line int) bool {
	return line >= s.settings.StartLine && line < s.settings.StartLine+s.settings.Height
}

// visibleRows is the number of text rows the current font fits into the
// band. Equals Rows() when the font filling matches construction; a taller
// font shrinks it and the orphaned rows render as border.
func (s *Screen) visibleRows() int {
	visible := (s.settings.Height - 2*s.settings.VBorder) / s.glyphs.GlyphHeight()
	if visible > s.rows {
		visible = s.rows
	}
	return visible
}

// Rasterize emits one scanline of the band into target, which must hold at
// least HResolution pixels. line is the physical line number; lines outside
// the band emit solid border (the driver normally checks OwnsLine first).
func (s *Screen) Rasterize(cyclesPerPixel, line int, target []Pixel) RasterInfo {
	info := RasterInfo{
		Offset:         0,
		Length:         s.settings.HResolution,
		CyclesPerPixel: cyclesPerPixel,
		RepeatLines:    1,
	}

	borderPixel := Pixel(s.border)
	rel := line - s.settings.StartLine
	glyphHeight := s.glyphs.GlyphHeight()
	textLine := rel - s.settings.VBorder
	textRow := textLine / glyphHeight

	if rel < 0 || rel >= s.settings.Height ||
		textLine < 0 || textRow >= s.visibleRows() {
		for x := 0; x < s.settings.HResolution; x++ {
			target[x] = borderPixel
		}
		return info
	}

	subRow := textLine % glyphHeight
	flashOn := s.frames.FlashPhase()
	cursorOn := s.cursorVisible && s.frames.BlinkPhase() && textRow == s.cursorY

	x := 0
	for ; x < s.settings.HBorder; x++ {
		target[x] = borderPixel
	}

	row := s.cells[textRow*s.columns:]
	for col := 0; col < s.columns; col++ {
		cell := row[col]
		bits := s.glyphs.GlyphRow(cell.Char, textRow, subRow)
		fg, bg := cell.Attr.Pixels(flashOn)
		if cursorOn && col == s.cursorX {
			fg, bg = bg, fg
		}
		for mask := byte(0x80); mask != 0; mask >>= 1 {
			if bits&mask != 0 {
				target[x] = fg
			} else {
				target[x] = bg
			}
			x++
		}
	}

	for ; x < s.settings.HResolution; x++ {
		target[x] = borderPixel
	}
	return info
}
