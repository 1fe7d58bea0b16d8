// screen_raster_test.go - scanline rasterizer tests

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

package main

import "testing"

func rasterLine(s *Screen, line int) ([]Pixel, RasterInfo) {
	target := make([]Pixel, s.Settings().HResolution)
	info := s.Rasterize(CYCLES_PER_PIXEL, line, target)
	return target, info
}

func TestRasterizeEmitsFullWidthEveryLine(t *testing.T) {
	s := testScreen()
	s.Print("hello world wrapping text here")
	for line := 0; line < s.Settings().Height; line++ {
		_, info := rasterLine(s, line)
		if info.Length != s.Settings().HResolution {
			t.Fatalf("Line %d: expected length %d, got %d", line, s.Settings().HResolution, info.Length)
		}
		if info.RepeatLines < 1 {
			t.Fatalf("Line %d: expected RepeatLines >= 1, got %d", line, info.RepeatLines)
		}
		if info.CyclesPerPixel != CYCLES_PER_PIXEL {
			t.Fatalf("Line %d: expected cycles %d echoed, got %d", line, CYCLES_PER_PIXEL, info.CyclesPerPixel)
		}
	}
}

func TestRasterizeBorderLines(t *testing.T) {
	s := testScreen()
	s.SetBorder(1) // blue
	s.Print("XXXXXXXX")
	// top border, bottom border and out-of-band lines are solid border
	for _, line := range []int{0, 7, 40, 47, -1, 48, 500} {
		pixels, _ := rasterLine(s, line)
		for x, p := range pixels {
			if p != Pixel(1) {
				t.Fatalf("Line %d pixel %d: expected border, got %d", line, x, p)
			}
		}
	}
}

func TestRasterizeHorizontalBorder(t *testing.T) {
	s := testScreen()
	s.SetBorder(2)
	pixels, _ := rasterLine(s, 10) // first text row
	hb := s.Settings().HBorder
	for x := 0; x < hb; x++ {
		if pixels[x] != Pixel(2) {
			t.Fatalf("Left border pixel %d: expected 2, got %d", x, pixels[x])
		}
	}
	for x := len(pixels) - hb; x < len(pixels); x++ {
		if pixels[x] != Pixel(2) {
			t.Fatalf("Right border pixel %d: expected 2, got %d", x, pixels[x])
		}
	}
}

func TestRasterizeGlyphPixels(t *testing.T) {
	s := testScreen()
	s.HideCursor()
	s.PrintAt(0, 0, "A")
	glyphTop := s.Settings().VBorder
	font := Font8x8()
	fg, bg := DEFAULT_ATTRIBUTE.Pixels(false)
	for sub := 0; sub < 8; sub++ {
		pixels, _ := rasterLine(s, glyphTop+sub)
		bits := font.GlyphRow('A', 0, sub)
		for bit := 0; bit < 8; bit++ {
			want := bg
			if bits&(0x80>>bit) != 0 {
				want = fg
			}
			got := pixels[s.Settings().HBorder+bit]
			if got != want {
				t.Fatalf("Glyph row %d bit %d: expected %d, got %d", sub, bit, want, got)
			}
		}
	}
}

func TestRasterizeSpacePixels(t *testing.T) {
	s := testScreen()
	s.HideCursor()
	_, bg := DEFAULT_ATTRIBUTE.Pixels(false)
	pixels, _ := rasterLine(s, s.Settings().VBorder+3)
	for x := s.Settings().HBorder; x < s.Settings().HResolution-s.Settings().HBorder; x++ {
		if pixels[x] != bg {
			t.Fatalf("Pixel %d: expected background %d, got %d", x, bg, pixels[x])
		}
	}
}

func TestCursorInversion(t *testing.T) {
	frames := &FrameCounter{}
	s := NewScreen(VideoSettings{
		HResolution: 80, Height: 48, HBorder: 8, VBorder: 8,
	}, Font8x8(), frames)
	s.ShowCursor()
	s.SetCursorPosition(0, 0)

	if !frames.BlinkPhase() {
		t.Fatal("Expected blink phase visible at frame 0")
	}
	fg, bg := DEFAULT_ATTRIBUTE.Pixels(false)
	pixels, _ := rasterLine(s, s.Settings().VBorder) // top row of cursor cell
	// a space cell under the cursor renders solid foreground
	for x := s.Settings().HBorder; x < s.Settings().HBorder+8; x++ {
		if pixels[x] != fg {
			t.Fatalf("Cursor pixel %d: expected inverted %d, got %d", x, fg, pixels[x])
		}
	}
	// the neighboring cell stays background
	if pixels[s.Settings().HBorder+8] != bg {
		t.Errorf("Expected neighbor cell untouched, got %d", pixels[s.Settings().HBorder+8])
	}
}

func TestCursorBlinkPhaseOff(t *testing.T) {
	frames := &FrameCounter{}
	s := NewScreen(VideoSettings{
		HResolution: 80, Height: 48, HBorder: 8, VBorder: 8,
	}, Font8x8(), frames)
	s.ShowCursor()

	for i := 0; i < CURSOR_BLINK_FRAMES; i++ {
		frames.Advance()
	}
	if frames.BlinkPhase() {
		t.Fatal("Expected blink phase hidden after half cycle")
	}
	_, bg := DEFAULT_ATTRIBUTE.Pixels(false)
	pixels, _ := rasterLine(s, s.Settings().VBorder)
	for x := s.Settings().HBorder; x < s.Settings().HBorder+8; x++ {
		if pixels[x] != bg {
			t.Fatalf("Expected no inversion in off phase, got %d at %d", pixels[x], x)
		}
	}
}

func TestHiddenCursorNeverInverts(t *testing.T) {
	s := testScreen()
	s.HideCursor()
	_, bg := DEFAULT_ATTRIBUTE.Pixels(false)
	pixels, _ := rasterLine(s, s.Settings().VBorder)
	for x := s.Settings().HBorder; x < s.Settings().HBorder+8; x++ {
		if pixels[x] != bg {
			t.Fatalf("Expected plain background with hidden cursor, got %d", pixels[x])
		}
	}
}

func TestOwnsLine(t *testing.T) {
	console := NewScreen(VideoSettings{
		HResolution: DISPLAY_WIDTH,
		StartLine:   CONSOLE_START_LINE,
		Height:      CONSOLE_HEIGHT,
		HBorder:     CONSOLE_H_BORDER,
		VBorder:     CONSOLE_V_BORDER,
	}, Font8x8(), &FrameCounter{})
	status := NewScreen(VideoSettings{
		HResolution: DISPLAY_WIDTH,
		StartLine:   STATUS_START_LINE,
		Height:      STATUS_HEIGHT,
		HBorder:     STATUS_H_BORDER,
		VBorder:     STATUS_V_BORDER,
	}, Font8x8(), &FrameCounter{})

	// the two touching bands cover every physical line exactly once
	for line := 0; line < DISPLAY_HEIGHT; line++ {
		owners := 0
		if console.OwnsLine(line) {
			owners++
		}
		if status.OwnsLine(line) {
			owners++
		}
		if owners != 1 {
			t.Fatalf("Line %d: expected exactly 1 owner, got %d", line, owners)
		}
	}
	if console.OwnsLine(-1) || status.OwnsLine(DISPLAY_HEIGHT) {
		t.Error("Expected out-of-range lines to be unowned")
	}
}

func TestTallerFontOrphansRowsToBorder(t *testing.T) {
	s := testScreen() // built for 8x8, 4 rows
	s.SetBorder(3)
	s.SetFont(Font8x16()) // only 2 rows fit now
	// former row 3 area renders as border
	pixels, _ := rasterLine(s, s.Settings().VBorder+2*16+1)
	for x, p := range pixels {
		if p != Pixel(3) {
			t.Fatalf("Pixel %d: expected border after font swap, got %d", x, p)
		}
	}
}

func TestDefaultGlyphFallback(t *testing.T) {
	font := Font8x8()
	// a code below the table's first entry renders as the fallback glyph
	want := font.GlyphRow(byte(font.FirstCode()), 0, 3)
	got := font.GlyphRow(0x01, 0, 3)
	if got != want {
		t.Errorf("Expected out-of-table code to fall back to entry 0, got %02X want %02X", got, want)
	}
}
