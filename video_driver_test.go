// video_driver_test.go - frame sweep and driver tests

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

package main

import "testing"

func testDriver() (*VideoDriver, *HeadlessOutput, *VGARegisters) {
	output := NewHeadlessOutput()
	regs := &VGARegisters{}
	return NewVideoDriver(output, regs), output, regs
}

func framePixel(frame []byte, x, y int) uint32 {
	off := (y*DISPLAY_WIDTH + x) * BYTES_PER_PIXEL
	return uint32(frame[off]) | uint32(frame[off+1])<<8 |
		uint32(frame[off+2])<<16 | uint32(frame[off+3])<<24
}

func TestRenderFrameAdvancesCounter(t *testing.T) {
	driver, output, _ := testDriver()
	for i := 1; i <= 3; i++ {
		if err := driver.RenderFrame(); err != nil {
			t.Fatalf("RenderFrame failed: %v", err)
		}
		if got := driver.Frames().Current(); got != uint32(i) {
			t.Errorf("Expected frame %d, got %d", i, got)
		}
	}
	if output.GetFrameCount() != 3 {
		t.Errorf("Expected 3 frames pushed, got %d", output.GetFrameCount())
	}
}

func TestUnownedLinesRenderBlack(t *testing.T) {
	driver, output, _ := testDriver()
	if err := driver.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	frame := output.FrameSnapshot()
	for _, y := range []int{0, DISPLAY_HEIGHT / 2, DISPLAY_HEIGHT - 1} {
		if got := framePixel(frame, 10, y); got != PaletteRGBA[0] {
			t.Errorf("Line %d: expected black, got %08X", y, got)
		}
	}
}

func TestBandsCoverWholeFrame(t *testing.T) {
	driver, output, _ := testDriver()
	frames := driver.Frames()
	console := NewScreen(VideoSettings{
		HResolution: DISPLAY_WIDTH,
		StartLine:   CONSOLE_START_LINE,
		Height:      CONSOLE_HEIGHT,
		HBorder:     CONSOLE_H_BORDER,
		VBorder:     CONSOLE_V_BORDER,
	}, Font8x8(), frames)
	status := NewScreen(VideoSettings{
		HResolution: DISPLAY_WIDTH,
		StartLine:   STATUS_START_LINE,
		Height:      STATUS_HEIGHT,
		HBorder:     STATUS_H_BORDER,
		VBorder:     STATUS_V_BORDER,
	}, Font8x8(), frames)
	console.SetBorder(1)
	status.SetBorder(2)
	driver.AttachScreen(console)
	driver.AttachScreen(status)

	if err := driver.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	frame := output.FrameSnapshot()
	// border columns show each band's own border color on every line
	for y := 0; y < DISPLAY_HEIGHT; y++ {
		want := PaletteRGBA[1]
		if y >= STATUS_START_LINE {
			want = PaletteRGBA[2]
		}
		if got := framePixel(frame, 0, y); got != want {
			t.Fatalf("Line %d: expected %08X, got %08X", y, want, got)
		}
	}
}

func TestAttachOrderWinsOnOverlap(t *testing.T) {
	driver, output, _ := testDriver()
	frames := driver.Frames()
	full := VideoSettings{
		HResolution: DISPLAY_WIDTH,
		StartLine:   0,
		Height:      DISPLAY_HEIGHT,
		HBorder:     8,
		VBorder:     8,
	}
	first := NewScreen(full, Font8x8(), frames)
	second := NewScreen(full, Font8x8(), frames)
	first.SetBorder(4)
	second.SetBorder(6)
	driver.AttachScreen(first)
	driver.AttachScreen(second)

	if err := driver.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	frame := output.FrameSnapshot()
	if got := framePixel(frame, 0, 0); got != PaletteRGBA[4] {
		t.Errorf("Expected first-attached screen to own overlap, got %08X", got)
	}
}

func TestDetachScreen(t *testing.T) {
	driver, output, _ := testDriver()
	s := NewScreen(VideoSettings{
		HResolution: DISPLAY_WIDTH,
		StartLine:   0,
		Height:      DISPLAY_HEIGHT,
		HBorder:     8,
		VBorder:     8,
	}, Font8x8(), driver.Frames())
	s.SetBorder(7)
	driver.AttachScreen(s)
	driver.DetachScreen(s)

	if err := driver.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	frame := output.FrameSnapshot()
	if got := framePixel(frame, 0, 0); got != PaletteRGBA[0] {
		t.Errorf("Expected black after detach, got %08X", got)
	}
}

func TestOnFrameHookRunsOncePerFrame(t *testing.T) {
	driver, _, _ := testDriver()
	calls := 0
	driver.OnFrame(func() { calls++ })
	for i := 0; i < 5; i++ {
		if err := driver.RenderFrame(); err != nil {
			t.Fatalf("RenderFrame failed: %v", err)
		}
	}
	if calls != 5 {
		t.Errorf("Expected 5 hook calls, got %d", calls)
	}
}

func TestStatusRegisterFields(t *testing.T) {
	driver, _, regs := testDriver()
	if err := driver.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	status := regs.Status.Read()
	if status&VGA_STATUS_STARTED == 0 {
		t.Error("Expected STARTED bit after first frame")
	}
	if status&VGA_STATUS_VBLANK != 0 {
		t.Error("Expected VBLANK clear after sweep")
	}
	if got := VGA_FIELD_FRAME.Get(&regs.Status); got != 1 {
		t.Errorf("Expected frame field 1, got %d", got)
	}
}

func TestBlankBitForcesBorder(t *testing.T) {
	driver, output, regs := testDriver()
	s := NewScreen(VideoSettings{
		HResolution: DISPLAY_WIDTH,
		StartLine:   0,
		Height:      DISPLAY_HEIGHT,
		HBorder:     8,
		VBorder:     8,
	}, Font8x8(), driver.Frames())
	s.SetBorder(5)
	s.Print("SHOULD NOT SHOW")
	driver.AttachScreen(s)
	regs.Ctrl.SetBits(VGA_CTRL_BLANK)

	if err := driver.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	frame := output.FrameSnapshot()
	for _, x := range []int{0, 50, DISPLAY_WIDTH - 1} {
		if got := framePixel(frame, x, 20); got != PaletteRGBA[5] {
			t.Errorf("Pixel %d: expected border while blanked, got %08X", x, got)
		}
	}
}

func TestFlashAndBlinkPeriods(t *testing.T) {
	f := &FrameCounter{}
	if f.FlashPhase() {
		t.Error("Expected flash normal at frame 0")
	}
	for i := 0; i < FLASH_FRAMES; i++ {
		f.Advance()
	}
	if !f.FlashPhase() {
		t.Error("Expected flash swapped after half cycle")
	}
	f2 := &FrameCounter{}
	visible := 0
	for i := 0; i < CURSOR_BLINK_FRAMES*2; i++ {
		if f2.BlinkPhase() {
			visible++
		}
		f2.Advance()
	}
	if visible != CURSOR_BLINK_FRAMES {
		t.Errorf("Expected %d visible frames per cycle, got %d", CURSOR_BLINK_FRAMES, visible)
	}
}

func TestNewVideoOutputSelectsBackend(t *testing.T) {
	out, err := NewVideoOutput(VIDEO_BACKEND_HEADLESS)
	if err != nil {
		t.Fatalf("headless backend: %v", err)
	}
	if _, ok := out.(*HeadlessOutput); !ok {
		t.Errorf("Expected *HeadlessOutput, got %T", out)
	}
	out, err = NewVideoOutput(VIDEO_BACKEND_EBITEN)
	if err != nil {
		t.Fatalf("ebiten backend: %v", err)
	}
	if _, ok := out.(*EbitenOutput); !ok {
		t.Errorf("Expected *EbitenOutput, got %T", out)
	}
	if _, err := NewVideoOutput(99); err == nil {
		t.Error("Expected error for unknown backend type")
	}
}
