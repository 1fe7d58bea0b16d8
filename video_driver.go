// video_driver.go - frame counter and per-line raster dispatch

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
video_driver.go - Video Driver

Signal Flow:
  60Hz tick -> FrameCounter.Advance -> frame hooks -> band sweep
       |                                                  |
  VGARegisters status/line fields          Screen.Rasterize per line
                                                          |
                                           palette -> RGBA frame -> backend

The driver owns the frame counter and sweeps every physical line once per
frame. Each attached screen is locked exactly once, for the duration of its
band, so the rasterizer itself stays lock-free. Lines no screen owns come
out black. When bands overlap, attach order wins.

Cursor blink and attribute flash both derive from the frame counter, so a
frame rendered twice looks identical.
*/

package main

import (
	"sync"
	"time"
)

// FrameCounter is the master frame clock. The driver advances it once per
// frame before line 0; everything phase-dependent reads it.
type FrameCounter struct {
	n uint32
}

// Advance increments the counter and returns the new frame number.
func (f *FrameCounter) Advance() uint32 {
	f.n++
	return f.n
}

// Current returns the frame number of the frame being rendered.
func (f *FrameCounter) Current() uint32 { return f.n }

// FlashPhase reports whether FLASH attributes are in the swapped half of
// their cycle.
func (f *FrameCounter) FlashPhase() bool {
	return (f.n/FLASH_FRAMES)&1 == 1
}

// BlinkPhase reports whether the cursor is in the visible half of its
// cycle. A freshly shown cursor starts visible.
func (f *FrameCounter) BlinkPhase() bool {
	return (f.n/CURSOR_BLINK_FRAMES)&1 == 0
}

// VideoDriver sweeps the attached screens into an RGBA frame at the
// configured refresh rate.
type VideoDriver struct {
	output VideoOutput
	regs   *VGARegisters
	frames *FrameCounter

	mu      sync.Mutex
	screens []*Screen
	hooks   []func()

	line  [DISPLAY_WIDTH]Pixel
	frame []byte

	stop chan struct{}
	done chan struct{}
}

// NewVideoDriver builds a driver over the given backend and register block.
func NewVideoDriver(output VideoOutput, regs *VGARegisters) *VideoDriver {
	return &VideoDriver{
		output: output,
		regs:   regs,
		frames: &FrameCounter{},
		frame:  make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*BYTES_PER_PIXEL),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Frames returns the master frame clock, shared with the screens.
func (d *VideoDriver) Frames() *FrameCounter { return d.frames }

// AttachScreen adds a screen to the sweep. Earlier attachments win on
// overlapping bands. The screen list is replaced rather than mutated so a
// frame in flight keeps sweeping the list it snapshotted.
func (d *VideoDriver) AttachScreen(s *Screen) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.screens {
		if existing == s {
			return
		}
	}
	screens := make([]*Screen, len(d.screens)+1)
	copy(screens, d.screens)
	screens[len(screens)-1] = s
	d.screens = screens
}

// DetachScreen removes a screen from the sweep.
func (d *VideoDriver) DetachScreen(s *Screen) {
	d.mu.Lock()
	defer d.mu.Unlock()
	screens := make([]*Screen, 0, len(d.screens))
	for _, existing := range d.screens {
		if existing != s {
			screens = append(screens, existing)
		}
	}
	d.screens = screens
}

// OnFrame registers a hook run once per frame, after the counter advances
// and before any line rasterizes.
func (d *VideoDriver) OnFrame(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks = append(d.hooks, fn)
}

// RenderFrame produces one complete frame into the driver's RGBA buffer and
// pushes it to the backend.
func (d *VideoDriver) RenderFrame() error {
	d.mu.Lock()
	screens := d.screens
	hooks := d.hooks
	d.mu.Unlock()

	frameNum := d.frames.Advance()
	d.regs.Status.Update(func(v uint32) uint32 {
		return VGA_FIELD_FRAME.Insert(v|VGA_STATUS_VBLANK, frameNum)
	})
	for _, fn := range hooks {
		fn()
	}
	d.regs.Status.ClearBits(VGA_STATUS_VBLANK)

	var covered [DISPLAY_HEIGHT]bool
	blanked := d.regs.Ctrl.Read()&VGA_CTRL_BLANK != 0

	for _, s := range screens {
		settings := s.Settings()
		s.Lock()
		for line := settings.StartLine; line < settings.StartLine+settings.Height; line++ {
			if line < 0 || line >= DISPLAY_HEIGHT || covered[line] {
				continue
			}
			covered[line] = true
			d.regs.Status.Update(func(v uint32) uint32 {
				return VGA_FIELD_LINE.Insert(v, uint32(line))
			})
			if blanked {
				d.blankLine(line, Pixel(s.border))
				continue
			}
			info := s.Rasterize(CYCLES_PER_PIXEL, line, d.line[:])
			d.expandLine(line, d.line[info.Offset:info.Offset+info.Length])
		}
		s.Unlock()
	}

	for line := 0; line < DISPLAY_HEIGHT; line++ {
		if !covered[line] {
			d.blankLine(line, Pixel(0))
		}
	}

	d.regs.Status.SetBits(VGA_STATUS_STARTED)
	return d.output.UpdateFrame(d.frame)
}

// expandLine writes one scanline of palette indices into the RGBA frame.
func (d *VideoDriver) expandLine(line int, pixels []Pixel) {
	off := line * DISPLAY_WIDTH * BYTES_PER_PIXEL
	for _, p := range pixels {
		c := PaletteRGBA[p&0x0F]
		d.frame[off] = byte(c)
		d.frame[off+1] = byte(c >> 8)
		d.frame[off+2] = byte(c >> 16)
		d.frame[off+3] = byte(c >> 24)
		off += BYTES_PER_PIXEL
	}
}

func (d *VideoDriver) blankLine(line int, p Pixel) {
	for i := range d.line {
		d.line[i] = p
	}
	d.expandLine(line, d.line[:])
}

// Run renders frames at the refresh rate until Stop. Blocks; callers
// normally run it on its own goroutine.
func (d *VideoDriver) Run() {
	defer close(d.done)
	d.regs.Ctrl.SetBits(VGA_CTRL_ENABLE)
	ticker := time.NewTicker(time.Second / REFRESH_RATE)
	defer ticker.Stop()
	for {
		select {
		case <-d.stop:
			d.regs.Ctrl.ClearBits(VGA_CTRL_ENABLE)
			return
		case <-ticker.C:
			if d.regs.Ctrl.Read()&VGA_CTRL_ENABLE == 0 {
				continue
			}
			if err := d.RenderFrame(); err != nil {
				logf("video: frame update: %v", err)
			}
		}
	}
}

// Stop halts the render loop and waits for it to exit.
func (d *VideoDriver) Stop() {
	close(d.stop)
	<-d.done
}
