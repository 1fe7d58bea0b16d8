// firmware.go - top-level firmware logic and key dispatch

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
firmware.go - Firmware

Signal Flow:
  scancode byte -> PS2Decoder -> KeyEvent -> function key dispatch
                                          -> ASCII -> console echo

The firmware owns the console, the status strip and the Spectrum view and
switches the visible band between console and Spectrum. Function keys:

  F1  help screen            F5  reset machine
  F2  save snapshot          F10 keyboard reference
  F3  load snapshot (pick)   F12 dump Z80 registers
  ESC leave Spectrum view / cancel selection

While a snapshot pick is pending, digit keys 1-9 select from the listing.
*/

package main

import (
	"fmt"
	"sync"
)

const FIRMWARE_VERSION = "1.2.0"

// View selects which band occupies the main display area.
type View int

const (
	VIEW_CONSOLE View = iota
	VIEW_SPECTRUM
)

type Firmware struct {
	console  *Screen
	status   *Screen
	spectrum *SpectrumScreen
	machine  *MachineState
	sd       *SDCard
	beeper   *Beeper
	driver   *VideoDriver

	mu        sync.Mutex
	decoder   PS2Decoder
	keys      KeyboardState
	view      View
	picking   bool     // snapshot selection pending
	pickList  []string // listing shown for selection
	saveCount int
	snapshot  string // name of the loaded snapshot, if any
	keyClick  bool
}

// NewFirmware wires the firmware over its devices. The console and status
// screens start attached; the Spectrum view swaps in on snapshot load.
func NewFirmware(driver *VideoDriver, sd *SDCard, beeper *Beeper, keyClick bool) *Firmware {
	frames := driver.Frames()
	machine := NewMachineState()

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
	status.SetAttribute(MakeAttribute(7, 0)) // white on black
	status.Clear()

	fw := &Firmware{
		console:  console,
		status:   status,
		spectrum: NewSpectrumScreen(machine, frames),
		machine:  machine,
		sd:       sd,
		beeper:   beeper,
		driver:   driver,
		keyClick: keyClick,
	}

	driver.AttachScreen(console)
	driver.AttachScreen(status)
	driver.OnFrame(fw.onFrame)

	console.ShowCursor()
	fw.banner()
	return fw
}

// Console returns the firmware console screen.
func (fw *Firmware) Console() *Screen { return fw.console }

// Machine returns the emulated machine state.
func (fw *Firmware) Machine() *MachineState { return fw.machine }

// withMachine serializes machine-state access against the Spectrum view's
// per-frame sweep.
func (fw *Firmware) withMachine(fn func(*MachineState) error) error {
	return fw.spectrum.WithMachine(fn)
}

// Registers returns a copy of the Z80 register file.
func (fw *Firmware) Registers() Z80Registers {
	var r Z80Registers
	fw.withMachine(func(m *MachineState) error {
		r = m.Regs
		return nil
	})
	return r
}

func (fw *Firmware) banner() {
	c := fw.console
	c.Clear()
	c.Print("STM32F407 ZX Spectrum " + FIRMWARE_VERSION + "\n")
	c.Print("Press F1 for help\n\n")
	c.Print("> ")
}

// onFrame refreshes the status strip and mirrors the Spectrum attribute
// file while that view is live. Runs on the video goroutine once per frame.
func (fw *Firmware) onFrame() {
	fw.mu.Lock()
	view := fw.view
	snapshot := fw.snapshot
	fw.mu.Unlock()

	if view == VIEW_SPECTRUM {
		fw.spectrum.SyncAttributes()
		return
	}

	left := "CONSOLE"
	if snapshot != "" {
		left = snapshot
	}
	if len(left) > 20 {
		left = left[:20]
	}
	fw.status.PrintAt(0, 0, fmt.Sprintf("%-20s", left))
	fw.status.PrintAlignRight(0, fmt.Sprintf("frame %d", fw.driver.Frames().Current()))
	fw.status.PrintAt(0, 1, "F1 Help F2 Save F3 Load F5 Rst")
}

// HandleScancode consumes one byte of the PS/2 stream. Called from the
// backend's input goroutine.
func (fw *Firmware) HandleScancode(b byte) {
	fw.mu.Lock()
	ev, complete := fw.decoder.Feed(b)
	fw.mu.Unlock()
	if !complete {
		return
	}
	fw.HandleKey(ev)
}

// HandleKey dispatches one decoded key event.
func (fw *Firmware) HandleKey(ev KeyEvent) {
	fw.mu.Lock()
	ascii, printable := fw.keys.Translate(ev)
	view := fw.view
	picking := fw.picking
	fw.mu.Unlock()

	if !ev.Pressed {
		return
	}
	if fw.keyClick {
		fw.beeper.KeyClick()
	}

	switch ev.Key {
	case KEY_F1:
		fw.showHelp()
		return
	case KEY_F2:
		fw.saveSnapshot()
		return
	case KEY_F3:
		fw.beginSnapshotPick()
		return
	case KEY_F5:
		fw.resetMachine()
		return
	case KEY_F10:
		fw.showKeyboard()
		return
	case KEY_F12:
		fw.showRegisters()
		return
	case KEY_ESC:
		if picking {
			fw.cancelPick()
		} else if view == VIEW_SPECTRUM {
			fw.showConsole()
		}
		return
	}

	if picking && ascii >= '1' && ascii <= '9' {
		fw.finishPick(int(ascii - '1'))
		return
	}
	if view != VIEW_CONSOLE || !printable {
		return
	}
	if ascii == 8 {
		fw.backspace()
		return
	}
	fw.console.Print(string(ascii))
}

// backspace steps the cursor back one cell and blanks it, stopping at the
// start of the row.
func (fw *Firmware) backspace() {
	x, y := fw.console.CursorPosition()
	if x == 0 {
		return
	}
	fw.console.PrintAt(x-1, y, " ")
	fw.console.SetCursorPosition(x-1, y)
}

// showConsole swaps the console band back into the sweep.
func (fw *Firmware) showConsole() {
	fw.driver.DetachScreen(fw.spectrum.Screen)
	fw.driver.AttachScreen(fw.console)
	fw.driver.AttachScreen(fw.status)
	fw.mu.Lock()
	fw.view = VIEW_CONSOLE
	fw.mu.Unlock()
}

// showSpectrum swaps the Spectrum view in; it covers the full display so
// the console and status bands come out.
func (fw *Firmware) showSpectrum() {
	fw.driver.DetachScreen(fw.console)
	fw.driver.DetachScreen(fw.status)
	fw.driver.AttachScreen(fw.spectrum.Screen)
	fw.mu.Lock()
	fw.view = VIEW_SPECTRUM
	fw.mu.Unlock()
}

func (fw *Firmware) showHelp() {
	fw.showConsole()
	c := fw.console
	c.Print("\n")
	c.Print("F1  this help\n")
	c.Print("F2  save snapshot to SD\n")
	c.Print("F3  load snapshot from SD\n")
	c.Print("F5  reset machine\n")
	c.Print("F10 keyboard reference\n")
	c.Print("F12 Z80 register dump\n")
	c.Print("ESC leave Spectrum view\n")
	c.Print("> ")
}

func (fw *Firmware) showKeyboard() {
	fw.showConsole()
	c := fw.console
	c.Print("\n")
	c.Print("Host keys map to the PS/2 port\n")
	c.Print("1:1; paste text with\n")
	c.Print("Ctrl+Shift+V. F11 toggles\n")
	c.Print("fullscreen on the host side\n")
	c.Print("and never reaches the machine.\n")
	c.Print("> ")
}

func (fw *Firmware) showRegisters() {
	fw.showConsole()
	r := fw.Registers()
	c := fw.console
	c.Print("\n")
	c.Print(fmt.Sprintf("AF %04X  BC %04X  DE %04X\n", r.AF, r.BC, r.DE))
	c.Print(fmt.Sprintf("HL %04X  IX %04X  IY %04X\n", r.HL, r.IX, r.IY))
	c.Print(fmt.Sprintf("PC %04X  SP %04X  IR %02X%02X\n", r.PC, r.SP, r.I, r.R))
	c.Print(fmt.Sprintf("AF'%04X  BC'%04X  DE'%04X\n", r.AF_, r.BC_, r.DE_))
	c.Print(fmt.Sprintf("HL'%04X  IM %d  IFF %v/%v\n", r.HL_, r.IM, r.IFF1, r.IFF2))
	c.Print("> ")
}

func (fw *Firmware) showError(context string, err error) {
	fw.beeper.ErrorBeep()
	fw.showConsole()
	fw.console.Print(fmt.Sprintf("\n%s: %v\n> ", context, err))
}

func (fw *Firmware) saveSnapshot() {
	fw.mu.Lock()
	fw.saveCount++
	name := fmt.Sprintf("autosave-%d.sna", fw.saveCount)
	fw.mu.Unlock()

	err := fw.withMachine(func(m *MachineState) error {
		return fw.sd.SaveSNA(name, m)
	})
	if err != nil {
		fw.showError("save", err)
		return
	}
	fw.showConsole()
	fw.console.Print(fmt.Sprintf("\nsaved %s\n> ", name))
}

func (fw *Firmware) beginSnapshotPick() {
	names, err := fw.sd.List()
	if err != nil {
		fw.showError("load", err)
		return
	}
	fw.showConsole()
	c := fw.console
	if len(names) == 0 {
		c.Print("\nno snapshots on SD\n> ")
		return
	}
	if len(names) > 9 {
		names = names[:9]
	}
	c.Print("\n")
	for i, name := range names {
		c.Print(fmt.Sprintf("%d  %s\n", i+1, name))
	}
	c.Print("pick 1-" + string('0'+byte(len(names))) + ", ESC cancels\n")

	fw.mu.Lock()
	fw.picking = true
	fw.pickList = names
	fw.mu.Unlock()
}

func (fw *Firmware) cancelPick() {
	fw.mu.Lock()
	fw.picking = false
	fw.pickList = nil
	fw.mu.Unlock()
	fw.console.Print("> ")
}

func (fw *Firmware) finishPick(index int) {
	fw.mu.Lock()
	names := fw.pickList
	fw.picking = false
	fw.pickList = nil
	fw.mu.Unlock()

	if index >= len(names) {
		fw.console.Print("> ")
		return
	}
	fw.LoadSnapshot(names[index])
}

// LoadSnapshot loads the named snapshot and switches to the Spectrum view.
func (fw *Firmware) LoadSnapshot(name string) {
	err := fw.withMachine(func(m *MachineState) error {
		return fw.sd.LoadSNA(name, m)
	})
	if err != nil {
		fw.showError("load", err)
		return
	}
	fw.mu.Lock()
	fw.snapshot = name
	fw.mu.Unlock()
	logf("firmware: loaded %s", name)
	fw.showSpectrum()
}

func (fw *Firmware) resetMachine() {
	fw.withMachine(func(m *MachineState) error {
		m.Reset()
		return nil
	})
	fw.mu.Lock()
	fw.snapshot = ""
	fw.mu.Unlock()
	fw.showConsole()
	fw.banner()
}
