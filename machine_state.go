// machine_state.go - Z80 register file and 48K RAM image

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
machine_state.go - Emulated Machine State

Holds the Z80 register file and the 48K RAM image of a Spectrum. Snapshots
load into and save from this container (snapshot_sd.go); the Spectrum view
renders its display file directly out of RAM (spectrum_screen.go).

RAM index 0 corresponds to Spectrum address 0x4000 (the start of contiguous
RAM); the 16K ROM is not part of the image.
*/

package main

// Spectrum memory map constants relative to the RAM image.
const (
	SPECTRUM_RAM_SIZE    = 49152 // 48K, addresses 0x4000-0xFFFF
	SPECTRUM_RAM_BASE    = 0x4000
	SPECTRUM_VRAM_SIZE   = 6144 // display file, 0x4000-0x57FF
	SPECTRUM_ATTR_OFFSET = 0x1800
	SPECTRUM_ATTR_SIZE   = 768 // 32x24 attribute cells
)

// Z80Registers is the full programmer-visible register file.
type Z80Registers struct {
	AF, BC, DE, HL     uint16
	AF_, BC_, DE_, HL_ uint16 // alternate set
	IX, IY             uint16
	PC, SP             uint16
	I, R               uint8
	IFF1, IFF2         bool
	IM                 uint8
}

// MachineState is the complete restorable state of the emulated Spectrum.
type MachineState struct {
	Regs   Z80Registers
	RAM    [SPECTRUM_RAM_SIZE]byte
	Border uint8
}

// NewMachineState returns a powered-on machine: zeroed RAM, SP at the top of
// memory, interrupts disabled in mode 1, white border.
func NewMachineState() *MachineState {
	m := &MachineState{}
	m.Reset()
	return m
}

// Reset restores power-on state. RAM is cleared; the display file becomes
// all-zero pixels with attribute 0 (black on black) until something writes
// to it.
func (m *MachineState) Reset() {
	*m = MachineState{}
	m.Regs.SP = 0xFFFF
	m.Regs.IM = 1
	m.Border = 7
}

// Attribute returns the attribute byte of display cell (col, row).
func (m *MachineState) Attribute(col, row int) Attribute {
	return Attribute(m.RAM[SPECTRUM_ATTR_OFFSET+row*32+col])
}
