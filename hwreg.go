// hwreg.go - memory-mapped register emulation

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
hwreg.go - Hardware Register Block

Models the peripheral register interface the firmware pokes on real
hardware: 32-bit registers with named bit fields, safe to touch from the
video goroutine and the firmware loop at once. Update retries a
compare-and-swap until it lands, which is how read-modify-write sequences
stay atomic without a lock.
*/

package main

import "sync/atomic"

// Reg32 is one 32-bit peripheral register.
type Reg32 struct {
	v atomic.Uint32
}

// Read returns the current register value.
func (r *Reg32) Read() uint32 { return r.v.Load() }

// Write replaces the register value.
func (r *Reg32) Write(val uint32) { r.v.Store(val) }

// CompareAndSwap writes val only if the register still holds old.
func (r *Reg32) CompareAndSwap(old, val uint32) bool {
	return r.v.CompareAndSwap(old, val)
}

// Update applies fn under a CAS retry loop and returns the written value.
func (r *Reg32) Update(fn func(uint32) uint32) uint32 {
	for {
		old := r.v.Load()
		val := fn(old)
		if r.v.CompareAndSwap(old, val) {
			return val
		}
	}
}

// SetBits sets mask bits atomically.
func (r *Reg32) SetBits(mask uint32) uint32 {
	return r.Update(func(v uint32) uint32 { return v | mask })
}

// ClearBits clears mask bits atomically.
func (r *Reg32) ClearBits(mask uint32) uint32 {
	return r.Update(func(v uint32) uint32 { return v &^ mask })
}

// Field names a contiguous bit field inside a register.
type Field struct {
	Shift uint
	Width uint
}

func (f Field) mask() uint32 {
	return ((1 << f.Width) - 1) << f.Shift
}

// Extract reads the field out of a register value.
func (f Field) Extract(reg uint32) uint32 {
	return (reg & f.mask()) >> f.Shift
}

// Insert returns reg with the field replaced by val (truncated to width).
func (f Field) Insert(reg, val uint32) uint32 {
	return (reg &^ f.mask()) | ((val << f.Shift) & f.mask())
}

// Set stores val into the register's field atomically.
func (f Field) Set(r *Reg32, val uint32) uint32 {
	return r.Update(func(v uint32) uint32 { return f.Insert(v, val) })
}

// Get loads the register and extracts the field.
func (f Field) Get(r *Reg32) uint32 {
	return f.Extract(r.Read())
}

// VGA controller register bits and fields.
const (
	VGA_CTRL_ENABLE    = 1 << 0 // output running
	VGA_CTRL_BLANK     = 1 << 1 // force blank, border color only
	VGA_STATUS_VBLANK  = 1 << 0 // set during vertical blanking
	VGA_STATUS_STARTED = 1 << 1 // set once the first frame completed
)

var (
	VGA_FIELD_LINE  = Field{Shift: 8, Width: 10}  // current scanline
	VGA_FIELD_FRAME = Field{Shift: 18, Width: 14} // frame count, wraps
)

// VGARegisters is the video controller's register block.
type VGARegisters struct {
	Ctrl   Reg32
	Status Reg32
}
