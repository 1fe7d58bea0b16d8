// snapshot_sd.go - snapshot storage on the SD card directory

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
snapshot_sd.go - SD Card Snapshot Store

Features:
- Sandboxed file access: every name resolves inside the card directory,
  absolute paths and ".." components are rejected
- .sna 48K snapshot codec (27-byte register header + 49152 bytes of RAM)
- Directory listing filtered to .sna files, sorted by name

SNA header layout (all words little-endian):
  0:I  1:HL' 3:DE' 5:BC' 7:AF' 9:HL 11:DE 13:BC 15:IY 17:IX
  19:IFF2 (bit 2)  20:R  21:AF  23:SP  25:IM  26:Border

The format carries no PC; the real machine recovers it with RETN from the
stacked value. Loading here only needs the screen and registers for display,
so PC is taken from the word at SP without popping it.
*/

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	SNA_HEADER_SIZE = 27
	SNA_FILE_SIZE   = SNA_HEADER_SIZE + SPECTRUM_RAM_SIZE
)

// SDCard is a directory-sandboxed snapshot store.
type SDCard struct {
	baseDir string
}

// NewSDCard opens the store rooted at baseDir, creating it when missing.
func NewSDCard(baseDir string) (*SDCard, error) {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("sd: resolving %q: %w", baseDir, err)
	}
	if err := os.MkdirAll(absBase, 0o755); err != nil {
		return nil, fmt.Errorf("sd: creating %q: %w", absBase, err)
	}
	return &SDCard{baseDir: absBase}, nil
}

// sanitizePath resolves name inside the card directory. Absolute paths and
// any ".." component are rejected outright; the joined result must stay
// under the base.
func (sd *SDCard) sanitizePath(name string) (string, bool) {
	if filepath.IsAbs(name) || strings.Contains(name, "..") {
		return "", false
	}
	fullPath := filepath.Join(sd.baseDir, name)
	rel, err := filepath.Rel(sd.baseDir, fullPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return fullPath, true
}

// List returns the .sna file names on the card, sorted.
func (sd *SDCard) List() ([]string, error) {
	entries, err := os.ReadDir(sd.baseDir)
	if err != nil {
		return nil, fmt.Errorf("sd: listing: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".sna") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadSNA reads a snapshot into the machine. The machine is untouched on
// any error.
func (sd *SDCard) LoadSNA(name string, m *MachineState) error {
	path, ok := sd.sanitizePath(name)
	if !ok {
		return fmt.Errorf("sd: invalid snapshot name %q", name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("sd: reading %s: %w", name, err)
	}
	if len(data) != SNA_FILE_SIZE {
		return fmt.Errorf("sd: %s: bad size %d, want %d", name, len(data), SNA_FILE_SIZE)
	}

	r := &m.Regs
	r.I = data[0]
	r.HL_ = word(data, 1)
	r.DE_ = word(data, 3)
	r.BC_ = word(data, 5)
	r.AF_ = word(data, 7)
	r.HL = word(data, 9)
	r.DE = word(data, 11)
	r.BC = word(data, 13)
	r.IY = word(data, 15)
	r.IX = word(data, 17)
	r.IFF2 = data[19]&0x04 != 0
	r.IFF1 = r.IFF2
	r.R = data[20]
	r.AF = word(data, 21)
	r.SP = word(data, 23)
	r.IM = data[25] & 0x03
	m.Border = data[26] & 0x07
	copy(m.RAM[:], data[SNA_HEADER_SIZE:])

	// PC is the stacked return address (RETN restores it on hardware).
	if int(r.SP) >= SPECTRUM_RAM_BASE && int(r.SP) <= 0xFFFE {
		r.PC = word(m.RAM[:], int(r.SP)-SPECTRUM_RAM_BASE)
	}
	return nil
}

// SaveSNA writes the machine as a snapshot, overwriting any existing file
// of the same name.
func (sd *SDCard) SaveSNA(name string, m *MachineState) error {
	path, ok := sd.sanitizePath(name)
	if !ok {
		return fmt.Errorf("sd: invalid snapshot name %q", name)
	}

	data := make([]byte, SNA_FILE_SIZE)
	r := &m.Regs
	data[0] = r.I
	putWord(data, 1, r.HL_)
	putWord(data, 3, r.DE_)
	putWord(data, 5, r.BC_)
	putWord(data, 7, r.AF_)
	putWord(data, 9, r.HL)
	putWord(data, 11, r.DE)
	putWord(data, 13, r.BC)
	putWord(data, 15, r.IY)
	putWord(data, 17, r.IX)
	if r.IFF2 {
		data[19] = 0x04
	}
	data[20] = r.R
	putWord(data, 21, r.AF)
	putWord(data, 23, r.SP)
	data[25] = r.IM & 0x03
	data[26] = m.Border & 0x07
	copy(data[SNA_HEADER_SIZE:], m.RAM[:])

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("sd: writing %s: %w", name, err)
	}
	return nil
}

func word(b []byte, i int) uint16 {
	return uint16(b[i]) | uint16(b[i+1])<<8
}

func putWord(b []byte, i int, v uint16) {
	b[i] = byte(v)
	b[i+1] = byte(v >> 8)
}
