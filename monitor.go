// monitor.go - host-side monitor command interpreter

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
monitor.go - Monitor

A small command interpreter driven from the host terminal while the window
runs. Commands poke the firmware the way a debug UART would on the board:
printing to the console, moving the cursor, flipping attributes, and
driving the SD snapshot store.
*/

package main

import (
	"fmt"
	"strconv"
	"strings"
)

type Monitor struct {
	fw   *Firmware
	line []byte
}

func NewMonitor(fw *Firmware) *Monitor {
	return &Monitor{fw: fw}
}

// HandleByte assembles input into lines and executes them on '\n'. The
// returned text is echo plus any command response.
func (m *Monitor) HandleByte(b byte) string {
	switch b {
	case '\n':
		line := string(m.line)
		m.line = m.line[:0]
		return "\r\n" + m.Execute(line)
	case 0x08: // backspace
		if len(m.line) > 0 {
			m.line = m.line[:len(m.line)-1]
			return "\b \b"
		}
		return ""
	default:
		if b < 0x20 || b > 0x7E {
			return ""
		}
		m.line = append(m.line, b)
		return string(b)
	}
}

const monitorHelp = "commands:\r\n" +
	"  help                 this text\r\n" +
	"  regs                 Z80 register dump\r\n" +
	"  cls                  clear the console\r\n" +
	"  print <text>         print to the console\r\n" +
	"  at <x> <y> <text>    print at position\r\n" +
	"  attr <ink> <paper>   set console attribute\r\n" +
	"  border <0-7>         set console border\r\n" +
	"  ls                   list snapshots\r\n" +
	"  load <name>          load snapshot\r\n" +
	"  save <name>          save snapshot\r\n" +
	"  reset                reset the machine\r\n"

// Execute runs one command line and returns its response text, terminal
// newlines included.
func (m *Monitor) Execute(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		return monitorHelp

	case "regs":
		r := m.fw.Registers()
		return fmt.Sprintf("AF %04X BC %04X DE %04X HL %04X\r\n"+
			"IX %04X IY %04X PC %04X SP %04X\r\n",
			r.AF, r.BC, r.DE, r.HL, r.IX, r.IY, r.PC, r.SP)

	case "cls":
		m.fw.Console().Clear()
		return ""

	case "print":
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "print"))
		m.fw.Console().Print(rest + "\n")
		return ""

	case "at":
		if len(args) < 3 {
			return "usage: at <x> <y> <text>\r\n"
		}
		x, errX := strconv.Atoi(args[0])
		y, errY := strconv.Atoi(args[1])
		if errX != nil || errY != nil {
			return "usage: at <x> <y> <text>\r\n"
		}
		m.fw.Console().PrintAt(x, y, strings.Join(args[2:], " "))
		return ""

	case "attr":
		if len(args) != 2 {
			return "usage: attr <ink> <paper>\r\n"
		}
		ink, errI := strconv.Atoi(args[0])
		paper, errP := strconv.Atoi(args[1])
		if errI != nil || errP != nil || ink < 0 || ink > 7 || paper < 0 || paper > 7 {
			return "attr values are 0-7\r\n"
		}
		m.fw.Console().SetAttribute(MakeAttribute(uint8(ink), uint8(paper)))
		return ""

	case "border":
		if len(args) != 1 {
			return "usage: border <0-7>\r\n"
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 || n > 7 {
			return "border values are 0-7\r\n"
		}
		m.fw.Console().SetBorder(uint8(n))
		return ""

	case "ls":
		names, err := m.fw.sd.List()
		if err != nil {
			return fmt.Sprintf("ls: %v\r\n", err)
		}
		if len(names) == 0 {
			return "no snapshots\r\n"
		}
		var sb strings.Builder
		for _, name := range names {
			sb.WriteString(name)
			sb.WriteString("\r\n")
		}
		return sb.String()

	case "load":
		if len(args) != 1 {
			return "usage: load <name>\r\n"
		}
		m.fw.LoadSnapshot(args[0])
		return ""

	case "save":
		if len(args) != 1 {
			return "usage: save <name>\r\n"
		}
		err := m.fw.withMachine(func(st *MachineState) error {
			return m.fw.sd.SaveSNA(args[0], st)
		})
		if err != nil {
			return fmt.Sprintf("save: %v\r\n", err)
		}
		return "saved\r\n"

	case "reset":
		m.fw.resetMachine()
		return ""
	}
	return "unknown command, try help\r\n"
}
