// firmware_test.go - firmware key dispatch tests

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

package main

import (
	"strings"
	"testing"
)

func pressKey(fw *Firmware, key Key) {
	for _, b := range MakeCodes(key) {
		fw.HandleScancode(b)
	}
	for _, b := range BreakCodes(key) {
		fw.HandleScancode(b)
	}
}

func consoleText(fw *Firmware) string {
	var sb strings.Builder
	for y := 0; y < fw.Console().Rows(); y++ {
		sb.WriteString(rowText(fw.Console(), y))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestBannerOnStartup(t *testing.T) {
	fw, _ := testFirmware(t)
	if !strings.Contains(consoleText(fw), "STM32F407 ZX Spectrum") {
		t.Error("Expected startup banner on the console")
	}
}

func TestTypingEchoesToConsole(t *testing.T) {
	fw, _ := testFirmware(t)
	fw.Console().Clear()
	for _, key := range []Key{KEY_H, KEY_I} {
		pressKey(fw, key)
	}
	if got := rowText(fw.Console(), 0); !strings.HasPrefix(got, "hi") {
		t.Errorf("Expected typed text on console, got %q", got)
	}
}

func TestShiftedTypingThroughScancodes(t *testing.T) {
	fw, _ := testFirmware(t)
	fw.Console().Clear()
	for _, b := range MakeCodes(KEY_LSHIFT) {
		fw.HandleScancode(b)
	}
	pressKey(fw, KEY_A)
	for _, b := range BreakCodes(KEY_LSHIFT) {
		fw.HandleScancode(b)
	}
	pressKey(fw, KEY_A)
	if got := rowText(fw.Console(), 0); !strings.HasPrefix(got, "Aa") {
		t.Errorf("Expected \"Aa\", got %q", got)
	}
}

func TestHelpKey(t *testing.T) {
	fw, _ := testFirmware(t)
	fw.Console().Clear()
	pressKey(fw, KEY_F1)
	if !strings.Contains(consoleText(fw), "F2  save snapshot") {
		t.Error("Expected help text after F1")
	}
}

func TestRegisterDumpKey(t *testing.T) {
	fw, _ := testFirmware(t)
	fw.Machine().Regs.BC = 0xABCD
	fw.Console().Clear()
	pressKey(fw, KEY_F12)
	if !strings.Contains(consoleText(fw), "BC ABCD") {
		t.Error("Expected register dump after F12")
	}
}

func TestSaveKeyNamesSnapshotsSequentially(t *testing.T) {
	fw, _ := testFirmware(t)
	pressKey(fw, KEY_F2)
	pressKey(fw, KEY_F2)
	names, err := fw.sd.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 || names[0] != "autosave-1.sna" || names[1] != "autosave-2.sna" {
		t.Errorf("Expected sequential autosaves, got %v", names)
	}
}

func TestSnapshotPickFlow(t *testing.T) {
	fw, _ := testFirmware(t)
	fw.Machine().Regs.DE = 0x7777
	if err := fw.sd.SaveSNA("pick.sna", fw.Machine()); err != nil {
		t.Fatalf("SaveSNA failed: %v", err)
	}
	fw.Machine().Regs.DE = 0

	pressKey(fw, KEY_F3) // shows the listing
	if !strings.Contains(consoleText(fw), "pick.sna") {
		t.Fatal("Expected listing with pick.sna")
	}
	pressKey(fw, KEY_1) // select entry 1
	if fw.Machine().Regs.DE != 0x7777 {
		t.Errorf("Expected snapshot loaded, DE = %04X", fw.Machine().Regs.DE)
	}
	if fw.view != VIEW_SPECTRUM {
		t.Error("Expected Spectrum view after load")
	}
}

func TestPickCancelsWithEscape(t *testing.T) {
	fw, _ := testFirmware(t)
	if err := fw.sd.SaveSNA("x.sna", fw.Machine()); err != nil {
		t.Fatal(err)
	}
	pressKey(fw, KEY_F3)
	pressKey(fw, KEY_ESC)
	if fw.picking {
		t.Error("Expected pick cancelled")
	}
	if fw.view != VIEW_CONSOLE {
		t.Error("Expected to stay on the console view")
	}
}

func TestEscapeLeavesSpectrumView(t *testing.T) {
	fw, _ := testFirmware(t)
	if err := fw.sd.SaveSNA("v.sna", fw.Machine()); err != nil {
		t.Fatal(err)
	}
	fw.LoadSnapshot("v.sna")
	if fw.view != VIEW_SPECTRUM {
		t.Fatal("Expected Spectrum view after load")
	}
	pressKey(fw, KEY_ESC)
	if fw.view != VIEW_CONSOLE {
		t.Error("Expected console view after ESC")
	}
}

func TestTypingIgnoredInSpectrumView(t *testing.T) {
	fw, _ := testFirmware(t)
	if err := fw.sd.SaveSNA("s.sna", fw.Machine()); err != nil {
		t.Fatal(err)
	}
	fw.LoadSnapshot("s.sna")
	fw.Console().Clear()
	pressKey(fw, KEY_Q)
	if got := rowText(fw.Console(), 0); strings.HasPrefix(got, "q") {
		t.Error("Expected typing to be ignored while the Spectrum view is live")
	}
}

func TestBackspaceErasesLastCharacter(t *testing.T) {
	fw, _ := testFirmware(t)
	fw.Console().Clear()
	pressKey(fw, KEY_A)
	pressKey(fw, KEY_B)
	pressKey(fw, KEY_BACKSPACE)
	if got := rowText(fw.Console(), 0); !strings.HasPrefix(got, "a ") {
		t.Errorf("Expected backspace to erase, got %q", got)
	}
	x, _ := fw.Console().CursorPosition()
	if x != 1 {
		t.Errorf("Expected cursor back at column 1, got %d", x)
	}
}

func TestScancodeWiringThroughBackend(t *testing.T) {
	fw, output := testFirmware(t)
	output.SetScancodeHandler(fw.HandleScancode)
	fw.Console().Clear()
	for _, b := range MakeCodes(KEY_Z) {
		output.InjectScancode(b)
	}
	for _, b := range BreakCodes(KEY_Z) {
		output.InjectScancode(b)
	}
	if got := rowText(fw.Console(), 0); !strings.HasPrefix(got, "z") {
		t.Errorf("Expected 'z' typed through the backend, got %q", got)
	}
}

func TestResetKey(t *testing.T) {
	fw, _ := testFirmware(t)
	fw.Machine().Regs.HL = 0x4242
	pressKey(fw, KEY_F5)
	if fw.Machine().Regs.HL != 0 {
		t.Error("Expected machine reset after F5")
	}
	if !strings.Contains(consoleText(fw), "STM32F407 ZX Spectrum") {
		t.Error("Expected banner reprinted after reset")
	}
}

func TestFailedLoadReportsError(t *testing.T) {
	fw, _ := testFirmware(t)
	fw.LoadSnapshot("missing.sna")
	if fw.view != VIEW_CONSOLE {
		t.Error("Expected to stay on console after failed load")
	}
	if !strings.Contains(consoleText(fw), "load:") {
		t.Error("Expected error message on console")
	}
}

func TestMachineMutationDuringSpectrumRender(t *testing.T) {
	fw, _ := testFirmware(t)
	if err := fw.sd.SaveSNA("churn.sna", fw.Machine()); err != nil {
		t.Fatal(err)
	}
	fw.LoadSnapshot("churn.sna")
	if fw.view != VIEW_SPECTRUM {
		t.Fatal("Expected Spectrum view after load")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			fw.resetMachine()
			fw.LoadSnapshot("churn.sna")
		}
	}()
	for i := 0; i < 200; i++ {
		if err := fw.driver.RenderFrame(); err != nil {
			t.Errorf("RenderFrame failed: %v", err)
			break
		}
	}
	<-done

	fw.resetMachine()
	if got := fw.Registers().SP; got != 0xFFFF {
		t.Errorf("Expected SP FFFF after reset, got %04X", got)
	}
}
