// audio_beeper_test.go - square wave generation tests

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

package main

import "testing"

// readSamples drives the audio callback for n samples and returns the
// raw float32 bit patterns.
func readSamples(b *Beeper, n int) []uint32 {
	buf := make([]byte, n*4)
	b.Read(buf)
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(buf[i*4]) | uint32(buf[i*4+1])<<8 |
			uint32(buf[i*4+2])<<16 | uint32(buf[i*4+3])<<24
	}
	return out
}

func TestBeeperReadDrainsByConsumedSamples(t *testing.T) {
	b := &Beeper{}
	b.KeyClick()
	want := int64(CLICK_MS * BEEP_SAMPLE_RATE / 1000)
	if got := b.remaining.Load(); got != want {
		t.Fatalf("Expected %d samples queued, got %d", want, got)
	}

	samples := readSamples(b, 40)
	if samples[0] == 0 {
		t.Error("Expected nonzero signal while the tone plays")
	}
	if got := b.remaining.Load(); got != want-40 {
		t.Errorf("Expected %d samples left, got %d", want-40, got)
	}

	// A tone queued between callbacks keeps its fresh sample count.
	b.ErrorBeep()
	errWant := int64(ERROR_MS * BEEP_SAMPLE_RATE / 1000)
	readSamples(b, 40)
	if got := b.remaining.Load(); got != errWant-40 {
		t.Errorf("Expected %d samples left, got %d", errWant-40, got)
	}
}

func TestBeeperReadFloorsAtSilence(t *testing.T) {
	b := &Beeper{}
	b.KeyClick()
	b.remaining.Store(5)

	samples := readSamples(b, 40)
	if got := b.remaining.Load(); got != 0 {
		t.Errorf("Expected drained tone, got %d samples left", got)
	}
	for i := 5; i < len(samples); i++ {
		if samples[i] != 0 {
			t.Errorf("Expected silence at sample %d, got %08X", i, samples[i])
			break
		}
	}

	// Nothing queued: the callback must stay silent and nonnegative.
	readSamples(b, 40)
	if got := b.remaining.Load(); got < 0 {
		t.Errorf("Expected nonnegative sample count, got %d", got)
	}
}
