// keyboard_ps2_test.go - scancode decoder and translation tests

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

package main

import "testing"

func feedAll(d *PS2Decoder, bytes []byte) (KeyEvent, int) {
	events := 0
	var last KeyEvent
	for _, b := range bytes {
		if ev, ok := d.Feed(b); ok {
			last = ev
			events++
		}
	}
	return last, events
}

func TestDecodeSimpleMakeBreak(t *testing.T) {
	var d PS2Decoder
	ev, n := feedAll(&d, MakeCodes(KEY_A))
	if n != 1 || ev.Key != KEY_A || !ev.Pressed {
		t.Errorf("Expected A press, got %+v (%d events)", ev, n)
	}
	ev, n = feedAll(&d, BreakCodes(KEY_A))
	if n != 1 || ev.Key != KEY_A || ev.Pressed {
		t.Errorf("Expected A release, got %+v (%d events)", ev, n)
	}
}

func TestDecodeExtendedKeys(t *testing.T) {
	var d PS2Decoder
	ev, n := feedAll(&d, []byte{0xE0, 0x75})
	if n != 1 || ev.Key != KEY_UP || !ev.Pressed {
		t.Errorf("Expected UP press, got %+v (%d events)", ev, n)
	}
	ev, n = feedAll(&d, []byte{0xE0, 0xF0, 0x75})
	if n != 1 || ev.Key != KEY_UP || ev.Pressed {
		t.Errorf("Expected UP release, got %+v (%d events)", ev, n)
	}
}

func TestDecodePrefixStateResets(t *testing.T) {
	var d PS2Decoder
	feedAll(&d, []byte{0xE0, 0xF0, 0x71}) // extended break
	// next plain key must not inherit prefixes
	ev, n := feedAll(&d, []byte{0x1C})
	if n != 1 || ev.Key != KEY_A || !ev.Pressed {
		t.Errorf("Expected clean A press after prefixed sequence, got %+v", ev)
	}
}

func TestRoundTripAllKeys(t *testing.T) {
	keys := []Key{KEY_A, KEY_Z, KEY_0, KEY_9, KEY_SPACE, KEY_ENTER, KEY_ESC,
		KEY_F1, KEY_F12, KEY_LSHIFT, KEY_UP, KEY_DELETE, KEY_RCTRL}
	var d PS2Decoder
	for _, key := range keys {
		ev, n := feedAll(&d, MakeCodes(key))
		if n != 1 || ev.Key != key || !ev.Pressed {
			t.Errorf("Key %04X: make round trip failed, got %+v", key, ev)
		}
		ev, n = feedAll(&d, BreakCodes(key))
		if n != 1 || ev.Key != key || ev.Pressed {
			t.Errorf("Key %04X: break round trip failed, got %+v", key, ev)
		}
	}
}

func TestTranslateShift(t *testing.T) {
	var ks KeyboardState
	if b, ok := ks.Translate(KeyEvent{Key: KEY_A, Pressed: true}); !ok || b != 'a' {
		t.Errorf("Expected 'a', got %q (%v)", b, ok)
	}
	ks.Translate(KeyEvent{Key: KEY_LSHIFT, Pressed: true})
	if b, ok := ks.Translate(KeyEvent{Key: KEY_A, Pressed: true}); !ok || b != 'A' {
		t.Errorf("Expected 'A' with shift, got %q (%v)", b, ok)
	}
	if b, ok := ks.Translate(KeyEvent{Key: KEY_2, Pressed: true}); !ok || b != '@' {
		t.Errorf("Expected '@' with shift, got %q (%v)", b, ok)
	}
	ks.Translate(KeyEvent{Key: KEY_LSHIFT, Pressed: false})
	if b, ok := ks.Translate(KeyEvent{Key: KEY_2, Pressed: true}); !ok || b != '2' {
		t.Errorf("Expected '2' unshifted, got %q (%v)", b, ok)
	}
}

func TestTranslateCapsLock(t *testing.T) {
	var ks KeyboardState
	ks.Translate(KeyEvent{Key: KEY_CAPS, Pressed: true})
	ks.Translate(KeyEvent{Key: KEY_CAPS, Pressed: false})
	if b, _ := ks.Translate(KeyEvent{Key: KEY_A, Pressed: true}); b != 'A' {
		t.Errorf("Expected caps lock 'A', got %q", b)
	}
	// caps does not shift digits
	if b, _ := ks.Translate(KeyEvent{Key: KEY_3, Pressed: true}); b != '3' {
		t.Errorf("Expected '3' under caps lock, got %q", b)
	}
	// shift inverts caps for letters
	ks.Translate(KeyEvent{Key: KEY_LSHIFT, Pressed: true})
	if b, _ := ks.Translate(KeyEvent{Key: KEY_A, Pressed: true}); b != 'a' {
		t.Errorf("Expected shift+caps 'a', got %q", b)
	}
}

func TestTranslateIgnoresReleases(t *testing.T) {
	var ks KeyboardState
	if _, ok := ks.Translate(KeyEvent{Key: KEY_A, Pressed: false}); ok {
		t.Error("Expected release to produce no character")
	}
	if _, ok := ks.Translate(KeyEvent{Key: KEY_F5, Pressed: true}); ok {
		t.Error("Expected function key to produce no character")
	}
}
