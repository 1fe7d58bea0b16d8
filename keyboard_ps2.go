// keyboard_ps2.go - PS/2 set-2 scancode decoder and key state

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
keyboard_ps2.go - PS/2 Keyboard

Signal Flow:
  host key events -> MakeCodes/BreakCodes -> byte stream
  byte stream -> PS2Decoder.Feed -> KeyEvent -> KeyboardState -> ASCII

The decoder is a three-state machine over the set-2 protocol: 0xE0 marks an
extended key, 0xF0 marks a release, and the prefixes may compose (E0 F0 xx).
Unknown codes still produce events; translation just fails for them.

On the real board these bytes arrive from the keyboard's clock/data lines;
here the window backend synthesizes the same stream from host key events so
the firmware's input path is identical either way.
*/

package main

// Key identifies a physical key. Plain keys carry their set-2 make code;
// extended keys carry it under the KEY_EXTENDED bit.
type Key uint16

const KEY_EXTENDED Key = 0xE000

const (
	KEY_NONE Key = 0

	KEY_A Key = 0x1C
	KEY_B Key = 0x32
	KEY_C Key = 0x21
	KEY_D Key = 0x23
	KEY_E Key = 0x24
	KEY_F Key = 0x2B
	KEY_G Key = 0x34
	KEY_H Key = 0x33
	KEY_I Key = 0x43
	KEY_J Key = 0x3B
	KEY_K Key = 0x42
	KEY_L Key = 0x4B
	KEY_M Key = 0x3A
	KEY_N Key = 0x31
	KEY_O Key = 0x44
	KEY_P Key = 0x4D
	KEY_Q Key = 0x15
	KEY_R Key = 0x2D
	KEY_S Key = 0x1B
	KEY_T Key = 0x2C
	KEY_U Key = 0x3C
	KEY_V Key = 0x2A
	KEY_W Key = 0x1D
	KEY_X Key = 0x22
	KEY_Y Key = 0x35
	KEY_Z Key = 0x1A

	KEY_0 Key = 0x45
	KEY_1 Key = 0x16
	KEY_2 Key = 0x1E
	KEY_3 Key = 0x26
	KEY_4 Key = 0x25
	KEY_5 Key = 0x2E
	KEY_6 Key = 0x36
	KEY_7 Key = 0x3D
	KEY_8 Key = 0x3E
	KEY_9 Key = 0x46

	KEY_BACKQUOTE  Key = 0x0E
	KEY_MINUS      Key = 0x4E
	KEY_EQUALS     Key = 0x55
	KEY_BACKSLASH  Key = 0x5D
	KEY_BACKSPACE  Key = 0x66
	KEY_SPACE      Key = 0x29
	KEY_TAB        Key = 0x0D
	KEY_CAPS       Key = 0x58
	KEY_LSHIFT     Key = 0x12
	KEY_LCTRL      Key = 0x14
	KEY_LALT       Key = 0x11
	KEY_RSHIFT     Key = 0x59
	KEY_ENTER      Key = 0x5A
	KEY_ESC        Key = 0x76
	KEY_LBRACKET   Key = 0x54
	KEY_RBRACKET   Key = 0x5B
	KEY_SEMICOLON  Key = 0x4C
	KEY_APOSTROPHE Key = 0x52
	KEY_COMMA      Key = 0x41
	KEY_PERIOD     Key = 0x49
	KEY_SLASH      Key = 0x4A

	KEY_F1  Key = 0x05
	KEY_F2  Key = 0x06
	KEY_F3  Key = 0x04
	KEY_F4  Key = 0x0C
	KEY_F5  Key = 0x03
	KEY_F6  Key = 0x0B
	KEY_F7  Key = 0x83
	KEY_F8  Key = 0x0A
	KEY_F9  Key = 0x01
	KEY_F10 Key = 0x09
	KEY_F11 Key = 0x78
	KEY_F12 Key = 0x07

	KEY_UP     Key = KEY_EXTENDED | 0x75
	KEY_DOWN   Key = KEY_EXTENDED | 0x72
	KEY_LEFT   Key = KEY_EXTENDED | 0x6B
	KEY_RIGHT  Key = KEY_EXTENDED | 0x74
	KEY_DELETE Key = KEY_EXTENDED | 0x71
	KEY_RCTRL  Key = KEY_EXTENDED | 0x14
	KEY_RALT   Key = KEY_EXTENDED | 0x11
)

// KeyEvent is one decoded make or break.
type KeyEvent struct {
	Key     Key
	Pressed bool
}

// PS2Decoder reassembles KeyEvents from the set-2 byte stream.
type PS2Decoder struct {
	extended bool
	breaking bool
}

// Feed consumes one byte. The second return is false while a multi-byte
// sequence is still in flight.
func (d *PS2Decoder) Feed(b byte) (KeyEvent, bool) {
	switch b {
	case 0xE0:
		d.extended = true
		return KeyEvent{}, false
	case 0xF0:
		d.breaking = true
		return KeyEvent{}, false
	}
	key := Key(b)
	if d.extended {
		key |= KEY_EXTENDED
	}
	ev := KeyEvent{Key: key, Pressed: !d.breaking}
	d.extended = false
	d.breaking = false
	return ev, true
}

// MakeCodes returns the byte sequence a keyboard sends when key goes down.
func MakeCodes(key Key) []byte {
	if key&KEY_EXTENDED != 0 {
		return []byte{0xE0, byte(key)}
	}
	return []byte{byte(key)}
}

// BreakCodes returns the byte sequence for the key release.
func BreakCodes(key Key) []byte {
	if key&KEY_EXTENDED != 0 {
		return []byte{0xE0, 0xF0, byte(key)}
	}
	return []byte{0xF0, byte(key)}
}

// KeyboardState tracks modifiers and turns key events into ASCII.
type KeyboardState struct {
	shift bool
	ctrl  bool
	caps  bool
}

// Shift reports whether either shift key is held.
func (k *KeyboardState) Shift() bool { return k.shift }

// Ctrl reports whether either control key is held.
func (k *KeyboardState) Ctrl() bool { return k.ctrl }

var keyASCII = map[Key][2]byte{
	KEY_A: {'a', 'A'}, KEY_B: {'b', 'B'}, KEY_C: {'c', 'C'}, KEY_D: {'d', 'D'},
	KEY_E: {'e', 'E'}, KEY_F: {'f', 'F'}, KEY_G: {'g', 'G'}, KEY_H: {'h', 'H'},
	KEY_I: {'i', 'I'}, KEY_J: {'j', 'J'}, KEY_K: {'k', 'K'}, KEY_L: {'l', 'L'},
	KEY_M: {'m', 'M'}, KEY_N: {'n', 'N'}, KEY_O: {'o', 'O'}, KEY_P: {'p', 'P'},
	KEY_Q: {'q', 'Q'}, KEY_R: {'r', 'R'}, KEY_S: {'s', 'S'}, KEY_T: {'t', 'T'},
	KEY_U: {'u', 'U'}, KEY_V: {'v', 'V'}, KEY_W: {'w', 'W'}, KEY_X: {'x', 'X'},
	KEY_Y: {'y', 'Y'}, KEY_Z: {'z', 'Z'},

	KEY_0: {'0', ')'}, KEY_1: {'1', '!'}, KEY_2: {'2', '@'}, KEY_3: {'3', '#'},
	KEY_4: {'4', '$'}, KEY_5: {'5', '%'}, KEY_6: {'6', '^'}, KEY_7: {'7', '&'},
	KEY_8: {'8', '*'}, KEY_9: {'9', '('},

	KEY_BACKQUOTE: {'`', '~'}, KEY_MINUS: {'-', '_'}, KEY_EQUALS: {'=', '+'},
	KEY_BACKSLASH: {'\\', '|'}, KEY_LBRACKET: {'[', '{'}, KEY_RBRACKET: {']', '}'},
	KEY_SEMICOLON: {';', ':'}, KEY_APOSTROPHE: {'\'', '"'}, KEY_COMMA: {',', '<'},
	KEY_PERIOD: {'.', '>'}, KEY_SLASH: {'/', '?'},

	KEY_SPACE: {' ', ' '}, KEY_ENTER: {'\n', '\n'}, KEY_TAB: {'\t', '\t'},
	KEY_BACKSPACE: {8, 8}, KEY_ESC: {27, 27},
}

// Translate updates modifier state and returns the ASCII byte for a key
// press. Releases and non-printing keys return ok == false.
func (k *KeyboardState) Translate(ev KeyEvent) (byte, bool) {
	switch ev.Key {
	case KEY_LSHIFT, KEY_RSHIFT:
		k.shift = ev.Pressed
		return 0, false
	case KEY_LCTRL, KEY_RCTRL:
		k.ctrl = ev.Pressed
		return 0, false
	case KEY_CAPS:
		if ev.Pressed {
			k.caps = !k.caps
		}
		return 0, false
	}
	if !ev.Pressed {
		return 0, false
	}
	pair, ok := keyASCII[ev.Key]
	if !ok {
		return 0, false
	}
	upper := k.shift
	if pair[0] >= 'a' && pair[0] <= 'z' {
		// caps lock affects letters only
		upper = k.shift != k.caps
	}
	if upper {
		return pair[1], true
	}
	return pair[0], true
}
