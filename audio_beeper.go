// audio_beeper.go - key click and error beep output

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
audio_beeper.go - Beeper

The board drives a piezo from a timer pin; here a square wave is generated
into an oto player instead. Two sounds only: a short key click and a longer
error beep. The Read hot path is lock-free: the remaining sample count is
an atomic the control methods store into and the audio goroutine drains.

A nil *Beeper is valid and silent, so callers never branch on whether
audio came up.
*/

package main

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	BEEP_SAMPLE_RATE = 44100
	CLICK_FREQ       = 2000 // Hz
	CLICK_MS         = 2
	ERROR_FREQ       = 440 // Hz
	ERROR_MS         = 150
	BEEP_AMPLITUDE   = 0.25
)

type Beeper struct {
	ctx    *oto.Context
	player *oto.Player
	mutex  sync.Mutex

	remaining atomic.Int64 // samples of tone left to play
	halfWave  atomic.Int64 // samples per half period of the current tone
	phase     int64
}

// NewBeeper opens the audio device. A nil Beeper (with error) is returned
// when no device is available; callers may keep and use it.
func NewBeeper() (*Beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   BEEP_SAMPLE_RATE,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	b := &Beeper{ctx: ctx}
	b.player = ctx.NewPlayer(b)
	b.player.Play()
	return b, nil
}

// Read generates the square wave. Called by oto's audio goroutine.
func (b *Beeper) Read(p []byte) (int, error) {
	numSamples := len(p) / 4
	budget := b.remaining.Load()
	halfWave := b.halfWave.Load()

	var consumed int64
	for i := 0; i < numSamples; i++ {
		var s float32
		if consumed < budget && halfWave > 0 {
			if (b.phase/halfWave)&1 == 0 {
				s = BEEP_AMPLITUDE
			} else {
				s = -BEEP_AMPLITUDE
			}
			b.phase++
			consumed++
		}
		bits := math.Float32bits(s)
		p[i*4] = byte(bits)
		p[i*4+1] = byte(bits >> 8)
		p[i*4+2] = byte(bits >> 16)
		p[i*4+3] = byte(bits >> 24)
	}
	// Subtract rather than store so a tone issued mid-callback keeps its
	// fresh sample count instead of being clobbered.
	if n := b.remaining.Add(-consumed); n < 0 {
		b.remaining.CompareAndSwap(n, 0)
	}
	return numSamples * 4, nil
}

func (b *Beeper) tone(freq int, duration time.Duration) {
	if b == nil {
		return
	}
	b.halfWave.Store(int64(BEEP_SAMPLE_RATE / (2 * freq)))
	b.remaining.Store(int64(duration.Milliseconds()) * BEEP_SAMPLE_RATE / 1000)
}

// KeyClick plays the short keystroke click.
func (b *Beeper) KeyClick() {
	b.tone(CLICK_FREQ, CLICK_MS*time.Millisecond)
}

// ErrorBeep plays the longer error tone.
func (b *Beeper) ErrorBeep() {
	b.tone(ERROR_FREQ, ERROR_MS*time.Millisecond)
}

// Enabled reports whether an audio device was opened.
func (b *Beeper) Enabled() bool { return b != nil }

// Close stops playback and releases the device.
func (b *Beeper) Close() {
	if b == nil {
		return
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.player != nil {
		b.player.Close()
		b.player = nil
	}
}

