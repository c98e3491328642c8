/*
   Keyboard: interactive input device variant.

   Copyright 2025

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
*/

package device

import (
	"sync"

	"github.com/vacuumtube/litton1600/internal/charset"
	"github.com/vacuumtube/litton1600/internal/word"
)

// Keyboard is an input-only device fed by PushText from the console
// front end (the interactive command loop or a scripted input file).
// Bytes queue until the engine polls Input; this mirrors the hardware
// keyboard's one-character-ahead buffering rather than modelling a
// byte stream.
type Keyboard struct {
	id      uint8
	charset charset.Charset

	mu    sync.Mutex
	queue []uint8
}

// NewKeyboard creates a keyboard with the given select code and
// charset.
func NewKeyboard(id uint8, cs charset.Charset) *Keyboard {
	return &Keyboard{id: id, charset: cs}
}

func (k *Keyboard) ID() uint8            { return k.id }
func (k *Keyboard) SupportsInput() bool  { return true }
func (k *Keyboard) SupportsOutput() bool { return false }
func (k *Keyboard) Select()              {}
func (k *Keyboard) Deselect()            {}
func (k *Keyboard) IsBusy() bool         { return false }
func (k *Keyboard) Close()               {}

func (k *Keyboard) Output(uint8, word.Parity) {}
func (k *Keyboard) Status() (uint8, bool)     { return 0, false }

// PushText encodes s through the keyboard's charset and queues the
// resulting device codes for Input to drain.
func (k *Keyboard) PushText(s string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for pos := 0; pos < len(s); {
		code, ok := charset.ToDevice(s, &pos, k.charset)
		if !ok {
			pos++
			continue
		}
		k.queue = append(k.queue, code)
	}
}

// Input returns the next queued device code and applies the
// requested parity, or ok=false if nothing has been typed yet.
func (k *Keyboard) Input(parity word.Parity) (value uint8, ok bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.queue) == 0 {
		return 0, false
	}
	value = k.queue[0]
	k.queue = k.queue[1:]
	return word.AddParity(value, parity), true
}

// Clear discards any buffered, not-yet-read input. Called whenever the
// machine halts: a halted engine can no longer drain the queue, and
// stale keystrokes shouldn't reappear the next time it runs.
func (k *Keyboard) Clear() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.queue = k.queue[:0]
}
