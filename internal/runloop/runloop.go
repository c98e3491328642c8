/*
   Runloop: the real-time-paced instruction loop.

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

// Package runloop drives a machine.Machine at wall-clock speed on its
// own goroutine: one mutex guards the machine for the duration of a
// single Step, released between steps so a UI goroutine (the
// interactive console, or a future front-panel renderer) can read
// lamps and mutate registers via button presses without the run loop
// ever blocking inside a step.
package runloop

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vacuumtube/litton1600/internal/machine"
)

// wordTimeNanos is the wall-clock duration of one word time, derived
// from the roughly 1-microsecond bit time the timing model assumes:
// 40 bits per word time.
const wordTimeNanos = 40 * time.Microsecond

// Loop paces a Machine's Step calls against wall-clock time and
// exposes cooperative start/stop control to a UI goroutine.
type Loop struct {
	mu sync.Mutex
	m  *machine.Machine

	running    bool
	quit       chan struct{}
	done       chan struct{}
	checkCyc   uint64
	checkAt    time.Time
	LastResult machine.StepResult

	// Fast skips real-time pacing entirely: the loop steps as fast as
	// the host allows, only yielding to quit checks between steps.
	Fast bool

	Logger *slog.Logger

	// OnStep, when set, is called after every executed step (useful
	// for a UI goroutine that wants a tick without polling lamps).
	OnStep func(machine.StepResult)
}

// New creates a Loop over m.
func New(m *machine.Machine) *Loop {
	return &Loop{m: m, Logger: slog.Default()}
}

// Lock acquires the loop's mutex so a caller (button press, register
// poke, drum load) can safely touch the wrapped machine between
// steps. Callers must call Unlock.
func (l *Loop) Lock()   { l.mu.Lock() }
func (l *Loop) Unlock() { l.mu.Unlock() }

// Machine returns the wrapped machine. Callers outside the run
// loop's own goroutine must hold Lock/Unlock around any access.
func (l *Loop) Machine() *machine.Machine {
	return l.m
}

// Start runs the loop on its own goroutine until Stop is called. It
// is a no-op if the loop is already running.
func (l *Loop) Start() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.quit = make(chan struct{})
	l.done = make(chan struct{})
	l.checkCyc = l.m.CycleCounter
	l.checkAt = time.Now()
	quit := l.quit
	done := l.done
	l.mu.Unlock()

	go l.run(quit, done)
}

// Stop signals the run goroutine to exit and waits (briefly) for it
// to do so.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	quit, done := l.quit, l.done
	l.running = false
	l.mu.Unlock()

	close(quit)
	select {
	case <-done:
	case <-time.After(time.Second):
		l.Logger.Warn("litton: run loop did not stop promptly")
	}
}

// Wait blocks until the run goroutine exits, either because the
// machine reached a terminal state (halt, illegal instruction,
// spinning) or Stop was called, and returns the terminal StepResult
// (StepOK if Stop ended it first).
func (l *Loop) Wait() machine.StepResult {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done != nil {
		<-done
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.LastResult
}

func (l *Loop) run(quit, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-quit:
			return
		default:
		}

		l.mu.Lock()
		result := l.m.Step()
		cyc := l.m.CycleCounter
		skipSleep := false
		if l.m.AccelerationCounter > 0 {
			l.m.AccelerationCounter--
			skipSleep = true
		}
		if l.OnStep != nil {
			l.OnStep(result)
		}
		l.mu.Unlock()

		switch result {
		case machine.StepHalt:
			l.mu.Lock()
			l.m.Devices.ClearInputBuffers()
			l.running = false
			l.LastResult = result
			l.mu.Unlock()
			l.Logger.Info("litton: halted", "code", l.m.HaltCode)
			return
		case machine.StepIllegal:
			l.mu.Lock()
			l.running = false
			l.LastResult = result
			l.mu.Unlock()
			l.Logger.Warn("litton: illegal instruction", "PC", fmt.Sprintf("%03X", uint16(l.m.PC)), "CR", fmt.Sprintf("%02X", l.m.CR))
			return
		case machine.StepSpinning:
			l.mu.Lock()
			l.running = false
			l.LastResult = result
			l.mu.Unlock()
			l.Logger.Warn("litton: spinning, no taken jump in a full drum's worth of instructions", "PC", fmt.Sprintf("%03X", uint16(l.m.PC)))
			return
		}

		if skipSleep || l.Fast {
			l.resync(cyc)
			continue
		}
		l.pace(cyc)
	}
}

// resync advances the pacing checkpoint to the current instant without
// sleeping, used while AccelerationCounter is draining (e.g. right
// after the UI pastes a burst of keyboard input) so the loop catches
// up immediately instead of throttling to real time.
func (l *Loop) resync(cyc uint64) {
	l.checkCyc = cyc
	l.checkAt = time.Now()
}

// pace sleeps until wall-clock time has caught up to cyc cycles (bit
// times) since the last checkpoint, then resynchronizes the checkpoint. If
// wall-clock time has already passed the deadline (the host fell
// behind, e.g. after a debugger pause), the checkpoint is
// resynchronized to now instead of accumulating lag.
func (l *Loop) pace(cyc uint64) {
	elapsedCycles := cyc - l.checkCyc
	deadline := l.checkAt.Add(time.Duration(elapsedCycles) * wordTimeNanos / 40)
	now := time.Now()
	if now.Before(deadline) {
		time.Sleep(deadline.Sub(now))
		l.checkCyc = cyc
		l.checkAt = deadline
		return
	}
	l.checkCyc = cyc
	l.checkAt = now
}
