/*
   Device: Litton 1600 peripheral fabric.

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

// Package device models the Litton 1600's serial device fabric: an
// ordered collection of devices, each addressed by an 8-bit select
// code split into a 4-bit group mask and a 4-bit member mask. A
// select instruction can address several devices at once (any device
// whose id bits are a subset of the select code), and output/input
// broadcast to every currently selected device in registration order.
package device

import "github.com/vacuumtube/litton1600/internal/word"

// Standard device select codes.
const (
	PrinterID  uint8 = 0x41
	Punch      uint8 = 0x42
	KeyboardID uint8 = 0x48
	Reader     uint8 = 0x50
)

// Device is the interface every peripheral implements. Select and
// Deselect are edge-triggered: they fire once when a device's
// selected state changes, not on every instruction while it stays
// selected.
type Device interface {
	// ID returns this device's select code.
	ID() uint8

	// SupportsInput and SupportsOutput report which directions this
	// device participates in; a device need implement only the
	// methods its direction uses; the other direction's methods are
	// never called.
	SupportsInput() bool
	SupportsOutput() bool

	Select()
	Deselect()

	// IsBusy reports whether the device's output side is still
	// working through a previous byte.
	IsBusy() bool

	// Output delivers a parity-encoded byte. Only called when IsBusy
	// is false.
	Output(value uint8, parity word.Parity)

	// Input attempts to produce the next byte. ok is false when no
	// byte is ready yet.
	Input(parity word.Parity) (value uint8, ok bool)

	// Status attempts to produce a status byte. ok is false when no
	// status is ready yet.
	Status() (value uint8, ok bool)

	Close()
}

// Fabric is the ordered, bounded collection of devices attached to a
// machine. Devices are visited in registration order for every
// broadcast operation, matching the original's singly-linked device
// list.
type Fabric struct {
	devices  []Device
	selected []bool
}

// NewFabric returns an empty device fabric.
func NewFabric() *Fabric {
	return &Fabric{}
}

// Add registers a device. Order of registration determines broadcast
// order for Output, Input, and Status.
func (f *Fabric) Add(d Device) {
	f.devices = append(f.devices, d)
	f.selected = append(f.selected, false)
}

// Devices returns the registered devices in registration order.
func (f *Fabric) Devices() []Device {
	return f.devices
}

func matches(id uint8, selectCode uint8) bool {
	return id != 0 && selectCode&id == id
}

// Select updates which devices are selected for selectCode: any
// device whose id bits are a subset of selectCode becomes selected
// (if not already); every other device that was selected is
// deselected.
func (f *Fabric) Select(selectCode uint8) {
	for i, d := range f.devices {
		if matches(d.ID(), selectCode) {
			if !f.selected[i] {
				d.Select()
				f.selected[i] = true
			}
		} else if f.selected[i] {
			d.Deselect()
			f.selected[i] = false
		}
	}
}

// IsOutputBusy reports whether any selected output-capable device is
// still busy with a prior byte.
func (f *Fabric) IsOutputBusy() bool {
	for i, d := range f.devices {
		if f.selected[i] && d.SupportsOutput() && d.IsBusy() {
			return true
		}
	}
	return false
}

// Output broadcasts value to every selected output-capable device
// that isn't busy.
func (f *Fabric) Output(value uint8, parity word.Parity) {
	for i, d := range f.devices {
		if f.selected[i] && d.SupportsOutput() && !d.IsBusy() {
			d.Output(value, parity)
		}
	}
}

// Input polls every selected input-capable device in order and
// returns the first byte offered.
func (f *Fabric) Input(parity word.Parity) (value uint8, ok bool) {
	for i, d := range f.devices {
		if f.selected[i] && d.SupportsInput() {
			if v, got := d.Input(parity); got {
				return v, true
			}
		}
	}
	return 0, false
}

// Status polls every selected input-capable device in order and
// returns the first status byte offered.
func (f *Fabric) Status() (value uint8, ok bool) {
	for i, d := range f.devices {
		if f.selected[i] && d.SupportsInput() {
			if v, got := d.Status(); got {
				return v, true
			}
		}
	}
	return 0, false
}

// Close shuts down every registered device.
func (f *Fabric) Close() {
	for _, d := range f.devices {
		d.Close()
	}
}

// Clearable is implemented by devices that buffer not-yet-read input
// ahead of the engine (the keyboard). It is optional: most devices
// don't need it.
type Clearable interface {
	Clear()
}

// ClearInputBuffers discards buffered input on every registered device
// that implements Clearable, regardless of selection state.
func (f *Fabric) ClearInputBuffers() {
	for _, d := range f.devices {
		if c, ok := d.(Clearable); ok {
			c.Clear()
		}
	}
}

// IsValidID reports whether id names a legal device select code:
// at least one of the two group bits (6, 7) must be set, and at
// least one of the six member bits (0-5) must be set.
func IsValidID(id uint8) bool {
	if id&0xC0 == 0 {
		return false
	}
	if id&0x3F == 0 {
		return false
	}
	return true
}
