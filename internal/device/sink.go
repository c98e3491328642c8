/*
   Sink: a no-op device used by tests and as a safe default target.

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

import "github.com/vacuumtube/litton1600/internal/word"

// Sink accepts output and reports no input, ever. Useful in tests
// that need a device present without caring what happens to its
// bytes.
type Sink struct {
	id  uint8
	in  bool
	out bool
}

// NewSink creates a sink with the given select code and direction
// flags.
func NewSink(id uint8, supportsInput, supportsOutput bool) *Sink {
	return &Sink{id: id, in: supportsInput, out: supportsOutput}
}

func (s *Sink) ID() uint8                         { return s.id }
func (s *Sink) SupportsInput() bool               { return s.in }
func (s *Sink) SupportsOutput() bool              { return s.out }
func (s *Sink) Select()                           {}
func (s *Sink) Deselect()                         {}
func (s *Sink) IsBusy() bool                      { return false }
func (s *Sink) Close()                             {}
func (s *Sink) Output(uint8, word.Parity)          {}
func (s *Sink) Input(word.Parity) (uint8, bool)    { return 0, false }
func (s *Sink) Status() (uint8, bool)              { return 0, false }
