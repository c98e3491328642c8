/*
   Litton 1600 emulator CLI.

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

// Command litton runs the Litton 1600 core emulator against a drum
// image: either straight through to a halt/illegal/spinning terminal
// state, or under an interactive front-panel console.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	getopt "github.com/pborman/getopt/v2"
	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/vacuumtube/litton1600/internal/charset"
	"github.com/vacuumtube/litton1600/internal/device"
	"github.com/vacuumtube/litton1600/internal/image"
	"github.com/vacuumtube/litton1600/internal/logging"
	"github.com/vacuumtube/litton1600/internal/machine"
	"github.com/vacuumtube/litton1600/internal/panel"
	"github.com/vacuumtube/litton1600/internal/runloop"
	"github.com/vacuumtube/litton1600/internal/word"
)

func main() {
	os.Exit(run())
}

func run() int {
	optFast := getopt.BoolLong("fast", 'f', "Skip real-time pacing")
	optEntry := getopt.StringLong("entry", 'e', "", "Entry point, hex")
	optSize := getopt.IntLong("size", 's', 0, "Drum size, decimal words")
	optVerbose := getopt.BoolLong("verbose", 'v', "Trace every instruction")
	optInteractive := getopt.BoolLong("interactive", 'i', "Front-panel console")
	optReader := getopt.StringLong("reader", 'r', "", "Tape file for the reader device")
	optPunch := getopt.StringLong("punch", 'p', "", "Tape file for the punch device")
	optLog := getopt.StringLong("log", 'l', "", "Log file")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		return 0
	}

	args := getopt.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: litton [options] <drum-image>")
		return 1
	}

	logger, closeLog, err := newLogger(*optLog, *optVerbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "litton:", err)
		return 1
	}
	defer closeLog()
	slog.SetDefault(logger)

	m := machine.New(*optSize)
	if *optVerbose {
		m.Trace = func(line string) { fmt.Println(line) }
	}

	if err := loadImage(args[0], m, logger); err != nil {
		fmt.Fprintln(os.Stderr, "litton:", err)
		return 1
	}

	if *optEntry != "" {
		entry, err := strconv.ParseUint(*optEntry, 16, 12)
		if err != nil {
			fmt.Fprintln(os.Stderr, "litton: bad entry point:", *optEntry)
			return 1
		}
		m.SetEntryPoint(word.Loc(entry))
	}

	keyboard := device.NewKeyboard(m.KeyboardID, m.KeyboardCharset)
	m.Devices.Add(device.NewPrinter(m.PrinterID, m.PrinterCharset, os.Stdout))
	m.Devices.Add(keyboard)
	defer m.Devices.Close()

	if *optReader != "" {
		f, err := os.Open(*optReader)
		if err != nil {
			fmt.Fprintln(os.Stderr, "litton:", err)
			return 1
		}
		reader, err := device.NewTapeReader(device.Reader, charset.EBS1231, f)
		f.Close()
		if err != nil {
			fmt.Fprintln(os.Stderr, "litton:", err)
			return 1
		}
		m.Devices.Add(reader)
	}
	if *optPunch != "" {
		f, err := os.Create(*optPunch)
		if err != nil {
			fmt.Fprintln(os.Stderr, "litton:", err)
			return 1
		}
		defer f.Close()
		m.Devices.Add(device.NewTapePunch(device.Punch, charset.EBS1231, f))
	}

	m.Reset()

	loop := runloop.New(m)
	loop.Logger = logger
	loop.Fast = *optFast

	if *optInteractive {
		return runInteractive(loop, keyboard)
	}

	loop.Start()
	result := loop.Wait()
	return exitStatus(result, m)
}

func newLogger(path string, verbose bool) (*slog.Logger, func(), error) {
	var sink io.Writer
	closer := func() {}
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, closer, err
		}
		sink = f
		closer = func() { f.Close() }
	}
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	logger := slog.New(logging.NewHandler(sink, &slog.HandlerOptions{Level: level}, verbose))
	return logger, closer, nil
}

func loadImage(path string, m *machine.Machine, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := image.Load(f, m)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		logger.Warn("litton: image load", "error", e.Error())
	}
	return nil
}

// exitStatus implements the emulator CLI's exit-code contract: 0 on a
// clean halt (code 0), 1 on any other terminal state.
func exitStatus(result machine.StepResult, m *machine.Machine) int {
	if result == machine.StepHalt && m.HaltCode == 0 {
		return 0
	}
	return 1
}

func runInteractive(loop *runloop.Loop, keyboard *device.Keyboard) int {
	p := panel.New(loop.Machine())
	p.Press(panel.Power, panel.ControlUp)
	p.Press(panel.Ready, panel.ControlUp)

	// The console only makes sense against a real terminal: a piped
	// stdin can't answer line.Prompt, and -i against a pipe would just
	// hang waiting for a TTY that will never appear.
	stdinFd := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFd) {
		fmt.Fprintln(os.Stderr, "litton: -i/--interactive requires a terminal on stdin")
		return 1
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println("litton front-panel console. Commands: power, ready, run, halt, step, reset, k-set, k-reset, bit <n>, knob <name>, type <text>, quit")

	for {
		cmd, err := line.Prompt("litton> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				loop.Stop()
				return exitStatus(loop.LastResult, loop.Machine())
			}
			loop.Stop()
			return 1
		}
		line.AppendHistory(cmd)
		fields := strings.Fields(cmd)
		if len(fields) == 0 {
			continue
		}

		// A press touches the same machine state the run loop's
		// goroutine mutates during Step; every press is taken under
		// the loop's mutex so the two never race, matching the
		// single-mutex model the rest of the engine follows.
		press := func(b panel.Button, r panel.Register) bool {
			loop.Lock()
			defer loop.Unlock()
			return p.Press(b, r)
		}

		switch strings.ToLower(fields[0]) {
		case "quit", "exit":
			loop.Stop()
			return exitStatus(loop.LastResult, loop.Machine())

		case "power":
			press(panel.Power, panel.ControlUp)
		case "ready":
			press(panel.Ready, panel.ControlUp)
		case "run":
			if press(panel.Run, panel.ControlUp) {
				loop.Start()
			}
		case "halt", "step":
			loop.Stop()
			press(panel.Halt, panel.ControlUp)
		case "reset":
			press(panel.Reset, panel.ControlUp)
		case "k-set":
			press(panel.KSet, panel.ControlUp)
		case "k-reset":
			press(panel.KReset, panel.ControlUp)
		case "bit":
			if len(fields) < 2 {
				fmt.Println("usage: bit <0-7>")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 || n > 7 {
				fmt.Println("usage: bit <0-7>")
				continue
			}
			press(panel.Bit0+panel.Button(n), panel.ControlUp)
		case "knob":
			if len(fields) < 2 {
				fmt.Println("usage: knob <control|inst0|inst8|inst16|inst24|inst32|accum0|accum8|accum16|accum24|accum32>")
				continue
			}
			reg, ok := registerByName(fields[1])
			if !ok {
				fmt.Println("unknown register: " + fields[1])
				continue
			}
			press(panel.Knob, reg)
		case "type":
			text := strings.TrimSpace(strings.TrimPrefix(cmd, fields[0]))
			keyboard.PushText(text)
			loop.Lock()
			loop.Machine().AccelerationCounter += uint32(len(text))
			loop.Unlock()
		default:
			fmt.Println("unknown command: " + fields[0])
			continue
		}

		fmt.Printf("lamps=%08b display=%02X selected=%d\n", p.Lamps(), p.Lamps().Display(), p.Selected())
	}
}

func registerByName(name string) (panel.Register, bool) {
	switch strings.ToLower(name) {
	case "control", "controlup":
		return panel.ControlUp, true
	case "controldown":
		return panel.ControlDown, true
	case "inst0":
		return panel.Inst0, true
	case "inst8":
		return panel.Inst8, true
	case "inst16":
		return panel.Inst16, true
	case "inst24":
		return panel.Inst24, true
	case "inst32":
		return panel.Inst32, true
	case "accum0":
		return panel.Accum0, true
	case "accum8":
		return panel.Accum8, true
	case "accum16":
		return panel.Accum16, true
	case "accum24":
		return panel.Accum24, true
	case "accum32":
		return panel.Accum32, true
	}
	return 0, false
}
