// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package xlog provides a simple logging package that allows to disable
certain message categories. The package has a predefined 'standard'
logger accessible through the helper functions Print[f|ln],
Fatal[f|ln], Panic[f|ln], Warn[f|ln] and Debug[f|ln]. That logger
writes to standard error and prints the date and time of each logged
message, which can be configured using the function SetFlags.

The Fatal functions call os.Exit(1) after the message is output
unless not suppressed by the flags. The Panic functions call panic
after the writing the log message unless suppressed.

Debug output is suppressed by the standard flags; the bzip2 decoder
reports block boundaries through Debugf, which stays silent until a
test or the gbzip2 command clears Lnodebug.
*/
package xlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// The flags define what information is prefixed to each log entry
// generated by the Logger. The Lno* versions allow the suppression of
// specific output. The bits are or'ed together to control what will be
// printed. There is no control over the order of the items printed and
// the format. The full format is:
//
//	2009-01-23 01:23:23.123123 /a/b/c/d.go:23: message
const (
	Ldate         = 1 << iota // the date: 2009-01-23
	Ltime                     // the time: 01:23:23
	Lmicroseconds             // microsecond resolution: 01:23:23.123123
	Llongfile                 // full file name and line number: /a/b/c/d.go:23
	Lshortfile                // final file name element and line number: d.go:23
	Lnopanic                  // suppresses output from Panic[f|ln] but not the panic call
	Lnofatal                  // suppresses output from Fatal[f|ln] but not the exit
	Lnowarn                   // suppresses output from Warn[f|ln]
	Lnoprint                  // suppresses output from Print[f|ln]
	Lnodebug                  // suppresses output from Debug[f|ln]
	// initial values for the standard logger
	Lstdflags = Ldate | Ltime | Lnodebug
)

// Lquiet suppresses everything except the panic and exit calls.
const Lquiet = Lnopanic | Lnofatal | Lnowarn | Lnoprint | Lnodebug

// xlogger wraps a log.Logger and adds the suppression flags.
type xlogger struct {
	mu    sync.Mutex
	flags int
	l     *log.Logger
}

// stdFlags converts the xlog flags into flags for the log package.
func stdFlags(flags int) int {
	return flags & (Ldate | Ltime | Lmicroseconds | Llongfile | Lshortfile)
}

// newXLogger creates a new logger writing to out.
func newXLogger(out io.Writer, prefix string, flags int) *xlogger {
	return &xlogger{
		flags: flags,
		l:     log.New(out, prefix, stdFlags(flags)),
	}
}

// std is the standard logger used by the package-level functions.
var std = newXLogger(os.Stderr, "", Lstdflags)

// SetOutput sets the output of the standard logger.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.l.SetOutput(w)
}

// SetPrefix sets the prefix for the standard logger.
func SetPrefix(prefix string) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.l.SetPrefix(prefix)
}

// SetFlags sets the flags for the standard logger.
func SetFlags(flags int) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.flags = flags
	std.l.SetFlags(stdFlags(flags))
}

// Flags returns the flags of the standard logger.
func Flags() int {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.flags
}

// output writes s if none of the noflag bits are set.
func (l *xlogger) output(noflag int, s string) {
	l.mu.Lock()
	suppressed := l.flags&noflag != 0
	l.mu.Unlock()
	if suppressed {
		return
	}
	l.l.Output(3, s)
}

// Debug prints the arguments to the standard logger unless debug output
// is suppressed.
func Debug(v ...interface{}) {
	std.output(Lnodebug, fmt.Sprint(v...))
}

// Debugf prints the formatted message to the standard logger unless
// debug output is suppressed.
func Debugf(format string, v ...interface{}) {
	std.output(Lnodebug, fmt.Sprintf(format, v...))
}

// Debugln prints the arguments followed by a newline.
func Debugln(v ...interface{}) {
	std.output(Lnodebug, fmt.Sprintln(v...))
}

// Print prints the arguments to the standard logger.
func Print(v ...interface{}) {
	std.output(Lnoprint, fmt.Sprint(v...))
}

// Printf prints the formatted message to the standard logger.
func Printf(format string, v ...interface{}) {
	std.output(Lnoprint, fmt.Sprintf(format, v...))
}

// Println prints the arguments followed by a newline.
func Println(v ...interface{}) {
	std.output(Lnoprint, fmt.Sprintln(v...))
}

// Warn prints a warning.
func Warn(v ...interface{}) {
	std.output(Lnowarn, fmt.Sprint(v...))
}

// Warnf prints a formatted warning.
func Warnf(format string, v ...interface{}) {
	std.output(Lnowarn, fmt.Sprintf(format, v...))
}

// Warnln prints a warning followed by a newline.
func Warnln(v ...interface{}) {
	std.output(Lnowarn, fmt.Sprintln(v...))
}

// Fatal prints the message and calls os.Exit(1).
func Fatal(v ...interface{}) {
	std.output(Lnofatal, fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf prints the formatted message and calls os.Exit(1).
func Fatalf(format string, v ...interface{}) {
	std.output(Lnofatal, fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Panic prints the message and panics.
func Panic(v ...interface{}) {
	s := fmt.Sprint(v...)
	std.output(Lnopanic, s)
	panic(s)
}

// Panicf prints the formatted message and panics.
func Panicf(format string, v ...interface{}) {
	s := fmt.Sprintf(format, v...)
	std.output(Lnopanic, s)
	panic(s)
}
