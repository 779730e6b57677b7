// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/kr/pretty"

	"github.com/ulikunitz/bzip2"
	"github.com/ulikunitz/bzip2/internal/stream"
	"github.com/ulikunitz/bzip2/internal/term"
	"github.com/ulikunitz/bzip2/internal/xlog"
)

// signalHandler establishes the signal handler for SIGINT and SIGTERM
// and handles it in its own go routine. The returned quit channel must
// be closed to terminate the signal handler go routine.
func signalHandler(w *writer) chan<- struct{} {
	quit := make(chan struct{})
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-quit:
			signal.Stop(sigch)
			return
		case <-sigch:
			w.removeTmpFile()
			os.Exit(7)
		}
	}()
	return quit
}

// suffixes lists the recognized file name suffixes together with the
// suffix replacing them.
var suffixes = []struct{ ext, repl string }{
	{".bz2", ""},
	{".bz", ""},
	{".tbz2", ".tar"},
	{".tbz", ".tar"},
}

// targetName computes the name of the decompressed file. Names without
// a known suffix get the suffix .out.
func targetName(path string) (target string, err error) {
	if path == "-" {
		panic("path name - not supported")
	}
	if len(path) == 0 {
		return "", errors.New("empty file name not supported")
	}
	base := filepath.Base(path)
	for _, s := range suffixes {
		if !strings.HasSuffix(base, s.ext) {
			continue
		}
		if base == s.ext {
			return "", fmt.Errorf(
				"file name %s has no base part", path)
		}
		return path[:len(path)-len(s.ext)] + s.repl, nil
	}
	return path + ".out", nil
}

// tmpName returns the name of the temporary file the decompressed data
// is written to.
func tmpName(path string) string {
	return path + ".decompress"
}

// writer writes the decompressed data into a temporary file that is
// renamed to the target name on success.
type writer struct {
	f    *os.File
	name string
	bw   *bufio.Writer
	io.Writer
	success bool
}

// newWriter creates a new file writer. If the stdout option is set the
// data is written to opts.out.
func newWriter(path string, perm os.FileMode, opts *options,
) (w *writer, err error) {
	w = &writer{name: path}
	if opts.stdout {
		w.name = "-"
		w.bw = bufio.NewWriter(opts.out)
		w.Writer = w.bw
		return w, nil
	}
	name, err := targetName(path)
	if err != nil {
		return nil, err
	}
	if _, err = os.Stat(name); !os.IsNotExist(err) {
		if !opts.force {
			return nil, &userPathError{
				Path: name,
				Err:  errors.New("file exists")}
		}
		if err = os.Remove(name); err != nil {
			return nil, err
		}
	}
	if w.f, err = os.OpenFile(tmpName(name),
		os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm); err != nil {
		return nil, err
	}
	w.name = name
	w.bw = bufio.NewWriter(w.f)
	w.Writer = w.bw
	return w, nil
}

var errInval = errors.New("invalid value")

// Close closes the writer. Without success the temporary file is
// removed, otherwise it is renamed to the target name.
func (w *writer) Close() error {
	var err error

	if w.bw == nil {
		return errInval
	}
	defer func() { w.bw = nil }()

	if w.f == nil {
		if !w.success {
			return nil
		}
		return w.bw.Flush()
	}
	if !w.success {
		if err = w.f.Close(); err != nil {
			return err
		}
		return os.Remove(w.f.Name())
	}
	if err = w.bw.Flush(); err != nil {
		return err
	}
	if err = w.f.Close(); err != nil {
		return err
	}
	return os.Rename(w.f.Name(), w.name)
}

// removeTmpFile removes the temporary file for the writer. It is used
// by the signal handler goroutine.
func (w *writer) removeTmpFile() {
	if w.f != nil {
		os.Remove(w.f.Name())
	}
}

// SetSuccess sets the success variable to true.
func (w *writer) SetSuccess() { w.success = true }

// reader decompresses a file.
type reader struct {
	f *os.File
	// in counts the compressed bytes
	in *stream.Reader
	z  *bzip2.MultiReader
	io.Reader
	success bool
	keep    bool
}

// errNoRegular indicates that a file is not regular.
var errNoRegular = errors.New("no regular file")

// specialBits contain the special bits, which are not supported by
// gbzip2.
const specialBits = os.ModeSetuid | os.ModeSetgid | os.ModeSticky

// openFile opens the given path with the given options.
func openFile(path string, opts *options) (f *os.File, err error) {
	if path == "-" {
		if !opts.force && term.IsTerminal(os.Stdin.Fd()) {
			return nil, errors.New(
				"compressed data can't be read from a terminal")
		}
		return os.Stdin, nil
	}
	fi, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	fm := fi.Mode()
	if !fm.IsRegular() {
		if !opts.force || fm&os.ModeSymlink == 0 {
			return nil, &userPathError{Path: path,
				Err: errNoRegular}
		}
	}
	if f, err = os.Open(path); err != nil {
		return nil, err
	}
	if fi, err = f.Stat(); err != nil {
		f.Close()
		return nil, err
	}
	fm = fi.Mode()
	if !fm.IsRegular() {
		f.Close()
		return nil, &userPathError{Path: path, Err: errNoRegular}
	}
	if fm&specialBits != 0 && !opts.force {
		f.Close()
		return nil, &userPathError{Path: path,
			Err: errors.New("setuid, setgid and/or sticky bit set")}
	}
	return f, nil
}

// newReader opens the file and reads the header of its first bzip2
// stream.
func newReader(path string, opts *options) (r *reader, err error) {
	f, err := openFile(path, opts)
	if err != nil {
		return nil, err
	}
	in := stream.NewReader(f)
	z, err := bzip2.NewMultiReader(bufio.NewReader(in))
	if err != nil {
		if f != os.Stdin {
			f.Close()
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r = &reader{
		f:      f,
		in:     in,
		z:      z,
		Reader: z,
		keep:   opts.keep || opts.stdout || opts.test || opts.list,
	}
	return r, nil
}

// Close closes the reader. The input file is removed if the reader has
// been successful and the file is not to be kept.
func (r *reader) Close() error {
	if r.f == nil {
		return errInval
	}
	defer func() { r.f = nil }()
	// The decompressor reads through a buffer and leaves f open.
	if err := r.z.Close(); err != nil {
		return err
	}
	if r.f == os.Stdin {
		return nil
	}
	if err := r.f.Close(); err != nil {
		return err
	}
	if r.keep || !r.success {
		return nil
	}
	return os.Remove(r.f.Name())
}

func (r *reader) SetSuccess() { r.success = true }

func (r *reader) Perm() os.FileMode {
	const defaultPerm os.FileMode = 0666

	fi, err := r.f.Stat()
	if err != nil {
		return defaultPerm
	}

	return fi.Mode() & defaultPerm
}

// userPathError represents a path error presentable to a user. In
// difference to os.PathError it removes the information of the
// operation returning the error.
type userPathError struct {
	Path string
	Err  error
}

// Error provides the error string for the path error.
func (e *userPathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *userPathError) Unwrap() error { return e.Err }

// userError converts a path error into an error message without the
// operation that caused it. That lstat detected a missing file is
// irrelevant for users of gbzip2.
func userError(err error) error {
	var pe *os.PathError
	if !errors.As(err, &pe) {
		return err
	}
	return &userPathError{Path: pe.Path, Err: pe.Err}
}

func printErr(err error) {
	if err != nil {
		xlog.Warn(userError(err))
	}
}

// testFile decompresses the file without writing the result.
func testFile(path string, r *reader) error {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	xlog.Printf("%s: ok", path)
	return nil
}

// listFile decompresses the file and prints the statistics of its
// streams.
func listFile(path string, r *reader, opts *options) error {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	streams := r.z.Streams()
	c := r.in.Offset()
	ratio := 0.0
	if n > 0 {
		ratio = float64(c) / float64(n)
	}
	fmt.Fprintf(opts.out,
		"%s: %d bytes in %d stream(s), compressed %d, ratio %.3f\n",
		path, n, len(streams), c, ratio)
	for i, s := range streams {
		pretty.Fprintf(opts.out, "stream %d: %# v\n", i, s)
	}
	return nil
}

// processFile process the file with the given path applying the
// provided options.
func processFile(path string, opts *options) (err error) {
	r, err := newReader(path, opts)
	if err != nil {
		printErr(err)
		return err
	}
	defer r.Close()
	switch {
	case opts.list:
		if err = listFile(path, r, opts); err != nil {
			printErr(err)
		}
		return err
	case opts.test:
		if err = testFile(path, r); err != nil {
			printErr(err)
		}
		return err
	}
	w, err := newWriter(path, r.Perm(), opts)
	if err != nil {
		printErr(err)
		return err
	}
	defer w.Close()
	quitSignalHandler := signalHandler(w)
	if _, err = io.Copy(w, r); err != nil {
		close(quitSignalHandler)
		err = fmt.Errorf("%s: %w", path, err)
		printErr(err)
		return err
	}
	close(quitSignalHandler)
	w.SetSuccess()
	if err = w.Close(); err != nil {
		printErr(err)
		return err
	}
	r.SetSuccess()
	if err = r.Close(); err != nil {
		printErr(err)
		return err
	}
	return nil
}
