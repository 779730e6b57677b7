// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bzip2

import (
	"bufio"
	"errors"
	"io"

	"github.com/ulikunitz/bzip2/internal/xlog"
)

// MultiReader decompresses a sequence of concatenated bzip2 streams
// as produced by parallel compressors or by concatenating bzip2 files.
type MultiReader struct {
	src     io.Reader
	br      *bufio.Reader
	z       *Reader
	err     error
	streams []Stats
}

// NewMultiReader creates a reader for the concatenated streams in r.
// The first stream header is read before the function returns.
func NewMultiReader(r io.Reader) (*MultiReader, error) {
	if r == nil {
		return nil, errors.New("bzip2: reader must be non-nil")
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	z, err := NewReader(br)
	if err != nil {
		return nil, err
	}
	return &MultiReader{src: r, br: br, z: z}, nil
}

// nextStream starts the next stream or returns io.EOF if the input is
// exhausted.
func (m *MultiReader) nextStream() error {
	m.streams = append(m.streams, m.z.Stats())
	if _, err := m.br.Peek(1); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return err
	}
	xlog.Debugf("bzip2: stream %d follows", len(m.streams))
	// The block buffers of the previous stream are reused.
	m.z.reset()
	return m.z.readHeader()
}

// Read reads decompressed data from the current stream and continues
// with the next stream at the end of it.
func (m *MultiReader) Read(p []byte) (n int, err error) {
	for n < len(p) {
		if m.err != nil {
			if n > 0 && m.err == io.EOF {
				return n, nil
			}
			return n, m.err
		}
		var k int
		k, err = m.z.Read(p[n:])
		n += k
		if err == io.EOF {
			m.err = m.nextStream()
			continue
		}
		if err != nil {
			m.err = err
		}
	}
	return n, nil
}

// Streams returns the statistics of all completely decoded streams.
func (m *MultiReader) Streams() []Stats {
	return append([]Stats(nil), m.streams...)
}

// Close closes the current stream reader and the source if it implements
// io.Closer. Reads after Close return ErrClosed.
func (m *MultiReader) Close() error {
	if m.err == ErrClosed {
		return ErrClosed
	}
	m.err = ErrClosed
	if err := m.z.Close(); err != nil {
		return err
	}
	if c, ok := m.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
