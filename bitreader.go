// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bzip2

import (
	"bufio"
	"errors"
	"io"

	"github.com/icza/bitio"
)

// bitReader reads the big-endian bit stream of bzip2. The partial byte
// is buffered by the bitio reader; bits are consumed MSB first.
type bitReader struct {
	r *bitio.Reader
}

// newBitReader creates a bit reader. If r implements io.ByteReader it
// is used directly and no byte beyond the current one is consumed.
func newBitReader(r io.Reader) *bitReader {
	return &bitReader{r: bitio.NewReader(r)}
}

// byteCounter counts the bytes consumed from the source. Sources that
// aren't byte readers are buffered; the count still refers to the bytes
// consumed by the decoder, not to the bytes buffered ahead.
type byteCounter struct {
	r   io.Reader
	br  io.ByteReader
	buf *bufio.Reader
	n   int64
}

func newByteCounter(r io.Reader) *byteCounter {
	c := &byteCounter{}
	c.reset(r)
	return c
}

// reset restarts counting at zero and discards buffered bytes.
func (c *byteCounter) reset(r io.Reader) {
	c.n = 0
	if br, ok := r.(io.ByteReader); ok {
		c.r, c.br = r, br
		return
	}
	if c.buf == nil {
		c.buf = bufio.NewReader(r)
	} else {
		c.buf.Reset(r)
	}
	c.r, c.br = c.buf, c.buf
}

func (c *byteCounter) Read(p []byte) (n int, err error) {
	n, err = c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *byteCounter) ReadByte() (byte, error) {
	b, err := c.br.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}

// convertErr replaces the end-of-file errors of the source by
// ErrUnexpectedEOF. Every bit requested by the decoder is required.
func convertErr(err error) error {
	if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrUnexpectedEOF
	}
	return err
}

// readBits reads n bits with 1 <= n <= 32.
func (br *bitReader) readBits(n uint) (uint32, error) {
	if n < 1 || n > 32 {
		panic("bzip2: readBits argument out of range")
	}
	u, err := br.r.ReadBits(uint8(n))
	if err != nil {
		return 0, convertErr(err)
	}
	return uint32(u), nil
}

// readBit reads a single bit.
func (br *bitReader) readBit() (bool, error) {
	b, err := br.r.ReadBool()
	if err != nil {
		return false, convertErr(err)
	}
	return b, nil
}

// readByte reads the next 8 bits.
func (br *bitReader) readByte() (byte, error) {
	b, err := br.r.ReadByte()
	if err != nil {
		return 0, convertErr(err)
	}
	return b, nil
}

func (br *bitReader) readUint32() (uint32, error) { return br.readBits(32) }

func (br *bitReader) readUint24() (uint32, error) { return br.readBits(24) }

// align skips the remaining bits of the current byte.
func (br *bitReader) align() {
	br.r.Align()
}
