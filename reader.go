// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bzip2

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/bzip2/internal/xlog"
)

// Stats provides information about the stream decoded so far.
type Stats struct {
	// BlockSize is the block capacity declared in the stream header.
	BlockSize int
	// Blocks is the number of blocks decoded completely.
	Blocks int
	// RandomizedBlocks counts the blocks using the deprecated
	// randomization.
	RandomizedBlocks int
	// BlockCRCs are the verified CRCs of the decoded blocks.
	BlockCRCs []uint32
	// StreamCRC is the combined CRC of the decoded blocks.
	StreamCRC uint32
	// OutputOffset is the number of bytes returned by the reader.
	OutputOffset int64
	// EOS reports whether the stream trailer has been verified.
	EOS bool
}

// Reader decompresses a single bzip2 stream. The bytes are produced
// one at a time by a state machine, so the decompressed block is never
// materialized.
//
// A Reader is not safe for concurrent use. All errors except io.EOF
// are fatal; the Reader returns the first error for all following
// calls.
type Reader struct {
	src io.Reader
	in  *byteCounter
	// base is the source offset of the first byte counted by in.
	base int64
	br   *bitReader
	err error

	needHeader bool
	class      int
	blk        *block

	state state
	eos   bool
	hdr   blockHeader
	rand  randState

	// walk state
	tPos   int
	i2     int
	count  int
	ch2    int
	chPrev int
	repeat int
	j2     int

	blockCRC    crc
	combinedCRC uint32
	stats       Stats
}

// NewReader creates a reader for the bzip2 stream provided by r. The
// stream header is read and validated before NewReader returns. If r
// doesn't implement io.ByteReader it will be wrapped by a bufio.Reader
// and the Reader may read bytes beyond the end of the stream.
func NewReader(r io.Reader) (*Reader, error) {
	if r == nil {
		return nil, errors.New("bzip2: reader must be non-nil")
	}
	z := &Reader{src: r, in: newByteCounter(r)}
	if s, ok := r.(io.Seeker); ok {
		if pos, err := s.Seek(0, io.SeekCurrent); err == nil {
			z.base = pos
		}
	}
	z.reset()
	if err := z.readHeader(); err != nil {
		return nil, err
	}
	return z, nil
}

// reset prepares the reader for a stream starting at the current
// position of the source.
func (z *Reader) reset() {
	z.br = newBitReader(z.in)
	z.err = nil
	z.needHeader = true
	z.state = stateStartBlock
	z.eos = false
	z.combinedCRC = 0
	z.stats = Stats{}
}

// readHeader reads the stream header and sizes the block buffers.
func (z *Reader) readHeader() error {
	class, err := readStreamHeader(z.br)
	if err != nil {
		return err
	}
	if z.blk == nil {
		z.blk = newBlock(class)
	} else if class != z.class {
		z.blk.resize(class)
	}
	z.class = class
	z.needHeader = false
	z.stats.BlockSize = class * blockSizeUnit
	xlog.Debugf("bzip2: stream header block size %d",
		z.stats.BlockSize)
	return nil
}

// startBlock reads the block magic. For a block the block is decoded
// and the inverse BWT is set up; for the trailer the combined CRC is
// checked.
func (z *Reader) startBlock() error {
	if z.needHeader {
		if err := z.readHeader(); err != nil {
			return err
		}
	}
	kind, err := readBlockMagic(z.br)
	if err != nil {
		return err
	}
	if kind == kindEOS {
		return z.readTrailer()
	}
	if z.hdr, err = readBlockHeader(z.br); err != nil {
		return err
	}
	xlog.Debugf("bzip2: block %d: %v", z.stats.Blocks, z.hdr)
	z.blk.origPtr = z.hdr.origPtr
	if err = z.blk.decode(z.br); err != nil {
		return fmt.Errorf("block %d: %w", z.stats.Blocks, err)
	}
	z.tPos = z.blk.inverseBWT()
	z.blockCRC.reset()
	z.i2 = 0
	z.count = 0
	// 256 is never equal to a byte value.
	z.ch2 = 256
	z.chPrev = 256
	z.rand.reset()
	z.state = part(z.hdr.randomized, stateRandPartA)
	return nil
}

// endBlock verifies the block CRC and folds it into the combined CRC.
func (z *Reader) endBlock() error {
	v := z.blockCRC.value()
	if v != z.hdr.crc {
		return fmt.Errorf("%w: block %d crc %#08x; want %#08x",
			ErrBlockCRCMismatch, z.stats.Blocks, v, z.hdr.crc)
	}
	z.combinedCRC = combineCRC(z.combinedCRC, v)
	z.stats.Blocks++
	if z.hdr.randomized {
		z.stats.RandomizedBlocks++
	}
	z.stats.BlockCRCs = append(z.stats.BlockCRCs, v)
	z.stats.StreamCRC = z.combinedCRC
	return nil
}

// readTrailer checks the combined CRC following the end-of-stream
// magic.
func (z *Reader) readTrailer() error {
	stored, err := z.br.readUint32()
	if err != nil {
		return err
	}
	z.br.align()
	if stored != z.combinedCRC {
		return fmt.Errorf("%w: crc %#08x; want %#08x",
			ErrCombinedCRCMismatch, z.combinedCRC, stored)
	}
	xlog.Debugf("bzip2: stream end after %d blocks, crc %#08x",
		z.stats.Blocks, stored)
	z.eos = true
	z.stats.EOS = true
	return nil
}

// ReadByte returns the next decompressed byte. At the end of the
// stream it returns io.EOF.
func (z *Reader) ReadByte() (byte, error) {
	if z.err != nil {
		return 0, z.err
	}
	c, err := z.step()
	if err != nil {
		z.err = err
		return 0, err
	}
	z.stats.OutputOffset++
	return c, nil
}

// Read reads decompressed bytes into p until p is full or the stream
// ends.
func (z *Reader) Read(p []byte) (n int, err error) {
	for n < len(p) {
		c, err := z.ReadByte()
		if err != nil {
			if err == io.EOF && n > 0 {
				return n, nil
			}
			return n, err
		}
		p[n] = c
		n++
	}
	return n, nil
}

// Stats returns the statistics of the stream decoded so far.
func (z *Reader) Stats() Stats {
	s := z.stats
	s.BlockCRCs = append([]uint32(nil), z.stats.BlockCRCs...)
	return s
}

// Write is not supported by the decompressing reader.
func (z *Reader) Write(p []byte) (n int, err error) {
	return 0, ErrUnsupportedOperation
}

// WriteByte is not supported by the decompressing reader.
func (z *Reader) WriteByte(c byte) error {
	return ErrUnsupportedOperation
}

// Truncate is not supported by the decompressing reader.
func (z *Reader) Truncate(size int64) error {
	return ErrUnsupportedOperation
}

// Seek positions the underlying source, if it implements io.Seeker.
// The offset refers to the compressed data. Seek(0, io.SeekCurrent)
// returns the offset of the next compressed byte the decoder would
// consume and leaves the reader untouched. After any other successful
// seek the reader expects the header of a bzip2 stream at the new
// position.
func (z *Reader) Seek(offset int64, whence int) (int64, error) {
	if z.err == ErrClosed {
		return 0, ErrClosed
	}
	s, ok := z.src.(io.Seeker)
	if !ok {
		return 0, ErrUnsupportedOperation
	}
	if whence == io.SeekCurrent {
		// The source may have been read ahead by the buffer.
		cur := z.base + z.in.n
		if offset == 0 {
			return cur, nil
		}
		offset += cur
		whence = io.SeekStart
	}
	pos, err := s.Seek(offset, whence)
	if err != nil {
		return pos, err
	}
	z.in.reset(z.src)
	z.base = pos
	z.reset()
	return pos, nil
}

// Size returns the size of the compressed source if the source can
// provide it.
func (z *Reader) Size() (int64, error) {
	switch s := z.src.(type) {
	case interface{ Size() int64 }:
		return s.Size(), nil
	case interface{ Stat() (os.FileInfo, error) }:
		fi, err := s.Stat()
		if err != nil {
			return 0, err
		}
		return fi.Size(), nil
	}
	return 0, ErrUnsupportedOperation
}

// Close closes the source if it implements io.Closer. Reads after
// Close return ErrClosed.
func (z *Reader) Close() error {
	if z.err == ErrClosed {
		return ErrClosed
	}
	z.err = ErrClosed
	if c, ok := z.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
