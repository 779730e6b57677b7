// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bzip2

import "fmt"

// headerMagic are the first three bytes of every bzip2 stream. The
// fourth byte is the block size class '1'..'9'.
const headerMagic = "BZh"

// The 48-bit magic numbers preceding each block and the stream trailer.
// They are the BCD digits of pi and of sqrt(pi).
const (
	blockMagic = 0x314159265359
	eosMagic   = 0x177245385090
)

// blockSizeUnit is the block capacity for block size class 1.
const blockSizeUnit = 100000

// readStreamHeader reads the 4-byte stream header and returns the
// block size class.
func readStreamHeader(br *bitReader) (class int, err error) {
	var p [4]byte
	for i := range p {
		if p[i], err = br.readByte(); err != nil {
			return 0, err
		}
		if i < len(headerMagic) && p[i] != headerMagic[i] {
			return 0, fmt.Errorf("%w: magic %q", ErrInvalidStreamHeader,
				p[:i+1])
		}
	}
	if p[3] < '1' || p[3] > '9' {
		return 0, fmt.Errorf("%w: block size class %q",
			ErrInvalidStreamHeader, p[3])
	}
	return int(p[3] - '0'), nil
}

// blockKind distinguishes the two valid 48-bit magic values.
type blockKind int

const (
	kindBlock blockKind = iota
	kindEOS
)

// readBlockMagic reads the six magic bytes in front of a block or the
// stream trailer.
func readBlockMagic(br *bitReader) (blockKind, error) {
	var m uint64
	for i := 0; i < 6; i++ {
		b, err := br.readByte()
		if err != nil {
			return 0, err
		}
		m = m<<8 | uint64(b)
	}
	switch m {
	case blockMagic:
		return kindBlock, nil
	case eosMagic:
		return kindEOS, nil
	}
	return 0, fmt.Errorf("%w: magic %#012x", ErrCorruptBlockHeader, m)
}

// blockHeader contains the fields between the block magic and the
// Huffman table section.
type blockHeader struct {
	crc        uint32
	randomized bool
	origPtr    int
}

// String returns a representation useful for debug output.
func (h blockHeader) String() string {
	return fmt.Sprintf("crc %#08x randomized %t origPtr %d",
		h.crc, h.randomized, h.origPtr)
}

// readBlockHeader reads the stored block CRC, the randomization flag
// and the BWT origin pointer.
func readBlockHeader(br *bitReader) (h blockHeader, err error) {
	if h.crc, err = br.readUint32(); err != nil {
		return h, err
	}
	if h.randomized, err = br.readBit(); err != nil {
		return h, err
	}
	p, err := br.readUint24()
	if err != nil {
		return h, err
	}
	h.origPtr = int(p)
	return h, nil
}
