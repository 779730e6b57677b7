// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bzip2

import "hash"

// crcPoly is the CRC-32 polynomial in normal (MSB-first) representation.
// bzip2 doesn't use the reflected form of hash/crc32.
const crcPoly = 0x04c11db7

// crcTable is the byte-wise lookup table for crcPoly.
var crcTable = makeCRCTable()

func makeCRCTable() *[256]uint32 {
	t := new([256]uint32)
	for i := range t {
		c := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if c&0x80000000 != 0 {
				c = c<<1 ^ crcPoly
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}
	return t
}

// crc computes the CRC-32/BZIP2 checksum byte by byte. The zero value
// isn't ready for use; call reset first.
type crc struct {
	v uint32
}

func (c *crc) reset() { c.v = 0xffffffff }

func (c *crc) update(b byte) {
	c.v = c.v<<8 ^ crcTable[byte(c.v>>24)^b]
}

func (c *crc) value() uint32 { return ^c.v }

// crcHash provides the hash.Hash32 interface for the bzip2 CRC.
type crcHash struct {
	crc
}

// NewCRC returns a hash computing the CRC-32 variant used by bzip2 for
// block and stream checksums.
func NewCRC() hash.Hash32 {
	h := new(crcHash)
	h.reset()
	return h
}

func (h *crcHash) Write(p []byte) (n int, err error) {
	for _, b := range p {
		h.update(b)
	}
	return len(p), nil
}

func (h *crcHash) Sum32() uint32 { return h.value() }

func (h *crcHash) Sum(b []byte) []byte {
	v := h.value()
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func (h *crcHash) Reset() { h.reset() }

func (h *crcHash) Size() int { return 4 }

func (h *crcHash) BlockSize() int { return 1 }

// combineCRC folds a block CRC into the stream CRC.
func combineCRC(combined, block uint32) uint32 {
	return (combined<<1 | combined>>31) ^ block
}
