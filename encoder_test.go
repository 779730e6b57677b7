// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bzip2

import (
	"bytes"
	"sort"
)

// bitWriter writes bits MSB first.
type bitWriter struct {
	buf   bytes.Buffer
	acc   uint64
	nbits uint
}

func (w *bitWriter) writeBits(n uint, v uint64) {
	for i := int(n) - 1; i >= 0; i-- {
		w.acc = w.acc<<1 | (v>>uint(i))&1
		w.nbits++
		if w.nbits == 8 {
			w.buf.WriteByte(byte(w.acc))
			w.acc, w.nbits = 0, 0
		}
	}
}

func (w *bitWriter) writeBit(b bool) {
	if b {
		w.writeBits(1, 1)
	} else {
		w.writeBits(1, 0)
	}
}

// bytes flushes the partial byte padded with zeros.
func (w *bitWriter) bytes() []byte {
	if w.nbits > 0 {
		w.writeBits(8-w.nbits, 0)
	}
	return w.buf.Bytes()
}

// testEncoder is a slow but simple bzip2 encoder for the tests. It
// supports the deprecated block randomization and allows to produce
// streams violating the format.
type testEncoder struct {
	// class is the block size class written in the stream header.
	class int
	// blockLen is the number of input bytes per block.
	blockLen int
	// randomize sets the randomization flag for all blocks.
	randomize bool
	// nSelectors overrides the number of selectors, if positive.
	nSelectors int
	// badBlockCRC adds 1 to every stored block CRC.
	badBlockCRC bool
	// badStreamCRC adds 1 to the combined CRC in the trailer.
	badStreamCRC bool
}

func (e *testEncoder) encode(data []byte) []byte {
	w := new(bitWriter)
	w.writeBits(24, uint64('B')<<16|uint64('Z')<<8|uint64('h'))
	w.writeBits(8, uint64('0'+e.class))
	var combined uint32
	n := e.blockLen
	if n <= 0 {
		n = e.class*blockSizeUnit - 19
	}
	for len(data) > 0 {
		k := n
		if k > len(data) {
			k = len(data)
		}
		c := e.writeBlock(w, data[:k])
		combined = combineCRC(combined, c)
		data = data[k:]
	}
	if e.badStreamCRC {
		combined++
	}
	w.writeBits(48, eosMagic)
	w.writeBits(32, uint64(combined))
	return w.bytes()
}

// rle1 applies the initial run-length encoding: four equal bytes are
// followed by the count of further repetitions.
func rle1(p []byte) []byte {
	var out []byte
	for i := 0; i < len(p); {
		c := p[i]
		j := i + 1
		for j < len(p) && p[j] == c && j-i < 255 {
			j++
		}
		run := j - i
		if run < 4 {
			for k := 0; k < run; k++ {
				out = append(out, c)
			}
		} else {
			out = append(out, c, c, c, c, byte(run-4))
		}
		i = j
	}
	return out
}

// bwt returns the last column of the sorted rotations and the row of
// the original string.
func bwt(p []byte) (last []byte, origPtr int) {
	n := len(p)
	rot := make([]int, n)
	for i := range rot {
		rot[i] = i
	}
	sort.Slice(rot, func(a, b int) bool {
		x, y := rot[a], rot[b]
		for k := 0; k < n; k++ {
			cx, cy := p[(x+k)%n], p[(y+k)%n]
			if cx != cy {
				return cx < cy
			}
		}
		return x < y
	})
	last = make([]byte, n)
	for i, r := range rot {
		last[i] = p[(r+n-1)%n]
		if r == 0 {
			origPtr = i
		}
	}
	return last, origPtr
}

// mtfRLE2 returns the symbols for the BWT output, the used byte values
// and the number of used byte values.
func mtfRLE2(p []byte) (syms []int, inUse [256]bool, nInUse int) {
	for _, c := range p {
		inUse[c] = true
	}
	var unseqToSeq [256]int
	var yy []int
	for i, used := range inUse {
		if used {
			unseqToSeq[i] = nInUse
			yy = append(yy, nInUse)
			nInUse++
		}
	}
	run := 0
	flush := func() {
		for run > 0 {
			if run&1 == 1 {
				syms = append(syms, runA)
				run = (run - 1) / 2
			} else {
				syms = append(syms, runB)
				run = (run - 2) / 2
			}
		}
	}
	for _, c := range p {
		s := unseqToSeq[c]
		k := 0
		for yy[k] != s {
			k++
		}
		if k == 0 {
			run++
			continue
		}
		flush()
		copy(yy[1:k+1], yy[:k])
		yy[0] = s
		syms = append(syms, k+1)
	}
	flush()
	syms = append(syms, nInUse+1)
	return syms, inUse, nInUse
}

// huffmanLengths computes code lengths for the frequencies. Every
// symbol gets a code. If a length exceeds 17 flat lengths are used.
func huffmanLengths(freq []int) []uint8 {
	type node struct {
		w    int
		syms []int
	}
	lengths := make([]uint8, len(freq))
	nodes := make([]node, len(freq))
	for i, f := range freq {
		nodes[i] = node{w: f + 1, syms: []int{i}}
	}
	for len(nodes) > 1 {
		sort.SliceStable(nodes, func(a, b int) bool {
			return nodes[a].w < nodes[b].w
		})
		a, b := nodes[0], nodes[1]
		for _, s := range a.syms {
			lengths[s]++
		}
		for _, s := range b.syms {
			lengths[s]++
		}
		m := node{w: a.w + b.w,
			syms: append(append([]int(nil), a.syms...), b.syms...)}
		nodes = append([]node{m}, nodes[2:]...)
	}
	for _, l := range lengths {
		if l > 17 {
			return flatLengths(len(freq))
		}
	}
	return lengths
}

// flatLengths gives all symbols the same code length.
func flatLengths(n int) []uint8 {
	l := uint8(1)
	for 1<<l < n {
		l++
	}
	lengths := make([]uint8, n)
	for i := range lengths {
		lengths[i] = l
	}
	return lengths
}

// canonicalCodes assigns the codes in the order used by the decoder.
func canonicalCodes(lengths []uint8) []uint32 {
	codes := make([]uint32, len(lengths))
	var code uint32
	for n := uint8(1); n <= maxCodeLen; n++ {
		for s, l := range lengths {
			if l == n {
				codes[s] = code
				code++
			}
		}
		code <<= 1
	}
	return codes
}

// writeBlock writes one block and returns its CRC. The first Huffman
// table is optimal, the second flat; the selectors alternate.
func (e *testEncoder) writeBlock(w *bitWriter, data []byte) uint32 {
	var c crc
	c.reset()
	for _, b := range data {
		c.update(b)
	}
	blockCRC := c.value()

	block := rle1(data)
	if e.randomize {
		var rs randState
		for i := range block {
			block[i] ^= rs.mask()
		}
	}
	last, origPtr := bwt(block)
	syms, inUse, nInUse := mtfRLE2(last)
	alphaSize := nInUse + 2

	freq := make([]int, alphaSize)
	for _, s := range syms {
		freq[s]++
	}
	tables := [][]uint8{huffmanLengths(freq), flatLengths(alphaSize)}

	w.writeBits(48, blockMagic)
	stored := blockCRC
	if e.badBlockCRC {
		stored++
	}
	w.writeBits(32, uint64(stored))
	w.writeBit(e.randomize)
	w.writeBits(24, uint64(origPtr))

	var ranges uint64
	for i := 0; i < 16; i++ {
		for j := 0; j < 16; j++ {
			if inUse[16*i+j] {
				ranges |= 0x8000 >> uint(i)
			}
		}
	}
	w.writeBits(16, ranges)
	for i := 0; i < 16; i++ {
		if ranges&(0x8000>>uint(i)) == 0 {
			continue
		}
		var bits uint64
		for j := 0; j < 16; j++ {
			if inUse[16*i+j] {
				bits |= 0x8000 >> uint(j)
			}
		}
		w.writeBits(16, bits)
	}

	w.writeBits(3, uint64(len(tables)))
	nSelectors := (len(syms) + groupSize - 1) / groupSize
	if e.nSelectors > 0 {
		nSelectors = e.nSelectors
	}
	w.writeBits(15, uint64(nSelectors))
	pos := []int{0, 1}
	for i := 0; i < nSelectors; i++ {
		sel := i % 2
		j := 0
		for pos[j] != sel {
			j++
		}
		for k := 0; k < j; k++ {
			w.writeBit(true)
		}
		w.writeBit(false)
		copy(pos[1:j+1], pos[:j])
		pos[0] = sel
	}

	for _, lengths := range tables {
		curr := int(lengths[0])
		w.writeBits(5, uint64(curr))
		for _, l := range lengths {
			for curr < int(l) {
				w.writeBits(2, 2)
				curr++
			}
			for curr > int(l) {
				w.writeBits(2, 3)
				curr--
			}
			w.writeBit(false)
		}
	}

	codes := [][]uint32{canonicalCodes(tables[0]), canonicalCodes(tables[1])}
	for i, s := range syms {
		g := (i / groupSize) % 2
		w.writeBits(uint(tables[g][s]), uint64(codes[g][s]))
	}
	return blockCRC
}
