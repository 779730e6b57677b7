// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bzip2

import "fmt"

const (
	minGroups = 2
	maxGroups = 6
	// groupSize is the number of symbols coded with the same table.
	groupSize = 50
	// maxAlphaSize covers 256 byte values plus RUNA/RUNB, minus the
	// front of the MTF list, plus end-of-block.
	maxAlphaSize = 258
	maxCodeLen   = 20
	// maxSelectors is the number of selectors a 900k block may need.
	// Encoders may write more; the rest is read and ignored.
	maxSelectors = 2 + 900000/groupSize
)

// huffmanTable holds the canonical decode tables for one coding group.
// limit[n] is the largest code value of length n, base[n] the offset
// of the codes of length n in perm.
type huffmanTable struct {
	alphaSize int
	minLen    int
	limit     [maxCodeLen + 2]int32
	base      [maxCodeLen + 2]int32
	perm      [maxAlphaSize]uint16
}

// build computes the decode tables from the code lengths. All lengths
// must be in the range 1..maxCodeLen.
func (t *huffmanTable) build(lengths []uint8) {
	t.alphaSize = len(lengths)
	minLen, maxLen := maxCodeLen, 1
	for _, l := range lengths {
		n := int(l)
		if n < minLen {
			minLen = n
		}
		if n > maxLen {
			maxLen = n
		}
	}
	t.minLen = minLen

	// symbols ordered by (length, symbol)
	k := 0
	for n := minLen; n <= maxLen; n++ {
		for s, l := range lengths {
			if int(l) == n {
				t.perm[k] = uint16(s)
				k++
			}
		}
	}

	for i := range t.base {
		t.base[i] = 0
	}
	for _, l := range lengths {
		t.base[l+1]++
	}
	for i := 1; i < len(t.base); i++ {
		t.base[i] += t.base[i-1]
	}

	for i := range t.limit {
		t.limit[i] = 0
	}
	var vec int32
	for n := minLen; n <= maxLen; n++ {
		vec += t.base[n+1] - t.base[n]
		t.limit[n] = vec - 1
		vec <<= 1
	}
	for n := minLen + 1; n <= maxLen; n++ {
		t.base[n] = (t.limit[n-1]+1)<<1 - t.base[n]
	}
}

// decodeSymbol reads one canonical code and returns its symbol.
func (t *huffmanTable) decodeSymbol(br *bitReader) (int, error) {
	n := t.minLen
	u, err := br.readBits(uint(n))
	if err != nil {
		return 0, err
	}
	v := int32(u)
	for {
		if n > maxCodeLen {
			return 0, ErrInvalidHuffmanCode
		}
		if v <= t.limit[n] {
			break
		}
		b, err := br.readBit()
		if err != nil {
			return 0, err
		}
		v <<= 1
		if b {
			v |= 1
		}
		n++
	}
	i := v - t.base[n]
	if i < 0 || int(i) >= t.alphaSize {
		return 0, fmt.Errorf("%w: code %#x length %d",
			ErrSymbolOutOfRange, v, n)
	}
	return int(t.perm[i]), nil
}

// blockTables contains the symbol maps, the selectors and the Huffman
// tables of the current block.
type blockTables struct {
	inUse      [256]bool
	nInUse     int
	seqToUnseq [256]byte
	unseqToSeq [256]byte

	nGroups   int
	groups    [maxGroups]huffmanTable
	selectors []byte

	lengths [maxAlphaSize]uint8
}

func newBlockTables() *blockTables {
	return &blockTables{selectors: make([]byte, 0, maxSelectors)}
}

// alphaSize returns the number of symbols: RUNA, RUNB, the MTF ranks
// 1..nInUse-1 and end-of-block.
func (t *blockTables) alphaSize() int { return t.nInUse + 2 }

// eob returns the end-of-block symbol.
func (t *blockTables) eob() int { return t.nInUse + 1 }

// makeMaps derives the compacted symbol space from inUse.
func (t *blockTables) makeMaps() {
	t.nInUse = 0
	for i, used := range t.inUse {
		if used {
			t.seqToUnseq[t.nInUse] = byte(i)
			t.unseqToSeq[i] = byte(t.nInUse)
			t.nInUse++
		}
	}
}

// read reads the table section of a block: the used byte values, the
// selectors and the code lengths of every group.
func (t *blockTables) read(br *bitReader) error {
	ranges, err := br.readBits(16)
	if err != nil {
		return err
	}
	t.inUse = [256]bool{}
	for i := 0; i < 16; i++ {
		if ranges&(0x8000>>uint(i)) == 0 {
			continue
		}
		bits, err := br.readBits(16)
		if err != nil {
			return err
		}
		for j := 0; j < 16; j++ {
			if bits&(0x8000>>uint(j)) != 0 {
				t.inUse[16*i+j] = true
			}
		}
	}
	t.makeMaps()
	if t.nInUse == 0 {
		return fmt.Errorf("%w: no byte values used", ErrCorruptBlock)
	}

	u, err := br.readBits(3)
	if err != nil {
		return err
	}
	t.nGroups = int(u)
	if t.nGroups < minGroups || t.nGroups > maxGroups {
		return fmt.Errorf("%w: %d Huffman groups", ErrCorruptBlock,
			t.nGroups)
	}

	if err = t.readSelectors(br); err != nil {
		return err
	}

	alphaSize := t.alphaSize()
	for g := 0; g < t.nGroups; g++ {
		u, err := br.readBits(5)
		if err != nil {
			return err
		}
		curr := int(u)
		lengths := t.lengths[:alphaSize]
		for s := range lengths {
			for {
				if curr < 1 || curr > maxCodeLen {
					return fmt.Errorf(
						"%w: code length %d in group %d",
						ErrCorruptBlock, curr, g)
				}
				more, err := br.readBit()
				if err != nil {
					return err
				}
				if !more {
					break
				}
				down, err := br.readBit()
				if err != nil {
					return err
				}
				if down {
					curr--
				} else {
					curr++
				}
			}
			lengths[s] = uint8(curr)
		}
		t.groups[g].build(lengths)
	}
	return nil
}

// readSelectors reads the unary coded selector MTF values and undoes
// the move-to-front transform over the group indexes.
func (t *blockTables) readSelectors(br *bitReader) error {
	u, err := br.readBits(15)
	if err != nil {
		return err
	}
	n := int(u)
	if n == 0 {
		return fmt.Errorf("%w: no selectors", ErrCorruptBlock)
	}
	var pos [maxGroups]byte
	for i := range pos {
		pos[i] = byte(i)
	}
	t.selectors = t.selectors[:0]
	for i := 0; i < n; i++ {
		j := 0
		for {
			one, err := br.readBit()
			if err != nil {
				return err
			}
			if !one {
				break
			}
			j++
			if j >= t.nGroups {
				return fmt.Errorf("%w: selector MTF index %d",
					ErrCorruptBlock, j)
			}
		}
		v := pos[j]
		copy(pos[1:j+1], pos[:j])
		pos[0] = v
		if i < maxSelectors {
			t.selectors = append(t.selectors, v)
		}
	}
	return nil
}
