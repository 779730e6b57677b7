// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bzip2

import "fmt"

// The run-length symbols for runs of the byte in front of the MTF list.
const (
	runA = 0
	runB = 1
)

// block is the per-block working set. The buffers are allocated for
// the block size of the stream and reused for every block.
type block struct {
	tables *blockTables

	// ll8 holds the BWT permuted bytes ll8[0..last].
	ll8  []byte
	tt   []int32
	last int
	// unzftab counts the occurrences of each byte value in ll8.
	unzftab [256]int
	origPtr int

	// yy is the move-to-front list over the compacted symbols.
	yy [256]byte

	groupNo  int
	groupPos int
	table    *huffmanTable
}

// newBlock allocates the buffers for the block size class.
func newBlock(class int) *block {
	n := class * blockSizeUnit
	return &block{
		tables: newBlockTables(),
		ll8:    make([]byte, n),
		tt:     make([]int32, n),
	}
}

// resize adapts the capacity of the block to a new block size class.
func (b *block) resize(class int) {
	n := class * blockSizeUnit
	if n > cap(b.ll8) {
		b.ll8 = make([]byte, n)
		b.tt = make([]int32, n)
		return
	}
	b.ll8 = b.ll8[:n]
	b.tt = b.tt[:n]
}

// nextSymbol decodes the next symbol, switching the Huffman table
// every groupSize symbols as directed by the selectors.
func (b *block) nextSymbol(br *bitReader) (int, error) {
	if b.groupPos == 0 {
		b.groupNo++
		t := b.tables
		if b.groupNo >= len(t.selectors) {
			return 0, fmt.Errorf("%w: selector %d of %d",
				ErrSymbolOutOfRange, b.groupNo, len(t.selectors))
		}
		s := int(t.selectors[b.groupNo])
		if s >= t.nGroups {
			return 0, fmt.Errorf("%w: selector value %d",
				ErrSymbolOutOfRange, s)
		}
		b.table = &t.groups[s]
		b.groupPos = groupSize
	}
	b.groupPos--
	return b.table.decodeSymbol(br)
}

// decode reads the table section and the symbol stream of a block and
// fills ll8, last and unzftab. RUNA/RUNB runs of the MTF front are
// expanded and the move-to-front transform is reversed.
func (b *block) decode(br *bitReader) error {
	t := b.tables
	if err := t.read(br); err != nil {
		return err
	}
	for i := range b.unzftab {
		b.unzftab[i] = 0
	}
	for i := range b.yy {
		b.yy[i] = byte(i)
	}
	b.last = -1
	b.groupNo = -1
	b.groupPos = 0
	limit := len(b.ll8)
	eob := t.eob()

	sym, err := b.nextSymbol(br)
	if err != nil {
		return err
	}
	for sym != eob {
		if sym == runA || sym == runB {
			s, n := 0, 1
			for sym == runA || sym == runB {
				if n > limit {
					return fmt.Errorf("%w: run too long",
						ErrBlockOverrun)
				}
				if sym == runA {
					s += n
				} else {
					s += 2 * n
				}
				n <<= 1
				if sym, err = b.nextSymbol(br); err != nil {
					return err
				}
			}
			if b.last+s >= limit {
				return fmt.Errorf("%w: run of %d at %d",
					ErrBlockOverrun, s, b.last+1)
			}
			ch := t.seqToUnseq[b.yy[0]]
			b.unzftab[ch] += s
			for ; s > 0; s-- {
				b.last++
				b.ll8[b.last] = ch
			}
			continue
		}

		b.last++
		if b.last >= limit {
			return fmt.Errorf("%w: more than %d bytes",
				ErrBlockOverrun, limit)
		}
		k := sym - 1
		v := b.yy[k]
		copy(b.yy[1:k+1], b.yy[:k])
		b.yy[0] = v
		ch := t.seqToUnseq[v]
		b.unzftab[ch]++
		b.ll8[b.last] = ch

		if sym, err = b.nextSymbol(br); err != nil {
			return err
		}
	}

	if b.origPtr < 0 || b.origPtr > b.last {
		return fmt.Errorf("%w: origPtr %d for %d bytes",
			ErrCorruptBlock, b.origPtr, b.last+1)
	}
	return nil
}
