// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bzip2

import "io"

// inverseBWT builds the transform vector tt by a counting sort over
// ll8 and returns the start position of the walk.
func (b *block) inverseBWT() int {
	var cftab [257]int
	for i, n := range b.unzftab {
		cftab[i+1] = cftab[i] + n
	}
	for i := 0; i <= b.last; i++ {
		ch := b.ll8[i]
		b.tt[cftab[ch]] = int32(i)
		cftab[ch]++
	}
	return int(b.tt[b.origPtr])
}

// state identifies the step the pull state machine executes next.
type state int

const (
	// stateStartBlock reads the next block or the stream trailer.
	stateStartBlock state = iota
	// Part A takes the next byte from the BWT walk.
	stateRandPartA
	// Part B counts runs; the byte after four equal ones is a count.
	stateRandPartB
	// Part C repeats the run byte count times.
	stateRandPartC
	stateNoRandPartA
	stateNoRandPartB
	stateNoRandPartC
)

var stateNames = [...]string{
	stateStartBlock:  "StartBlock",
	stateRandPartA:   "RandPartA",
	stateRandPartB:   "RandPartB",
	stateRandPartC:   "RandPartC",
	stateNoRandPartA: "NoRandPartA",
	stateNoRandPartB: "NoRandPartB",
	stateNoRandPartC: "NoRandPartC",
}

func (s state) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "state(?)"
	}
	return stateNames[s]
}

// part returns the Rand or NoRand variant of the parts A, B and C.
func part(randomized bool, p state) state {
	if randomized {
		return p
	}
	return p + stateNoRandPartA - stateRandPartA
}

// walk advances the BWT walk by one position. In randomized blocks
// the byte is de-randomized.
func (z *Reader) walk() byte {
	ch := z.blk.ll8[z.tPos]
	z.tPos = int(z.blk.tt[z.tPos])
	if z.hdr.randomized {
		ch ^= z.rand.mask()
	}
	return ch
}

// emit adds the byte to the block CRC and returns it.
func (z *Reader) emit(c byte) byte {
	z.blockCRC.update(c)
	return c
}

// step runs the state machine until a byte can be returned. At the end
// of the stream io.EOF is returned.
func (z *Reader) step() (byte, error) {
	for {
		switch z.state {
		case stateStartBlock:
			if z.eos {
				return 0, io.EOF
			}
			if err := z.startBlock(); err != nil {
				return 0, err
			}
		case stateRandPartA, stateNoRandPartA:
			if z.i2 > z.blk.last {
				if err := z.endBlock(); err != nil {
					return 0, err
				}
				z.state = stateStartBlock
				continue
			}
			z.chPrev = z.ch2
			z.ch2 = int(z.walk())
			z.i2++
			z.state = part(z.hdr.randomized, stateRandPartB)
			return z.emit(byte(z.ch2)), nil
		case stateRandPartB, stateNoRandPartB:
			if z.ch2 != z.chPrev {
				z.count = 1
				z.state = part(z.hdr.randomized, stateRandPartA)
				continue
			}
			z.count++
			if z.count < 4 {
				z.state = part(z.hdr.randomized, stateRandPartA)
				continue
			}
			z.repeat = int(z.walk())
			z.j2 = 0
			z.state = part(z.hdr.randomized, stateRandPartC)
		case stateRandPartC, stateNoRandPartC:
			if z.j2 < z.repeat {
				z.j2++
				return z.emit(byte(z.ch2)), nil
			}
			z.i2++
			z.count = 0
			z.state = part(z.hdr.randomized, stateRandPartA)
		default:
			panic("bzip2: invalid state " + z.state.String())
		}
	}
}
