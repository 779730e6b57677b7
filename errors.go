// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bzip2

import "errors"

// Errors returned by the Reader. All of them are fatal: once one has
// been returned the Reader returns it for every following call.
var (
	// ErrInvalidStreamHeader indicates that the stream doesn't start
	// with "BZh" followed by a block size digit '1'..'9'.
	ErrInvalidStreamHeader = errors.New("bzip2: invalid stream header")
	// ErrCorruptBlockHeader indicates a 48-bit block magic that is
	// neither the block nor the end-of-stream magic.
	ErrCorruptBlockHeader = errors.New("bzip2: corrupt block header")
	// ErrCorruptBlock indicates an invalid Huffman table section or
	// an invalid BWT origin pointer.
	ErrCorruptBlock = errors.New("bzip2: corrupt block")
	// ErrInvalidHuffmanCode indicates a code longer than 20 bits.
	ErrInvalidHuffmanCode = errors.New("bzip2: invalid Huffman code")
	// ErrSymbolOutOfRange indicates a decoded symbol or selector
	// outside of the valid range.
	ErrSymbolOutOfRange = errors.New("bzip2: symbol out of range")
	// ErrBlockOverrun indicates block data exceeding the block size
	// declared in the stream header.
	ErrBlockOverrun = errors.New("bzip2: block overrun")
	// ErrBlockCRCMismatch indicates that the CRC of the decoded block
	// differs from the CRC stored in the block header.
	ErrBlockCRCMismatch = errors.New("bzip2: block CRC mismatch")
	// ErrCombinedCRCMismatch indicates that the combined CRC in the
	// stream trailer differs from the computed one.
	ErrCombinedCRCMismatch = errors.New("bzip2: combined CRC mismatch")
	// ErrUnexpectedEOF indicates that the source ended while more
	// bits were required.
	ErrUnexpectedEOF = errors.New("bzip2: unexpected end of input")
	// ErrUnsupportedOperation is returned for writes and for seeks or
	// size queries the source cannot serve.
	ErrUnsupportedOperation = errors.New("bzip2: unsupported operation")
	// ErrClosed is returned by reads after Close.
	ErrClosed = errors.New("bzip2: reader closed")
)
