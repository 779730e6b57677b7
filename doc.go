// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package bzip2 supports the decompression of bzip2 streams.

A bzip2 stream starts with the header "BZh" followed by the block size
class '1' to '9'. The blocks that follow are Burrows-Wheeler transformed,
move-to-front and run-length coded and compressed by up to six Huffman
tables. Every block carries a CRC of its uncompressed content; the stream
trailer carries the combined CRC of all blocks.

The Reader decodes a block into its working buffers and produces the
output bytes one at a time. The buffers are allocated once for the block
size of the stream. A Reader stops at the end of the first stream; use
MultiReader for files consisting of concatenated streams.

	z, err := bzip2.NewReader(f)
	if err != nil {
		log.Fatal(err)
	}
	if _, err = io.Copy(os.Stdout, z); err != nil {
		log.Fatal(err)
	}

Input that doesn't start with a valid stream header is rejected with
ErrInvalidStreamHeader; it is never treated as an empty stream. All
decoding errors are fatal and returned again by every following call.

Readers are not safe for concurrent use.
*/
package bzip2
