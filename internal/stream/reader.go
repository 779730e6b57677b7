// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stream provides a reader that tracks the offset in the
// underlying stream.
package stream

import "io"

// Reader keeps track of the number of bytes read from the underlying
// reader.
type Reader struct {
	r   io.Reader
	off int64
}

// NewReader creates a reader starting at offset zero.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Offset returns the number of bytes read so far.
func (r *Reader) Offset() int64 {
	return r.off
}

// Read reads data into p. The offset will be updated accordingly.
func (r *Reader) Read(p []byte) (n int, err error) {
	n, err = r.r.Read(p)
	r.off += int64(n)
	return n, err
}
