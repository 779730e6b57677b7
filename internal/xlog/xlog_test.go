// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xlog

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestFlagsSuppress(t *testing.T) {
	oldFlags := Flags()
	defer SetFlags(oldFlags)
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetFlags(Lnodebug)
	Debugf("block %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("Debugf wrote %q with Lnodebug set", buf.String())
	}
	Warnf("file %s exists", "a.bz2")
	if got := buf.String(); !strings.Contains(got, "file a.bz2 exists") {
		t.Fatalf("Warnf output %q; want it to contain %q",
			got, "file a.bz2 exists")
	}

	buf.Reset()
	SetFlags(0)
	Debug("stream end")
	if got := buf.String(); got != "stream end\n" {
		t.Fatalf("Debug output %q; want %q", got, "stream end\n")
	}

	buf.Reset()
	SetFlags(Lquiet)
	Warn("ignored")
	Print("ignored")
	if buf.Len() != 0 {
		t.Fatalf("Lquiet didn't suppress output %q", buf.String())
	}
}

func TestPanic(t *testing.T) {
	oldFlags := Flags()
	defer SetFlags(oldFlags)
	SetFlags(Lnopanic)
	defer func() {
		r := recover()
		if r != "bad state 3" {
			t.Fatalf("recover() returned %v; want %q", r, "bad state 3")
		}
	}()
	Panicf("bad state %d", 3)
}
