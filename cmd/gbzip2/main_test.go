// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/bzip2/internal/xlog"
)

const foxText = "The quick brown fox jumps over the lazy dog.\n"

// copyFixture copies a file of the testdata directory into dir.
func copyFixture(t *testing.T, dir, fixture, name string) string {
	t.Helper()
	p, err := os.ReadFile(filepath.Join("..", "..", "testdata", fixture))
	if err != nil {
		t.Fatalf("os.ReadFile error %s", err)
	}
	path := filepath.Join(dir, name)
	if err = os.WriteFile(path, p, 0644); err != nil {
		t.Fatalf("os.WriteFile error %s", err)
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func runQuiet(t *testing.T, args ...string) (code int, out string) {
	t.Helper()
	var stderr bytes.Buffer
	xlog.SetOutput(&stderr)
	defer xlog.SetOutput(os.Stderr)
	var stdout bytes.Buffer
	code = run("gbzip2", args, &stdout)
	t.Logf("stderr: %q", stderr.String())
	return code, stdout.String()
}

func TestDecompressFile(t *testing.T) {
	dir := t.TempDir()
	path := copyFixture(t, dir, "fox.bz2", "fox.txt.bz2")
	if code, _ := runQuiet(t, path); code != 0 {
		t.Fatalf("exit code %d; want %d", code, 0)
	}
	p, err := os.ReadFile(filepath.Join(dir, "fox.txt"))
	if err != nil {
		t.Fatalf("os.ReadFile error %s", err)
	}
	if string(p) != foxText {
		t.Fatalf("got %q; want %q", p, foxText)
	}
	if exists(path) {
		t.Fatalf("input file %s not removed", path)
	}
}

func TestDecompressKeep(t *testing.T) {
	dir := t.TempDir()
	path := copyFixture(t, dir, "fox.bz2", "fox.bz2")
	if code, _ := runQuiet(t, "-k", path); code != 0 {
		t.Fatalf("exit code %d; want %d", code, 0)
	}
	if !exists(path) {
		t.Fatalf("input file %s removed", path)
	}
	if !exists(filepath.Join(dir, "fox")) {
		t.Fatalf("output file missing")
	}

	// the target exists now
	if code, _ := runQuiet(t, "-k", path); code != 1 {
		t.Fatalf("exit code %d; want %d", code, 1)
	}
	if code, _ := runQuiet(t, "-k", "--force", path); code != 0 {
		t.Fatalf("exit code %d with --force; want %d", code, 0)
	}
}

func TestDecompressEnv(t *testing.T) {
	t.Setenv("GBZIP2", "--keep")
	dir := t.TempDir()
	path := copyFixture(t, dir, "concat.bz2", "concat.tbz")
	if code, _ := runQuiet(t, path); code != 0 {
		t.Fatalf("exit code %d; want %d", code, 0)
	}
	if !exists(path) {
		t.Fatalf("input file %s removed", path)
	}
	p, err := os.ReadFile(filepath.Join(dir, "concat.tar"))
	if err != nil {
		t.Fatalf("os.ReadFile error %s", err)
	}
	if !strings.HasPrefix(string(p), foxText) {
		t.Fatalf("unexpected output %q", p)
	}
}

func TestStdout(t *testing.T) {
	dir := t.TempDir()
	path := copyFixture(t, dir, "fox.bz2", "fox.bz2")
	code, out := runQuiet(t, "-c", path)
	if code != 0 {
		t.Fatalf("exit code %d; want %d", code, 0)
	}
	if out != foxText {
		t.Fatalf("got %q; want %q", out, foxText)
	}
	if !exists(path) {
		t.Fatalf("input file %s removed", path)
	}
	if exists(filepath.Join(dir, "fox")) {
		t.Fatalf("output file created")
	}
}

func TestTestAndList(t *testing.T) {
	dir := t.TempDir()
	path := copyFixture(t, dir, "concat.bz2", "concat.bz2")
	if code, out := runQuiet(t, "-t", path); code != 0 || out != "" {
		t.Fatalf("--test: exit code %d output %q", code, out)
	}
	if exists(filepath.Join(dir, "concat")) {
		t.Fatalf("--test created output file")
	}
	code, out := runQuiet(t, "--list", path)
	if code != 0 {
		t.Fatalf("--list: exit code %d; want %d", code, 0)
	}
	if !strings.Contains(out, "2 stream(s)") {
		t.Fatalf("--list output %q", out)
	}
	if !exists(path) {
		t.Fatalf("input file %s removed", path)
	}
}

func TestCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.bz2")
	if err := os.WriteFile(path, []byte("BZh9garbage"), 0644); err != nil {
		t.Fatalf("os.WriteFile error %s", err)
	}
	if code, _ := runQuiet(t, path); code != 1 {
		t.Fatalf("exit code %d; want %d", code, 1)
	}
	if !exists(path) {
		t.Fatalf("input file %s removed", path)
	}
	for _, name := range []string{"bad", "bad.decompress"} {
		if exists(filepath.Join(dir, name)) {
			t.Fatalf("file %s has been left", name)
		}
	}
}

func TestFlags(t *testing.T) {
	if code, _ := runQuiet(t, "-z", "file.bz2"); code != 1 {
		t.Fatalf("-z: exit code %d; want %d", code, 1)
	}
	if code, _ := runQuiet(t, "--no-such-flag"); code != 1 {
		t.Fatalf("unknown flag: exit code %d; want %d", code, 1)
	}
	code, out := runQuiet(t, "-V")
	if code != 0 || !strings.Contains(out, version) {
		t.Fatalf("-V: exit code %d output %q", code, out)
	}
	code, out = runQuiet(t, "-L")
	if code != 0 {
		t.Fatalf("-L: exit code %d; want %d", code, 0)
	}
	for _, s := range []string{"Ulrich Kunitz", "Alex Ogier",
		"pretty -- ", "text -- ", "Keith Rarick"} {
		if !strings.Contains(out, s) {
			t.Fatalf("-L: output doesn't contain %q", s)
		}
	}
	code, out = runQuiet(t, "-h")
	if code != 0 || !strings.HasPrefix(out, "Usage: gbzip2") {
		t.Fatalf("-h: exit code %d output %q", code, out)
	}
}

func TestTargetName(t *testing.T) {
	tests := []struct {
		path   string
		target string
		err    bool
	}{
		{"a.bz2", "a", false},
		{"dir/a.txt.bz", "dir/a.txt", false},
		{"a.tbz2", "a.tar", false},
		{"a.tbz", "a.tar", false},
		{"a.txt", "a.txt.out", false},
		{".bz2", "", true},
		{"dir/.bz2", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		target, err := targetName(tc.path)
		if tc.err {
			if err == nil {
				t.Errorf("targetName(%q) returns no error",
					tc.path)
			}
			continue
		}
		if err != nil {
			t.Errorf("targetName(%q) error %s", tc.path, err)
			continue
		}
		if target != tc.target {
			t.Errorf("targetName(%q) = %q; want %q", tc.path,
				target, tc.target)
		}
	}
}
