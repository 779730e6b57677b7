// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gbzip2 decompresses bzip2 files. It accepts the options of
// bzip2 that are relevant for decompression.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/ogier/pflag"

	"github.com/ulikunitz/bzip2/internal/xlog"
)

const version = "0.1.0"

const usageStr = `Usage: gbzip2 [OPTION]... [FILE]...
Decompress FILEs in the .bz2 format (by default, in place).

  -c, --stdout      write to standard output and don't delete input files
  -d, --decompress  decompress (the default)
  -f, --force       force overwrite of output file and decompress links
  -h, --help        give this help
  -k, --keep        keep (don't delete) input files
  -L, --license     display software license
  -l, --list        list the streams and blocks of the files
  -q, --quiet       suppress all warnings
  -t, --test        test compressed file integrity
  -v, --verbose     verbose mode
  -V, --version     display version string

With no file, or when FILE is -, read standard input. Options in the
environment variable GBZIP2 are processed before the command line.

Report bugs using <https://github.com/ulikunitz/bzip2/issues>.
`

// options control the processing of the files.
type options struct {
	stdout bool
	force  bool
	keep   bool
	test   bool
	list   bool
	// out receives the decompressed data for --stdout and the output
	// of --list.
	out io.Writer
}

func usage(w io.Writer) {
	fmt.Fprint(w, usageStr)
}

func licenses(w io.Writer) {
	out := `
github.com/ulikunitz/bzip2 -- bzip2 for Go
==========================================

{{.bzip2}}

pflag -- Posix flag package
===========================

{{.pflag}}

pretty -- Pretty printing for Go values
=======================================

{{.pretty}}

text -- Text formatting used by pretty
======================================

{{.text}}
`
	out = strings.TrimLeft(out, " \n")
	tmpl, err := template.New("licenses").Parse(out)
	if err != nil {
		xlog.Panicf("error %s parsing licenses template", err)
	}
	lmap := map[string]string{
		"bzip2":  strings.TrimSpace(bzip2License),
		"pflag":  strings.TrimSpace(pflagLicense),
		"pretty": strings.TrimSpace(prettyLicense),
		"text":   strings.TrimSpace(textLicense),
	}
	if err = tmpl.Execute(w, lmap); err != nil {
		xlog.Warnf("error %s writing licenses template", err)
	}
}

// envArgs prepends the options from the GBZIP2 environment variable to
// the arguments.
func envArgs(args []string) []string {
	env := strings.Fields(os.Getenv("GBZIP2"))
	if len(env) == 0 {
		return args
	}
	return append(env, args...)
}

// run executes the command with the given arguments and returns the
// exit code.
func run(cmdName string, args []string, stdout io.Writer) int {
	xlog.SetPrefix(cmdName + ": ")
	xlog.SetFlags(xlog.Lnodebug | xlog.Lnoprint)

	fs := pflag.NewFlagSet(cmdName, pflag.ContinueOnError)
	fs.SetInterspersed(true)
	fs.Usage = func() { usage(os.Stderr) }
	var (
		help       = fs.BoolP("help", "h", false, "")
		toStdout   = fs.BoolP("stdout", "c", false, "")
		_          = fs.BoolP("decompress", "d", false, "")
		compress   = fs.BoolP("compress", "z", false, "")
		force      = fs.BoolP("force", "f", false, "")
		keep       = fs.BoolP("keep", "k", false, "")
		license    = fs.BoolP("license", "L", false, "")
		list       = fs.BoolP("list", "l", false, "")
		quiet      = fs.BoolP("quiet", "q", false, "")
		test       = fs.BoolP("test", "t", false, "")
		verbose    = fs.BoolP("verbose", "v", false, "")
		versionFlg = fs.BoolP("version", "V", false, "")
	)
	if err := fs.Parse(envArgs(args)); err != nil {
		return 1
	}

	if *help {
		usage(stdout)
		return 0
	}
	if *license {
		licenses(stdout)
		return 0
	}
	if *versionFlg {
		fmt.Fprintf(stdout, "%s %s\n", cmdName, version)
		return 0
	}
	switch {
	case *quiet:
		xlog.SetFlags(xlog.Lquiet)
	case *verbose:
		xlog.SetFlags(0)
	}
	if *compress {
		xlog.Warn("compression is not supported")
		return 1
	}

	opts := &options{
		stdout: *toStdout,
		force:  *force,
		keep:   *keep,
		test:   *test,
		list:   *list,
		out:    stdout,
	}
	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	exit := 0
	for _, path := range paths {
		o := opts
		if path == "-" {
			c := *opts
			c.stdout = true
			o = &c
		}
		if err := processFile(path, o); err != nil {
			exit = 1
		}
	}
	return exit
}

func main() {
	cmdName := filepath.Base(os.Args[0])
	os.Exit(run(cmdName, os.Args[1:], os.Stdout))
}
