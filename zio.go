// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snpdist

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/pgzip"
)

// zopen returns a reader for the given file ("-" for stdin),
// transparently decompressing the input if fnm ends with ".gz".
func zopen(fnm string, stdin io.Reader) (io.ReadCloser, error) {
	var f io.ReadCloser
	if fnm == "-" {
		f = io.NopCloser(stdin)
	} else {
		var err error
		f, err = os.Open(fnm)
		if err != nil {
			return nil, err
		}
	}
	if !strings.HasSuffix(fnm, ".gz") {
		return f, nil
	}
	rdr, err := pgzip.NewReader(bufio.NewReaderSize(f, 4*1024*1024))
	if err != nil {
		f.Close()
		return nil, err
	}
	return gzipr{rdr, f}, nil
}

// gzipr wraps a ReadCloser and a Closer, presenting a single Close()
// method that closes both wrapped objects.
type gzipr struct {
	io.ReadCloser
	io.Closer
}

func (gr gzipr) Close() error {
	e1 := gr.ReadCloser.Close()
	e2 := gr.Closer.Close()
	if e1 != nil {
		return e1
	}
	return e2
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// zcreate returns a buffered writer for the given file ("-" for
// stdout), compressing the output if fnm ends with ".gz". Close
// flushes and closes everything; calling it more than once is
// harmless.
func zcreate(fnm string, stdout io.Writer) (io.WriteCloser, error) {
	var f io.WriteCloser
	if fnm == "-" {
		f = nopCloser{stdout}
	} else {
		var err error
		f, err = os.OpenFile(fnm, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
		if err != nil {
			return nil, err
		}
	}
	zw := &zwriter{f: f, bufw: bufio.NewWriterSize(f, 4*1024*1024)}
	zw.w = zw.bufw
	if strings.HasSuffix(fnm, ".gz") {
		zw.gzw = pgzip.NewWriter(zw.bufw)
		zw.w = zw.gzw
	}
	return zw, nil
}

type zwriter struct {
	w    io.Writer
	gzw  *pgzip.Writer
	bufw *bufio.Writer
	f    io.WriteCloser
	once sync.Once
	err  error
}

func (zw *zwriter) Write(p []byte) (int, error) {
	return zw.w.Write(p)
}

func (zw *zwriter) Close() error {
	zw.once.Do(func() {
		if zw.gzw != nil {
			zw.err = zw.gzw.Close()
		}
		if err := zw.bufw.Flush(); zw.err == nil {
			zw.err = err
		}
		if err := zw.f.Close(); zw.err == nil {
			zw.err = err
		}
	})
	return zw.err
}

func readTableFile(fnm string, stdin io.Reader, opts ReadOptions) (*Table, error) {
	in, err := zopen(fnm, stdin)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	t, err := ReadTable(in, opts)
	if err != nil {
		return nil, err
	}
	return t, in.Close()
}
