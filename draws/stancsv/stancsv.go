// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stancsv

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-tidydraws/draws"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func init() {
	draws.Register(adapter{})
}

type adapter struct{}

func (adapter) Name() string { return "cmdstan-csv" }

func (adapter) Match(fit interface{}) bool {
	_, ok := fit.(draws.CSVFiles)
	return ok
}

func (adapter) Draws(fit interface{}) (*table.Table, error) {
	return ReadFiles(fit.(draws.CSVFiles)...)
}

// ReadFiles reads CmdStan output files, one per chain, and returns
// their combined draw table. Chains are numbered in the order of
// paths. Files ending in ".gz" or ".zst" are decompressed.
func ReadFiles(paths ...string) (*table.Table, error) {
	var files []*File
	for _, path := range paths {
		f, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return Table(files...)
}

func parseFile(path string) (*File, error) {
	r, err := open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	f, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Read reads one CmdStan output file per reader and returns their
// combined draw table. Chains are numbered in the order of rs.
func Read(rs ...io.Reader) (*table.Table, error) {
	var files []*File
	for i, r := range rs {
		f, err := Parse(r)
		if err != nil {
			return nil, fmt.Errorf("chain %d: %w", i+1, err)
		}
		files = append(files, f)
	}
	return Table(files...)
}

// Table returns the draw table of files, treating each file as one
// chain. All files must have the same columns.
func Table(files ...*File) (*table.Table, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no CmdStan output files")
	}
	header := files[0].Header
	n := 0
	for i, f := range files {
		if strings.Join(f.Header, "\x00") != strings.Join(header, "\x00") {
			return nil, fmt.Errorf("chain %d has columns %v; want %v", i+1, f.Header, header)
		}
		n += len(f.Rows)
	}

	chains, iters := make([]int, 0, n), make([]int, 0, n)
	cols := make([][]float64, len(header))
	for j := range cols {
		cols[j] = make([]float64, 0, n)
	}
	for i, f := range files {
		for it, row := range f.Rows {
			chains = append(chains, i+1)
			iters = append(iters, it+1)
			for j, x := range row {
				cols[j] = append(cols[j], x)
			}
		}
	}

	b := table.NewBuilder(nil).Add(draws.ChainCol, chains).Add(draws.IterationCol, iters)
	for j, name := range header {
		b.Add(name, cols[j])
	}
	return b.Done(), nil
}

// open opens path, transparently decompressing gzip and zstd files.
func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &readCloser{zr, func() { zr.Close(); f.Close() }}, nil
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &readCloser{zr, func() { zr.Close(); f.Close() }}, nil
	}
	return f, nil
}

type readCloser struct {
	io.Reader
	close func()
}

func (r *readCloser) Close() error {
	r.close()
	return nil
}
