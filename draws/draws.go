// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package draws represents posterior draws produced by a sampler,
// independent of the sampler that produced them.
//
// A draw table is a *table.Table with one []float64 column per
// sampler parameter and one row per draw. Parameter columns are named
// as the sampler names them, for example "b[1,2]" or
// "b[(Intercept) condition:D]". A draw table may also carry the
// special []int columns ChainCol and IterationCol.
//
// Draw tables are obtained from sampler output by an Adapter (see
// Extract) and are never modified once obtained.
package draws

import (
	"fmt"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-tidydraws/internal/tabutil"
)

// Special column names. These are never parameter names.
const (
	// ChainCol is the chain number of a draw, starting at 1.
	ChainCol = ".chain"

	// IterationCol is the iteration of a draw within its chain,
	// starting at 1.
	IterationCol = ".iteration"

	// DrawCol is a unique draw number across all chains, starting
	// at 1.
	DrawCol = ".draw"
)

// NoChain is the chain number of draws whose sampler output did not
// record chain identity. Real chains are numbered from 1.
const NoChain = 0

// IsSpecial reports whether col is one of the special draw-identity
// columns.
func IsSpecial(col string) bool {
	return col == ChainCol || col == IterationCol || col == DrawCol
}

// Params returns the parameter columns of draw table t, in order.
func Params(t *table.Table) []string {
	var params []string
	for _, col := range t.Columns() {
		if !IsSpecial(col) {
			params = append(params, col)
		}
	}
	return params
}

// HasChains reports whether t records chain identity.
func HasChains(t *table.Table) bool {
	return t.Column(ChainCol) != nil
}

// ChainIDs returns the chain number of each draw in t. If t does not
// record chain identity, every element is NoChain.
func ChainIDs(t *table.Table) []int {
	if col := t.Column(ChainCol); col != nil {
		var out []int
		slice.Convert(&out, col)
		return out
	}
	return make([]int, t.Len())
}

// Iterations returns the iteration of each draw in t within its
// chain. If t does not have an iteration column, iterations are
// numbered consecutively within each chain in row order.
func Iterations(t *table.Table) []int {
	if col := t.Column(IterationCol); col != nil {
		var out []int
		slice.Convert(&out, col)
		return out
	}
	out := make([]int, t.Len())
	next := map[int]int{}
	for i, chain := range ChainIDs(t) {
		next[chain]++
		out[i] = next[chain]
	}
	return out
}

// Normalize returns t with every parameter column converted to
// []float64 and the chain and iteration columns, if present,
// converted to []int. It returns an error if a parameter column is
// not numeric.
func Normalize(t *table.Table) (*table.Table, error) {
	b := table.NewBuilder(nil)
	for _, col := range t.Columns() {
		seq := t.MustColumn(col)
		switch {
		case col == ChainCol || col == IterationCol || col == DrawCol:
			if !tabutil.IsIntegerType(table.ColType(t, col)) {
				return nil, fmt.Errorf("draw table column %s has type %T; want integers", col, seq)
			}
			var ints []int
			slice.Convert(&ints, seq)
			b.Add(col, ints)
		default:
			xs, ok := seq.([]float64)
			if !ok {
				if xs, ok = tabutil.Floats(seq); !ok {
					return nil, fmt.Errorf("draw table parameter %s has type %T; want numbers", col, seq)
				}
			}
			b.Add(col, xs)
		}
	}
	return b.Done(), nil
}

// Chains is a set of sampler chains in matrix form, as produced by
// coda-style samplers. Values[c][i][p] is the value of parameter
// Params[p] at iteration i+1 of chain c+1.
type Chains struct {
	Params []string
	Values [][][]float64
}

// Table returns c as a draw table with chain and iteration columns.
func (c Chains) Table() (*table.Table, error) {
	n := 0
	for ci, chain := range c.Values {
		for i, row := range chain {
			if len(row) != len(c.Params) {
				return nil, fmt.Errorf("chain %d iteration %d has %d values; want %d", ci+1, i+1, len(row), len(c.Params))
			}
		}
		n += len(chain)
	}

	chainCol, iterCol := make([]int, 0, n), make([]int, 0, n)
	cols := make([][]float64, len(c.Params))
	for p := range cols {
		cols[p] = make([]float64, 0, n)
	}
	for ci, chain := range c.Values {
		for i, row := range chain {
			chainCol = append(chainCol, ci+1)
			iterCol = append(iterCol, i+1)
			for p, x := range row {
				cols[p] = append(cols[p], x)
			}
		}
	}

	b := table.NewBuilder(nil).Add(ChainCol, chainCol).Add(IterationCol, iterCol)
	for p, name := range c.Params {
		if IsSpecial(name) {
			return nil, fmt.Errorf("parameter name %s is reserved", name)
		}
		b.Add(name, cols[p])
	}
	return b.Done(), nil
}

// CSVFiles names CmdStan CSV output files, one per chain. Draws can
// be extracted from a CSVFiles only if package
// github.com/aclements/go-tidydraws/draws/stancsv is linked into the
// program.
type CSVFiles []string
