// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tidy reshapes wide draw tables into long, tidy tables.
//
// A draw table has one column per sampler parameter, such as
// "b[1,2]" or "b[(Intercept) condition:D]". Spread parses these
// names and produces a table with one row per draw and index
// combination, one column per requested index, and one column per
// requested variable. The result is grouped by the index columns, so
// it can be passed directly to a summarizer or a plot.
package tidy

import (
	"fmt"
	"math"
	"strconv"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-tidydraws/draws"
	"github.com/aclements/go-tidydraws/internal/tabutil"
)

// Spread extracts the variables named by specs from the draws of m
// and returns them as a tidy table. Columns whose names have an
// entry in m's registry are converted to their recovered types.
func Spread(m *draws.Model, specs ...Spec) (table.Grouping, error) {
	t, err := m.Draws()
	if err != nil {
		return nil, err
	}
	return SpreadTable(t, m.Types(), specs...)
}

// SpreadTable is like Spread, but takes a draw table and registry
// directly. types may be nil.
//
// The result has the columns draws.ChainCol, draws.IterationCol,
// draws.DrawCol, each index named by specs in the order they are
// first named, and one column per spec named by the spec's Name.
// Specs that share an index name are joined on it. Where a variable
// has no value for an index combination contributed by another
// variable, its value is NaN. Index columns whose values are all
// integers are []int; other index columns are []string.
//
// If the draw table does not record chains, the chain of every row
// is draws.NoChain.
func SpreadTable(t *table.Table, types draws.Registry, specs ...Spec) (table.Grouping, error) {
	out, index, err := spread(t, types, specs)
	if err != nil {
		return nil, err
	}
	if len(index) == 0 {
		return out, nil
	}
	return table.GroupBy(out, index...), nil
}

// spread returns the ungrouped tidy table of specs and its index
// columns.
func spread(t *table.Table, types draws.Registry, specs []Spec) (*table.Table, []string, error) {
	if len(specs) == 0 {
		return nil, nil, fmt.Errorf("no variables requested")
	}
	t, err := draws.Normalize(t)
	if err != nil {
		return nil, nil, err
	}
	if err := checkSpecs(specs); err != nil {
		return nil, nil, err
	}

	var joined *relation
	for _, spec := range specs {
		r, err := pivot(t, spec)
		if err != nil {
			return nil, nil, err
		}
		if joined == nil {
			joined = r
		} else {
			joined = joined.join(r)
		}
	}

	out, err := types.Convert(joined.table(t))
	if err != nil {
		return nil, nil, err
	}
	return out, joined.index, nil
}

// checkSpecs rejects sets of specs whose output columns collide.
func checkSpecs(specs []Spec) error {
	vars := map[string]bool{}
	for _, s := range specs {
		if vars[s.Name] {
			return &IndexParseError{Spec: s.String(), Msg: "variable requested twice"}
		}
		vars[s.Name] = true
	}
	for _, s := range specs {
		for _, idx := range s.names() {
			if vars[idx] {
				return &IndexParseError{Spec: s.String(), Msg: fmt.Sprintf("index %s has the same name as a variable", idx)}
			}
		}
	}
	return nil
}

// A relation is a long-form table of variables keyed by draw row and
// index tokens.
type relation struct {
	index []string // Index column names
	vars  []string // Variable column names

	rows []relRow
}

type relRow struct {
	draw int      // Row of the draw table
	keys []string // Index tokens, parallel to relation.index
	vals []float64
}

// pivot returns the long form of the columns of t matching spec.
func pivot(t *table.Table, spec Spec) (*relation, error) {
	// Find the matching columns and bind their tokens.
	var cols []string
	tokens := map[string][]string{}
	for _, col := range draws.Params(t) {
		name, err := ParseName(col)
		if err != nil {
			// Columns of other variables may use other
			// naming conventions.
			if base, ok := baseName(col); ok && base == spec.Name {
				return nil, err
			}
			continue
		}
		if name.Base != spec.Name {
			continue
		}
		toks, err := spec.bind(name)
		if err != nil {
			if pe, ok := err.(*IndexParseError); ok {
				pe.Column = col
			}
			return nil, err
		}
		cols = append(cols, col)
		tokens[col] = toks
	}
	if len(cols) == 0 {
		return nil, &VariableNotFoundError{spec.Name}
	}

	rows := make([]int, t.Len())
	for i := range rows {
		rows[i] = i
	}
	b := table.NewBuilder(nil).Add(rowCol, rows)
	for _, col := range cols {
		b.Add(col, t.MustColumn(col))
	}
	long := table.Flatten(table.Unpivot(b.Done(), colCol, valueCol, cols...))

	r := &relation{index: spec.names(), vars: []string{spec.Name}}
	r.rows = make([]relRow, long.Len())
	colv := long.MustColumn(colCol).([]string)
	rowv := long.MustColumn(rowCol).([]int)
	valv := long.MustColumn(valueCol).([]float64)
	for i := range r.rows {
		r.rows[i] = relRow{rowv[i], tokens[colv[i]], []float64{valv[i]}}
	}
	return r, nil
}

// Column names of the intermediate long table built by pivot. The
// row column reuses a special name so it cannot collide with a
// parameter.
const (
	rowCol   = draws.DrawCol
	colCol   = "column"
	valueCol = "value"
)

// baseName returns the part of col before its bracket, if any.
func baseName(col string) (string, bool) {
	for i, r := range col {
		if r == '[' {
			return col[:i], true
		}
	}
	return col, false
}

// join returns the full outer join of r and s on the draw row and the
// index columns they share. Index columns only one relation has are
// carried through, so variables that do not vary over an index are
// repeated across its values.
func (r *relation) join(s *relation) *relation {
	// Map the columns of s into the joined relation.
	out := &relation{
		index: append([]string(nil), r.index...),
		vars:  append(append([]string(nil), r.vars...), s.vars...),
	}
	rpos := map[string]int{}
	for i, name := range r.index {
		rpos[name] = i
	}
	var shared []int  // Positions in s.index shared with r
	var sharedR []int // Corresponding positions in r.index
	sToOut := make([]int, len(s.index))
	for i, name := range s.index {
		if j, ok := rpos[name]; ok {
			shared = append(shared, i)
			sharedR = append(sharedR, j)
			sToOut[i] = j
		} else {
			sToOut[i] = len(out.index)
			out.index = append(out.index, name)
		}
	}

	key := func(draw int, keys []string, pos []int) string {
		vals := []interface{}{draw}
		for _, p := range pos {
			vals = append(vals, keys[p])
		}
		return tabutil.Key(vals...)
	}
	sByKey := map[string][]int{}
	for i, row := range s.rows {
		k := key(row.draw, row.keys, shared)
		sByKey[k] = append(sByKey[k], i)
	}

	nan := func(n int) []float64 {
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = math.NaN()
		}
		return xs
	}
	merge := func(rrow *relRow, srow *relRow) relRow {
		row := relRow{keys: make([]string, len(out.index))}
		if rrow != nil {
			row.draw = rrow.draw
			copy(row.keys, rrow.keys)
			row.vals = append(row.vals, rrow.vals...)
		} else {
			row.vals = nan(len(r.vars))
		}
		if srow != nil {
			row.draw = srow.draw
			for i, k := range srow.keys {
				row.keys[sToOut[i]] = k
			}
			row.vals = append(row.vals, srow.vals...)
		} else {
			row.vals = append(row.vals, nan(len(s.vars))...)
		}
		return row
	}

	matched := make([]bool, len(s.rows))
	for i := range r.rows {
		rrow := &r.rows[i]
		ms := sByKey[key(rrow.draw, rrow.keys, sharedR)]
		if len(ms) == 0 {
			out.rows = append(out.rows, merge(rrow, nil))
			continue
		}
		for _, j := range ms {
			matched[j] = true
			out.rows = append(out.rows, merge(rrow, &s.rows[j]))
		}
	}
	for j := range s.rows {
		if !matched[j] {
			out.rows = append(out.rows, merge(nil, &s.rows[j]))
		}
	}
	return out
}

// table assembles r into a table, taking chain and iteration numbers
// from the draw table t.
func (r *relation) table(t *table.Table) *table.Table {
	chains, iters := draws.ChainIDs(t), draws.Iterations(t)
	var drawIDs []int
	if col := t.Column(draws.DrawCol); col != nil {
		drawIDs = col.([]int)
	}

	n := len(r.rows)
	chainv, iterv, drawv := make([]int, n), make([]int, n), make([]int, n)
	for i, row := range r.rows {
		chainv[i], iterv[i] = chains[row.draw], iters[row.draw]
		if drawIDs != nil {
			drawv[i] = drawIDs[row.draw]
		} else {
			drawv[i] = row.draw + 1
		}
	}
	b := table.NewBuilder(nil).
		Add(draws.ChainCol, chainv).
		Add(draws.IterationCol, iterv).
		Add(draws.DrawCol, drawv)

	for j, name := range r.index {
		keys := make([]string, n)
		for i, row := range r.rows {
			keys[i] = row.keys[j]
		}
		b.Add(name, indexColumn(keys))
	}
	for j, name := range r.vars {
		vals := make([]float64, n)
		for i, row := range r.rows {
			vals[i] = row.vals[j]
		}
		b.Add(name, vals)
	}
	return b.Done()
}

// indexColumn returns keys as a []int if every key is an integer, and
// otherwise as keys itself.
func indexColumn(keys []string) table.Slice {
	ints := make([]int, len(keys))
	for i, k := range keys {
		v, err := strconv.Atoi(k)
		if err != nil {
			return keys
		}
		ints[i] = v
	}
	return ints
}
