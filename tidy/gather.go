// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tidy

import (
	"fmt"
	"reflect"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-tidydraws/draws"
	"github.com/aclements/go-tidydraws/internal/tabutil"
)

// Columns of a gathered table.
const (
	// VariableCol names the variable of each row of a gathered
	// table.
	VariableCol = ".variable"

	// ValueCol is the value of each row of a gathered table.
	ValueCol = ".value"
)

// Gather is like Spread, but stacks the variables named by specs into
// a single VariableCol column naming the variable and a single
// ValueCol column holding its value, rather than giving each variable
// its own column. Each spec is tidied separately, so specs need not
// share indices. The result is grouped by VariableCol and the index
// columns.
func Gather(m *draws.Model, specs ...Spec) (table.Grouping, error) {
	t, err := m.Draws()
	if err != nil {
		return nil, err
	}
	return GatherTable(t, m.Types(), specs...)
}

// GatherTable is like Gather, but takes a draw table and registry
// directly. types may be nil.
//
// An index column that some specs lack is "" in their rows. An index
// column whose type differs between specs is formatted as strings.
func GatherTable(t *table.Table, types draws.Registry, specs ...Spec) (table.Grouping, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no variables requested")
	}
	if err := checkSpecs(specs); err != nil {
		return nil, err
	}

	var parts []*table.Table
	var index []string
	seen := map[string]bool{}
	for _, spec := range specs {
		out, idx, err := spread(t, types, []Spec{spec})
		if err != nil {
			return nil, err
		}
		// Move the variable's values into the value column.
		long := table.Flatten(table.Unpivot(out, VariableCol, ValueCol, spec.Name))
		parts = append(parts, long)
		for _, name := range idx {
			if !seen[name] {
				seen[name] = true
				index = append(index, name)
			}
		}
	}

	b := table.NewBuilder(nil)
	for _, col := range []string{draws.ChainCol, draws.IterationCol, draws.DrawCol} {
		b.Add(col, concat(parts, col))
	}
	for _, col := range index {
		b.Add(col, concat(parts, col))
	}
	b.Add(VariableCol, concat(parts, VariableCol))
	values := concat(parts, ValueCol)
	if values == nil {
		return nil, fmt.Errorf("cannot gather variables of different types")
	}
	b.Add(ValueCol, values)

	groups := append([]string{VariableCol}, index...)
	return table.GroupBy(b.Done(), groups...), nil
}

// concat concatenates column col of each of parts. If the parts
// disagree on the column's type, or some lack it, the values are
// formatted as strings, and missing values are "". If the values
// column cannot be concatenated, concat returns nil.
func concat(parts []*table.Table, col string) table.Slice {
	var typ reflect.Type
	same := true
	for _, p := range parts {
		seq := p.Column(col)
		if seq == nil {
			same = false
			break
		}
		st := reflect.TypeOf(seq)
		if typ == nil {
			typ = st
		} else if typ != st {
			same = false
			break
		}
	}
	if same {
		seqs := make([]slice.T, len(parts))
		for i, p := range parts {
			seqs[i] = p.MustColumn(col)
		}
		return slice.Concat(seqs...)
	}
	if col == ValueCol {
		return nil
	}

	var out []string
	for _, p := range parts {
		seq := p.Column(col)
		for i := 0; i < p.Len(); i++ {
			if seq == nil {
				out = append(out, "")
			} else {
				out = append(out, fmt.Sprint(tabutil.At(seq, i)))
			}
		}
	}
	return out
}
