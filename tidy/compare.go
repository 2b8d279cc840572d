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

// A CompareFunc compares the values of two levels of a draw.
type CompareFunc struct {
	// Op is the operator shown between the level names in
	// comparison labels, such as "-".
	Op string

	Fn func(a, b float64) float64
}

var (
	Difference = CompareFunc{"-", func(a, b float64) float64 { return a - b }}
	Ratio      = CompareFunc{"/", func(a, b float64) float64 { return a / b }}
)

// A Pairing selects which pairs of levels to compare.
type Pairing int

const (
	// Pairwise compares every pair of distinct levels. For
	// levels A, B, C, it produces B-A, C-A, and C-B.
	Pairwise Pairing = iota

	// Ordered compares each level with the level before it. For
	// levels A, B, C, it produces B-A and C-B.
	Ordered

	// Control compares each level with the first level. For
	// levels A, B, C, it produces B-A and C-A.
	Control
)

func (p Pairing) String() string {
	switch p {
	case Pairwise:
		return "pairwise"
	case Ordered:
		return "ordered"
	case Control:
		return "control"
	}
	return fmt.Sprintf("Pairing(%d)", int(p))
}

// ParsePairing returns the Pairing named s.
func ParsePairing(s string) (Pairing, error) {
	for _, p := range []Pairing{Pairwise, Ordered, Control} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown pairing %q", s)
}

// A Comparison configures CompareLevels.
type Comparison struct {
	// Fn compares two levels. If Fn.Fn is nil, it defaults to
	// Difference.
	Fn CompareFunc

	// Pairing selects pairs of levels to compare. It is ignored
	// if Pairs is non-nil.
	Pairing Pairing

	// Pairs, if non-nil, lists the pairs of levels to compare
	// explicitly. Pair {A, B} compares A with B.
	Pairs [][2]string

	// Levels, if non-nil, orders the levels of the by column, as
	// for a factor (see draws.Registry.Levels). Levels absent from
	// the table are skipped, and levels missing from Levels follow
	// in order of first appearance.
	Levels []string
}

// CompareLevels compares the value column across the levels of the
// by column, draw by draw.
//
// g must be a tidy table, such as the result of Spread. Levels are
// ordered by c.Levels, or by their first appearance in g. For each draw and each
// combination of the other group columns of g, each selected pair
// of levels (A, B) that both have a value produces one row with
// value Fn(value(A), value(B)) and by set to a label such as "B - A".
//
// The result has the draw identity columns, the other group columns,
// by (as strings), and value. It is grouped by the other group
// columns and by.
func CompareLevels(g table.Grouping, value, by string, c Comparison) (table.Grouping, error) {
	if c.Fn.Fn == nil {
		c.Fn = Difference
	}
	for _, col := range []string{value, by, draws.DrawCol} {
		if !tabutil.Has(g, col) {
			return nil, fmt.Errorf("table has no column %s", col)
		}
	}
	t := table.Flatten(g)
	if t.Len() == 0 {
		return nil, fmt.Errorf("no draws to compare")
	}
	vals, ok := tabutil.Floats(t.MustColumn(value))
	if !ok {
		return nil, fmt.Errorf("column %s is not numeric", value)
	}

	// Order the levels.
	byCol := t.MustColumn(by)
	levelSeq := slice.Nub(byCol)
	var levels []string
	for i := 0; i < reflect.ValueOf(levelSeq).Len(); i++ {
		levels = append(levels, fmt.Sprint(tabutil.At(levelSeq, i)))
	}
	levels = orderLevels(levels, c.Levels)
	pairs, err := c.pairs(levels)
	if err != nil {
		return nil, err
	}

	// Collect the value of each level in each cell, where a cell
	// is a draw and a combination of the other group columns.
	var rest []string
	for _, col := range tabutil.GroupCols(g) {
		if col != by && col != value && !draws.IsSpecial(col) {
			rest = append(rest, col)
		}
	}
	restCols := make([]table.Slice, len(rest))
	for i, col := range rest {
		restCols[i] = t.MustColumn(col)
	}
	drawCol := t.MustColumn(draws.DrawCol)

	type cell struct {
		row    int // Representative row of the cell
		levels map[string]float64
	}
	var cells []*cell
	cellByKey := map[string]*cell{}
	key := make([]interface{}, 1+len(rest))
	for i := 0; i < t.Len(); i++ {
		key[0] = tabutil.At(drawCol, i)
		for j, seq := range restCols {
			key[j+1] = tabutil.At(seq, i)
		}
		k := tabutil.Key(key...)
		ce := cellByKey[k]
		if ce == nil {
			ce = &cell{row: i, levels: map[string]float64{}}
			cellByKey[k] = ce
			cells = append(cells, ce)
		}
		level := fmt.Sprint(tabutil.At(byCol, i))
		if _, dup := ce.levels[level]; dup {
			return nil, fmt.Errorf("level %s of %s appears more than once in draw %v", level, by, key[0])
		}
		ce.levels[level] = vals[i]
	}

	var rows []int
	var labels []string
	var out []float64
	for _, ce := range cells {
		for _, p := range pairs {
			a, okA := ce.levels[p[0]]
			b, okB := ce.levels[p[1]]
			if !okA || !okB {
				continue
			}
			rows = append(rows, ce.row)
			labels = append(labels, fmt.Sprintf("%s %s %s", p[0], c.Fn.Op, p[1]))
			out = append(out, c.Fn.Fn(a, b))
		}
	}

	nb := table.NewBuilder(nil)
	for _, col := range []string{draws.ChainCol, draws.IterationCol, draws.DrawCol} {
		if seq := t.Column(col); seq != nil {
			nb.Add(col, slice.Select(seq, rows))
		}
	}
	for i, col := range rest {
		nb.Add(col, slice.Select(restCols[i], rows))
	}
	nb.Add(by, labels).Add(value, out)

	groups := append(rest, by)
	return table.GroupBy(nb.Done(), groups...), nil
}

// orderLevels returns the elements of seen ordered by order, followed
// by the elements of seen not in order.
func orderLevels(seen, order []string) []string {
	if order == nil {
		return seen
	}
	present := map[string]bool{}
	for _, l := range seen {
		present[l] = true
	}
	var out []string
	for _, l := range order {
		if present[l] {
			out = append(out, l)
			delete(present, l)
		}
	}
	for _, l := range seen {
		if present[l] {
			out = append(out, l)
		}
	}
	return out
}

// pairs returns the pairs of levels selected by c.
func (c Comparison) pairs(levels []string) ([][2]string, error) {
	if c.Pairs != nil {
		known := map[string]bool{}
		for _, l := range levels {
			known[l] = true
		}
		for _, p := range c.Pairs {
			for _, l := range p {
				if !known[l] {
					return nil, fmt.Errorf("unknown level %s", l)
				}
			}
		}
		return c.Pairs, nil
	}

	var pairs [][2]string
	switch c.Pairing {
	case Pairwise:
		for i := range levels {
			for j := i + 1; j < len(levels); j++ {
				pairs = append(pairs, [2]string{levels[j], levels[i]})
			}
		}
	case Ordered:
		for i := 1; i < len(levels); i++ {
			pairs = append(pairs, [2]string{levels[i], levels[i-1]})
		}
	case Control:
		for i := 1; i < len(levels); i++ {
			pairs = append(pairs, [2]string{levels[i], levels[0]})
		}
	default:
		return nil, fmt.Errorf("unknown pairing %v", c.Pairing)
	}
	return pairs, nil
}
