// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pointinterval summarizes samples by a point estimate and
// one or more credible intervals.
//
// The summarizers operate on go-gg tables and respect their grouping,
// so the result of tidy.Spread can be summarized directly:
//
//	g, err := tidy.Spread(model, tidy.MustParseSpec("b[condition]"))
//	...
//	sum, err := pointinterval.MedianQI(g, 0.95, 0.66)
//
// A Summary also implements gg.Stat, so it can be applied to the data
// of a plot with Plot.Stat.
package pointinterval

import (
	"fmt"
	"math"
	"reflect"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-tidydraws/draws"
	"github.com/aclements/go-tidydraws/internal/tabutil"
)

// Columns of a summary table.
const (
	// EstimateCol, LowCol, and HighCol are the point estimate and
	// interval bounds of a summary of a single column.
	EstimateCol = "estimate"
	LowCol      = "low"
	HighCol     = "high"

	// ProbCol is the probability level of each interval.
	ProbCol = "prob"

	// PointCol and IntervalCol name the kinds of point estimate
	// and interval in a summary.
	PointCol    = ".point"
	IntervalCol = ".interval"
)

// DefaultProbs is the probability level used when none are given.
var DefaultProbs = []float64{0.95}

// An Expr is a value derived from the columns of each row, such as
// the difference of two variables.
type Expr struct {
	// Name is the name of the derived value in the summary.
	Name string

	// Cols are the columns passed to Fn, in order.
	Cols []string

	// Fn computes the derived value of one row. Rows where Fn
	// returns NaN are ignored.
	Fn func(vals []float64) float64
}

// Summary summarizes each group of a table by a point estimate and
// intervals at one or more probability levels.
//
// The result of a Summary has the same groups as its input (further
// divided by By), with one row per probability level, in the order of
// Probs. Group columns of the input are constant columns of the
// result.
//
// If the Summary summarizes a single column and no expressions, the
// point estimate and interval bounds are in columns EstimateCol,
// LowCol, and HighCol. Otherwise, the summary of a column or
// expression named x is in columns x, x.low, and x.high.
//
// Only numeric columns can be summarized. Mode treats integer columns,
// such as factor codes, as discrete and reports their most frequent
// value. A factor column already recovered to level names ([]string)
// is not numeric and cannot be summarized; summarize its codes, or
// group by it instead.
type Summary struct {
	// Cols are the columns to summarize. If both Cols and Exprs
	// are empty, every numeric column is summarized except
	// special draw columns and group columns.
	Cols []string

	// Exprs are derived values to summarize.
	Exprs []Expr

	// By optionally further groups the input by these columns
	// before summarizing.
	By []string

	Point    Point
	Interval Interval

	// Probs are the probability levels of the intervals. Each
	// must be in (0, 1). If empty, DefaultProbs is used.
	Probs []float64
}

// Summarize computes the summary of g.
func (s Summary) Summarize(g table.Grouping) (table.Grouping, error) {
	probs := s.Probs
	if len(probs) == 0 {
		probs = DefaultProbs
	}
	for _, p := range probs {
		if err := checkProb(p); err != nil {
			return nil, err
		}
	}
	for _, col := range s.By {
		if !tabutil.Has(g, col) {
			return nil, fmt.Errorf("unknown column %s", col)
		}
	}
	if len(s.By) > 0 {
		g = table.GroupBy(g, s.By...)
	}
	groupCols := tabutil.GroupCols(g)

	cols, err := s.columns(g, groupCols)
	if err != nil {
		return nil, err
	}
	for _, e := range s.Exprs {
		for _, col := range e.Cols {
			if !tabutil.Has(g, col) {
				return nil, fmt.Errorf("expression %s: unknown column %s", e.Name, col)
			}
		}
	}
	bare := len(cols) == 1 && len(s.Exprs) == 0

	var ng table.GroupingBuilder
	for _, gid := range g.Tables() {
		t := g.Table(gid)
		nt := table.NewBuilder(nil)
		for _, col := range groupCols {
			v, _ := t.Const(col)
			nt.AddConst(col, v)
		}

		add := func(name string, xs []float64, discrete bool) error {
			xs = dropNaN(xs)
			if len(xs) == 0 {
				return &InsufficientDataError{Column: name, Group: gid, N: 0}
			}
			est, err := s.Point.Estimate(xs, discrete)
			if err != nil {
				return err
			}
			ests, lows, highs := make([]float64, len(probs)), make([]float64, len(probs)), make([]float64, len(probs))
			for i, p := range probs {
				lo, hi, err := s.Interval.Bounds(xs, p)
				if err != nil {
					return err
				}
				ests[i], lows[i], highs[i] = est, lo, hi
			}
			if bare {
				nt.Add(EstimateCol, ests).Add(LowCol, lows).Add(HighCol, highs)
			} else {
				nt.Add(name, ests).Add(name+".low", lows).Add(name+".high", highs)
			}
			return nil
		}

		for _, col := range cols {
			seq := t.MustColumn(col)
			xs, ok := tabutil.Floats(seq)
			if !ok {
				return nil, fmt.Errorf("column %s is not numeric", col)
			}
			if err := add(col, xs, tabutil.IsIntegerType(reflect.TypeOf(seq))); err != nil {
				return nil, err
			}
		}
		for _, e := range s.Exprs {
			if err := add(e.Name, evalExpr(e, t), false); err != nil {
				return nil, err
			}
		}

		nt.Add(ProbCol, append([]float64(nil), probs...))
		nt.AddConst(PointCol, s.Point.String())
		nt.AddConst(IntervalCol, s.Interval.String())
		ng.Add(gid, nt.Done())
	}
	return ng.Done(), nil
}

// F computes the summary of g and panics if that fails. This makes
// Summary a gg.Stat.
func (s Summary) F(g table.Grouping) table.Grouping {
	out, err := s.Summarize(g)
	if err != nil {
		panic(err)
	}
	return out
}

// columns returns the columns of g that s summarizes.
func (s Summary) columns(g table.Grouping, groupCols []string) ([]string, error) {
	if len(s.Cols) > 0 {
		for _, col := range s.Cols {
			if !tabutil.Has(g, col) {
				return nil, fmt.Errorf("unknown column %s", col)
			}
		}
		return s.Cols, nil
	}
	if len(s.Exprs) > 0 {
		return nil, nil
	}

	isGroup := map[string]bool{}
	for _, col := range groupCols {
		isGroup[col] = true
	}
	var cols []string
	for _, col := range g.Columns() {
		if draws.IsSpecial(col) || isGroup[col] {
			continue
		}
		if tabutil.IsNumericType(table.ColType(g, col)) {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no numeric columns to summarize")
	}
	return cols, nil
}

func evalExpr(e Expr, t *table.Table) []float64 {
	args := make([][]float64, len(e.Cols))
	for i, col := range e.Cols {
		xs, ok := tabutil.Floats(t.MustColumn(col))
		if !ok {
			xs = make([]float64, t.Len())
			for j := range xs {
				xs[j] = math.NaN()
			}
		}
		args[i] = xs
	}
	out := make([]float64, t.Len())
	vals := make([]float64, len(e.Cols))
	for row := range out {
		for i := range args {
			vals[i] = args[i][row]
		}
		out[row] = e.Fn(vals)
	}
	return out
}

func dropNaN(xs []float64) []float64 {
	out := xs[:0:0]
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// summarize is the common body of the conventional summarizers.
func summarize(point Point, interval Interval, g table.Grouping, probs []float64) (table.Grouping, error) {
	return Summary{Point: point, Interval: interval, Probs: probs}.Summarize(g)
}

// MeanQI summarizes every value column of g by its mean and quantile
// intervals at probs.
func MeanQI(g table.Grouping, probs ...float64) (table.Grouping, error) {
	return summarize(Mean, QI, g, probs)
}

// MedianQI summarizes every value column of g by its median and
// quantile intervals at probs.
func MedianQI(g table.Grouping, probs ...float64) (table.Grouping, error) {
	return summarize(Median, QI, g, probs)
}

// ModeQI summarizes every value column of g by its mode and quantile
// intervals at probs.
func ModeQI(g table.Grouping, probs ...float64) (table.Grouping, error) {
	return summarize(Mode, QI, g, probs)
}

// MeanHDI summarizes every value column of g by its mean and
// highest-density intervals at probs.
func MeanHDI(g table.Grouping, probs ...float64) (table.Grouping, error) {
	return summarize(Mean, HDI, g, probs)
}

// MedianHDI summarizes every value column of g by its median and
// highest-density intervals at probs.
func MedianHDI(g table.Grouping, probs ...float64) (table.Grouping, error) {
	return summarize(Median, HDI, g, probs)
}

// ModeHDI summarizes every value column of g by its mode and
// highest-density intervals at probs.
func ModeHDI(g table.Grouping, probs ...float64) (table.Grouping, error) {
	return summarize(Mode, HDI, g, probs)
}

// ParseSummary returns the Summary named by a conventional name such
// as "median_qi" or "mode_hdi".
func ParseSummary(name string) (Summary, error) {
	for _, p := range []Point{Mean, Median, Mode} {
		for _, i := range []Interval{QI, HDI} {
			if name == p.String()+"_"+i.String() {
				return Summary{Point: p, Interval: i}, nil
			}
		}
	}
	return Summary{}, fmt.Errorf("unknown summary %q", name)
}

// ProbabilityError is returned for a probability level outside (0, 1).
type ProbabilityError struct {
	Prob float64
}

func (e *ProbabilityError) Error() string {
	return fmt.Sprintf("probability %v out of range (0, 1)", e.Prob)
}

// InsufficientDataError is returned when a group has too few values
// to summarize.
type InsufficientDataError struct {
	Column string
	Group  table.GroupID
	N      int
}

func (e *InsufficientDataError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("insufficient data: %d values", e.N)
	}
	return fmt.Sprintf("insufficient data to summarize %s in group %v: %d values", e.Column, e.Group, e.N)
}
