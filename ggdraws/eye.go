// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ggdraws provides go-gg plotters for visualizing posterior
// draws and their summaries.
//
// Eye draws the density of a variable together with its point
// estimate and credible intervals. Intervals draws point estimates and
// intervals from a summary table produced by package pointinterval.
package ggdraws

import (
	"image/color"
	"math"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-tidydraws/pointinterval"
)

// Columns produced by the plotters in this package.
const (
	densityCol = "probability density"
	lowerCol   = "lower density"
	pathXCol   = "interval x"
	pathYCol   = "interval y"
)

// Eye is a gg.Plotter that draws the kernel density of column X of
// tidy draws as a shaded area, along with its point estimate and
// nested credible intervals at the baseline. If Y is not "", the plot
// is faceted by Y, giving one eye per level.
type Eye struct {
	// X names the column of draws to plot.
	X string

	// Y optionally names a column to facet by.
	Y string

	// Point and Interval select the point estimate and the kind of
	// interval to draw.
	Point    pointinterval.Point
	Interval pointinterval.Interval

	// Probs are the probability levels of the intervals. If empty,
	// it defaults to 0.66 and 0.95.
	Probs []float64

	// Mirror reflects the density below the baseline, giving an
	// eye (violin) shape. Otherwise, Eye draws a half-eye.
	Mirror bool
}

func (e Eye) Apply(p *gg.Plot) {
	probs := e.Probs
	if len(probs) == 0 {
		probs = []float64{0.66, 0.95}
	}
	if e.Y != "" {
		p.Add(gg.FacetY{Col: e.Y})
	}
	p.Stat(finite{e.X})

	// Density.
	p.Save()
	p.Stat(ggstat.Density{X: e.X, Kernel: stats.GaussianKernel})
	lower := ""
	if e.Mirror {
		p.SetData(table.MapCols(p.Data(), func(d, neg []float64) {
			for i, y := range d {
				neg[i] = -y
			}
		}, densityCol)(lowerCol))
		lower = lowerCol
	}
	p.Add(gg.LayerArea{
		X:     e.X,
		Upper: densityCol,
		Lower: lower,
		Fill:  p.Const(color.Gray{192}),
	})
	p.Restore()

	// Point estimate and intervals on the baseline.
	p.Save()
	p.Stat(pointinterval.Summary{Cols: []string{e.X}, Point: e.Point, Interval: e.Interval, Probs: probs})
	p.Add(Intervals{})
	p.Restore()

	p.Add(gg.AxisLabel("x", e.X), gg.AxisLabel("y", "density"))
}

// Intervals is a gg.Plotter that draws each row of a point-interval
// summary as a horizontal line from its low to its high bound, with a
// point at its estimate. The plot data must be a summary of a single
// column, such as the result of pointinterval.MedianQI on one
// variable.
type Intervals struct {
	// Y optionally names the column giving the vertical position
	// of each interval. If Y is "", intervals are drawn at 0.
	Y string
}

func (l Intervals) Apply(p *gg.Plot) {
	y := l.Y
	defer p.Save().Restore()
	if y == "" {
		p.SetData(table.MapTables(p.Data(), func(_ table.GroupID, t *table.Table) *table.Table {
			return table.NewBuilder(t).Add(pathYCol, make([]float64, t.Len())).Done()
		}))
		y = pathYCol
	}

	p.Add(gg.LayerPoints{X: pointinterval.EstimateCol, Y: y})

	// One path per interval.
	p.GroupBy(pointinterval.ProbCol)
	if l.Y != "" {
		p.GroupBy(l.Y)
	}
	p.SetData(table.Unpivot(p.Data(), "bound", pathXCol, pointinterval.LowCol, pointinterval.HighCol))
	p.Add(gg.LayerPaths{X: pathXCol, Y: y})
}

// finite is a stat that converts column X to float64 and drops rows
// where it is NaN or infinite.
type finite struct {
	X string
}

func (f finite) F(g table.Grouping) table.Grouping {
	g = table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		var xs []float64
		slice.Convert(&xs, t.MustColumn(f.X))
		return table.NewBuilder(t).Add(f.X, xs).Done()
	})
	return table.Filter(g, func(x float64) bool {
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	}, f.X)
}

// EyePlot returns a new plot of the draws in g drawn by e.
func EyePlot(g table.Grouping, e Eye) *gg.Plot {
	return gg.NewPlot(g).Add(e)
}

// IntervalPlot returns a new plot of the point-interval summary sum,
// with one row of intervals per value of column y.
func IntervalPlot(sum table.Grouping, y string) *gg.Plot {
	return gg.NewPlot(sum).Add(Intervals{Y: y}, gg.AxisLabel("x", "estimate"))
}
