// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggdraws

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-tidydraws/draws"
	"github.com/aclements/go-tidydraws/pointinterval"
	"github.com/aclements/go-tidydraws/tidy"
)

func de(x, y interface{}) bool {
	return reflect.DeepEqual(x, y)
}

func normal(mu float64, n int) []float64 {
	d := stats.NormalDist{Mu: mu, Sigma: 1}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = d.InvCDF((float64(i) + 0.5) / float64(n))
	}
	return xs
}

func tidyDraws(t *testing.T) table.Grouping {
	tab := table.NewBuilder(nil).
		Add("b[1]", normal(0, 200)).
		Add("b[2]", normal(2, 200)).
		Done()
	m := draws.NewModel(tab).RecoverTypes(draws.Factor("condition", "A", "B"))
	g, err := tidy.Spread(m, tidy.MustParseSpec("b[condition]"))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func writeSVG(t *testing.T, render func(*bytes.Buffer) error) string {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Fatalf("output is not SVG: %.100s", buf.String())
	}
	return buf.String()
}

func TestEyePlot(t *testing.T) {
	g := tidyDraws(t)
	for _, mirror := range []bool{false, true} {
		p := EyePlot(g, Eye{X: "b", Y: "condition", Point: pointinterval.Median, Mirror: mirror})
		writeSVG(t, func(buf *bytes.Buffer) error { return p.WriteSVG(buf, 400, 300) })
	}
}

func TestEyePlotNaN(t *testing.T) {
	// Holes from joining variables are dropped.
	xs := normal(0, 50)
	xs[3] = math.NaN()
	tab := table.NewBuilder(nil).Add("x", xs).Done()
	p := EyePlot(tab, Eye{X: "x", Interval: pointinterval.HDI})
	writeSVG(t, func(buf *bytes.Buffer) error { return p.WriteSVG(buf, 300, 200) })
}

func TestIntervalPlot(t *testing.T) {
	sum, err := pointinterval.MedianQI(tidyDraws(t), 0.66, 0.95)
	if err != nil {
		t.Fatal(err)
	}
	p := IntervalPlot(sum, "condition")
	writeSVG(t, func(buf *bytes.Buffer) error { return p.WriteSVG(buf, 400, 200) })
}

func TestFinite(t *testing.T) {
	tab := table.NewBuilder(nil).
		Add("x", []float64{1, math.NaN(), math.Inf(1), 2}).
		Add("i", []int{1, 2, 3, 4}).
		Done()
	got := table.Flatten(finite{"x"}.F(tab))
	if want := []int{1, 4}; !de(want, got.MustColumn("i")) {
		t.Errorf("rows should be %v; got %v", want, got.MustColumn("i"))
	}

	// Integer columns are converted.
	got = table.Flatten(finite{"i"}.F(tab))
	if want := []float64{1, 2, 3, 4}; !de(want, got.MustColumn("i")) {
		t.Errorf("i should be %v; got %v", want, got.MustColumn("i"))
	}
}
