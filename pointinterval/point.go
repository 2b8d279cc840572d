// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pointinterval

import (
	"fmt"
	"math"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
)

// A Point is a kind of point estimate.
type Point int

const (
	// Mean is the arithmetic mean of a sample.
	Mean Point = iota

	// Median is the 50th percentile of a sample.
	Median

	// Mode is the most likely value of a sample. For continuous
	// samples, this is the maximum of a Gaussian kernel density
	// estimate. For discrete samples, it is the most frequent
	// value.
	Mode
)

func (p Point) String() string {
	switch p {
	case Mean:
		return "mean"
	case Median:
		return "median"
	case Mode:
		return "mode"
	}
	return fmt.Sprintf("Point(%d)", int(p))
}

// ParsePoint returns the Point named s.
func ParsePoint(s string) (Point, error) {
	for _, p := range []Point{Mean, Median, Mode} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown point estimate %q", s)
}

// Estimate returns the point estimate of sample xs. If discrete is
// true, the values of xs are treated as discrete categories, which
// only affects Mode. xs must not contain NaNs.
func (p Point) Estimate(xs []float64, discrete bool) (float64, error) {
	if len(xs) == 0 {
		return 0, &InsufficientDataError{N: 0}
	}
	switch p {
	case Mean:
		return stats.Mean(xs), nil
	case Median:
		return stats.Sample{Xs: xs}.Quantile(0.5), nil
	case Mode:
		if discrete {
			return discreteMode(xs), nil
		}
		return kdeMode(xs), nil
	}
	return 0, fmt.Errorf("unknown point estimate %v", p)
}

// modeGridSize is the number of points at which the density estimate
// is evaluated to find the mode.
const modeGridSize = 512

// kdeMode returns the location of the maximum of a Gaussian kernel
// density estimate of xs, evaluated on a grid spanning the range of
// xs widened by 3 bandwidths.
func kdeMode(xs []float64) float64 {
	if len(xs) == 1 {
		return xs[0]
	}
	min, max := stats.Bounds(xs)
	if min == max || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return discreteMode(xs)
	}

	kde := &stats.KDE{Sample: stats.Sample{Xs: xs}, Kernel: stats.GaussianKernel}
	kde.Bandwidth = stats.BandwidthScott(kde.Sample)
	if !(kde.Bandwidth > 0) {
		// The interquartile range is 0 when most of the
		// sample is one value.
		kde.Bandwidth = stats.BandwidthSilverman(kde.Sample)
	}
	grid := vec.Linspace(min-3*kde.Bandwidth, max+3*kde.Bandwidth, modeGridSize)
	return grid[slice.ArgMax(vec.Map(kde.PDF, grid))]
}

// discreteMode returns the most frequent value of xs. Ties are broken
// in favor of the smallest value.
func discreteMode(xs []float64) float64 {
	sorted := stats.Sample{Xs: xs}.Copy().Sort().Xs
	best, bestN := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestN {
			best, bestN = sorted[i], j-i
		}
		i = j
	}
	return best
}
