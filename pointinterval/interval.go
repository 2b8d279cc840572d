// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pointinterval

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
)

// An Interval is a kind of credible interval.
type Interval int

const (
	// QI is the equal-tailed quantile interval.
	QI Interval = iota

	// HDI is the highest-density interval.
	HDI
)

func (i Interval) String() string {
	switch i {
	case QI:
		return "qi"
	case HDI:
		return "hdi"
	}
	return fmt.Sprintf("Interval(%d)", int(i))
}

// ParseInterval returns the Interval named s.
func ParseInterval(s string) (Interval, error) {
	for _, i := range []Interval{QI, HDI} {
		if i.String() == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown interval %q", s)
}

// Bounds returns the interval of kind i containing probability prob
// of sample xs. xs must not contain NaNs.
func (i Interval) Bounds(xs []float64, prob float64) (lo, hi float64, err error) {
	if err := checkProb(prob); err != nil {
		return 0, 0, err
	}
	if len(xs) == 0 {
		return 0, 0, &InsufficientDataError{N: 0}
	}
	switch i {
	case QI:
		lo, hi = QuantileInterval(xs, prob)
	case HDI:
		lo, hi = HighestDensityInterval(xs, prob)
	default:
		return 0, 0, fmt.Errorf("unknown interval %v", i)
	}
	return lo, hi, nil
}

func checkProb(prob float64) error {
	if !(prob > 0 && prob < 1) {
		return &ProbabilityError{prob}
	}
	return nil
}

// QuantileInterval returns the equal-tailed interval of xs containing
// probability prob: the (1-prob)/2 and (1+prob)/2 quantiles of xs.
func QuantileInterval(xs []float64, prob float64) (lo, hi float64) {
	s := stats.Sample{Xs: xs}
	s = *s.Copy().Sort()
	return s.Quantile((1 - prob) / 2), s.Quantile((1 + prob) / 2)
}

// HighestDensityInterval returns the narrowest interval spanning
// ceil(prob*len(xs)) values of xs. If several intervals are equally
// narrow, it returns the lowest one.
func HighestDensityInterval(xs []float64, prob float64) (lo, hi float64) {
	sorted := stats.Sample{Xs: xs}.Copy().Sort().Xs

	n := len(sorted)
	// Allow for rounding error in prob*n.
	k := int(math.Ceil(prob*float64(n) - 1e-9))
	if k < 1 {
		k = 1
	} else if k > n {
		k = n
	}
	best := 0
	for i := 1; i+k-1 < n; i++ {
		if sorted[i+k-1]-sorted[i] < sorted[best+k-1]-sorted[best] {
			best = i
		}
	}
	return sorted[best], sorted[best+k-1]
}
