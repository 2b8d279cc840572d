// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tabutil contains small helpers over go-gg tables that are
// shared by the tidying, summarizing, and plotting packages.
package tabutil

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// GroupCols returns the columns of g that are constant columns in
// every group of g, in column order.
func GroupCols(g table.Grouping) []string {
	gids := g.Tables()
	if len(gids) == 0 {
		return nil
	}
	var cols []string
	for _, col := range g.Columns() {
		isConst := true
		for _, gid := range gids {
			if _, ok := g.Table(gid).Const(col); !ok {
				isConst = false
				break
			}
		}
		if isConst {
			cols = append(cols, col)
		}
	}
	return cols
}

// At returns element i of seq.
func At(seq table.Slice, i int) interface{} {
	return reflect.ValueOf(seq).Index(i).Interface()
}

// Has reports whether g has column col.
func Has(g table.Grouping, col string) bool {
	for _, c := range g.Columns() {
		if c == col {
			return true
		}
	}
	return false
}

// IsNumeric reports whether seq is a slice of integers or floats.
func IsNumeric(seq table.Slice) bool {
	return IsNumericType(reflect.TypeOf(seq))
}

// IsNumericType reports whether st is a slice type whose elements
// are integers or floats.
func IsNumericType(st reflect.Type) bool {
	if st == nil || st.Kind() != reflect.Slice {
		return false
	}
	switch st.Elem().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// IsIntegerType reports whether st is a slice type whose elements
// are integers.
func IsIntegerType(st reflect.Type) bool {
	if !IsNumericType(st) {
		return false
	}
	k := st.Elem().Kind()
	return k != reflect.Float32 && k != reflect.Float64
}

// Floats converts a numeric column to []float64. It returns false if
// seq is not numeric.
func Floats(seq table.Slice) ([]float64, bool) {
	if !IsNumeric(seq) {
		return nil, false
	}
	var xs []float64
	slice.Convert(&xs, seq)
	return xs, true
}

// Finite returns the elements of xs that are neither NaN nor
// infinite. If all of xs is finite, it returns xs itself.
func Finite(xs []float64) []float64 {
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			out := append([]float64(nil), xs[:i]...)
			for _, x := range xs[i+1:] {
				if !math.IsNaN(x) && !math.IsInf(x, 0) {
					out = append(out, x)
				}
			}
			return out
		}
	}
	return xs
}

// Key formats vals as a single string suitable for use as a map key.
func Key(vals ...interface{}) string {
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(0)
		}
		fmt.Fprint(&b, v)
	}
	return b.String()
}
