// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package draws

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-tidydraws/internal/tabutil"
)

// A Constructor converts a column of raw sampler output (numeric
// index codes or values) back into the type it had in the data the
// model was fit to.
type Constructor interface {
	// Convert returns a new column holding the converted values
	// of col. It does not modify col.
	Convert(col table.Slice) (table.Slice, error)
}

// FactorType recovers a categorical column. Samplers see a factor as
// its 1-based integer codes; FactorType maps code i back to
// Levels[i-1]. Values that are already level names are kept, as is
// "", which marks an absent index token.
//
// The converted column has type []string, which loses the order of
// Levels; Registry.Levels recovers it. Ordered only records whether
// the levels have an inherent order. Nothing in this module treats
// ordered and unordered factors differently.
type FactorType struct {
	Levels  []string
	Ordered bool
}

func (f FactorType) Convert(col table.Slice) (table.Slice, error) {
	isLevel := make(map[string]bool, len(f.Levels))
	for _, l := range f.Levels {
		isLevel[l] = true
	}
	level := func(code float64, raw interface{}) (string, error) {
		if code != math.Trunc(code) || code < 1 || int(code) > len(f.Levels) {
			return "", &ConversionError{Value: fmt.Sprint(raw), Reason: fmt.Sprintf("not a level code in 1..%d", len(f.Levels))}
		}
		return f.Levels[int(code)-1], nil
	}

	switch col := col.(type) {
	case []string:
		out := make([]string, len(col))
		for i, s := range col {
			if s == "" || isLevel[s] {
				out[i] = s
				continue
			}
			code, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, &ConversionError{Value: s, Reason: "neither a level nor a level code"}
			}
			if out[i], err = level(code, s); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	xs, ok := tabutil.Floats(col)
	if !ok {
		return nil, fmt.Errorf("cannot convert column of type %T to a factor", col)
	}
	out := make([]string, len(xs))
	for i, x := range xs {
		var err error
		if out[i], err = level(x, tabutil.At(col, i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// BoolType recovers a logical column. Numbers are true if they are
// non-zero. Strings are parsed by strconv.ParseBool.
//
// The converted column has type []bool, unless it is a string column
// with absent index tokens (""). Then it has type []string holding
// "true", "false", and "".
type BoolType struct{}

func (BoolType) Convert(col table.Slice) (table.Slice, error) {
	switch col := col.(type) {
	case []bool:
		return append([]bool(nil), col...), nil
	case []string:
		out := make([]bool, len(col))
		holes := false
		for i, s := range col {
			if s == "" {
				holes = true
				continue
			}
			b, err := strconv.ParseBool(s)
			if err != nil {
				return nil, &ConversionError{Value: s, Reason: "not a boolean"}
			}
			out[i] = b
		}
		if !holes {
			return out, nil
		}
		strs := make([]string, len(col))
		for i, s := range col {
			if s != "" {
				strs[i] = strconv.FormatBool(out[i])
			}
		}
		return strs, nil
	}

	xs, ok := tabutil.Floats(col)
	if !ok {
		return nil, fmt.Errorf("cannot convert column of type %T to booleans", col)
	}
	out := make([]bool, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) {
			return nil, &ConversionError{Value: "NaN", Reason: "not a boolean"}
		}
		out[i] = x != 0
	}
	return out, nil
}

// IdentityType leaves a column as it is.
type IdentityType struct{}

func (IdentityType) Convert(col table.Slice) (table.Slice, error) {
	return col, nil
}

// ConversionError is returned by a Constructor when a value cannot be
// converted.
type ConversionError struct {
	// Column is the name of the column being converted, if known.
	Column string
	Value  string
	Reason string
}

func (e *ConversionError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("cannot convert %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("column %s: cannot convert %q: %s", e.Column, e.Value, e.Reason)
}

// A Prototype associates a column name with the Constructor that
// recovers its type.
type Prototype struct {
	Name string
	Type Constructor
}

// Factor returns a prototype for an unordered factor with the given
// levels.
func Factor(name string, levels ...string) Prototype {
	return Prototype{name, FactorType{Levels: levels}}
}

// OrderedFactor returns a prototype for an ordered factor with the
// given levels, from lowest to highest.
func OrderedFactor(name string, levels ...string) Prototype {
	return Prototype{name, FactorType{Levels: levels, Ordered: true}}
}

// Bool returns a prototype for a logical column.
func Bool(name string) Prototype {
	return Prototype{name, BoolType{}}
}

// Identity returns a prototype that leaves column name as the sampler
// produced it. It can be used to undo an earlier prototype.
func Identity(name string) Prototype {
	return Prototype{name, IdentityType{}}
}

// PrototypesFromTable derives prototypes from the columns of t, which
// is typically the data a model was fit to. String columns become
// factors whose levels are the sorted distinct values of the column,
// boolean columns become Bool, and all other columns become Identity.
func PrototypesFromTable(t *table.Table) []Prototype {
	var protos []Prototype
	for _, col := range t.Columns() {
		seq := t.MustColumn(col)
		switch seq := seq.(type) {
		case []string:
			levels := slice.Nub(seq).([]string)
			levels = append([]string(nil), levels...)
			sort.Strings(levels)
			protos = append(protos, Factor(col, levels...))
		case []bool:
			protos = append(protos, Bool(col))
		default:
			if reflect.TypeOf(seq).Elem().Kind() == reflect.Bool {
				protos = append(protos, Bool(col))
			} else {
				protos = append(protos, Identity(col))
			}
		}
	}
	return protos
}
