// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package draws

import (
	"errors"

	"github.com/aclements/go-gg/table"
)

// A Registry maps column names to the Constructors that recover their
// types.
type Registry map[string]Constructor

// Convert returns t with every column that has an entry in r replaced
// by its converted form. Each column is converted independently.
// Special columns are never converted.
func (r Registry) Convert(t *table.Table) (*table.Table, error) {
	if len(r) == 0 {
		return t, nil
	}
	b := table.NewBuilder(t)
	for _, col := range t.Columns() {
		c, ok := r[col]
		if !ok || IsSpecial(col) {
			continue
		}
		ncol, err := c.Convert(t.MustColumn(col))
		if err != nil {
			var ce *ConversionError
			if errors.As(err, &ce) && ce.Column == "" {
				ce.Column = col
			}
			return nil, err
		}
		b.Add(col, ncol)
	}
	return b.Done(), nil
}

// Levels returns the levels of column col if r recovers it as a
// factor, and otherwise nil.
func (r Registry) Levels(col string) []string {
	if f, ok := r[col].(FactorType); ok {
		return f.Levels
	}
	return nil
}

// A Model pairs a fitted model (any value Extract understands) with
// the registry used to recover the types of its indices and values.
type Model struct {
	// Fit is the fitted model or raw sampler output.
	Fit interface{}

	types Registry
}

// NewModel returns a Model for fit with an empty registry.
func NewModel(fit interface{}) *Model {
	return &Model{Fit: fit}
}

// RecoverTypes adds protos to m's registry. A prototype replaces any
// existing entry with the same name. It returns m.
//
// RecoverTypes does not change m.Fit or its draws; the recovered
// types are applied when draws are tidied.
func (m *Model) RecoverTypes(protos ...Prototype) *Model {
	if m.types == nil {
		m.types = make(Registry)
	}
	for _, p := range protos {
		m.types[p.Name] = p.Type
	}
	return m
}

// Types returns a copy of m's registry.
func (m *Model) Types() Registry {
	r := make(Registry, len(m.types))
	for k, v := range m.types {
		r[k] = v
	}
	return r
}

// Draws returns the draw table of m.Fit. See Extract.
func (m *Model) Draws() (*table.Table, error) {
	return Extract(m.Fit)
}
