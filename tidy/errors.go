// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tidy

import "fmt"

// VariableNotFoundError is returned when no column of a draw table
// has a requested base name.
type VariableNotFoundError struct {
	Name string
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("variable %s not found in draws", e.Name)
}

// IndexParseError is returned when a parameter name or variable spec
// is malformed, or when a column's indices do not match the indices
// named by a spec.
type IndexParseError struct {
	Column string // Parameter column name, if any
	Spec   string // Variable spec, if any
	Msg    string
}

func (e *IndexParseError) Error() string {
	switch {
	case e.Column != "" && e.Spec != "":
		return fmt.Sprintf("column %s does not match spec %s: %s", e.Column, e.Spec, e.Msg)
	case e.Column != "":
		return fmt.Sprintf("bad parameter name %s: %s", e.Column, e.Msg)
	}
	return fmt.Sprintf("bad variable spec %q: %s", e.Spec, e.Msg)
}
