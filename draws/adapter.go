// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package draws

import (
	"fmt"
	"sync"

	"github.com/aclements/go-gg/table"
)

// A Drawer is a fitted model that can produce its own draw table.
// Extract prefers this method over any registered Adapter.
type Drawer interface {
	Draws() (*table.Table, error)
}

// An Adapter extracts draw tables from one kind of sampler output.
type Adapter interface {
	// Name is a short name for the kind of sampler output.
	Name() string

	// Match reports whether this Adapter handles fit.
	Match(fit interface{}) bool

	// Draws returns the draw table of fit. It is only called if
	// Match(fit) is true.
	Draws(fit interface{}) (*table.Table, error)
}

var (
	adaptersMu sync.RWMutex
	adapters   []Adapter
)

// Register makes an Adapter available to Extract. Adapters are tried
// in registration order. Register panics if a is nil or if an Adapter
// with the same name is already registered.
func Register(a Adapter) {
	adaptersMu.Lock()
	defer adaptersMu.Unlock()
	if a == nil {
		panic("draws: Register adapter is nil")
	}
	for _, a2 := range adapters {
		if a2.Name() == a.Name() {
			panic("draws: Register called twice for adapter " + a.Name())
		}
	}
	adapters = append(adapters, a)
}

// Adapters returns the names of the registered adapters.
func Adapters() []string {
	adaptersMu.RLock()
	defer adaptersMu.RUnlock()
	var names []string
	for _, a := range adapters {
		names = append(names, a.Name())
	}
	return names
}

// optionalKinds are kinds of sampler output whose adapters live in
// separate packages. They are only consulted when no registered
// Adapter matches.
var optionalKinds = []struct {
	match            func(fit interface{}) bool
	library, purpose string
}{
	{
		func(fit interface{}) bool { _, ok := fit.(CSVFiles); return ok },
		"github.com/aclements/go-tidydraws/draws/stancsv",
		"reading CmdStan CSV output",
	},
}

// Extract returns the draw table of fit. If fit implements Drawer,
// Extract uses its Draws method. Otherwise, it uses the first
// registered Adapter that matches fit. The result is normalized (see
// Normalize).
//
// If fit is a known kind of sampler output whose adapter is not
// linked into the program, Extract returns a *MissingDependencyError.
// If no adapter handles fit at all, it returns an
// *UnsupportedModelError.
func Extract(fit interface{}) (*table.Table, error) {
	if d, ok := fit.(Drawer); ok {
		t, err := d.Draws()
		if err != nil {
			return nil, err
		}
		return Normalize(t)
	}

	adaptersMu.RLock()
	var match Adapter
	for _, a := range adapters {
		if a.Match(fit) {
			match = a
			break
		}
	}
	adaptersMu.RUnlock()

	if match != nil {
		t, err := match.Draws(fit)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", match.Name(), err)
		}
		return Normalize(t)
	}

	for _, kind := range optionalKinds {
		if kind.match(fit) {
			return nil, &MissingDependencyError{Library: kind.library, Purpose: kind.purpose}
		}
	}
	return nil, &UnsupportedModelError{Type: fmt.Sprintf("%T", fit)}
}

// UnsupportedModelError is returned by Extract when no adapter can
// handle a model.
type UnsupportedModelError struct {
	// Type is the Go type of the model.
	Type string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("no draws adapter for model of type %s", e.Type)
}

// MissingDependencyError is returned by Extract when the adapter for
// a model is provided by a package that is not linked into the
// program.
type MissingDependencyError struct {
	Library string
	Purpose string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%s requires package %s; import it with import _ %q", e.Purpose, e.Library, e.Library)
}

type tableAdapter struct{}

func (tableAdapter) Name() string { return "table" }

func (tableAdapter) Match(fit interface{}) bool {
	_, ok := fit.(*table.Table)
	return ok
}

func (tableAdapter) Draws(fit interface{}) (*table.Table, error) {
	return fit.(*table.Table), nil
}

type chainsAdapter struct{}

func (chainsAdapter) Name() string { return "chains" }

func (chainsAdapter) Match(fit interface{}) bool {
	switch fit.(type) {
	case Chains, *Chains:
		return true
	}
	return false
}

func (chainsAdapter) Draws(fit interface{}) (*table.Table, error) {
	switch fit := fit.(type) {
	case *Chains:
		return fit.Table()
	default:
		return fit.(Chains).Table()
	}
}

func init() {
	Register(tableAdapter{})
	Register(chainsAdapter{})
}
