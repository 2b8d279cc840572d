// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package draws

import (
	"errors"
	"reflect"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/google/go-cmp/cmp"
)

func de(x, y interface{}) bool {
	return reflect.DeepEqual(x, y)
}

func TestChainsTable(t *testing.T) {
	c := Chains{
		Params: []string{"a", "b[1]"},
		Values: [][][]float64{
			{{1, 2}, {3, 4}},
			{{5, 6}},
		},
	}
	tab, err := c.Table()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{ChainCol, IterationCol, "a", "b[1]"}; !de(want, tab.Columns()) {
		t.Fatalf("columns should be %v; got %v", want, tab.Columns())
	}
	if diff := cmp.Diff([]int{1, 1, 2}, tab.MustColumn(ChainCol)); diff != "" {
		t.Errorf("chains (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 1}, tab.MustColumn(IterationCol)); diff != "" {
		t.Errorf("iterations (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{2, 4, 6}, tab.MustColumn("b[1]")); diff != "" {
		t.Errorf("b[1] (-want +got):\n%s", diff)
	}
	if want := []string{"a", "b[1]"}; !de(want, Params(tab)) {
		t.Errorf("Params should be %v; got %v", want, Params(tab))
	}

	c.Values[1] = append(c.Values[1], []float64{1})
	if _, err := c.Table(); err == nil {
		t.Fatalf("ragged chain should fail")
	}
}

func TestNoChain(t *testing.T) {
	tab := new(table.Builder).Add("x", []float64{1, 2, 3}).Done()
	if HasChains(tab) {
		t.Fatalf("HasChains should be false")
	}
	if want := []int{NoChain, NoChain, NoChain}; !de(want, ChainIDs(tab)) {
		t.Fatalf("ChainIDs should be %v; got %v", want, ChainIDs(tab))
	}
	if want := []int{1, 2, 3}; !de(want, Iterations(tab)) {
		t.Fatalf("Iterations should be %v; got %v", want, Iterations(tab))
	}
}

func TestIterationsPerChain(t *testing.T) {
	tab := new(table.Builder).
		Add(ChainCol, []int{1, 1, 2, 2, 2}).
		Add("x", []float64{1, 2, 3, 4, 5}).
		Done()
	if want := []int{1, 2, 1, 2, 3}; !de(want, Iterations(tab)) {
		t.Fatalf("Iterations should be %v; got %v", want, Iterations(tab))
	}
}

func TestNormalize(t *testing.T) {
	tab := new(table.Builder).
		Add(ChainCol, []int64{1, 1}).
		Add("n", []int{3, 4}).
		Add("x", []float64{0.5, 1.5}).
		Done()
	nt, err := Normalize(tab)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{1, 1}; !de(want, nt.MustColumn(ChainCol)) {
		t.Errorf("chain should be %v; got %v", want, nt.MustColumn(ChainCol))
	}
	if want := []float64{3, 4}; !de(want, nt.MustColumn("n")) {
		t.Errorf("n should be %v; got %v", want, nt.MustColumn("n"))
	}

	bad := new(table.Builder).Add("s", []string{"a"}).Done()
	if _, err := Normalize(bad); err == nil {
		t.Errorf("string parameter should fail")
	}
}

type drawer struct{ tab *table.Table }

func (d drawer) Draws() (*table.Table, error) { return d.tab, nil }

func TestExtract(t *testing.T) {
	tab := new(table.Builder).Add("x", []float64{1, 2}).Done()

	// Drawer capability.
	got, err := Extract(drawer{tab})
	if err != nil {
		t.Fatal(err)
	}
	if !de(got.MustColumn("x"), []float64{1, 2}) {
		t.Errorf("Drawer draws should be %v; got %v", []float64{1, 2}, got.MustColumn("x"))
	}

	// Built-in adapters.
	if _, err := Extract(tab); err != nil {
		t.Errorf("Extract(*table.Table) failed: %v", err)
	}
	if _, err := Extract(Chains{Params: []string{"x"}, Values: [][][]float64{{{1}}}}); err != nil {
		t.Errorf("Extract(Chains) failed: %v", err)
	}

	// Unsupported.
	_, err = Extract(42)
	var ue *UnsupportedModelError
	if !errors.As(err, &ue) {
		t.Fatalf("Extract(42) should fail with UnsupportedModelError; got %v", err)
	}
	if ue.Type != "int" {
		t.Errorf("UnsupportedModelError.Type should be int; got %s", ue.Type)
	}

	// Known kind without its adapter linked in. The stancsv
	// package is not imported by this test.
	_, err = Extract(CSVFiles{"fit.csv"})
	var me *MissingDependencyError
	if !errors.As(err, &me) {
		t.Fatalf("Extract(CSVFiles) should fail with MissingDependencyError; got %v", err)
	}
	if me.Library != "github.com/aclements/go-tidydraws/draws/stancsv" {
		t.Errorf("wrong library %q", me.Library)
	}
}

type fakeAdapter struct{}

func (fakeAdapter) Name() string { return "fake" }

func (fakeAdapter) Match(fit interface{}) bool {
	_, ok := fit.(map[string][]float64)
	return ok
}

func (fakeAdapter) Draws(fit interface{}) (*table.Table, error) {
	var b table.Builder
	for k, v := range fit.(map[string][]float64) {
		b.Add(k, v)
	}
	return b.Done(), nil
}

func TestRegister(t *testing.T) {
	Register(fakeAdapter{})
	got, err := Extract(map[string][]float64{"y": {7}})
	if err != nil {
		t.Fatal(err)
	}
	if !de(got.MustColumn("y"), []float64{7}) {
		t.Errorf("want y = [7]; got %v", got.MustColumn("y"))
	}

	defer func() {
		if recover() == nil {
			t.Errorf("duplicate Register should panic")
		}
	}()
	Register(fakeAdapter{})
}
