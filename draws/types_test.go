// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package draws

import (
	"errors"
	"testing"

	"github.com/aclements/go-gg/table"
)

func TestFactorConvert(t *testing.T) {
	f := FactorType{Levels: []string{"A", "B", "C"}}
	for _, test := range []struct {
		in   table.Slice
		want []string
	}{
		{[]int{1, 2, 3}, []string{"A", "B", "C"}},
		{[]float64{3, 1}, []string{"C", "A"}},
		{[]string{"2", "A", "C"}, []string{"B", "A", "C"}},
		{[]string{"1", ""}, []string{"A", ""}},
	} {
		got, err := f.Convert(test.in)
		if err != nil {
			t.Errorf("Convert(%v): %v", test.in, err)
			continue
		}
		if !de(test.want, got) {
			t.Errorf("Convert(%v) should be %v; got %v", test.in, test.want, got)
		}
	}

	for _, bad := range []table.Slice{[]int{0}, []int{4}, []float64{1.5}, []string{"D"}} {
		_, err := f.Convert(bad)
		var ce *ConversionError
		if !errors.As(err, &ce) {
			t.Errorf("Convert(%v) should fail with ConversionError; got %v", bad, err)
		}
	}
}

func TestBoolConvert(t *testing.T) {
	for _, test := range []struct {
		in   table.Slice
		want []bool
	}{
		{[]int{0, 1, 2}, []bool{false, true, true}},
		{[]float64{1, 0}, []bool{true, false}},
		{[]string{"TRUE", "false", "1"}, []bool{true, false, true}},
	} {
		got, err := BoolType{}.Convert(test.in)
		if err != nil {
			t.Errorf("Convert(%v): %v", test.in, err)
			continue
		}
		if !de(test.want, got) {
			t.Errorf("Convert(%v) should be %v; got %v", test.in, test.want, got)
		}
	}
	// Absent tokens keep the column as strings.
	got, err := BoolType{}.Convert([]string{"1", "", "FALSE"})
	if want := []string{"true", "", "false"}; err != nil || !de(want, got) {
		t.Errorf("Convert([1  FALSE]) should be %v; got %v, %v", want, got, err)
	}

	if _, err := (BoolType{}).Convert([]string{"maybe"}); err == nil {
		t.Errorf("Convert(maybe) should fail")
	}
}

func TestRecoverTypes(t *testing.T) {
	m := NewModel(nil)
	m.RecoverTypes(Factor("g", "x", "y"), Bool("flag"))
	m.RecoverTypes(Factor("g", "p", "q", "r"))

	types := m.Types()
	if len(types) != 2 {
		t.Fatalf("want 2 types; got %v", types)
	}
	if f, ok := types["g"].(FactorType); !ok || !de(f.Levels, []string{"p", "q", "r"}) {
		t.Errorf("later RecoverTypes should overwrite g; got %#v", types["g"])
	}
	if _, ok := types["flag"].(BoolType); !ok {
		t.Errorf("earlier RecoverTypes should be kept; got %#v", types["flag"])
	}

	if want := []string{"p", "q", "r"}; !de(want, types.Levels("g")) {
		t.Errorf("Levels(g) should be %v; got %v", want, types.Levels("g"))
	}
	if types.Levels("flag") != nil {
		t.Errorf("Levels(flag) should be nil; got %v", types.Levels("flag"))
	}

	// Types returns a copy.
	delete(types, "g")
	if _, ok := m.Types()["g"]; !ok {
		t.Errorf("modifying Types result changed the model")
	}
}

func TestRegistryConvert(t *testing.T) {
	tab := new(table.Builder).
		Add(DrawCol, []int{1, 2}).
		Add("g", []int{2, 1}).
		Add("v", []float64{0.5, 0.25}).
		Done()
	r := Registry{"g": FactorType{Levels: []string{"lo", "hi"}}, DrawCol: BoolType{}}
	nt, err := r.Convert(tab)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"hi", "lo"}; !de(want, nt.MustColumn("g")) {
		t.Errorf("g should be %v; got %v", want, nt.MustColumn("g"))
	}
	if want := []int{1, 2}; !de(want, nt.MustColumn(DrawCol)) {
		t.Errorf("special columns should not be converted; got %v", nt.MustColumn(DrawCol))
	}
	// The input is not modified.
	if want := []int{2, 1}; !de(want, tab.MustColumn("g")) {
		t.Errorf("input modified: %v", tab.MustColumn("g"))
	}

	r = Registry{"g": FactorType{Levels: []string{"lo"}}}
	_, err = r.Convert(tab)
	var ce *ConversionError
	if !errors.As(err, &ce) || ce.Column != "g" {
		t.Errorf("want ConversionError for column g; got %v", err)
	}
}

func TestPrototypesFromTable(t *testing.T) {
	data := new(table.Builder).
		Add("condition", []string{"B", "A", "B", "C"}).
		Add("treated", []bool{true, false, true, false}).
		Add("y", []float64{1, 2, 3, 4}).
		Done()
	protos := PrototypesFromTable(data)
	if len(protos) != 3 {
		t.Fatalf("want 3 prototypes; got %v", protos)
	}
	if f, ok := protos[0].Type.(FactorType); !ok || !de(f.Levels, []string{"A", "B", "C"}) {
		t.Errorf("condition should be a factor with levels A B C; got %#v", protos[0])
	}
	if _, ok := protos[1].Type.(BoolType); !ok {
		t.Errorf("treated should be Bool; got %#v", protos[1])
	}
	if _, ok := protos[2].Type.(IdentityType); !ok {
		t.Errorf("y should be Identity; got %#v", protos[2])
	}
}
