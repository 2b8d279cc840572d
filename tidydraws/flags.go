// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/aclements/go-tidydraws/draws"
)

// factorFlag is a repeatable flag of the form name=level,level,...
type factorFlag []draws.Prototype

func (f *factorFlag) String() string {
	var parts []string
	for _, p := range *f {
		parts = append(parts, fmt.Sprintf("%s=%s", p.Name, strings.Join(p.Type.(draws.FactorType).Levels, ",")))
	}
	return strings.Join(parts, " ")
}

func (f *factorFlag) Set(s string) error {
	i := strings.IndexByte(s, '=')
	if i <= 0 || i == len(s)-1 {
		return fmt.Errorf("want name=level,...")
	}
	var levels []string
	for _, l := range strings.Split(s[i+1:], ",") {
		levels = append(levels, strings.TrimSpace(l))
	}
	*f = append(*f, draws.Factor(s[:i], levels...))
	return nil
}

// listFlag is a repeatable string flag.
type listFlag []string

func (f *listFlag) String() string {
	return strings.Join(*f, ",")
}

func (f *listFlag) Set(s string) error {
	*f = append(*f, s)
	return nil
}
