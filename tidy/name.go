// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tidy

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aclements/go-tidydraws/draws"
	lru "github.com/hashicorp/golang-lru/v2"
)

// A Name is a parsed sampler parameter name.
//
// The grammar of a parameter name is
//
//	name    = base [ "[" indices "]" ]
//	indices = token { delim token }
//	delim   = whitespace | "," | ":"
//
// Delimiters only separate tokens outside of parentheses, so
// "b[(Intercept) condition:D]" has the tokens "(Intercept)",
// "condition", and "D", and "b[f(x, y)]" has the single token
// "f(x, y)". Runs of delimiters separate a single pair of tokens.
type Name struct {
	Base string

	// Indices is the index tokens of the name, or nil if the name
	// has no brackets.
	Indices []string
}

func (n Name) String() string {
	if n.Indices == nil {
		return n.Base
	}
	return n.Base + "[" + strings.Join(n.Indices, ",") + "]"
}

type parsedName struct {
	name Name
	err  error
}

// nameCache caches parsed column names. Draw tables from the same
// sampler are often tidied many times with different specs.
var nameCache, _ = lru.New[string, parsedName](4096)

// ParseName parses a sampler parameter name.
func ParseName(s string) (Name, error) {
	if p, ok := nameCache.Get(s); ok {
		return p.name, p.err
	}
	n, err := parseName(s)
	nameCache.Add(s, parsedName{n, err})
	return n, err
}

func parseName(s string) (Name, error) {
	fail := func(format string, args ...interface{}) (Name, error) {
		return Name{}, &IndexParseError{Column: s, Msg: fmt.Sprintf(format, args...)}
	}

	open := strings.IndexByte(s, '[')
	if open < 0 {
		if strings.ContainsRune(s, ']') {
			return fail("unexpected ]")
		}
		return Name{Base: s}, nil
	}
	base := s[:open]
	if base == "" {
		return fail("missing base name")
	}
	rest := strings.TrimRightFunc(s[open+1:], unicode.IsSpace)
	if !strings.HasSuffix(rest, "]") {
		return fail("missing closing ]")
	}
	inner := rest[:len(rest)-1]

	indices := []string{}
	depth, start := 0, -1
	flush := func(end int) {
		if start >= 0 {
			indices = append(indices, inner[start:end])
			start = -1
		}
	}
	for i, r := range inner {
		switch {
		case r == '[' || r == ']':
			return fail("nested brackets")
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return fail("unbalanced )")
			}
		case depth == 0 && (r == ',' || r == ':' || unicode.IsSpace(r)):
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if depth != 0 {
		return fail("unbalanced (")
	}
	flush(len(inner))
	return Name{Base: base, Indices: indices}, nil
}

// A Spec requests one variable from a draw table and names the
// columns its indices are spread into.
type Spec struct {
	// Name is the base name of the variable.
	Name string

	// Indices names the column for each index of the variable,
	// in order. An empty index name drops that index. If the last
	// index name is empty, it also drops any further indices.
	Indices []string
}

// ParseSpec parses a variable spec of the form "b" or
// "b[term, group, condition]". Index names are separated by commas
// and may be empty, as in "b[, , condition]".
func ParseSpec(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	fail := func(msg string) (Spec, error) {
		return Spec{}, &IndexParseError{Spec: s, Msg: msg}
	}

	open := strings.IndexByte(s, '[')
	if open < 0 {
		if s == "" {
			return fail("empty spec")
		}
		if strings.ContainsAny(s, "]") {
			return fail("unexpected ]")
		}
		return Spec{Name: s}, nil
	}
	if !strings.HasSuffix(s, "]") {
		return fail("missing closing ]")
	}
	spec := Spec{Name: strings.TrimSpace(s[:open])}
	if spec.Name == "" {
		return fail("missing base name")
	}
	inner := s[open+1 : len(s)-1]
	if strings.ContainsAny(inner, "[]") {
		return fail("nested brackets")
	}
	if strings.TrimSpace(inner) != "" {
		for _, idx := range strings.Split(inner, ",") {
			spec.Indices = append(spec.Indices, strings.TrimSpace(idx))
		}
	}

	seen := map[string]bool{}
	for _, idx := range spec.Indices {
		switch {
		case idx == "":
		case seen[idx]:
			return fail(fmt.Sprintf("index %s named twice", idx))
		case draws.IsSpecial(idx):
			return fail(fmt.Sprintf("index name %s is reserved", idx))
		case idx == spec.Name:
			return fail(fmt.Sprintf("index %s has the same name as its variable", idx))
		}
		seen[idx] = true
	}
	return spec, nil
}

// MustParseSpec is like ParseSpec, but panics if s cannot be parsed.
func MustParseSpec(s string) Spec {
	spec, err := ParseSpec(s)
	if err != nil {
		panic(err)
	}
	return spec
}

// ParseSpecs parses each of ss with ParseSpec.
func ParseSpecs(ss ...string) ([]Spec, error) {
	var specs []Spec
	for _, s := range ss {
		spec, err := ParseSpec(s)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (s Spec) String() string {
	if s.Indices == nil {
		return s.Name
	}
	return s.Name + "[" + strings.Join(s.Indices, ",") + "]"
}

// names returns the non-empty index names of s.
func (s Spec) names() []string {
	var out []string
	for _, idx := range s.Indices {
		if idx != "" {
			out = append(out, idx)
		}
	}
	return out
}

// bind returns the index tokens of n selected by s, in the order of
// s.names().
func (s Spec) bind(n Name) ([]string, error) {
	nt, ns := len(n.Indices), len(s.Indices)
	absorb := ns > 0 && s.Indices[ns-1] == "" && nt > ns
	if nt != ns && !absorb {
		return nil, &IndexParseError{
			Column: n.String(),
			Spec:   s.String(),
			Msg:    fmt.Sprintf("column has %d indices but spec names %d", nt, ns),
		}
	}
	var out []string
	for i, idx := range s.Indices {
		if idx != "" {
			out = append(out, n.Indices[i])
		}
	}
	return out, nil
}
