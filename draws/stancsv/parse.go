// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stancsv reads CmdStan CSV output files.
//
// A CmdStan output file consists of comment lines starting with "#"
// that record the sampler configuration and adaptation results, a
// header line naming each column, and one line of comma-separated
// values per draw. CmdStan flattens array indices into dotted names
// such as "b.1.2"; these are rewritten to "b[1,2]".
//
// Importing this package for its side effect registers an adapter
// for draws.CSVFiles:
//
//	import _ "github.com/aclements/go-tidydraws/draws/stancsv"
package stancsv

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// File is the parsed content of one CmdStan output file.
type File struct {
	// Config is the set of "key = value" configuration pairs
	// from the comment lines of the file, in the order they
	// appeared. Nested configuration keys are recorded by their
	// own name. A later pair with the same key overrides an
	// earlier one in ConfigMap.
	Config []*Config

	// Header is the column names, with dotted array indices
	// rewritten to bracket notation.
	Header []string

	// Rows is the values of each draw.
	Rows [][]float64
}

// Config represents a single key/value configuration pair.
type Config struct {
	Key string

	// Value is the value, without any "(Default)" annotation.
	Value string

	// Default indicates that CmdStan annotated this value as
	// its default.
	Default bool
}

// ConfigMap returns the configuration of f as a map.
func (f *File) ConfigMap() map[string]string {
	m := make(map[string]string, len(f.Config))
	for _, c := range f.Config {
		m[c.Key] = c.Value
	}
	return m
}

var configRe = regexp.MustCompile(`^#\s*([A-Za-z_][A-Za-z0-9_.]*)\s*=\s*(.*?)\s*(\(Default\))?\s*$`)

// Parse parses a CmdStan CSV output file from r.
func Parse(r io.Reader) (*File, error) {
	f := new(File)
	var body strings.Builder

	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 64<<20)
	lineno := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineno++

		// Comment and configuration lines.
		if strings.HasPrefix(line, "#") {
			if m := configRe.FindStringSubmatch(line); m != nil {
				f.Config = append(f.Config, &Config{Key: m[1], Value: m[2], Default: m[3] != ""})
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Header and draw lines.
		body.WriteString(line)
		body.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	records, err := csv.NewReader(strings.NewReader(body.String())).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no header line")
	}

	seen := map[string]bool{}
	for _, name := range records[0] {
		name = bracketName(strings.TrimSpace(name))
		if seen[name] {
			return nil, fmt.Errorf("duplicate column %s", name)
		}
		seen[name] = true
		f.Header = append(f.Header, name)
	}

	for i, rec := range records[1:] {
		row := make([]float64, len(rec))
		for j, field := range rec {
			x, err := parseValue(field)
			if err != nil {
				return nil, fmt.Errorf("draw %d, column %s: %w", i+1, f.Header[j], err)
			}
			row[j] = x
		}
		f.Rows = append(f.Rows, row)
	}
	return f, nil
}

func parseValue(field string) (float64, error) {
	field = strings.TrimSpace(field)
	switch field {
	case "inf", "Inf":
		field = "+Inf"
	case "-inf":
		field = "-Inf"
	case "nan", "NA":
		field = "NaN"
	}
	return strconv.ParseFloat(field, 64)
}

// bracketName rewrites a CmdStan dotted name like "b.1.2" to "b[1,2]".
// Names whose dotted suffixes are not all integers are returned
// unchanged.
func bracketName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return name
	}
	i := len(parts)
	for i > 1 {
		if _, err := strconv.Atoi(parts[i-1]); err != nil {
			break
		}
		i--
	}
	if i == len(parts) {
		return name
	}
	return strings.Join(parts[:i], ".") + "[" + strings.Join(parts[i:], ",") + "]"
}
