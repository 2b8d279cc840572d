// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tidydraws tidies, summarizes, and plots posterior draws.
//
// tidydraws reads CmdStan CSV output, one file per chain, and
// extracts the variables named by its arguments into a tidy table.
// Each argument is a variable spec such as "mu" or
// "b[term,group,condition]", which names the columns that the
// variable's indices are spread into. By default, tidydraws prints
// the tidy table. With -summary, it prints a point-interval summary
// of each variable instead, and with -plot, it writes an SVG plot.
//
// For example,
//
//	tidydraws -csv 'out-1.csv out-2.csv' -factor condition=A,B,C \
//		-summary median_qi -prob '0.66 0.95' 'b[condition]'
//
// summarizes b for each of conditions A, B, and C.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-tidydraws/draws"
	"github.com/aclements/go-tidydraws/draws/stancsv"
	"github.com/aclements/go-tidydraws/ggdraws"
	"github.com/aclements/go-tidydraws/pointinterval"
	"github.com/aclements/go-tidydraws/tidy"
	"github.com/kballard/go-shellquote"
)

func main() {
	log.SetPrefix("tidydraws: ")
	log.SetFlags(0)

	var factors factorFlag
	var bools listFlag
	var (
		flagCPUProfile = flag.String("cpuprofile", "", "write CPU profile to `file`")
		flagMemProfile = flag.String("memprofile", "", "write heap profile to `file`")
		flagCSV        = flag.String("csv", "", "read CmdStan CSV `files`, one per chain, as a shell-quoted list (default: one chain from stdin)")
		flagGather     = flag.Bool("gather", false, "stack variables into .variable and .value columns")
		flagSummary    = flag.String("summary", "", "summarize by `kind`: mean_qi, median_qi, mode_qi, mean_hdi, median_hdi, or mode_hdi")
		flagProb       = flag.String("prob", "0.95", "space-separated interval probability `levels`")
		flagCompare    = flag.String("compare", "", "compare the levels of `index`")
		flagPairing    = flag.String("pairing", "pairwise", "compare levels `pairwise`, ordered, or control")
		flagPlot       = flag.String("plot", "", "write an SVG plot of `kind`: eye, halfeye, or interval")
		flagY          = flag.String("y", "", "facet or position plots by `column`")
		flagOut        = flag.String("o", "", "write output to `file` (default: stdout)")
	)
	flag.Var(&factors, "factor", "recover index `name=level,...` as a factor (may be repeated)")
	flag.Var(&bools, "bool", "recover index `name` as a boolean (may be repeated)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] spec...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if *flagCPUProfile != "" {
		f, err := os.Create(*flagCPUProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if *flagMemProfile != "" {
		defer func() {
			runtime.GC()
			f, err := os.Create(*flagMemProfile)
			if err != nil {
				log.Fatal(err)
			}
			pprof.WriteHeapProfile(f)
			f.Close()
		}()
	}

	specs, err := tidy.ParseSpecs(flag.Args()...)
	if err != nil {
		log.Fatal(err)
	}
	probs, err := parseProbs(*flagProb)
	if err != nil {
		log.Fatal(err)
	}

	// Read draws.
	var fit interface{}
	if *flagCSV != "" {
		paths, err := shellquote.Split(*flagCSV)
		if err != nil {
			log.Fatal(err)
		}
		fit = draws.CSVFiles(paths)
	} else {
		t, err := stancsv.Read(os.Stdin)
		if err != nil {
			log.Fatal(err)
		}
		fit = t
	}
	m := draws.NewModel(fit)
	m.RecoverTypes(factors...)
	for _, name := range bools {
		m.RecoverTypes(draws.Bool(name))
	}

	// Tidy.
	var g table.Grouping
	value := specs[0].Name
	if *flagGather {
		g, err = tidy.Gather(m, specs...)
		value = tidy.ValueCol
	} else {
		g, err = tidy.Spread(m, specs...)
	}
	if err != nil {
		log.Fatal(err)
	}

	if *flagCompare != "" {
		pairing, err := tidy.ParsePairing(*flagPairing)
		if err != nil {
			log.Fatal(err)
		}
		g, err = tidy.CompareLevels(g, value, *flagCompare, tidy.Comparison{Pairing: pairing, Levels: m.Types().Levels(*flagCompare)})
		if err != nil {
			log.Fatal(err)
		}
	}

	summary := pointinterval.Summary{Point: pointinterval.Median, Interval: pointinterval.QI, Probs: probs}
	if *flagSummary != "" {
		s, err := pointinterval.ParseSummary(*flagSummary)
		if err != nil {
			log.Fatal(err)
		}
		summary.Point, summary.Interval = s.Point, s.Interval
	}

	// Prepare for output.
	f := os.Stdout
	if *flagOut != "" {
		var err error
		f, err = os.Create(*flagOut)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	}

	switch *flagPlot {
	case "":
		if *flagSummary != "" {
			g, err = summary.Summarize(g)
			if err != nil {
				log.Fatal(err)
			}
		}
		table.Fprint(f, g)

	case "eye", "halfeye":
		e := ggdraws.Eye{
			X:        value,
			Y:        *flagY,
			Point:    summary.Point,
			Interval: summary.Interval,
			Probs:    probs,
			Mirror:   *flagPlot == "eye",
		}
		writePlot(f, ggdraws.EyePlot(g, e), rows(g, *flagY), 150)

	case "interval":
		if *flagY == "" {
			log.Fatal("-plot interval requires -y")
		}
		summary.Cols = []string{value}
		sum, err := summary.Summarize(g)
		if err != nil {
			log.Fatal(err)
		}
		writePlot(f, ggdraws.IntervalPlot(sum, *flagY), rows(g, *flagY), 40)

	default:
		log.Fatalf("unknown plot kind %q", *flagPlot)
	}
}

// rows returns the number of distinct values of column y in g.
func rows(g table.Grouping, y string) int {
	if y == "" {
		return 1
	}
	t := table.Flatten(g)
	if t.Column(y) == nil {
		log.Fatalf("unknown column %s", y)
	}
	return reflect.ValueOf(slice.Nub(t.MustColumn(y))).Len()
}

func writePlot(w io.Writer, p *gg.Plot, nrows, rowHeight int) {
	height := rowHeight*nrows + 100
	if err := p.WriteSVG(w, 600, height); err != nil {
		log.Fatal(err)
	}
}

func parseProbs(s string) ([]float64, error) {
	var probs []float64
	for _, f := range strings.Fields(s) {
		p, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad probability %q", f)
		}
		probs = append(probs, p)
	}
	return probs, nil
}
