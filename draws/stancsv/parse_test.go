// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stancsv

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/aclements/go-tidydraws/draws"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const chain1 = `# stan_version_major = 2
# model = eight_schools
# method = sample (Default)
#   sample
#     num_samples = 3
#     num_warmup = 1000 (Default)
lp__,accept_stat__,mu,theta.1,theta.2,L_Sigma.1.2
# Adaptation terminated
# Step size = 0.42
-4.5,0.9,1.5,2.5,3.5,0.1
-4.6,0.8,1.6,2.6,3.6,0.2

-4.7,0.7,1.7,2.7,inf,nan
#  Elapsed Time: 0.05 seconds (Warm-up)
`

const chain2 = `lp__,accept_stat__,mu,theta.1,theta.2,L_Sigma.1.2
-5.5,0.5,2.5,3.5,4.5,0.3
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(chain1))
	if err != nil {
		t.Fatal(err)
	}

	wantHeader := []string{"lp__", "accept_stat__", "mu", "theta[1]", "theta[2]", "L_Sigma[1,2]"}
	if !reflect.DeepEqual(wantHeader, f.Header) {
		t.Errorf("header should be %v; got %v", wantHeader, f.Header)
	}

	wantConfig := []*Config{
		{"stan_version_major", "2", false},
		{"model", "eight_schools", false},
		{"method", "sample", true},
		{"num_samples", "3", false},
		{"num_warmup", "1000", true},
	}
	if len(f.Config) != len(wantConfig) {
		t.Fatalf("want %d config entries; got %d", len(wantConfig), len(f.Config))
	}
	for i, want := range wantConfig {
		if got := f.Config[i]; !reflect.DeepEqual(want, got) {
			t.Errorf("config %d should be %+v; got %+v", i, want, got)
		}
	}
	if got := f.ConfigMap()["num_samples"]; got != "3" {
		t.Errorf("num_samples should be 3; got %q", got)
	}

	if len(f.Rows) != 3 {
		t.Fatalf("want 3 draws; got %d", len(f.Rows))
	}
	if f.Rows[1][2] != 1.6 {
		t.Errorf("draw 2 mu should be 1.6; got %v", f.Rows[1][2])
	}
	if !math.IsInf(f.Rows[2][4], 1) || !math.IsNaN(f.Rows[2][5]) {
		t.Errorf("draw 3 should have +Inf and NaN; got %v", f.Rows[2])
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"# only comments\n",
		"a,b\n1,x\n",
		"a,b\n1,2,3\n",
		"a,a\n1,2\n",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}

func TestBracketName(t *testing.T) {
	for _, test := range []struct{ in, want string }{
		{"mu", "mu"},
		{"theta.1", "theta[1]"},
		{"L.1.2", "L[1,2]"},
		{"a.b.3", "a.b[3]"},
		{"a.b", "a.b"},
		{"lp__", "lp__"},
	} {
		if got := bracketName(test.in); got != test.want {
			t.Errorf("bracketName(%q) should be %q; got %q", test.in, test.want, got)
		}
	}
}

func TestRead(t *testing.T) {
	tab, err := Read(strings.NewReader(chain1), strings.NewReader(chain2))
	if err != nil {
		t.Fatal(err)
	}
	if tab.Len() != 4 {
		t.Fatalf("want 4 draws; got %d", tab.Len())
	}
	if want := []int{1, 1, 1, 2}; !reflect.DeepEqual(want, tab.MustColumn(draws.ChainCol)) {
		t.Errorf("chains should be %v; got %v", want, tab.MustColumn(draws.ChainCol))
	}
	if want := []int{1, 2, 3, 1}; !reflect.DeepEqual(want, tab.MustColumn(draws.IterationCol)) {
		t.Errorf("iterations should be %v; got %v", want, tab.MustColumn(draws.IterationCol))
	}

	_, err = Read(strings.NewReader(chain1), strings.NewReader("other\n1\n"))
	if err == nil {
		t.Errorf("mismatched chains should fail")
	}
}

func TestReadFilesCompressed(t *testing.T) {
	dir := t.TempDir()

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	zw.Write([]byte(chain1))
	zw.Close()
	gzPath := filepath.Join(dir, "chain1.csv.gz")
	if err := os.WriteFile(gzPath, gz.Bytes(), 0666); err != nil {
		t.Fatal(err)
	}

	var zs bytes.Buffer
	enc, err := zstd.NewWriter(&zs)
	if err != nil {
		t.Fatal(err)
	}
	enc.Write([]byte(chain2))
	enc.Close()
	zstPath := filepath.Join(dir, "chain2.csv.zst")
	if err := os.WriteFile(zstPath, zs.Bytes(), 0666); err != nil {
		t.Fatal(err)
	}

	plainPath := filepath.Join(dir, "chain3.csv")
	if err := os.WriteFile(plainPath, []byte(chain2), 0666); err != nil {
		t.Fatal(err)
	}

	// Go through the adapter registry.
	tab, err := draws.Extract(draws.CSVFiles{gzPath, zstPath, plainPath})
	if err != nil {
		t.Fatal(err)
	}
	if tab.Len() != 5 {
		t.Fatalf("want 5 draws; got %d", tab.Len())
	}
	if want := []int{1, 1, 1, 2, 3}; !reflect.DeepEqual(want, tab.MustColumn(draws.ChainCol)) {
		t.Errorf("chains should be %v; got %v", want, tab.MustColumn(draws.ChainCol))
	}
	if got := tab.MustColumn("theta[1]").([]float64); got[3] != 3.5 {
		t.Errorf("chain 2 theta[1] should be 3.5; got %v", got[3])
	}

	if _, err := ReadFiles(filepath.Join(dir, "missing.csv")); err == nil {
		t.Errorf("missing file should fail")
	}
}
