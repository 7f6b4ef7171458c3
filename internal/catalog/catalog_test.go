package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"covidsonif/internal/engine"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	data := []byte(`
datasets:
  - name: total_cases
    path: data/total_cases.csv
    description: Cumulative confirmed cases
  - name: total_deaths
    path: /srv/owid/total_deaths.csv
`)
	c, err := Parse(data, "/etc/sonif")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if diff := cmp.Diff([]string{"total_cases", "total_deaths"}, c.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}

	cases, err := c.Lookup("total_cases")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/etc/sonif", "data/total_cases.csv"); cases.Path != want {
		t.Errorf("relative path: expected %s, got %s", want, cases.Path)
	}
	if cases.Description != "Cumulative confirmed cases" {
		t.Errorf("Description: got %q", cases.Description)
	}

	deaths, _ := c.Lookup("total_deaths")
	if deaths.Path != "/srv/owid/total_deaths.csv" {
		t.Errorf("absolute path rewritten: %s", deaths.Path)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name:    "duplicate name",
			yaml:    "datasets:\n  - {name: a, path: a.csv}\n  - {name: a, path: b.csv}\n",
			wantMsg: `dataset "a": declared more than once`,
		},
		{
			name:    "missing name",
			yaml:    "datasets:\n  - {path: a.csv}\n",
			wantMsg: "entry 0: name is required",
		},
		{
			name:    "missing path",
			yaml:    "datasets:\n  - {name: a}\n",
			wantMsg: `dataset "a": path is required`,
		},
		{
			name:    "not yaml",
			yaml:    "datasets: [",
			wantMsg: "failed to unmarshal catalog",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), "")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in %q", tt.wantMsg, err)
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	c, err := New(Entry{Name: "total_cases", Path: "cases.csv"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Lookup("new_cases"); !errors.Is(err, ErrUnknownDataset) {
		t.Errorf("expected ErrUnknownDataset, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "datasets.yaml")
	if err := os.WriteFile(path, []byte("datasets:\n  - name: cases\n    path: cases.csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	e, _ := c.Lookup("cases")
	if e.Path != filepath.Join(dir, "cases.csv") {
		t.Errorf("Expected path next to catalog, got %s", e.Path)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestImportAll(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	c, err := New(
		Entry{Name: "cases", Path: write("cases.csv", "date,World,Italy\n2020-01-01,20,5\n")},
		Entry{Name: "deaths", Path: write("deaths.csv", "date,World\n2020-01-01,1\n")},
	)
	if err != nil {
		t.Fatal(err)
	}

	got, err := ImportAll(context.Background(), c, engine.WithParseMode(engine.ParseStrict))
	if err != nil {
		t.Fatalf("ImportAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 datasets, got %d", len(got))
	}
	if got["cases"].Size() != 2 || got["deaths"].Size() != 1 {
		t.Errorf("sizes: cases=%d deaths=%d", got["cases"].Size(), got["deaths"].Size())
	}
}

func TestImportAll_Failure(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.csv")
	if err := os.WriteFile(ok, []byte("date,World\n2020-01-01,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, _ := New(
		Entry{Name: "ok", Path: ok},
		Entry{Name: "gone", Path: filepath.Join(dir, "gone.csv")},
	)

	got, err := ImportAll(context.Background(), c)
	if !errors.Is(err, engine.ErrSourceUnreadable) {
		t.Fatalf("expected ErrSourceUnreadable, got %v", err)
	}
	if !strings.Contains(err.Error(), `"gone"`) {
		t.Errorf("error should name the dataset: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil result on failure, got %v", got)
	}
}

func TestImportAll_Canceled(t *testing.T) {
	c, _ := New(Entry{Name: "cases", Path: "cases.csv"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ImportAll(ctx, c); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
