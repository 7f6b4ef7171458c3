// Package catalog maps dataset names to the CSV files that hold them.
//
// A catalog file looks like:
//
//	datasets:
//	  - name: total_cases
//	    path: data/total_cases.csv
//	    description: Cumulative confirmed cases
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownDataset is returned by Lookup for names the catalog lacks.
var ErrUnknownDataset = errors.New("unknown dataset")

type Entry struct {
	Name        string `yaml:"name"`
	Path        string `yaml:"path"`
	Description string `yaml:"description,omitempty"`
}

type file struct {
	Datasets []Entry `yaml:"datasets"`
}

type Catalog struct {
	entries []Entry
	byName  map[string]int
}

// New builds a catalog from entries, keeping their order.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	var errs []string
	for i, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		e.Path = strings.TrimSpace(e.Path)
		switch {
		case e.Name == "":
			errs = append(errs, fmt.Sprintf("entry %d: name is required", i))
			continue
		case e.Path == "":
			errs = append(errs, fmt.Sprintf("dataset %q: path is required", e.Name))
			continue
		}
		if _, dup := c.byName[e.Name]; dup {
			errs = append(errs, fmt.Sprintf("dataset %q: declared more than once", e.Name))
			continue
		}
		c.byName[e.Name] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return c, nil
}

// Parse decodes a YAML catalog. Relative paths are resolved against baseDir
// when it is non-empty.
func Parse(data []byte, baseDir string) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	if baseDir != "" {
		for i := range f.Datasets {
			p := strings.TrimSpace(f.Datasets[i].Path)
			if p != "" && !filepath.IsAbs(p) {
				f.Datasets[i].Path = filepath.Join(baseDir, p)
			}
		}
	}
	return New(f.Datasets...)
}

// Load reads the catalog at path. Relative dataset paths are taken to be
// relative to the catalog file itself.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data, filepath.Dir(path))
}

func (c *Catalog) Lookup(name string) (Entry, error) {
	i, ok := c.byName[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
	return c.entries[i], nil
}

// Names returns dataset names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

func (c *Catalog) Len() int { return len(c.entries) }
