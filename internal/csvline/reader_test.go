package csvline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zeebo/xxh3"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Record
	}{
		{name: "plain", line: "2020-01-01,20,10", want: Record{"2020-01-01", "20", "10"}},
		{name: "no delimiter", line: "date", want: Record{"date"}},
		{name: "empty line", line: "", want: Record{""}},
		{name: "trailing empty", line: "2020-01-01,20,", want: Record{"2020-01-01", "20", ""}},
		{name: "leading empty", line: ",20,10", want: Record{"", "20", "10"}},
		{name: "consecutive delimiters", line: "a,,b", want: Record{"a", "", "b"}},
		{name: "only delimiters", line: ",,", want: Record{"", "", ""}},
		{name: "quotes are not special", line: `"Bonaire, Sint Eustatius",1`, want: Record{`"Bonaire`, ` Sint Eustatius"`, "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split([]byte(tt.line), Delimiter)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Record
	}{
		{name: "empty content", content: "", want: []Record{}},
		{
			name:    "trailing newline adds no record",
			content: "date,World\n2020-01-01,1\n",
			want:    []Record{{"date", "World"}, {"2020-01-01", "1"}},
		},
		{
			name:    "last line without newline",
			content: "date,World\n2020-01-01,1",
			want:    []Record{{"date", "World"}, {"2020-01-01", "1"}},
		},
		{
			name:    "crlf",
			content: "date,World\r\n2020-01-01,1\r\n",
			want:    []Record{{"date", "World"}, {"2020-01-01", "1"}},
		},
		{
			name:    "bom stripped",
			content: "\xef\xbb\xbfdate,World\n",
			want:    []Record{{"date", "World"}},
		},
		{
			name:    "blank line in the middle",
			content: "a\n\nb\n",
			want:    []Record{{"a"}, {""}, {"b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse([]byte(tt.content))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFieldCountMatchesDelimiters(t *testing.T) {
	lines := []string{"", ",", "a,b,c", ",,,,", "x,,y,"}
	for _, line := range lines {
		want := 1
		for i := 0; i < len(line); i++ {
			if line[i] == Delimiter {
				want++
			}
		}
		if got := len(Split([]byte(line), Delimiter)); got != want {
			t.Errorf("Split(%q): expected %d fields, got %d", line, want, got)
		}
	}
}

func TestRead(t *testing.T) {
	content := []byte("date,World,United States\n2019-12-31,0,0\n2020-01-01,20,10\n")

	tmpFile, err := os.CreateTemp("", "csvline_*.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}

	records, err := Read(tmpFile.Name())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0][2] != "United States" {
		t.Errorf("Header column 2: expected %q, got %q", "United States", records[0][2])
	}

	doc, err := Open(tmpFile.Name())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Size != len(content) {
		t.Errorf("Size: expected %d, got %d", len(content), doc.Size)
	}
	if doc.Checksum != xxh3.Hash(content) {
		t.Errorf("Checksum: expected %x, got %x", xxh3.Hash(content), doc.Checksum)
	}
}

func TestRead_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := Read(path)
	if err != nil {
		t.Fatalf("empty file should not be an error, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestRead_NotFound(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("expected error, but got nil")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected underlying os.ErrNotExist, got %v", err)
	}
}
