// Package csvline reads delimited text files into raw records.
//
// Fields are split on a single byte with no quoting or escaping: a delimiter
// inside a field always ends it. Empty fields are kept, so a line with n
// delimiters always yields n+1 fields.
package csvline

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/zeebo/xxh3"
)

// Delimiter separates fields within a line.
const Delimiter = ','

// ErrNotFound is returned when the source file cannot be opened.
var ErrNotFound = errors.New("csvline: source not found")

var bom = []byte{0xef, 0xbb, 0xbf}

// Record is the ordered list of raw fields from one line.
type Record []string

// Document is the parsed content of one file.
type Document struct {
	Path     string
	Records  []Record
	Size     int
	Checksum uint64 // xxh3 of the raw content
}

// Read returns the records of the file at path.
func Read(path string) ([]Record, error) {
	doc, err := Open(path)
	if err != nil {
		return nil, err
	}
	return doc.Records, nil
}

// Open reads and parses the file at path.
func Open(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}
	return &Document{
		Path:     path,
		Records:  Parse(content),
		Size:     len(content),
		Checksum: xxh3.Hash(content),
	}, nil
}

// Parse splits content into records, one per line.
func Parse(content []byte) []Record {
	content = bytes.TrimPrefix(content, bom)

	records := make([]Record, 0, bytes.Count(content, []byte{'\n'})+1)
	pos := 0
	for pos < len(content) {
		end := len(content)
		if i := bytes.IndexByte(content[pos:], '\n'); i != -1 {
			end = pos + i
		}
		line := content[pos:end]
		pos = end + 1

		// CRLF
		line = bytes.TrimSuffix(line, []byte{'\r'})
		records = append(records, Split(line, Delimiter))
	}
	return records
}

// Split cuts line on sep. The last field runs to the end of the line.
func Split(line []byte, sep byte) Record {
	rec := make(Record, 0, bytes.Count(line, []byte{sep})+1)
	rest := line
	for {
		field, tail, found := bytes.Cut(rest, []byte{sep})
		rec = append(rec, string(field))
		if !found {
			return rec
		}
		rest = tail
	}
}
