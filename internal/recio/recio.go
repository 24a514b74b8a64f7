// Package recio reads and writes record sets in their wire encodings.
// A record set is a flat sequence of field maps; the supported encodings
// are a JSON array, a YAML sequence, and newline-delimited JSON. All
// encodings reproduce the same abstract wire mapping.
package recio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/recset-labs/recset/pkg/record"
)

// Format identifies a record-set encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatNDJSON Format = "ndjson"
)

// ParseFormat parses a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "ndjson", "jsonl":
		return FormatNDJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json, yaml, or ndjson)", s)
	}
}

// DetectFormat infers the encoding from a file extension, defaulting to
// JSON for unknown extensions.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	default:
		return FormatJSON
	}
}

// ReadFile reads a whole record set, inferring the encoding from the
// file extension. A decode failure partway through aborts the read; no
// truncated set is returned.
func ReadFile(path string) ([]*record.Record, error) {
	return ReadFileAs(path, DetectFormat(path))
}

// ReadFileAs reads a whole record set in the given encoding.
func ReadFileAs(path string, format Format) ([]*record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	recs, err := record.Collect(NewDecoder(f, format).All())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// WriteFile writes a record set, inferring the encoding from the file
// extension.
func WriteFile(path string, recs []*record.Record) error {
	return WriteFileAs(path, recs, DetectFormat(path))
}

// WriteFileAs writes a record set in the given encoding.
func WriteFileAs(path string, recs []*record.Record, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, recs, format); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
