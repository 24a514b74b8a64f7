package recio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/recset-labs/recset/pkg/record"
	"gopkg.in/yaml.v3"
)

// Decoder streams records out of an encoded record set. JSON and NDJSON
// decode record by record; YAML materializes the document first, since a
// YAML sequence has no incremental form worth the complexity.
type Decoder struct {
	r      io.Reader
	format Format
}

// NewDecoder creates a decoder for the given encoding.
func NewDecoder(r io.Reader, format Format) *Decoder {
	return &Decoder{r: r, format: format}
}

// All yields records in input order. The first decode error ends the
// sequence; errors carry the zero-based record index. Consumers that
// need the whole set should drain through record.Collect, which
// propagates the error instead of keeping a truncated prefix.
func (d *Decoder) All() iter.Seq2[*record.Record, error] {
	switch d.format {
	case FormatYAML:
		return d.allYAML()
	case FormatNDJSON:
		return d.allNDJSON()
	default:
		return d.allJSON()
	}
}

// allJSON streams elements of a top-level JSON array.
func (d *Decoder) allJSON() iter.Seq2[*record.Record, error] {
	return func(yield func(*record.Record, error) bool) {
		dec := json.NewDecoder(d.r)

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			yield(nil, fmt.Errorf("reading record set: %w", err))
			return
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			yield(nil, fmt.Errorf("record set must be a JSON array, got %v", tok))
			return
		}

		for i := 0; dec.More(); i++ {
			rec := record.New()
			if err := dec.Decode(rec); err != nil {
				yield(nil, fmt.Errorf("record %d: %w", i, err))
				return
			}
			if !yield(rec, nil) {
				return
			}
		}

		if _, err := dec.Token(); err != nil {
			yield(nil, fmt.Errorf("reading record set: %w", err))
		}
	}
}

// allNDJSON streams one record per JSON value; values are separated by
// whitespace, conventionally one per line.
func (d *Decoder) allNDJSON() iter.Seq2[*record.Record, error] {
	return func(yield func(*record.Record, error) bool) {
		dec := json.NewDecoder(d.r)
		for i := 0; ; i++ {
			rec := record.New()
			if err := dec.Decode(rec); err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				yield(nil, fmt.Errorf("record %d: %w", i, err))
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// allYAML decodes a top-level YAML sequence and yields its elements.
func (d *Decoder) allYAML() iter.Seq2[*record.Record, error] {
	return func(yield func(*record.Record, error) bool) {
		var recs []*record.Record
		if err := yaml.NewDecoder(d.r).Decode(&recs); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			yield(nil, fmt.Errorf("reading record set: %w", err))
			return
		}
		for _, rec := range recs {
			if !yield(rec, nil) {
				return
			}
		}
	}
}
