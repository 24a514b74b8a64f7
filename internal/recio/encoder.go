package recio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/recset-labs/recset/pkg/record"
	"gopkg.in/yaml.v3"
)

// Write encodes a record set in the given format. Field names come out
// sorted in every encoding, so output is reproducible regardless of map
// iteration order.
func Write(w io.Writer, recs []*record.Record, format Format) error {
	switch format {
	case FormatYAML:
		return writeYAML(w, recs)
	case FormatNDJSON:
		return writeNDJSON(w, recs)
	case FormatJSON:
		return writeJSON(w, recs)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeJSON(w io.Writer, recs []*record.Record) error {
	if recs == nil {
		recs = []*record.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

func writeNDJSON(w io.Writer, recs []*record.Record) error {
	enc := json.NewEncoder(w)
	for i, rec := range recs {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

func writeYAML(w io.Writer, recs []*record.Record) error {
	if recs == nil {
		recs = []*record.Record{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(recs); err != nil {
		return err
	}
	return enc.Close()
}
