package record

import "sort"

// CompareSets compares two record sequences by position and returns
// field-level diffs, one entry per input record. For index i, every
// field of result[i] that other[i] lacks or holds with a different value
// is reported in diffResult[i] as a "name:value" string, and
// symmetrically for diffOther. A record with no counterpart at its index
// reports every field. Field names within an entry are sorted so output
// is reproducible.
//
// Pairing is positional, not identity-based: reordering, inserting, or
// deleting a record misaligns every later position. That is fine for
// regression-testing a template against itself across small changes,
// where record order is stable; it is not a semantic set difference. For
// key-based pairing see CompareByKey.
func CompareSets(result, other []*Record) (diffResult, diffOther [][]string) {
	diffResult = make([][]string, 0, len(result))
	for i, rec := range result {
		var counterpart *Record
		if i < len(other) {
			counterpart = other[i]
		}
		diffResult = append(diffResult, diffFields(rec, counterpart))
	}

	diffOther = make([][]string, 0, len(other))
	for i, rec := range other {
		var counterpart *Record
		if i < len(result) {
			counterpart = result[i]
		}
		diffOther = append(diffOther, diffFields(rec, counterpart))
	}
	return diffResult, diffOther
}

// diffFields reports every field of rec that other lacks or differs on,
// rendered "name:value" and sorted by name. A nil other reports all
// fields.
func diffFields(rec, other *Record) []string {
	diffs := []string{}
	for name, v := range rec.All() {
		if other != nil {
			if ov, ok := other.Get(name); ok && v.Equal(ov) {
				continue
			}
		}
		diffs = append(diffs, name+":"+v.String())
	}
	sort.Strings(diffs)
	return diffs
}

// KeyDiff is one record's differences in a key-based comparison.
type KeyDiff struct {
	// Key is the record key the entry was paired on.
	Key string `json:"key"`
	// Missing is true when the other sequence has no record with this key.
	Missing bool `json:"missing"`
	// Fields are the "name:value" entries differing from the counterpart,
	// sorted by name. Empty when the records match.
	Fields []string `json:"fields"`
}

// CompareByKey compares two record sequences by record key instead of by
// position. Each record pairs with the first record in the other sequence
// carrying the same Key; records with an empty Key never pair and are
// always reported in full. Within a sequence only the first record per
// key is considered. Output order follows input order.
//
// Positional CompareSets remains the mode compatible with existing
// regression baselines.
func CompareByKey(result, other []*Record) (forResult, forOther []KeyDiff) {
	return keyDiffs(result, other), keyDiffs(other, result)
}

func keyDiffs(recs, against []*Record) []KeyDiff {
	byKey := make(map[string]*Record, len(against))
	for _, rec := range against {
		if rec.Key == "" {
			continue
		}
		if _, ok := byKey[rec.Key]; !ok {
			byKey[rec.Key] = rec
		}
	}

	out := make([]KeyDiff, 0, len(recs))
	seen := make(map[string]bool, len(recs))
	for _, rec := range recs {
		if rec.Key != "" {
			if seen[rec.Key] {
				continue
			}
			seen[rec.Key] = true
		}
		counterpart := byKey[rec.Key] // nil when key empty or absent
		out = append(out, KeyDiff{
			Key:     rec.Key,
			Missing: counterpart == nil,
			Fields:  diffFields(rec, counterpart),
		})
	}
	return out
}
