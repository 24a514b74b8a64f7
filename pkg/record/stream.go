package record

import "iter"

// Collect drains a lazily produced record sequence, such as records
// streaming out of a parse run. The first error halts consumption and is
// returned with no partial result: a failing stream never degrades into
// a silently truncated success.
func Collect(seq iter.Seq2[*Record, error]) ([]*Record, error) {
	var out []*Record
	for rec, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
