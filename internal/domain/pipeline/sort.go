package pipeline

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort returns a sorted copy of records ordered by key, then by each tie-break key in turn.
// Equal records keep their input order. The input slice is never modified.
func Sort[T any](records []T, columns Columns[T], key SortKey, tieBreak []SortKey, locale language.Tag) ([]T, error) {
	keys := make([]SortKey, 0, 1+len(tieBreak))
	keys = append(keys, key)
	keys = append(keys, tieBreak...)

	cols := make([]Column[T], len(keys))
	for i, k := range keys {
		c, ok := columns.Lookup(k.Column)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, k.Column)
		}
		cols[i] = c
	}

	// A Collator keeps internal buffers, so each call gets its own.
	coll := collate.New(locale)

	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b T) int {
		for i, c := range cols {
			var r int
			if c.Kind == Number {
				r = cmp.Compare(c.Number(a), c.Number(b))
			} else {
				r = coll.CompareString(c.Text(a), c.Text(b))
			}
			if keys[i].Direction == Desc {
				r = -r
			}
			if r != 0 {
				return r
			}
		}
		return 0
	})
	return out, nil
}
