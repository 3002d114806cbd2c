package pipeline

import "strings"

// Filter returns the records whose searchable fields contain term, case-insensitively,
// and which satisfy every predicate. An empty term matches everything.
// The result is a new slice in the original relative order.
func Filter[T any](records []T, term string, fields func(T) []string, predicates ...func(T) bool) []T {
	needle := strings.ToLower(term)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if !matchesAll(r, predicates) {
			continue
		}
		if needle == "" || fields == nil || containsAny(fields(r), needle) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll[T any](r T, predicates []func(T) bool) bool {
	for _, p := range predicates {
		if !p(r) {
			return false
		}
	}
	return true
}

func containsAny(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}
