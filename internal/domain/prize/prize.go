// Package prize allocates a fixed prize pool proportionally to points.
package prize

import "math"

// Allocate returns each entry's share of pool. Entries with points <= 0 get 0;
// the rest get round(pool*points/sumPositive), floored at 0. When no entry has
// positive points, or the pool is not positive, every share is 0.
func Allocate(points []float64, pool float64) []int64 {
	out := make([]int64, len(points))
	if pool <= 0 || math.IsNaN(pool) {
		return out
	}

	var total float64
	for _, p := range points {
		if p > 0 {
			total += p
		}
	}
	if total == 0 {
		return out
	}

	for i, p := range points {
		if p <= 0 {
			continue
		}
		out[i] = max(int64(math.Round(pool*p/total)), 0)
	}
	return out
}

// Apply runs Allocate over records and hands each share to set.
func Apply[T any](records []T, pool float64, points func(T) float64, set func(*T, int64)) []T {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = points(r)
	}
	shares := Allocate(values, pool)

	out := make([]T, len(records))
	copy(out, records)
	for i := range out {
		set(&out[i], shares[i])
	}
	return out
}
