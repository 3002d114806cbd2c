package pipeline

// EmptyGroups decides what happens to groups without members.
type EmptyGroups int

const (
	// OmitEmpty drops groups without members.
	OmitEmpty EmptyGroups = iota
	// ShowEmpty keeps them with a zero count.
	ShowEmpty
)

// Bucket is one named group of records.
type Bucket[T any] struct {
	Name    string
	Records []T
}

// Count returns the number of records in the bucket.
func (b Bucket[T]) Count() int { return len(b.Records) }

// Group partitions records into buckets following order. Records whose key is
// not listed in order are dropped. Relative order inside a bucket is preserved.
func Group[T any](records []T, key func(T) string, order []string, empty EmptyGroups) []Bucket[T] {
	index := make(map[string]int, len(order))
	buckets := make([]Bucket[T], len(order))
	for i, name := range order {
		index[name] = i
		buckets[i].Name = name
	}
	for _, r := range records {
		if i, ok := index[key(r)]; ok {
			buckets[i].Records = append(buckets[i].Records, r)
		}
	}
	if empty == ShowEmpty {
		return buckets
	}
	out := buckets[:0]
	for _, b := range buckets {
		if len(b.Records) > 0 {
			out = append(out, b)
		}
	}
	return out
}
