// Package report provides the change-report aggregation shared by all
// three format pipelines: grouping a flat change list by an arbitrary
// key (slide index, sheet name, paragraph index, change kind) into
// counted buckets for presentation, independent of which pipeline
// produced the changes.
package report

// Entry is one grouped bucket: a key (e.g. a change-kind label or a
// slide/sheet/paragraph identifier) and how many changes fell into it.
type Entry struct {
	Key   string
	Count int
}

// GroupBy buckets items by the string keyOf(item) returns, preserving
// first-seen key order so the resulting report reads in the same order
// the underlying changes were produced rather than sorted alphabetically.
func GroupBy[T any](items []T, keyOf func(T) string) []Entry {
	order := make([]string, 0, len(items))
	counts := make(map[string]int, len(items))
	for _, item := range items {
		k := keyOf(item)
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	out := make([]Entry, len(order))
	for i, k := range order {
		out[i] = Entry{Key: k, Count: counts[k]}
	}
	return out
}

// Total sums every entry's Count.
func Total(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Count
	}
	return total
}
