// Package fanout calls a dependency from several goroutines at once.
package fanout

import "sync"

// Lookup resolves ids to names.
type Lookup interface {
	Name(id int) string
	Flush()
}

// NameAll resolves every id concurrently, then flushes once.
func NameAll(lookup Lookup, ids ...int) []string {
	var wg sync.WaitGroup

	names := make([]string, len(ids))

	for i, id := range ids {
		wg.Go(func() {
			names[i] = lookup.Name(id)
		})
	}

	wg.Wait()
	lookup.Flush()

	return names
}
