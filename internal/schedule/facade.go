// Package schedule implements the conflict oracle, filter evaluator,
// backtracking enumerator, result sampler, and orchestrating façade that
// together turn a catalog and a set of requested groups into schedules.
package schedule

import (
	"context"
	"fmt"

	"github.com/awesome-schedule/plannable/internal/catalog"
)

// Schedule is an assignment of exactly one section id per requested group
// key, in the caller-supplied order.
type Schedule []int

// UnknownGroupError reports a requested group key absent from the catalog.
type UnknownGroupError struct {
	Key string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("unknown group %q", e.Key)
}

// InvalidArgumentsError reports a malformed call to Find, such as an empty
// group key list or a negative max results.
type InvalidArgumentsError struct {
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments: %s", e.Reason)
}

// Find validates groupKeys against cat, applies filters, enumerates every
// conflict-free assignment, and returns at most maxResults of them (all of
// them if maxResults is nil). A negative maxResults or an empty groupKeys
// is rejected with an *InvalidArgumentsError. Schedules are returned in
// groupKeys' caller-supplied order, not the internally sorted order used
// during the search.
func Find(cat *catalog.Catalog, groupKeys []string, maxResults *int, filters Filters, seed *int64) ([]Schedule, error) {
	return FindContext(context.Background(), cat, groupKeys, maxResults, filters, seed)
}

// FindContext is Find with a cooperative cancellation context, consulted
// between group advances during the search. When ctx is cancelled the
// schedules accumulated so far are sampled and returned without error.
func FindContext(ctx context.Context, cat *catalog.Catalog, groupKeys []string, maxResults *int, filters Filters, seed *int64) ([]Schedule, error) {
	if len(groupKeys) == 0 {
		return nil, &InvalidArgumentsError{Reason: "group_keys must be non-empty"}
	}
	if maxResults != nil && *maxResults < 0 {
		return nil, &InvalidArgumentsError{Reason: "max_results must be non-negative"}
	}

	groups := make([]group, len(groupKeys))
	for idx, key := range groupKeys {
		sections, ok := cat.Sections(catalog.GroupKey(key))
		if !ok {
			return nil, &UnknownGroupError{Key: key}
		}
		groups[idx] = group{sections: filters.apply(sections), callerIndex: idx}
	}

	sorted := sortGroupsBySize(groups)

	var results []Schedule
	enumerate(sorted, func() bool { return ctx.Err() != nil }, func(chosen []catalog.Section) bool {
		results = append(results, toSchedule(sorted, chosen))
		return true
	})

	max := -1
	if maxResults != nil {
		max = *maxResults
	}
	return sample(results, max, seed), nil
}

// toSchedule reorders chosen (indexed by the internally sorted group order)
// back into the caller's original group order.
func toSchedule(sorted []group, chosen []catalog.Section) Schedule {
	out := make(Schedule, len(sorted))
	for i, g := range sorted {
		out[g.callerIndex] = chosen[i].ID
	}
	return out
}
