// Package diff finds the records of a data update that are new or changed.
//
// Comparison is by full value, not by id: a record counts as unchanged only
// if the previous data holds a record with exactly the same content. An item
// whose name changed is therefore reported even though its id did not.
//
// The result only seeds incremental layout hints, so reporting an unchanged
// record is harmless while missing a changed one is a bug. Fingerprints are
// SHA-256 hashes of the canonical JSON encoding ([cache.HashJSON]).
package diff

import (
	"github.com/matzehuels/supplychain/pkg/cache"
	"github.com/matzehuels/supplychain/pkg/chain"
)

// Items returns the items of next that have no structurally equal
// counterpart in prev, in the order they appear in next. Nil records are
// ignored on both sides.
func Items(prev, next []*chain.Item) []*chain.Item {
	return Changed(compact(prev), compact(next))
}

// Connections returns the connections of next that have no structurally
// equal counterpart in prev. Nil records are ignored on both sides.
func Connections(prev, next []*chain.Connection) []*chain.Connection {
	return Changed(compact(prev), compact(next))
}

// compact drops nil records; the store skips them as well.
func compact[T any](records []*T) []*T {
	out := make([]*T, 0, len(records))
	for _, r := range records {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Changed is the generic form of [Items] and [Connections]. Records that
// cannot be fingerprinted are always reported.
func Changed[T any](prev, next []T) []T {
	seen := make(map[string]struct{}, len(prev))
	for _, r := range prev {
		if fp, err := cache.HashJSON(r); err == nil {
			seen[fp] = struct{}{}
		}
	}
	var out []T
	for _, r := range next {
		fp, err := cache.HashJSON(r)
		if err == nil {
			if _, ok := seen[fp]; ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Result summarizes an update.
type Result struct {
	Items       []*chain.Item
	Connections []*chain.Connection
}

// Empty reports whether nothing changed.
func (r Result) Empty() bool { return len(r.Items) == 0 && len(r.Connections) == 0 }

// ItemIDs returns the ids of the changed items and of the endpoints of the
// changed connections, deduplicated, items first.
func (r Result) ItemIDs() []chain.ItemID {
	seen := make(map[chain.ItemID]bool)
	var out []chain.ItemID
	add := func(id chain.ItemID) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, it := range r.Items {
		if it != nil {
			add(it.ID)
		}
	}
	for _, c := range r.Connections {
		if c == nil {
			continue
		}
		add(c.SourceID)
		add(c.TargetID)
	}
	return out
}

// Data diffs two complete data sets.
func Data(prev, next chain.Data) Result {
	return Result{
		Items:       Items(prev.Items, next.Items),
		Connections: Connections(prev.Connections, next.Connections),
	}
}
