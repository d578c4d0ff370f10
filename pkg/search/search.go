// Package search implements the default needle matcher used when a diagram
// has no custom [chain.Matcher].
//
// An item matches when its name, id, class name, or any string field
// contains the needle, ignoring case. A connection matches on its name and
// string fields; a folding connection matches when any contributor does.
// An empty needle matches nothing.
package search

import (
	"strings"

	"github.com/matzehuels/supplychain/pkg/chain"
)

// Default is the built-in matcher.
var Default chain.Matcher = chain.MatchFunc(Match)

// Match reports whether ref matches needle.
func Match(ref chain.Ref, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return false
	}
	needle = strings.ToLower(needle)

	switch ref.Kind {
	case chain.KindItem:
		it := ref.Item
		return contains(needle, it.Name, string(it.ID), it.ClassName) || fieldsContain(needle, it.Fields)
	case chain.KindConnection, chain.KindFoldingConnection:
		for _, c := range ref.Connections() {
			if c != nil && (contains(needle, c.Name) || fieldsContain(needle, c.Fields)) {
				return true
			}
		}
	}
	return false
}

// Hits returns the ids of the items matching needle, in input order.
func Hits(m chain.Matcher, items []*chain.Item, needle string) []chain.ItemID {
	if m == nil {
		m = Default
	}
	var out []chain.ItemID
	for _, it := range items {
		if it != nil && m.Match(chain.ItemRef(it), needle) {
			out = append(out, it.ID)
		}
	}
	return out
}

func contains(needle string, values ...string) bool {
	for _, v := range values {
		if v != "" && strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func fieldsContain(needle string, fields map[string]any) bool {
	for _, v := range fields {
		switch v := v.(type) {
		case string:
			if contains(needle, v) {
				return true
			}
		case []any:
			for _, e := range v {
				if s, ok := e.(string); ok && contains(needle, s) {
					return true
				}
			}
		}
	}
	return false
}
