// Package diff computes per-category deltas between a baseline and a
// current snapshot. Diffing is pure set arithmetic over strings: added is
// whatever the current snapshot has that the baseline lacks, removed the
// reverse. Inputs are never mutated and categories are never
// cross-referenced.
package diff

import (
	"sort"
	"strings"
)

// Result is one category's delta. Both slices are sorted, deduplicated and
// non-nil.
type Result struct {
	Added   []string
	Removed []string
}

// Empty reports whether the delta carries no change at all.
func (r Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0
}

// Strings diffs two string sets given as slices. Duplicates and ordering in
// the inputs are irrelevant; the outputs are sorted for deterministic
// display. Total over any inputs, including nil.
func Strings(baseline, current []string) Result {
	base := toSet(baseline)
	curr := toSet(current)

	added := []string{}
	for item := range curr {
		if _, ok := base[item]; !ok {
			added = append(added, item)
		}
	}

	removed := []string{}
	for item := range base {
		if _, ok := curr[item]; !ok {
			removed = append(removed, item)
		}
	}

	sort.Strings(added)
	sort.Strings(removed)
	return Result{Added: added, Removed: removed}
}

// Lines diffs two multi-line text blobs as sets of their non-blank lines.
// This is deliberately textual: the enabled-service listing is compared as
// raw command output, so a formatting or ordering change in that output is
// indistinguishable from a real state change and will surface as spurious
// added/removed entries.
func Lines(baseline, current string) Result {
	return Strings(splitLines(baseline), splitLines(current))
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
