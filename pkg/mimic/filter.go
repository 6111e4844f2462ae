package mimic

import "strings"

// Filter returns the cases selected by cfg.Filter and cfg.Skip, in input
// order, together with the number of cases dropped.
//
// A case survives when it matches the filter (if any) and matches none of
// the skip patterns. Matching is substring containment, or equality when
// cfg.Exact is set.
func Filter[T any](cases []Case[T], cfg RunConfig) ([]Case[T], uint64) {
	if cfg.Filter == nil && len(cfg.Skip) == 0 {
		return cases, 0
	}

	matches := func(name, pattern string) bool {
		if cfg.Exact {
			return name == pattern
		}
		return strings.Contains(name, pattern)
	}

	kept := make([]Case[T], 0, len(cases))
	for _, c := range cases {
		if cfg.Filter != nil && !matches(c.name, *cfg.Filter) {
			continue
		}
		skipped := false
		for _, pattern := range cfg.Skip {
			if matches(c.name, pattern) {
				skipped = true
				break
			}
		}
		if skipped {
			continue
		}
		kept = append(kept, c)
	}

	return kept, uint64(len(cases) - len(kept))
}
