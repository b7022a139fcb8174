package sitepub

import "sort"

// ProjectFeatures computes the public-facing feature list for a section:
// hidden items are dropped, the rest are stable-sorted by Order ascending
// (ties keep their original array position), and the result is truncated to
// the section's MaxFeatures (DefaultMaxFeatures when unset or non-positive).
//
// Pure function: no I/O, input is never mutated.
func ProjectFeatures(payload *FeaturePayload) []Feature {
	if payload == nil {
		return []Feature{}
	}

	visible := make([]Feature, 0, len(payload.Features))
	for _, f := range payload.Features {
		if f.IsVisible {
			visible = append(visible, f)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Order < visible[j].Order
	})

	max := payload.MaxFeatures
	if max <= 0 {
		max = DefaultMaxFeatures
	}
	if len(visible) > max {
		visible = visible[:max]
	}

	return visible
}
