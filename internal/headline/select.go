package headline

import (
	"sort"

	"github.com/odysseus0/headlines/internal/model"
)

// Select picks the final set for mode. Per-source mode returns records as
// given. Global-top mode keeps dated records only, newest first, at most limit.
func Select(records []model.Headline, mode model.Mode, limit int) []model.Headline {
	if mode != model.ModeGlobalTop {
		return records
	}

	dated := make([]model.Headline, 0, len(records))
	for _, h := range records {
		if h.PublishedAt != nil {
			dated = append(dated, h)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].PublishedAt.After(*dated[j].PublishedAt)
	})
	if limit < 0 {
		limit = 0
	}
	if len(dated) > limit {
		dated = dated[:limit]
	}
	return dated
}
