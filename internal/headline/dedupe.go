package headline

import "github.com/odysseus0/headlines/internal/model"

// Dedupe keeps the first record for each dedup key (link, else title) and
// drops records that have neither. Order is preserved.
func Dedupe(records []model.Headline) []model.Headline {
	seen := make(map[string]struct{}, len(records))
	out := make([]model.Headline, 0, len(records))
	for _, h := range records {
		key := h.DedupKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
	}
	return out
}
