package fetch

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/odysseus0/headlines/internal/model"
)

const (
	snippetMax     = 800
	contentTypeMax = 80
)

// Getter performs one GET and reports the outcome as a value.
type Getter interface {
	Get(ctx context.Context, rawURL string) model.FetchResult
}

// Resolver walks a source's candidate URLs in order and keeps the entries of
// the first one that parses to at least one item.
type Resolver struct {
	getter Getter
	pages  *PageRenderer
	log    logrus.FieldLogger
}

func NewResolver(getter Getter, log logrus.FieldLogger) *Resolver {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Resolver{getter: getter, pages: NewPageRenderer(), log: log}
}

// Resolve returns at most maxItems headlines for src. A source whose URLs all
// fail or parse to nothing yields an empty result, never an error.
func (r *Resolver) Resolve(ctx context.Context, src model.Source, maxItems int) model.SourceResult {
	out := model.SourceResult{Source: src.Name, Headlines: []model.Headline{}}
	for _, rawURL := range src.URLs {
		log := r.log.WithFields(logrus.Fields{"source": src.Name, "url": rawURL})
		log.Info("trying feed url")

		res := r.getter.Get(ctx, rawURL)
		attempt := model.Attempt{
			URL:         rawURL,
			Kind:        res.Kind,
			StatusCode:  res.StatusCode,
			ContentType: prefix(res.ContentType, contentTypeMax),
		}
		if res.Kind == model.FetchTransportFailure {
			attempt.Detail = res.Err
		}
		log.WithFields(logrus.Fields{
			"status":       res.StatusCode,
			"content_type": attempt.ContentType,
			"result":       res.Kind.String(),
		}).Info("fetched")

		if !res.HasBody() {
			log.WithField("error", res.Err).Warn("no response body; moving to next fallback")
			out.Attempts = append(out.Attempts, attempt)
			continue
		}

		parsed := ParseFeed(res.Body)
		attempt.Malformed = parsed.Malformed
		attempt.Entries = len(parsed.Items)
		if parsed.Malformed {
			attempt.Detail = parsed.Detail
		}
		entry := log.WithFields(logrus.Fields{"malformed": parsed.Malformed, "entries": len(parsed.Items)})
		if parsed.Malformed {
			entry = entry.WithField("parse_error", compactText(parsed.Detail, 200))
		}
		entry.Info("parsed response")

		if len(parsed.Items) == 0 {
			attempt.Snippet = snippet(res.Body, snippetMax)
			attempt.FeedHints = FeedHints(res.Body, res.ContentType, rawURL)
			attempt.PageText = r.pages.Text(res.Body, res.ContentType, pageTextMax)
			hinted := log.WithField("snippet", attempt.Snippet)
			if len(attempt.FeedHints) > 0 {
				hinted = hinted.WithField("advertised_feeds", attempt.FeedHints)
			}
			hinted.Warn("no entries; moving to next fallback")
			if attempt.PageText != "" {
				log.WithField("page_text", attempt.PageText).Debug("html page served instead of a feed")
			}
			out.Attempts = append(out.Attempts, attempt)
			continue
		}

		out.Attempts = append(out.Attempts, attempt)
		items := parsed.Items
		if maxItems < len(items) {
			items = items[:max(maxItems, 0)]
		}
		for _, item := range items {
			out.Headlines = append(out.Headlines, NormalizeItem(item, src.Name))
		}
		break
	}
	return out
}
