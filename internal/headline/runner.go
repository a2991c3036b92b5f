package headline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/odysseus0/headlines/internal/config"
	"github.com/odysseus0/headlines/internal/model"
)

var ErrNoSources = errors.New("no sources configured")

// SourceResolver is satisfied by *fetch.Resolver.
type SourceResolver interface {
	Resolve(ctx context.Context, src model.Source, maxItems int) model.SourceResult
}

// ProgressFunc is called once per resolved source with a running count.
type ProgressFunc func(done, total int, res model.SourceResult)

type Runner struct {
	cfg      config.Config
	resolver SourceResolver
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewRunner(cfg config.Config, resolver SourceResolver, log logrus.FieldLogger) *Runner {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Runner{cfg: cfg, resolver: resolver, log: log, now: time.Now}
}

// Run resolves every configured source, dedupes the concatenation and
// selects the final set for mode. Sources that yield nothing are not errors.
func (r *Runner) Run(ctx context.Context, mode model.Mode, onSource ProgressFunc) (model.RunReport, error) {
	report := model.RunReport{Mode: mode, StartedAt: r.now()}
	if len(r.cfg.Sources) == 0 {
		return report, ErrNoSources
	}

	maxItems := r.cfg.MaxItems(mode)
	r.log.WithFields(logrus.Fields{
		"mode":      string(mode),
		"sources":   len(r.cfg.Sources),
		"max_items": maxItems,
	}).Debug("starting run")

	report.Sources = r.resolveAll(ctx, r.cfg.Sources, maxItems, onSource)
	if err := ctx.Err(); err != nil {
		return report, err
	}

	var all []model.Headline
	for _, res := range report.Sources {
		all = append(all, res.Headlines...)
	}
	unique := Dedupe(all)
	report.Headlines = Select(unique, mode, r.cfg.GlobalTopLimit)
	report.ScrapedAt = r.now().UTC().Truncate(time.Second)
	report.EndedAt = r.now()

	r.log.WithFields(logrus.Fields{
		"fetched":  len(all),
		"unique":   len(unique),
		"selected": len(report.Headlines),
	}).Debug("run complete")
	return report, nil
}

// resolveAll keeps results in configuration order whatever the concurrency.
func (r *Runner) resolveAll(ctx context.Context, sources []model.Source, maxItems int, onSource ProgressFunc) []model.SourceResult {
	total := len(sources)
	results := make([]model.SourceResult, total)

	concurrency := r.cfg.FetchConcurrency
	if concurrency <= 1 || total == 1 {
		for i, src := range sources {
			results[i] = r.resolver.Resolve(ctx, src, maxItems)
			if onSource != nil {
				onSource(i+1, total, results[i])
			}
		}
		return results
	}
	if concurrency > total {
		concurrency = total
	}

	type job struct {
		idx int
		src model.Source
	}
	jobs := make(chan job)
	out := make(chan int, total)
	wg := sync.WaitGroup{}
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = r.resolver.Resolve(ctx, j.src, maxItems)
				out <- j.idx
			}
		}()
	}

	go func() {
		for i, src := range sources {
			jobs <- job{idx: i, src: src}
		}
		close(jobs)
		wg.Wait()
		close(out)
	}()

	var done int64
	for idx := range out {
		if onSource != nil {
			onSource(int(atomic.AddInt64(&done, 1)), total, results[idx])
		}
	}
	return results
}
