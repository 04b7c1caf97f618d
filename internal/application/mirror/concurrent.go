package mirror

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/alejandrodnm/polyladder/internal/domain"
)

// MirrorMany espeja varios eventos en paralelo con un worker pool acotado.
// Los fallos se loguean y se omiten; el orden de salida sigue al de reqs.
//
// Si Config.Workers <= 0 usa runtime.NumCPU() × 2. El rate limiter de cada
// adapter sigue acotando las requests por segundo.
func (s *Service) MirrorMany(ctx context.Context, reqs []Request) []domain.MirrorReport {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	if workers > len(reqs) {
		workers = len(reqs)
	}

	type work struct {
		idx int
		req Request
	}
	type result struct {
		idx    int
		report domain.MirrorReport
	}

	workCh := make(chan work, len(reqs))
	resultCh := make(chan result, len(reqs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range workCh {
				if ctx.Err() != nil {
					return
				}
				report, err := s.Mirror(ctx, w.req)
				if err != nil {
					slog.Warn("mirror failed", "slug", w.req.Slug, "err", err)
					continue
				}
				resultCh <- result{idx: w.idx, report: report}
			}
		}()
	}

	for i, req := range reqs {
		workCh <- work{idx: i, req: req}
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	byIdx := make([]*domain.MirrorReport, len(reqs))
	ok := 0
	for r := range resultCh {
		report := r.report
		byIdx[r.idx] = &report
		ok++
	}

	reports := make([]domain.MirrorReport, 0, ok)
	for _, r := range byIdx {
		if r != nil {
			reports = append(reports, *r)
		}
	}

	slog.Debug("concurrent mirror complete",
		"requested", len(reqs),
		"reports", len(reports),
		"workers", workers,
	)
	return reports
}
