package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/meeting-digest/internal/config"
	"github.com/nguyentantai21042004/meeting-digest/internal/report"
	"github.com/nguyentantai21042004/meeting-digest/internal/transcript"
)

// Stats counts sweep outcomes per transcript and key.
type Stats struct {
	Succeeded int
	Failed    int
	Failures  []Failure
}

// Failure records one transcript that could not be summarized under a key.
type Failure struct {
	TranscriptID string
	SummaryKey   string
	Err          error
}

// Body returns the text written under "{mode}_summary_{partLength}". Mode short stores
// the themed summary; mode long stores the theme list followed by the document summary.
func Body(mode string, d *Digest) (string, error) {
	variant := report.Variant(config.ModeVariant[mode])
	if r, ok := d.Report(variant); ok {
		return r.Text(), nil
	}
	return "", fmt.Errorf("report variant %q needed for mode %q was not produced", variant, mode)
}

// Sweep lists pending transcripts for each (part length, mode) key and summarizes them
// with at most performance.max_concurrent transcripts in flight. A failing transcript is
// recorded and the sweep moves on; only a failing listing aborts it.
func (p *implProcessor) Sweep(ctx context.Context, src transcript.Source, sink transcript.Sink) (Stats, error) {
	runID := uuid.NewString()
	startTime := time.Now()
	p.logger.Info(ctx, "[%s] Sweep started: part lengths %v, modes %v", runID, p.cfg.Summary.PartLengths, p.cfg.Summary.Modes)

	var (
		stats Stats
		mu    sync.Mutex
	)
	limit := max(p.cfg.Performance.MaxConcurrent, 1)

	for _, partLength := range p.cfg.Summary.PartLengths {
		for _, mode := range p.cfg.Summary.Modes {
			key := config.SummaryKey(mode, partLength)

			records, err := src.List(ctx, key)
			if err != nil {
				return stats, fmt.Errorf("list pending for %s: %w", key, err)
			}
			p.logger.Info(ctx, "[%s] %s: %d transcript(s) pending", runID, key, len(records))

			var g errgroup.Group
			g.SetLimit(limit)

			for i, rec := range records {
				if err := ctx.Err(); err != nil {
					g.Wait()
					return stats, err
				}

				g.Go(func() error {
					p.logger.Info(ctx, "[%s] [%d/%d] %s -> %s", runID, i+1, len(records), rec.TranscriptID, key)
					err := p.sweepOne(ctx, rec, mode, partLength, key, sink)

					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						p.logger.Error(ctx, "[%s] Failed %s under %s: %v", runID, rec.TranscriptID, key, err)
						stats.Failed++
						stats.Failures = append(stats.Failures, Failure{TranscriptID: rec.TranscriptID, SummaryKey: key, Err: err})
						return nil
					}
					p.logger.Info(ctx, "[%s] [DONE] %s with %s", runID, rec.TranscriptID, key)
					stats.Succeeded++
					return nil
				})
			}
			g.Wait()
		}
	}

	p.logger.Info(ctx, "[%s] Sweep complete: %d success, %d failed in %s", runID, stats.Succeeded, stats.Failed, time.Since(startTime))
	return stats, nil
}

func (p *implProcessor) sweepOne(ctx context.Context, rec transcript.Record, mode string, partLength int, key string, sink transcript.Sink) error {
	d, err := p.Digest(ctx, rec, partLength)
	if err != nil {
		return err
	}

	body, err := Body(mode, d)
	if err != nil {
		return err
	}

	return sink.Write(ctx, transcript.Entry{TranscriptID: rec.TranscriptID, SummaryKey: key, Summary: body})
}
