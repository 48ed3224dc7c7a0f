package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/meeting-digest/internal/anonymizer"
	"github.com/nguyentantai21042004/meeting-digest/internal/dialogue"
	domainerrors "github.com/nguyentantai21042004/meeting-digest/internal/errors"
	"github.com/nguyentantai21042004/meeting-digest/internal/report"
	"github.com/nguyentantai21042004/meeting-digest/internal/section"
	"github.com/nguyentantai21042004/meeting-digest/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-digest/internal/transcript"
)

// Digest is everything produced for one transcript and part length.
type Digest struct {
	TranscriptID string
	PartLength   int
	Speakers     *anonymizer.SpeakerMap
	Utterances   []dialogue.Utterance
	Anomalies    []dialogue.Anomaly
	Sections     []section.Section
	Dropped      []dialogue.Utterance
	Result       *summarizer.Result
	Reports      []report.Report
}

// Report returns the rendered report of variant, if it was produced.
func (d *Digest) Report(variant report.Variant) (report.Report, bool) {
	for _, r := range d.Reports {
		if r.Variant == variant {
			return r, true
		}
	}
	return report.Report{}, false
}

// Digest parses, chunks and summarizes one transcript, then renders the configured variants.
func (p *implProcessor) Digest(ctx context.Context, rec transcript.Record, partLength int) (*Digest, error) {
	lines := dialogue.SplitLines(rec.RawText)
	speakers := anonymizer.BuildCodeMap(anonymizer.IdentifySpeakers(lines, p.cfg.Summary.SpeakerScanLimit))
	p.logger.Debug(ctx, "Transcript %s: %d lines, %d speakers", rec.TranscriptID, len(lines), speakers.Len())

	d := &Digest{TranscriptID: rec.TranscriptID, PartLength: partLength, Speakers: speakers}
	d.Utterances, d.Anomalies = p.parser.Parse(ctx, lines, speakers)

	chunks := section.Chunk(d.Utterances, section.Options{
		Length:        p.cfg.Summary.SectionLength,
		DropRemainder: p.cfg.Summary.DropRemainderEnabled(),
	})
	d.Sections, d.Dropped = chunks.Sections, chunks.Dropped
	if len(d.Dropped) > 0 {
		p.logger.Info(ctx, "Transcript %s: dropped %d unpaired trailing utterance(s)", rec.TranscriptID, len(d.Dropped))
	}

	sum := summarizer.New(p.model, summarizer.Options{
		PartLength:    partLength,
		DropRemainder: p.cfg.Summary.DropRemainderEnabled(),
		Prompts:       p.prompts,
	}, p.logger)

	res, err := sum.Summarize(ctx, d.Sections)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", rec.TranscriptID, err)
	}
	d.Result = res

	for _, name := range p.cfg.Summary.Variants {
		variant, err := report.ParseVariant(name)
		if err == nil {
			var r report.Report
			r, err = p.formatter.Format(variant, res, speakers)
			if err == nil {
				d.Reports = append(d.Reports, r)
				continue
			}
		}
		if !domainerrors.Is(err, domainerrors.ErrUnsupportedVariant) {
			return nil, fmt.Errorf("format %s: %w", rec.TranscriptID, err)
		}
		p.logger.Warn(ctx, "Skipping report variant %q: %v", name, err)
	}

	return d, nil
}

// Process digests a local transcript file and writes "<id>_<partLength>.<variant>" reports.
func (p *implProcessor) Process(ctx context.Context, path string) error {
	startTime := time.Now()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting transcript digest: %s", path)
	p.logger.Info(ctx, "========================================")

	rec, err := transcript.ReadFile(path)
	if err != nil {
		return err
	}

	outDir := filepath.Join(p.cfg.Paths.Output, rec.TranscriptID)
	var written []string

	for _, partLength := range p.cfg.Summary.PartLengths {
		d, err := p.Digest(ctx, rec, partLength)
		if err != nil {
			return fmt.Errorf("part length %d: %w", partLength, err)
		}

		name := fmt.Sprintf("%s_%d", rec.TranscriptID, partLength)
		paths, err := report.WriteFiles(outDir, name, p.cfg.Output.Format, d.Reports)
		if err != nil {
			return fmt.Errorf("write reports: %w", err)
		}
		written = append(written, paths...)
	}

	if err := p.moveToArchived(ctx, path); err != nil {
		p.logger.Warn(ctx, "Failed to archive transcript: %v", err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Digest completed: %s", rec.TranscriptID)
	for _, w := range written {
		p.logger.Info(ctx, "Report: %s", w)
	}
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime))
	p.logger.Info(ctx, "========================================")

	return nil
}
