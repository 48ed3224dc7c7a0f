package summarizer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	domainerrors "github.com/nguyentantai21042004/meeting-digest/internal/errors"
	"github.com/nguyentantai21042004/meeting-digest/internal/section"
)

// SummarizeSections summarizes every section independently, in input order.
func (s *implSummarizer) SummarizeSections(ctx context.Context, sections []section.Section) ([]string, error) {
	summaries := make([]string, 0, len(sections))

	for i, sec := range sections {
		s.logger.Debug(ctx, "[%d/%d] Summarizing section %s (%d chars)", i+1, len(sections), sec.Span(), sec.Len())

		summary, err := s.generate(ctx, s.opts.Prompts.summarize(sec.Text))
		if err != nil {
			return nil, fmt.Errorf("summarize section %d (%s): %w", i+1, sec.Span(), err)
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// MergeAndResummarize joins the section summaries, cuts the result into parts of
// PartLength characters, summarizes each part and joins those summaries in order.
func (s *implSummarizer) MergeAndResummarize(ctx context.Context, sectionSummaries []string) (string, error) {
	parts := SplitParts(strings.Join(sectionSummaries, ""), s.opts.PartLength, s.opts.DropRemainder)
	return s.summarizeParts(ctx, parts)
}

func (s *implSummarizer) summarizeParts(ctx context.Context, parts []string) (string, error) {
	var document strings.Builder

	for i, part := range parts {
		s.logger.Debug(ctx, "[%d/%d] Summarizing part (%d chars)", i+1, len(parts), utf8.RuneCountInString(part))

		summary, err := s.generate(ctx, s.opts.Prompts.summarize(part))
		if err != nil {
			return "", fmt.Errorf("summarize part %d: %w", i+1, err)
		}
		document.WriteString(summary)
	}

	return document.String(), nil
}

// ExtractThemes asks for a list of themes and splits the answer into lines.
func (s *implSummarizer) ExtractThemes(ctx context.Context, documentSummary string) (string, []string, error) {
	raw, err := s.generate(ctx, s.opts.Prompts.themes(documentSummary))
	if err != nil {
		return "", nil, fmt.Errorf("extract themes: %w", err)
	}
	return raw, SplitThemeLabels(raw), nil
}

// ElaborateThemes asks, once per label, for the passage of the document summary that
// covers the label's topic.
func (s *implSummarizer) ElaborateThemes(ctx context.Context, documentSummary string, labels []string) ([]ThemeEntry, error) {
	entries := make([]ThemeEntry, 0, len(labels))

	for i, label := range labels {
		topic := ParseThemeLabel(label)
		s.logger.Debug(ctx, "[%d/%d] Elaborating theme %q", i+1, len(labels), topic)

		text, err := s.generate(ctx, s.opts.Prompts.elaborate(documentSummary, topic))
		if err != nil {
			return nil, fmt.Errorf("elaborate theme %q: %w", topic, err)
		}
		entries = append(entries, ThemeEntry{Label: label, Topic: topic, ExtractedText: text})
	}

	return entries, nil
}

// Summarize runs every stage over sections. It stops before theme extraction when the
// merge stage produced nothing, so no blank text reaches a later prompt.
func (s *implSummarizer) Summarize(ctx context.Context, sections []section.Section) (*Result, error) {
	if len(sections) == 0 {
		return nil, domainerrors.TruncationLossf("transcript has no complete section")
	}

	res := &Result{}

	summaries, err := s.SummarizeSections(ctx, sections)
	if err != nil {
		return nil, err
	}
	res.SectionSummaries = summaries

	merged := strings.Join(summaries, "")
	res.Parts = SplitParts(merged, s.opts.PartLength, s.opts.DropRemainder)
	if lost := utf8.RuneCountInString(merged) - runeTotal(res.Parts); lost > 0 {
		s.logger.Info(ctx, "Dropped trailing %d characters of section summaries (part length %d)", lost, s.opts.PartLength)
	}
	if len(res.Parts) == 0 {
		return nil, domainerrors.TruncationLossf("section summaries (%d chars) are shorter than part length %d",
			utf8.RuneCountInString(merged), s.opts.PartLength)
	}

	document, err := s.summarizeParts(ctx, res.Parts)
	if err != nil {
		return nil, err
	}
	res.Document = document

	raw, labels, err := s.ExtractThemes(ctx, document)
	if err != nil {
		return nil, err
	}
	res.ThemeList = raw
	res.ThemeLabels = labels

	themes, err := s.ElaborateThemes(ctx, document, labels)
	if err != nil {
		return nil, err
	}
	res.Themes = themes

	s.logger.Info(ctx, "Summarized %d sections into %d parts and %d themes", len(sections), len(res.Parts), len(themes))
	return res, nil
}

// generate rejects blank output even when the model itself did not.
func (s *implSummarizer) generate(ctx context.Context, prompt string) (string, error) {
	out, err := s.model.Generate(ctx, prompt)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrModelFailure) {
			return "", err
		}
		return "", domainerrors.Model(err, "model call failed")
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", domainerrors.Modelf("model returned an empty response")
	}
	return out, nil
}

// SplitParts cuts text into consecutive slices of partLength characters. The shorter
// trailing slice is dropped when dropRemainder is set.
func SplitParts(text string, partLength int, dropRemainder bool) []string {
	if partLength <= 0 {
		partLength = DefaultPartLength
	}

	runes := []rune(text)
	n := len(runes) / partLength
	if !dropRemainder && len(runes)%partLength != 0 {
		n++
	}

	parts := make([]string, 0, n)
	for i := range n {
		end := min((i+1)*partLength, len(runes))
		parts = append(parts, string(runes[i*partLength:end]))
	}
	return parts
}

func runeTotal(parts []string) int {
	n := 0
	for _, p := range parts {
		n += utf8.RuneCountInString(p)
	}
	return n
}
