// Package report renders summarization results into the report variants handed to readers.
package report

import (
	"strings"

	"github.com/nguyentantai21042004/meeting-digest/internal/anonymizer"
	domainerrors "github.com/nguyentantai21042004/meeting-digest/internal/errors"
	"github.com/nguyentantai21042004/meeting-digest/internal/summarizer"
)

// Variant selects the shape of a report.
type Variant string

const (
	OneSentence Variant = "one_sentence"
	Short       Variant = "short"
	Median      Variant = "median"
	// Long is reserved and not yet available.
	Long Variant = "long"
)

// Supported lists the variants Format can produce, in presentation order.
var Supported = []Variant{OneSentence, Short, Median}

// ParseVariant maps a name such as "one_sentence", "One Sentence" or "median" to a Variant.
func ParseVariant(name string) (Variant, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	switch v := Variant(normalized); v {
	case OneSentence, Short, Median, Long:
		return v, nil
	}
	return "", domainerrors.UnsupportedVariantf("unknown report variant %q", name)
}

// Report is one rendered variant with speaker names restored.
type Report struct {
	Variant Variant
	Title   string
	Body    string
}

// Headings are the section titles written into reports.
type Headings struct {
	KeyThemes      string
	DiscussedTheme string
	TextSummary    string
	MeetingSummary string
}

// DefaultHeadings returns headings for language.
func DefaultHeadings(language string) Headings {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "chinese", "zh", "zh-cn", "中文":
		return Headings{
			KeyThemes:      "关键主题",
			DiscussedTheme: "讨论的主题",
			TextSummary:    "文本摘要",
			MeetingSummary: "会议摘要",
		}
	}
	return Headings{
		KeyThemes:      "Key themes",
		DiscussedTheme: "Discussed themes",
		TextSummary:    "Summary",
		MeetingSummary: "Meeting summary",
	}
}

// Formatter renders reports.
type Formatter struct {
	headings Headings
}

// NewFormatter creates a Formatter using headings.
func NewFormatter(headings Headings) *Formatter {
	return &Formatter{headings: headings}
}

// Format renders one variant of res and restores speaker names. Long, and any other
// variant without a renderer, is rejected with an unsupported-variant error.
func (f *Formatter) Format(variant Variant, res *summarizer.Result, speakers *anonymizer.SpeakerMap) (Report, error) {
	var title, body string

	switch variant {
	case OneSentence:
		title = f.headings.KeyThemes
		body = oneSentence(res.ThemeLabels)
	case Short:
		title = f.headings.DiscussedTheme
		body = res.ThemeList + "\n\n" + f.headings.TextSummary + "\n" + res.Document
	case Median:
		title = f.headings.MeetingSummary
		body = median(res.Themes)
	case Long:
		return Report{}, domainerrors.UnsupportedVariantf("report variant %q is not yet available", variant)
	default:
		return Report{}, domainerrors.UnsupportedVariantf("unknown report variant %q", variant)
	}

	if speakers != nil {
		body = speakers.Restore(body)
	}
	return Report{Variant: variant, Title: title, Body: body}, nil
}

// FormatAll renders every variant in order. It stops at the first unsupported one.
func (f *Formatter) FormatAll(variants []Variant, res *summarizer.Result, speakers *anonymizer.SpeakerMap) ([]Report, error) {
	reports := make([]Report, 0, len(variants))
	for _, v := range variants {
		r, err := f.Format(v, res, speakers)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Text returns the report as title line followed by the body.
func (r Report) Text() string {
	return r.Title + "\n" + r.Body
}

func oneSentence(labels []string) string {
	topics := make([]string, 0, len(labels))
	for _, l := range labels {
		topics = append(topics, summarizer.ParseThemeLabel(l))
	}
	return strings.Join(topics, ", ")
}

// median alternates label and passage lines with a blank line after each pair.
func median(themes []summarizer.ThemeEntry) string {
	var b strings.Builder
	for _, t := range themes {
		b.WriteString(t.Label)
		b.WriteString("\n")
		b.WriteString(t.ExtractedText)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
