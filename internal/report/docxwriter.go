package report

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reNumbered = regexp.MustCompile(`^\d+\s*[.)、]\s*(.+)$`)
	reBullet   = regexp.MustCompile(`^[\-\*•]\s+(.+)$`)
	reSpeaker  = regexp.MustCompile(`\{\{(.+?)\}\}`)
)

// WriteDocx saves r as a styled docx file. Theme labels are set in bold and restored
// speaker names lose their {{ }} markup.
func WriteDocx(r Report, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), r.Title, true, 16)

	for _, line := range strings.Split(r.Body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		p := doc.AddParagraph("")
		switch {
		case reNumbered.MatchString(trimmed):
			addStyledRun(p, trimmed, true, fontSize)
		case reBullet.MatchString(trimmed):
			m := reBullet.FindStringSubmatch(trimmed)
			addRichText(p, "• "+m[1])
		default:
			addRichText(p, trimmed)
		}
	}

	return doc.SaveTo(outputPath)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(stripSpeakerMarkup(text)).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// addRichText writes text with speaker names in bold.
func addRichText(p *docx.Paragraph, text string) {
	parts := reSpeaker.Split(text, -1)
	matches := reSpeaker.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(part).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(matches[i][1]).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func stripSpeakerMarkup(s string) string {
	return reSpeaker.ReplaceAllString(s, "$1")
}
