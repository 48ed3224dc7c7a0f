// Package section groups utterances into sections long enough to be worth one model call.
package section

import (
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/meeting-digest/internal/dialogue"
)

// DefaultLength is the default minimum section size in characters.
const DefaultLength = 500

// Separator joins utterance texts inside a section.
const Separator = "\n"

// Section is a run of consecutive utterance pairs.
type Section struct {
	StartTime  string
	EndTime    string
	Utterances []dialogue.Utterance
	Text       string
}

// Span formats the section time range as "start--end".
func (s Section) Span() string {
	return s.StartTime + "--" + s.EndTime
}

// Len is the section length in characters.
func (s Section) Len() int {
	return utf8.RuneCountInString(s.Text)
}

// Options controls chunking.
type Options struct {
	// Length is the character count at which a section is closed.
	Length int
	// DropRemainder discards a trailing utterance that has no partner.
	// When false it is appended to the last section.
	DropRemainder bool
}

// Result is the outcome of Chunk.
type Result struct {
	Sections []Section
	// Dropped holds utterances left out of every section.
	Dropped []dialogue.Utterance
}

// Chunk walks the utterances as (i, i+1) turn pairs and closes a section once its text
// reaches opts.Length characters. A shorter trailing section of complete pairs is kept.
func Chunk(utterances []dialogue.Utterance, opts Options) Result {
	if opts.Length <= 0 {
		opts.Length = DefaultLength
	}

	var res Result
	var current []dialogue.Utterance

	closeSection := func() {
		if len(current) == 0 {
			return
		}
		res.Sections = append(res.Sections, newSection(current))
		current = nil
	}

	i := 0
	for ; i+1 < len(utterances); i += 2 {
		current = append(current, utterances[i], utterances[i+1])
		if textLen(current) >= opts.Length {
			closeSection()
		}
	}

	closeSection()

	if i < len(utterances) {
		last := utterances[i]
		switch {
		case opts.DropRemainder:
			res.Dropped = append(res.Dropped, last)
		case len(res.Sections) > 0:
			tail := &res.Sections[len(res.Sections)-1]
			*tail = newSection(append(tail.Utterances, last))
		default:
			res.Sections = append(res.Sections, newSection([]dialogue.Utterance{last}))
		}
	}

	return res
}

func newSection(utterances []dialogue.Utterance) Section {
	texts := make([]string, len(utterances))
	for i, u := range utterances {
		texts[i] = u.Text
	}
	return Section{
		StartTime:  utterances[0].Timestamp,
		EndTime:    utterances[len(utterances)-1].Timestamp,
		Utterances: append([]dialogue.Utterance(nil), utterances...),
		Text:       strings.Join(texts, Separator),
	}
}

func textLen(utterances []dialogue.Utterance) int {
	n := 0
	for i, u := range utterances {
		if i > 0 {
			n += utf8.RuneCountInString(Separator)
		}
		n += utf8.RuneCountInString(u.Text)
	}
	return n
}
