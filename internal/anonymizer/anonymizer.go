// Package anonymizer replaces speaker names with short letter codes before
// transcript text reaches the model, and puts the names back afterwards.
package anonymizer

import (
	"regexp"
	"sort"
	"strings"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultScanLimit is how many non-empty lines IdentifySpeakers inspects when no limit is given.
const DefaultScanLimit = 1000

// Token is how a speaker code appears in coded text. The brackets keep "[A]" apart from
// the English article "A" and from whatever text follows the timestamp.
func Token(code string) string {
	return "[" + code + "]"
}

// SpeakerCode returns the code for the speaker at index i: A..Z, then AA..ZZ, AAA..
func SpeakerCode(i int) string {
	letter := string(alphabet[i%len(alphabet)])
	return strings.Repeat(letter, i/len(alphabet)+1)
}

// SpeakerPrefix returns the text in front of the first "(" of a raw line, trimmed.
// ok is false when the line has no "(".
func SpeakerPrefix(line string) (prefix string, ok bool) {
	before, _, found := strings.Cut(line, "(")
	if !found {
		return "", false
	}
	return strings.TrimSpace(before), true
}

// IdentifySpeakers collects distinct speaker names in first-seen order.
// Only the first limit non-empty lines are scanned; limit <= 0 scans everything.
func IdentifySpeakers(lines []string, limit int) []string {
	var names []string
	seen := make(map[string]bool)
	scanned := 0

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if limit > 0 && scanned >= limit {
			break
		}
		scanned++

		name, ok := SpeakerPrefix(line)
		if !ok || name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return names
}

// SpeakerMap is the bidirectional name/code mapping for one transcript.
// It is built once and only read afterwards.
type SpeakerMap struct {
	names  []string
	byName map[string]string
	byCode map[string]string
	codeRe *regexp.Regexp
}

// BuildCodeMap assigns codes to names by position. The same ordered input always yields the same map.
func BuildCodeMap(names []string) *SpeakerMap {
	m := &SpeakerMap{
		byName: make(map[string]string, len(names)),
		byCode: make(map[string]string, len(names)),
	}

	for _, name := range names {
		if _, dup := m.byName[name]; dup {
			continue
		}
		code := SpeakerCode(len(m.names))
		m.names = append(m.names, name)
		m.byName[name] = code
		m.byCode[code] = name
	}

	m.codeRe = compileCodePattern(m.byCode)
	return m
}

// compileCodePattern matches any bracketed code token. Bare letters never match.
func compileCodePattern(byCode map[string]string) *regexp.Regexp {
	if len(byCode) == 0 {
		return nil
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if len(codes[i]) != len(codes[j]) {
			return len(codes[i]) > len(codes[j])
		}
		return codes[i] < codes[j]
	})

	return regexp.MustCompile(`\[(` + strings.Join(codes, "|") + `)\]`)
}

// Names returns the known names in code order.
func (m *SpeakerMap) Names() []string {
	return append([]string(nil), m.names...)
}

// Len returns the number of known speakers.
func (m *SpeakerMap) Len() int {
	return len(m.names)
}

// Code returns the code assigned to name.
func (m *SpeakerMap) Code(name string) (string, bool) {
	code, ok := m.byName[name]
	return code, ok
}

// Name returns the speaker behind code.
func (m *SpeakerMap) Name(code string) (string, bool) {
	name, ok := m.byCode[code]
	return name, ok
}

// Resolve finds the known speaker of a line prefix. An exact match wins; otherwise the
// longest known name contained in the prefix is used, ties going to the earlier speaker.
func (m *SpeakerMap) Resolve(prefix string) (string, bool) {
	prefix = strings.TrimSpace(prefix)
	if _, ok := m.byName[prefix]; ok {
		return prefix, true
	}

	best := ""
	for _, name := range m.names {
		if name != "" && len(name) > len(best) && strings.Contains(prefix, name) {
			best = name
		}
	}
	return best, best != ""
}

// Substitute replaces the "name(timestamp)" head of a raw line with the speaker's Token.
// The timestamp ends at the first ")" after the "(". ok is false when no known speaker matches.
func (m *SpeakerMap) Substitute(line string) (coded string, ok bool) {
	line = strings.TrimSpace(line)
	open := strings.Index(line, "(")
	if open < 0 {
		return "", false
	}

	name, found := m.Resolve(line[:open])
	if !found {
		return "", false
	}

	start := strings.LastIndex(line[:open], name)
	closeAt := strings.Index(line[open:], ")")
	if start < 0 || closeAt < 0 {
		return "", false
	}

	return line[:start] + Token(m.byName[name]) + line[open+closeAt+1:], true
}

// Restore replaces every speaker token in text with "{{name}}".
func (m *SpeakerMap) Restore(text string) string {
	if m.codeRe == nil {
		return text
	}
	return m.codeRe.ReplaceAllStringFunc(text, func(token string) string {
		code := strings.TrimSuffix(strings.TrimPrefix(token, "["), "]")
		return "{{" + m.byCode[code] + "}}"
	})
}
