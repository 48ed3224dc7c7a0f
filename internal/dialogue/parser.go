// Package dialogue turns raw "<speaker>(<timestamp>) <text>" lines into coded utterances.
package dialogue

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nguyentantai21042004/meeting-digest/internal/anonymizer"
	domainerrors "github.com/nguyentantai21042004/meeting-digest/internal/errors"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
)

// Parser converts raw transcript lines into utterances.
type Parser struct {
	logger logger.Logger
}

// NewParser creates a Parser that reports skipped lines through log.
func NewParser(log logger.Logger) *Parser {
	return &Parser{logger: log}
}

// Timestamp returns the text between the first "(" and the next ")".
func Timestamp(line string) (string, bool) {
	_, rest, ok := strings.Cut(line, "(")
	if !ok {
		return "", false
	}
	ts, _, ok := strings.Cut(rest, ")")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(ts), true
}

// Parse returns the utterances of lines in order. Lines without a recognizable
// speaker are logged, returned as anomalies and skipped; parsing always continues.
func (p *Parser) Parse(ctx context.Context, lines []string, speakers *anonymizer.SpeakerMap) ([]Utterance, []Anomaly) {
	var utterances []Utterance
	var anomalies []Anomaly

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		u, err := parseLine(line, speakers)
		if err != nil {
			a := Anomaly{LineNumber: i + 1, Line: raw, Reason: err.Error()}
			anomalies = append(anomalies, a)
			p.logger.Warn(ctx, "Skipping line %d: %s: %q", a.LineNumber, a.Reason, a.Line)
			continue
		}
		utterances = append(utterances, u)
	}

	if len(anomalies) > 0 {
		p.logger.Info(ctx, "Parsed %d utterances, skipped %d lines", len(utterances), len(anomalies))
	}

	return utterances, anomalies
}

func parseLine(line string, speakers *anonymizer.SpeakerMap) (Utterance, error) {
	ts, ok := Timestamp(line)
	if !ok {
		return Utterance{}, domainerrors.ParseAnomalyf("no (timestamp) delimiter")
	}

	prefix, _ := anonymizer.SpeakerPrefix(line)
	name, ok := speakers.Resolve(prefix)
	if !ok {
		return Utterance{}, domainerrors.ParseAnomalyf("unknown speaker %q", prefix)
	}

	coded, ok := speakers.Substitute(line)
	if !ok {
		return Utterance{}, domainerrors.ParseAnomalyf("cannot substitute speaker %q", name)
	}

	code, _ := speakers.Code(name)
	return Utterance{SpeakerCode: code, Text: coded, Timestamp: ts}, nil
}

// ReadLines reads r line by line, right-trimming each line and dropping blank ones.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript lines: %w", err)
	}

	return lines, nil
}

// SplitLines splits raw transcript text the same way ReadLines does.
func SplitLines(text string) []string {
	lines, _ := ReadLines(strings.NewReader(text))
	return lines
}
