package processor

import (
	"github.com/nguyentantai21042004/meeting-digest/internal/config"
	"github.com/nguyentantai21042004/meeting-digest/internal/dialogue"
	"github.com/nguyentantai21042004/meeting-digest/internal/llm"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/internal/report"
	"github.com/nguyentantai21042004/meeting-digest/internal/summarizer"
)

type implProcessor struct {
	cfg       *config.Config
	model     llm.Model
	parser    *dialogue.Parser
	formatter *report.Formatter
	prompts   summarizer.Prompts
	logger    logger.Logger
}

// New creates a Processor. model is shared by every transcript the processor handles.
func New(cfg *config.Config, model llm.Model, log logger.Logger) Processor {
	prompts := summarizer.DefaultPrompts(cfg.Summary.Language).WithOverrides(
		cfg.Summary.Prompts.Summarize,
		cfg.Summary.Prompts.Themes,
		cfg.Summary.Prompts.Elaborate,
	)

	return &implProcessor{
		cfg:       cfg,
		model:     model,
		parser:    dialogue.NewParser(log),
		formatter: report.NewFormatter(report.DefaultHeadings(cfg.Summary.Language)),
		prompts:   prompts,
		logger:    log,
	}
}
