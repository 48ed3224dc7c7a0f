package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	domainerrors "github.com/nguyentantai21042004/meeting-digest/internal/errors"
	"github.com/nguyentantai21042004/meeting-digest/internal/validation"
)

// Summary modes decide which report body is written under "{mode}_summary_{partLength}".
const (
	ModeShort = "short"
	ModeLong  = "long"
)

// Model backends.
const (
	BackendGemini  = "gemini"
	BackendOllama  = "ollama"
	BackendCommand = "command"
)

// Output formats for local reports.
const (
	FormatMarkdown = "markdown"
	FormatDocx     = "docx"
)

const envGeminiAPIKeys = "GEMINI_API_KEYS"

type Config struct {
	Summary     SummaryConfig     `yaml:"summary"`
	Model       ModelConfig       `yaml:"model"`
	Source      SourceConfig      `yaml:"source"`
	Paths       PathsConfig       `yaml:"paths"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type SummaryConfig struct {
	SectionLength    int           `yaml:"section_length" validate:"gt=0"`
	PartLengths      []int         `yaml:"part_lengths" validate:"min=1,dive,gt=0"`
	Modes            []string      `yaml:"modes" validate:"min=1,dive,oneof=short long"`
	Variants         []string      `yaml:"variants" validate:"min=1,dive,oneof=one_sentence short median long"`
	Language         string        `yaml:"language" validate:"required"`
	DropRemainder    *bool         `yaml:"drop_remainder"`
	SpeakerScanLimit int           `yaml:"speaker_scan_limit" validate:"gte=0"`
	Prompts          PromptsConfig `yaml:"prompts"`
}

// PromptsConfig overrides the prompt templates. Empty fields keep the built-in ones.
type PromptsConfig struct {
	Summarize string `yaml:"summarize"`
	Themes    string `yaml:"themes"`
	Elaborate string `yaml:"elaborate"`
}

type ModelConfig struct {
	Backend           string         `yaml:"backend" validate:"oneof=gemini ollama command"`
	CallTimeout       time.Duration  `yaml:"call_timeout" validate:"gt=0"`
	MaxRetries        *int           `yaml:"max_retries" validate:"omitempty,gte=0"`
	RetryBackoff      *time.Duration `yaml:"retry_backoff" validate:"omitempty,gte=0"`
	RequestsPerSecond float64        `yaml:"requests_per_second" validate:"gte=0"`
	Serialize         *bool          `yaml:"serialize"`
	Gemini            GeminiConfig   `yaml:"gemini"`
	Ollama            OllamaConfig   `yaml:"ollama"`
	Command           CommandConfig  `yaml:"command"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type OllamaConfig struct {
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	Model   string `yaml:"model"`
}

type CommandConfig struct {
	Binary string   `yaml:"binary"`
	Args   []string `yaml:"args"`
	// Dir is the working directory of the command. Empty runs it in the current one.
	Dir string `yaml:"dir"`
}

type SourceConfig struct {
	API    APIConfig    `yaml:"api"`
	SQLite SQLiteConfig `yaml:"sqlite"`
}

type APIConfig struct {
	BaseURL           string        `yaml:"base_url" validate:"omitempty,url"`
	TokenEnv          string        `yaml:"token_env"`
	RawKey            string        `yaml:"raw_key"`
	Timeout           time.Duration `yaml:"timeout" validate:"gte=0"`
	MaxRetries        *int          `yaml:"max_retries" validate:"omitempty,gte=0"`
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"gte=0"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
}

type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=markdown docx"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" validate:"gt=0"`
}

// Validate fills defaults and checks the configuration.
func (c *Config) Validate() error {
	c.applyDefaults()

	switch c.Model.Backend {
	case BackendGemini:
		if len(c.Model.Gemini.APIKeys) == 0 {
			return fmt.Errorf("model.gemini.api_keys is required (or set %s)", envGeminiAPIKeys)
		}
	case BackendOllama:
		if c.Model.Ollama.Model == "" {
			return fmt.Errorf("model.ollama.model is required")
		}
	case BackendCommand:
		if c.Model.Command.Binary == "" {
			return fmt.Errorf("model.command.binary is required")
		}
	}

	if err := c.Summary.checkModeVariants(); err != nil {
		return err
	}

	return validation.New().Validate(c)
}

// ModeVariant is the report variant whose text is stored for each summary mode.
var ModeVariant = map[string]string{
	ModeShort: "median",
	ModeLong:  "short",
}

// checkModeVariants makes sure every configured mode has its report variant rendered.
func (s SummaryConfig) checkModeVariants() error {
	for _, mode := range s.Modes {
		variant, ok := ModeVariant[mode]
		if !ok {
			continue
		}
		if !slices.Contains(s.Variants, variant) {
			return domainerrors.Validationf("summary.variants must include %q for mode %q", variant, mode)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Summary.SectionLength == 0 {
		c.Summary.SectionLength = 500
	}
	if len(c.Summary.PartLengths) == 0 {
		c.Summary.PartLengths = []int{1000, 1200, 1500}
	}
	if len(c.Summary.Modes) == 0 {
		c.Summary.Modes = []string{ModeShort, ModeLong}
	}
	if len(c.Summary.Variants) == 0 {
		c.Summary.Variants = []string{"one_sentence", "short", "median"}
	}
	if c.Summary.Language == "" {
		c.Summary.Language = "Chinese"
	}
	if c.Summary.DropRemainder == nil {
		c.Summary.DropRemainder = boolPtr(true)
	}
	if c.Summary.SpeakerScanLimit == 0 {
		c.Summary.SpeakerScanLimit = 1000
	}

	if c.Model.Backend == "" {
		c.Model.Backend = BackendGemini
	}
	if c.Model.CallTimeout == 0 {
		c.Model.CallTimeout = 2 * time.Minute
	}
	if c.Model.MaxRetries == nil {
		c.Model.MaxRetries = intPtr(3)
	}
	if c.Model.RetryBackoff == nil {
		c.Model.RetryBackoff = durationPtr(2 * time.Second)
	}
	if c.Model.Serialize == nil {
		c.Model.Serialize = boolPtr(true)
	}
	if c.Model.Gemini.Model == "" {
		c.Model.Gemini.Model = "gemini-2.5-flash"
	}
	if len(c.Model.Gemini.APIKeys) == 0 {
		c.Model.Gemini.APIKeys = splitList(os.Getenv(envGeminiAPIKeys))
	}

	if c.Source.API.TokenEnv == "" {
		c.Source.API.TokenEnv = "INTEGRATION_AUTH_TOKEN"
	}
	if c.Source.API.RawKey == "" {
		c.Source.API.RawKey = "原始文字"
	}
	if c.Source.API.Timeout == 0 {
		c.Source.API.Timeout = 30 * time.Second
	}
	if c.Source.API.MaxRetries == nil {
		c.Source.API.MaxRetries = intPtr(3)
	}
	if c.Source.SQLite.Path == "" {
		c.Source.SQLite.Path = "data/summaries.sqlite"
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatMarkdown
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
}

// DropRemainderEnabled reports whether trailing partial parts and unpaired utterances are discarded.
func (s SummaryConfig) DropRemainderEnabled() bool {
	return s.DropRemainder == nil || *s.DropRemainder
}

// Retries is the number of extra attempts after a failed model call.
func (m ModelConfig) Retries() int {
	if m.MaxRetries == nil {
		return 0
	}
	return *m.MaxRetries
}

// Backoff is the wait before the first model retry.
func (m ModelConfig) Backoff() time.Duration {
	if m.RetryBackoff == nil {
		return 0
	}
	return *m.RetryBackoff
}

// Retries is the number of extra attempts after a failed API request.
func (a APIConfig) Retries() int {
	if a.MaxRetries == nil {
		return 0
	}
	return *a.MaxRetries
}

// Serialized reports whether model calls must never overlap.
func (m ModelConfig) Serialized() bool {
	return m.Serialize == nil || *m.Serialize
}

// SummaryKey names the stored summary for a mode and part length.
func SummaryKey(mode string, partLength int) string {
	return fmt.Sprintf("%s_summary_%d", mode, partLength)
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *int {
	return &i
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
