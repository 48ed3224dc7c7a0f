package summarizer

import "strings"

// Prompt placeholders.
const (
	placeholderLanguage = "{language}"
	placeholderText     = "{text}"
	placeholderLabel    = "{label}"
)

// Prompts holds the three prompt templates. {text} is the input text, {language} the
// output language and {label} the theme being elaborated.
type Prompts struct {
	Language  string
	Summarize string
	Themes    string
	Elaborate string
}

// DefaultPrompts returns the built-in templates for language. Chinese gets the
// templates the pipeline was first tuned with.
func DefaultPrompts(language string) Prompts {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "chinese", "zh", "zh-cn", "中文":
		return Prompts{
			Language:  language,
			Summarize: "请对下面这句话用中文进行摘要:{text}生成摘要:",
			Themes:    "请对下面这句话用list格式例举提取的主题词:{text}",
			Elaborate: "请提取原文{text}中描述{label}的部分:",
		}
	}
	return Prompts{
		Language:  language,
		Summarize: "summarize the following text in {language}: {text} produce summary:",
		Themes:    "list the themes discussed in the following text as a numbered list in {language}: {text}",
		Elaborate: "extract the part of the original text {text} that describes {label}:",
	}
}

func (p Prompts) withDefaults(d Prompts) Prompts {
	if p.Language == "" {
		p.Language = d.Language
	}
	if p.Summarize == "" {
		p.Summarize = d.Summarize
	}
	if p.Themes == "" {
		p.Themes = d.Themes
	}
	if p.Elaborate == "" {
		p.Elaborate = d.Elaborate
	}
	return p
}

// WithOverrides replaces the templates whose override is non-empty.
func (p Prompts) WithOverrides(summarize, themes, elaborate string) Prompts {
	return Prompts{Language: p.Language, Summarize: summarize, Themes: themes, Elaborate: elaborate}.withDefaults(p)
}

func (p Prompts) summarize(text string) string {
	return p.render(p.Summarize, text, "")
}

func (p Prompts) themes(text string) string {
	return p.render(p.Themes, text, "")
}

func (p Prompts) elaborate(text, label string) string {
	return p.render(p.Elaborate, text, label)
}

// render substitutes placeholders in one pass so placeholder-like text inside the
// transcript is left alone.
func (p Prompts) render(tmpl, text, label string) string {
	return strings.NewReplacer(
		placeholderLanguage, p.Language,
		placeholderText, text,
		placeholderLabel, label,
	).Replace(tmpl)
}
