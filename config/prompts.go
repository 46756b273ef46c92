package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Prompt templates (prompts.yaml)
// ---------------------------------------------------------------------------

// Prompts holds the two templates sent to the translation backend.
// Templates use {{targetLang}}, {{numTexts}}, {{numberedTexts}} and
// {{appContext}} placeholders.
type Prompts struct {
	// SystemPrompt is the system-level instruction, parameterized by the
	// target language and the declared item count.
	SystemPrompt string `yaml:"system_prompt"`
	// TranslationPrompt is the per-call user prompt wrapping the numbered
	// source-text list and the app context.
	TranslationPrompt string `yaml:"translation_prompt"`
}

// DefaultSystemPrompt is the built-in system instruction.
const DefaultSystemPrompt = `You are a professional translator specializing in software localization. Translate the numbered strings into {{targetLang}}.

RULES:
- Return EXACTLY {{numTexts}} lines, one translation per line, in the same order as the input.
- Do not add numbering, explanations, quotes, or blank lines.
- Preserve format specifiers exactly as-is (%@, %d, %1$@, etc.).
- Preserve leading/trailing whitespace and punctuation patterns.
- Keep brand names and proper nouns unchanged.
- Translate for naturalness and fluency in {{targetLang}}, not word-for-word.`

// DefaultTranslationPrompt is the built-in user-prompt template.
const DefaultTranslationPrompt = `Translate the following {{numTexts}} strings into {{targetLang}}.

App context:
{{appContext}}

Strings to translate:
{{numberedTexts}}
Return exactly {{numTexts}} lines, one translation per line, in order.`

// DefaultPrompts returns the embedded prompt templates.
func DefaultPrompts() *Prompts {
	return &Prompts{
		SystemPrompt:      DefaultSystemPrompt,
		TranslationPrompt: DefaultTranslationPrompt,
	}
}

// LoadPrompts reads and validates a prompts file. If path is empty it tries
// "prompts.yaml" in the working directory and falls back to the embedded
// defaults when the file does not exist.
func LoadPrompts(path string) (*Prompts, error) {
	explicit := path != ""
	if path == "" {
		path = "prompts.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultPrompts(), nil
		}
		return nil, fmt.Errorf("reading prompts file: %w", err)
	}

	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if p.SystemPrompt == "" {
		return nil, fmt.Errorf("%s: missing required field 'system_prompt'", path)
	}
	if p.TranslationPrompt == "" {
		return nil, fmt.Errorf("%s: missing required field 'translation_prompt'", path)
	}
	return &p, nil
}

// RenderSystem resolves the system-prompt placeholders.
func (p *Prompts) RenderSystem(targetLang string, numTexts int) string {
	r := strings.NewReplacer(
		"{{targetLang}}", targetLang,
		"{{numTexts}}", strconv.Itoa(numTexts),
	)
	return r.Replace(p.SystemPrompt)
}

// RenderTranslation resolves the user-prompt placeholders.
func (p *Prompts) RenderTranslation(targetLang, appContext, numberedTexts string, numTexts int) string {
	r := strings.NewReplacer(
		"{{targetLang}}", targetLang,
		"{{appContext}}", appContext,
		"{{numberedTexts}}", numberedTexts,
		"{{numTexts}}", strconv.Itoa(numTexts),
	)
	return r.Replace(p.TranslationPrompt)
}
