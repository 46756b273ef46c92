// Package config loads the two YAML collaborator files: the app-context
// file describing the application being localized, and the prompts file
// holding the templates sent to the translation backend.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// App context (app_context.yaml)
// ---------------------------------------------------------------------------

// Term is one terminology entry.
type Term struct {
	// Term is the word or phrase as it appears in the app.
	Term string `yaml:"term"`
	// Description explains how the term should be handled in translation.
	Description string `yaml:"description"`
}

// Context is the app_context.yaml schema. All fields are required.
type Context struct {
	// AppDescription is a free-text description of the application.
	AppDescription string `yaml:"app_description"`
	// PreserveNames lists names that must never be translated.
	PreserveNames []string `yaml:"preserve_names"`
	// Terminology maps app-specific terms to translation guidance.
	Terminology []Term `yaml:"terminology"`
	// StyleGuide holds style rules as key/value pairs.
	StyleGuide map[string]string `yaml:"style_guide"`
}

// LoadContext reads and validates an app-context file.
func LoadContext(path string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading context file: %w", err)
	}

	var c Context
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

func (c *Context) validate() error {
	if c.AppDescription == "" {
		return fmt.Errorf("missing required field 'app_description'")
	}
	if c.PreserveNames == nil {
		return fmt.Errorf("missing required field 'preserve_names'")
	}
	if c.Terminology == nil {
		return fmt.Errorf("missing required field 'terminology'")
	}
	if c.StyleGuide == nil {
		return fmt.Errorf("missing required field 'style_guide'")
	}
	for i, t := range c.Terminology {
		if t.Term == "" || t.Description == "" {
			return fmt.Errorf("terminology entry %d must have 'term' and 'description' fields", i+1)
		}
	}
	return nil
}

// Format renders the context blob handed to the translation backend.
// Style-guide keys are emitted sorted so the output is deterministic.
func (c *Context) Format() string {
	var b strings.Builder
	b.WriteString(c.AppDescription)

	if len(c.PreserveNames) > 0 {
		b.WriteString("\n\nNames to keep untranslated:\n")
		for _, name := range c.PreserveNames {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}

	b.WriteString("\nKey Terminology:\n")
	for _, t := range c.Terminology {
		fmt.Fprintf(&b, "- %s: %s\n", t.Term, t.Description)
	}

	b.WriteString("\nStyle Guide:\n")
	keys := make([]string, 0, len(c.StyleGuide))
	for k := range c.StyleGuide {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, c.StyleGuide[k])
	}

	return b.String()
}
