package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrompts_ExplicitFile(t *testing.T) {
	path := writeFile(t, "prompts.yaml", `
system_prompt: "Translate into {{targetLang}}, exactly {{numTexts}} lines."
translation_prompt: "{{appContext}}\n{{numberedTexts}}"
`)

	p, err := LoadPrompts(path)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if !strings.Contains(p.SystemPrompt, "{{targetLang}}") {
		t.Errorf("system_prompt = %q", p.SystemPrompt)
	}
}

func TestLoadPrompts_ExplicitMissingFileFails(t *testing.T) {
	_, err := LoadPrompts(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("an explicitly named prompts file must exist")
	}
}

func TestLoadPrompts_DefaultWhenNoFile(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	p, err := LoadPrompts("")
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if p.SystemPrompt != DefaultSystemPrompt || p.TranslationPrompt != DefaultTranslationPrompt {
		t.Error("expected the embedded defaults")
	}
}

func TestLoadPrompts_MissingFields(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"no system_prompt", "translation_prompt: x\n", "system_prompt"},
		{"no translation_prompt", "system_prompt: x\n", "translation_prompt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "prompts.yaml", tc.yaml)
			_, err := LoadPrompts(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestRenderSystem(t *testing.T) {
	p := DefaultPrompts()
	got := p.RenderSystem("German", 7)

	if strings.Contains(got, "{{") {
		t.Errorf("unresolved placeholder:\n%s", got)
	}
	if !strings.Contains(got, "German") {
		t.Errorf("target language missing:\n%s", got)
	}
	if !strings.Contains(got, "EXACTLY 7 lines") {
		t.Errorf("count missing:\n%s", got)
	}
}

func TestRenderTranslation(t *testing.T) {
	p := DefaultPrompts()
	got := p.RenderTranslation("German", "A photo app.", "1. Hello\n2. World\n", 2)

	if strings.Contains(got, "{{") {
		t.Errorf("unresolved placeholder:\n%s", got)
	}
	for _, want := range []string{
		"2 strings into German",
		"A photo app.",
		"1. Hello\n2. World",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}
