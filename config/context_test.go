package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validContextYAML = `
app_description: A photo journaling app for iOS.
preserve_names:
  - PhotoDiary
  - iCloud
terminology:
  - term: Entry
    description: A single journal post.
  - term: Album
    description: A user-curated collection of entries.
style_guide:
  tone: Friendly and casual
  formality: Informal address form
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadContext_Valid(t *testing.T) {
	path := writeFile(t, "app_context.yaml", validContextYAML)

	c, err := LoadContext(path)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if c.AppDescription != "A photo journaling app for iOS." {
		t.Errorf("app_description = %q", c.AppDescription)
	}
	if len(c.PreserveNames) != 2 || c.PreserveNames[0] != "PhotoDiary" {
		t.Errorf("preserve_names = %v", c.PreserveNames)
	}
	if len(c.Terminology) != 2 || c.Terminology[1].Term != "Album" {
		t.Errorf("terminology = %v", c.Terminology)
	}
	if c.StyleGuide["tone"] != "Friendly and casual" {
		t.Errorf("style_guide = %v", c.StyleGuide)
	}
}

func TestLoadContext_MissingFields(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "no app_description",
			yaml: "preserve_names: []\nterminology: []\nstyle_guide: {}\n",
			want: "app_description",
		},
		{
			name: "no preserve_names",
			yaml: "app_description: x\nterminology: []\nstyle_guide: {}\n",
			want: "preserve_names",
		},
		{
			name: "no terminology",
			yaml: "app_description: x\npreserve_names: []\nstyle_guide: {}\n",
			want: "terminology",
		},
		{
			name: "no style_guide",
			yaml: "app_description: x\npreserve_names: []\nterminology: []\n",
			want: "style_guide",
		},
		{
			name: "terminology entry without description",
			yaml: "app_description: x\npreserve_names: []\nstyle_guide: {}\nterminology:\n  - term: Entry\n",
			want: "terminology entry 1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "ctx.yaml", tc.yaml)
			_, err := LoadContext(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestLoadContext_MissingFile(t *testing.T) {
	_, err := LoadContext(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestContextFormat(t *testing.T) {
	c := &Context{
		AppDescription: "A photo app.",
		PreserveNames:  []string{"PhotoDiary"},
		Terminology:    []Term{{Term: "Entry", Description: "A journal post."}},
		StyleGuide:     map[string]string{"tone": "casual", "length": "short"},
	}

	got := c.Format()
	if !strings.HasPrefix(got, "A photo app.") {
		t.Errorf("description must lead: %q", got)
	}
	for _, want := range []string{
		"Names to keep untranslated:\n- PhotoDiary",
		"Key Terminology:\n- Entry: A journal post.",
		"Style Guide:\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	// Style-guide keys come out sorted regardless of map order.
	if strings.Index(got, "- length: short") > strings.Index(got, "- tone: casual") {
		t.Errorf("style guide keys not sorted:\n%s", got)
	}
}
