// Package langmeta provides a language metadata registry used to turn
// language codes into display names: the English name goes into the
// translation prompts, the native name into CLI output.
package langmeta

import "strings"

// Meta describes language display metadata.
type Meta struct {
	// Name is the English language name ("German"), used in prompts.
	Name string
	// Native is the language's own name ("Deutsch"), used in summaries.
	Native string
}

// Registry contains canonical language metadata. Locale variants are
// resolved in Resolve via normalization and base-language fallback.
var Registry = map[string]Meta{
	"ar":      {Name: "Arabic", Native: "العربية"},
	"ca":      {Name: "Catalan", Native: "Català"},
	"cs":      {Name: "Czech", Native: "Čeština"},
	"da":      {Name: "Danish", Native: "Dansk"},
	"de":      {Name: "German", Native: "Deutsch"},
	"el":      {Name: "Greek", Native: "Ελληνικά"},
	"en":      {Name: "English", Native: "English"},
	"en-GB":   {Name: "English (UK)", Native: "English (UK)"},
	"es":      {Name: "Spanish", Native: "Español"},
	"es-419":  {Name: "Spanish (Latin America)", Native: "Español (Latinoamérica)"},
	"fi":      {Name: "Finnish", Native: "Suomi"},
	"fr":      {Name: "French", Native: "Français"},
	"fr-CA":   {Name: "French (Canada)", Native: "Français (Canada)"},
	"he":      {Name: "Hebrew", Native: "עברית"},
	"hi":      {Name: "Hindi", Native: "हिन्दी"},
	"hr":      {Name: "Croatian", Native: "Hrvatski"},
	"hu":      {Name: "Hungarian", Native: "Magyar"},
	"id":      {Name: "Indonesian", Native: "Bahasa Indonesia"},
	"it":      {Name: "Italian", Native: "Italiano"},
	"ja":      {Name: "Japanese", Native: "日本語"},
	"ko":      {Name: "Korean", Native: "한국어"},
	"ms":      {Name: "Malay", Native: "Bahasa Melayu"},
	"nb":      {Name: "Norwegian Bokmål", Native: "Norsk bokmål"},
	"nl":      {Name: "Dutch", Native: "Nederlands"},
	"pl":      {Name: "Polish", Native: "Polski"},
	"pt-BR":   {Name: "Portuguese (Brazil)", Native: "Português (Brasil)"},
	"pt-PT":   {Name: "Portuguese (Portugal)", Native: "Português (Portugal)"},
	"ro":      {Name: "Romanian", Native: "Română"},
	"ru":      {Name: "Russian", Native: "Русский"},
	"sk":      {Name: "Slovak", Native: "Slovenčina"},
	"sv":      {Name: "Swedish", Native: "Svenska"},
	"th":      {Name: "Thai", Native: "ไทย"},
	"tr":      {Name: "Turkish", Native: "Türkçe"},
	"uk":      {Name: "Ukrainian", Native: "Українська"},
	"vi":      {Name: "Vietnamese", Native: "Tiếng Việt"},
	"zh-HK":   {Name: "Chinese (Hong Kong)", Native: "繁體中文（香港）"},
	"zh-Hans": {Name: "Chinese (Simplified)", Native: "简体中文"},
	"zh-Hant": {Name: "Chinese (Traditional)", Native: "繁體中文"},
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 && len(parts[1]) == 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort metadata for a language code, supporting
// variants like pt_BR and pt-BR and base-language fallback. Unknown codes
// resolve to themselves so prompts degrade to the raw code.
func Resolve(lang string) Meta {
	if m, ok := Registry[lang]; ok {
		return m
	}
	normalized := canonicalize(lang)
	if m, ok := Registry[normalized]; ok {
		return m
	}
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		if m, ok := Registry[parts[0]]; ok {
			return m
		}
	}
	return Meta{Name: lang, Native: lang}
}
