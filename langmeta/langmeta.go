// Package langmeta maps Weblate language codes (en, zh_Hans, pt_BR, ...)
// to display names and flags for CLI output.
package langmeta

import "strings"

// Meta describes language display metadata.
type Meta struct {
	Name string
	Flag string
}

// Registry is keyed by canonical BCP 47 style codes (see canonicalize).
var Registry = map[string]Meta{
	"ar":      {Name: "العربية", Flag: "🇸🇦"},
	"cs":      {Name: "Čeština", Flag: "🇨🇿"},
	"de":      {Name: "Deutsch", Flag: "🇩🇪"},
	"en":      {Name: "English", Flag: "🇺🇸"},
	"en-GB":   {Name: "English (UK)", Flag: "🇬🇧"},
	"es":      {Name: "Español", Flag: "🇪🇸"},
	"fil":     {Name: "Filipino", Flag: "🇵🇭"},
	"fr":      {Name: "Français", Flag: "🇫🇷"},
	"hu":      {Name: "Magyar", Flag: "🇭🇺"},
	"id":      {Name: "Bahasa Indonesia", Flag: "🇮🇩"},
	"it":      {Name: "Italiano", Flag: "🇮🇹"},
	"ja":      {Name: "日本語", Flag: "🇯🇵"},
	"ko":      {Name: "한국어", Flag: "🇰🇷"},
	"ms":      {Name: "Bahasa Melayu", Flag: "🇲🇾"},
	"nl":      {Name: "Nederlands", Flag: "🇳🇱"},
	"pl":      {Name: "Polski", Flag: "🇵🇱"},
	"pt":      {Name: "Português", Flag: "🇵🇹"},
	"pt-BR":   {Name: "Português (Brasil)", Flag: "🇧🇷"},
	"ru":      {Name: "Русский", Flag: "🇷🇺"},
	"sv":      {Name: "Svenska", Flag: "🇸🇪"},
	"th":      {Name: "ไทย", Flag: "🇹🇭"},
	"tr":      {Name: "Türkçe", Flag: "🇹🇷"},
	"uk":      {Name: "Українська", Flag: "🇺🇦"},
	"vi":      {Name: "Tiếng Việt", Flag: "🇻🇳"},
	"zh":      {Name: "中文", Flag: "🇨🇳"},
	"zh-Hans": {Name: "简体中文", Flag: "🇨🇳"},
	"zh-Hant": {Name: "繁體中文", Flag: "🇹🇼"},
}

// canonicalize turns Weblate's underscore codes into hyphenated ones with
// conventional casing: language lower, script title, region upper.
func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	for i := 1; i < len(parts); i++ {
		p := parts[i]
		switch {
		case len(p) == 4:
			parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
		case len(p) == 2 || len(p) == 3:
			parts[i] = strings.ToUpper(p)
		}
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort metadata for lang, trying the exact code,
// its canonical form and then shorter prefixes. Unknown codes return
// their own code as name.
func Resolve(lang string) Meta {
	if m, ok := Registry[lang]; ok {
		return m
	}
	normalized := canonicalize(lang)
	parts := strings.Split(normalized, "-")
	for n := len(parts); n > 0; n-- {
		if m, ok := Registry[strings.Join(parts[:n], "-")]; ok {
			return m
		}
	}
	return Meta{Name: lang, Flag: ""}
}

// Label returns "Name (code)" for lang, or just the code when unknown.
func Label(lang string) string {
	m := Resolve(lang)
	if m.Name == lang {
		return lang
	}
	return m.Name + " (" + lang + ")"
}
