package tts

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is used when neither configuration nor environment name one.
const DefaultLocale = "en-US"

// Voice describes one selectable synthetic voice.
type Voice struct {
	ID       string `yaml:"id"`       // Engine specific identifier
	Name     string `yaml:"name"`     // Human-readable name
	Language string `yaml:"language"` // BCP 47 language tag (e.g., "en-US")
}

// String renders the voice the way pickers show it.
func (v Voice) String() string {
	if v.Language == "" {
		return v.Name
	}
	return v.Name + " (" + v.Language + ")"
}

// FindVoice returns the voice with the given ID.
func FindVoice(voices []Voice, id string) (Voice, bool) {
	if id == "" {
		return Voice{}, false
	}
	for _, v := range voices {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}

// SelectDefaultVoice picks the first voice whose language equals the
// locale, falling back to the first voice sharing its primary language
// subtag. It reports false when nothing matches.
func SelectDefaultVoice(locale string, voices []Voice) (Voice, bool) {
	want, wantBase, ok := normalizeTag(locale)
	if !ok {
		return Voice{}, false
	}

	for _, v := range voices {
		if tag, _, ok := normalizeTag(v.Language); ok && tag == want {
			return v, true
		}
	}
	for _, v := range voices {
		if _, base, ok := normalizeTag(v.Language); ok && base == wantBase {
			return v, true
		}
	}
	return Voice{}, false
}

// normalizeTag returns the canonical form of a language tag and its
// primary subtag. POSIX style tags ("en_US.UTF-8") are accepted.
func normalizeTag(s string) (tag string, base string, ok bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	if s == "" || strings.EqualFold(s, "C") || strings.EqualFold(s, "POSIX") {
		return "", "", false
	}

	t, err := language.Parse(s)
	if err != nil {
		// Engines sometimes report tags x/text rejects; compare them
		// lexically instead.
		lower := strings.ToLower(s)
		primary, _, _ := strings.Cut(lower, "-")
		return lower, primary, true
	}
	b, _ := t.Base()
	return strings.ToLower(t.String()), b.String(), true
}

// LocaleFromEnv derives the user's locale from the POSIX locale variables.
func LocaleFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if tag, _, ok := normalizeTag(v); ok {
			if t, err := language.Parse(tag); err == nil {
				return t.String()
			}
			return tag
		}
	}
	return DefaultLocale
}
