package tts

import "testing"

func TestSelectDefaultVoice(t *testing.T) {
	voices := []Voice{
		{ID: "de", Name: "Anna", Language: "de-DE"},
		{ID: "en-gb", Name: "Daniel", Language: "en_GB"},
		{ID: "en-us", Name: "Alex", Language: "en-US"},
		{ID: "pt", Name: "Luciana", Language: "pt-BR"},
	}

	tests := []struct {
		name   string
		locale string
		want   string
		found  bool
	}{
		{"exact match", "en-US", "en-us", true},
		{"case insensitive", "EN-us", "en-us", true},
		{"posix locale", "en_US.UTF-8", "en-us", true},
		{"underscore voice tag", "en-GB", "en-gb", true},
		{"primary subtag fallback picks first", "en-IN", "en-gb", true},
		{"bare language", "pt", "pt", true},
		{"no match", "ja-JP", "", false},
		{"empty locale", "", "", false},
		{"C locale", "C", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectDefaultVoice(tt.locale, voices)
			if ok != tt.found {
				t.Fatalf("SelectDefaultVoice(%q) found = %v, want %v", tt.locale, ok, tt.found)
			}
			if got.ID != tt.want {
				t.Errorf("SelectDefaultVoice(%q) = %q, want %q", tt.locale, got.ID, tt.want)
			}
		})
	}
}

func TestSelectDefaultVoiceEmptyList(t *testing.T) {
	if _, ok := SelectDefaultVoice("en-US", nil); ok {
		t.Error("SelectDefaultVoice on an empty list should find nothing")
	}
}

func TestFindVoice(t *testing.T) {
	voices := []Voice{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}

	if v, ok := FindVoice(voices, "b"); !ok || v.Name != "B" {
		t.Errorf("FindVoice(b) = %v, %v", v, ok)
	}
	if _, ok := FindVoice(voices, ""); ok {
		t.Error("FindVoice with empty ID should fail")
	}
	if _, ok := FindVoice(voices, "c"); ok {
		t.Error("FindVoice(c) should fail")
	}
}

func TestVoiceString(t *testing.T) {
	if got := (Voice{Name: "Alex", Language: "en-US"}).String(); got != "Alex (en-US)" {
		t.Errorf("String() = %q", got)
	}
	if got := (Voice{Name: "Alex"}).String(); got != "Alex" {
		t.Errorf("String() = %q", got)
	}
}

func TestLocaleFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"LC_ALL wins", map[string]string{"LC_ALL": "fr_FR.UTF-8", "LANG": "de_DE.UTF-8"}, "fr-FR"},
		{"LC_MESSAGES", map[string]string{"LC_MESSAGES": "es_ES", "LANG": "de_DE"}, "es-ES"},
		{"LANG", map[string]string{"LANG": "pt_BR.UTF-8"}, "pt-BR"},
		{"C is skipped", map[string]string{"LC_ALL": "C", "LANG": "it_IT"}, "it-IT"},
		{"default", nil, DefaultLocale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
				t.Setenv(k, tt.env[k])
			}
			if got := LocaleFromEnv(); got != tt.want {
				t.Errorf("LocaleFromEnv() = %q, want %q", got, tt.want)
			}
		})
	}
}
