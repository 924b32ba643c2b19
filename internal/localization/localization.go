// Package localization holds the user-facing strings of the chat widget.
// The club's public site is Arabic-first, so "ar" is the default language
// and "en" the fallback for keys a locale is missing.
package localization

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/config"
)

//go:embed locales/*.json
var localeFS embed.FS

// Localizer resolves translation keys per language. Locales are embedded at
// build time, so the struct is immutable after New and safe for concurrent
// readers without locking.
type Localizer struct {
	translations map[string]map[string]string
}

// New loads every embedded locale file.
func New() (*Localizer, error) {
	l := &Localizer{translations: make(map[string]map[string]string)}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded locales: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(entry.Name(), ".json")
		data, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", entry.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", entry.Name(), err)
		}

		l.translations[lang] = translations
	}

	if _, ok := l.translations[config.FallbackLang]; !ok {
		return nil, fmt.Errorf("fallback locale %q is missing", config.FallbackLang)
	}

	return l, nil
}

// Get returns the localized string for key in lang, falling back to the
// fallback language and finally to the key itself.
func (l *Localizer) Get(lang, key string) string {
	if translations, ok := l.translations[lang]; ok {
		if value, ok := translations[key]; ok {
			return value
		}
	}

	if lang != config.FallbackLang {
		if translations, ok := l.translations[config.FallbackLang]; ok {
			if value, ok := translations[key]; ok {
				return value
			}
		}
	}

	return key
}

// Getf resolves key like Get and applies its arguments as a printf template.
func (l *Localizer) Getf(lang, key string, args ...any) string {
	return fmt.Sprintf(l.Get(lang, key), args...)
}
