// Package prefs holds the user's presentation preferences (UI language
// and theme color) behind an explicit load/save lifecycle: read once at
// startup, written through on every change. They share the key-value
// store with the entry collections but live under their own keys.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Rapou7/YonkiStats/internal/i18n"
	"github.com/Rapou7/YonkiStats/internal/kv"
)

const (
	languageKey   = "@yonkistats_language"
	themeColorKey = "@yonkistats_theme_color"
)

// DefaultThemeColor is the vibrant green the app ships with.
const DefaultThemeColor = "#00E676"

// AvailableColors is the fixed theme palette.
var AvailableColors = []string{
	"#00E676", // vibrant green (default)
	"#BB86FC", // soft purple
	"#03DAC6", // teal
	"#CF6679", // red/pink
	"#3700B3", // deep purple
	"#FF9800", // orange
}

var (
	ErrInvalidLanguage   = errors.New("unsupported language")
	ErrInvalidThemeColor = errors.New("theme color not in palette")
)

// Settings is the current preference snapshot.
type Settings struct {
	Language   i18n.Locale `json:"language"`
	ThemeColor string      `json:"themeColor"`
}

// Preferences caches the settings in memory and writes changes through
// to the store.
type Preferences struct {
	store kv.Store

	mu       sync.Mutex
	settings Settings
}

// Load reads both preference keys once, falling back to defaults for
// anything missing or unrecognized.
func Load(ctx context.Context, store kv.Store) (*Preferences, error) {
	p := &Preferences{
		store: store,
		settings: Settings{
			Language:   i18n.DefaultLocale,
			ThemeColor: DefaultThemeColor,
		},
	}

	if lang, ok, err := store.Get(ctx, languageKey); err != nil {
		return nil, fmt.Errorf("load language: %w", err)
	} else if ok {
		p.settings.Language = i18n.Parse(lang)
	}

	if color, ok, err := store.Get(ctx, themeColorKey); err != nil {
		return nil, fmt.Errorf("load theme color: %w", err)
	} else if ok && colorInPalette(color) {
		p.settings.ThemeColor = color
	}

	slog.InfoContext(ctx, "Preferences loaded",
		"language", p.settings.Language,
		"theme_color", p.settings.ThemeColor)
	return p, nil
}

// Current returns the settings snapshot.
func (p *Preferences) Current() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// SetLanguage validates and persists a new UI language.
func (p *Preferences) SetLanguage(ctx context.Context, lang i18n.Locale) error {
	if !lang.Valid() {
		return fmt.Errorf("set language %q: %w", lang, ErrInvalidLanguage)
	}
	if err := p.store.Set(ctx, languageKey, string(lang)); err != nil {
		return fmt.Errorf("persist language: %w", err)
	}
	p.mu.Lock()
	p.settings.Language = lang
	p.mu.Unlock()
	return nil
}

// SetThemeColor validates the color against the palette and persists it.
func (p *Preferences) SetThemeColor(ctx context.Context, color string) error {
	if !colorInPalette(color) {
		return fmt.Errorf("set theme color %q: %w", color, ErrInvalidThemeColor)
	}
	if err := p.store.Set(ctx, themeColorKey, color); err != nil {
		return fmt.Errorf("persist theme color: %w", err)
	}
	p.mu.Lock()
	p.settings.ThemeColor = color
	p.mu.Unlock()
	return nil
}

func colorInPalette(color string) bool {
	for _, c := range AvailableColors {
		if c == color {
			return true
		}
	}
	return false
}
