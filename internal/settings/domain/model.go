package domain

import "errors"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// AccessibilitySettings is stored as JSON under SettingsKey. Field names are
// shared with exported data files.
type AccessibilitySettings struct {
	Theme        string `json:"theme"`
	SoundEnabled bool   `json:"soundEnabled"`

	LargeText      bool `json:"largeText"`
	WordSpacing    bool `json:"wordSpacing"`
	LetterSpacing  bool `json:"letterSpacing"`
	Grayscale      bool `json:"grayscale"`
	InvertColors   bool `json:"invertColors"`
	HighlightLinks bool `json:"highlightLinks"`
	BigCursor      bool `json:"bigCursor"`
	ReadingGuide   bool `json:"readingGuide"`
	HideImages     bool `json:"hideImages"`
	ReadableFont   bool `json:"readableFont"`

	HighContrast          bool `json:"highContrast"`
	ReduceMotion          bool `json:"reduceMotion"`
	ScreenReaderOptimized bool `json:"screenReaderOptimized"`
}

func DefaultSettings() AccessibilitySettings {
	return AccessibilitySettings{
		Theme:        ThemeDark,
		SoundEnabled: true,
	}
}

// ResetAccessibility turns the ten display aids off. Theme, sound and the base
// settings are kept.
func (s AccessibilitySettings) ResetAccessibility() AccessibilitySettings {
	s.LargeText = false
	s.WordSpacing = false
	s.LetterSpacing = false
	s.Grayscale = false
	s.InvertColors = false
	s.HighlightLinks = false
	s.BigCursor = false
	s.ReadingGuide = false
	s.HideImages = false
	s.ReadableFont = false
	return s
}

func (s AccessibilitySettings) Validate() error {
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		return ErrInvalidTheme
	}
	return nil
}

// Preferences are the per-user flags plus the UI language.
type Preferences struct {
	Language       string `json:"language"`
	HasSeenWelcome bool   `json:"hasSeenWelcome"`
	AcceptedTerms  bool   `json:"acceptedTerms"`
}

var (
	ErrInvalidTheme        = errors.New("theme must be light or dark")
	ErrInvalidSettings     = errors.New("invalid settings")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)
