package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avan-studio/avan-backend/internal/i18n"
	"github.com/avan-studio/avan-backend/internal/logger"
	"github.com/avan-studio/avan-backend/internal/settings/domain"
	"github.com/avan-studio/avan-backend/internal/storage/kv"
)

const (
	SettingsKey    = "avan_settings"
	LanguageKey    = "avan_language"
	PreferencesKey = "avan_preferences"
)

type Service struct {
	backend kv.Backend
}

func New(backend kv.Backend) *Service {
	return &Service{backend: backend}
}

// Load merges the stored record over the defaults. A corrupt record reads as defaults.
func (s *Service) Load(ctx context.Context, userID string) (domain.AccessibilitySettings, error) {
	raw, ok, err := s.backend.For(userID).Get(ctx, SettingsKey)
	if err != nil {
		return domain.AccessibilitySettings{}, err
	}
	if !ok {
		return domain.DefaultSettings(), nil
	}

	out := domain.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		logger.Ctx(ctx).Debug().Err(err).Str("user_id", userID).Msg("stored settings unreadable, using defaults")
		return domain.DefaultSettings(), nil
	}
	return out, nil
}

func (s *Service) Save(ctx context.Context, userID string, settings domain.AccessibilitySettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := s.backend.For(userID).Set(ctx, SettingsKey, string(b)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Update applies a partial JSON object over the current settings.
func (s *Service) Update(ctx context.Context, userID string, patch []byte) (domain.AccessibilitySettings, error) {
	cur, err := s.Load(ctx, userID)
	if err != nil {
		return cur, err
	}
	if err := json.Unmarshal(patch, &cur); err != nil {
		return cur, fmt.Errorf("%w: %v", domain.ErrInvalidSettings, err)
	}
	if err := s.Save(ctx, userID, cur); err != nil {
		return cur, err
	}
	return cur, nil
}

func (s *Service) ResetAccessibility(ctx context.Context, userID string) (domain.AccessibilitySettings, error) {
	cur, err := s.Load(ctx, userID)
	if err != nil {
		return cur, err
	}
	cur = cur.ResetAccessibility()
	return cur, s.Save(ctx, userID, cur)
}

type flags struct {
	HasSeenWelcome bool `json:"hasSeenWelcome"`
	AcceptedTerms  bool `json:"acceptedTerms"`
}

func (s *Service) Preferences(ctx context.Context, userID string) (domain.Preferences, error) {
	store := s.backend.For(userID)

	lang, _, err := store.Get(ctx, LanguageKey)
	if err != nil {
		return domain.Preferences{}, err
	}
	p := domain.Preferences{Language: string(i18n.Parse(lang))}

	raw, ok, err := store.Get(ctx, PreferencesKey)
	if err != nil {
		return p, err
	}
	if ok {
		var f flags
		if json.Unmarshal([]byte(raw), &f) == nil {
			p.HasSeenWelcome, p.AcceptedTerms = f.HasSeenWelcome, f.AcceptedTerms
		}
	}
	return p, nil
}

// PreferencesUpdate leaves nil fields untouched.
type PreferencesUpdate struct {
	Language       *string `json:"language"`
	HasSeenWelcome *bool   `json:"hasSeenWelcome"`
	AcceptedTerms  *bool   `json:"acceptedTerms"`
}

func (s *Service) UpdatePreferences(ctx context.Context, userID string, upd PreferencesUpdate) (domain.Preferences, error) {
	if upd.Language != nil && !i18n.IsSupported(*upd.Language) {
		return domain.Preferences{}, domain.ErrUnsupportedLanguage
	}

	p, err := s.Preferences(ctx, userID)
	if err != nil {
		return p, err
	}
	store := s.backend.For(userID)

	if upd.Language != nil {
		p.Language = *upd.Language
		if err := store.Set(ctx, LanguageKey, p.Language); err != nil {
			return p, fmt.Errorf("save language: %w", err)
		}
	}

	if upd.HasSeenWelcome != nil || upd.AcceptedTerms != nil {
		if upd.HasSeenWelcome != nil {
			p.HasSeenWelcome = *upd.HasSeenWelcome
		}
		if upd.AcceptedTerms != nil {
			p.AcceptedTerms = *upd.AcceptedTerms
		}
		b, _ := json.Marshal(flags{HasSeenWelcome: p.HasSeenWelcome, AcceptedTerms: p.AcceptedTerms})
		if err := store.Set(ctx, PreferencesKey, string(b)); err != nil {
			return p, fmt.Errorf("save preferences: %w", err)
		}
	}
	return p, nil
}

// Language is the stored UI language, or the default when none is usable.
func (s *Service) Language(ctx context.Context, userID string) string {
	lang, _, err := s.backend.For(userID).Get(ctx, LanguageKey)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("read language failed")
	}
	return string(i18n.Parse(lang))
}
