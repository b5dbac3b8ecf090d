package service

import (
	"context"
	"strings"

	"github.com/avan-studio/avan-backend/internal/auth/domain"
	"github.com/avan-studio/avan-backend/internal/auth/identity"
	"github.com/avan-studio/avan-backend/internal/logger"
)

// DataEraser removes what the app stored for a user once the account is gone.
type DataEraser interface {
	Erase(ctx context.Context, uid string) error
}

type AuthService struct {
	provider identity.Provider
	erasers  []DataEraser
}

func NewAuthService(provider identity.Provider, erasers ...DataEraser) *AuthService {
	return &AuthService{
		provider: provider,
		erasers:  erasers,
	}
}

// SignUp creates the account and sets its display name when one is given.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*domain.Session, error) {
	sess, err := s.provider.SignUp(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		u, err := s.provider.UpdateProfile(ctx, sess.IDToken, domain.ProfileUpdate{DisplayName: &name})
		if err != nil {
			return nil, err
		}
		sess.User.DisplayName = u.DisplayName
	}
	return sess, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	return s.provider.SignIn(ctx, strings.TrimSpace(email), password)
}

func (s *AuthService) SignOut(ctx context.Context, uid string) error {
	return s.provider.SignOut(ctx, uid)
}

func (s *AuthService) Me(ctx context.Context, idToken string) (*domain.User, error) {
	return s.provider.Lookup(ctx, idToken)
}

func (s *AuthService) UpdateProfile(ctx context.Context, idToken string, upd domain.ProfileUpdate) (*domain.User, error) {
	u, err := s.provider.UpdateProfile(ctx, idToken, upd)
	if err != nil {
		return nil, &domain.UserError{Message: domain.MsgProfileUpdateFailed, Err: err}
	}
	return u, nil
}

// ChangePassword re-proves the current password before setting the new one.
func (s *AuthService) ChangePassword(ctx context.Context, uid, email, current, next string) (*domain.Session, error) {
	fresh, err := s.provider.Reauthenticate(ctx, uid, email, current)
	if err != nil {
		return nil, &domain.UserError{Message: domain.MsgPasswordChangeFailed, Err: err}
	}

	sess, err := s.provider.UpdatePassword(ctx, fresh.IDToken, next)
	if err != nil {
		return nil, &domain.UserError{Message: domain.MsgPasswordChangeFailed, Err: err}
	}

	logger.Ctx(ctx).Info().Str("uid", uid).Msg("password changed")
	return sess, nil
}

// DeleteAccount re-proves the password, deletes the account and then erases app data.
func (s *AuthService) DeleteAccount(ctx context.Context, uid, email, password string) error {
	fresh, err := s.provider.Reauthenticate(ctx, uid, email, password)
	if err != nil {
		return &domain.UserError{Message: domain.MsgDeleteAccountFailed, Err: err}
	}
	if err := s.provider.DeleteAccount(ctx, fresh.IDToken); err != nil {
		return &domain.UserError{Message: domain.MsgDeleteAccountFailed, Err: err}
	}

	// the account is gone either way; leftovers are only logged
	for _, e := range s.erasers {
		if err := e.Erase(ctx, uid); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("uid", uid).Msg("erase user data failed")
		}
	}

	logger.Ctx(ctx).Info().Str("uid", uid).Int("stores", len(s.erasers)).Msg("account deleted")
	return nil
}
