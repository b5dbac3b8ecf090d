// Package identity talks to the account provider on behalf of a user.
package identity

import (
	"context"

	"github.com/avan-studio/avan-backend/internal/auth/domain"
)

// Provider is the account backend. Every failure it reports is a *domain.ProviderError.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*domain.Session, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	// SignOut revokes every refresh token of the user.
	SignOut(ctx context.Context, uid string) error
	Lookup(ctx context.Context, idToken string) (*domain.User, error)
	UpdateProfile(ctx context.Context, idToken string, upd domain.ProfileUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, idToken, newPassword string) (*domain.Session, error)
	// Reauthenticate proves the password of uid and returns a fresh session.
	Reauthenticate(ctx context.Context, uid, email, password string) (*domain.Session, error)
	DeleteAccount(ctx context.Context, idToken string) error
}
