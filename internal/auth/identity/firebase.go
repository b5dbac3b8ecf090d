package identity

import (
	"context"
	"fmt"

	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/avan-studio/avan-backend/internal/auth/domain"
	"github.com/avan-studio/avan-backend/internal/logger"
)

// TokenRevoker is satisfied by the Firebase Admin *auth.Client.
type TokenRevoker interface {
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Firebase uses the Identity Toolkit REST API for password accounts and the
// Admin SDK for revocation.
type Firebase struct {
	rp    *identitytoolkit.RelyingpartyService
	admin TokenRevoker
}

func NewFirebase(ctx context.Context, apiKey string, admin TokenRevoker, opts ...option.ClientOption) (*Firebase, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("FIREBASE_API_KEY is required")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit client: %w", err)
	}

	return &Firebase{rp: svc.Relyingparty, admin: admin}, nil
}

func (f *Firebase) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	resp, err := f.rp.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return nil, providerError(err)
	}

	logger.Ctx(ctx).Info().Str("uid", resp.LocalId).Msg("account created")
	return &domain.Session{
		User: domain.User{
			UID:         resp.LocalId,
			Email:       resp.Email,
			DisplayName: resp.DisplayName,
		},
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

func (f *Firebase) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	resp, err := f.rp.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, providerError(err)
	}

	return &domain.Session{
		User: domain.User{
			UID:         resp.LocalId,
			Email:       resp.Email,
			DisplayName: resp.DisplayName,
			PhotoURL:    resp.PhotoUrl,
		},
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

func (f *Firebase) SignOut(ctx context.Context, uid string) error {
	if f.admin == nil {
		return nil
	}
	return providerError(f.admin.RevokeRefreshTokens(ctx, uid))
}

func (f *Firebase) Lookup(ctx context.Context, idToken string) (*domain.User, error) {
	resp, err := f.rp.GetAccountInfo(&identitytoolkit.IdentitytoolkitRelyingpartyGetAccountInfoRequest{
		IdToken: idToken,
	}).Context(ctx).Do()
	if err != nil {
		return nil, providerError(err)
	}
	if len(resp.Users) == 0 {
		return nil, &domain.ProviderError{Code: domain.CodeUserNotFound}
	}

	u := resp.Users[0]
	return &domain.User{
		UID:         u.LocalId,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoUrl,
	}, nil
}

// UpdateProfile clears a field when it is set to the empty string.
func (f *Firebase) UpdateProfile(ctx context.Context, idToken string, upd domain.ProfileUpdate) (*domain.User, error) {
	req := &identitytoolkit.IdentitytoolkitRelyingpartySetAccountInfoRequest{IdToken: idToken}
	if upd.DisplayName != nil {
		if *upd.DisplayName == "" {
			req.DeleteAttribute = append(req.DeleteAttribute, "DISPLAY_NAME")
		} else {
			req.DisplayName = *upd.DisplayName
		}
	}
	if upd.PhotoURL != nil {
		if *upd.PhotoURL == "" {
			req.DeleteAttribute = append(req.DeleteAttribute, "PHOTO_URL")
		} else {
			req.PhotoUrl = *upd.PhotoURL
		}
	}

	resp, err := f.rp.SetAccountInfo(req).Context(ctx).Do()
	if err != nil {
		return nil, providerError(err)
	}

	return &domain.User{
		UID:         resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		PhotoURL:    resp.PhotoUrl,
	}, nil
}

// UpdatePassword invalidates older sessions, so the fresh one is returned.
func (f *Firebase) UpdatePassword(ctx context.Context, idToken, newPassword string) (*domain.Session, error) {
	resp, err := f.rp.SetAccountInfo(&identitytoolkit.IdentitytoolkitRelyingpartySetAccountInfoRequest{
		IdToken:           idToken,
		Password:          newPassword,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, providerError(err)
	}

	return &domain.Session{
		User: domain.User{
			UID:         resp.LocalId,
			Email:       resp.Email,
			DisplayName: resp.DisplayName,
			PhotoURL:    resp.PhotoUrl,
		},
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

func (f *Firebase) Reauthenticate(ctx context.Context, uid, email, password string) (*domain.Session, error) {
	s, err := f.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if s.User.UID != uid {
		return nil, &domain.ProviderError{Code: domain.CodeUserMismatch}
	}
	return s, nil
}

func (f *Firebase) DeleteAccount(ctx context.Context, idToken string) error {
	_, err := f.rp.DeleteAccount(&identitytoolkit.IdentitytoolkitRelyingpartyDeleteAccountRequest{
		IdToken: idToken,
	}).Context(ctx).Do()
	return providerError(err)
}
