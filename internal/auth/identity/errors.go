package identity

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/avan-studio/avan-backend/internal/auth/domain"
)

// Identity Toolkit REST reasons and the client codes they surface as.
var restCodes = map[string]string{
	"EMAIL_EXISTS":                   domain.CodeEmailAlreadyInUse,
	"EMAIL_NOT_FOUND":                domain.CodeUserNotFound,
	"USER_NOT_FOUND":                 domain.CodeUserNotFound,
	"INVALID_PASSWORD":               domain.CodeWrongPassword,
	"INVALID_LOGIN_CREDENTIALS":      domain.CodeInvalidCredential,
	"WEAK_PASSWORD":                  domain.CodeWeakPassword,
	"INVALID_EMAIL":                  domain.CodeInvalidEmail,
	"TOO_MANY_ATTEMPTS_TRY_LATER":    domain.CodeTooManyRequests,
	"USER_DISABLED":                  domain.CodeUserDisabled,
	"INVALID_ID_TOKEN":               domain.CodeInvalidUserToken,
	"TOKEN_EXPIRED":                  domain.CodeInvalidUserToken,
	"CREDENTIAL_TOO_OLD_LOGIN_AGAIN": domain.CodeRequiresRecentLogin,
	"UNAUTHORIZED_DOMAIN":            domain.CodeUnauthorizedDomain,
}

// codeFor turns "WEAK_PASSWORD : Password should be at least 6 characters"
// into "auth/weak-password". Unlisted reasons are kebab-cased.
func codeFor(message string) string {
	reason := strings.TrimSpace(message)
	if i := strings.IndexAny(reason, " :"); i >= 0 {
		reason = reason[:i]
	}
	if code, ok := restCodes[reason]; ok {
		return code
	}
	if reason == "" {
		return "auth/internal-error"
	}
	return "auth/" + strings.ReplaceAll(strings.ToLower(reason), "_", "-")
}

func providerError(err error) error {
	if err == nil {
		return nil
	}

	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &domain.ProviderError{Code: codeFor(gerr.Message)}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &domain.ProviderError{Code: domain.CodeNetworkRequest}
}
