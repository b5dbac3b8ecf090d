package domain

import "strings"

// Provider error codes. The identity provider may return others.
const (
	CodeInvalidCredential   = "auth/invalid-credential"
	CodeWrongPassword       = "auth/wrong-password"
	CodeUserNotFound        = "auth/user-not-found"
	CodeEmailAlreadyInUse   = "auth/email-already-in-use"
	CodeWeakPassword        = "auth/weak-password"
	CodePopupClosedByUser   = "auth/popup-closed-by-user"
	CodeUnauthorizedDomain  = "auth/unauthorized-domain"
	CodeInvalidEmail        = "auth/invalid-email"
	CodeTooManyRequests     = "auth/too-many-requests"
	CodeUserDisabled        = "auth/user-disabled"
	CodeInvalidUserToken    = "auth/invalid-user-token"
	CodeRequiresRecentLogin = "auth/requires-recent-login"
	CodeUserMismatch        = "auth/user-mismatch"
	CodeNetworkRequest      = "auth/network-request-failed"
)

// ProviderError is a failure reported by the identity provider.
type ProviderError struct {
	Code string
}

func (e *ProviderError) Error() string {
	return "identity provider: " + e.Code
}

// UserError carries the fixed text shown to the user for a failed account action.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

const (
	MsgPasswordChangeFailed = "Error: Incorrect current password or weak new password."
	MsgDeleteAccountFailed  = "Error: Incorrect password. Cannot delete account."
	MsgProfileUpdateFailed  = "Error updating profile"
)

type localized struct{ he, en string }

var messages = map[string]localized{
	CodeInvalidCredential:  {"פרטי ההתחברות שגויים.", "Invalid credentials."},
	CodeWrongPassword:      {"פרטי ההתחברות שגויים.", "Invalid credentials."},
	CodeUserNotFound:       {"פרטי ההתחברות שגויים.", "Invalid credentials."},
	CodeEmailAlreadyInUse:  {"המייל כבר רשום במערכת.", "Email already in use."},
	CodeWeakPassword:       {"הסיסמה חלשה מדי.", "Password too weak."},
	CodePopupClosedByUser:  {"ההתחברות בוטלה.", "Sign in cancelled."},
	CodeUnauthorizedDomain: {"שגיאת הרשאה: הדומיין הנוכחי אינו מאושר.", "Unauthorized Domain Error"},
}

// MessageFor renders a provider code for display. Hebrew gets Hebrew text,
// every other language gets English. Unknown codes are shown raw.
func MessageFor(code, lang string) string {
	m, ok := messages[code]
	if !ok {
		return "Error: " + code
	}
	if strings.EqualFold(lang, "he") {
		return m.he
	}
	return m.en
}
