package domain

// User is the public profile of a signed-in account.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// Session is what a successful sign-up or sign-in hands back to the client.
type Session struct {
	User         User   `json:"user"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
}

// ProfileUpdate leaves nil fields untouched.
type ProfileUpdate struct {
	DisplayName *string
	PhotoURL    *string
}
