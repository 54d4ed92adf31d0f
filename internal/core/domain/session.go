package domain

// Credentials are exchanged for a session at login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the authenticated state persisted across restarts.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// LoginResult is the backend's response to a successful login.
type LoginResult struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user"`
}

// Storage keys under which session and preferences are persisted.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyCurrentUser  = "current_user"
	KeyLanguage     = "app-language"
)
