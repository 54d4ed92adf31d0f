package domain

import "time"

const (
	RoleManager = "MANAGER"
	RoleWorker  = "WORKER"
)

// User is a workshop employee as returned by the backend.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// HomePath is where a user lands after login.
func (u *User) HomePath() string {
	switch u.Role {
	case RoleManager:
		return "/manager"
	case RoleWorker:
		return "/worker"
	default:
		return "/login"
	}
}

// Registration is the payload for creating a new employee account.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
}

// UserUpdate carries a partial employee update. Nil fields are left untouched.
type UserUpdate struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Role      *string `json:"role,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}
