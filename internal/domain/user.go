package domain

import "time"

// UserProfile is the part of a participant profile owned by registration.
type UserProfile struct {
	ChestNo string `json:"chestNo,omitempty"`
}

// Role codes carried in access tokens.
const (
	RoleParticipant = "participant"
	RoleAdmin       = "admin"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Email  string
	Roles  []string
}

// HasRole reports whether the principal carries role.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated principal.
type TokenVerifier interface {
	Verify(token string) (*Principal, error)
}
