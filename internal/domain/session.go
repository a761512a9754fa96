package domain

// Identity is the user profile returned by GET /api/me.
type Identity struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// SessionState is a snapshot of the client session. User is nil while the
// identity is unresolved and always nil when Token is empty.
type SessionState struct {
	Token string
	User  *Identity
}

// Authenticated reports whether a credential is held.
func (s SessionState) Authenticated() bool {
	return s.Token != ""
}
