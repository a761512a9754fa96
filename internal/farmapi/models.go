package farmapi

// TokenResponse is returned by the login and register endpoints.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Mobile  string `json:"mobile,omitempty"`
	Message string `json:"message"`
}

// ContactResponse reports where the backend stored the message.
type ContactResponse struct {
	Status string `json:"status"`
	Stored string `json:"stored"`
	ID     string `json:"id,omitempty"`
}
