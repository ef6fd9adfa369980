package auth

// LoginRequest is the payload of the login service.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the reply of the login service.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// LogoutRequest is the payload of the logout service.
type LogoutRequest struct {
	Token string `json:"token"`
}

// LogoutResponse is the reply of the logout service.
type LogoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}

// ValidateTokenRequest is the payload of the validate-token service.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse is the reply of the validate-token service.
// Rejected tokens are reported with Valid false and a reason in Error.
type ValidateTokenResponse struct {
	Valid    bool   `json:"valid"`
	UserID   uint   `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Error    string `json:"error,omitempty"`
}
