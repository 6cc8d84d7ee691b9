package api

// RecoverRequest represents the request to start a recovery flow
type RecoverRequest struct {
	Email     string `json:"email"`
	Purpose   string `json:"purpose,omitempty"`
	ReturnUrl string `json:"return_url,omitempty"`
}

// RecoverResponse represents the response after starting a recovery flow
type RecoverResponse struct {
	Message string `json:"message"`
}

// ResolveResponse represents the response after a key was confirmed or cancelled
type ResolveResponse struct {
	Message   string `json:"message"`
	ReturnUrl string `json:"return_url,omitempty"`
}

// ResetPasswordRequest represents the request to complete a password reset
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPasswordResponse represents the response after completing a password reset
type ResetPasswordResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
