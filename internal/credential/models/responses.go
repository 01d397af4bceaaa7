package models

type LoginResult struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

type RegisterResult struct {
	Email string `json:"email"`
}
