package models

import (
	"strings"

	dErrors "jotter/pkg/domain-errors"
	"jotter/pkg/validation"
)

func missing(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func missingFields() error {
	return dErrors.New(dErrors.CodeValidation, MsgMissingFields)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func (r *LoginRequest) Validate() error {
	if missing(r.Email, r.Password) {
		return missingFields()
	}
	return nil
}

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *RegisterRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func (r *RegisterRequest) Validate() error {
	if missing(r.Email, r.Password, r.ConfirmPassword) {
		return missingFields()
	}
	if !validation.Valid(r) {
		return dErrors.New(dErrors.CodeValidation, MsgInvalidEmail)
	}
	return nil
}

// ChangePasswordRequest identifies the account through the bearer token, not the body.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	if missing(r.CurrentPassword, r.NewPassword, r.ConfirmPassword) {
		return missingFields()
	}
	return nil
}

type RequestResetRequest struct {
	Email string `json:"email"`
}

func (r *RequestResetRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func (r *RequestResetRequest) Validate() error {
	if missing(r.Email) {
		return missingFields()
	}
	return nil
}

type ResetPasswordRequest struct {
	Email           string `json:"email"`
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ResetPasswordRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	r.Token = strings.TrimSpace(r.Token)
}

func (r *ResetPasswordRequest) Validate() error {
	if missing(r.Email, r.Token, r.NewPassword, r.ConfirmPassword) {
		return missingFields()
	}
	return nil
}
