package models

import (
	"strings"
	"time"

	"jotter/pkg/secrets"
)

// EntityName is the repository binding for credentials.
const EntityName = "credentials"

type ResetState string

const (
	ResetNone     ResetState = "none"
	ResetPending  ResetState = "pending"
	ResetConsumed ResetState = "consumed"
)

// PasswordReset is the latest forgotten-password request for a credential.
// Only the most recent pending token can be consumed.
type PasswordReset struct {
	State       ResetState `json:"state"`
	TokenHash   string     `json:"token_hash,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	ConsumedAt  *time.Time `json:"consumed_at,omitempty"`
}

// Credential is keyed by normalized email and never holds a plaintext password.
type Credential struct {
	Email        string         `json:"email"`
	PasswordHash string         `json:"password_hash"`
	Reset        *PasswordReset `json:"reset,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (c *Credential) GetID() string   { return c.Email }
func (c *Credential) SetID(id string) { c.Email = id }

// ResetState reports none when no request was ever made.
func (c *Credential) ResetState() ResetState {
	if c.Reset == nil || c.Reset.State == "" {
		return ResetNone
	}
	return c.Reset.State
}

// CanConsumeReset is true only for a pending, unexpired request whose
// token digest matches.
func (c *Credential) CanConsumeReset(token string, now time.Time) bool {
	if c.ResetState() != ResetPending {
		return false
	}
	if !now.Before(c.Reset.ExpiresAt) {
		return false
	}
	return secrets.DigestMatches(token, c.Reset.TokenHash)
}

// StartReset replaces any earlier request with a new pending one.
func (c *Credential) StartReset(tokenHash string, now time.Time, ttl time.Duration) {
	c.Reset = &PasswordReset{
		State:       ResetPending,
		TokenHash:   tokenHash,
		RequestedAt: now,
		ExpiresAt:   now.Add(ttl),
	}
	c.UpdatedAt = now
}

// CompleteReset swaps the hash and marks the request consumed.
func (c *Credential) CompleteReset(passwordHash string, now time.Time) {
	c.PasswordHash = passwordHash
	c.Reset.State = ResetConsumed
	c.Reset.TokenHash = ""
	c.Reset.ConsumedAt = &now
	c.UpdatedAt = now
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ResetNotification is handed to the notifier after a successful phase 1.
type ResetNotification struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Device    string    `json:"device"`
}
