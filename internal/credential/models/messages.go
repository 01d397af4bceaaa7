package models

// User-facing messages. Clients match on these, so changing one is an API change.
const (
	MsgMissingFields      = "missing fields"
	MsgInvalidCredentials = "invalid credentials"
	MsgPasswordsMismatch  = "passwords don't match"
	MsgCurrentIncorrect   = "current password incorrect"
	MsgPolicyViolation    = "password does not meet complexity requirements"
	MsgNoPendingRequest   = "no pending request"
	MsgAccountExists      = "account already exists"
	MsgInvalidEmail       = "invalid email address"

	MsgLoginSucceeded   = "login successful"
	MsgRegistered       = "account created"
	MsgPasswordChanged  = "password changed"
	MsgResetRequested   = "if the account exists, a confirmation email has been sent"
	MsgPasswordWasReset = "password has been reset"
)
