package client

import (
	"context"

	credential "jotter/internal/credential/models"
)

type LoginForm struct {
	formState
	client   *Client
	Email    string
	Password SecretField
}

func NewLoginForm(c *Client) *LoginForm {
	return &LoginForm{client: c}
}

// Submit logs in; on success the client keeps the bearer token for later calls.
func (f *LoginForm) Submit(ctx context.Context) error {
	ok, err := f.begin(func() string {
		return missingFields(f.Email, f.Password.Value)
	})
	if !ok {
		return err
	}
	msg, _, err := f.client.Login(ctx, f.Email, f.Password.Value)
	f.finish(msg, err)
	return nil
}

type ChangePasswordForm struct {
	formState
	client  *Client
	Current SecretField
	New     SecretField
	Confirm SecretField
}

func NewChangePasswordForm(c *Client) *ChangePasswordForm {
	return &ChangePasswordForm{client: c}
}

func (f *ChangePasswordForm) Submit(ctx context.Context) error {
	ok, err := f.begin(func() string {
		if msg := missingFields(f.Current.Value, f.New.Value, f.Confirm.Value); msg != "" {
			return msg
		}
		if f.New.Value != f.Confirm.Value {
			return credential.MsgPasswordsMismatch
		}
		return ""
	})
	if !ok {
		return err
	}
	msg, err := f.client.ChangePassword(ctx, f.Current.Value, f.New.Value, f.Confirm.Value)
	f.finish(msg, err)
	return nil
}

type Step int

const (
	StepRequest Step = iota
	StepReset
)

// ForgotPasswordForm is the two-step recovery flow. It moves to StepReset
// only after the request step succeeds.
type ForgotPasswordForm struct {
	formState
	client  *Client
	step    Step
	Email   string
	Token   string
	New     SecretField
	Confirm SecretField
}

func NewForgotPasswordForm(c *Client) *ForgotPasswordForm {
	return &ForgotPasswordForm{client: c}
}

func (f *ForgotPasswordForm) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *ForgotPasswordForm) Submit(ctx context.Context) error {
	if f.Step() == StepRequest {
		return f.submitRequest(ctx)
	}
	return f.submitReset(ctx)
}

func (f *ForgotPasswordForm) submitRequest(ctx context.Context) error {
	ok, err := f.begin(func() string {
		return missingFields(f.Email)
	})
	if !ok {
		return err
	}
	msg, err := f.client.RequestPasswordReset(ctx, f.Email)
	f.finish(msg, err)
	if err == nil {
		f.mu.Lock()
		f.step = StepReset
		f.mu.Unlock()
	}
	return nil
}

func (f *ForgotPasswordForm) submitReset(ctx context.Context) error {
	ok, err := f.begin(func() string {
		if msg := missingFields(f.Email, f.Token, f.New.Value, f.Confirm.Value); msg != "" {
			return msg
		}
		if f.New.Value != f.Confirm.Value {
			return credential.MsgPasswordsMismatch
		}
		return ""
	})
	if !ok {
		return err
	}
	msg, err := f.client.ResetPassword(ctx, f.Email, f.Token, f.New.Value, f.Confirm.Value)
	f.finish(msg, err)
	return nil
}

const msgTitleBlank = "title must not be blank"

// NoteForm creates notes and deletes them by ID. CreatedID holds the ID of
// the last note created through it.
type NoteForm struct {
	formState
	client    *Client
	Title     string
	Body      string
	CreatedID string
}

func NewNoteForm(c *Client) *NoteForm {
	return &NoteForm{client: c}
}

func (f *NoteForm) Submit(ctx context.Context) error {
	ok, err := f.begin(func() string {
		if blank(f.Title) {
			return msgTitleBlank
		}
		return ""
	})
	if !ok {
		return err
	}
	msg, id, err := f.client.CreateNote(ctx, f.Title, f.Body)
	if err == nil {
		f.mu.Lock()
		f.CreatedID = id
		f.mu.Unlock()
	}
	f.finish(msg, err)
	return nil
}

func (f *NoteForm) Delete(ctx context.Context, id string) error {
	ok, err := f.begin(func() string {
		if blank(id) {
			return credential.MsgMissingFields
		}
		return ""
	})
	if !ok {
		return err
	}
	msg, _, err := f.client.DeleteNote(ctx, id)
	f.finish(msg, err)
	return nil
}
