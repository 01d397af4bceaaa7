package e2e

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Account steps
	ctx.Step(`^an account "([^"]*)" with password "([^"]*)"$`, tc.givenAccount)
	ctx.Step(`^I register "([^"]*)" with password "([^"]*)" confirmed as "([^"]*)"$`, tc.register)
	ctx.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, tc.login)
	ctx.Step(`^I log out$`, tc.logout)
	ctx.Step(`^I change my password from "([^"]*)" to "([^"]*)"$`, tc.changePassword)

	// Reset steps
	ctx.Step(`^I request a password reset for "([^"]*)"$`, tc.requestReset)
	ctx.Step(`^a reset token was sent to "([^"]*)"$`, tc.resetTokenWasSent)
	ctx.Step(`^no reset token was sent to "([^"]*)"$`, tc.noResetTokenWasSent)
	ctx.Step(`^I reset the password of "([^"]*)" to "([^"]*)" with the received token$`, tc.resetWithReceivedToken)
	ctx.Step(`^I reset the password of "([^"]*)" to "([^"]*)" with token "([^"]*)"$`, tc.resetPassword)

	// Note steps
	ctx.Step(`^I create a note "([^"]*)" with body "([^"]*)"$`, tc.createNote)
	ctx.Step(`^I list my notes$`, tc.listNotes)
	ctx.Step(`^I fetch note "([^"]*)" as HTML$`, tc.fetchNoteHTML)
	ctx.Step(`^I delete note "([^"]*)"$`, tc.deleteNote)

	// Assertion steps
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the response message should be "([^"]*)"$`, tc.responseMessageShouldBe)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, tc.responseFieldShouldEqual)
	ctx.Step(`^the response field "([^"]*)" should contain "([^"]*)"$`, tc.responseFieldShouldContain)
	ctx.Step(`^the response field "([^"]*)" should not contain "([^"]*)"$`, tc.responseFieldShouldNotContain)
	ctx.Step(`^I should have (\d+) notes?$`, tc.shouldHaveNotes)
}

func (tc *TestContext) givenAccount(ctx context.Context, email, password string) error {
	if err := tc.register(ctx, email, password, password); err != nil {
		return err
	}
	return tc.responseStatusShouldBe(ctx, http.StatusCreated)
}

func (tc *TestContext) register(_ context.Context, email, password, confirm string) error {
	return tc.Do(http.MethodPost, "/auth/register", map[string]string{
		"email":            email,
		"password":         password,
		"confirm_password": confirm,
	})
}

func (tc *TestContext) login(_ context.Context, email, password string) error {
	if err := tc.Do(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}); err != nil {
		return err
	}
	if tc.Status() != http.StatusOK {
		return nil
	}
	token, err := tc.Field("data.token")
	if err != nil {
		return err
	}
	tc.AccessToken = fmt.Sprint(token)
	return nil
}

func (tc *TestContext) logout(context.Context) error {
	tc.AccessToken = ""
	return nil
}

func (tc *TestContext) changePassword(_ context.Context, current, next string) error {
	return tc.Do(http.MethodPost, "/auth/change-password", map[string]string{
		"current_password": current,
		"new_password":     next,
		"confirm_password": next,
	})
}

func (tc *TestContext) requestReset(_ context.Context, email string) error {
	return tc.Do(http.MethodPost, "/auth/request-password-reset", map[string]string{"email": email})
}

func (tc *TestContext) resetTokenWasSent(_ context.Context, email string) error {
	token, ok := tc.mail.tokenFor(email)
	if !ok {
		return fmt.Errorf("no reset token sent to %s", email)
	}
	tc.ResetToken = token
	return nil
}

func (tc *TestContext) noResetTokenWasSent(_ context.Context, email string) error {
	if _, ok := tc.mail.tokenFor(email); ok {
		return fmt.Errorf("unexpected reset token sent to %s", email)
	}
	return nil
}

func (tc *TestContext) resetWithReceivedToken(ctx context.Context, email, password string) error {
	if tc.ResetToken == "" {
		return fmt.Errorf("no reset token received yet")
	}
	return tc.resetPassword(ctx, email, password, tc.ResetToken)
}

func (tc *TestContext) resetPassword(_ context.Context, email, password, token string) error {
	return tc.Do(http.MethodPost, "/auth/reset-password", map[string]string{
		"email":            email,
		"token":            token,
		"new_password":     password,
		"confirm_password": password,
	})
}

func (tc *TestContext) createNote(_ context.Context, title, body string) error {
	if err := tc.Do(http.MethodPost, "/notes", map[string]string{"title": title, "body": body}); err != nil {
		return err
	}
	if tc.Status() != http.StatusCreated {
		return nil
	}
	id, err := tc.Field("data.id")
	if err != nil {
		return err
	}
	tc.NoteIDs[title] = fmt.Sprint(id)
	return nil
}

func (tc *TestContext) listNotes(context.Context) error {
	return tc.Do(http.MethodGet, "/notes", nil)
}

// noteID resolves a note title created earlier in the scenario; unknown
// titles are used as raw IDs.
func (tc *TestContext) noteID(title string) string {
	if id, ok := tc.NoteIDs[title]; ok {
		return id
	}
	return title
}

func (tc *TestContext) fetchNoteHTML(_ context.Context, title string) error {
	return tc.Do(http.MethodGet, "/notes/"+tc.noteID(title)+"?format=html", nil)
}

func (tc *TestContext) deleteNote(_ context.Context, title string) error {
	return tc.Do(http.MethodDelete, "/notes/"+tc.noteID(title), nil)
}

func (tc *TestContext) responseStatusShouldBe(_ context.Context, expected int) error {
	if tc.Status() != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, tc.Status(), string(tc.LastResponseBody))
	}
	return nil
}

func (tc *TestContext) responseMessageShouldBe(ctx context.Context, expected string) error {
	return tc.responseFieldShouldEqual(ctx, "message", expected)
}

func (tc *TestContext) responseFieldShouldEqual(_ context.Context, field, expected string) error {
	value, err := tc.Field(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(value); got != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, got)
	}
	return nil
}

func (tc *TestContext) responseFieldShouldContain(_ context.Context, field, text string) error {
	value, err := tc.Field(field)
	if err != nil {
		return err
	}
	if !strings.Contains(fmt.Sprint(value), text) {
		return fmt.Errorf("expected %s to contain %q, got %q", field, text, fmt.Sprint(value))
	}
	return nil
}

func (tc *TestContext) responseFieldShouldNotContain(_ context.Context, field, text string) error {
	value, err := tc.Field(field)
	if err != nil {
		return err
	}
	if strings.Contains(fmt.Sprint(value), text) {
		return fmt.Errorf("expected %s not to contain %q, got %q", field, text, fmt.Sprint(value))
	}
	return nil
}

func (tc *TestContext) shouldHaveNotes(_ context.Context, n int) error {
	value, err := tc.Field("data")
	if err != nil {
		return err
	}
	list, ok := value.([]any)
	if !ok {
		return fmt.Errorf("data is not a list: %s", string(tc.LastResponseBody))
	}
	if len(list) != n {
		return fmt.Errorf("expected %d notes, got %d", n, len(list))
	}
	return nil
}
