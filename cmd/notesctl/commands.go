package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"

	"jotter/internal/client"
)

var errFailed = errors.New("request failed")

// report prints the form outcome and turns a failed state into an error so
// the process exits non-zero.
func (c *cli) report(st client.State) error {
	if st.Status == client.StatusFailed {
		return fmt.Errorf("%w: %s", errFailed, st.Message)
	}
	if st.Message != "" {
		fmt.Fprintln(c.out, st.Message)
	}
	return nil
}

func (c *cli) ask(value *string, label string) error {
	if *value != "" {
		return nil
	}
	v, err := promptLine(c.in, c.out, label)
	*value = v
	return err
}

func (c *cli) askSecret(field *client.SecretField, label string) error {
	v, err := promptSecret(c.in, c.out, label)
	field.Value = v
	return err
}

func (c *cli) authenticate() error {
	token, err := loadSession(c.session)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if token == "" {
		return errors.New("not signed in: run notesctl login")
	}
	c.api.SetToken(token)
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "Account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := client.NewLoginForm(c.api)
	form.Email = *email
	if err := c.ask(&form.Email, "Email"); err != nil {
		return err
	}
	if err := c.askSecret(&form.Password, "Password"); err != nil {
		return err
	}
	if err := form.Submit(ctx); err != nil {
		return err
	}
	if err := c.report(form.State()); err != nil {
		return err
	}
	return saveSession(c.session, c.api.Token())
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "Account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.ask(email, "Email"); err != nil {
		return err
	}
	var password, confirm client.SecretField
	if err := c.askSecret(&password, "Password"); err != nil {
		return err
	}
	if err := c.askSecret(&confirm, "Confirm password"); err != nil {
		return err
	}
	msg, err := c.api.Register(ctx, *email, password.Value, confirm.Value)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%w: %s", errFailed, apiErr.Message)
		}
		return err
	}
	fmt.Fprintln(c.out, msg)
	return nil
}

func (c *cli) changePassword(ctx context.Context, _ []string) error {
	if err := c.authenticate(); err != nil {
		return err
	}
	form := client.NewChangePasswordForm(c.api)
	if err := c.askSecret(&form.Current, "Current password"); err != nil {
		return err
	}
	if err := c.askSecret(&form.New, "New password"); err != nil {
		return err
	}
	if err := c.askSecret(&form.Confirm, "Confirm new password"); err != nil {
		return err
	}
	if err := form.Submit(ctx); err != nil {
		return err
	}
	return c.report(form.State())
}

// forgotPassword runs both steps. With -token it skips straight to the
// reset step, which is how a token received out of band is used.
func (c *cli) forgotPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forgot-password", flag.ContinueOnError)
	email := fs.String("email", "", "Account email")
	token := fs.String("token", "", "Reset token from the confirmation email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := client.NewForgotPasswordForm(c.api)
	form.Email = *email
	if err := c.ask(&form.Email, "Email"); err != nil {
		return err
	}
	if err := form.Submit(ctx); err != nil {
		return err
	}
	if err := c.report(form.State()); err != nil {
		return err
	}

	form.Token = *token
	if err := c.ask(&form.Token, "Reset token"); err != nil {
		return err
	}
	if err := c.askSecret(&form.New, "New password"); err != nil {
		return err
	}
	if err := c.askSecret(&form.Confirm, "Confirm new password"); err != nil {
		return err
	}
	if err := form.Submit(ctx); err != nil {
		return err
	}
	return c.report(form.State())
}

func (c *cli) notes(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: notesctl notes list|get|create|delete")
	}
	if err := c.authenticate(); err != nil {
		return err
	}

	switch args[0] {
	case "list":
		notes, err := c.api.ListNotes(ctx)
		if err != nil {
			return err
		}
		for _, n := range notes {
			fmt.Fprintf(c.out, "%s  %s  %s\n", n.ID, n.CreatedAt.Format("2006-01-02 15:04"), n.Title)
		}
		return nil
	case "get":
		fs := flag.NewFlagSet("notes get", flag.ContinueOnError)
		html := fs.Bool("html", false, "Render the body as HTML")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errors.New("usage: notesctl notes get [-html] <id>")
		}
		view, err := c.api.GetNote(ctx, fs.Arg(0), *html)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "create":
		fs := flag.NewFlagSet("notes create", flag.ContinueOnError)
		title := fs.String("title", "", "Note title")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		form := client.NewNoteForm(c.api)
		form.Title = *title
		if err := c.ask(&form.Title, "Title"); err != nil {
			return err
		}
		body, err := promptMultiline(c.in, c.out, "Body")
		if err != nil {
			return err
		}
		form.Body = body
		if err := form.Submit(ctx); err != nil {
			return err
		}
		if err := c.report(form.State()); err != nil {
			return err
		}
		fmt.Fprintln(c.out, form.CreatedID)
		return nil
	case "delete":
		if len(args) != 2 {
			return errors.New("usage: notesctl notes delete <id>")
		}
		form := client.NewNoteForm(c.api)
		if err := form.Delete(ctx, args[1]); err != nil {
			return err
		}
		return c.report(form.State())
	default:
		return fmt.Errorf("unknown notes command: %s", args[0])
	}
}
