package client

import (
	"errors"
	"strings"
	"sync"

	credential "jotter/internal/credential/models"
	"jotter/pkg/platform/httputil"
)

// ErrSubmitInProgress is returned by Submit while a previous submit is in flight.
var ErrSubmitInProgress = errors.New("submit already in progress")

type Status int

const (
	StatusEditing Status = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "editing"
	}
}

// State is what a form shows: Message is set only for Succeeded and Failed,
// so a form never shows an error and a success at once.
type State struct {
	Status  Status
	Message string
}

func Editing() State { return State{Status: StatusEditing} }
func Submitting() State { return State{Status: StatusSubmitting} }
func Succeeded(message string) State { return State{Status: StatusSucceeded, Message: message} }
func Failed(message string) State { return State{Status: StatusFailed, Message: message} }

// formState is embedded by every form.
type formState struct {
	mu    sync.Mutex
	state State
}

func (f *formState) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// begin clears the previous outcome and runs the local check. It returns
// false when the submit must not reach the network.
func (f *formState) begin(validate func() string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Status == StatusSubmitting {
		return false, ErrSubmitInProgress
	}
	f.state = Editing()
	if msg := validate(); msg != "" {
		f.state = Failed(msg)
		return false, nil
	}
	f.state = Submitting()
	return true, nil
}

func (f *formState) finish(message string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = Failed(failureMessage(err))
		return
	}
	f.state = Succeeded(message)
}

func failureMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return httputil.MsgServerProblem
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func missingFields(values ...string) string {
	if blank(values...) {
		return credential.MsgMissingFields
	}
	return ""
}
