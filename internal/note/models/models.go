package models

import (
	"strings"
	"time"

	"jotter/pkg/validation"
)

// EntityName is the repository binding for notes.
const EntityName = "notes"

const (
	MsgNoteCreated = "note created"
	MsgNoteDeleted = "note deleted"
	MsgNotFound    = "note not found"
)

type Note struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *Note) GetID() string   { return n.ID }
func (n *Note) SetID(id string) { n.ID = id }

type CreateNoteRequest struct {
	Title string `json:"title" validate:"notblank,max=200"`
	Body  string `json:"body" validate:"max=10000"`
}

func (r *CreateNoteRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r *CreateNoteRequest) Validate() error {
	return validation.Validate(r)
}

type CreateNoteResult struct {
	ID string `json:"id"`
}

type DeleteNoteResult struct {
	Deleted int64 `json:"deleted"`
}

// NoteView is a note as returned by GET /notes/{id}; HTML is set only
// when the caller asked for rendered output.
type NoteView struct {
	*Note
	HTML string `json:"html,omitempty"`
}
