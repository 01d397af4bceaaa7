package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"jotter/internal/note/models"
	"jotter/pkg/platform/httputil"
	"jotter/pkg/requestcontext"
)

type Service interface {
	List(ctx context.Context, owner string) ([]models.Note, error)
	Get(ctx context.Context, owner, id string) (*models.Note, error)
	Create(ctx context.Context, owner string, req *models.CreateNoteRequest) (*models.CreateNoteResult, error)
	Delete(ctx context.Context, owner, id string) (int64, error)
	Render(n *models.Note) string
}

type Handler struct {
	notes  Service
	logger *slog.Logger
}

func New(notes Service, logger *slog.Logger) *Handler {
	return &Handler{notes: notes, logger: logger}
}

// Register mounts note routes. Every route needs RequireAuth applied by the caller.
func (h *Handler) Register(r chi.Router) {
	r.Get("/notes", h.HandleList)
	r.Post("/notes", h.HandleCreate)
	r.Get("/notes/{id}", h.HandleGet)
	r.Delete("/notes/{id}", h.HandleDelete)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	notes, err := h.notes.List(r.Context(), owner)
	if err != nil {
		h.fail(w, r, "list notes failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", notes)
}

// HandleGet implements GET /notes/{id}; ?format=html adds the rendered body.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	n, err := h.notes.Get(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get note failed", err)
		return
	}
	view := models.NoteView{Note: n}
	if r.URL.Query().Get("format") == "html" {
		view.HTML = h.notes.Render(n)
	}
	httputil.WriteSuccess(w, http.StatusOK, "", view)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.CreateNoteRequest](w, r, h.logger)
	if !ok {
		return
	}
	res, err := h.notes.Create(r.Context(), owner, req)
	if err != nil {
		h.fail(w, r, "create note failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, models.MsgNoteCreated, res)
}

// HandleDelete reports the affected count; deleting a missing note is not an error.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	n, err := h.notes.Delete(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "delete note failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, models.MsgNoteDeleted, models.DeleteNoteResult{Deleted: n})
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	subject, err := httputil.RequireSubject(r.Context(), h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return subject, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	h.logger.WarnContext(ctx, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}
