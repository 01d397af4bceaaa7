package service

import (
	"context"
	"log/slog"

	"jotter/internal/note/models"
	"jotter/internal/platform/metrics"
	dErrors "jotter/pkg/domain-errors"
	"jotter/pkg/platform/httputil"
	"jotter/pkg/requestcontext"
)

// NoteStore is satisfied by repository.Repository[models.Note].
type NoteStore interface {
	List(ctx context.Context) ([]models.Note, error)
	GetByID(ctx context.Context, id string) (*models.Note, error)
	Insert(ctx context.Context, n *models.Note) (string, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type Renderer interface {
	HTML(src string) string
}

// Service scopes every note operation to one owner. Notes belonging to
// someone else are indistinguishable from missing ones.
type Service struct {
	notes    NoteStore
	renderer Renderer
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(notes NoteStore, renderer Renderer, opts ...Option) *Service {
	svc := &Service{notes: notes, renderer: renderer}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

func (s *Service) List(ctx context.Context, owner string) ([]models.Note, error) {
	all, err := s.notes.List(ctx)
	if err != nil {
		return nil, s.internal(ctx, "list", err)
	}
	out := make([]models.Note, 0, len(all))
	for _, n := range all {
		if n.Owner == owner {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, owner, id string) (*models.Note, error) {
	n, err := s.find(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, models.MsgNotFound)
	}
	return n, nil
}

func (s *Service) Create(ctx context.Context, owner string, req *models.CreateNoteRequest) (*models.CreateNoteResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id, err := s.notes.Insert(ctx, &models.Note{
		Owner:     owner,
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: requestcontext.Now(ctx),
	})
	if err != nil {
		return nil, s.internal(ctx, "create", err)
	}

	s.logger.InfoContext(ctx, "note created",
		"note_id", id,
		"owner", owner,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementNotesCreated()
	}
	return &models.CreateNoteResult{ID: id}, nil
}

// Delete reports how many notes were removed: 0 for a missing note or one
// owned by someone else.
func (s *Service) Delete(ctx context.Context, owner, id string) (int64, error) {
	n, err := s.find(ctx, owner, id)
	if err != nil || n == nil {
		return 0, err
	}
	affected, err := s.notes.Delete(ctx, id)
	if err != nil {
		return 0, s.internal(ctx, "delete", err)
	}
	if s.metrics != nil {
		s.metrics.AddNotesDeleted(affected)
	}
	return affected, nil
}

// Render returns the note body as sanitized HTML.
func (s *Service) Render(n *models.Note) string {
	return s.renderer.HTML(n.Body)
}

func (s *Service) find(ctx context.Context, owner, id string) (*models.Note, error) {
	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, s.internal(ctx, "get", err)
	}
	if n == nil || n.Owner != owner {
		return nil, nil
	}
	return n, nil
}

func (s *Service) internal(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "note "+op+" failed",
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	return &dErrors.Error{Code: dErrors.CodeInternal, Message: httputil.MsgServerProblem, Err: err}
}
