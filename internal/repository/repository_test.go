package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"jotter/internal/storage"
	"jotter/internal/storage/memory"
	"jotter/internal/storage/sqlite"
	"jotter/pkg/platform/sentinel"
)

type widget struct {
	ID    string `json:"-"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (w *widget) GetID() string   { return w.ID }
func (w *widget) SetID(id string) { w.ID = id }

type failingAdapter struct{ err error }

func (f failingAdapter) List(context.Context, string) ([]storage.Document, error) { return nil, f.err }
func (f failingAdapter) Get(context.Context, string, string) (storage.Document, error) {
	return storage.Document{}, f.err
}
func (f failingAdapter) Insert(context.Context, string, storage.Document) (string, error) {
	return "", f.err
}
func (f failingAdapter) Delete(context.Context, string, string) (int64, error) { return 0, f.err }

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveStorage(entity, op string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	o.calls = append(o.calls, entity+"."+op+"."+outcome)
}

type RepositorySuite struct {
	suite.Suite
	repo *Repository[widget, *widget]
	ctx  context.Context
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.repo = New[widget]("widgets", memory.New())
	s.ctx = context.Background()
}

func (s *RepositorySuite) TestListEmptyIsNotNil() {
	got, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.NotNil(got)
	s.Empty(got)
}

func (s *RepositorySuite) TestInsertStampsIDAndRoundTrips() {
	w := &widget{Name: "gear", Count: 3}
	id, err := s.repo.Insert(s.ctx, w)
	s.Require().NoError(err)
	s.Equal(id, w.ID)

	got, err := s.repo.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(*w, *got)
}

func (s *RepositorySuite) TestInsertTwiceGivesDistinctIDs() {
	a, err := s.repo.Insert(s.ctx, &widget{Name: "a"})
	s.Require().NoError(err)
	b, err := s.repo.Insert(s.ctx, &widget{Name: "a"})
	s.Require().NoError(err)
	s.NotEqual(a, b)
}

func (s *RepositorySuite) TestInsertWithIDReplaces() {
	w := &widget{Name: "gear"}
	id, err := s.repo.Insert(s.ctx, w)
	s.Require().NoError(err)

	w.Count = 9
	again, err := s.repo.Insert(s.ctx, w)
	s.Require().NoError(err)
	s.Equal(id, again)

	all, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(9, all[0].Count)
}

func (s *RepositorySuite) TestGetMissingIsNilNil() {
	got, err := s.repo.GetByID(s.ctx, "nope")
	s.NoError(err)
	s.Nil(got)
}

func (s *RepositorySuite) TestDeleteMissingIsZero() {
	n, err := s.repo.Delete(s.ctx, "nope")
	s.NoError(err)
	s.Zero(n)

	id, err := s.repo.Insert(s.ctx, &widget{Name: "x"})
	s.Require().NoError(err)
	n, err = s.repo.Delete(s.ctx, id)
	s.NoError(err)
	s.Equal(int64(1), n)
}

func (s *RepositorySuite) TestInsertNil() {
	_, err := s.repo.Insert(s.ctx, nil)
	s.ErrorIs(err, sentinel.ErrInvalidInput)
}

func (s *RepositorySuite) TestAdapterFailuresPropagate() {
	boom := errors.New("disk on fire")
	obs := &recordingObserver{}
	repo := New[widget]("widgets", failingAdapter{err: boom}, WithObserver(obs))

	_, err := repo.List(s.ctx)
	s.ErrorIs(err, boom)
	_, err = repo.GetByID(s.ctx, "x")
	s.ErrorIs(err, boom)
	_, err = repo.Insert(s.ctx, &widget{})
	s.ErrorIs(err, boom)
	_, err = repo.Delete(s.ctx, "x")
	s.ErrorIs(err, boom)

	s.Equal([]string{
		"widgets.list.error", "widgets.get.error", "widgets.insert.error", "widgets.delete.error",
	}, obs.calls)
}

func (s *RepositorySuite) TestCorruptRecordIsAnError() {
	adapter := memory.New()
	_, err := adapter.Insert(s.ctx, "widgets", storage.Document{ID: "bad", Data: []byte(`not json`)})
	s.Require().NoError(err)

	repo := New[widget]("widgets", adapter)
	_, err = repo.GetByID(s.ctx, "bad")
	s.Error(err)
	_, err = repo.List(s.ctx)
	s.Error(err)
}

func TestDefaultAdapterUsesSQLitePath(t *testing.T) {
	defaultOnce = sync.Once{}
	t.Cleanup(func() { defaultOnce = sync.Once{}; defaultAdapter = nil })
	t.Setenv("JOTTER_SQLITE_PATH", filepath.Join(t.TempDir(), "default.db"))

	repo := New[widget]("widgets", nil)
	_, ok := repo.adapter.(*sqlite.Adapter)
	require.True(t, ok, "expected sqlite adapter, got %T", repo.adapter)

	id, err := repo.Insert(context.Background(), &widget{Name: "persisted"})
	require.NoError(t, err)
	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Name)
}

func TestDefaultAdapterFallsBackToMemory(t *testing.T) {
	defaultOnce = sync.Once{}
	t.Cleanup(func() { defaultOnce = sync.Once{}; defaultAdapter = nil })
	t.Setenv("JOTTER_SQLITE_PATH", filepath.Join(t.TempDir(), "missing-dir", "x.db"))

	_, ok := DefaultAdapter().(*memory.Adapter)
	assert.True(t, ok)
}
