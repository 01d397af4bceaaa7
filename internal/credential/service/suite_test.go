package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"jotter/internal/credential/models"
	"jotter/internal/credential/service/mocks"
	"jotter/internal/platform/metrics"
	dErrors "jotter/pkg/domain-errors"
	"jotter/pkg/requestcontext"
	"jotter/pkg/secrets"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "Correct1!"
)

var (
	fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	errStore = errors.New("disk on fire")
)

type ServiceSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockStore    *mocks.MockCredentialStore
	mockTokens   *mocks.MockTokenIssuer
	mockNotifier *mocks.MockNotifier
	metrics      *metrics.Metrics
	service      *Service
	ctx          context.Context
	storedHash   string
}

func (s *ServiceSuite) SetupSuite() {
	hash, err := secrets.Hash(testPassword)
	s.Require().NoError(err)
	s.storedHash = hash
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockCredentialStore(s.ctrl)
	s.mockTokens = mocks.NewMockTokenIssuer(s.ctrl)
	s.mockNotifier = mocks.NewMockNotifier(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = New(s.mockStore, s.mockTokens,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
		WithNotifier(s.mockNotifier),
		WithResetTTL(30*time.Minute),
	)
	s.ctx = requestcontext.WithTime(context.Background(), fixedNow)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) credential() *models.Credential {
	return &models.Credential{
		Email:        testEmail,
		PasswordHash: s.storedHash,
		CreatedAt:    fixedNow.Add(-time.Hour),
		UpdatedAt:    fixedNow.Add(-time.Hour),
	}
}

func (s *ServiceSuite) assertDomainError(err error, code dErrors.Code, msg string) {
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "want code %s, got %v", code, err)
	var de *dErrors.Error
	s.Require().ErrorAs(err, &de)
	s.Equal(msg, de.Message)
}
