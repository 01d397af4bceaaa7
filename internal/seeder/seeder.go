package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	credential "jotter/internal/credential/models"
	note "jotter/internal/note/models"
	"jotter/pkg/secrets"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "Demo1234!"

// CredentialStore defines methods for seeding credentials
type CredentialStore interface {
	GetByID(ctx context.Context, id string) (*credential.Credential, error)
	Insert(ctx context.Context, c *credential.Credential) (string, error)
}

// NoteStore defines methods for seeding notes
type NoteStore interface {
	Insert(ctx context.Context, n *note.Note) (string, error)
}

// Seeder populates storage with demo accounts and notes. Accounts that
// already exist are left alone, so seeding a persistent backend twice is safe.
type Seeder struct {
	credentials CredentialStore
	notes       NoteStore
	logger      *slog.Logger
	now         func() time.Time
}

func New(credentials CredentialStore, notes NoteStore, logger *slog.Logger) *Seeder {
	return &Seeder{
		credentials: credentials,
		notes:       notes,
		logger:      logger,
		now:         time.Now,
	}
}

var demoAccounts = []struct {
	email string
	notes []struct{ title, body string }
}{
	{"alice@example.com", []struct{ title, body string }{
		{"Groceries", "- [ ] milk\n- [ ] eggs\n- [x] coffee"},
		{"Ideas", "# Side projects\n\n*Write a markdown notes app.*"},
	}},
	{"bob@example.com", []struct{ title, body string }{
		{"Reading list", "1. The Go Programming Language\n2. Designing Data-Intensive Applications"},
	}},
	{"charlie@example.com", nil},
}

// SeedAll creates missing demo accounts and their notes.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.InfoContext(ctx, "seeding demo data...")

	hash, err := secrets.Hash(DemoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	created, notes := 0, 0
	for _, a := range demoAccounts {
		existing, err := s.credentials.GetByID(ctx, a.email)
		if err != nil {
			return fmt.Errorf("failed to look up %s: %w", a.email, err)
		}
		if existing != nil {
			continue
		}

		now := s.now()
		if _, err := s.credentials.Insert(ctx, &credential.Credential{
			Email:        a.email,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return fmt.Errorf("failed to seed credential %s: %w", a.email, err)
		}
		created++

		for i, n := range a.notes {
			if _, err := s.notes.Insert(ctx, &note.Note{
				Owner:     a.email,
				Title:     n.title,
				Body:      n.body,
				CreatedAt: now.Add(time.Duration(i) * time.Second),
			}); err != nil {
				return fmt.Errorf("failed to seed note for %s: %w", a.email, err)
			}
			notes++
		}
	}

	s.logger.InfoContext(ctx, "demo data seeded successfully",
		"credentials", created,
		"notes", notes,
	)
	return nil
}
