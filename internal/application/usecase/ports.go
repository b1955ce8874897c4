package usecase

import (
	"context"
	"time"

	"zenmindful/internal/domain"
)

type UserRepository interface {
	// Ensure upserts the user and applies ident atomically. created reports
	// whether this call inserted the row.
	Ensure(ctx context.Context, id string, ident domain.Identity) (created bool, err error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

type SessionStore interface {
	Save(ctx context.Context, token, userID string) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

type OTPStore interface {
	Put(ctx context.Context, phone, hash string) error
	Take(ctx context.Context, phone string) (string, error)
}

type CodeHasher interface {
	Generate() (string, error)
	Hash(code string) (string, error)
	Compare(hash, code string) bool
}

type CodeSender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// IdentityVerifier turns a federated ID token into its subject and claims.
type IdentityVerifier interface {
	Identify(token string) (string, domain.Identity, error)
}

type ChallengeRepository interface {
	Enroll(ctx context.Context, userID, challengeID string, now time.Time) (*domain.Enrollment, bool, error)
	GetEnrollment(ctx context.Context, userID, challengeID string) (*domain.Enrollment, error)
	ListEnrollments(ctx context.Context, userID string) ([]domain.Enrollment, error)
	RecordDay(ctx context.Context, fact domain.DayFact, now time.Time) (domain.LedgerSummary, error)
	Summary(ctx context.Context, userID, challengeID string) (domain.LedgerSummary, error)
	Summaries(ctx context.Context, userID string) (map[string]domain.LedgerSummary, error)
	ListDays(ctx context.Context, userID string) ([]domain.DayFact, error)
}

type Generator interface {
	Generate(ctx context.Context, system, prompt string, maxTokens int) (string, error)
	GenerateList(ctx context.Context, system, prompt string, maxTokens int) ([]string, error)
}

// Observer receives business events for metrics.
type Observer interface {
	Resolution(outcome string)
	Completion(challengeID string)
	Enrollment(challengeID string, created bool)
	Generation(kind string, ok bool)
}

type nopObserver struct{}

func (nopObserver) Resolution(string)       {}
func (nopObserver) Completion(string)       {}
func (nopObserver) Enrollment(string, bool) {}
func (nopObserver) Generation(string, bool) {}
