package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zenmindful/internal/catalog"
	"zenmindful/internal/domain"
)

type ChallengeUseCase struct {
	repo ChallengeRepository
	log  *slog.Logger
	obs  Observer
	now  func() time.Time
}

func NewChallengeUseCase(repo ChallengeRepository, log *slog.Logger, obs Observer) *ChallengeUseCase {
	if obs == nil {
		obs = nopObserver{}
	}
	return &ChallengeUseCase{repo: repo, log: log, obs: obs, now: time.Now}
}

// Enroll joins the user to a catalog challenge. Joining twice keeps the
// original start date and only refreshes the activity stamp.
func (uc *ChallengeUseCase) Enroll(ctx context.Context, userID, challengeID string) (*domain.Enrollment, error) {
	if _, ok := catalog.Get(challengeID); !ok {
		return nil, domain.ErrInvalidChallenge
	}

	e, created, err := uc.repo.Enroll(ctx, userID, challengeID, uc.now())
	if err != nil {
		return nil, err
	}
	uc.obs.Enrollment(challengeID, created)
	if created {
		uc.log.Info("challenge joined", "user_id", userID, "challenge_id", challengeID)
	}
	return e, nil
}

// ListAvailable returns the catalog entries the user has not joined.
func (uc *ChallengeUseCase) ListAvailable(ctx context.Context, userID string) ([]domain.Challenge, error) {
	enrollments, err := uc.repo.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, err
	}

	joined := make(map[string]struct{}, len(enrollments))
	for _, e := range enrollments {
		joined[e.ChallengeID] = struct{}{}
	}

	out := []domain.Challenge{}
	for _, c := range catalog.All() {
		if _, ok := joined[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// ListActive returns joined challenges that are not finished yet, with
// progress read from the ledger.
func (uc *ChallengeUseCase) ListActive(ctx context.Context, userID string) ([]domain.ActiveChallenge, error) {
	enrollments, sums, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := uc.now()
	out := []domain.ActiveChallenge{}
	for _, e := range enrollments {
		c, ok := catalog.Get(e.ChallengeID)
		if !ok {
			continue
		}
		p := progressOf(c, sums[c.ID], today)
		if p.Done {
			continue
		}
		e.CompletedCount = p.CompletedCount
		out = append(out, domain.ActiveChallenge{Challenge: c, Enrollment: e, Progress: p})
	}
	return out, nil
}

// ListCompleted returns joined challenges whose distinct completed days
// reached the catalog duration. CompletedAt is the latest completed day.
func (uc *ChallengeUseCase) ListCompleted(ctx context.Context, userID string) ([]domain.CompletedChallenge, error) {
	enrollments, sums, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := []domain.CompletedChallenge{}
	for _, e := range enrollments {
		c, ok := catalog.Get(e.ChallengeID)
		if !ok {
			continue
		}
		s := sums[c.ID]
		if s.CompletedDays < c.Duration {
			continue
		}
		out = append(out, domain.CompletedChallenge{
			Challenge:      c,
			CompletedCount: s.CompletedDays,
			CompletedAt:    s.LastCompleted,
		})
	}
	return out, nil
}

// RecordCompletion marks one calendar day of a joined challenge as done.
// date is YYYY-MM-DD or an RFC 3339 timestamp taken in its own offset; empty
// means today on the server clock, and days more than one ahead of it are
// rejected. Recording the same day again changes nothing. completed=false
// writes nothing and returns current progress.
func (uc *ChallengeUseCase) RecordCompletion(ctx context.Context, userID, challengeID string, completed bool, date string) (domain.Progress, error) {
	c, ok := catalog.Get(challengeID)
	if !ok {
		return domain.Progress{}, domain.ErrInvalidChallenge
	}

	now := uc.now()
	day, err := normalizeDate(date, now)
	if err != nil {
		return domain.Progress{}, err
	}

	sum, err := uc.repo.RecordDay(ctx, domain.DayFact{
		ChallengeID: challengeID,
		UserID:      userID,
		Date:        day,
		Completed:   completed,
	}, now)
	if err != nil {
		return domain.Progress{}, err
	}

	if completed {
		uc.obs.Completion(challengeID)
	}
	return progressOf(c, sum, now), nil
}

// GetProgress reads progress for a joined challenge from the ledger.
func (uc *ChallengeUseCase) GetProgress(ctx context.Context, userID, challengeID string) (domain.Progress, error) {
	c, ok := catalog.Get(challengeID)
	if !ok {
		return domain.Progress{}, domain.ErrInvalidChallenge
	}
	if _, err := uc.repo.GetEnrollment(ctx, userID, challengeID); err != nil {
		return domain.Progress{}, err
	}

	sum, err := uc.repo.Summary(ctx, userID, challengeID)
	if err != nil {
		return domain.Progress{}, err
	}
	return progressOf(c, sum, uc.now()), nil
}

func (uc *ChallengeUseCase) load(ctx context.Context, userID string) ([]domain.Enrollment, map[string]domain.LedgerSummary, error) {
	enrollments, err := uc.repo.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	sums, err := uc.repo.Summaries(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return enrollments, sums, nil
}

func progressOf(c domain.Challenge, s domain.LedgerSummary, today time.Time) domain.Progress {
	current, longest := streaks(s.CompletedDates, today)
	return domain.Progress{
		ChallengeID:       c.ID,
		CompletedCount:    s.CompletedDays,
		CurrentStreak:     current,
		LongestStreak:     longest,
		LastCompletedDate: s.LastCompleted,
		Done:              s.CompletedDays >= c.Duration,
	}
}

// maxDaysAhead allows a caller at UTC+14 to stamp its own today.
const maxDaysAhead = 1

func normalizeDate(raw string, now time.Time) (string, error) {
	if raw == "" {
		return now.Format(domain.DateLayout), nil
	}

	var day string
	if t, err := time.Parse(domain.DateLayout, raw); err == nil {
		day = t.Format(domain.DateLayout)
	} else if t, err := time.Parse(time.RFC3339, raw); err == nil {
		day = t.Format(domain.DateLayout)
	} else {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}

	d, _ := time.Parse(domain.DateLayout, day)
	today, _ := time.Parse(domain.DateLayout, now.Format(domain.DateLayout))
	if daysBetween(today, d) > maxDaysAhead {
		return "", fmt.Errorf("%w: date %s is in the future", domain.ErrInvalidInput, day)
	}
	return day, nil
}
