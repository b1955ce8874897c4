package usecase

import (
	"context"
	"log/slog"
	"time"

	"zenmindful/internal/domain"
)

// AccountUseCase reports on everything stored for a user.
type AccountUseCase struct {
	users      UserRepository
	challenges ChallengeRepository
	log        *slog.Logger
	now        func() time.Time
}

func NewAccountUseCase(users UserRepository, challenges ChallengeRepository, log *slog.Logger) *AccountUseCase {
	return &AccountUseCase{users: users, challenges: challenges, log: log, now: time.Now}
}

func (uc *AccountUseCase) Export(ctx context.Context, userID string) (*domain.Export, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	enrollments, err := uc.challenges.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, err
	}
	days, err := uc.challenges.ListDays(ctx, userID)
	if err != nil {
		return nil, err
	}

	uc.log.Info("user data exported", "user_id", userID, "enrollments", len(enrollments), "days", len(days))
	return &domain.Export{
		User: user,
		Snapshot: domain.ExportSnapshot{
			ExportDate:         uc.now().UTC(),
			TotalEnrollments:   len(enrollments),
			TotalCompletedDays: len(days),
		},
		Enrollments: enrollments,
		Progress:    days,
	}, nil
}

// Integrity compares every enrollment's cached count with the ledger.
func (uc *AccountUseCase) Integrity(ctx context.Context, userID string) (*domain.IntegrityReport, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	enrollments, err := uc.challenges.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, err
	}
	sums, err := uc.challenges.Summaries(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &domain.IntegrityReport{
		UserID:         userID,
		UserExists:     true,
		AccountCreated: user.CreatedAt,
		LastUpdated:    user.UpdatedAt,
		Enrollments:    make([]domain.EnrollmentCheck, 0, len(enrollments)),
		Status:         domain.IntegrityHealthy,
	}
	for _, e := range enrollments {
		ledger := sums[e.ChallengeID].CompletedDays
		check := domain.EnrollmentCheck{
			ChallengeID: e.ChallengeID,
			CachedCount: e.CompletedCount,
			LedgerCount: ledger,
			Consistent:  e.CompletedCount == ledger,
		}
		if !check.Consistent {
			report.Status = domain.IntegrityInconsistent
			uc.log.Warn("enrollment count drifted from ledger",
				"user_id", userID, "challenge_id", e.ChallengeID, "cached", e.CompletedCount, "ledger", ledger)
		}
		report.Enrollments = append(report.Enrollments, check)
	}
	return report, nil
}
