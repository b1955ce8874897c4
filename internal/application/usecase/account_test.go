package usecase

import (
	"context"
	"testing"
	"time"

	"zenmindful/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountFixture(t *testing.T, now time.Time) (*AccountUseCase, *ChallengeUseCase, *fakeUsers, *fakeChallenges) {
	t.Helper()
	users := newFakeUsers()
	challenges, repo, _ := newChallengeFixture(now)
	_, err := users.Ensure(context.Background(), "u1", domain.Identity{Email: "u1@example.com"})
	require.NoError(t, err)

	uc := NewAccountUseCase(users, repo, discardLogger())
	uc.now = func() time.Time { return now }
	return uc, challenges, users, repo
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	uc, challenges, _, _ := newAccountFixture(t, now)

	_, err := challenges.Enroll(ctx, "u1", "mindful-week")
	require.NoError(t, err)
	_, err = challenges.Enroll(ctx, "u1", "mood-tracker")
	require.NoError(t, err)
	for _, d := range []string{"2024-05-01", "2024-05-02"} {
		_, err = challenges.RecordCompletion(ctx, "u1", "mindful-week", true, d)
		require.NoError(t, err)
	}

	out, err := uc.Export(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", out.User.ID)
	assert.Equal(t, now, out.Snapshot.ExportDate)
	assert.Equal(t, 2, out.Snapshot.TotalEnrollments)
	assert.Equal(t, 2, out.Snapshot.TotalCompletedDays)
	require.Len(t, out.Progress, 2)
	assert.Equal(t, "2024-05-01", out.Progress[0].Date)
	assert.Equal(t, "mindful-week", out.Progress[0].ChallengeID)

	_, err = uc.Export(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestIntegrity(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	uc, challenges, _, repo := newAccountFixture(t, now)

	_, err := challenges.Enroll(ctx, "u1", "stress-buster")
	require.NoError(t, err)
	_, err = challenges.RecordCompletion(ctx, "u1", "stress-buster", true, "")
	require.NoError(t, err)

	report, err := uc.Integrity(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, report.UserExists)
	assert.Equal(t, domain.IntegrityHealthy, report.Status)
	require.Len(t, report.Enrollments, 1)
	assert.Equal(t, domain.EnrollmentCheck{ChallengeID: "stress-buster", CachedCount: 1, LedgerCount: 1, Consistent: true}, report.Enrollments[0])

	repo.enrollments[enrollmentKey{"u1", "stress-buster"}].CompletedCount = 4

	report, err = uc.Integrity(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.IntegrityInconsistent, report.Status)
	assert.False(t, report.Enrollments[0].Consistent)
	assert.Equal(t, 4, report.Enrollments[0].CachedCount)

	_, err = uc.Integrity(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
