package repository

import (
	"context"
	"time"

	"zenmindful/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// Enroll inserts the enrollment, or only stamps last_activity_date when the
// user already joined. created reports which of the two happened.
func (r *ChallengeRepository) Enroll(ctx context.Context, userID, challengeID string, now time.Time) (*domain.Enrollment, bool, error) {
	var (
		out     EnrollmentGorm
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e := EnrollmentGorm{
			UserID:           userID,
			ChallengeID:      challengeID,
			StartDate:        now,
			LastActivityDate: now,
			CreatedAt:        now,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&e)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0

		if !created {
			err := tx.Model(&EnrollmentGorm{}).
				Where("user_id = ? AND challenge_id = ?", userID, challengeID).
				Update("last_activity_date", now).Error
			if err != nil {
				return err
			}
		}
		return tx.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&out).Error
	})
	if err != nil {
		return nil, false, storageErr(err, domain.ErrNotEnrolled)
	}
	return out.ToDomain(), created, nil
}

func (r *ChallengeRepository) GetEnrollment(ctx context.Context, userID, challengeID string) (*domain.Enrollment, error) {
	var e EnrollmentGorm
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&e).Error
	if err != nil {
		return nil, storageErr(err, domain.ErrNotEnrolled)
	}
	return e.ToDomain(), nil
}

func (r *ChallengeRepository) ListEnrollments(ctx context.Context, userID string) ([]domain.Enrollment, error) {
	var rows []EnrollmentGorm
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date asc").
		Find(&rows).Error
	if err != nil {
		return nil, storageErr(err, nil)
	}

	out := make([]domain.Enrollment, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// RecordDay writes one ledger fact and rewrites the enrollment's cached
// count from the ledger. The enrollment row is locked first so concurrent
// completions for the same enrollment serialize on the recount.
// A fact with Completed=false writes nothing and only reads the ledger.
func (r *ChallengeRepository) RecordDay(ctx context.Context, fact domain.DayFact, now time.Time) (domain.LedgerSummary, error) {
	var dates []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e EnrollmentGorm
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND challenge_id = ?", fact.UserID, fact.ChallengeID).
			First(&e).Error
		if err != nil {
			return err
		}

		if fact.Completed {
			row := DayFactGorm{
				ChallengeID: fact.ChallengeID,
				UserID:      fact.UserID,
				Date:        fact.Date,
				Completed:   true,
				UpdatedAt:   now,
			}
			err = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "challenge_id"}, {Name: "user_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"completed", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}

		err = tx.Model(&DayFactGorm{}).
			Where("challenge_id = ? AND user_id = ? AND completed = ?", fact.ChallengeID, fact.UserID, true).
			Distinct("date").
			Order("date asc").
			Pluck("date", &dates).Error
		if err != nil {
			return err
		}
		if !fact.Completed {
			return nil
		}

		return tx.Model(&EnrollmentGorm{}).
			Where("user_id = ? AND challenge_id = ?", fact.UserID, fact.ChallengeID).
			Updates(map[string]interface{}{
				"completed_count":    len(dates),
				"last_activity_date": now,
			}).Error
	})
	if err != nil {
		return domain.LedgerSummary{}, storageErr(err, domain.ErrNotEnrolled)
	}
	return summarize(fact.ChallengeID, dates), nil
}

// Summary reads the distinct completed days of one enrollment, oldest first.
func (r *ChallengeRepository) Summary(ctx context.Context, userID, challengeID string) (domain.LedgerSummary, error) {
	var dates []string
	err := r.db.WithContext(ctx).Model(&DayFactGorm{}).
		Where("challenge_id = ? AND user_id = ? AND completed = ?", challengeID, userID, true).
		Order("date asc").
		Pluck("date", &dates).Error
	if err != nil {
		return domain.LedgerSummary{}, storageErr(err, nil)
	}
	return summarize(challengeID, dates), nil
}

// Summaries returns one summary per challenge the user has completed days in.
func (r *ChallengeRepository) Summaries(ctx context.Context, userID string) (map[string]domain.LedgerSummary, error) {
	var rows []DayFactGorm
	err := r.db.WithContext(ctx).
		Select("challenge_id", "date").
		Where("user_id = ? AND completed = ?", userID, true).
		Order("challenge_id asc, date asc").
		Find(&rows).Error
	if err != nil {
		return nil, storageErr(err, nil)
	}

	byChallenge := make(map[string][]string)
	for _, row := range rows {
		byChallenge[row.ChallengeID] = append(byChallenge[row.ChallengeID], row.Date)
	}

	out := make(map[string]domain.LedgerSummary, len(byChallenge))
	for id, dates := range byChallenge {
		out[id] = summarize(id, dates)
	}
	return out, nil
}

// ListDays returns every completed ledger day of the user, grouped by
// challenge and oldest first.
func (r *ChallengeRepository) ListDays(ctx context.Context, userID string) ([]domain.DayFact, error) {
	var rows []DayFactGorm
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND completed = ?", userID, true).
		Order("challenge_id asc, date asc").
		Find(&rows).Error
	if err != nil {
		return nil, storageErr(err, nil)
	}

	out := make([]domain.DayFact, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DayFact{
			ChallengeID: row.ChallengeID,
			UserID:      row.UserID,
			Date:        row.Date,
			Completed:   row.Completed,
		})
	}
	return out, nil
}

// dates must be sorted ascending.
func summarize(challengeID string, dates []string) domain.LedgerSummary {
	uniq := make([]string, 0, len(dates))
	for i, d := range dates {
		if i > 0 && d == dates[i-1] {
			continue
		}
		uniq = append(uniq, d)
	}

	s := domain.LedgerSummary{
		ChallengeID:    challengeID,
		CompletedDays:  len(uniq),
		CompletedDates: uniq,
	}
	if len(uniq) > 0 {
		s.LastCompleted = uniq[len(uniq)-1]
	}
	return s
}
