package repository

import (
	"time"

	"zenmindful/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserGorm struct {
	ID                string  `gorm:"primaryKey;size:191"`
	Email             *string `gorm:"uniqueIndex;size:255"`
	PhoneNumber       *string `gorm:"uniqueIndex;size:32"`
	FirstName         string  `gorm:"size:100"`
	LastName          string  `gorm:"size:100"`
	ProfileImageURL   string
	Name              string `gorm:"size:200"`
	Age               string `gorm:"size:16"`
	WellnessGoals     datatypes.JSONSlice[string]
	PreferredTime     string `gorm:"size:64"`
	Motivation        string
	PreferredLanguage string `gorm:"size:8"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (UserGorm) TableName() string {
	return "users"
}

func (ug *UserGorm) ToDomain() *domain.User {
	return &domain.User{
		ID:                ug.ID,
		Email:             ug.Email,
		PhoneNumber:       ug.PhoneNumber,
		FirstName:         ug.FirstName,
		LastName:          ug.LastName,
		ProfileImageURL:   ug.ProfileImageURL,
		Name:              ug.Name,
		Age:               ug.Age,
		WellnessGoals:     []string(ug.WellnessGoals),
		PreferredTime:     ug.PreferredTime,
		Motivation:        ug.Motivation,
		PreferredLanguage: ug.PreferredLanguage,
		CreatedAt:         ug.CreatedAt,
		UpdatedAt:         ug.UpdatedAt,
	}
}

// One row per user and challenge.
type EnrollmentGorm struct {
	UserID           string    `gorm:"primaryKey;size:191"`
	ChallengeID      string    `gorm:"primaryKey;size:64"`
	StartDate        time.Time `gorm:"not null"`
	LastActivityDate time.Time `gorm:"not null"`
	// Cache of the ledger's distinct completed days; rewritten, never incremented.
	CompletedCount int `gorm:"not null"`
	CreatedAt      time.Time

	User *UserGorm `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (EnrollmentGorm) TableName() string {
	return "challenge_enrollments"
}

func (e *EnrollmentGorm) ToDomain() *domain.Enrollment {
	return &domain.Enrollment{
		UserID:           e.UserID,
		ChallengeID:      e.ChallengeID,
		StartDate:        e.StartDate,
		LastActivityDate: e.LastActivityDate,
		CompletedCount:   e.CompletedCount,
	}
}

// One row per challenge, user and calendar day.
type DayFactGorm struct {
	ChallengeID string `gorm:"primaryKey;size:64"`
	UserID      string `gorm:"primaryKey;size:191;index"`
	Date        string `gorm:"primaryKey;size:10"`
	Completed   bool   `gorm:"not null"`
	UpdatedAt   time.Time

	User *UserGorm `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (DayFactGorm) TableName() string {
	return "challenge_daily_progress"
}

// Migrate creates or updates the schema. Users go first so the
// foreign keys of the dependent tables resolve.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserGorm{}, &EnrollmentGorm{}, &DayFactGorm{})
}
