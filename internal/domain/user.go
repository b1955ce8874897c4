package domain

import (
	"errors"
	"time"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidCode        = errors.New("code expired or invalid")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrInvalidInput       = errors.New("invalid input")
	ErrIdentifierTaken    = errors.New("identifier already linked to another user")
)

type User struct {
	ID                string    `json:"id"`
	Email             *string   `json:"email,omitempty"`
	PhoneNumber       *string   `json:"phoneNumber,omitempty"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	ProfileImageURL   string    `json:"profileImageUrl,omitempty"`
	Name              string    `json:"name,omitempty"`
	Age               string    `json:"age,omitempty"`
	WellnessGoals     []string  `json:"wellnessGoals,omitempty"`
	PreferredTime     string    `json:"preferredTime,omitempty"`
	Motivation        string    `json:"motivation,omitempty"`
	PreferredLanguage string    `json:"preferredLanguage"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// OnboardingComplete reports whether the onboarding flow filled every
// profile field it asks for.
func (u *User) OnboardingComplete() bool {
	return u.Age != "" && len(u.WellnessGoals) > 0 && u.Motivation != "" && u.PreferredTime != ""
}

// Identity carries the alternate keys and display fields a login provider
// knows about a user. Empty fields are left untouched on an existing record.
type Identity struct {
	Email           string
	PhoneNumber     string
	FirstName       string
	LastName        string
	ProfileImageURL string
}

type ProfileUpdate struct {
	Name              string
	Age               string
	WellnessGoals     []string
	PreferredTime     string
	Motivation        string
	PreferredLanguage string
}
