package domain

import (
	"errors"
	"time"
)

// DateLayout is the calendar-day key of the progress ledger.
const DateLayout = "2006-01-02"

var (
	ErrInvalidChallenge   = errors.New("unknown challenge")
	ErrNotEnrolled        = errors.New("not enrolled in challenge")
	ErrContentUnavailable = errors.New("content generation unavailable")
)

type Challenge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Type        string `json:"type"`
	Difficulty  string `json:"difficulty"`
	Points      int    `json:"points"`
	Icon        string `json:"icon"`
}

type Enrollment struct {
	UserID           string    `json:"userId"`
	ChallengeID      string    `json:"challengeId"`
	StartDate        time.Time `json:"startDate"`
	LastActivityDate time.Time `json:"lastActivityDate"`
	CompletedCount   int       `json:"completedCount"`
}

// DayFact is one ledger row: the user completed the challenge on Date.
type DayFact struct {
	ChallengeID string `json:"challengeId"`
	UserID      string `json:"userId"`
	Date        string `json:"date"`
	Completed   bool   `json:"completed"`
}

// LedgerSummary is what the ledger knows about one enrollment.
type LedgerSummary struct {
	ChallengeID    string
	CompletedDays  int
	LastCompleted  string
	CompletedDates []string
}

type Progress struct {
	ChallengeID       string `json:"challengeId"`
	CompletedCount    int    `json:"completedCount"`
	CurrentStreak     int    `json:"currentStreak"`
	LongestStreak     int    `json:"longestStreak"`
	LastCompletedDate string `json:"lastCompletedDate,omitempty"`
	Done              bool   `json:"done"`
}

type ActiveChallenge struct {
	Challenge  Challenge  `json:"challenge"`
	Enrollment Enrollment `json:"enrollment"`
	Progress   Progress   `json:"progress"`
}

type CompletedChallenge struct {
	Challenge      Challenge `json:"challenge"`
	CompletedCount int       `json:"completedCount"`
	CompletedAt    string    `json:"completedAt"`
}
