package domain

import "time"

// Export is everything stored for one user.
type Export struct {
	User        *User          `json:"user"`
	Snapshot    ExportSnapshot `json:"dataSnapshot"`
	Enrollments []Enrollment   `json:"enrollments"`
	Progress    []DayFact      `json:"challengeProgress"`
}

type ExportSnapshot struct {
	ExportDate         time.Time `json:"exportDate"`
	TotalEnrollments   int       `json:"totalEnrollments"`
	TotalCompletedDays int       `json:"totalCompletedDays"`
}

// EnrollmentCheck compares the cached count on an enrollment with the
// ledger recount.
type EnrollmentCheck struct {
	ChallengeID string `json:"challengeId"`
	CachedCount int    `json:"cachedCount"`
	LedgerCount int    `json:"ledgerCount"`
	Consistent  bool   `json:"consistent"`
}

type IntegrityReport struct {
	UserID         string            `json:"userId"`
	UserExists     bool              `json:"userExists"`
	AccountCreated time.Time         `json:"accountCreated"`
	LastUpdated    time.Time         `json:"lastUpdated"`
	Enrollments    []EnrollmentCheck `json:"enrollments"`
	Status         string            `json:"status"`
}

const (
	IntegrityHealthy      = "healthy"
	IntegrityInconsistent = "inconsistent"
)
