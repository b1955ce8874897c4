package usecase

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"zenmindful/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUsers struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	ensured int
	err     error
	// beforeEnsure runs under the lock ahead of the collision check.
	beforeEnsure func()
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*domain.User{}}
}

// Ensure mirrors the repository: the identity fields are checked for
// collisions before anything is written.
func (f *fakeUsers) Ensure(_ context.Context, id string, ident domain.Identity) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.beforeEnsure != nil {
		f.beforeEnsure()
	}
	for other, u := range f.users {
		if other == id {
			continue
		}
		if ident.Email != "" && u.Email != nil && *u.Email == ident.Email {
			return false, domain.ErrIdentifierTaken
		}
		if ident.PhoneNumber != "" && u.PhoneNumber != nil && *u.PhoneNumber == ident.PhoneNumber {
			return false, domain.ErrIdentifierTaken
		}
	}

	f.ensured++
	now := time.Now()
	u, ok := f.users[id]
	if ok {
		u.UpdatedAt = now
	} else {
		u = &domain.User{ID: id, FirstName: "New User", PreferredLanguage: "en", CreatedAt: now, UpdatedAt: now}
		f.users[id] = u
	}
	if ident.Email != "" {
		e := ident.Email
		u.Email = &e
	}
	if ident.PhoneNumber != "" {
		p := ident.PhoneNumber
		u.PhoneNumber = &p
	}
	if ident.FirstName != "" {
		u.FirstName = ident.FirstName
	}
	if ident.LastName != "" {
		u.LastName = ident.LastName
	}
	return !ok, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.PhoneNumber != nil && *u.PhoneNumber == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id string, p domain.ProfileUpdate) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name, u.Age, u.WellnessGoals = p.Name, p.Age, p.WellnessGoals
	u.PreferredTime, u.Motivation = p.PreferredTime, p.Motivation
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeSessions struct {
	mu   sync.Mutex
	m    map[string]string
	err  error
	save int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{m: map[string]string{}}
}

func (f *fakeSessions) Save(_ context.Context, token, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.save++
	f.m[token] = userID
	return nil
}

func (f *fakeSessions) Get(_ context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	id, ok := f.m[token]
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	return id, nil
}

func (f *fakeSessions) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, token)
	return nil
}

type fakeOTPs struct {
	m map[string]string
}

func (f *fakeOTPs) Put(_ context.Context, phone, hash string) error {
	f.m[phone] = hash
	return nil
}

func (f *fakeOTPs) Take(_ context.Context, phone string) (string, error) {
	h, ok := f.m[phone]
	if !ok {
		return "", domain.ErrInvalidCode
	}
	delete(f.m, phone)
	return h, nil
}

// plainCodes stores codes reversibly so tests can read what was sent.
type plainCodes struct{ next string }

func (p plainCodes) Generate() (string, error) { return p.next, nil }
func (plainCodes) Hash(code string) (string, error) { return "h:" + code, nil }
func (plainCodes) Compare(hash, code string) bool { return hash == "h:"+code }

type recordingSender struct {
	sent map[string]string
}

func (s *recordingSender) SendCode(_ context.Context, phone, code string) error {
	s.sent[phone] = code
	return nil
}

type fakeVerifier struct {
	subject string
	ident   domain.Identity
	err     error
}

func (v fakeVerifier) Identify(string) (string, domain.Identity, error) {
	return v.subject, v.ident, v.err
}

type enrollmentKey struct{ user, challenge string }

type fakeChallenges struct {
	mu          sync.Mutex
	enrollments map[enrollmentKey]*domain.Enrollment
	order       []enrollmentKey
	// ledger[user][challenge][date] = completed
	ledger map[string]map[string]map[string]bool
}

func newFakeChallenges() *fakeChallenges {
	return &fakeChallenges{
		enrollments: map[enrollmentKey]*domain.Enrollment{},
		ledger:      map[string]map[string]map[string]bool{},
	}
}

func (f *fakeChallenges) Enroll(_ context.Context, userID, challengeID string, now time.Time) (*domain.Enrollment, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := enrollmentKey{userID, challengeID}
	if e, ok := f.enrollments[k]; ok {
		e.LastActivityDate = now
		cp := *e
		return &cp, false, nil
	}
	e := &domain.Enrollment{UserID: userID, ChallengeID: challengeID, StartDate: now, LastActivityDate: now}
	f.enrollments[k] = e
	f.order = append(f.order, k)
	cp := *e
	return &cp, true, nil
}

func (f *fakeChallenges) GetEnrollment(_ context.Context, userID, challengeID string) (*domain.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.enrollments[enrollmentKey{userID, challengeID}]
	if !ok {
		return nil, domain.ErrNotEnrolled
	}
	cp := *e
	return &cp, nil
}

func (f *fakeChallenges) ListEnrollments(_ context.Context, userID string) ([]domain.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Enrollment
	for _, k := range f.order {
		if k.user == userID {
			out = append(out, *f.enrollments[k])
		}
	}
	return out, nil
}

func (f *fakeChallenges) RecordDay(_ context.Context, fact domain.DayFact, now time.Time) (domain.LedgerSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.enrollments[enrollmentKey{fact.UserID, fact.ChallengeID}]
	if !ok {
		return domain.LedgerSummary{}, domain.ErrNotEnrolled
	}
	if !fact.Completed {
		return f.summary(fact.UserID, fact.ChallengeID), nil
	}
	if f.ledger[fact.UserID] == nil {
		f.ledger[fact.UserID] = map[string]map[string]bool{}
	}
	if f.ledger[fact.UserID][fact.ChallengeID] == nil {
		f.ledger[fact.UserID][fact.ChallengeID] = map[string]bool{}
	}
	f.ledger[fact.UserID][fact.ChallengeID][fact.Date] = true

	sum := f.summary(fact.UserID, fact.ChallengeID)
	e.CompletedCount = sum.CompletedDays
	e.LastActivityDate = now
	return sum, nil
}

func (f *fakeChallenges) ListDays(_ context.Context, userID string) ([]domain.DayFact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.ledger[userID]))
	for id := range f.ledger[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []domain.DayFact
	for _, id := range ids {
		for _, d := range f.dates(userID, id) {
			out = append(out, domain.DayFact{ChallengeID: id, UserID: userID, Date: d, Completed: true})
		}
	}
	return out, nil
}

func (f *fakeChallenges) dates(userID, challengeID string) []string {
	var out []string
	for d, ok := range f.ledger[userID][challengeID] {
		if ok {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

func (f *fakeChallenges) summary(userID, challengeID string) domain.LedgerSummary {
	dates := f.dates(userID, challengeID)
	s := domain.LedgerSummary{ChallengeID: challengeID, CompletedDays: len(dates), CompletedDates: dates}
	if len(dates) > 0 {
		s.LastCompleted = dates[len(dates)-1]
	}
	return s
}

func (f *fakeChallenges) Summary(_ context.Context, userID, challengeID string) (domain.LedgerSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summary(userID, challengeID), nil
}

func (f *fakeChallenges) Summaries(_ context.Context, userID string) (map[string]domain.LedgerSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]domain.LedgerSummary{}
	for id := range f.ledger[userID] {
		if s := f.summary(userID, id); s.CompletedDays > 0 {
			out[id] = s
		}
	}
	return out, nil
}

type countingObserver struct {
	mu          sync.Mutex
	resolutions map[string]int
	completions int
	generations map[string]bool
}

func newCountingObserver() *countingObserver {
	return &countingObserver{resolutions: map[string]int{}, generations: map[string]bool{}}
}

func (o *countingObserver) Resolution(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resolutions[outcome]++
}

func (o *countingObserver) Completion(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completions++
}

func (o *countingObserver) Enrollment(string, bool) {}

func (o *countingObserver) Generation(kind string, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generations[kind] = ok
}
