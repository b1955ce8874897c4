package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"zenmindful/internal/domain"

	"github.com/google/uuid"
)

const maxUserIDLen = 191

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// Resolution is the outcome of resolving a request's identity.
type Resolution struct {
	UserID string
	// Token is the session bound to UserID after the call.
	Token string
	// Issued is set when Token is new and must be handed back to the client.
	Issued bool
}

// Session is the result of an explicit login or reconciliation.
type Session struct {
	User        *domain.User
	Token       string
	IsReturning bool
}

type IdentityUseCase struct {
	users    UserRepository
	sessions SessionStore
	otps     OTPStore
	codes    CodeHasher
	sender   CodeSender
	verifier IdentityVerifier
	log      *slog.Logger
	obs      Observer
}

func NewIdentityUseCase(
	users UserRepository,
	sessions SessionStore,
	otps OTPStore,
	codes CodeHasher,
	sender CodeSender,
	verifier IdentityVerifier,
	log *slog.Logger,
	obs Observer,
) *IdentityUseCase {
	if obs == nil {
		obs = nopObserver{}
	}
	return &IdentityUseCase{
		users:    users,
		sessions: sessions,
		otps:     otps,
		codes:    codes,
		sender:   sender,
		verifier: verifier,
		log:      log,
		obs:      obs,
	}
}

// Resolve picks the canonical user for a request. A live session wins over
// the out-of-band id; the out-of-band id is only adopted when no session is
// bound, and it is then bound to a fresh token. The chosen user is upserted
// before anything is bound so later foreign-key writes cannot fail.
func (uc *IdentityUseCase) Resolve(ctx context.Context, token, headerUserID string) (Resolution, error) {
	if token != "" {
		id, err := uc.sessions.Get(ctx, token)
		switch {
		case err == nil:
			if _, err := uc.users.Ensure(ctx, id, domain.Identity{}); err != nil {
				uc.obs.Resolution("error")
				return Resolution{}, err
			}
			uc.obs.Resolution("session")
			if headerUserID != "" && headerUserID != id {
				uc.log.Debug("out-of-band user id ignored for bound session", "session_user", id, "header_user", headerUserID)
			}
			return Resolution{UserID: id, Token: token}, nil
		case !errors.Is(err, domain.ErrSessionNotFound):
			uc.obs.Resolution("error")
			return Resolution{}, err
		}
	}

	headerUserID = strings.TrimSpace(headerUserID)
	if headerUserID == "" {
		uc.obs.Resolution("unauthenticated")
		return Resolution{}, domain.ErrUnauthenticated
	}
	if len(headerUserID) > maxUserIDLen {
		uc.obs.Resolution("unauthenticated")
		return Resolution{}, domain.ErrUnauthenticated
	}

	if _, err := uc.users.Ensure(ctx, headerUserID, domain.Identity{}); err != nil {
		uc.obs.Resolution("error")
		return Resolution{}, err
	}
	newToken, err := uc.bind(ctx, headerUserID)
	if err != nil {
		uc.obs.Resolution("error")
		return Resolution{}, err
	}
	uc.obs.Resolution("header")
	return Resolution{UserID: headerUserID, Token: newToken, Issued: true}, nil
}

// Reconcile switches the caller to the asserted user. It reports whether the
// user existed before the call and always replaces the old session.
func (uc *IdentityUseCase) Reconcile(ctx context.Context, oldToken, userID string) (*Session, error) {
	return uc.establish(ctx, oldToken, userID, domain.Identity{})
}

// establish stores the user with ident and only then rotates the session,
// so a rejected identity leaves the caller's current session alone.
func (uc *IdentityUseCase) establish(ctx context.Context, oldToken, userID string, ident domain.Identity) (*Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || len(userID) > maxUserIDLen {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	created, err := uc.users.Ensure(ctx, userID, ident)
	if err != nil {
		return nil, err
	}

	token, err := uc.bind(ctx, userID)
	if err != nil {
		return nil, err
	}
	if oldToken != "" && oldToken != token {
		if err := uc.sessions.Delete(ctx, oldToken); err != nil {
			uc.log.Warn("failed to drop previous session", "error", err)
		}
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	uc.log.Info("session reconciled", "user_id", userID, "returning", !created)
	return &Session{User: user, Token: token, IsReturning: !created}, nil
}

// QuickStart creates a brand new user and binds it. This is the only
// entry point that invents an identifier.
func (uc *IdentityUseCase) QuickStart(ctx context.Context, oldToken string) (*Session, error) {
	return uc.Reconcile(ctx, oldToken, newUserID())
}

func newUserID() string {
	return "user_" + uuid.NewString()
}

// SyncFederated logs in with an ID token from the federated provider. The
// token subject becomes the canonical id.
func (uc *IdentityUseCase) SyncFederated(ctx context.Context, oldToken, idToken string, profile domain.Identity) (*Session, error) {
	if uc.verifier == nil {
		return nil, domain.ErrUnauthenticated
	}
	subject, claims, err := uc.verifier.Identify(idToken)
	if err != nil {
		uc.log.Warn("federated token rejected", "error", err)
		return nil, domain.ErrUnauthenticated
	}

	// token claims are authoritative for the alternate keys
	profile.Email = strings.ToLower(strings.TrimSpace(claims.Email))
	profile.PhoneNumber = ""
	if claims.PhoneNumber != "" {
		phone, err := normalizePhone(claims.PhoneNumber)
		if err != nil {
			uc.log.Warn("ignoring malformed phone claim", "subject", subject)
		} else {
			profile.PhoneNumber = phone
		}
	}

	return uc.establish(ctx, oldToken, subject, profile)
}

func (uc *IdentityUseCase) SendOTP(ctx context.Context, phone string) error {
	phone, err := normalizePhone(phone)
	if err != nil {
		return err
	}

	code, err := uc.codes.Generate()
	if err != nil {
		return err
	}
	hash, err := uc.codes.Hash(code)
	if err != nil {
		return err
	}
	if err := uc.otps.Put(ctx, phone, hash); err != nil {
		return err
	}
	return uc.sender.SendCode(ctx, phone, code)
}

// VerifyOTP consumes the pending code for phone and logs in the user owning
// that number, creating one when the number is new.
func (uc *IdentityUseCase) VerifyOTP(ctx context.Context, oldToken, phone, code string) (*Session, error) {
	phone, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}

	hash, err := uc.otps.Take(ctx, phone)
	if err != nil {
		return nil, err
	}
	if !uc.codes.Compare(hash, strings.TrimSpace(code)) {
		return nil, domain.ErrInvalidCode
	}

	user, err := uc.users.GetByPhone(ctx, phone)
	switch {
	case err == nil:
		return uc.Reconcile(ctx, oldToken, user.ID)
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	return uc.establish(ctx, oldToken, newUserID(), domain.Identity{PhoneNumber: phone})
}

func (uc *IdentityUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return uc.sessions.Delete(ctx, token)
}

// Reset deletes the user with all challenge data and drops the session.
func (uc *IdentityUseCase) Reset(ctx context.Context, userID, token string) error {
	if err := uc.users.Delete(ctx, userID); err != nil {
		return err
	}
	uc.log.Info("user reset", "user_id", userID)
	return uc.Logout(ctx, token)
}

func (uc *IdentityUseCase) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

func (uc *IdentityUseCase) CompleteOnboarding(ctx context.Context, userID string, p domain.ProfileUpdate) (*domain.User, error) {
	p.Name = strings.TrimSpace(p.Name)
	goals := make([]string, 0, len(p.WellnessGoals))
	for _, g := range p.WellnessGoals {
		if g = strings.TrimSpace(g); g != "" {
			goals = append(goals, g)
		}
	}
	p.WellnessGoals = goals

	if p.Age == "" || len(p.WellnessGoals) == 0 || p.PreferredTime == "" || p.Motivation == "" {
		return nil, fmt.Errorf("%w: age, wellness goals, preferred time and motivation are required", domain.ErrInvalidInput)
	}
	return uc.users.UpdateProfile(ctx, userID, p)
}

func (uc *IdentityUseCase) bind(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := uc.sessions.Save(ctx, token, userID); err != nil {
		return "", err
	}
	return token, nil
}

func normalizePhone(phone string) (string, error) {
	phone = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	if !phonePattern.MatchString(phone) {
		return "", fmt.Errorf("%w: phone number", domain.ErrInvalidInput)
	}
	return phone, nil
}
