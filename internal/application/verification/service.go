package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/loginus-id/api/internal/application/account"
	"github.com/loginus-id/api/internal/domain"
	"github.com/loginus-id/api/internal/infrastructure/sessionstore"
	"github.com/loginus-id/api/internal/infrastructure/smtp"
	"github.com/loginus-id/api/internal/infrastructure/sns"
	"github.com/loginus-id/api/internal/pkg/id"
)

// SyntheticContact is the contact fabricated by the dev-mode universal
// code when no session exists at all.
const SyntheticContact = "mock@dev.local"

// CheckAndSendResult merges the account check with the send-code result,
// so the frontend needs a single round trip on the login screen.
type CheckAndSendResult struct {
	domain.CheckAccountResult
	domain.SendCodeResult
}

type Service interface {
	SendCode(ctx context.Context, req domain.SendCodeRequest) (*domain.SendCodeResult, error)
	CheckAndSendCode(ctx context.Context, req domain.SendCodeRequest) (*CheckAndSendResult, error)
	// VerifyCode returns a *domain.FlowError for every expected failure
	// (unknown session, expired code, wrong code); other errors are
	// infrastructure failures.
	VerifyCode(ctx context.Context, sessionID, code string) (*domain.VerifyCodeResult, error)
}

// ServiceDeps bundles the collaborators of the verification flow.
// SMSSender and Mailer may be nil; delivery then degrades to a log line
// (the flow itself never depends on dispatch succeeding).
type ServiceDeps struct {
	Store          sessionstore.Store
	Accounts       account.Service
	Tokens         TokenIssuer
	Bypass         BypassPolicy
	SMSSender      sns.SMSSender
	Mailer         smtp.Mailer
	CodeTTL        time.Duration
	ResendCooldown time.Duration
	// Now is the injected clock; defaults to time.Now.
	Now func() time.Time
}

type service struct {
	store          sessionstore.Store
	accounts       account.Service
	tokens         TokenIssuer
	bypass         BypassPolicy
	smsSender      sns.SMSSender
	mailer         smtp.Mailer
	codeTTL        time.Duration
	resendCooldown time.Duration
	now            func() time.Time
}

func NewService(deps ServiceDeps) Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Bypass == nil {
		deps.Bypass = Disabled{}
	}
	if deps.CodeTTL <= 0 {
		deps.CodeTTL = 5 * time.Minute
	}
	if deps.ResendCooldown <= 0 {
		deps.ResendCooldown = time.Minute
	}
	return &service{
		store:          deps.Store,
		accounts:       deps.Accounts,
		tokens:         deps.Tokens,
		bypass:         deps.Bypass,
		smsSender:      deps.SMSSender,
		mailer:         deps.Mailer,
		codeTTL:        deps.CodeTTL,
		resendCooldown: deps.ResendCooldown,
		now:            deps.Now,
	}
}

func (s *service) SendCode(ctx context.Context, req domain.SendCodeRequest) (*domain.SendCodeResult, error) {
	now := s.now()
	code, err := newCode()
	if err != nil {
		return nil, err
	}

	sessionID, err := s.newSessionID(ctx, now)
	if err != nil {
		return nil, err
	}

	sess := &domain.VerificationSession{
		SessionID:   sessionID,
		Code:        code,
		Contact:     req.Contact,
		ContactType: domain.ContactType(req.Type),
		ExpiresAt:   now.Add(s.codeTTL).Unix(),
	}
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.deliver(ctx, sess, req.Method)

	res := &domain.SendCodeResult{
		SessionID:   sessionID,
		ExpiresIn:   int(s.codeTTL.Seconds()),
		CanResendIn: int(s.resendCooldown.Seconds()),
	}
	if s.bypass.EchoCode() {
		res.Code = code
	}
	return res, nil
}

func (s *service) CheckAndSendCode(ctx context.Context, req domain.SendCodeRequest) (*CheckAndSendResult, error) {
	check := s.accounts.Check(req.Contact, domain.ContactType(req.Type))
	if req.Method == "" {
		req.Method = check.Methods[0]
	}
	sent, err := s.SendCode(ctx, req)
	if err != nil {
		return nil, err
	}
	return &CheckAndSendResult{CheckAccountResult: *check, SendCodeResult: *sent}, nil
}

func (s *service) VerifyCode(ctx context.Context, sessionID, code string) (*domain.VerifyCodeResult, error) {
	now := s.now()

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// Rule order matters: each rule short-circuits everything after it.

	// 1. Quick-access phone: code is not checked at all.
	if sess != nil && s.bypass.QuickAccess(sess.Contact) {
		if err := s.store.Delete(ctx, sessionID); err != nil {
			return nil, err
		}
		return s.succeedExisting(sess.Contact, sess.ContactType)
	}

	// 2. Universal code: consume the named session, else the first
	// unexpired one, else fabricate a synthetic contact.
	if s.bypass.UniversalCode(code) {
		if sess != nil {
			if err := s.store.Delete(ctx, sessionID); err != nil {
				return nil, err
			}
			return s.succeed(sess.Contact, sess.ContactType)
		}
		if fallback, ferr := s.firstUnexpired(ctx, now); ferr != nil {
			return nil, ferr
		} else if fallback != nil {
			if err := s.store.Delete(ctx, fallback.SessionID); err != nil {
				return nil, err
			}
			return s.succeed(fallback.Contact, fallback.ContactType)
		}
		return s.succeed(SyntheticContact, domain.ContactEmail)
	}

	// 3. No session and no shortcut applied.
	if sess == nil {
		return nil, domain.NewFlowError(domain.CodeSessionNotFound, "Session not found or already used")
	}

	// 4. Expired sessions are reaped on detection.
	if sess.Expired(now) {
		if err := s.store.Delete(ctx, sessionID); err != nil {
			return nil, err
		}
		return nil, domain.NewFlowError(domain.CodeExpired, "Verification code expired, request a new one")
	}

	// 5. Wrong code: the session stays, the user may retry until expiry.
	if sess.Code != code {
		return nil, domain.NewFlowError(domain.CodeInvalid, "Invalid verification code")
	}

	// 6. Success: one-time consumption.
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.succeed(sess.Contact, sess.ContactType)
}

// succeed resolves the contact against the account fixture and issues tokens.
func (s *service) succeed(contactValue string, typ domain.ContactType) (*domain.VerifyCodeResult, error) {
	check := s.accounts.Check(contactValue, typ)
	userID := check.UserID
	if !check.Exists {
		userID = fmt.Sprintf("new_user_%d", s.now().Unix())
	}
	return s.issue(userID, contactValue, !check.Exists)
}

// succeedExisting is the quick-access variant: the privileged contact is
// always treated as an existing user.
func (s *service) succeedExisting(contactValue string, typ domain.ContactType) (*domain.VerifyCodeResult, error) {
	check := s.accounts.Check(contactValue, typ)
	userID := check.UserID
	if userID == "" {
		userID = "quick_access_user"
	}
	return s.issue(userID, contactValue, false)
}

func (s *service) issue(userID, contactValue string, isNewUser bool) (*domain.VerifyCodeResult, error) {
	pair, err := s.tokens.Issue(userID, contactValue)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &domain.VerifyCodeResult{
		Verified:  true,
		Token:     pair.AccessToken,
		UserID:    &userID,
		IsNewUser: isNewUser,
		Tokens:    pair,
	}, nil
}

// firstUnexpired scans the store for the oldest session still within its
// TTL. Used only by the dev-mode universal-code fallback.
func (s *service) firstUnexpired(ctx context.Context, now time.Time) (*domain.VerificationSession, error) {
	entries, err := s.store.Entries(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !e.Expired(now) {
			return e, nil
		}
	}
	return nil, nil
}

func (s *service) deliver(ctx context.Context, sess *domain.VerificationSession, method string) {
	msg := "Your Loginus ID verification code: " + sess.Code

	switch {
	case sess.ContactType == domain.ContactEmail:
		if s.mailer == nil {
			slog.Debug("mailer not configured, skipping email delivery", "session_id", sess.SessionID)
			return
		}
		if err := s.mailer.SendEmail(sess.Contact, "Your verification code", msg); err != nil {
			slog.Warn("email delivery failed", "session_id", sess.SessionID, "err", err)
		}
	case method == domain.MethodSMS:
		if s.smsSender == nil {
			slog.Debug("SMS sender not configured, skipping delivery", "session_id", sess.SessionID)
			return
		}
		if err := s.smsSender.SendSMS(ctx, sess.Contact, msg); err != nil {
			slog.Warn("SMS delivery failed", "session_id", sess.SessionID, "err", err)
		}
	default:
		// call and telegram delivery are not implemented.
		slog.Debug("delivery method not implemented", "method", method, "session_id", sess.SessionID)
	}
}

// newSessionID retries until the generated id is absent from the store.
// Collisions are practically impossible but the contract promises the id
// is not already present at call time.
func (s *service) newSessionID(ctx context.Context, now time.Time) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		candidate := id.NewSession(now)
		_, err := s.store.Get(ctx, candidate)
		if errors.Is(err, domain.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not generate a unique session id")
}

// newCode draws a uniformly random 6-digit code in [100000, 999999].
func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
