package verification

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/loginus-id/api/internal/application/account"
	"github.com/loginus-id/api/internal/domain"
	"github.com/loginus-id/api/internal/infrastructure/sessionstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	quickAccessPhone = "+79991234567"
	universalCode    = "123456"
)

func fixtureAccounts() []domain.UserAccount {
	return []domain.UserAccount{
		{UserID: "u1", Name: "Alice", Phone: "+79990001111", Email: "alice@example.com"},
		{UserID: "uq", Name: "Quick", Phone: quickAccessPhone, Email: "quick@example.com"},
	}
}

type env struct {
	svc   Service
	store *sessionstore.Memory
	clock *fakeClock
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newEnv(t *testing.T, bypass BypassPolicy) *env {
	t.Helper()
	store := sessionstore.NewMemory()
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewService(ServiceDeps{
		Store:    store,
		Accounts: account.NewService(fixtureAccounts()),
		Tokens:   NewOpaqueIssuer(clock.Now),
		Bypass:   bypass,
		Now:      clock.Now,
	})
	return &env{svc: svc, store: store, clock: clock}
}

func devBypass() BypassPolicy { return NewDevPolicy(universalCode, quickAccessPhone) }

func sendCode(t *testing.T, e *env, contact, typ string) *domain.SendCodeResult {
	t.Helper()
	res, err := e.svc.SendCode(context.Background(), domain.SendCodeRequest{
		Contact: contact, Type: typ, Method: "sms",
	})
	require.NoError(t, err)
	return res
}

// --- SendCode ---

func TestSendCode_ShapeAndEcho(t *testing.T) {
	e := newEnv(t, devBypass())
	res := sendCode(t, e, "+79990001111", "phone")

	assert.Equal(t, 300, res.ExpiresIn)
	assert.Equal(t, 60, res.CanResendIn)
	assert.NotEmpty(t, res.SessionID)
	assert.Regexp(t, regexp.MustCompile(`^[0-9]{6}$`), res.Code)
}

func TestSendCode_NoEchoInProduction(t *testing.T) {
	e := newEnv(t, Disabled{})
	res := sendCode(t, e, "+79990001111", "phone")
	assert.Empty(t, res.Code)
}

func TestSendCode_UniqueSessionIDs(t *testing.T) {
	e := newEnv(t, devBypass())
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		res := sendCode(t, e, "+79990001111", "phone")
		assert.False(t, seen[res.SessionID], "duplicate session id %s", res.SessionID)
		seen[res.SessionID] = true
	}
	assert.Equal(t, 20, e.store.Len())
}

func TestCheckAndSendCode_MergesAccountCheck(t *testing.T) {
	e := newEnv(t, devBypass())
	res, err := e.svc.CheckAndSendCode(context.Background(), domain.SendCodeRequest{
		Contact: "+79990001111", Type: "phone",
	})
	require.NoError(t, err)
	assert.True(t, res.Exists)
	assert.Equal(t, "u1", res.CheckAccountResult.UserID)
	assert.Equal(t, []string{"sms", "call"}, res.Methods)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, 300, res.ExpiresIn)
}

// --- VerifyCode: the plain paths ---

func TestVerifyCode_HappyPath_ExistingUser(t *testing.T) {
	e := newEnv(t, devBypass())
	sent := sendCode(t, e, "+79990001111", "phone")

	res, err := e.svc.VerifyCode(context.Background(), sent.SessionID, sent.Code)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.False(t, res.IsNewUser)
	require.NotNil(t, res.UserID)
	assert.Equal(t, "u1", *res.UserID)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)
	assert.Equal(t, res.Token, res.Tokens.AccessToken)
}

func TestVerifyCode_ConsumedExactlyOnce(t *testing.T) {
	e := newEnv(t, Disabled{})
	sent := sendCode(t, e, "alice@example.com", "email")
	// Disabled policy does not echo; read the code from the store.
	sess, err := e.store.Get(context.Background(), sent.SessionID)
	require.NoError(t, err)

	res, err := e.svc.VerifyCode(context.Background(), sent.SessionID, sess.Code)
	require.NoError(t, err)
	assert.True(t, res.Verified)

	_, err = e.svc.VerifyCode(context.Background(), sent.SessionID, sess.Code)
	fe, ok := domain.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeSessionNotFound, fe.Code)
}

func TestVerifyCode_NewUser(t *testing.T) {
	e := newEnv(t, devBypass())
	sent := sendCode(t, e, "+70001112233", "phone")

	res, err := e.svc.VerifyCode(context.Background(), sent.SessionID, sent.Code)
	require.NoError(t, err)
	assert.True(t, res.IsNewUser)
	require.NotNil(t, res.UserID)
	assert.Regexp(t, `^new_user_\d+$`, *res.UserID)
}

func TestVerifyCode_SessionNotFound(t *testing.T) {
	e := newEnv(t, Disabled{})
	_, err := e.svc.VerifyCode(context.Background(), "nonexistent", "000000")
	fe, ok := domain.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeSessionNotFound, fe.Code)
}

func TestVerifyCode_Expired(t *testing.T) {
	e := newEnv(t, devBypass())
	sent := sendCode(t, e, "+79990001111", "phone")

	e.clock.Advance(5*time.Minute + time.Second)

	_, err := e.svc.VerifyCode(context.Background(), sent.SessionID, sent.Code)
	fe, ok := domain.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeExpired, fe.Code)

	// Expiry removes the session: the next attempt is SESSION_NOT_FOUND.
	_, err = e.svc.VerifyCode(context.Background(), sent.SessionID, sent.Code)
	fe, ok = domain.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeSessionNotFound, fe.Code)
}

func TestVerifyCode_ExpiryBoundary(t *testing.T) {
	e := newEnv(t, devBypass())
	sent := sendCode(t, e, "+79990001111", "phone")

	// Exactly at expiresAt the code is still accepted (now > expiresAt fails it).
	e.clock.Advance(5 * time.Minute)

	res, err := e.svc.VerifyCode(context.Background(), sent.SessionID, sent.Code)
	require.NoError(t, err)
	assert.True(t, res.Verified)
}

func TestVerifyCode_Mismatch_RetainsSession(t *testing.T) {
	e := newEnv(t, devBypass())
	sent := sendCode(t, e, "+79990001111", "phone")

	wrong := "000000"
	if sent.Code == wrong {
		wrong = "000001"
	}
	_, err := e.svc.VerifyCode(context.Background(), sent.SessionID, wrong)
	fe, ok := domain.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInvalid, fe.Code)

	// Retry with the right code still works.
	res, err := e.svc.VerifyCode(context.Background(), sent.SessionID, sent.Code)
	require.NoError(t, err)
	assert.True(t, res.Verified)
}

// --- VerifyCode: quick-access ---

func TestVerifyCode_QuickAccess_AnyCode(t *testing.T) {
	e := newEnv(t, devBypass())
	sent := sendCode(t, e, "+7 (999) 123-45-67", "phone") // quick-access number, formatted

	res, err := e.svc.VerifyCode(context.Background(), sent.SessionID, "garbage")
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.False(t, res.IsNewUser)
	require.NotNil(t, res.UserID)
	assert.Equal(t, "uq", *res.UserID)

	// Session is consumed.
	_, err = e.svc.VerifyCode(context.Background(), sent.SessionID, "garbage")
	fe, ok := domain.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeSessionNotFound, fe.Code)
}

func TestVerifyCode_QuickAccess_DisabledInProduction(t *testing.T) {
	e := newEnv(t, Disabled{})
	sent := sendCode(t, e, quickAccessPhone, "phone")

	_, err := e.svc.VerifyCode(context.Background(), sent.SessionID, "garbage")
	fe, ok := domain.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInvalid, fe.Code)
}

// --- VerifyCode: universal code ---

func TestVerifyCode_Universal_NamedSession(t *testing.T) {
	e := newEnv(t, devBypass())
	sent := sendCode(t, e, "+79990001111", "phone")

	res, err := e.svc.VerifyCode(context.Background(), sent.SessionID, universalCode)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	require.NotNil(t, res.UserID)
	assert.Equal(t, "u1", *res.UserID)
	assert.Equal(t, 0, e.store.Len())
}

func TestVerifyCode_Universal_FallbackToUnexpiredSession(t *testing.T) {
	e := newEnv(t, devBypass())
	expired := sendCode(t, e, "+70000000001", "phone")
	_ = expired
	e.clock.Advance(5*time.Minute + time.Second)
	live := sendCode(t, e, "+79990001111", "phone")
	_ = live

	res, err := e.svc.VerifyCode(context.Background(), "nonexistent", universalCode)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	require.NotNil(t, res.UserID)
	// The expired session is skipped; the live one (known account) is consumed.
	assert.Equal(t, "u1", *res.UserID)
	assert.Equal(t, 1, e.store.Len()) // only the expired one remains
}

func TestVerifyCode_Universal_SyntheticContact(t *testing.T) {
	e := newEnv(t, devBypass())

	res, err := e.svc.VerifyCode(context.Background(), "nonexistent", universalCode)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.True(t, res.IsNewUser)
	require.NotNil(t, res.UserID)
	assert.Regexp(t, `^new_user_\d+$`, *res.UserID)
}

func TestVerifyCode_Universal_DisabledInProduction(t *testing.T) {
	e := newEnv(t, Disabled{})
	_, err := e.svc.VerifyCode(context.Background(), "nonexistent", universalCode)
	fe, ok := domain.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeSessionNotFound, fe.Code)
}

// --- precedence ---

func TestVerifyCode_QuickAccessBeatsUniversalCode(t *testing.T) {
	e := newEnv(t, devBypass())
	sent := sendCode(t, e, quickAccessPhone, "phone")

	// Universal code submitted for a quick-access session: rule 1 wins and
	// the result is the quick-access account, not a fallback scan.
	res, err := e.svc.VerifyCode(context.Background(), sent.SessionID, universalCode)
	require.NoError(t, err)
	require.NotNil(t, res.UserID)
	assert.Equal(t, "uq", *res.UserID)
}
