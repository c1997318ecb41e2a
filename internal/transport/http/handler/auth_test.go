package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/loginus-id/api/internal/application/verification"
	"github.com/loginus-id/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockVerifySvc struct{ mock.Mock }

func (m *mockVerifySvc) SendCode(ctx context.Context, req domain.SendCodeRequest) (*domain.SendCodeResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*domain.SendCodeResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVerifySvc) CheckAndSendCode(ctx context.Context, req domain.SendCodeRequest) (*verification.CheckAndSendResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*verification.CheckAndSendResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVerifySvc) VerifyCode(ctx context.Context, sessionID, code string) (*domain.VerifyCodeResult, error) {
	args := m.Called(ctx, sessionID, code)
	if r, _ := args.Get(0).(*domain.VerifyCodeResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type stubAccountSvc struct {
	result *domain.CheckAccountResult
}

func (s *stubAccountSvc) Check(string, domain.ContactType) *domain.CheckAccountResult {
	return s.result
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

// --- SendCode ---

func TestSendCode_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockVerifySvc{}, &stubAccountSvc{})
	r := httptest.NewRequest(http.MethodPost, "/auth/send-code", bytes.NewBufferString("not-json"))
	rr := httptest.NewRecorder()
	h.SendCode(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSendCode_ValidationFailure(t *testing.T) {
	h := NewAuthHandler(&mockVerifySvc{}, &stubAccountSvc{})
	body, _ := json.Marshal(domain.SendCodeRequest{Contact: "+79990001111"}) // missing type/method
	r := httptest.NewRequest(http.MethodPost, "/auth/send-code", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.SendCode(rr, r)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestSendCode_HappyPath(t *testing.T) {
	svc := &mockVerifySvc{}
	svc.On("SendCode", mock.Anything, mock.Anything).Return(&domain.SendCodeResult{
		SessionID:   "1700000000000-01ABC",
		ExpiresIn:   300,
		CanResendIn: 60,
		Code:        "482913",
	}, nil)
	h := NewAuthHandler(svc, &stubAccountSvc{})

	body, _ := json.Marshal(domain.SendCodeRequest{
		Contact: "+79990001111", Type: "phone", Method: "sms",
	})
	r := httptest.NewRequest(http.MethodPost, "/auth/send-code", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.SendCode(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.True(t, env.Success)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, "1700000000000-01ABC", data["sessionId"])
	assert.Equal(t, float64(300), data["expiresIn"])
	svc.AssertExpectations(t)
}

// --- CheckAndSendCode ---

func TestCheckAndSendCode_MergesBothResults(t *testing.T) {
	svc := &mockVerifySvc{}
	svc.On("CheckAndSendCode", mock.Anything, mock.Anything).Return(&verification.CheckAndSendResult{
		CheckAccountResult: domain.CheckAccountResult{Exists: true, UserID: "user_1", Methods: []string{"sms", "call"}},
		SendCodeResult:     domain.SendCodeResult{SessionID: "sid", ExpiresIn: 300, CanResendIn: 60},
	}, nil)
	h := NewAuthHandler(svc, &stubAccountSvc{})

	body, _ := json.Marshal(domain.SendCodeRequest{Contact: "+79990001111", Type: "phone", Method: "sms"})
	r := httptest.NewRequest(http.MethodPost, "/auth/check-and-send-code", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.CheckAndSendCode(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	require.True(t, env.Success)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, true, data["exists"])
	assert.Equal(t, "sid", data["sessionId"])
	svc.AssertExpectations(t)
}

// --- VerifyCode ---

func TestVerifyCode_FlowErrorIsHTTP200(t *testing.T) {
	svc := &mockVerifySvc{}
	svc.On("VerifyCode", mock.Anything, "missing", "123456").
		Return(nil, domain.NewFlowError(domain.CodeSessionNotFound, "session not found or expired"))
	h := NewAuthHandler(svc, &stubAccountSvc{})

	body, _ := json.Marshal(domain.VerifyCodeRequest{SessionID: "missing", Code: "123456"})
	r := httptest.NewRequest(http.MethodPost, "/auth/verify-code", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.VerifyCode(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.False(t, env.Success)
	assert.Equal(t, domain.CodeSessionNotFound, env.Error)
	svc.AssertExpectations(t)
}

func TestVerifyCode_HappyPath(t *testing.T) {
	uid := "user_1"
	svc := &mockVerifySvc{}
	svc.On("VerifyCode", mock.Anything, "sid", "482913").Return(&domain.VerifyCodeResult{
		Verified:  true,
		Token:     "access_1700000000_deadbeef",
		UserID:    &uid,
		IsNewUser: false,
		Tokens: domain.TokenPair{
			AccessToken:  "access_1700000000_deadbeef",
			RefreshToken: "refresh-token",
		},
	}, nil)
	h := NewAuthHandler(svc, &stubAccountSvc{})

	body, _ := json.Marshal(domain.VerifyCodeRequest{SessionID: "sid", Code: "482913"})
	r := httptest.NewRequest(http.MethodPost, "/auth/verify-code", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.VerifyCode(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	require.True(t, env.Success)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, true, data["verified"])
	assert.Equal(t, "user_1", data["userId"])
	svc.AssertExpectations(t)
}

func TestVerifyCode_InfraErrorIs500(t *testing.T) {
	svc := &mockVerifySvc{}
	svc.On("VerifyCode", mock.Anything, "sid", "482913").Return(nil, assert.AnError)
	h := NewAuthHandler(svc, &stubAccountSvc{})

	body, _ := json.Marshal(domain.VerifyCodeRequest{SessionID: "sid", Code: "482913"})
	r := httptest.NewRequest(http.MethodPost, "/auth/verify-code", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.VerifyCode(rr, r)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.False(t, env.Success)
	assert.Equal(t, "INTERNAL", env.Error)
}

// --- Check ---

func TestCheck_ExistingAccount(t *testing.T) {
	accounts := &stubAccountSvc{result: &domain.CheckAccountResult{
		Exists: true, UserID: "user_1", Methods: []string{"sms", "call"},
	}}
	h := NewAuthHandler(&mockVerifySvc{}, accounts)

	body, _ := json.Marshal(domain.CheckAccountRequest{Contact: "+79990001111", Type: "phone"})
	r := httptest.NewRequest(http.MethodPost, "/auth/check", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Check(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	require.True(t, env.Success)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, true, data["exists"])
	assert.Equal(t, "user_1", data["userId"])
}

func TestCheck_ValidationFailure(t *testing.T) {
	h := NewAuthHandler(&mockVerifySvc{}, &stubAccountSvc{})
	body, _ := json.Marshal(domain.CheckAccountRequest{Contact: "+79990001111", Type: "pager"})
	r := httptest.NewRequest(http.MethodPost, "/auth/check", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Check(rr, r)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
