package handler

import (
	"encoding/json"
	"net/http"

	"github.com/loginus-id/api/internal/application/account"
	"github.com/loginus-id/api/internal/application/verification"
	"github.com/loginus-id/api/internal/domain"
	"github.com/loginus-id/api/internal/pkg/validate"
)

// AuthHandler handles the verification-code authentication endpoints.
type AuthHandler struct {
	verifier verification.Service
	accounts account.Service
}

func NewAuthHandler(verifier verification.Service, accounts account.Service) *AuthHandler {
	return &AuthHandler{verifier: verifier, accounts: accounts}
}

func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req domain.SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.verifier.SendCode(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func (h *AuthHandler) CheckAndSendCode(w http.ResponseWriter, r *http.Request) {
	var req domain.SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.verifier.CheckAndSendCode(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.verifier.VerifyCode(r.Context(), req.SessionID, req.Code)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	writeData(w, http.StatusOK, h.accounts.Check(req.Contact, domain.ContactType(req.Type)))
}
