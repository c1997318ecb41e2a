package domain

// WebAuthnChallenge is a short-lived, single-use registration/login
// challenge. Only the challenge lifecycle is real; attestation parsing is
// stubbed.
type WebAuthnChallenge struct {
	ChallengeID string      `json:"challengeId"`
	Challenge   string      `json:"challenge"`
	Contact     string      `json:"contact"`
	ContactType ContactType `json:"contact_type"`
	ExpiresAt   int64       `json:"expires_at"`
}

type WebAuthnBeginRequest struct {
	Contact string `json:"contact" validate:"required"`
	Type    string `json:"type" validate:"required,oneof=phone email"`
}

type WebAuthnFinishRequest struct {
	ChallengeID string `json:"challengeId" validate:"required"`
	Response    string `json:"response" validate:"required"`
}
