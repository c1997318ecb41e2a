package domain

import "time"

// ContactType discriminates how a contact value is interpreted and normalized.
type ContactType string

const (
	ContactPhone ContactType = "phone"
	ContactEmail ContactType = "email"
)

// Delivery methods for verification codes.
const (
	MethodSMS      = "sms"
	MethodCall     = "call"
	MethodTelegram = "telegram"
)

// VerificationSession binds a one-time code to a contact.
// PK: session_id. ExpiresAt is a Unix timestamp used as DynamoDB TTL when
// the dynamo backend is selected. Sessions are immutable once created;
// they are removed on successful verification or on expiry detection.
// There is no background sweep — expired entries are reaped lazily.
type VerificationSession struct {
	SessionID   string      `json:"session_id" dynamodbav:"session_id"`
	Code        string      `json:"code" dynamodbav:"code"`
	Contact     string      `json:"contact" dynamodbav:"contact"`
	ContactType ContactType `json:"contact_type" dynamodbav:"contact_type"`
	ExpiresAt   int64       `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// Expired reports whether the session's code is no longer valid at now.
func (s *VerificationSession) Expired(now time.Time) bool {
	return now.Unix() > s.ExpiresAt
}

type SendCodeRequest struct {
	Contact string `json:"contact" validate:"required"`
	Type    string `json:"type" validate:"required,oneof=phone email"`
	Method  string `json:"method" validate:"omitempty,oneof=sms call telegram"`
}

type SendCodeResult struct {
	SessionID   string `json:"sessionId"`
	ExpiresIn   int    `json:"expiresIn"`
	CanResendIn int    `json:"canResendIn"`
	// Code is echoed only outside production, as a test convenience.
	Code string `json:"code,omitempty"`
}

type VerifyCodeRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Code      string `json:"code" validate:"required"`
}

// TokenPair is the access/refresh pair issued on successful verification.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type VerifyCodeResult struct {
	Verified  bool      `json:"verified"`
	Token     string    `json:"token"`
	UserID    *string   `json:"userId"`
	IsNewUser bool      `json:"isNewUser"`
	Tokens    TokenPair `json:"tokens"`
}
