package domain

import "time"

// Flow names for auth method descriptors.
const (
	FlowLogin        = "login"
	FlowRegistration = "registration"
	FlowFactors      = "factors"
)

// MethodDescriptor describes one authentication method shown to users.
// Order is for display sequencing only and is not enforced contiguous.
type MethodDescriptor struct {
	ID        string `json:"id" validate:"required"`
	Icon      string `json:"icon"`
	Type      string `json:"type" validate:"required,oneof=primary oauth alternative"`
	Flow      string `json:"flow" validate:"required,oneof=login registration factors"`
	Enabled   bool   `json:"enabled"`
	IsPrimary bool   `json:"isPrimary"`
	Order     int    `json:"order"`
}

// AuthFlowConfig is the full persisted configuration: three ordered method
// lists plus the last update stamp. It is overwritten wholesale on update;
// there is no partial patch at the data layer.
type AuthFlowConfig struct {
	Login        []MethodDescriptor `json:"login"`
	Registration []MethodDescriptor `json:"registration"`
	Factors      []MethodDescriptor `json:"factors"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// DefaultAuthFlowConfig returns the empty configuration written when no
// config file exists yet.
func DefaultAuthFlowConfig() *AuthFlowConfig {
	return &AuthFlowConfig{
		Login:        []MethodDescriptor{},
		Registration: []MethodDescriptor{},
		Factors:      []MethodDescriptor{},
	}
}

type UpdateAuthFlowRequest struct {
	Methods []MethodDescriptor `json:"methods" validate:"required,dive"`
}
