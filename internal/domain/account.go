package domain

// Roles carried in access-token claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserAccount is a read-only fixture record. Accounts are never created or
// mutated by the verification flow; new users only receive a minted id.
type UserAccount struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
}

type CheckAccountRequest struct {
	Contact string `json:"contact" validate:"required"`
	Type    string `json:"type" validate:"required,oneof=phone email"`
}

// CheckAccountResult reports account existence and the verification
// channels available for it. Channel availability is static policy, not
// derived from real channel capability.
type CheckAccountResult struct {
	Exists  bool     `json:"exists"`
	UserID  string   `json:"userId,omitempty"`
	Methods []string `json:"methods"`
}
