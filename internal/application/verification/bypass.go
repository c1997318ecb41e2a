package verification

import "github.com/loginus-id/api/internal/pkg/contact"

// BypassPolicy controls the testing conveniences of the verification
// flow: echoing codes in responses, the universal code, and the
// quick-access phone. Production wiring always installs Disabled, so none
// of these shortcuts can fire in a production binary.
type BypassPolicy interface {
	// EchoCode reports whether the plaintext code may be included in the
	// send-code response.
	EchoCode() bool
	// QuickAccess reports whether the session contact is the privileged
	// phone that verifies regardless of the submitted code.
	QuickAccess(sessionContact string) bool
	// UniversalCode reports whether the submitted code is the universal
	// literal accepted for any session.
	UniversalCode(code string) bool
}

// Disabled is the production policy: no echo, no shortcuts.
type Disabled struct{}

func (Disabled) EchoCode() bool            { return false }
func (Disabled) QuickAccess(string) bool   { return false }
func (Disabled) UniversalCode(string) bool { return false }

// DevPolicy enables the demo/testing shortcuts. The quick-access phone is
// compared digits-only, so "+7 (900) ..." and "7900..." match.
type DevPolicy struct {
	universalCode     string
	quickAccessDigits string
}

func NewDevPolicy(universalCode, quickAccessPhone string) *DevPolicy {
	return &DevPolicy{
		universalCode:     universalCode,
		quickAccessDigits: contact.Digits(quickAccessPhone),
	}
}

func (p *DevPolicy) EchoCode() bool { return true }

func (p *DevPolicy) QuickAccess(sessionContact string) bool {
	return p.quickAccessDigits != "" && contact.Digits(sessionContact) == p.quickAccessDigits
}

func (p *DevPolicy) UniversalCode(code string) bool {
	return p.universalCode != "" && code == p.universalCode
}
