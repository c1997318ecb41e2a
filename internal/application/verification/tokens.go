package verification

import (
	"time"

	"github.com/loginus-id/api/internal/domain"
	pkgtoken "github.com/loginus-id/api/internal/pkg/token"
)

// TokenIssuer mints the access/refresh pair returned on successful
// verification. The JWT-backed implementation lives in
// infrastructure/jwt; OpaqueIssuer is the fallback when no signing keys
// are configured.
type TokenIssuer interface {
	Issue(userID, contact string) (domain.TokenPair, error)
}

// OpaqueIssuer produces mock time-suffixed tokens that carry no claims.
type OpaqueIssuer struct {
	now func() time.Time
}

func NewOpaqueIssuer(now func() time.Time) *OpaqueIssuer {
	if now == nil {
		now = time.Now
	}
	return &OpaqueIssuer{now: now}
}

func (o *OpaqueIssuer) Issue(_, _ string) (domain.TokenPair, error) {
	t := o.now()
	access, err := pkgtoken.NewOpaque("access", t)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := pkgtoken.NewOpaque("refresh", t)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
