package id

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time and safe for use as DynamoDB partition keys.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// NewSession generates a verification-session identifier: Unix
// milliseconds plus a ULID suffix. Uniqueness is best-effort, not
// cryptographically guaranteed; callers re-check against the store.
func NewSession(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), New())
}
