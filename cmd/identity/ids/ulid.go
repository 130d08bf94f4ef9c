// Package ids provides the ID primitives (ULID) used for playtube accounts.
package ids

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewULID returns a new ULID string (26 chars).
// ULIDs are lexicographically sortable, which keeps account ordering and
// index locality sane without a DB sequence.
func NewULID(now time.Time) (string, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
