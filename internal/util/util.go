package util

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewContactID returns a ULID-based key. ULIDs sort by creation time, which
// keeps ad-hoc queries over the contacts table readable.
func NewContactID() string {
	return "ct_" + ulid.MustNew(ulid.Timestamp(NowUTC()), rand.Reader).String()
}

func NowUTC() time.Time {
	return time.Now().UTC()
}
