package utils

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var entropy = ulid.Monotonic(rand.Reader, 0)

// NewRunId returns a lowercase ULID identifying one monitor process run.
// It is stamped into logs and the health endpoint so overlapping runs on
// the same host can be told apart.
func NewRunId() string {
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}
