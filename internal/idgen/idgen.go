// Package idgen generates the short correlation IDs attached to every
// backend request as X-Request-ID.
package idgen

import (
	"strconv"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// RequestPrefix is prepended to every request ID.
const RequestPrefix = "gj-"

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	length   = 12
)

// RequestID returns a new request correlation ID. It never fails: if the
// random source is unavailable the current time in base 36 is used instead.
func RequestID() string {
	id, err := nanoid.Generate(alphabet, length)
	if err != nil {
		return RequestPrefix + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return RequestPrefix + id
}
