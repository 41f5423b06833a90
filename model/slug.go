package model

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid"
)

// NewID returns a fresh durable identifier for any stored record.
func NewID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// NewSlug generates the public URL key for an event: a base36 timestamp
// followed by three random base36 components. Slugs are never derived from
// the title; they must be effectively unforgeable since knowing one grants
// access to the public form.
func NewSlug() string {
	parts := []string{
		strconv.FormatInt(time.Now().UnixMilli(), 36),
		randomBase36(),
		randomBase36(),
		randomBase36(),
	}
	return strings.Join(parts, "-")
}

func randomBase36() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// uuid-derived value rather than panic in a request path.
		return strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")[:13]
	}
	n := binary.BigEndian.Uint64(buf[:])
	return strconv.FormatUint(n, 36)
}
