// Package idgen generates the identifiers xpick attaches to picks and
// requests. Generators are plain functions so callers can swap the strategy
// (tests use a counter) without touching call sites.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator of RFC 9562 version 7 UUIDs. They sort by
// creation time.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed prepends prefix to every ID from gen ("pick_", "req_").
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Sequence returns a deterministic Generator: prefix1, prefix2, ...
// It is not safe for concurrent use.
func Sequence(prefix string) Generator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

var (
	// Pick identifies one element pick.
	Pick = Prefixed("pick_", UUIDv7())
	// Request identifies one MCP or HTTP call.
	Request = Prefixed("req_", UUIDv7())
)

// Parse validates the UUID part of id, after an optional "<prefix>_".
func Parse(id string) (string, error) {
	raw := id
	for i := 0; i < len(id); i++ {
		if id[i] == '_' {
			raw = id[i+1:]
			break
		}
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("idgen: invalid id %q: %w", id, err)
	}
	return u.String(), nil
}
