// Package coursekey parses opaque course run identifiers. Two serialized
// forms circulate in LMS data: the current "course-v1:Org+Course+Run" and the
// legacy "Org/Course/Run". A Key round-trips to the form it was parsed from.
package coursekey

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey reports a structurally malformed course key.
var ErrInvalidKey = errors.New("invalid course key")

const prefix = "course-v1:"

// Key identifies a single course run.
type Key struct {
	Org    string
	Course string
	Run    string

	legacy bool
}

// Parse validates and decomposes a serialized course key.
func Parse(raw string) (Key, error) {
	if strings.HasPrefix(raw, prefix) {
		parts := strings.Split(strings.TrimPrefix(raw, prefix), "+")
		if len(parts) != 3 {
			return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, raw)
		}
		return newKey(raw, parts[0], parts[1], parts[2], false)
	}

	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, raw)
	}
	return newKey(raw, parts[0], parts[1], parts[2], true)
}

func newKey(raw, org, course, run string, legacy bool) (Key, error) {
	for _, field := range []string{org, course, run} {
		if field == "" || !validField(field) {
			return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, raw)
		}
	}
	return Key{Org: org, Course: course, Run: run, legacy: legacy}, nil
}

func validField(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// String serializes the key in the form it was parsed from.
func (k Key) String() string {
	if k.legacy {
		return k.Org + "/" + k.Course + "/" + k.Run
	}
	return prefix + k.Org + "+" + k.Course + "+" + k.Run
}

// CacheToken returns the key with cache-hostile separators flattened,
// suitable for embedding in a Redis key.
func (k Key) CacheToken() string {
	r := strings.NewReplacer(":", "_", "+", "_", "/", "_")
	return r.Replace(k.String())
}

// IsZero reports whether the key is unset.
func (k Key) IsZero() bool {
	return k.Org == "" && k.Course == "" && k.Run == ""
}
