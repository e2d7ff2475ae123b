package utils

import (
	"github.com/google/uuid"
)

// maxRequestIDLen bounds ids accepted from callers.
const maxRequestIDLen = 128

// NewID returns a random v4 identifier for sessions, requests and
// notifications.
func NewID() string {
	return uuid.NewString()
}

// IsValidID reports whether s parses as an identifier NewID could return.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// RequestID keeps an inbound request id when it is a short token of
// letters, digits and -_.: and mints a new one otherwise, so ids can be
// logged and forwarded as they are.
func RequestID(inbound string) string {
	if inbound == "" || len(inbound) > maxRequestIDLen {
		return NewID()
	}
	for _, r := range inbound {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return NewID()
		}
	}
	return inbound
}
