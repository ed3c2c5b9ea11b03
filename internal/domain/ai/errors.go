package ai

import (
	"errors"
	"strings"
)

// ErrNotConfigured indicates the provider holds no credential; calls are
// no-ops and the orchestrator fails fast instead.
var ErrNotConfigured = errors.New("ai client not configured: missing API key")

// IsOverloaded reports whether an error looks like a transient service
// overload worth retrying. The check is a case-insensitive substring match
// against the stringified error; provider SDKs do not expose a stable
// error type for 503s.
func IsOverloaded(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "503") ||
		strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "unavailable")
}
