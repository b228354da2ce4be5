package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// Returns an empty Attr for nil errors, enabling safe usage without nil checks.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// SessionID creates an attribute for session identifiers. The identifier is
// truncated to its first eight characters so full session ids never land in
// log storage.
func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return slog.String("session_id", id+"…")
}

// ClientIP creates an attribute for client IP addresses.
func ClientIP(ip string) slog.Attr {
	return slog.String("client_ip", ip)
}

// UserAgent creates an attribute for user agent strings.
func UserAgent(ua string) slog.Attr {
	return slog.String("user_agent", ua)
}
