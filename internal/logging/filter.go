// Package logging provides logging utilities including sensitive data
// filtering. Agent output routinely echoes environment variables and
// config fragments, so anything headed for a log file passes through
// the redaction filter first.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue replaces any detected secret.
const RedactedValue = "[REDACTED]"

// sensitivePatterns match secret-shaped values inside free text, such
// as agent stdout or error messages.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // compiled once, reused everywhere
	// Anthropic keys, then the broader sk- prefix family.
	regexp.MustCompile(`sk-ant-api[a-zA-Z0-9_-]+`),
	regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`),

	// GitHub token prefixes (ghp_, gho_, ghu_, ghs_, ghr_).
	regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{20,}`),

	// key=value style assignments of keys, secrets, and tokens.
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*["']?([a-zA-Z0-9_-]{16,})["']?`),
	regexp.MustCompile(`(?i)(secret|password|credential|passwd|pwd)\s*[:=]\s*["']?[^\s"']{8,}["']?`),
	regexp.MustCompile(`(?i)(token|auth)\s*[:=]\s*["']?[a-zA-Z0-9+/=]{32,}["']?`),

	// HTTP auth headers and key material.
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_-]{20,}`),
	regexp.MustCompile(`(?i)-----BEGIN[A-Z\s]+PRIVATE KEY-----`),
}

// sensitiveFieldNames mark structured log fields whose values are
// redacted wholesale, regardless of content. Matched case-insensitively
// as substrings.
var sensitiveFieldNames = []string{ //nolint:gochecknoglobals // compiled once, reused everywhere
	"api_key", "apikey", "anthropic_api_key",
	"secret", "password", "passwd", "credential", "credentials",
	"auth_token", "access_token", "refresh_token", "github_token",
	"bearer", "authorization", "private_key",
}

// SensitiveDataHook flags log entries whose message matches a secret
// pattern. Zerolog hooks cannot rewrite the message, so actual
// redaction happens in FilteringWriter and at call sites via SafeValue;
// the flag makes matches auditable.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a new SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements zerolog.Hook.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any secret pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every secret-pattern match in value
// with RedactedValue.
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveFieldName reports whether a structured-log field name
// indicates a secret.
func IsSensitiveFieldName(fieldName string) bool {
	lowerName := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFieldNames {
		if strings.Contains(lowerName, sensitive) {
			return true
		}
	}
	return false
}

// SafeValue returns a loggable value for a field: fully redacted when
// the field name itself is sensitive, pattern-filtered otherwise.
//
//	log.Info().Str("output", logging.SafeValue("output", agentOutput)).Msg("task finished")
func SafeValue(fieldName, value string) string {
	if IsSensitiveFieldName(fieldName) {
		return RedactedValue
	}
	return FilterSensitiveValue(value)
}

// FilteringWriter filters secret patterns out of everything written
// through it. Log file writers are wrapped with this so secrets never
// land on disk even when they appear in messages or field values.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a FilteringWriter around w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. The original length is returned so
// callers never observe a short write from redaction shrinking p.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err = fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	return len(p), nil
}
