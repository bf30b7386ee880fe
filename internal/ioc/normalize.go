// internal/ioc/normalize.go
package ioc

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

var (
	reMD5    = regexp.MustCompile(`^[a-fA-F0-9]{32}$`)
	reSHA1   = regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	reSHA256 = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)
	reCVE    = regexp.MustCompile(`^(?i)CVE-\d{4}-\d{4,}$`)
	reEmail  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	reURL    = regexp.MustCompile(`^(?i)(https?|ftp)://\S+$`)
	reDomain = regexp.MustCompile(`^(?i)([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)
)

// ValidationError reports an invalid literal value for a given type
type ValidationError struct {
	Type   Type
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ioc: invalid %s value: %s", e.Type, e.Reason)
}

// Normalize canonicalizes a raw value for the given type. It is idempotent:
// Normalize(Normalize(v, t), t) == Normalize(v, t).
func Normalize(value string, t Type) string {
	v := strings.TrimSpace(value)

	switch t {
	case TypeIP:
		return normalizeIP(v)
	case TypeDomain, TypeHostname:
		return strings.TrimSuffix(strings.ToLower(v), ".")
	case TypeURL:
		return normalizeURL(v)
	case TypeMD5, TypeSHA1, TypeSHA256:
		return strings.ToLower(v)
	case TypeEmail:
		return strings.ToLower(v)
	case TypeCVE:
		return strings.ToUpper(v)
	default:
		return v
	}
}

// normalizeIP strips leading zeros per octet: 192.168.001.001 -> 192.168.1.1
func normalizeIP(v string) string {
	parts := strings.Split(v, ".")
	if len(parts) != 4 {
		return v // IPv6 or junk, leave as-is
	}
	out := make([]string, 4)
	for i, p := range parts {
		trimmed := strings.TrimLeft(p, "0")
		if trimmed == "" {
			trimmed = "0"
		}
		out[i] = trimmed
	}
	return strings.Join(out, ".")
}

// normalizeURL lowercases scheme and host, path preserved verbatim
func normalizeURL(v string) string {
	idx := strings.Index(v, "://")
	if idx < 0 {
		return v
	}
	scheme := strings.ToLower(v[:idx])
	rest := v[idx+3:]

	slash := strings.IndexAny(rest, "/?#")
	if slash < 0 {
		return scheme + "://" + strings.ToLower(rest)
	}
	return scheme + "://" + strings.ToLower(rest[:slash]) + rest[slash:]
}

// DetectType auto-detects the indicator type in precedence order:
// IP, CVE, hash by length, email, URL, domain, else unknown.
func DetectType(value string) Type {
	v := strings.TrimSpace(value)
	if v == "" {
		return TypeUnknown
	}
	if ip := net.ParseIP(normalizeIP(v)); ip != nil && ip.To4() != nil {
		return TypeIP
	}
	if reCVE.MatchString(v) {
		return TypeCVE
	}
	switch {
	case reMD5.MatchString(v):
		return TypeMD5
	case reSHA1.MatchString(v):
		return TypeSHA1
	case reSHA256.MatchString(v):
		return TypeSHA256
	}
	if reEmail.MatchString(v) {
		return TypeEmail
	}
	if reURL.MatchString(v) {
		return TypeURL
	}
	// Match the same canonical form Validate accepts: an FQDN may carry
	// a trailing root dot that normalization strips.
	if reDomain.MatchString(strings.TrimSuffix(v, ".")) {
		return TypeDomain
	}
	return TypeUnknown
}

// Validate checks a literal value against its declared type
func Validate(value string, t Type) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return &ValidationError{Type: t, Reason: "empty value"}
	}

	switch t {
	case TypeIP:
		if ip := net.ParseIP(normalizeIP(v)); ip == nil {
			return &ValidationError{Type: t, Reason: "not a valid IP address"}
		}
	case TypeDomain, TypeHostname:
		if !reDomain.MatchString(strings.TrimSuffix(v, ".")) {
			return &ValidationError{Type: t, Reason: "not a valid domain name"}
		}
	case TypeURL:
		if !reURL.MatchString(v) {
			return &ValidationError{Type: t, Reason: "not a valid URL"}
		}
	case TypeMD5:
		if !reMD5.MatchString(v) {
			return &ValidationError{Type: t, Reason: "not a 32-char hex digest"}
		}
	case TypeSHA1:
		if !reSHA1.MatchString(v) {
			return &ValidationError{Type: t, Reason: "not a 40-char hex digest"}
		}
	case TypeSHA256:
		if !reSHA256.MatchString(v) {
			return &ValidationError{Type: t, Reason: "not a 64-char hex digest"}
		}
	case TypeEmail:
		if !reEmail.MatchString(v) {
			return &ValidationError{Type: t, Reason: "not a valid email address"}
		}
	case TypeCVE:
		if !reCVE.MatchString(v) {
			return &ValidationError{Type: t, Reason: "not a valid CVE identifier"}
		}
	case TypeMutex, TypeFilePath, TypeProcess, TypeRegistryKey, TypeUnknown:
		// free-form types, any non-empty value is accepted
	default:
		return &ValidationError{Type: t, Reason: "unrecognized indicator type"}
	}
	return nil
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
