package blueprint

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Length limits for derived cluster resource names.
const (
	MaxAppIDLength           = 63
	MaxSecretNameLength      = 253
	MaxVolumeMountNameLength = 63
	MaxRefNameLength         = 253
	MaxPortNameLength        = 253
)

var (
	refNamePattern      = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	dns1123LabelPattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)
	classSegmentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	dashRunPattern      = regexp.MustCompile(`-+`)
)

// IsValidRefName reports whether s can name a streamlet ref: lowercase
// alphanumerics and dashes, starting alphanumeric, at most 253 characters.
func IsValidRefName(s string) bool {
	return len(s) <= MaxRefNameLength && refNamePattern.MatchString(s)
}

// IsValidPortName reports whether s can name an inlet or outlet. Same
// character class as ref names, and a port name may not end with a dash.
func IsValidPortName(s string) bool {
	return len(s) <= MaxPortNameLength &&
		refNamePattern.MatchString(s) &&
		!strings.HasSuffix(s, "-")
}

// IsValidVolumeMountName reports whether s is a DNS-1123 label of at most
// 63 characters.
func IsValidVolumeMountName(s string) bool {
	return len(s) <= MaxVolumeMountNameLength && dns1123LabelPattern.MatchString(s)
}

// IsValidClassName reports whether s is a dotted identifier: segments of
// [A-Za-z_][A-Za-z0-9_]* joined by dots, the first starting with a letter.
func IsValidClassName(s string) bool {
	segments := strings.Split(s, ".")
	for i, seg := range segments {
		if !classSegmentPattern.MatchString(seg) {
			return false
		}
		if i == 0 && seg[0] == '_' {
			return false
		}
	}
	return true
}

// InvalidApplicationIDError is returned when an application id normalizes
// to the empty string.
type InvalidApplicationIDError struct {
	Raw string
}

func (e InvalidApplicationIDError) Error() string {
	return fmt.Sprintf("application id %q is invalid: it contains no usable characters", e.Raw)
}

// NormalizeAppID derives a DNS-1123 compatible application id from raw user
// input: diacritics are folded to their base letters, the id is lowercased
// and truncated to 63 characters, every character outside [a-z0-9-] becomes
// a dash, dash runs collapse, and leading/trailing dashes and dots are
// stripped. An id that normalizes to nothing is an error.
func NormalizeAppID(raw string) (string, error) {
	s := stripDiacritics(strings.ToLower(raw))

	runes := []rune(s)
	if len(runes) > MaxAppIDLength {
		runes = runes[:MaxAppIDLength]
	}

	var b strings.Builder
	for _, r := range runes {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}

	id := dashRunPattern.ReplaceAllString(b.String(), "-")
	id = strings.Trim(id, "-.")
	if id == "" {
		return "", InvalidApplicationIDError{Raw: raw}
	}
	return id, nil
}

// stripDiacritics decomposes s and drops combining marks, so that letters
// like 'ü' fold to 'u'.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SecretName derives the cluster secret name for a streamlet ref. The ref
// name is used verbatim, truncated to 253 characters with trailing dashes
// stripped.
func SecretName(refName string) string {
	runes := []rune(refName)
	if len(runes) > MaxSecretNameLength {
		runes = runes[:MaxSecretNameLength]
	}
	return strings.TrimRight(string(runes), "-")
}
