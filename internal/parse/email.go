package parse

import (
	"net/mail"
	"strings"

	"golang.org/x/net/idna"
)

// Email is the internal representation of a parsed email address.
// The check/ package receives this as parameter.
type Email struct {
	Raw    string // the original, trimmed input
	Local  string // the part before the last @
	Domain string // the part after the last @, lowercased
	Valid  bool   // false if Raw cannot be parsed
}

// NewEmail attempts to parse the given email string.
// If parsing fails, Valid=false but Raw is always populated.
// Internationalized local parts (RFC 6531) and domains are accepted, but the
// domain is only case-folded, never converted to Punycode.
func NewEmail(raw string) Email {
	raw = strings.TrimSpace(raw)

	// Display names and comments are not part of a bare address.
	if strings.ContainsAny(raw, "<>()") {
		return Email{Raw: raw, Valid: false}
	}

	if _, err := mail.ParseAddress(raw); err != nil {
		if _, err := mail.ParseAddress("<" + raw + ">"); err != nil && isASCII(raw) {
			return Email{Raw: raw, Valid: false}
		}
	}

	return split(raw)
}

// split separates the address at the last @.
func split(raw string) Email {
	atIdx := strings.LastIndex(raw, "@")
	if atIdx < 1 || atIdx >= len(raw)-1 {
		return Email{Raw: raw, Valid: false}
	}
	local := raw[:atIdx]
	domain := strings.ToLower(raw[atIdx+1:])

	if !isASCII(domain) {
		// Internationalized domain: must pass IDNA2008 lookup rules to be usable.
		if _, err := idna.Lookup.ToASCII(domain); err != nil {
			return Email{Raw: raw, Valid: false}
		}
	}

	return Email{
		Raw:    raw,
		Local:  local,
		Domain: domain,
		Valid:  true,
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
