package check

import (
	"strings"
	"unicode"

	"github.com/optimode/disposable/internal/parse"
)

// Violation is the reason an address failed syntax validation.
// The zero value means the address is acceptable.
type Violation string

// Fixed violations. Character violations are built per rune.
const (
	EmptyAddress   Violation = "empty email address"
	Malformed      Violation = "invalid email syntax"
	AddressTooLong Violation = "email address exceeds 254 characters"
	LocalTooLong   Violation = "local part exceeds 64 characters"
	EmptyLocal     Violation = "local part is empty"
	LocalDotEdge   Violation = "local part cannot start or end with a dot"
	LocalDoubleDot Violation = "local part cannot contain consecutive dots"
	EmptyDomain    Violation = "domain is empty"
	SingleLabel    Violation = "domain must have at least two labels"
	EmptyLabel     Violation = "domain contains empty label (consecutive dots)"
	LabelTooLong   Violation = "domain label exceeds 63 characters"
	LabelHyphen    Violation = "domain label cannot start or end with a hyphen"
	NumericTLD     Violation = "TLD cannot be all digits"
)

// RFC 5321 limits.
const (
	maxAddressLen = 254
	maxLocalLen   = 64
	maxLabelLen   = 63
)

// atextSpecials are the non-alphanumeric ASCII characters allowed in an
// unquoted local part.
const atextSpecials = "!#$%&'*+/=?^_`{|}~-."

// Syntax validates an address according to RFC 5321/5322, accepting RFC 6531
// (SMTPUTF8) local parts and IDNA2008 domains. It returns "" when the address
// is acceptable.
func Syntax(email parse.Email) Violation {
	switch {
	case email.Raw == "":
		return EmptyAddress
	case !email.Valid:
		return Malformed
	case len(email.Raw) > maxAddressLen:
		return AddressTooLong
	case len(email.Local) > maxLocalLen:
		return LocalTooLong
	}

	if v := localPart(email.Local); v != "" {
		return v
	}
	return domainPart(email.Domain)
}

func localPart(local string) Violation {
	if local == "" {
		return EmptyLocal
	}
	// Inside quotes any printable character is allowed; net/mail has checked it.
	if len(local) >= 2 && local[0] == '"' && local[len(local)-1] == '"' {
		return ""
	}

	if i := strings.IndexFunc(local, badLocalRune); i >= 0 {
		r := []rune(local[i:])[0]
		if unicode.IsControl(r) {
			return "local part contains control character"
		}
		return Violation("local part contains invalid character: " + string(r))
	}

	if local[0] == '.' || local[len(local)-1] == '.' {
		return LocalDotEdge
	}
	if strings.Contains(local, "..") {
		return LocalDoubleDot
	}
	return ""
}

func badLocalRune(r rune) bool {
	if r > unicode.MaxASCII {
		return unicode.IsControl(r)
	}
	return !isAlnum(r) && !strings.ContainsRune(atextSpecials, r)
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func domainPart(domain string) Violation {
	if domain == "" {
		return EmptyDomain
	}
	// IP literal, e.g. [192.0.2.1]. Accepted as is.
	if domain[0] == '[' && domain[len(domain)-1] == ']' {
		return ""
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return SingleLabel
	}
	for _, label := range labels {
		if v := domainLabel(label); v != "" {
			return v
		}
	}

	tld := labels[len(labels)-1]
	if strings.IndexFunc(tld, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return NumericTLD
	}
	return ""
}

func domainLabel(label string) Violation {
	switch {
	case label == "":
		return EmptyLabel
	case len(label) > maxLabelLen:
		return LabelTooLong
	case label[0] == '-' || label[len(label)-1] == '-':
		return LabelHyphen
	}
	if i := strings.IndexFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	}); i >= 0 {
		return Violation("domain label contains invalid character: " + string([]rune(label[i:])[0]))
	}
	return ""
}
