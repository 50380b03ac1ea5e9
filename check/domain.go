package check

import (
	"strings"

	"github.com/optimode/disposable/internal/parse"
	"github.com/optimode/disposable/types"
)

// Disposable reports whether the email's domain is in the given set.
// The email must already have passed Syntax.
func Disposable(email parse.Email, domains types.DomainSet) bool {
	return domains.Contains(strings.ToLower(email.Domain))
}
