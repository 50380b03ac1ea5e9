package disposable

import "errors"

// ErrNilProvider is returned when the Checker was built with a nil DomainProvider.
var ErrNilProvider = errors.New("disposable: nil domain provider")
