package types

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable matches every *SourceUnavailableError through errors.Is.
var ErrSourceUnavailable = errors.New("disposable: domain list source unavailable")

// Reason classifies why the remote domain list could not be obtained.
type Reason = string

const (
	ReasonConnect   Reason = "connect"
	ReasonTimeout   Reason = "timeout"
	ReasonRedirects Reason = "too_many_redirects"
	ReasonStatus    Reason = "status"
	ReasonTransfer  Reason = "transfer"
)

// SourceUnavailableError is the single error shape returned when the domain
// list could be neither read from cache nor fetched from the remote source.
type SourceUnavailableError struct {
	Reason     Reason `json:"reason"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"` // HTTP status, 0 when no response was received
	Err        error  `json:"-"`
}

func (e *SourceUnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("disposable: domain list source unavailable (%s, status %d): %s", e.Reason, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("disposable: domain list source unavailable (%s): %s", e.Reason, e.Message)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

func (e *SourceUnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}
