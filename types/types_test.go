package types_test

import (
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimode/disposable/types"
)

func TestDomainSet_NormalizesEntries(t *testing.T) {
	s := types.NewDomainSet("0-Mail.com", "  mailinator.com ", "", "0-mail.com")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("0-mail.com"))
	assert.True(t, s.Contains("MAILINATOR.COM"))
	assert.False(t, s.Contains("example.com"))
}

func TestDomainSet_JSONIsSortedArray(t *testing.T) {
	s := types.NewDomainSet("b.com", "a.com")
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["a.com","b.com"]`, string(b))

	var decoded types.DomainSet
	require.NoError(t, json.Unmarshal([]byte(`["X.com","","y.com"]`), &decoded))
	assert.Equal(t, []string{"x.com", "y.com"}, decoded.Sorted())
}

func TestDomainSet_UnmarshalRejectsNonArray(t *testing.T) {
	var decoded types.DomainSet
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &decoded))
}

func TestEntry_Valid(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := types.Entry{ExpiresAt: now.Add(time.Second)}
	assert.True(t, e.Valid(now))
	assert.False(t, e.Valid(now.Add(time.Second)))
	assert.False(t, e.Valid(now.Add(time.Hour)))
}

func TestSourceUnavailableError(t *testing.T) {
	cause := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	err := error(&types.SourceUnavailableError{
		Reason:  types.ReasonConnect,
		Message: cause.Error(),
		Err:     cause,
	})

	assert.ErrorIs(t, err, types.ErrSourceUnavailable)
	var opErr *net.OpError
	assert.ErrorAs(t, err, &opErr)
	assert.Contains(t, err.Error(), "connect")

	withStatus := &types.SourceUnavailableError{Reason: types.ReasonStatus, Message: "503 Service Unavailable", StatusCode: 503}
	assert.Contains(t, withStatus.Error(), "status 503")
}
