// Package types contains the shared types for disposable.
// This package does not import anything from other disposable packages
// to avoid circular imports.
package types

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// DomainSet is a set of lowercase disposable domains.
// The JSON form is a sorted array of strings.
type DomainSet map[string]struct{}

// NewDomainSet builds a set from the given domains.
// Entries are trimmed and lowercased; empty entries are dropped.
func NewDomainSet(domains ...string) DomainSet {
	s := make(DomainSet, len(domains))
	for _, d := range domains {
		s.Add(d)
	}
	return s
}

// Add inserts the lowercased domain. Empty input is ignored.
func (s DomainSet) Add(domain string) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return
	}
	s[domain] = struct{}{}
}

// Contains reports whether the domain is in the set. The lookup is case-insensitive.
func (s DomainSet) Contains(domain string) bool {
	_, ok := s[strings.ToLower(domain)]
	return ok
}

// Len returns the number of domains in the set.
func (s DomainSet) Len() int {
	return len(s)
}

// Sorted returns the domains in lexical order.
func (s DomainSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (s DomainSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *DomainSet) UnmarshalJSON(b []byte) error {
	var domains []string
	if err := json.Unmarshal(b, &domains); err != nil {
		return err
	}
	*s = NewDomainSet(domains...)
	return nil
}

// Entry is a cached domain set together with the absolute time it expires.
type Entry struct {
	Domains   DomainSet `json:"domains"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the entry can still be used at the given time.
func (e Entry) Valid(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}
