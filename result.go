package disposable

// Result is the full outcome of classifying one address.
type Result struct {
	Email string `json:"email"`
	// Domain is the lowercased part after the last @, empty when the syntax is invalid.
	Domain      string `json:"domain,omitempty"`
	ValidSyntax bool   `json:"validSyntax"`
	// Disposable is true for known disposable domains and for invalid syntax.
	Disposable bool   `json:"disposable"`
	Details    string `json:"details,omitempty"`
}

// Disposables returns the results classified as disposable.
func Disposables(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Disposable {
			out = append(out, r)
		}
	}
	return out
}
