package domainlist

import (
	"bufio"
	"io"
	"strings"

	"github.com/go-faster/errors"

	"github.com/optimode/disposable/types"
)

// Parse reads a newline-delimited domain list. Blank lines and lines starting
// with '#' are skipped; entries are trimmed and lowercased.
func Parse(r io.Reader) (types.DomainSet, error) {
	domains := make(types.DomainSet)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains.Add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read domain list")
	}

	return domains, nil
}
