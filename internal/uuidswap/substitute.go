package uuidswap

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMalformedUUID is returned when a value does not have the shape of a UUID.
var ErrMalformedUUID = errors.New("malformed uuid")

// NormalizeDestination lower-cases id and checks its shape: 36 characters
// with exactly four hyphens. The hex digits themselves are not validated.
func NormalizeDestination(id string) (string, error) {
	id = strings.ToLower(id)
	if utf8.RuneCountInString(id) != 36 || strings.Count(id, "-") != 4 {
		return "", fmt.Errorf("%w: %q (expected 36 characters with 4 hyphens)", ErrMalformedUUID, id)
	}
	return id, nil
}

// Count is the number of occurrences replaced for one source id.
type Count struct {
	Source   string
	Replaced int
}

type Result struct {
	Content string
	Counts  []Count // same order as the sources passed in
	Total   int
}

// Substitute replaces every literal occurrence of each source id with dest.
// Matching runs against the original content for all sources at once, so a
// replacement never feeds into the matching of another source.
func Substitute(content string, sources []string, dest string) Result {
	res := Result{Counts: make([]Count, 0, len(sources))}
	pairs := make([]string, 0, 2*len(sources))
	for _, src := range sources {
		if src == "" {
			res.Counts = append(res.Counts, Count{Source: src})
			continue
		}
		n := strings.Count(content, src)
		res.Counts = append(res.Counts, Count{Source: src, Replaced: n})
		res.Total += n
		if n > 0 {
			pairs = append(pairs, src, dest)
		}
	}

	if len(pairs) == 0 {
		res.Content = content
		return res
	}
	res.Content = strings.NewReplacer(pairs...).Replace(content)
	return res
}
