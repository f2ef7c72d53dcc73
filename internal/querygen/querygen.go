// Package querygen turns installed content file names into ordered,
// normalized search queries. It is pure string work; the acceptance
// policy for results lives with the scorer so this cleaning heuristic
// can be tuned independently.
package querygen

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const minQueryLength = 3

// DisabledSuffix marks a content file as disabled in place.
const DisabledSuffix = ".disabled"

var (
	loaderTokens    = regexp.MustCompile(`(?i)[-_+.](fabric|forge|neoforge|quilt)([-_+.]|$)`)
	qualifierTokens = regexp.MustCompile(`(?i)[-_+.](client|server|universal|all)([-_+.]|$)`)
	mcVersionTokens = regexp.MustCompile(`(?i)\bmc?\d[\w.+-]*`)
	versionSuffix   = regexp.MustCompile(`(?i)[-_. ]v?\d+(?:\.\d+){0,3}(?:[a-z]+\d*)?[-_. ]*$`)
	nonAlnumRuns    = regexp.MustCompile(`[^a-z0-9]+`)

	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize lowercases, strips diacritics, collapses non-alphanumeric
// runs to single hyphens, and trims edge hyphens.
func Normalize(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	if folded, _, err := transform.String(stripMarks, lowered); err == nil {
		lowered = folded
	}
	collapsed := nonAlnumRuns.ReplaceAllString(lowered, "-")
	return strings.Trim(collapsed, "-")
}

// Compact removes hyphens from a normalized query.
func Compact(value string) string {
	return strings.ReplaceAll(value, "-", "")
}

// Generate produces the ordered candidate queries for a file name:
// the normalized base name, a cleaned variant with loader, qualifier
// and version tokens removed, and the cleaned variant's first token.
// Duplicates keep first occurrence; every result is normalized and at
// least three characters long.
func Generate(fileName string) []string {
	base := StripExtensions(fileName)
	if base == "" {
		return nil
	}

	queries := make([]string, 0, 3)
	seen := make(map[string]struct{}, 3)
	add := func(candidate string) {
		if len(candidate) < minQueryLength {
			return
		}
		if _, dup := seen[candidate]; dup {
			return
		}
		seen[candidate] = struct{}{}
		queries = append(queries, candidate)
	}

	add(Normalize(base))

	cleaned := clean(base)
	add(Normalize(cleaned))

	if tokens := strings.Split(Normalize(cleaned), "-"); len(tokens) > 0 && len(tokens[0]) >= 4 {
		add(tokens[0])
	}

	return queries
}

// StripExtensions removes a trailing disabled marker and the content
// file extension, leaving the bare name for query generation.
func StripExtensions(fileName string) string {
	base := strings.TrimSpace(fileName)
	if strings.HasSuffix(strings.ToLower(base), DisabledSuffix) {
		base = base[:len(base)-len(DisabledSuffix)]
	}
	if ext := filepath.Ext(base); ext != "" && isContentExtension(ext) {
		base = base[:len(base)-len(ext)]
	}
	return base
}

func isContentExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jar", ".zip", ".mrpack", ".litemod":
		return true
	default:
		return false
	}
}

func clean(base string) string {
	// Loader and qualifier tokens only count when a separator precedes
	// them; a name that starts with one keeps it. The trailing
	// separator is re-emitted, so chained tokens need another pass.
	cleaned := base
	for {
		next := loaderTokens.ReplaceAllString(cleaned, "-$2")
		next = qualifierTokens.ReplaceAllString(next, "-$2")
		if next == cleaned {
			break
		}
		cleaned = next
	}
	cleaned = mcVersionTokens.ReplaceAllString(cleaned, "")
	// Trailing version groups can be chained (1.20.1-5.9.9); strip
	// them one suffix at a time until none remain.
	for {
		next := versionSuffix.ReplaceAllString(cleaned, "")
		if next == cleaned {
			break
		}
		cleaned = next
	}
	return cleaned
}
