// Package normalise provides the pure normalisation functions used by
// every screening check: company names, phone numbers, person names,
// domains, and profile links. All functions are stateless and safe for
// concurrent use.
package normalise

import "strings"

// legalSuffixTokens is the closed list of trailing legal-entity forms
// removed from company names. Matching happens after punctuation has
// been stripped, so "Acme, Inc." and "Acme Inc" both reduce to "acme".
var legalSuffixTokens = map[string]bool{
	"inc": true, "llc": true, "ltd": true, "limited": true,
	"corp": true, "corporation": true, "co": true, "company": true,
	"gmbh": true, "sa": true, "plc": true, "llp": true, "lp": true,
	"ag": true, "nv": true, "bv": true,
}

// articleTokens are leading articles stripped from company names.
var articleTokens = map[string]bool{"the": true, "a": true}

// Company normalises a company name for cross-record matching.
// It lowercases, removes non-alphanumeric characters, collapses
// whitespace, and strips leading articles and trailing legal-entity
// suffixes. The result is a fixpoint: Company(Company(x)) == Company(x).
// Blank input returns the empty string.
func Company(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if isAlnum(r) || r == ' ' {
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())

	// Strip affixes until stable. A company named literally "LLC" or
	// "The" keeps its single remaining token.
	for len(fields) > 1 {
		switch {
		case articleTokens[fields[0]]:
			fields = fields[1:]
		case legalSuffixTokens[fields[len(fields)-1]]:
			fields = fields[:len(fields)-1]
		default:
			return strings.Join(fields, " ")
		}
	}

	return strings.Join(fields, " ")
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
