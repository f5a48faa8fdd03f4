// Package permute synthesises plausible email addresses from a person's
// name and a domain. The candidate sets are used two ways: suppression
// and duplicate matching wants maximum coverage, while validation wants
// realistic patterns only. The two presets differ in token filtering and
// budget.
package permute

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/leadscreen-cli/internal/normalise"
)

// ErrNoCandidates indicates the inputs were present but no usable name
// tokens survived cleaning, so no candidates could be generated.
var ErrNoCandidates = errors.New("no permutation candidates")

// separators are the joiners used between name fragments in a local
// part, in generation order. The empty separator produces concatenated
// forms like "janedoe".
var separators = [4]string{"", ".", "_", "-"}

// Options controls candidate generation.
type Options struct {
	// TokenMinLen is the minimum token length admitted in token mode.
	TokenMinLen int

	// Budget caps how many extra candidates token mode may add.
	Budget int

	// TokenMode enables the budgeted token expansion pass.
	TokenMode bool
}

// Suppression returns the permissive preset used for suppression and
// duplicate matching: single-letter tokens admitted, large budget.
func Suppression() Options {
	return Options{TokenMinLen: 1, Budget: 100, TokenMode: true}
}

// Validation returns the stricter preset used when guessing a lead's
// real address: single-letter tokens excluded, smaller budget.
func Validation() Options {
	return Options{TokenMinLen: 2, Budget: 60, TokenMode: true}
}

// Set is a collection of candidate email addresses.
type Set map[string]struct{}

// Has reports whether the candidate is present.
func (s Set) Has(email string) bool {
	_, ok := s[email]
	return ok
}

// Intersects reports whether any candidate is shared with other.
func (s Set) Intersects(other Set) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for email := range small {
		if _, ok := large[email]; ok {
			return true
		}
	}
	return false
}

// add inserts a candidate unless it is blank.
func (s Set) add(emails ...string) {
	for _, email := range emails {
		if email != "" {
			s[email] = struct{}{}
		}
	}
}

var localCleaner = regexp.MustCompile(`[^a-z0-9._-]`)

// Generate produces the candidate set for one (first, last, domain)
// triple. Compound first names are restructured first; if restructuring
// changed anything, the unrestructured form is generated too and the
// results unioned, covering cultures where the original order is itself
// a valid identity. Returns ErrNoCandidates when the inputs carried
// signal that cleaning destroyed entirely.
func Generate(first, last, domain string, opts Options) (Set, error) {
	restructuredFirst, restructuredLast := normalise.RestructureCompoundName(first, last)

	out := make(Set)
	for email := range corePatterns(restructuredFirst, restructuredLast, domain) {
		out[email] = struct{}{}
	}

	if restructuredFirst != strings.TrimSpace(first) || restructuredLast != strings.TrimSpace(last) {
		for email := range corePatterns(first, last, domain) {
			out[email] = struct{}{}
		}
	}

	if len(out) == 0 {
		if strings.TrimSpace(first) != "" && strings.TrimSpace(last) != "" && strings.TrimSpace(domain) != "" {
			return out, ErrNoCandidates
		}
		return out, nil
	}

	if opts.TokenMode {
		expandTokens(out, first, last, restructuredFirst, restructuredLast, domain, opts)
	}

	return out, nil
}

// corePatterns builds the fixed pattern grid for one name pair. Returns
// an empty set when either name side or the domain yields nothing.
func corePatterns(first, last, domain string) Set {
	out := make(Set)

	firstParts := cleanParts(normalise.PrimaryName(strings.ToLower(strings.TrimSpace(first))))
	domain = strings.ToLower(strings.TrimSpace(domain))

	lastParts := cleanParts(strings.ToLower(strings.TrimSpace(last)))

	if len(firstParts) == 0 || len(lastParts) == 0 || domain == "" {
		return out
	}

	// Titles and degrees in the last-name field carry no signal.
	kept := lastParts[:0]
	for _, part := range lastParts {
		if !normalise.IsIgnoredNameToken(part) {
			kept = append(kept, part)
		}
	}
	lastParts = kept
	if len(lastParts) == 0 {
		return out
	}

	fFull := strings.Join(firstParts, "")
	lFull := strings.Join(lastParts, "")
	fInitial := initialOf(firstParts[0])
	lInitial := initialOf(lastParts[0])
	lastWord := lastParts[len(lastParts)-1]

	// Each first part x each last part, both orders, every separator.
	for _, f := range firstParts {
		for _, l := range lastParts {
			for _, sep := range separators {
				out.add(f+sep+l+"@"+domain, l+sep+f+"@"+domain)
			}
		}
	}

	// Full concatenations, both orders, plus the bare full forms.
	for _, sep := range separators {
		out.add(fFull+sep+lFull+"@"+domain, lFull+sep+fFull+"@"+domain)
	}
	out.add(fFull+"@"+domain, lFull+"@"+domain)

	// Initials against the opposite full form.
	if lInitial != "" {
		for _, sep := range separators {
			out.add(fFull+sep+lInitial+"@"+domain, lInitial+sep+fFull+"@"+domain)
		}
	}
	if fInitial != "" {
		for _, sep := range separators {
			out.add(lFull+sep+fInitial+"@"+domain, fInitial+sep+lFull+"@"+domain)
		}
	}

	// Full first name against the initial of every last part.
	for _, lp := range lastParts {
		if lp == "" {
			continue
		}
		for _, sep := range separators {
			out.add(fFull + sep + initialOf(lp) + "@" + domain)
		}
	}

	// Fallback forms built on the final last-name word.
	if lastWord != "" {
		out.add(
			fFull+"."+lastWord+"@"+domain,
			fFull+lastWord+"@"+domain,
		)
		if fInitial != "" {
			out.add(
				fInitial+"."+lastWord+"@"+domain,
				fInitial+lastWord+"@"+domain,
			)
		}
	}

	// Compound last names: the concatenated form as a single token.
	if len(lastParts) > 1 {
		for _, sep := range separators {
			out.add(fFull+sep+lFull+"@"+domain, lFull+sep+fFull+"@"+domain)
			if fInitial != "" {
				out.add(fInitial+sep+lFull+"@"+domain, lFull+sep+fInitial+"@"+domain)
			}
		}
		out.add(lFull + "@" + domain)
	}

	// Compound first names: pairwise combinations of the given-name
	// tokens themselves ("Ba Loc" -> ba.loc@).
	if len(firstParts) > 1 {
		for i := 0; i < len(firstParts); i++ {
			for j := i + 1; j < len(firstParts); j++ {
				for _, sep := range separators {
					out.add(firstParts[i] + sep + firstParts[j] + "@" + domain)
				}
			}
		}
	}

	return out
}

// expandTokens runs the budgeted token-mode pass: every distinct name
// token (restructured and original forms) is combined with the first
// name fragments and with every other token. Tokens are walked longest
// first, ties broken lexicographically, so expansion is deterministic;
// generation stops once the budget is spent.
func expandTokens(out Set, first, last, restructuredFirst, restructuredLast, domain string, opts Options) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return
	}

	firstParts := cleanParts(normalise.PrimaryName(strings.ToLower(strings.TrimSpace(restructuredFirst))))
	fFull := strings.Join(firstParts, "")
	fInitial := ""
	if len(firstParts) > 0 {
		fInitial = initialOf(firstParts[0])
	}

	seen := make(map[string]bool)
	var tokens []string
	for _, name := range []string{restructuredFirst, restructuredLast, first, last} {
		for _, token := range normalise.TokenizeName(name) {
			if seen[token] {
				continue
			}
			seen[token] = true
			if len(token) < opts.TokenMinLen || normalise.IsIgnoredNameToken(token) {
				continue
			}
			tokens = append(tokens, token)
		}
	}

	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})

	remaining := opts.Budget
	for _, token := range tokens {
		if remaining <= 0 {
			return
		}

		var candidates []string
		for _, f := range firstParts {
			for _, sep := range separators {
				candidates = append(candidates, f+sep+token+"@"+domain, token+sep+f+"@"+domain)
			}
		}
		if fFull != "" {
			for _, sep := range separators {
				candidates = append(candidates, fFull+sep+token+"@"+domain, token+sep+fFull+"@"+domain)
			}
		}
		candidates = append(candidates, token+"@"+domain)
		if fInitial != "" {
			candidates = append(candidates,
				fInitial+"."+token+"@"+domain,
				fInitial+token+"@"+domain,
				token+fInitial+"@"+domain,
				token+"."+fInitial+"@"+domain,
				token+"_"+fInitial+"@"+domain,
				token+"-"+fInitial+"@"+domain,
			)
		}
		for _, other := range tokens {
			if other == token {
				continue
			}
			for _, sep := range separators {
				candidates = append(candidates, token+sep+other+"@"+domain)
			}
		}

		for _, candidate := range candidates {
			if out.Has(candidate) {
				continue
			}
			out.add(candidate)
			remaining--
			if remaining <= 0 {
				return
			}
		}
	}
}

// cleanParts splits on whitespace and reduces each part to folded,
// email-local-safe characters.
func cleanParts(name string) []string {
	fields := strings.Fields(name)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		cleaned := localCleaner.ReplaceAllString(normalise.Fold(field), "")
		if cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return parts
}

func initialOf(part string) string {
	if part == "" {
		return ""
	}
	return part[:1]
}
