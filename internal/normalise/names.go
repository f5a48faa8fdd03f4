package normalise

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ignoredNameTokens is the closed list of titles, military ranks,
// religious and academic titles, generational suffixes, and degrees that
// carry no identity signal when matching names or building email
// candidates.
var ignoredNameTokens = map[string]bool{
	// Titles
	"dr": true, "mr": true, "ms": true, "mrs": true, "prof": true,
	"sir": true, "hon": true, "rev": true, "fr": true,
	// Military ranks
	"capt": true, "captain": true, "col": true, "colonel": true,
	"maj": true, "lt": true, "lieutenant": true, "sgt": true,
	"sergeant": true, "pvt": true, "private": true, "general": true,
	"admiral": true, "commander": true, "corporal": true, "cpl": true,
	// Religious titles
	"minister": true, "archbishop": true, "rabbi": true, "brother": true,
	"sister": true, "father": true, "mother": true,
	// Academic/professional titles
	"chancellor": true, "principal": true, "director": true,
	"president": true, "ceo": true, "cfo": true, "cto": true, "cmo": true,
	"vp": true, "svp": true, "evp": true, "chair": true, "chairman": true,
	"chairwoman": true,
	// Status indicators
	"ret": true, "retired": true, "emeritus": true,
	// Generational suffixes
	"jr": true, "sr": true, "junior": true, "senior": true,
	"ii": true, "iii": true, "iv": true, "v": true, "vi": true,
	"2nd": true, "3rd": true, "4th": true, "5th": true,
	// Degrees and certifications
	"mba": true, "phd": true, "msc": true, "bsc": true, "ba": true,
	"ma": true, "mtech": true, "btech": true, "jd": true, "edd": true,
	"cfa": true, "cpa": true, "acca": true, "ca": true, "cma": true,
	"cfp": true, "frms": true, "pmp": true, "sixsigma": true, "six": true,
	"sigma": true, "lssbb": true, "lssgb": true, "lean": true,
	"blackbelt": true, "rn": true, "md": true, "mbbs": true, "dds": true,
	"dmd": true, "do": true, "bpharm": true, "mph": true, "shrmp": true,
	"phr": true, "gphr": true, "sphr": true, "ccmp": true, "cpc": true,
	"cpcc": true, "aws": true, "gcp": true, "ccna": true, "mcsa": true,
	"ocp": true, "mcp": true, "comptia": true, "azure": true, "esq": true,
	"llb": true, "llm": true, "itil": true, "itl": true, "iti": true,
	"cissp": true, "ciso": true, "cism": true, "cris": true, "bms": true,
	"flmi": true, "hia": true, "mhp": true, "acs": true, "cpcu": true,
	"csm": true, "gaicd": true, "cmaicd": true, "fcipd": true,
	"cipd": true, "fcpd": true, "fcp": true, "fca": true, "fcma": true,
	"fcpa": true, "fbcs": true,
}

// IsIgnoredNameToken reports whether a token is a title, rank, degree,
// or generational suffix that should not contribute identity signal.
// Trailing periods are ignored ("Dr." matches "dr").
func IsIgnoredNameToken(token string) bool {
	return ignoredNameTokens[strings.TrimRight(strings.ToLower(token), ".")]
}

// foldTransformer decomposes characters and drops combining marks, so
// "José" folds to "Jose".
var foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// germanReplacer transliterates characters that lose information under
// plain mark-stripping (ü should become "ue", not "u").
var germanReplacer = strings.NewReplacer(
	"ü", "ue", "ö", "oe", "ä", "ae", "ß", "ss",
	"Ü", "ue", "Ö", "oe", "Ä", "ae", "ẞ", "ss",
)

// Fold transliterates known diacritics and strips any remaining
// non-ASCII bytes.
func Fold(text string) string {
	text = germanReplacer.Replace(text)
	if folded, _, err := transform.String(foldTransformer, text); err == nil {
		text = folded
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var (
	nameSeparators  = regexp.MustCompile(`[\s\-.'_]+`)
	disallowedLocal = regexp.MustCompile(`[^a-z0-9._-]`)
	primaryNameRe   = regexp.MustCompile(`^([^(]+)`)
)

// TokenizeName splits a name on whitespace, hyphens, periods,
// apostrophes, and underscores. Each token is folded, lowercased, and
// stripped of characters not valid in an email local part; empty tokens
// are discarded.
func TokenizeName(name string) []string {
	if strings.TrimSpace(name) == "" {
		return nil
	}

	raw := nameSeparators.Split(strings.TrimSpace(name), -1)
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		cleaned := disallowedLocal.ReplaceAllString(Fold(strings.ToLower(token)), "")
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}
	return tokens
}

// PrimaryName returns the portion of a name before any parenthesised
// remark, e.g. `William (Bill)` yields `William`.
func PrimaryName(name string) string {
	if m := primaryNameRe.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(name)
}

// RestructureCompoundName moves extra first-name tokens onto the last
// name so compound given names produce sensible email candidates:
//
//	"Jesus Ortiz", "Lopez"   -> "Jesus", "Ortiz Lopez"
//	"Dr. Lisa", "Ali"        -> "Lisa", "Ali"
//	"Prof. Maria Elena", "Garcia" -> "Maria", "Elena Garcia"
//
// Title and suffix tokens are discarded. If every first-name token is
// filtered out, the original names are returned unchanged.
func RestructureCompoundName(first, last string) (string, string) {
	if strings.TrimSpace(first) == "" || strings.TrimSpace(last) == "" {
		return strings.TrimSpace(first), strings.TrimSpace(last)
	}

	firstTokens := strings.Fields(first)
	lastTokens := strings.Fields(last)

	if len(firstTokens) <= 1 {
		return strings.TrimSpace(first), strings.TrimSpace(last)
	}

	valid := make([]string, 0, len(firstTokens))
	for _, token := range firstTokens {
		if !IsIgnoredNameToken(token) {
			valid = append(valid, token)
		}
	}
	if len(valid) == 0 {
		return strings.TrimSpace(first), strings.TrimSpace(last)
	}

	restructuredLast := strings.Join(append(valid[1:], lastTokens...), " ")
	return valid[0], restructuredLast
}
