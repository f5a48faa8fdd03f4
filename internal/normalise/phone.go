package normalise

import "strings"

// Phone normalises a phone number by stripping every non-digit
// character. Blank or digit-free input returns the empty string, which
// callers treat as "no phone signal".
func Phone(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
