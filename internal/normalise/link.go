package normalise

import "strings"

// ProfileLink canonicalises a LinkedIn profile URL so the same profile
// matches regardless of tracking parameters, scheme, or regional
// subdomain: only the "/in/<slug>" portion matters. Values without an
// "/in/" segment are not profile links and are returned lowercased.
func ProfileLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}

	_, after, found := strings.Cut(link, "/in/")
	if !found {
		return strings.ToLower(link)
	}

	slug, _, _ := strings.Cut(after, "?")
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return strings.ToLower(link)
	}

	return "https://www.linkedin.com/in/" + slug + "/"
}
