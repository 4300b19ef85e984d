package formatter

import (
	"strings"

	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
	"golang.org/x/text/unicode/norm"
)

const maxNameLength = 255

// Slug turns a title into a safe file name. Accented letters keep
// their base letter, spaces become underscores and everything except
// ASCII letters, digits, underscore, dot and hyphen is dropped. The
// result is cut to 255 bytes and lower-cased.
func Slug(title string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ReplaceAll(title, " ", "_")) {
		if isSlugRune(r) {
			b.WriteRune(r)
		}
	}
	slug := b.String()
	if len(slug) > maxNameLength {
		slug = slug[:maxNameLength]
	}
	return strings.ToLower(slug)
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '_' || r == '.' || r == '-'
}

// ArtifactName returns the base name of the artifact for model: the
// slug of its title, or of its UID if the title has nothing usable.
func ArtifactName(model *plone.LicenceModelRef) string {
	for _, candidate := range []string{model.Title, model.UID} {
		if name := Slug(candidate); strings.Trim(name, ".") != "" {
			return name
		}
	}
	return "export"
}
