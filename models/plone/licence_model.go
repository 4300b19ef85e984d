package plone

import (
	"net/url"

	"gitlab.gbv.de/nationallizenzen/nl-export/constants"
)

// LicenceModelRef is a resolved licence model: the thing an export
// artifact is produced for.
type LicenceModelRef struct {
	UID   string
	URL   string
	Title string
	Kind  Kind
}

// Path returns the path component of the model's URL, which is what
// the catalog's path index expects.
func (m *LicenceModelRef) Path() string {
	u, err := url.Parse(m.URL)
	if err != nil {
		return m.URL
	}
	return u.Path
}

// LicenceQuery returns the search query that selects all licences
// below this model.
func (m *LicenceModelRef) LicenceQuery() SearchQuery {
	return SearchQuery{
		PortalTypes:    []string{constants.TypeLicence},
		Paths:          []string{m.Path()},
		MetadataFields: []string{"UID", "review_state", "licencee"},
		SortOn:         constants.SortOnTitle,
	}
}
