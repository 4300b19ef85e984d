// Package formatter writes exported licencees to csv, xml or json
// artifacts. Each licence model gets exactly one artifact.
package formatter

import (
	"errors"
	"fmt"

	"gitlab.gbv.de/nationallizenzen/nl-export/constants"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
)

var ErrUnknownFormat = errors.New("unknown format")

// Formatter owns the artifact for one licence model. Call Open once,
// then AddRow for every record in order, then Close. AddRow(nil)
// writes the header, which Open already does for formats that have
// one.
type Formatter interface {
	Open() error
	AddRow(data *plone.LicenceData) error
	Close() error
	Path() string
}

// New returns the formatter for format, writing into destDir.
func New(format string, model *plone.LicenceModelRef, destDir string) (Formatter, error) {
	name := ArtifactName(model)
	switch format {
	case constants.FormatCSV:
		return NewCSV(destDir, name), nil
	case constants.FormatXML:
		return NewXML(destDir, name), nil
	case constants.FormatJSON:
		return NewJSON(destDir, name), nil
	}
	return nil, fmt.Errorf("%w '%s', use one of %v", ErrUnknownFormat, format, constants.Formats)
}
