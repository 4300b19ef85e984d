package plone

import (
	"gitlab.gbv.de/nationallizenzen/nl-export/constants"
)

// Kind is the closed set of item types the resolver knows how to
// handle. Everything else is KindUnsupported.
type Kind int

const (
	KindUnsupported Kind = iota
	KindProduct
	KindStandardLicenceModel
	KindOptInLicenceModel
)

// KindOf maps a Plone portal_type to a Kind.
func KindOf(portalType string) Kind {
	switch portalType {
	case constants.TypeProduct:
		return KindProduct
	case constants.TypeStandardLicenceModel:
		return KindStandardLicenceModel
	case constants.TypeOptInLicenceModel:
		return KindOptInLicenceModel
	}
	return KindUnsupported
}

// IsLicenceModel returns true for the two licence model kinds.
func (k Kind) IsLicenceModel() bool {
	return k == KindStandardLicenceModel || k == KindOptInLicenceModel
}

func (k Kind) String() string {
	switch k {
	case KindProduct:
		return constants.TypeProduct
	case KindStandardLicenceModel:
		return constants.TypeStandardLicenceModel
	case KindOptInLicenceModel:
		return constants.TypeOptInLicenceModel
	}
	return "unsupported"
}
