package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/op/go-logging"
	"gitlab.gbv.de/nationallizenzen/nl-export/constants"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/common"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
)

// DetailGetter fetches full licence and licencee items.
type DetailGetter interface {
	Licence(ctx context.Context, itemURL string, expand ...string) (*plone.Licence, error)
	Licencee(ctx context.Context, itemURL string) (*plone.Licencee, error)
}

// FetchError says which pair could not be fetched.
type FetchError struct {
	Pair plone.LicencePair
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("licence %s: %v", e.Pair.Licence, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

var errNoLicencee = errors.New("licence has no licencee")

// Fetcher loads everything needed for one row.
type Fetcher struct {
	client DetailGetter
	states *StateCache
	logger *logging.Logger
}

func NewFetcher(client DetailGetter, states *StateCache, logger *logging.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		states: states,
		logger: logger,
	}
}

// Fetch gets the licence with its relations expanded. If the server
// did not embed the licencee, or the licence itself could not be
// loaded, the licencee is fetched on its own. Rejected credentials
// are never retried.
func (f *Fetcher) Fetch(ctx context.Context, pair plone.LicencePair) (*plone.LicenceData, error) {
	licence, err := f.client.Licence(ctx, pair.Licence, constants.ExpandRelations)
	if err != nil {
		if common.IsUnauthorized(err) || ctx.Err() != nil {
			return nil, &FetchError{Pair: pair, Err: err}
		}
		f.logger.Infof("Licence %s: %v. Fetching licencee directly.", pair.Licence, err)
		licence = &plone.Licence{ID: pair.Licence}
	}

	licencee, expandErr := licence.ExpandedLicencee()
	if expandErr != nil {
		f.logger.Infof("Licence %s: cannot decode embedded licencee: %v", pair.Licence, expandErr)
	}
	if licencee == nil {
		licenceeURL := pair.Licencee
		if licenceeURL == "" && licence.Licencee != nil {
			licenceeURL = licence.Licencee.ID
		}
		if licenceeURL == "" {
			if err == nil {
				err = errNoLicencee
			}
			return nil, &FetchError{Pair: pair, Err: err}
		}
		licencee, err = f.client.Licencee(ctx, licenceeURL)
		if err != nil {
			return nil, &FetchError{Pair: pair, Err: err}
		}
	}

	return &plone.LicenceData{
		Pair:       pair,
		Licence:    licence,
		Licencee:   licencee,
		StateTitle: f.states.Title(ctx, licencee),
	}, nil
}
