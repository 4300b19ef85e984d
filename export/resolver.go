package export

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/op/go-logging"
	"gitlab.gbv.de/nationallizenzen/nl-export/constants"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/common"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
)

// EntityGetter fetches content items and runs searches.
// *network.PloneClient implements it.
type EntityGetter interface {
	Entity(ctx context.Context, itemURL string) (*plone.Entity, error)
	EntityByUID(ctx context.Context, uid string) (*plone.Entity, error)
	Search(ctx context.Context, query plone.SearchQuery) (*plone.SearchResults, error)
}

// Resolver turns what the user typed into a licence model. Accepted
// are Plone UIDs, item URLs on the configured portal and short names
// (the id of a product or licence model).
type Resolver struct {
	client EntityGetter
	host   string
	logger *logging.Logger
}

// NewResolver returns a resolver for items on the portal at host.
func NewResolver(client EntityGetter, host string, logger *logging.Logger) *Resolver {
	return &Resolver{
		client: client,
		host:   host,
		logger: logger,
	}
}

// Resolve returns the licence model token refers to. A product
// resolves to its first standard licence model. Errors wrap one of
// the common.Err* values and are marked fatal if the server rejected
// our credentials.
func (r *Resolver) Resolve(ctx context.Context, token string) (*plone.LicenceModelRef, error) {
	model, err := r.resolve(ctx, strings.TrimSpace(token))
	if err != nil {
		return nil, common.NewError(fmt.Sprintf("cannot resolve '%s'", token), err, common.IsUnauthorized(err))
	}
	r.logger.Infof("Resolved '%s' to %s %s (%s)", token, model.Kind, model.URL, model.Title)
	return model, nil
}

func (r *Resolver) resolve(ctx context.Context, token string) (*plone.LicenceModelRef, error) {
	if token == "" {
		return nil, common.ErrNoMatch
	}
	if uid, err := uuid.Parse(token); err == nil {
		entity, err := r.client.EntityByUID(ctx, strings.ReplaceAll(uid.String(), "-", ""))
		if err != nil {
			return nil, err
		}
		return r.fromEntity(ctx, entity)
	}

	itemURL, err := r.itemURL(ctx, token)
	if err != nil {
		return nil, err
	}
	entity, err := r.client.Entity(ctx, itemURL)
	if err != nil {
		return nil, err
	}
	return r.fromEntity(ctx, entity)
}

// itemURL returns the URL to fetch for token, which is either a URL
// on our portal or a short name.
func (r *Resolver) itemURL(ctx context.Context, token string) (string, error) {
	u, err := url.Parse(token)
	if err == nil && u.Host != "" {
		if !strings.EqualFold(u.Host, r.host) {
			return "", fmt.Errorf("%w: %s is not %s", common.ErrUnknownHost, u.Host, r.host)
		}
		return token, nil
	}
	query := plone.SearchQuery{
		PortalTypes: constants.ResolvableTypes,
		ID:          token,
	}
	results, err := r.client.Search(ctx, query)
	if err != nil {
		return "", err
	}
	switch len(results.Items) {
	case 0:
		return "", common.ErrNoMatch
	case 1:
		return results.Items[0].ID, nil
	}
	ids := make([]string, len(results.Items))
	for i, item := range results.Items {
		ids[i] = item.ID
	}
	return "", fmt.Errorf("%w: %s", common.ErrAmbiguousMatch, strings.Join(ids, ", "))
}

func (r *Resolver) fromEntity(ctx context.Context, entity *plone.Entity) (*plone.LicenceModelRef, error) {
	if entity.Type == "" {
		return nil, common.ErrNotFound
	}
	switch kind := entity.Kind(); {
	case kind == plone.KindProduct:
		child := entity.FirstChildOfType(constants.TypeStandardLicenceModel)
		if child == nil {
			return nil, fmt.Errorf("%w: %s", common.ErrNoLicenceModel, entity.ID)
		}
		model, err := r.client.Entity(ctx, child.ID)
		if err != nil {
			return nil, err
		}
		if model.Kind() != plone.KindStandardLicenceModel {
			return nil, fmt.Errorf("%w: %s is a %s", common.ErrUnsupportedType, model.ID, model.Type)
		}
		return &plone.LicenceModelRef{
			UID:   model.UID,
			URL:   model.ID,
			Title: entity.Title,
			Kind:  plone.KindStandardLicenceModel,
		}, nil
	case kind.IsLicenceModel():
		title := entity.Title
		if entity.Parent != nil && plone.KindOf(entity.Parent.Type) == plone.KindProduct {
			title = entity.Parent.Title
		}
		return &plone.LicenceModelRef{
			UID:   entity.UID,
			URL:   entity.ID,
			Title: title,
			Kind:  kind,
		}, nil
	case kind == plone.KindUnsupported:
		return nil, fmt.Errorf("%w: %s is a %s", common.ErrUnsupportedType, entity.ID, entity.Type)
	}
	return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedType, entity.Type)
}
