package export

import (
	"context"
	"fmt"

	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
)

// Searcher runs catalog searches. *network.PloneClient implements it.
type Searcher interface {
	Search(ctx context.Context, query plone.SearchQuery) (*plone.SearchResults, error)
	SearchPage(ctx context.Context, pageURL string) (*plone.SearchResults, error)
}

// Pager walks all batches of a search result.
type Pager struct {
	client Searcher
}

func NewPager(client Searcher) *Pager {
	return &Pager{client: client}
}

// Count returns the total number of hits for query. It asks for a
// single item, so it is cheap even for large result sets.
func (p *Pager) Count(ctx context.Context, query plone.SearchQuery) (int, error) {
	results, err := p.client.Search(ctx, query.WithBatchSize(1))
	if err != nil {
		return 0, err
	}
	return results.ItemsTotal, nil
}

// Each calls fn for every hit in server order, following the batching
// links until there are no more. It stops at the first error, whether
// from the server or from fn.
func (p *Pager) Each(ctx context.Context, query plone.SearchQuery, fn func(*plone.SummaryRecord) error) error {
	results, err := p.client.Search(ctx, query)
	seen := make(map[string]bool)
	for {
		if err != nil {
			return err
		}
		for i := range results.Items {
			if err := fn(&results.Items[i]); err != nil {
				return err
			}
		}
		next := results.NextPage()
		if next == "" {
			return nil
		}
		if seen[next] {
			return fmt.Errorf("search batching loops back to %s", next)
		}
		seen[next] = true
		results, err = p.client.SearchPage(ctx, next)
	}
}
