package plone

import (
	"net/url"
	"strconv"
)

// SearchQuery holds the few @search parameters nl-export uses.
// Empty fields are left out of the query string.
type SearchQuery struct {
	PortalTypes    []string
	Paths          []string
	ReviewStates   []string
	ObjectProvides []string
	MetadataFields []string
	SortOn         string
	ID             string
	BatchSize      int
}

// WithReviewStates returns a copy of the query restricted to the
// given review states. An empty list leaves the query unrestricted.
func (q SearchQuery) WithReviewStates(states []string) SearchQuery {
	if len(states) > 0 {
		q.ReviewStates = append([]string(nil), states...)
	}
	return q
}

// WithBatchSize returns a copy of the query with b_size set.
func (q SearchQuery) WithBatchSize(size int) SearchQuery {
	q.BatchSize = size
	return q
}

// Values encodes the query as URL parameters.
func (q SearchQuery) Values() url.Values {
	params := url.Values{}
	for _, v := range q.PortalTypes {
		params.Add("portal_type", v)
	}
	for _, v := range q.Paths {
		params.Add("path", v)
	}
	for _, v := range q.ReviewStates {
		params.Add("review_state", v)
	}
	for _, v := range q.ObjectProvides {
		params.Add("object_provides", v)
	}
	for _, v := range q.MetadataFields {
		params.Add("metadata_fields", v)
	}
	if q.SortOn != "" {
		params.Set("sort_on", q.SortOn)
	}
	if q.ID != "" {
		params.Set("id", q.ID)
	}
	if q.BatchSize > 0 {
		params.Set("b_size", strconv.Itoa(q.BatchSize))
	}
	return params
}

// SearchResults is one batch of an @search response.
type SearchResults struct {
	ID         string          `json:"@id"`
	ItemsTotal int             `json:"items_total"`
	Items      []SummaryRecord `json:"items"`
	Batching   *Batching       `json:"batching"`
}

// Batching holds the links plone.restapi adds when a result set
// spans more than one batch.
type Batching struct {
	ID    string `json:"@id"`
	First string `json:"first"`
	Last  string `json:"last"`
	Next  string `json:"next"`
	Prev  string `json:"prev"`
}

// NextPage returns the URL of the next batch, or "" on the last one.
func (r *SearchResults) NextPage() string {
	if r.Batching == nil {
		return ""
	}
	return r.Batching.Next
}

// SummaryRecord is one search hit. For licence searches the licencee
// reference is filled from catalog metadata.
type SummaryRecord struct {
	ID          string     `json:"@id"`
	Type        string     `json:"@type"`
	UID         string     `json:"UID"`
	Title       string     `json:"title"`
	ReviewState string     `json:"review_state"`
	Licencee    *EntityRef `json:"licencee"`
}

// LicencePair identifies one licence and the licencee it was granted
// to. Both are item URLs.
type LicencePair struct {
	Licence  string
	Licencee string
}

// Pair builds the LicencePair for a licence search hit.
func (r *SummaryRecord) Pair() LicencePair {
	pair := LicencePair{Licence: r.ID}
	if r.Licencee != nil {
		pair.Licencee = r.Licencee.ID
	}
	return pair
}
