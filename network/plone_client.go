package network

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/op/go-logging"
	"gitlab.gbv.de/nationallizenzen/nl-export/constants"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/common"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
)

// PloneClient performs authenticated, read-only calls against the
// plone.restapi endpoints of the licence portal. It is safe for
// concurrent use by the export workers.
type PloneClient struct {
	BaseURL     string
	AccessToken string
	httpClient  *http.Client
	logger      *logging.Logger
	transport   *http.Transport
}

// NewPloneClient creates a new client. Param baseURL is the portal
// root from the [plone] section of the config file. Param timeout
// caps each request including reading the body.
func NewPloneClient(baseURL, accessToken string, timeout time.Duration, logger *logging.Logger) (*PloneClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("base url '%s' is not an absolute URL", baseURL)
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
	}
	return &PloneClient{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		AccessToken: accessToken,
		logger:      logger,
		httpClient:  &http.Client{Transport: transport, Timeout: timeout},
		transport:   transport,
	}, nil
}

// Host returns the host (and port) of the portal.
func (client *PloneClient) Host() string {
	u, _ := url.Parse(client.BaseURL)
	return u.Host
}

// Entity returns the content item at itemURL.
func (client *PloneClient) Entity(ctx context.Context, itemURL string) (*plone.Entity, error) {
	entity := &plone.Entity{}
	return entity, client.Get(ctx, itemURL, nil, entity)
}

// EntityByUID returns the content item with the given UID, by way of
// Plone's resolveuid redirect.
func (client *PloneClient) EntityByUID(ctx context.Context, uid string) (*plone.Entity, error) {
	return client.Entity(ctx, client.BuildURL("/resolveuid/"+url.PathEscape(uid)))
}

// Licence returns the licence at itemURL with the named components
// expanded.
func (client *PloneClient) Licence(ctx context.Context, itemURL string, expand ...string) (*plone.Licence, error) {
	var params url.Values
	if len(expand) > 0 {
		params = url.Values{"expand": []string{strings.Join(expand, ",")}}
	}
	licence := &plone.Licence{}
	return licence, client.Get(ctx, itemURL, params, licence)
}

// Licencee returns the licencee at itemURL.
func (client *PloneClient) Licencee(ctx context.Context, itemURL string) (*plone.Licencee, error) {
	licencee := &plone.Licencee{}
	return licencee, client.Get(ctx, itemURL, nil, licencee)
}

// Workflow returns the workflow info of the item at itemURL.
func (client *PloneClient) Workflow(ctx context.Context, itemURL string) (*plone.WorkflowInfo, error) {
	info := &plone.WorkflowInfo{}
	return info, client.Get(ctx, strings.TrimRight(itemURL, "/")+"/@workflow", nil, info)
}

// Search returns the first batch of results for query.
func (client *PloneClient) Search(ctx context.Context, query plone.SearchQuery) (*plone.SearchResults, error) {
	results := &plone.SearchResults{}
	return results, client.Get(ctx, client.BuildURL("/@search"), query.Values(), results)
}

// SearchPage returns the batch at pageURL, which should come from
// the batching links of a previous batch.
func (client *PloneClient) SearchPage(ctx context.Context, pageURL string) (*plone.SearchResults, error) {
	results := &plone.SearchResults{}
	return results, client.Get(ctx, pageURL, nil, results)
}

// Get requests absoluteURL with params added to its query string and
// decodes the JSON response into v.
func (client *PloneClient) Get(ctx context.Context, absoluteURL string, params url.Values, v interface{}) error {
	resp := &PloneResponse{}
	client.DoRequest(ctx, resp, http.MethodGet, absoluteURL, params)
	if resp.Error != nil {
		return resp.Error
	}
	return resp.UnmarshalJSON(v)
}

// Utility Methods
// -------------------------------------------------------------------------

// BuildURL appends relativeURL to the portal root. For example, if
// client.BaseURL is "https://cms.example.org/nl", then
// client.BuildURL("/@search") returns "https://cms.example.org/nl/@search".
func (client *PloneClient) BuildURL(relativeURL string) string {
	return client.BaseURL + relativeURL
}

// NewJSONRequest returns a new GET request with bearer authentication
// and headers asking for a JSON response. Params are merged into any
// query string absoluteURL already carries.
func (client *PloneClient) NewJSONRequest(ctx context.Context, method, absoluteURL string, params url.Values) (*http.Request, error) {
	u, err := url.Parse(absoluteURL)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		query := u.Query()
		for key, values := range params {
			for _, value := range values {
				query.Add(key, value)
			}
		}
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", "Bearer "+client.AccessToken)
	req.Header.Add("User-Agent", constants.AppName)
	return req, nil
}

// DoRequest issues an HTTP request, reads the response, and closes the
// connection to the remote server.
//
// If an error occurs, it will be recorded in resp.Error. Responses with
// status >= 400 produce a *common.HttpError, which wraps
// common.ErrUnauthorized for 401, common.ErrForbidden for 403 and
// common.ErrNotFound for 404.
func (client *PloneClient) DoRequest(ctx context.Context, resp *PloneResponse, method, absoluteURL string, params url.Values) {
	// Build the request
	request, err := client.NewJSONRequest(ctx, method, absoluteURL, params)
	resp.Request = request
	if err != nil {
		resp.Error = fmt.Errorf("%s %s: %w", method, absoluteURL, err)
		return
	}

	// Issue the HTTP request
	reqTime := time.Now()
	resp.Response, resp.Error = client.httpClient.Do(request)
	client.logger.Debugf("%s %s completed in %s", method, request.URL.String(), time.Since(reqTime))
	if resp.Error != nil {
		resp.Error = fmt.Errorf("%s %s: %w", method, absoluteURL, resp.Error)
		return
	}

	// Read the response data and close the response body.
	resp.readResponse()

	if resp.Error == nil && resp.Response.StatusCode >= 400 {
		resp.Error = common.NewHttpError(
			resp.errorMessage(),
			nil,
			method,
			request.URL.String(),
			resp.Response.StatusCode)
	}
}

// CloseIdleConnections releases pooled connections. Call this when
// the export is done.
func (client *PloneClient) CloseIdleConnections() {
	client.transport.CloseIdleConnections()
}
