package network_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.gbv.de/nationallizenzen/nl-export/constants"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/common"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
	"gitlab.gbv.de/nationallizenzen/nl-export/network"
	"gitlab.gbv.de/nationallizenzen/nl-export/util/testutil"
)

func newPloneClient(t *testing.T, server *testutil.PloneServer, token string) *network.PloneClient {
	client, err := network.NewPloneClient(server.URL+"/", token, 5*time.Second, testLogger)
	require.Nil(t, err)
	return client
}

func TestNewPloneClient(t *testing.T) {
	_, err := network.NewPloneClient("cms.example.org", "token", time.Second, testLogger)
	assert.Error(t, err)

	client, err := network.NewPloneClient("https://cms.example.org:8443/nl/", "token", time.Second, testLogger)
	require.Nil(t, err)
	assert.Equal(t, "https://cms.example.org:8443/nl", client.BaseURL)
	assert.Equal(t, "cms.example.org:8443", client.Host())
	assert.Equal(t, "https://cms.example.org:8443/nl/@search", client.BuildURL("/@search"))
}

func TestNewJSONRequest(t *testing.T) {
	client, err := network.NewPloneClient("https://cms.example.org", "token", time.Second, testLogger)
	require.Nil(t, err)
	query := plone.SearchQuery{PortalTypes: []string{"A", "B"}, BatchSize: 1}
	req, err := client.NewJSONRequest(context.Background(), http.MethodGet,
		"https://cms.example.org/@search?b_start=25", query.Values())
	require.Nil(t, err)
	assert.Equal(t, "Bearer token", req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, []string{"A", "B"}, req.URL.Query()["portal_type"])
	assert.Equal(t, "25", req.URL.Query().Get("b_start"))
	assert.Equal(t, "1", req.URL.Query().Get("b_size"))
}

func TestPloneClientEntity(t *testing.T) {
	server := testutil.NewPloneServer(testToken)
	defer server.Close()
	server.HandleJSON("/products/springer", `{
		"@id": "`+server.URL+`/products/springer",
		"@type": "NLProduct",
		"UID": "abc",
		"title": "Springer",
		"parent": {"@id": "`+server.URL+`/products", "@type": "Folder"},
		"items": [{"@id": "`+server.URL+`/products/springer/standard", "@type": "NLStandardLicenceModel"}]
	}`)
	client := newPloneClient(t, server, testToken)

	entity, err := client.Entity(context.Background(), server.URL+"/products/springer")
	require.Nil(t, err)
	assert.Equal(t, "abc", entity.UID)
	assert.Equal(t, plone.KindProduct, entity.Kind())
	assert.Equal(t, "Folder", entity.Parent.Type)
	require.Len(t, entity.Items, 1)
}

func TestPloneClientEntityByUID(t *testing.T) {
	server := testutil.NewPloneServer(testToken)
	defer server.Close()
	server.Handle("/resolveuid/abc", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/products/springer", http.StatusFound)
	})
	server.HandleJSON("/products/springer", `{"@type": "NLProduct", "UID": "abc"}`)
	client := newPloneClient(t, server, testToken)

	entity, err := client.EntityByUID(context.Background(), "abc")
	require.Nil(t, err)
	assert.Equal(t, "abc", entity.UID)
	assert.Equal(t, 1, server.Hits("/resolveuid/abc"))
	assert.Equal(t, 1, server.Hits("/products/springer"))
}

func TestPloneClientErrors(t *testing.T) {
	server := testutil.NewPloneServer(testToken)
	defer server.Close()
	server.Handle("/broken", testutil.HttpErrorResponder(http.StatusInternalServerError, "InternalError", "boom"))
	server.HandleJSON("/garbage", `{not json`)
	ctx := context.Background()

	client := newPloneClient(t, server, testToken)
	_, err := client.Entity(ctx, server.URL+"/missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	var httpErr *common.HttpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, "NotFound")

	_, err = client.Entity(ctx, server.URL+"/broken")
	require.Error(t, err)
	assert.False(t, common.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "InternalError: boom")

	_, err = client.Entity(ctx, server.URL+"/garbage")
	require.Error(t, err)
	var decodeErr *common.Error
	assert.True(t, errors.As(err, &decodeErr))

	badClient := newPloneClient(t, server, "wrong-token")
	_, err = badClient.Entity(ctx, server.URL+"/broken")
	require.Error(t, err)
	assert.True(t, common.IsUnauthorized(err))
}

func TestPloneClientCancelled(t *testing.T) {
	server := testutil.NewPloneServer(testToken)
	defer server.Close()
	client := newPloneClient(t, server, testToken)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Entity(ctx, server.URL+"/anything")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, server.TotalHits())
}

func TestPloneClientSearch(t *testing.T) {
	server := testutil.NewPloneServer(testToken)
	defer server.Close()
	server.Handle("/@search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, constants.TypeLicence, r.URL.Query().Get("portal_type"))
		if r.URL.Query().Get("b_start") == "1" {
			testutil.HttpJSONResponder(http.StatusOK, `{"items_total": 2, "items": [{"@id": "l2"}]}`)(w, r)
			return
		}
		testutil.HttpJSONResponder(http.StatusOK, `{"items_total": 2, "items": [{"@id": "l1"}],
			"batching": {"next": "`+server.URL+`/@search?portal_type=NLLicence&b_start=1"}}`)(w, r)
	})
	client := newPloneClient(t, server, testToken)
	ctx := context.Background()

	results, err := client.Search(ctx, plone.SearchQuery{PortalTypes: []string{constants.TypeLicence}})
	require.Nil(t, err)
	assert.Equal(t, 2, results.ItemsTotal)
	require.NotEmpty(t, results.NextPage())

	results, err = client.SearchPage(ctx, results.NextPage())
	require.Nil(t, err)
	require.Len(t, results.Items, 1)
	assert.Equal(t, "l2", results.Items[0].ID)
	assert.Equal(t, "", results.NextPage())
}

func TestPloneClientLicenceAndWorkflow(t *testing.T) {
	server := testutil.NewPloneServer(testToken)
	defer server.Close()
	server.Handle("/m/l1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, constants.ExpandRelations, r.URL.Query().Get("expand"))
		testutil.HttpJSONResponder(http.StatusOK, `{"@id": "l1", "@components": {"completerelations": {"licencee": {"uid": "uni-a"}}}}`)(w, r)
	})
	server.HandleJSON("/lic/a", `{"uid": "uni-a", "review_state": "active"}`)
	server.HandleJSON("/lic/a/@workflow", `{"state": {"id": "active", "title": "Aktiv"}}`)
	client := newPloneClient(t, server, testToken)
	ctx := context.Background()

	licence, err := client.Licence(ctx, server.URL+"/m/l1", constants.ExpandRelations)
	require.Nil(t, err)
	licencee, err := licence.ExpandedLicencee()
	require.Nil(t, err)
	assert.Equal(t, "uni-a", licencee.UserName)

	licencee, err = client.Licencee(ctx, server.URL+"/lic/a")
	require.Nil(t, err)
	assert.Equal(t, "active", licencee.ReviewState)

	info, err := client.Workflow(ctx, server.URL+"/lic/a/")
	require.Nil(t, err)
	assert.Equal(t, "Aktiv", info.State.Title)
}
