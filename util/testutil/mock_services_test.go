package testutil_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.gbv.de/nationallizenzen/nl-export/util/testutil"
)

const expectedText = "Test http string\n"

var headers = map[string]string{
	"Header1": "Value1",
	"Header2": "Value2",
}

// Should return the string expectedText.
func TestHttpStringResponder(t *testing.T) {
	handler := testutil.HttpStringResponder(headers, expectedText)
	testServer := httptest.NewServer(handler)
	defer testServer.Close()

	resp, err := http.Get(testServer.URL)
	require.Nil(t, err)

	assertEqualHeaders(t, resp)

	data := getResponseBody(t, resp)
	assert.Equal(t, expectedText, string(data))
}

func TestHttpErrorResponder(t *testing.T) {
	testServer := httptest.NewServer(testutil.HttpErrorResponder(http.StatusForbidden, "Forbidden", "go away"))
	defer testServer.Close()

	resp, err := http.Get(testServer.URL)
	require.Nil(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"type": "Forbidden", "message": "go away"}`, string(getResponseBody(t, resp)))
}

func TestPloneServer(t *testing.T) {
	server := testutil.NewPloneServer("token")
	defer server.Close()
	server.HandleJSON("/item", `{"@id": "item"}`)

	get := func(path, token string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, server.URL+path, nil)
		require.Nil(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.Nil(t, err)
		return resp
	}

	resp := get("/item", "token")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"@id": "item"}`, string(getResponseBody(t, resp)))

	resp = get("/item", "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = get("/missing", "token")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, 2, server.Hits("/item"))
	assert.Equal(t, 1, server.Hits("/missing"))
	assert.Equal(t, 3, server.TotalHits())
}

func TestS3Server(t *testing.T) {
	server := testutil.NewS3Server()
	defer server.Close()

	req, err := http.NewRequest(http.MethodPut, server.URL+"/bucket/some/key.csv", nil)
	require.Nil(t, err)
	req.Header.Set("Content-Type", "text/csv")
	resp, err := http.DefaultClient.Do(req)
	require.Nil(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("ETag"))

	assert.Equal(t, []string{"bucket/some/key.csv"}, server.Keys())
	assert.Equal(t, "text/csv", server.ContentType("bucket/some/key.csv"))
}

func TestRedisServer(t *testing.T) {
	server := testutil.NewRedisServer()
	defer server.Close()
	assert.NotEmpty(t, server.Addr())
	assert.Equal(t, "", server.Get("nothing"))
}

func assertEqualHeaders(t *testing.T, resp *http.Response) {
	for key, value := range headers {
		assert.Equal(t, value, resp.Header.Get(key))
	}
}

func getResponseBody(t *testing.T, resp *http.Response) []byte {
	data, err := io.ReadAll(resp.Body)
	require.Nil(t, err)
	resp.Body.Close()
	return data
}
