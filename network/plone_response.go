package network

import (
	"encoding/json"
	"io"
	"net/http"

	"gitlab.gbv.de/nationallizenzen/nl-export/models/common"
)

// PloneResponse wraps one round trip to the Plone REST API.
type PloneResponse struct {
	// The HTTP request that was (or would have been) sent to
	// the Plone server. This is useful for logging and debugging.
	Request *http.Request

	// The HTTP Response from the server.
	//
	// Do not try to read Response.Body, since it's already been read
	// and the stream has been closed. Use the RawResponseData()
	// method instead.
	Response *http.Response

	// The error, if any, that occurred while processing this
	// request. Errors may come from the server (4xx or 5xx
	// responses) or from the client (e.g. if it could not
	// parse the JSON response). Server errors are always
	// *common.HttpError.
	Error error

	hasBeenRead bool
	data        []byte
}

// Returns the raw body of the HTTP response as a byte slice.
// The return value may be nil.
func (resp *PloneResponse) RawResponseData() ([]byte, error) {
	if !resp.hasBeenRead {
		resp.readResponse()
	}
	return resp.data, resp.Error
}

// Reads the body of an HTTP response object, closes the stream, and
// returns a byte array. The body MUST be closed, or you'll wind up
// with a lot of open network connections.
func (resp *PloneResponse) readResponse() {
	if !resp.hasBeenRead && resp.Response != nil && resp.Response.Body != nil {
		resp.data, resp.Error = io.ReadAll(resp.Response.Body)
		resp.Response.Body.Close()
		resp.hasBeenRead = true
	}
}

// StatusCode returns the HTTP status, or zero if no response arrived.
func (resp *PloneResponse) StatusCode() int {
	if resp.Response == nil {
		return 0
	}
	return resp.Response.StatusCode
}

// UnmarshalJSON decodes the response body into v. If the request
// already failed, it returns that error instead.
func (resp *PloneResponse) UnmarshalJSON(v interface{}) error {
	data, err := resp.RawResponseData()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		msg := "cannot decode response"
		if resp.Request != nil {
			msg = "cannot decode response from " + resp.Request.URL.String()
		}
		resp.Error = common.NewError(msg, err, false)
	}
	return resp.Error
}

// errorMessage pulls the message out of a plone.restapi error body,
// which looks like {"type": "Unauthorized", "message": "..."}.
func (resp *PloneResponse) errorMessage() string {
	body := struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{}
	if json.Unmarshal(resp.data, &body) == nil && body.Message != "" {
		if body.Type != "" {
			return body.Type + ": " + body.Message
		}
		return body.Message
	}
	msg := string(resp.data)
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	return msg
}
