package testutil

import (
	"encoding/json"
	"net/http"
)

// These functions allow us to mock http responses from Plone and S3.

var EmptyHeaders = make(map[string]string, 0)

var JSONHeaders = map[string]string{"Content-Type": "application/json"}

// Returns an http handler function that returns the specified
// string, along with the specified headers.
func HttpStringResponder(headers map[string]string, data string) http.HandlerFunc {
	f := func(w http.ResponseWriter, r *http.Request) {
		setHeaders(w, headers)
		w.Write([]byte(data))
	}
	return http.HandlerFunc(f)
}

// Returns an http handler function that replies with status and the
// JSON document data.
func HttpJSONResponder(status int, data string) http.HandlerFunc {
	f := func(w http.ResponseWriter, r *http.Request) {
		setHeaders(w, JSONHeaders)
		w.WriteHeader(status)
		w.Write([]byte(data))
	}
	return http.HandlerFunc(f)
}

// Returns an http handler function that replies with a plone.restapi
// style error document.
func HttpErrorResponder(status int, errType, message string) http.HandlerFunc {
	body, _ := json.Marshal(map[string]string{"type": errType, "message": message})
	return HttpJSONResponder(status, string(body))
}

func setHeaders(w http.ResponseWriter, headers map[string]string) {
	if headers != nil {
		for key, value := range headers {
			w.Header().Set(key, value)
		}
	}
}
