package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// PloneServer is a fake plone.restapi backend. Handlers are registered
// per URL path. Requests without the expected bearer token get a 401
// and unknown paths get a 404. Every request is counted per path.
type PloneServer struct {
	URL    string
	Token  string
	server *httptest.Server
	mutex  sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
	total  int
}

// NewPloneServer starts a fake portal that accepts only token.
func NewPloneServer(token string) *PloneServer {
	s := &PloneServer{
		Token:  token,
		routes: make(map[string]http.HandlerFunc),
		hits:   make(map[string]int),
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	s.URL = s.server.URL
	return s
}

func (s *PloneServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	s.hits[r.URL.Path]++
	s.total++
	handler, ok := s.routes[r.URL.Path]
	s.mutex.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+s.Token {
		HttpErrorResponder(http.StatusUnauthorized, "Unauthorized", "You are not authorized to access this resource.")(w, r)
		return
	}
	if !ok {
		HttpErrorResponder(http.StatusNotFound, "NotFound", "Resource not found: "+r.URL.Path)(w, r)
		return
	}
	handler(w, r)
}

// Handle registers handler for path.
func (s *PloneServer) Handle(path string, handler http.HandlerFunc) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.routes[path] = handler
}

// HandleJSON makes path reply with status 200 and body.
func (s *PloneServer) HandleJSON(path, body string) {
	s.Handle(path, HttpJSONResponder(http.StatusOK, body))
}

// Hits returns the number of requests for path.
func (s *PloneServer) Hits(path string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests for any path.
func (s *PloneServer) TotalHits() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.total
}

func (s *PloneServer) Close() {
	s.server.Close()
}
