package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
)

const ExportBucket = "nl-exports"

// S3Server accepts object uploads the way an S3 endpoint does and
// remembers the keys it received. Only single-part PUT is supported,
// which is all minio uses for files below its multipart threshold.
type S3Server struct {
	URL     string
	Host    string
	server  *httptest.Server
	mutex   sync.Mutex
	objects map[string]int64
	types   map[string]string
}

func NewS3Server() *S3Server {
	s := &S3Server{
		objects: make(map[string]int64),
		types:   make(map[string]string),
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	s.URL = s.server.URL
	s.Host = strings.TrimPrefix(s.server.URL, "http://")
	return s
}

func (s *S3Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusNotImplemented)
		return
	}
	n, _ := io.Copy(io.Discard, r.Body)
	r.Body.Close()
	key := strings.TrimPrefix(r.URL.Path, "/")
	s.mutex.Lock()
	s.objects[key] = n
	s.types[key] = r.Header.Get("Content-Type")
	s.mutex.Unlock()
	w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
	w.WriteHeader(http.StatusOK)
}

// Keys returns the bucket/key paths received so far, sorted.
func (s *S3Server) Keys() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	keys := make([]string, 0, len(s.objects))
	for key := range s.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ContentType returns the Content-Type sent with key.
func (s *S3Server) ContentType(key string) string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.types[key]
}

func (s *S3Server) Close() {
	s.server.Close()
}
