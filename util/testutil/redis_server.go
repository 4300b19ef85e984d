package testutil

import (
	"time"

	"github.com/alicebob/miniredis/v2"
)

// RedisServer is an in-process Redis for tests of the shared state
// title store.
type RedisServer struct {
	server *miniredis.Miniredis
}

func NewRedisServer() *RedisServer {
	server, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	return &RedisServer{
		server: server,
	}
}

func (s *RedisServer) Addr() string {
	return s.server.Addr()
}

// Get returns the raw value stored at key, or "" if there is none.
func (s *RedisServer) Get(key string) string {
	value, _ := s.server.Get(key)
	return value
}

// TTL returns the time to live of key as miniredis tracks it.
func (s *RedisServer) TTL(key string) time.Duration {
	return s.server.TTL(key)
}

func (s *RedisServer) Close() {
	s.server.Close()
}
