package network

import (
	"fmt"
	"time"

	"github.com/go-redis/redis/v7"
)

const stateKeyPrefix = "nl-export:state:"

// RedisClient shares review state titles between nl-export runs and
// hosts. Titles expire after ttl so renamed states show up eventually.
type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(address, password string, db int, ttl time.Duration) *RedisClient {
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:     address,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

func (c *RedisClient) Ping() (string, error) {
	return c.client.Ping().Result()
}

// StateTitle returns the cached title for a review state code. The
// second return value is false if nothing is cached.
func (c *RedisClient) StateTitle(code string) (string, bool, error) {
	title, err := c.client.Get(stateKeyPrefix + code).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("StateTitle (%s): %s", code, err.Error())
	}
	return title, true, nil
}

// SaveStateTitle caches the title for a review state code.
func (c *RedisClient) SaveStateTitle(code, title string) error {
	_, err := c.client.Set(stateKeyPrefix+code, title, c.ttl).Result()
	if err != nil {
		return fmt.Errorf("SaveStateTitle (%s): %s", code, err.Error())
	}
	return nil
}

func (c *RedisClient) Close() error {
	return c.client.Close()
}
