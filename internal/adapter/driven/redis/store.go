// Package redis implements the session store ports on Redis via go-redis.
package redis

import (
	"context"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "dogdiscoverer:"

// Store holds the Redis client shared by the ban and history repositories.
type Store struct {
	client *backend.Client
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix for all session keys.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New connects to the Redis server at rawURL (redis:// or rediss://) and
// verifies the connection.
func New(ctx context.Context, rawURL string, opts ...Option) (*Store, error) {
	options, err := backend.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	store := NewFromClient(backend.NewClient(options), opts...)
	if err := store.client.Ping(ctx).Err(); err != nil {
		_ = store.client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return store, nil
}

// NewFromClient creates a Store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: defaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
