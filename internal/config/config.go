// Package config provides process-wide configuration for the plannable
// façades (cmd/plannable, internal/bot, internal/httpapi). Logging setup
// lives alongside it in logging.go.
package config

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// Config holds the process-wide settings the façades read from. It is
// never treated as a catalog: the catalog itself is an explicit value
// handed to each façade by internal/catalogcache, never a field here.
type Config struct {
	Ctx    context.Context
	KV     *redis.Client
	Client *http.Client

	IsDevelopment bool
	Environment   string

	// CatalogPath is the roster export internal/ingest reads to build the
	// initial catalog.
	CatalogPath string
	// HTTPAddr is the listen address for internal/httpapi; empty disables it.
	HTTPAddr string
	// DiscordToken enables internal/bot when non-empty.
	DiscordToken string
}

// New returns a Config with a background context and no optional
// integrations configured.
func New() (*Config, error) {
	return &Config{Ctx: context.Background()}, nil
}

// SetEnvironment sets the environment name and derives IsDevelopment from it.
func (c *Config) SetEnvironment(env string) {
	c.Environment = env
	c.IsDevelopment = env == "development"
}

// SetClient sets the HTTP client used by outbound integrations (e.g. internal/geo).
func (c *Config) SetClient(client *http.Client) {
	c.Client = client
}

// SetRedis sets the Redis client used by internal/catalogcache and internal/utils.
func (c *Config) SetRedis(r *redis.Client) {
	c.KV = r
}
