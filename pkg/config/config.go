// Package config loads the module's configuration from environment variables
// and assembles the per-package config structs from it.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/illmade-knight/go-contentstore/pkg/contentstore"
	"github.com/illmade-knight/go-contentstore/pkg/localcache"
	"github.com/illmade-knight/go-contentstore/pkg/notify"
	"github.com/illmade-knight/go-contentstore/pkg/remote"
	"github.com/illmade-knight/go-contentstore/pkg/snapshot"
)

// Config is the full environment-driven configuration for a content site
// deployment.
type Config struct {
	LogLevel string `env:"CONTENT_LOG_LEVEL" envDefault:"info"`

	ProjectID        string `env:"CONTENT_PROJECT_ID"`
	CollectionPrefix string `env:"CONTENT_COLLECTION_PREFIX"`

	CachePath string `env:"CONTENT_CACHE_PATH" envDefault:"content-cache.db"`

	RedisAddr     string `env:"CONTENT_REDIS_ADDR"`
	RedisPassword string `env:"CONTENT_REDIS_PASSWORD"`
	RedisDB       int    `env:"CONTENT_REDIS_DB"`

	CacheTTL       time.Duration `env:"CONTENT_CACHE_TTL" envDefault:"30m"`
	LatchOnFailure bool          `env:"CONTENT_LATCH_ON_FAILURE" envDefault:"true"`

	NotifyTopicID string `env:"CONTENT_NOTIFY_TOPIC_ID"`

	SnapshotBucket string `env:"CONTENT_SNAPSHOT_BUCKET"`
	SnapshotPrefix string `env:"CONTENT_SNAPSHOT_PREFIX" envDefault:"snapshots"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Firestore returns the remote store configuration.
func (c *Config) Firestore() *remote.FirestoreConfig {
	return &remote.FirestoreConfig{
		ProjectID:        c.ProjectID,
		CollectionPrefix: c.CollectionPrefix,
	}
}

// SQLite returns the durable cache configuration.
func (c *Config) SQLite() *localcache.SQLiteConfig {
	return &localcache.SQLiteConfig{Path: c.CachePath}
}

// Redis returns the shared-cache configuration, or nil when no Redis address
// is set and the SQLite store should be used instead.
func (c *Config) Redis() *localcache.RedisConfig {
	if c.RedisAddr == "" {
		return nil
	}
	return &localcache.RedisConfig{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// Site returns the store-level configuration.
func (c *Config) Site() *contentstore.SiteConfig {
	return &contentstore.SiteConfig{
		TTL:            c.CacheTTL,
		LatchOnFailure: c.LatchOnFailure,
	}
}

// PubsubNotifier returns the notifier configuration, or nil when no topic is
// set and the in-process notifier should be used instead.
func (c *Config) PubsubNotifier() *notify.PubsubNotifierConfig {
	if c.NotifyTopicID == "" {
		return nil
	}
	cfg := notify.NewPubsubNotifierDefaults()
	cfg.TopicID = c.NotifyTopicID
	return cfg
}

// SnapshotExporter returns the exporter configuration, or nil when no bucket
// is configured.
func (c *Config) SnapshotExporter() *snapshot.ExporterConfig {
	if c.SnapshotBucket == "" {
		return nil
	}
	return &snapshot.ExporterConfig{
		BucketName:   c.SnapshotBucket,
		ObjectPrefix: c.SnapshotPrefix,
	}
}
