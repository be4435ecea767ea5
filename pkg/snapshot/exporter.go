// Package snapshot exports the locally cached content collections to Google
// Cloud Storage as compressed JSON, one object per kind. It is operator
// tooling for site backups, so unlike the store path it reports failures.
package snapshot

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-contentstore/pkg/content"
	"github.com/illmade-knight/go-contentstore/pkg/localcache"
)

// ExporterConfig holds configuration for the snapshot exporter.
type ExporterConfig struct {
	BucketName   string
	ObjectPrefix string
}

// Exporter writes cached collections to GCS objects named
// <prefix>/<kind>/<uuid>.json.gz.
type Exporter struct {
	client GCSClient
	cache  localcache.KVStore
	config ExporterConfig
	logger zerolog.Logger
}

// NewExporter creates an exporter over an injected GCS client and cache.
func NewExporter(
	gcsClient GCSClient,
	cache localcache.KVStore,
	config ExporterConfig,
	logger zerolog.Logger,
) (*Exporter, error) {
	if gcsClient == nil {
		return nil, errors.New("GCS client cannot be nil")
	}
	if cache == nil {
		return nil, errors.New("local cache cannot be nil")
	}
	if config.BucketName == "" {
		return nil, errors.New("GCS bucket name is required")
	}
	return &Exporter{
		client: gcsClient,
		cache:  cache,
		config: config,
		logger: logger.With().Str("component", "SnapshotExporter").Logger(),
	}, nil
}

// Export uploads one snapshot object per kind. Kinds with nothing cached are
// skipped. Errors for individual kinds are combined and returned together.
func (e *Exporter) Export(ctx context.Context, kinds ...content.Kind) error {
	if len(kinds) == 0 {
		kinds = content.Kinds()
	}

	var combinedErr error
	for _, kind := range kinds {
		if err := e.exportKind(ctx, kind); err != nil {
			if combinedErr == nil {
				combinedErr = err
			} else {
				combinedErr = fmt.Errorf("%v; %w", combinedErr, err)
			}
		}
	}
	return combinedErr
}

// exportKind writes a single kind's envelope to one GCS object.
func (e *Exporter) exportKind(ctx context.Context, kind content.Kind) error {
	raw, err := e.cache.Get(ctx, kind.CacheKey())
	if err != nil {
		if errors.Is(err, localcache.ErrNotFound) {
			e.logger.Debug().Str("kind", string(kind)).Msg("Nothing cached for kind; skipping snapshot.")
			return nil
		}
		return fmt.Errorf("read cache for %s: %w", kind, err)
	}
	env := localcache.Decode(raw)

	objectName := path.Join(e.config.ObjectPrefix, string(kind), fmt.Sprintf("%s.json.gz", uuid.New().String()))
	e.logger.Info().Str("object_name", objectName).Int("item_count", len(env.Items)).Msg("Starting snapshot upload.")

	gcsWriter := e.client.Bucket(e.config.BucketName).Object(objectName).NewWriter(ctx)
	gz := gzip.NewWriter(gcsWriter)

	encodeErr := json.NewEncoder(gz).Encode(env)
	gzipErr := gz.Close()
	closeErr := gcsWriter.Close()

	if encodeErr != nil {
		return fmt.Errorf("json encoding failed for %s: %w", objectName, encodeErr)
	}
	if gzipErr != nil {
		return fmt.Errorf("gzip close failed for %s: %w", objectName, gzipErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close GCS object writer for %s: %w", objectName, closeErr)
	}

	e.logger.Info().Str("object_name", objectName).Msg("Snapshot uploaded.")
	return nil
}
