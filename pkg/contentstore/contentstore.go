// Package contentstore provides CachedCollectionStore, a per-kind facade over
// the remote backend that mirrors every operation into the durable local
// cache. Reads prefer a fresh cache; writes land locally first and reach the
// backend best-effort. No remote failure is ever surfaced to the caller.
package contentstore

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-contentstore/pkg/content"
	"github.com/illmade-knight/go-contentstore/pkg/localcache"
	"github.com/illmade-knight/go-contentstore/pkg/notify"
	"github.com/illmade-knight/go-contentstore/pkg/remote"
)

// ErrNotFound is returned by Update when the id is not present in the cache.
// This is a caller mistake, not a backend failure, so it is allowed to surface.
var ErrNotFound = errors.New("item not found in cached collection")

// Config holds configuration for a CachedCollectionStore.
type Config struct {
	Kind content.Kind
	// TTL is the cache freshness window. Zero means localcache.DefaultTTL.
	TTL time.Duration
	// LatchOnFailure makes a degrading remote error (unreachable, quota) latch
	// the store into cache-only mode until ResetDegraded is called.
	LatchOnFailure bool
}

// CachedCollectionStore is the data-access shim for one content kind.
type CachedCollectionStore struct {
	kind           content.Kind
	ttl            time.Duration
	latchOnFailure bool

	cache    localcache.KVStore
	remote   remote.Store
	notifier notify.Notifier
	logger   zerolog.Logger

	degraded atomic.Bool
	now      func() time.Time
}

// New creates a CachedCollectionStore for cfg.Kind.
func New(
	cfg *Config,
	cache localcache.KVStore,
	remoteStore remote.Store,
	notifier notify.Notifier,
	logger zerolog.Logger,
) (*CachedCollectionStore, error) {
	if cache == nil {
		return nil, errors.New("local cache cannot be nil")
	}
	if remoteStore == nil {
		return nil, errors.New("remote store cannot be nil")
	}
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = localcache.DefaultTTL
	}

	return &CachedCollectionStore{
		kind:           cfg.Kind,
		ttl:            ttl,
		latchOnFailure: cfg.LatchOnFailure,
		cache:          cache,
		remote:         remoteStore,
		notifier:       notifier,
		logger:         logger.With().Str("component", "CachedCollectionStore").Str("kind", string(cfg.Kind)).Logger(),
		now:            time.Now,
	}, nil
}

// GetOptions controls a single GetAll call.
type GetOptions struct {
	// Force skips the freshness check and always attempts the remote fetch.
	Force bool
	// TTL overrides the store's freshness window for this call only.
	TTL time.Duration
}

// GetAll returns the kind's items. A fresh cache answers directly; otherwise
// the remote backend is attempted, and on failure whatever is cached (possibly
// nothing) is returned.
func (s *CachedCollectionStore) GetAll(ctx context.Context, opts GetOptions) []content.Item {
	env := s.readEnvelope(ctx)

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = s.ttl
	}
	if !opts.Force && env.Fresh(s.now(), ttl) {
		s.logger.Debug().Int("count", len(env.Items)).Msg("Serving fresh cached collection.")
		return env.Items
	}
	if s.degraded.Load() {
		s.logger.Debug().Msg("Store is degraded; skipping remote fetch.")
		return env.Items
	}

	items, err := s.remote.List(ctx, s.kind)
	if err != nil {
		s.remoteFailed("list", err)
		return env.Items
	}

	s.writeEnvelope(ctx, items)
	return items
}

// Save stores the item, assigning an id when it has none, and returns the
// stored copy. The cache is updated immediately; the remote upsert is
// best-effort. The change notification fires after the local write, so it is
// broadcast even when the backend is down.
func (s *CachedCollectionStore) Save(ctx context.Context, item content.Item) content.Item {
	stored := item.Clone()
	stored.EnsureID()

	env := s.readEnvelope(ctx)
	s.writeEnvelope(ctx, env.Upsert(stored))

	if s.degraded.Load() {
		s.logger.Debug().Str("id", stored.ID()).Msg("Store is degraded; skipping remote upsert.")
	} else if err := s.remote.Upsert(ctx, s.kind, stored); err != nil {
		s.remoteFailed("upsert", err)
	}

	s.notifier.DataChanged(ctx, notify.Event{Kind: s.kind, Op: notify.OpSave})
	return stored
}

// Delete removes the item with id from the cache immediately and attempts the
// remote delete best-effort.
func (s *CachedCollectionStore) Delete(ctx context.Context, id string) {
	env := s.readEnvelope(ctx)
	s.writeEnvelope(ctx, env.Remove(id))

	if s.degraded.Load() {
		s.logger.Debug().Str("id", id).Msg("Store is degraded; skipping remote delete.")
	} else if err := s.remote.Delete(ctx, s.kind, id); err != nil {
		s.remoteFailed("delete", err)
	}

	s.notifier.DataChanged(ctx, notify.Event{Kind: s.kind, Op: notify.OpDelete})
}

// Update merges patch into the cached item with id and returns the merged
// item. The item keeps its position in the collection. The remote partial
// update is best-effort. A locally unknown id returns ErrNotFound.
func (s *CachedCollectionStore) Update(ctx context.Context, id string, patch content.Item) (content.Item, error) {
	env := s.readEnvelope(ctx)
	existing := env.Find(id)
	if existing == nil {
		return nil, ErrNotFound
	}
	merged := existing.Merge(patch)

	items := make([]content.Item, len(env.Items))
	for i, item := range env.Items {
		if item.ID() == id {
			items[i] = merged
		} else {
			items[i] = item
		}
	}
	s.writeEnvelope(ctx, items)

	if s.degraded.Load() {
		s.logger.Debug().Str("id", id).Msg("Store is degraded; skipping remote patch.")
	} else if err := s.remote.Patch(ctx, s.kind, id, patch); err != nil {
		s.remoteFailed("patch", err)
	}

	s.notifier.DataChanged(ctx, notify.Event{Kind: s.kind, Op: notify.OpUpdate})
	return merged, nil
}

// Degraded reports whether the store has latched into cache-only mode.
func (s *CachedCollectionStore) Degraded() bool {
	return s.degraded.Load()
}

// ResetDegraded clears the latch so the next operation attempts the remote
// backend again.
func (s *CachedCollectionStore) ResetDegraded() {
	s.degraded.Store(false)
}

// readEnvelope loads the kind's cached envelope. A missing key or malformed
// content yields an empty envelope; cache read failures are logged only.
func (s *CachedCollectionStore) readEnvelope(ctx context.Context) localcache.Envelope {
	raw, err := s.cache.Get(ctx, s.kind.CacheKey())
	if err != nil {
		if !errors.Is(err, localcache.ErrNotFound) {
			s.logger.Error().Err(err).Msg("Failed to read collection from local cache.")
		}
		return localcache.Envelope{}
	}
	return localcache.Decode(raw)
}

// writeEnvelope overwrites the kind's cached envelope with items, stamped now.
func (s *CachedCollectionStore) writeEnvelope(ctx context.Context, items []content.Item) {
	env := localcache.Envelope{Items: items, WrittenAt: s.now()}
	encoded, err := env.Encode()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode collection for local cache.")
		return
	}
	if err := s.cache.Set(ctx, s.kind.CacheKey(), encoded); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write collection to local cache.")
	}
}

// remoteFailed logs the failure and, when configured, latches degraded mode
// for degrading error classes.
func (s *CachedCollectionStore) remoteFailed(op string, err error) {
	s.logger.Warn().Err(err).Str("op", op).Msg("Remote operation failed; continuing with local cache.")
	if s.latchOnFailure && remote.IsDegrading(err) {
		if s.degraded.CompareAndSwap(false, true) {
			s.logger.Warn().Msg("Backend degraded; remote attempts disabled until reset.")
		}
	}
}
