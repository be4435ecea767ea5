package contentstore

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-contentstore/pkg/content"
	"github.com/illmade-knight/go-contentstore/pkg/localcache"
	"github.com/illmade-knight/go-contentstore/pkg/notify"
	"github.com/illmade-knight/go-contentstore/pkg/remote"
)

// SiteConfig holds the shared settings for a full set of site stores.
type SiteConfig struct {
	TTL            time.Duration
	LatchOnFailure bool
}

// Site bundles one CachedCollectionStore per content kind, all sharing the
// same cache, backend, and notifier.
type Site struct {
	Projects *CachedCollectionStore
	Blog     *CachedCollectionStore
	Media    *CachedCollectionStore
	Settings *CachedCollectionStore
}

// NewSite constructs a store for every kind the site manages.
func NewSite(
	cfg *SiteConfig,
	cache localcache.KVStore,
	remoteStore remote.Store,
	notifier notify.Notifier,
	logger zerolog.Logger,
) (*Site, error) {
	site := &Site{}
	for _, kind := range content.Kinds() {
		store, err := New(&Config{
			Kind:           kind,
			TTL:            cfg.TTL,
			LatchOnFailure: cfg.LatchOnFailure,
		}, cache, remoteStore, notifier, logger)
		if err != nil {
			return nil, fmt.Errorf("create store for %s: %w", kind, err)
		}
		switch kind {
		case content.KindProjects:
			site.Projects = store
		case content.KindBlog:
			site.Blog = store
		case content.KindMedia:
			site.Media = store
		case content.KindSettings:
			site.Settings = store
		}
	}
	return site, nil
}

// Store returns the store for kind, or nil for an unknown kind.
func (s *Site) Store(kind content.Kind) *CachedCollectionStore {
	switch kind {
	case content.KindProjects:
		return s.Projects
	case content.KindBlog:
		return s.Blog
	case content.KindMedia:
		return s.Media
	case content.KindSettings:
		return s.Settings
	default:
		return nil
	}
}
