package remote

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/illmade-knight/go-contentstore/pkg/content"
)

// FirestoreConfig holds configuration for the Firestore-backed store.
type FirestoreConfig struct {
	ProjectID string
	// CollectionPrefix is prepended to every kind to form the Firestore
	// collection name, so several sites can share a project.
	CollectionPrefix string
}

// FirestoreStore implements Store against a Firestore project, one collection
// per content kind.
type FirestoreStore struct {
	client *firestore.Client
	prefix string
	logger zerolog.Logger
}

// NewFirestoreStore creates a new FirestoreStore around an injected client.
func NewFirestoreStore(
	cfg *FirestoreConfig,
	client *firestore.Client,
	logger zerolog.Logger,
) (*FirestoreStore, error) {
	if client == nil {
		return nil, errors.New("firestore client cannot be nil")
	}

	logger.Info().Str("project_id", cfg.ProjectID).Str("collection_prefix", cfg.CollectionPrefix).Msg("FirestoreStore initialized.")
	return &FirestoreStore{
		client: client,
		prefix: cfg.CollectionPrefix,
		logger: logger.With().Str("component", "FirestoreStore").Logger(),
	}, nil
}

func (s *FirestoreStore) collection(kind content.Kind) *firestore.CollectionRef {
	return s.client.Collection(s.prefix + string(kind))
}

// List returns every document in the kind's collection. The document id wins
// over any stored id field, so renamed documents stay addressable.
func (s *FirestoreStore) List(ctx context.Context, kind content.Kind) ([]content.Item, error) {
	iter := s.collection(kind).Documents(ctx)
	defer iter.Stop()

	var items []content.Item
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			s.logger.Error().Err(err).Str("kind", string(kind)).Msg("Failed to list documents from Firestore.")
			return nil, fmt.Errorf("firestore list for %s: %w", kind, err)
		}
		item := content.Item(doc.Data())
		item["id"] = doc.Ref.ID
		items = append(items, item)
	}

	s.logger.Debug().Str("kind", string(kind)).Int("count", len(items)).Msg("Listed documents from Firestore.")
	return items, nil
}

// Upsert creates or overwrites the document keyed by the item's id.
func (s *FirestoreStore) Upsert(ctx context.Context, kind content.Kind, item content.Item) error {
	id := item.ID()
	if id == "" {
		return errors.New("item has no id")
	}
	_, err := s.collection(kind).Doc(id).Set(ctx, map[string]any(item))
	if err != nil {
		s.logger.Error().Err(err).Str("kind", string(kind)).Str("id", id).Msg("Failed to upsert document in Firestore.")
		return fmt.Errorf("firestore upsert for %s/%s: %w", kind, id, err)
	}
	return nil
}

// Delete removes the document with id. A missing document is not an error.
func (s *FirestoreStore) Delete(ctx context.Context, kind content.Kind, id string) error {
	_, err := s.collection(kind).Doc(id).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		s.logger.Error().Err(err).Str("kind", string(kind)).Str("id", id).Msg("Failed to delete document from Firestore.")
		return fmt.Errorf("firestore delete for %s/%s: %w", kind, id, err)
	}
	return nil
}

// Patch merges the patch fields into the document with id.
func (s *FirestoreStore) Patch(ctx context.Context, kind content.Kind, id string, patch content.Item) error {
	_, err := s.collection(kind).Doc(id).Set(ctx, map[string]any(patch), firestore.MergeAll)
	if err != nil {
		s.logger.Error().Err(err).Str("kind", string(kind)).Str("id", id).Msg("Failed to patch document in Firestore.")
		return fmt.Errorf("firestore patch for %s/%s: %w", kind, id, err)
	}
	return nil
}

// Close is a no-op as the Firestore client's lifecycle is managed externally.
func (s *FirestoreStore) Close() error {
	s.logger.Info().Msg("FirestoreStore does not close the injected Firestore client.")
	return nil
}
