// Package remote defines the contract for the backing document store and its
// Firestore implementation. The content stores treat every call here as
// best-effort; classification of failures into "backend degraded" lives here
// too so the stores can decide when to stop trying.
package remote

import (
	"context"
	"io"

	"github.com/illmade-knight/go-contentstore/pkg/content"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store is the remote backend for a content site: flat CRUD over named
// collections. Implementations return data or an error; they never fall back
// on their own — degradation policy belongs to the caller.
type Store interface {
	// List returns every item in the collection.
	List(ctx context.Context, kind content.Kind) ([]content.Item, error)
	// Upsert creates or fully overwrites the item identified by its id.
	Upsert(ctx context.Context, kind content.Kind, item content.Item) error
	// Delete removes the item with id. Deleting an absent id is not an error.
	Delete(ctx context.Context, kind content.Kind, id string) error
	// Patch merges the given fields into the item with id.
	Patch(ctx context.Context, kind content.Kind, id string, patch content.Item) error
	io.Closer
}

// IsDegrading reports whether err indicates the backend is unreachable or out
// of quota, the class of failure that should latch degraded mode. Unknown
// transport errors count; application-level errors like NotFound do not.
func IsDegrading(err error) bool {
	if err == nil {
		return false
	}
	st, ok := status.FromError(err)
	if !ok {
		// Not a gRPC status: a raw transport or client failure.
		return true
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Unknown:
		return true
	default:
		return false
	}
}
