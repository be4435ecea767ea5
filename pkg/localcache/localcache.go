// Package localcache provides the durable key-value store contract the content
// stores mirror into, plus the timestamped envelope format they wrap around a
// cached collection. Values are plain strings; this package owns the JSON
// encoding and decoding on top of them.
package localcache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/illmade-knight/go-contentstore/pkg/content"
)

// DefaultTTL is the freshness window applied when a store or call does not
// override it.
const DefaultTTL = 30 * time.Minute

// ErrNotFound is returned by KVStore.Get when the key has never been written.
var ErrNotFound = errors.New("key not found in local cache")

// KVStore is the minimal contract for a durable string key-value store, the
// shape of browser local storage. Implementations in this package back it with
// SQLite, Redis, or process memory.
type KVStore interface {
	// Get retrieves the value for key. A missing key returns ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value string) error
	io.Closer
}

// Envelope is what a cached collection looks like on disk: the items plus the
// moment they were written, which drives the freshness check.
type Envelope struct {
	Items     []content.Item `json:"items"`
	WrittenAt time.Time      `json:"writtenAt"`
}

// Fresh reports whether the envelope was written within ttl of now.
func (e Envelope) Fresh(now time.Time, ttl time.Duration) bool {
	if e.WrittenAt.IsZero() {
		return false
	}
	return now.Sub(e.WrittenAt) < ttl
}

// Upsert returns the envelope's items with item prepended, any existing item
// carrying the same id removed first. The input slice is not modified.
func (e Envelope) Upsert(item content.Item) []content.Item {
	out := make([]content.Item, 0, len(e.Items)+1)
	out = append(out, item)
	for _, existing := range e.Items {
		if existing.ID() != item.ID() {
			out = append(out, existing)
		}
	}
	return out
}

// Remove returns the envelope's items without any item carrying id.
func (e Envelope) Remove(id string) []content.Item {
	out := make([]content.Item, 0, len(e.Items))
	for _, existing := range e.Items {
		if existing.ID() != id {
			out = append(out, existing)
		}
	}
	return out
}

// Find returns the first item carrying id, or nil.
func (e Envelope) Find(id string) content.Item {
	for _, item := range e.Items {
		if item.ID() == id {
			return item
		}
	}
	return nil
}

// Encode serializes the envelope to the string form stored in a KVStore.
func (e Envelope) Encode() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a stored envelope. Malformed content is treated as an empty
// envelope, never as a failure: a corrupt cache must not take the site down.
func Decode(raw string) Envelope {
	var e Envelope
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Envelope{}
	}
	return e
}
