// Package content defines the domain model shared by the cached content stores:
// the entity kinds the site manages and the loosely-typed items they hold.
package content

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies one of the site's content collections.
type Kind string

const (
	KindProjects Kind = "projects"
	KindBlog     Kind = "blog"
	KindMedia    Kind = "media"
	KindSettings Kind = "settings"
)

// Kinds lists every collection the site manages, in a stable order.
func Kinds() []Kind {
	return []Kind{KindProjects, KindBlog, KindMedia, KindSettings}
}

// CacheKey derives the durable-cache key for this kind.
func (k Kind) CacheKey() string {
	return "content:" + string(k)
}

// Item is a single content record. Fields are schemaless; the only field this
// module relies on is the string "id".
type Item map[string]any

// ID returns the item's id, or "" if the field is absent or not a string.
func (i Item) ID() string {
	id, _ := i["id"].(string)
	return id
}

// EnsureID assigns a fresh id when the item does not carry one. Ids are random
// UUIDs; if UUID generation fails a nanosecond timestamp stands in.
func (i Item) EnsureID() string {
	if id := i.ID(); id != "" {
		return id
	}
	id, err := uuid.NewRandom()
	if err != nil {
		ts := fmt.Sprintf("%d", time.Now().UnixNano())
		i["id"] = ts
		return ts
	}
	i["id"] = id.String()
	return id.String()
}

// Clone returns a shallow copy of the item so callers can mutate the result
// without aliasing the cached value.
func (i Item) Clone() Item {
	out := make(Item, len(i))
	for k, v := range i {
		out[k] = v
	}
	return out
}

// Merge returns a copy of the item with every field of patch applied over it.
// The id field is kept from the receiver; a patch cannot re-identify an item.
func (i Item) Merge(patch Item) Item {
	out := i.Clone()
	id := i.ID()
	for k, v := range patch {
		out[k] = v
	}
	if id != "" {
		out["id"] = id
	}
	return out
}
