//go:build integration

package remote_test

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/illmade-knight/go-contentstore/pkg/content"
	"github.com/illmade-knight/go-contentstore/pkg/remote"
)

// Requires a running Firestore emulator, e.g.
// gcloud emulators firestore start --host-port=localhost:8787
func TestFirestoreStore_Integration(t *testing.T) {
	emulatorHost := os.Getenv("FIRESTORE_EMULATOR_HOST")
	if emulatorHost == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set; skipping Firestore integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	const projectID = "test-project"

	conn, err := grpc.NewClient(emulatorHost, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	client, err := firestore.NewClient(ctx, projectID,
		option.WithGRPCConn(conn),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store, err := remote.NewFirestoreStore(&remote.FirestoreConfig{
		ProjectID:        projectID,
		CollectionPrefix: "it_",
	}, client, zerolog.Nop())
	require.NoError(t, err)

	t.Run("Upsert then List", func(t *testing.T) {
		item := content.Item{"id": "p1", "title": "a project"}
		require.NoError(t, store.Upsert(ctx, content.KindProjects, item))

		items, err := store.List(ctx, content.KindProjects)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "p1", items[0].ID())
		assert.Equal(t, "a project", items[0]["title"])
	})

	t.Run("Patch merges fields", func(t *testing.T) {
		require.NoError(t, store.Patch(ctx, content.KindProjects, "p1", content.Item{"draft": true}))

		items, err := store.List(ctx, content.KindProjects)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "a project", items[0]["title"], "unpatched fields survive")
		assert.Equal(t, true, items[0]["draft"])
	})

	t.Run("Delete removes and tolerates absence", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, content.KindProjects, "p1"))
		require.NoError(t, store.Delete(ctx, content.KindProjects, "p1"))

		items, err := store.List(ctx, content.KindProjects)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
