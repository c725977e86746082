package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/database"
	"go.mongodb.org/mongo-driver/bson"
)

// Runs against a real server only when MONGODB_TEST_URI is set.
func TestMongoRepoCRUD(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx := context.Background()
	client, err := database.ConnectMongo(ctx, uri, 5*time.Second)
	require.NoError(t, err)
	defer func() { _ = client.Disconnect(ctx) }()

	db := client.Database("toyfactory_test_" + time.Now().Format("20060102150405"))
	defer func() { _ = db.Drop(ctx) }()

	r, err := NewMongoRepo(ctx, db)
	require.NoError(t, err)

	a, err := r.Create(ctx, input("X", "app"))
	require.NoError(t, err)
	b, err := r.Create(ctx, input("Y", "game"))
	require.NoError(t, err)
	require.Greater(t, b.ID, a.ID)

	got, err := r.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, a, got)

	apps, err := r.ListByCategory(ctx, "app")
	require.NoError(t, err)
	require.Len(t, apps, 1)

	upd, err := r.Update(ctx, a.ID, catalog.Patch{Tag: catalog.NullableOf("NEW")})
	require.NoError(t, err)
	require.Equal(t, "NEW", *upd.Tag)
	require.NotNil(t, upd.UpdatedAt)
	require.False(t, upd.UpdatedAt.Before(upd.CreatedAt))

	ok, err := r.Delete(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, ok)
	gone, err := r.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	c, err := r.Create(ctx, input("Z", "etc"))
	require.NoError(t, err)
	require.Greater(t, c.ID, b.ID)
}

func TestMongoUpdatePipeline(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	p := updatePipeline(catalog.Patch{
		Title: catalog.StringPtr("$title"),
		Tag:   catalog.Null[string](),
	}, now)

	require.Len(t, p, 1)
	require.Equal(t, "$set", p[0][0].Key)
	set := p[0][0].Value.(bson.D)
	require.Equal(t, bson.D{
		{Key: "title", Value: bson.D{{Key: "$literal", Value: "$title"}}},
		{Key: "tag", Value: bson.D{{Key: "$literal", Value: nil}}},
		{Key: "updatedAt", Value: bson.D{{Key: "$max", Value: bson.A{now, "$createdAt"}}}},
	}, set)
}

func TestMongoNowHasMillisecondPrecision(t *testing.T) {
	now := mongoNow()
	require.Zero(t, now.Nanosecond()%int(time.Millisecond))
	require.Equal(t, time.UTC, now.Location())
}
