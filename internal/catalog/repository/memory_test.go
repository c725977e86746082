package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog"
)

func input(title, category string) catalog.Input {
	return catalog.Input{
		Title:       title,
		Description: title + " description",
		Category:    category,
		Thumbnail:   "/uploads/" + title + ".png",
		URL:         "https://example.com/" + title,
	}
}

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	created, err := r.Create(ctx, input("X", "app"))
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.Nil(t, created.UpdatedAt)
	require.False(t, created.CreatedAt.IsZero())

	got, err := r.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	patched, err := r.Update(ctx, created.ID, catalog.Patch{Title: catalog.StringPtr("X2")})
	require.NoError(t, err)
	require.Equal(t, "X2", patched.Title)
	require.Equal(t, created.ID, patched.ID)
	require.Equal(t, created.CreatedAt, patched.CreatedAt)
	require.NotNil(t, patched.UpdatedAt)
	require.False(t, patched.UpdatedAt.Before(created.CreatedAt))

	got, err = r.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "X2", got.Title)
	require.Equal(t, created.Description, got.Description)

	ok, err := r.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	got, err = r.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Nil(t, got)
	ok, err = r.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryRepoMissingRecords(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	got, err := r.Get(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, got)

	upd, err := r.Update(ctx, 42, catalog.Patch{Title: catalog.StringPtr("t")})
	require.NoError(t, err)
	require.Nil(t, upd)
}

func TestMemoryRepoIDsNeverReused(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	var last int64
	for i := 0; i < 5; i++ {
		p, err := r.Create(ctx, input("p", "game"))
		require.NoError(t, err)
		require.Greater(t, p.ID, last)
		last = p.ID
	}
	_, err := r.Delete(ctx, last)
	require.NoError(t, err)

	p, err := r.Create(ctx, input("after", "game"))
	require.NoError(t, err)
	require.Equal(t, last+1, p.ID)
}

func TestMemoryRepoCategoryScenario(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	a, err := r.Create(ctx, input("X", "app"))
	require.NoError(t, err)
	b, err := r.Create(ctx, input("Y", "game"))
	require.NoError(t, err)

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, a.ID, all[0].ID)
	require.Equal(t, b.ID, all[1].ID)

	apps, err := r.ListByCategory(ctx, "app")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Equal(t, a.ID, apps[0].ID)

	videos, err := r.ListByCategory(ctx, "video")
	require.NoError(t, err)
	require.NotNil(t, videos)
	require.Empty(t, videos)

	// unknown labels and different case are simply empty
	odd, err := r.ListByCategory(ctx, "APP")
	require.NoError(t, err)
	require.Empty(t, odd)

	_, err = r.Delete(ctx, a.ID)
	require.NoError(t, err)
	all, err = r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, b.ID, all[0].ID)
	gone, err := r.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestMemoryRepoListByCategoryIsOrderedSubset(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	for i, c := range []string{"game", "app", "game", "video", "game"} {
		_, err := r.Create(ctx, input(string(rune('a'+i)), c))
		require.NoError(t, err)
	}
	all, err := r.List(ctx)
	require.NoError(t, err)
	var want []*catalog.Project
	for _, p := range all {
		if p.Category == "game" {
			want = append(want, p)
		}
	}
	got, err := r.ListByCategory(ctx, "game")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	p, err := r.Create(ctx, input("X", "app"))
	require.NoError(t, err)

	p.Title = "mutated"
	got, err := r.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "X", got.Title)
}

func TestMemoryRepoConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	const n = 64
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := r.Create(ctx, input("c", "app"))
			if err != nil {
				t.Error(err)
				return
			}
			ids <- p.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)
	for _, p := range all {
		require.True(t, seen[p.ID])
	}
}

func TestSeedMemoryRepo(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	demo := catalog.DemoProjects(time.Now())

	n, err := Seed(ctx, r, demo)
	require.NoError(t, err)
	require.Equal(t, len(demo), n)

	// ids and timestamps are preserved
	got, err := r.Get(ctx, 8)
	require.NoError(t, err)
	require.Equal(t, "Motion Study 03", got.Title)
	require.Equal(t, demo[7].CreatedAt, got.CreatedAt)

	// a second seed is a no-op on a non-empty store
	n, err = Seed(ctx, r, demo)
	require.NoError(t, err)
	require.Zero(t, n)

	p, err := r.Create(ctx, input("next", "etc"))
	require.NoError(t, err)
	require.Equal(t, int64(len(demo)+1), p.ID)
}
