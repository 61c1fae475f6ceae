package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seungpyo.lee/PersonalBlog/internal/domain"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	alice := &domain.User{Username: "alice", Email: "alice@example.com", Password: "h"}
	require.NoError(t, repo.Create(ctx, alice))
	assert.Equal(t, uint(1), alice.ID)
	assert.Equal(t, domain.DefaultImageRef, alice.ImageRef)

	err := repo.Create(ctx, &domain.User{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	err = repo.Create(ctx, &domain.User{Username: "other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	// returned values are copies
	got.Username = "mallory"
	again, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)

	require.NoError(t, repo.UpdatePassword(ctx, alice.ID, "h2"))
	again, _ = repo.GetByID(ctx, alice.ID)
	assert.Equal(t, "h2", again.Password)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryPostRepository_ListTieBreak(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserRepository()
	require.NoError(t, users.Create(ctx, &domain.User{Username: "alice", Email: "a@example.com"}))
	posts := NewMemoryPostRepository(users)

	same := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, posts.Create(ctx, &domain.Post{Title: "t", Content: "c", AuthorID: 1, CreatedAt: same}))
	}
	require.NoError(t, posts.Create(ctx, &domain.Post{Title: "old", Content: "c", AuthorID: 1, CreatedAt: same.Add(-time.Hour)}))

	list, err := posts.List(ctx, domain.PostFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, []uint{3, 2, 1, 4}, []uint{list[0].ID, list[1].ID, list[2].ID, list[3].ID})
	assert.Equal(t, "alice", list[0].Author.Username)

	list, err = posts.List(ctx, domain.PostFilter{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryPostRepository_UpdateKeepsAuthor(t *testing.T) {
	ctx := context.Background()
	posts := NewMemoryPostRepository(nil)
	p := &domain.Post{Title: "t", Content: "c", AuthorID: 7}
	require.NoError(t, posts.Create(ctx, p))

	require.NoError(t, posts.Update(ctx, &domain.Post{ID: p.ID, Title: "t2", Content: "c2", AuthorID: 99}))
	got, err := posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "t2", got.Title)
	assert.Equal(t, uint(7), got.AuthorID)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)

	require.NoError(t, posts.Delete(ctx, p.ID))
	assert.ErrorIs(t, posts.Delete(ctx, p.ID), domain.ErrNotFound)
}

func TestMemoryUsedTokenStore(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryUsedTokenStore().(*memoryUsedTokenStore)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	first, err := store.MarkUsed(ctx, "tok", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.MarkUsed(ctx, "tok", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)

	now = now.Add(2 * time.Minute)
	third, err := store.MarkUsed(ctx, "tok", time.Minute)
	require.NoError(t, err)
	assert.True(t, third, "entry expires with the token")
}
