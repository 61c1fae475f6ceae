package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seungpyo.lee/PersonalBlog/internal/adapter"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/repository"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

func newAccountFixture(t *testing.T) (domain.AccountService, *repository.MemoryUserRepository, *fakePictures, *domain.Identity) {
	t.Helper()
	repo := repository.NewMemoryUserRepository()
	pics := &fakePictures{}
	u := &domain.User{Username: "alice", Email: "alice@example.com", Password: "x", ImageRef: domain.DefaultImageRef}
	require.NoError(t, repo.Create(context.Background(), u))
	require.NoError(t, repo.Create(context.Background(), &domain.User{Username: "bob", Email: "bob@example.com", Password: "x"}))
	return NewAccountService(repo, pics, logger.NewNop()), repo, pics, &domain.Identity{UserID: u.ID, Username: u.Username}
}

func TestGetAccount(t *testing.T) {
	svc, _, _, alice := newAccountFixture(t)

	u, err := svc.GetAccount(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "/static/profile_pics/default.jpg", svc.PictureURL(u.ImageRef))

	_, err = svc.GetAccount(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestUpdateAccountKeepsOwnValues(t *testing.T) {
	svc, _, pics, alice := newAccountFixture(t)

	u, err := svc.UpdateAccount(context.Background(), alice, domain.UpdateAccountRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultImageRef, u.ImageRef)
	assert.Empty(t, pics.stored)
	assert.Empty(t, pics.deleted)
}

func TestUpdateAccountConflicts(t *testing.T) {
	svc, _, _, alice := newAccountFixture(t)

	_, err := svc.UpdateAccount(context.Background(), alice, domain.UpdateAccountRequest{Username: "alice", Email: "bob@example.com"})
	assert.Equal(t, []string{"email"}, fieldsOf(t, err))

	_, err = svc.UpdateAccount(context.Background(), alice, domain.UpdateAccountRequest{Username: "bob", Email: "alice@example.com"})
	assert.Equal(t, []string{"username"}, fieldsOf(t, err))
}

func TestUpdateAccountReplacesPicture(t *testing.T) {
	svc, repo, pics, alice := newAccountFixture(t)
	ctx := context.Background()

	// the default picture is never deleted
	u, err := svc.UpdateAccount(ctx, alice, domain.UpdateAccountRequest{Username: "alice", Email: "alice@example.com", Picture: "data:image/png;base64,AAAA"})
	require.NoError(t, err)
	assert.Equal(t, "pic-1.png", u.ImageRef)
	assert.Empty(t, pics.deleted)

	u, err = svc.UpdateAccount(ctx, alice, domain.UpdateAccountRequest{Username: "alice2", Email: "alice@example.com", Picture: "data:image/png;base64,BBBB"})
	require.NoError(t, err)
	assert.Equal(t, "pic-2.png", u.ImageRef)
	assert.Equal(t, []string{"pic-1.png"}, pics.deleted)

	stored, err := repo.GetByID(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", stored.Username)
	assert.Equal(t, "pic-2.png", stored.ImageRef)
}

func TestUpdateAccountRejectsBadPicture(t *testing.T) {
	svc, repo, pics, alice := newAccountFixture(t)
	pics.storeErr = adapter.ErrUnsupportedPicture

	_, err := svc.UpdateAccount(context.Background(), alice, domain.UpdateAccountRequest{Username: "renamed", Email: "alice@example.com", Picture: "data:image/gif;base64,R0lG"})
	assert.Equal(t, []string{"picture"}, fieldsOf(t, err))

	stored, err := repo.GetByID(context.Background(), alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
}
