package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"seungpyo.lee/PersonalBlog/internal/domain"
)

func TestRequireAuthenticated(t *testing.T) {
	assert.ErrorIs(t, RequireAuthenticated(nil), domain.ErrUnauthenticated)
	assert.ErrorIs(t, RequireAuthenticated(&domain.Identity{}), domain.ErrUnauthenticated)
	assert.NoError(t, RequireAuthenticated(&domain.Identity{UserID: 1, Username: "a"}))
}

func TestRequireOwner(t *testing.T) {
	alice := &domain.Identity{UserID: 1, Username: "alice"}
	bob := &domain.Identity{UserID: 2, Username: "bob"}

	assert.NoError(t, RequireOwner(alice, 1))

	err := RequireOwner(bob, 1)
	assert.ErrorIs(t, err, domain.ErrAuthorizationDenied)
	assert.NotErrorIs(t, err, domain.ErrUnauthenticated)

	err = RequireOwner(nil, 1)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.NotErrorIs(t, err, domain.ErrAuthorizationDenied)
}

func TestRequireAnonymous(t *testing.T) {
	assert.NoError(t, RequireAnonymous(nil))
	assert.ErrorIs(t, RequireAnonymous(&domain.Identity{UserID: 3}), domain.ErrAlreadyAuthenticated)
}
