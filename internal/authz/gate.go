// Package authz decides whether an identity may perform a mutating operation.
package authz

import (
	"seungpyo.lee/PersonalBlog/internal/domain"
)

// RequireAuthenticated rejects anonymous callers.
func RequireAuthenticated(identity *domain.Identity) error {
	if identity == nil || identity.UserID == 0 {
		return domain.ErrUnauthenticated
	}
	return nil
}

// RequireOwner allows the call only when identity authored the resource.
// An anonymous caller gets ErrUnauthenticated, never ErrAuthorizationDenied.
func RequireOwner(identity *domain.Identity, authorID uint) error {
	if err := RequireAuthenticated(identity); err != nil {
		return err
	}
	if identity.UserID != authorID {
		return domain.ErrAuthorizationDenied
	}
	return nil
}

// RequireAnonymous is used by register and login, which make no sense for a signed-in caller.
func RequireAnonymous(identity *domain.Identity) error {
	if identity != nil && identity.UserID != 0 {
		return domain.ErrAlreadyAuthenticated
	}
	return nil
}
