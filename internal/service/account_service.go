package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"seungpyo.lee/PersonalBlog/internal/adapter"
	"seungpyo.lee/PersonalBlog/internal/authz"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

// PictureManager stores resized profile pictures and removes replaced ones.
type PictureManager interface {
	Store(ctx context.Context, dataURL, filename string) (string, error)
	Delete(ctx context.Context, ref string) error
	URL(ref string) string
}

type accountService struct {
	repo     domain.UserRepository
	pictures PictureManager
	log      *logger.Logger
}

// NewAccountService creates the service behind /account.
func NewAccountService(repo domain.UserRepository, pictures PictureManager, log *logger.Logger) domain.AccountService {
	return &accountService{repo: repo, pictures: pictures, log: log}
}

// GetAccount returns the caller's own user record.
func (s *accountService) GetAccount(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	if err := authz.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return user, nil
}

// UpdateAccount changes username and email and optionally swaps the profile picture.
// The old picture is removed only after the new reference has been persisted.
func (s *accountService) UpdateAccount(ctx context.Context, identity *domain.Identity, req domain.UpdateAccountRequest) (*domain.User, error) {
	if err := authz.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	verr := validateStruct(req)

	// only values that actually change can collide with another account
	var checkUsername, checkEmail string
	if req.Username != current.Username {
		checkUsername = req.Username
	}
	if req.Email != current.Email {
		checkEmail = req.Email
	}
	if err := checkUnique(ctx, s.repo, verr, checkUsername, checkEmail); err != nil {
		return nil, err
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	var newRef string
	if req.Picture != "" {
		newRef, err = s.pictures.Store(ctx, req.Picture, req.PictureFilename)
		if err != nil {
			if errors.Is(err, adapter.ErrUnsupportedPicture) {
				return nil, domain.NewValidationError("picture", msgPicture)
			}
			return nil, fmt.Errorf("failed to save picture: %w", err)
		}
	}

	oldRef := current.ImageRef
	updated := *current
	updated.Username = req.Username
	updated.Email = req.Email
	if newRef != "" {
		updated.ImageRef = newRef
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		if newRef != "" {
			if derr := s.pictures.Delete(ctx, newRef); derr != nil {
				s.log.Warn("orphaned profile picture", "ref", newRef, "error", derr)
			}
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	if newRef != "" && oldRef != newRef {
		if err := s.pictures.Delete(ctx, oldRef); err != nil {
			s.log.Warn("old profile picture not deleted", "ref", oldRef, "error", err)
		}
	}
	s.log.Info("account updated", "user_id", updated.ID, "picture_changed", newRef != "")
	return &updated, nil
}

// PictureURL resolves an image reference to its public address.
func (s *accountService) PictureURL(ref string) string {
	return s.pictures.URL(ref)
}
