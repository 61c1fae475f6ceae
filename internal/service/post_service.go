package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"seungpyo.lee/PersonalBlog/internal/authz"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/metrics"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

// maxPage keeps (page-1)*pageSize far away from int overflow.
const maxPage = 1 << 20

type postService struct {
	posts    domain.PostRepository
	users    domain.UserRepository
	pageSize int
	policy   *bluemonday.Policy
	now      func() time.Time
	log      *logger.Logger
}

// NewPostService creates a new PostService with the given repositories.
func NewPostService(posts domain.PostRepository, users domain.UserRepository, log *logger.Logger) domain.PostService {
	return &postService{
		posts:    posts,
		users:    users,
		pageSize: domain.DefaultPageSize,
		policy:   bluemonday.UGCPolicy(),
		now:      time.Now,
		log:      log,
	}
}

// CreatePost creates a new blog post authored by identity.
func (s *postService) CreatePost(ctx context.Context, identity *domain.Identity, req domain.CreatePostRequest) (*domain.Post, error) {
	if err := authz.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(s.policy.Sanitize(req.Content))
	if err := validateStruct(req).ErrOrNil(); err != nil {
		return nil, err
	}

	post := &domain.Post{
		Title:     req.Title,
		Content:   req.Content,
		AuthorID:  identity.UserID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	if author, err := s.users.GetByID(ctx, identity.UserID); err == nil {
		post.Author = author
	}
	metrics.PostsTotal.WithLabelValues("create").Inc()
	s.log.Info("post created", "post_id", post.ID, "user_id", identity.UserID)
	return post, nil
}

// GetPost retrieves a post by its ID.
func (s *postService) GetPost(ctx context.Context, id uint) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// UpdatePost updates an existing post if identity is its author. Ownership is
// decided before the payload is looked at.
func (s *postService) UpdatePost(ctx context.Context, identity *domain.Identity, id uint, req domain.UpdatePostRequest) (*domain.Post, error) {
	post, err := s.ownedPost(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(s.policy.Sanitize(req.Content))
	if err := validateStruct(req).ErrOrNil(); err != nil {
		return nil, err
	}

	post.Title = req.Title
	post.Content = req.Content
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	metrics.PostsTotal.WithLabelValues("update").Inc()
	s.log.Info("post updated", "post_id", post.ID, "user_id", identity.UserID)
	return post, nil
}

// DeletePost deletes a post if identity is its author.
func (s *postService) DeletePost(ctx context.Context, identity *domain.Identity, id uint) error {
	post, err := s.ownedPost(ctx, identity, id)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	metrics.PostsTotal.WithLabelValues("delete").Inc()
	s.log.Info("post deleted", "post_id", post.ID, "user_id", identity.UserID)
	return nil
}

// CheckOwnership runs the same checks as UpdatePost and DeletePost without mutating anything.
func (s *postService) CheckOwnership(ctx context.Context, identity *domain.Identity, id uint) error {
	_, err := s.ownedPost(ctx, identity, id)
	return err
}

// ListPosts returns one page of all posts, newest first.
func (s *postService) ListPosts(ctx context.Context, page int) (*domain.PostPage, error) {
	return s.list(ctx, nil, page)
}

// ListPostsByAuthor returns one page of username's posts, newest first.
func (s *postService) ListPostsByAuthor(ctx context.Context, username string, page int) (*domain.PostPage, error) {
	if page < 1 {
		return nil, domain.NewValidationError("page", msgPage)
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	return s.list(ctx, &user.ID, page)
}

func (s *postService) list(ctx context.Context, authorID *uint, page int) (*domain.PostPage, error) {
	if page < 1 {
		return nil, domain.NewValidationError("page", msgPage)
	}
	result := &domain.PostPage{Items: []*domain.Post{}, Page: page, PageSize: s.pageSize}
	if page > maxPage {
		return result, nil
	}
	// one extra row tells us whether another page exists
	posts, err := s.posts.List(ctx, domain.PostFilter{
		AuthorID: authorID,
		Limit:    s.pageSize + 1,
		Offset:   (page - 1) * s.pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if len(posts) > s.pageSize {
		result.HasMore = true
		posts = posts[:s.pageSize]
	}
	result.Items = posts
	return result, nil
}

// ownedPost loads post id and checks, in order: authenticated, exists, owned.
func (s *postService) ownedPost(ctx context.Context, identity *domain.Identity, id uint) (*domain.Post, error) {
	if err := authz.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if err := authz.RequireOwner(identity, post.AuthorID); err != nil {
		s.log.Warn("post mutation denied", "post_id", id, "user_id", identity.UserID, "author_id", post.AuthorID)
		return nil, err
	}
	return post, nil
}
