package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"seungpyo.lee/PersonalBlog/internal/domain"
)

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository with the given GORM DB instance.
func NewPostRepository(db *gorm.DB) domain.PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post. CreatedAt must already be set by the caller.
func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a post with its author.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*domain.Post, error) {
	var post domain.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, translate(err))
	}
	return &post, nil
}

// List returns posts newest first; id breaks ties between equal timestamps.
func (r *postRepository) List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error) {
	var posts []*domain.Post
	query := r.db.WithContext(ctx).Model(&domain.Post{}).Preload("Author")
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	query = query.Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Update writes title and content only; author and creation time never change.
func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	result := r.db.WithContext(ctx).Model(&domain.Post{ID: post.ID}).Updates(map[string]interface{}{
		"title":   post.Title,
		"content": post.Content,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update post %d: %w", post.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a post by its ID from the database.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Post{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete post %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// AutoMigrate creates or updates the tables backing both repositories.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Post{})
}
