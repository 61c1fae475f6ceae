package domain

import (
	"context"
	"time"
)

// DefaultPageSize is the number of posts per listing page.
const DefaultPageSize = 5

type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:100;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Content string `json:"content" validate:"required"`
}

type UpdatePostRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Content string `json:"content" validate:"required"`
}

// PostFilter selects a window of posts ordered newest first.
type PostFilter struct {
	AuthorID *uint
	Limit    int
	Offset   int
}

type PostPage struct {
	Items    []*Post
	Page     int
	PageSize int
	HasMore  bool
}

type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id uint) (*Post, error)
	List(ctx context.Context, filter PostFilter) ([]*Post, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id uint) error
}

type PostService interface {
	CreatePost(ctx context.Context, identity *Identity, req CreatePostRequest) (*Post, error)
	GetPost(ctx context.Context, id uint) (*Post, error)
	UpdatePost(ctx context.Context, identity *Identity, id uint, req UpdatePostRequest) (*Post, error)
	DeletePost(ctx context.Context, identity *Identity, id uint) error
	// CheckOwnership reports whether identity may change post id, without touching it.
	CheckOwnership(ctx context.Context, identity *Identity, id uint) error
	ListPosts(ctx context.Context, page int) (*PostPage, error)
	ListPostsByAuthor(ctx context.Context, username string, page int) (*PostPage, error)
}
