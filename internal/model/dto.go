package model

import (
	"time"

	"seungpyo.lee/PersonalBlog/internal/domain"
)

// UserResponse is the public view of an account. The password hash never leaves the service.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	ImageURL string `json:"image_url"`
}

type AuthorResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	ImageURL string `json:"image_url"`
}

type PostResponse struct {
	ID        uint            `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	Author    *AuthorResponse `json:"author,omitempty"`
}

type PageResponse struct {
	Items    []PostResponse `json:"items"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	HasMore  bool           `json:"has_more"`
}

type LoginResponse struct {
	Token        string       `json:"token"`
	ExpiresAt    int64        `json:"expires_at"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type RefreshResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// PictureURLFunc resolves a stored image reference to a public address.
type PictureURLFunc func(ref string) string

// NewUserResponse builds the account view. withEmail is false for views shown to other users.
func NewUserResponse(u *domain.User, pictureURL PictureURLFunc, withEmail bool) UserResponse {
	r := UserResponse{ID: u.ID, Username: u.Username, ImageURL: pictureURL(u.ImageRef)}
	if withEmail {
		r.Email = u.Email
	}
	return r
}

func NewPostResponse(p *domain.Post, pictureURL PictureURLFunc) PostResponse {
	r := PostResponse{ID: p.ID, Title: p.Title, Content: p.Content, CreatedAt: p.CreatedAt}
	if p.Author != nil {
		r.Author = &AuthorResponse{ID: p.Author.ID, Username: p.Author.Username, ImageURL: pictureURL(p.Author.ImageRef)}
	}
	return r
}

func NewPageResponse(page *domain.PostPage, pictureURL PictureURLFunc) PageResponse {
	items := make([]PostResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, NewPostResponse(p, pictureURL))
	}
	return PageResponse{Items: items, Page: page.Page, PageSize: page.PageSize, HasMore: page.HasMore}
}
