package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"seungpyo.lee/PersonalBlog/internal/domain"
)

// MemoryUserRepository is a process-local Credential Store used by DB_DRIVER=memory and tests.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]domain.User
}

// NewMemoryUserRepository creates an empty store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{nextID: 1, users: make(map[uint]domain.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUniqueLocked(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	now := time.Now().UTC()
	user.ID = r.nextID
	r.nextID++
	if user.ImageRef == "" {
		user.ImageRef = domain.DefaultImageRef
	}
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id uint) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("failed to get user %d: %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *MemoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("failed to update user %d: %w", user.ID, domain.ErrNotFound)
	}
	if err := r.checkUniqueLocked(user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.ImageRef = user.ImageRef
	stored.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = stored
	return nil
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, id uint, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return fmt.Errorf("failed to update password for user %d: %w", id, domain.ErrNotFound)
	}
	stored.Password = passwordHash
	stored.UpdatedAt = time.Now().UTC()
	r.users[id] = stored
	return nil
}

func (r *MemoryUserRepository) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("failed to get user: %w", domain.ErrNotFound)
}

// checkUniqueLocked mirrors the unique indexes of the users table.
func (r *MemoryUserRepository) checkUniqueLocked(user *domain.User) error {
	for id, u := range r.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username {
			return fmt.Errorf("%w: username %q", domain.ErrConflict, user.Username)
		}
		if u.Email == user.Email {
			return fmt.Errorf("%w: email %q", domain.ErrConflict, user.Email)
		}
	}
	return nil
}

// MemoryPostRepository keeps posts in a map and resolves authors through users.
type MemoryPostRepository struct {
	mu     sync.RWMutex
	nextID uint
	posts  map[uint]domain.Post
	users  domain.UserRepository
}

// NewMemoryPostRepository creates an empty store. users fills Post.Author on reads.
func NewMemoryPostRepository(users domain.UserRepository) *MemoryPostRepository {
	return &MemoryPostRepository{nextID: 1, posts: make(map[uint]domain.Post), users: users}
}

func (r *MemoryPostRepository) Create(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = r.nextID
	r.nextID++
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	stored := *post
	stored.Author = nil
	r.posts[post.ID] = stored
	return nil
}

func (r *MemoryPostRepository) GetByID(ctx context.Context, id uint) (*domain.Post, error) {
	r.mu.RLock()
	p, ok := r.posts[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("failed to get post %d: %w", id, domain.ErrNotFound)
	}
	r.withAuthor(ctx, &p)
	return &p, nil
}

func (r *MemoryPostRepository) List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error) {
	r.mu.RLock()
	all := make([]domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
			continue
		}
		all = append(all, p)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	if filter.Offset >= len(all) {
		return []*domain.Post{}, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	out := make([]*domain.Post, 0, len(all))
	for i := range all {
		p := all[i]
		r.withAuthor(ctx, &p)
		out = append(out, &p)
	}
	return out, nil
}

func (r *MemoryPostRepository) Update(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[post.ID]
	if !ok {
		return fmt.Errorf("failed to update post %d: %w", post.ID, domain.ErrNotFound)
	}
	stored.Title = post.Title
	stored.Content = post.Content
	r.posts[post.ID] = stored
	return nil
}

func (r *MemoryPostRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return fmt.Errorf("failed to delete post %d: %w", id, domain.ErrNotFound)
	}
	delete(r.posts, id)
	return nil
}

func (r *MemoryPostRepository) withAuthor(ctx context.Context, p *domain.Post) {
	if r.users == nil {
		return
	}
	if u, err := r.users.GetByID(ctx, p.AuthorID); err == nil {
		p.Author = u
	}
}
