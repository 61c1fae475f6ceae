package domain

import (
	"context"
	"time"
)

// DefaultImageRef is the sentinel picture every account starts with. It is never deleted.
const DefaultImageRef = "default.jpg"

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:20;uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"size:60;not null"` // bcrypt hash, hidden in JSON responses
	ImageRef  string    `json:"image_ref" gorm:"size:64;not null;default:default.jpg"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=2,max=20"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// UpdateAccountRequest carries the new profile. Picture is an optional data URL
// ("data:image/png;base64,...").
type UpdateAccountRequest struct {
	Username        string `json:"username" validate:"required,min=2,max=20"`
	Email           string `json:"email" validate:"required,email"`
	Picture         string `json:"picture,omitempty"`
	PictureFilename string `json:"picture_filename,omitempty"`
}

type ResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}

// UsedTokenStore remembers consumed reset tokens. MarkUsed reports true only for the first use.
type UsedTokenStore interface {
	MarkUsed(ctx context.Context, token string, ttl time.Duration) (bool, error)
}

type AuthService interface {
	Register(ctx context.Context, identity *Identity, req RegisterRequest) (*User, error)
	Login(ctx context.Context, identity *Identity, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (string, int64, error)
}

type AccountService interface {
	GetAccount(ctx context.Context, identity *Identity) (*User, error)
	UpdateAccount(ctx context.Context, identity *Identity, req UpdateAccountRequest) (*User, error)
	PictureURL(ref string) string
}

type ResetService interface {
	RequestReset(ctx context.Context, identity *Identity, req ResetRequest) error
	// CheckRequester applies the identity rule of RequestReset on its own.
	CheckRequester(identity *Identity) error
	CheckToken(ctx context.Context, token string) (*User, error)
	ResetPassword(ctx context.Context, token string, req ResetPasswordRequest) error
}
