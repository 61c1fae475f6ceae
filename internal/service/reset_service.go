package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"seungpyo.lee/PersonalBlog/internal/adapter"
	"seungpyo.lee/PersonalBlog/internal/authz"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/metrics"
	"seungpyo.lee/PersonalBlog/internal/util"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

const resetMailSubject = "Password Reset Request"

// mailTimeout bounds one delivery attempt running on the worker pool.
const mailTimeout = 30 * time.Second

// TokenCodec issues and verifies password reset tokens.
type TokenCodec interface {
	Issue(userID uint, ttl time.Duration) (string, error)
	Verify(token string) (uint, error)
	ExpiresIn(token string) time.Duration
}

// Submitter runs jobs in the background.
type Submitter interface {
	Submit(f func()) error
}

// ResetConfig tunes the reset flow.
type ResetConfig struct {
	TTL         time.Duration
	URLBase     string
	SingleUse   bool
	RequireAuth bool
}

type resetService struct {
	repo   domain.UserRepository
	codec  TokenCodec
	mailer adapter.MailDispatcher
	jobs   Submitter
	used   domain.UsedTokenStore
	config ResetConfig
	log    *logger.Logger
}

// NewResetService wires the password reset flow. used may be nil when SingleUse is off.
func NewResetService(repo domain.UserRepository, codec TokenCodec, mailer adapter.MailDispatcher, jobs Submitter, used domain.UsedTokenStore, conf ResetConfig, log *logger.Logger) domain.ResetService {
	if conf.TTL <= 0 {
		conf.TTL = 1800 * time.Second
	}
	return &resetService{repo: repo, codec: codec, mailer: mailer, jobs: jobs, used: used, config: conf, log: log}
}

// RequestReset mails a reset link to the account owning req.Email. The token is
// never part of the return value.
func (s *resetService) RequestReset(ctx context.Context, identity *domain.Identity, req domain.ResetRequest) error {
	if err := s.CheckRequester(identity); err != nil {
		return err
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(req).ErrOrNil(); err != nil {
		return err
	}
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError("email", msgNoSuchAccount)
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	tok, err := s.codec.Issue(user.ID, s.config.TTL)
	if err != nil {
		return err
	}
	body := resetMailBody(strings.TrimSuffix(s.config.URLBase, "/")+"/"+tok, s.config.TTL)
	to, userID := user.Email, user.ID

	err = s.jobs.Submit(func() {
		mctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := s.mailer.Send(mctx, to, resetMailSubject, body); err != nil {
			metrics.ResetTotal.WithLabelValues("mail_failed").Inc()
			s.log.Error("reset mail not delivered", "user_id", userID, "error", err)
			return
		}
		metrics.ResetTotal.WithLabelValues("mail_sent").Inc()
	})
	if err != nil {
		return fmt.Errorf("failed to queue reset mail: %w", err)
	}
	metrics.ResetTotal.WithLabelValues("requested").Inc()
	s.log.Info("password reset requested", "user_id", user.ID)
	return nil
}

// CheckRequester rejects anonymous callers when RequireAuth is set.
func (s *resetService) CheckRequester(identity *domain.Identity) error {
	if s.config.RequireAuth {
		return authz.RequireAuthenticated(identity)
	}
	return nil
}

// CheckToken resolves a reset token to its user without consuming it.
func (s *resetService) CheckToken(ctx context.Context, token string) (*domain.User, error) {
	return s.resolve(ctx, token)
}

// ResetPassword consumes token and stores a new password hash for its user.
func (s *resetService) ResetPassword(ctx context.Context, token string, req domain.ResetPasswordRequest) error {
	user, err := s.resolve(ctx, token)
	if err != nil {
		return err
	}
	if err := validateStruct(req).ErrOrNil(); err != nil {
		return err
	}
	if s.config.SingleUse && s.used != nil {
		ttl := s.codec.ExpiresIn(token)
		if ttl <= 0 {
			ttl = time.Second
		}
		first, err := s.used.MarkUsed(ctx, token, ttl)
		if err != nil {
			return err
		}
		if !first {
			return s.reject(fmt.Errorf("%w: already used", domain.ErrTokenInvalid))
		}
	}

	hashed, err := util.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	metrics.ResetTotal.WithLabelValues("consumed").Inc()
	s.log.Info("password reset", "user_id", user.ID)
	return nil
}

func (s *resetService) resolve(ctx context.Context, token string) (*domain.User, error) {
	uid, err := s.codec.Verify(token)
	if err != nil {
		return nil, s.reject(err)
	}
	user, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.reject(fmt.Errorf("%w: user %d no longer exists", domain.ErrTokenInvalid, uid))
		}
		return nil, fmt.Errorf("failed to resolve reset token: %w", err)
	}
	return user, nil
}

// reject collapses every token failure into ErrResetTokenRejected while keeping
// the cause reachable through errors.Is.
func (s *resetService) reject(cause error) error {
	metrics.ResetTotal.WithLabelValues("rejected").Inc()
	s.log.Debug("reset token rejected", "reason", cause)
	return fmt.Errorf("%w: %w", domain.ErrResetTokenRejected, cause)
}

func resetMailBody(link string, ttl time.Duration) string {
	return fmt.Sprintf(`To reset your password, visit the following link:
%s

This link is valid for %d minutes.

If you did not make this request then simply ignore this email and no changes will be made.
`, link, int(ttl.Minutes()))
}
