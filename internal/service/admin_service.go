package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/studylab/chatboard/internal/domain"
	"github.com/studylab/chatboard/internal/repository"
	"github.com/studylab/chatboard/lib/logger/sl"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminService backs the admin console login. The credential check is a
// plaintext comparison against the stored account; nothing stronger.
type AdminService struct {
	users repository.UserRepository
	log   *slog.Logger
}

func NewAdminService(users repository.UserRepository, log *slog.Logger) *AdminService {
	if log == nil {
		log = slog.Default()
	}
	return &AdminService{users: users, log: log}
}

func (s *AdminService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	const op = "service.admin.login"
	log := s.log.With(slog.String("op", op), slog.String("username", username))

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Password != password || user.Role != domain.RoleAdmin {
		log.Info("login rejected")
		return nil, ErrInvalidCredentials
	}

	log.Info("admin logged in")
	return user, nil
}

// Bootstrap seeds the default admin account when none exists yet.
func (s *AdminService) Bootstrap(ctx context.Context, username, password string) error {
	const op = "service.admin.bootstrap"

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	user := domain.NewUser(username, password, domain.RoleAdmin)
	if err := s.users.CreateUser(ctx, user); err != nil {
		s.log.Error("failed to seed admin user", slog.String("op", op), sl.Err(err))
		return err
	}

	s.log.Info("admin account seeded", slog.String("op", op), slog.String("username", username))
	return nil
}
