package service

import (
	"context"

	"go.uber.org/zap"

	"citydrive-motors/internal/core/auth"
	"citydrive-motors/internal/domain"
	"citydrive-motors/pkg/utils"
)

// AuthService handles registration and login. Tokens are stateless; there
// is no server-side session store.
type AuthService struct {
	users domain.UserRepository
	jwter *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer, log *zap.Logger) *AuthService {
	return &AuthService{users: users, jwter: jwter, log: log}
}

// Register creates a user with a bcrypt-hashed password. The email is
// normalized first, so duplicates are caught case-insensitively.
func (s *AuthService) Register(ctx context.Context, in *domain.RegisterInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(in.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: utils.HashPassword(in.Password),
		Name:         in.Name,
		Phone:        in.Phone,
	}
	// The unique index catches the register/register race; the repo maps
	// it to ErrDuplicateEmail.
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

// Login verifies credentials and issues a signed token. Unknown email and
// wrong password return the same error so the response leaks nothing about
// which field was wrong.
func (s *AuthService) Login(ctx context.Context, in *domain.LoginInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	u, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(in.Email))
	if err != nil {
		return "", err
	}
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}
	return s.jwter.Issue(u.ID, u.Email)
}
