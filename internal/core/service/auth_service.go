package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
	"github.com/pickmeapp/pickme-api/internal/core/token"
)

// AuthService implements registration, login, and profile access.
type AuthService struct {
	repo  ports.UserRepository
	codec *token.Codec
}

func NewAuthService(repo ports.UserRepository, codec *token.Codec) *AuthService {
	return &AuthService{repo: repo, codec: codec}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || in.FullName == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(in.Role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		FullName:     in.FullName,
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if !user.Active {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	tok, err := s.codec.Generate(user)
	if err != nil {
		return "", nil, err
	}

	return tok, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID, fullName, phone string) (*domain.User, error) {
	if fullName == "" {
		return nil, domain.ErrInvalidCredentials
	}
	return s.repo.UpdateProfile(ctx, userID, fullName, phone)
}
