package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/repository"
)

var (
	// ErrInvalidCredentials indicates a failed login attempt. The same
	// error covers unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound indicates the referenced account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrCannotDeleteAdmin guards the seeded admin account.
	ErrCannotDeleteAdmin = errors.New("the admin account cannot be deleted")
)

// AuthService authenticates against the local credential table and manages
// accounts. Passwords are stored as bcrypt hashes; sessions are stateless
// JWTs carrying the user id, role and linked student id.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	CreateUser(ctx context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	DeleteUser(ctx context.Context, id uint) error
	EnsureAdmin(ctx context.Context, username, password, fullName string) error
}

type authService struct {
	repo          repository.UserRepository
	secret        []byte
	tokenTTL      time.Duration
	adminUsername string
	validator     *validator.Validate
	logger        zerolog.Logger
	now           func() time.Time
}

// NewAuthService constructs the auth service. adminUsername names the seeded
// account that DeleteUser refuses to remove.
func NewAuthService(repo repository.UserRepository, secret string, tokenTTL time.Duration, adminUsername string, validator *validator.Validate, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &authService{
		repo:          repo,
		secret:        []byte(secret),
		tokenTTL:      tokenTTL,
		adminUsername: adminUsername,
		validator:     validator,
		logger:        logger.With().Str("component", "auth_service").Logger(),
		now:           time.Now,
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(payload.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	expiresAt := s.now().Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"name": user.FullName,
		"exp":  expiresAt.Unix(),
		"iat":  s.now().Unix(),
	}
	if user.StudentID != "" {
		claims["student_id"] = user.StudentID
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Str("username", user.Username).Str("role", user.Role).Msg("login succeeded")
	return dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.NewUserResponse(user),
	}, nil
}

func (s *authService) CreateUser(ctx context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Username:     strings.TrimSpace(payload.Username),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(payload.FullName),
		Role:         payload.Role,
		StudentID:    strings.TrimSpace(payload.StudentID),
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *authService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponses(users), nil
}

func (s *authService) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if s.adminUsername != "" && user.Username == s.adminUsername {
		return ErrCannotDeleteAdmin
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// EnsureAdmin seeds a default teacher account when the credential table has
// no teacher yet, so a fresh install is reachable.
func (s *authService) EnsureAdmin(ctx context.Context, username, password, fullName string) error {
	count, err := s.repo.CountByRole(ctx, models.RoleTeacher)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         models.RoleTeacher,
	}
	if err := s.repo.Create(ctx, &admin); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil
		}
		return err
	}

	s.logger.Info().Str("username", username).Msg("seeded default admin account")
	return nil
}
