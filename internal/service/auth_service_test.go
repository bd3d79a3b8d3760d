package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/repository"
)

// userRepoStub is an in-memory UserRepository.
type userRepoStub struct {
	users  []models.User
	nextID uint
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (models.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	return s.users, nil
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	s.nextID++
	user.ID = s.nextID
	s.users = append(s.users, *user)
	return nil
}

func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *userRepoStub) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	for _, user := range s.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func seedUser(t *testing.T, repo *userRepoStub, username, password, role, studentID string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Test User",
		Role:         role,
		StudentID:    studentID,
	}
	require.NoError(t, repo.Create(context.Background(), &user))
	return user
}

func newAuthService(repo repository.UserRepository) AuthService {
	return newAuthServiceFor(repo, "admin")
}

func newAuthServiceFor(repo repository.UserRepository, adminUsername string) AuthService {
	return NewAuthService(repo, "test-secret", time.Hour, adminUsername, validator.New(), testLogger())
}

func TestAuthServiceLoginIssuesToken(t *testing.T) {
	repo := &userRepoStub{}
	seedUser(t, repo, "sv001", "password123", models.RoleStudent, "SV001")
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "sv001", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, models.RoleStudent, resp.User.Role)
	require.True(t, resp.ExpiresAt.After(time.Now()))

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, models.RoleStudent, claims["role"])
	require.Equal(t, "SV001", claims["student_id"])
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := &userRepoStub{}
	seedUser(t, repo, "teacher1", "correct", models.RoleTeacher, "")
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "teacher1", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc := newAuthService(&userRepoStub{})

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "whatever"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceCreateUserHashesPassword(t *testing.T) {
	repo := &userRepoStub{}
	svc := newAuthService(repo)

	resp, err := svc.CreateUser(context.Background(), dto.UserCreateRequest{
		Username:  "sv002",
		Password:  "password123",
		FullName:  "Tran Binh",
		Role:      models.RoleStudent,
		StudentID: "SV002",
	})
	require.NoError(t, err)
	require.Equal(t, "sv002", resp.Username)

	stored := repo.users[0]
	require.NotEqual(t, "password123", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestAuthServiceCreateUserValidation(t *testing.T) {
	svc := newAuthService(&userRepoStub{})

	// student accounts must carry a student id
	_, err := svc.CreateUser(context.Background(), dto.UserCreateRequest{
		Username: "sv003",
		Password: "password123",
		FullName: "No Link",
		Role:     models.RoleStudent,
	})
	require.Error(t, err)

	// role must be teacher or student
	_, err = svc.CreateUser(context.Background(), dto.UserCreateRequest{
		Username: "x",
		Password: "password123",
		FullName: "Bad Role",
		Role:     "principal",
	})
	require.Error(t, err)
}

func TestAuthServiceDeleteUserGuardsAdmin(t *testing.T) {
	repo := &userRepoStub{}
	admin := seedUser(t, repo, "admin", "secret", models.RoleTeacher, "")
	other := seedUser(t, repo, "teacher2", "secret", models.RoleTeacher, "")
	svc := newAuthService(repo)

	require.ErrorIs(t, svc.DeleteUser(context.Background(), admin.ID), ErrCannotDeleteAdmin)
	require.NoError(t, svc.DeleteUser(context.Background(), other.ID))
	require.ErrorIs(t, svc.DeleteUser(context.Background(), 999), ErrUserNotFound)
}

func TestAuthServiceDeleteUserGuardsCustomAdminUsername(t *testing.T) {
	repo := &userRepoStub{}
	svc := newAuthServiceFor(repo, "principal")

	require.NoError(t, svc.EnsureAdmin(context.Background(), "principal", "secret", "Principal"))
	seeded, err := repo.GetByUsername(context.Background(), "principal")
	require.NoError(t, err)

	// the configured admin is protected, an account literally named
	// "admin" is not
	plain := seedUser(t, repo, "admin", "secret", models.RoleTeacher, "")

	require.ErrorIs(t, svc.DeleteUser(context.Background(), seeded.ID), ErrCannotDeleteAdmin)
	require.NoError(t, svc.DeleteUser(context.Background(), plain.ID))
}

func TestAuthServiceEnsureAdmin(t *testing.T) {
	repo := &userRepoStub{}
	svc := newAuthService(repo)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "secret", "Administrator"))
	require.Len(t, repo.users, 1)
	require.Equal(t, models.RoleTeacher, repo.users[0].Role)

	// second call is a no-op once a teacher exists
	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "secret", "Administrator"))
	require.Len(t, repo.users, 1)
}
