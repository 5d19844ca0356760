package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/models"
	"github.com/noah-isme/academic-evaluator-api/internal/repository"
)

var passwordCost = bcrypt.DefaultCost

// HashPassword derives the stored bcrypt hash of a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// AuthService issues and describes sessions.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	Profile(ctx context.Context, userID uint) (dto.UserProfile, error)
}

type authService struct {
	users     repository.UserRepository
	students  repository.StudentRepository
	validator *validator.Validate
	secret    []byte
	ttl       time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, students repository.StudentRepository, validate *validator.Validate, secret string, ttl time.Duration, logger zerolog.Logger) AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{
		users:     users,
		students:  students,
		validator: validate,
		secret:    []byte(secret),
		ttl:       ttl,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info().Uint("user_id", user.ID).Msg("rejected login with wrong password")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	student, err := s.studentFor(ctx, user)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": user.Role,
		"name": user.Name,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	if student != nil {
		claims["student_id"] = student.ID
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		User:      dto.NewUserProfile(user, student),
	}, nil
}

func (s *authService) Profile(ctx context.Context, userID uint) (dto.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserProfile{}, ErrUserNotFound
		}
		return dto.UserProfile{}, err
	}

	student, err := s.studentFor(ctx, user)
	if err != nil {
		return dto.UserProfile{}, err
	}
	return dto.NewUserProfile(user, student), nil
}

// studentFor loads the student record owned by a student account. An account
// whose record is gone cannot sign in.
func (s *authService) studentFor(ctx context.Context, user models.User) (*models.Student, error) {
	if user.Role != models.RoleStudent {
		return nil, nil
	}

	student, err := s.students.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &student, nil
}
