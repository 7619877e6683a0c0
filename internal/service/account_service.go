package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/models"
	"github.com/smartlab-id/smartlab-api/internal/repository"
)

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates no free address could be generated.
	ErrEmailTaken = errors.New("email address already in use")
)

const (
	emailSuffixRetries = 6
	passwordLength     = 12
	passwordAlphabet   = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// AccountService manages user profiles and teacher provisioning.
type AccountService interface {
	List(ctx context.Context, filter dto.UserFilter) ([]dto.UserResponse, error)
	Get(ctx context.Context, id uint) (dto.UserResponse, error)
	ProvisionTeacher(ctx context.Context, payload dto.TeacherProvisionRequest) (dto.TeacherProvisionResponse, error)
}

type accountService struct {
	repo        repository.UserRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	emailDomain string
}

// NewAccountService builds a new account service.
func NewAccountService(repo repository.UserRepository, validate *validator.Validate, emailDomain string, logger zerolog.Logger) AccountService {
	return &accountService{
		repo:        repo,
		validator:   validate,
		logger:      logger.With().Str("component", "account_service").Logger(),
		emailDomain: emailDomain,
	}
}

func (s *accountService) List(ctx context.Context, filter dto.UserFilter) ([]dto.UserResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	users, err := s.repo.List(ctx, repository.UserFilter{
		Role:    filter.Role,
		ClassID: filter.ClassID,
		Search:  filter.Search,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(users), nil
}

func (s *accountService) Get(ctx context.Context, id uint) (dto.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

// ProvisionTeacher creates a teacher account. When the request omits email or
// password they are generated; the plaintext credentials are returned once
// and only the bcrypt hash is stored.
func (s *accountService) ProvisionTeacher(ctx context.Context, payload dto.TeacherProvisionRequest) (dto.TeacherProvisionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherProvisionResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" {
		generated, err := s.generateEmail(ctx, payload.FullName)
		if err != nil {
			return dto.TeacherProvisionResponse{}, err
		}
		email = generated
	} else {
		taken, err := s.repo.EmailExists(ctx, email)
		if err != nil {
			return dto.TeacherProvisionResponse{}, err
		}
		if taken {
			return dto.TeacherProvisionResponse{}, ErrEmailTaken
		}
	}

	password := payload.Password
	if password == "" {
		generated, err := generatePassword(passwordLength)
		if err != nil {
			return dto.TeacherProvisionResponse{}, err
		}
		password = generated
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dto.TeacherProvisionResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		AuthID:       uuid.NewString(),
		FullName:     strings.TrimSpace(payload.FullName),
		Email:        email,
		Role:         models.RoleGuru,
		Phone:        payload.Phone,
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.TeacherProvisionResponse{}, ErrEmailTaken
		}
		return dto.TeacherProvisionResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("email", email).Msg("teacher account provisioned")

	return dto.TeacherProvisionResponse{
		User:     dto.NewUserResponse(user),
		Email:    email,
		Password: password,
	}, nil
}

// generateEmail derives slug(full name) plus a short random hex suffix and
// retries a bounded number of times when the address is taken.
func (s *accountService) generateEmail(ctx context.Context, fullName string) (string, error) {
	slug := slugifyName(fullName)

	for attempt := 0; attempt < emailSuffixRetries; attempt++ {
		suffix := uuid.NewString()[:4]
		candidate := fmt.Sprintf("%s.%s@%s", slug, suffix, s.emailDomain)

		taken, err := s.repo.EmailExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", ErrEmailTaken
}

func slugifyName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	slug := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == ' ' {
			return '.'
		}
		return -1
	}, lower)
	slug = strings.Trim(slug, ".")
	for strings.Contains(slug, "..") {
		slug = strings.ReplaceAll(slug, "..", ".")
	}
	if slug == "" {
		slug = "guru"
	}
	return slug
}

func generatePassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}
