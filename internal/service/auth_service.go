package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthtracker/internal/auth"
	apperrors "healthtracker/internal/errors"
	"healthtracker/internal/model"
	"healthtracker/internal/repository"
)

const minPasswordLength = 6

var validate = validator.New()

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username        string
	RealName        string
	Email           string
	Password        string
	PhysicalDetails *model.PhysicalDetails
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (token string, user *model.User, err error)
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	hasher     auth.PasswordHasher
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	hasher auth.PasswordHasher,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		hasher:     hasher,
	}
}

// Register creates a new user with a hashed password and returns a session token.
func (s *authService) Register(ctx context.Context, in RegisterInput) (string, *model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.RealName = strings.TrimSpace(in.RealName)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" || in.RealName == "" || in.Email == "" || in.Password == "" {
		return "", nil, apperrors.Validation("username, real name, email and password are required")
	}
	if validate.Var(in.Email, "email") != nil {
		return "", nil, apperrors.Validation("email is not valid")
	}
	if len(in.Password) < minPasswordLength {
		return "", nil, apperrors.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if in.PhysicalDetails != nil {
		if err := validatePhysicalDetails(in.PhysicalDetails); err != nil {
			return "", nil, err
		}
	}

	if _, err := s.userRepo.FindByUsername(ctx, in.Username); err == nil {
		return "", nil, apperrors.ErrDuplicateUsername
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("check username: %w", err)
	}
	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return "", nil, apperrors.ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("check email: %w", err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     in.Username,
		RealName:     in.RealName,
		Email:        in.Email,
		PasswordHash: hashed,
	}
	if in.PhysicalDetails != nil {
		user.PhysicalDetails = *in.PhysicalDetails
		if w := in.PhysicalDetails.Weight; w != nil {
			user.WeightHistory = []model.WeightEntry{{Weight: *w}}
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", nil, apperrors.New(apperrors.ErrDuplicate, "username or email already exists")
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateSessionToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}
	return token, user, nil
}

// Login verifies credentials and returns a session token.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", nil, apperrors.Validation("username and password are required")
	}

	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateSessionToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}
	return token, user, nil
}

// Authenticate resolves a bearer token to its claims. Revoked tokens are
// rejected even when their signature is still valid.
func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, apperrors.New(apperrors.ErrUnauthenticated, "no token, authorization denied")
	}
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrUnauthenticated, "token is not valid")
	}
	if s.tokenStore != nil && s.tokenStore.IsTokenRevoked(ctx, claims.ID) {
		return nil, apperrors.New(apperrors.ErrUnauthenticated, "token has been revoked")
	}
	return claims, nil
}

// Logout revokes the session for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return apperrors.New(apperrors.ErrUnauthenticated, "no token, authorization denied")
	}
	if s.tokenStore == nil {
		return nil
	}
	if err := s.tokenStore.RevokeToken(ctx, claims.ID, claims.TTL()); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func validatePhysicalDetails(d *model.PhysicalDetails) error {
	if d.Height != nil && *d.Height <= 0 {
		return apperrors.Validation("height must be positive")
	}
	if d.Weight != nil && *d.Weight <= 0 {
		return apperrors.Validation("weight must be positive")
	}
	if d.Age != nil && *d.Age <= 0 {
		return apperrors.Validation("age must be positive")
	}
	if d.Gender != nil && !d.Gender.Valid() {
		return apperrors.Validation("gender must be one of male, female, other")
	}
	return nil
}
