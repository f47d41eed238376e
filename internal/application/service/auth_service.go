package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/garyjia/invoice-dashboard/internal/application/form"
	"github.com/garyjia/invoice-dashboard/internal/application/port"
	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
)

// AuthErrorType classifies a failed sign-in
type AuthErrorType string

const (
	AuthErrorCredentialsSignin AuthErrorType = "CredentialsSignin"
	AuthErrorCallbackRoute     AuthErrorType = "CallbackRouteError"
	AuthErrorConfiguration     AuthErrorType = "Configuration"
)

// Messages shown on the login form
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgSomethingWentWrong = "Something went wrong"
)

// PasswordHashCost is the bcrypt cost for stored passwords
const PasswordHashCost = 10

const minPasswordLength = 6

// ErrUserExists is returned by CreateUser when the email is taken
var ErrUserExists = errors.New("user already exists")

// AuthError is a classified sign-in failure
type AuthError struct {
	Type AuthErrorType
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return string(e.Type)
	}
	return fmt.Sprintf("%s: %v", e.Type, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Session is an issued session token
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// AuthService signs users in and manages accounts
type AuthService interface {
	// SignIn returns an *AuthError for classified failures. Context
	// cancellation is returned as is.
	SignIn(ctx context.Context, f form.LoginForm) (*Session, error)

	// Authenticate maps classified failures to a login form message.
	// Any other error is returned for the caller to handle.
	Authenticate(ctx context.Context, f form.LoginForm) (*Session, string, error)

	// VerifySession validates a session token
	VerifySession(token string) (*port.SessionClaims, error)

	// CreateUser hashes the password and stores a new user
	CreateUser(ctx context.Context, name, email, password string) (*entity.User, error)
}

type authServiceImpl struct {
	userRepo  port.UserRepository
	issuer    port.SessionIssuer
	verifier  port.SessionVerifier
	validator *form.Validator
	logger    Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo port.UserRepository,
	issuer port.SessionIssuer,
	verifier port.SessionVerifier,
	validator *form.Validator,
	logger Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:  userRepo,
		issuer:    issuer,
		verifier:  verifier,
		validator: validator,
		logger:    logger,
	}
}

// SignIn checks the credentials and issues a session token
func (s *authServiceImpl) SignIn(ctx context.Context, f form.LoginForm) (*Session, error) {
	if !s.validator.ValidLogin(f) {
		return nil, &AuthError{Type: AuthErrorCredentialsSignin}
	}

	user, err := s.userRepo.GetByEmail(ctx, f.Email)
	if err != nil {
		if isContextError(err) {
			return nil, err
		}
		s.logger.Error("Failed to fetch user", "error", err)
		return nil, &AuthError{Type: AuthErrorCallbackRoute, Err: err}
	}
	if user == nil {
		return nil, &AuthError{Type: AuthErrorCredentialsSignin}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(f.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, &AuthError{Type: AuthErrorCredentialsSignin}
		}
		s.logger.Error("Failed to compare password hash", "error", err, "user_id", user.ID)
		return nil, &AuthError{Type: AuthErrorCallbackRoute, Err: err}
	}

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		s.logger.Error("Failed to issue session token", "error", err, "user_id", user.ID)
		return nil, &AuthError{Type: AuthErrorConfiguration, Err: err}
	}

	s.logger.Info("User signed in", "user_id", user.ID)
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate runs SignIn and classifies its failure
func (s *authServiceImpl) Authenticate(ctx context.Context, f form.LoginForm) (*Session, string, error) {
	session, err := s.SignIn(ctx, f)
	if err == nil {
		return session, "", nil
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		return nil, "", err
	}

	if authErr.Type == AuthErrorCredentialsSignin {
		return nil, MsgInvalidCredentials, nil
	}
	return nil, MsgSomethingWentWrong, nil
}

// VerifySession validates a session token
func (s *authServiceImpl) VerifySession(token string) (*port.SessionClaims, error) {
	return s.verifier.Verify(token)
}

// CreateUser hashes the password and stores a new user
func (s *authServiceImpl) CreateUser(ctx context.Context, name, email, password string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if !s.validator.ValidLogin(form.LoginForm{Email: email, Password: password}) {
		return nil, fmt.Errorf("a valid email and a password of at least %d characters are required", minPasswordLength)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
