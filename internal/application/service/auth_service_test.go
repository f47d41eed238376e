package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/garyjia/invoice-dashboard/internal/application/form"
	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthService(users *mockUserRepo, sessions *mockSessions) AuthService {
	if users == nil {
		users = &mockUserRepo{}
	}
	if sessions == nil {
		sessions = &mockSessions{}
	}
	return NewAuthService(users, sessions, sessions, form.NewValidator(), &mockLogger{})
}

func TestAuthService_SignIn(t *testing.T) {
	user := &entity.User{ID: "u1", Name: "User", Email: "user@nextmail.com", Password: hashPassword(t, "123456")}
	found := func(ctx context.Context, email string) (*entity.User, error) {
		if email == user.Email {
			return user, nil
		}
		return nil, nil
	}

	tests := []struct {
		name       string
		form       form.LoginForm
		getByEmail func(ctx context.Context, email string) (*entity.User, error)
		issue      func(user *entity.User) (string, time.Time, error)
		wantType   AuthErrorType
	}{
		{
			name:       "valid credentials",
			form:       form.LoginForm{Email: user.Email, Password: "123456"},
			getByEmail: found,
		},
		{
			name:       "malformed email",
			form:       form.LoginForm{Email: "user", Password: "123456"},
			getByEmail: found,
			wantType:   AuthErrorCredentialsSignin,
		},
		{
			name:       "short password",
			form:       form.LoginForm{Email: user.Email, Password: "123"},
			getByEmail: found,
			wantType:   AuthErrorCredentialsSignin,
		},
		{
			name:       "unknown user",
			form:       form.LoginForm{Email: "other@nextmail.com", Password: "123456"},
			getByEmail: found,
			wantType:   AuthErrorCredentialsSignin,
		},
		{
			name:       "wrong password",
			form:       form.LoginForm{Email: user.Email, Password: "654321"},
			getByEmail: found,
			wantType:   AuthErrorCredentialsSignin,
		},
		{
			name: "repository failure",
			form: form.LoginForm{Email: user.Email, Password: "123456"},
			getByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return nil, errors.New("connection reset")
			},
			wantType: AuthErrorCallbackRoute,
		},
		{
			name:       "token issuing failure",
			form:       form.LoginForm{Email: user.Email, Password: "123456"},
			getByEmail: found,
			issue: func(user *entity.User) (string, time.Time, error) {
				return "", time.Time{}, errors.New("empty secret")
			},
			wantType: AuthErrorConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAuthService(
				&mockUserRepo{getByEmailFunc: tt.getByEmail},
				&mockSessions{issueFunc: tt.issue},
			)

			session, err := svc.SignIn(context.Background(), tt.form)

			if tt.wantType == "" {
				require.NoError(t, err)
				assert.Equal(t, "token-u1", session.Token)
				assert.Equal(t, user, session.User)
				return
			}

			assert.Nil(t, session)
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.wantType, authErr.Type)
		})
	}
}

func TestAuthService_SignIn_ContextCanceled(t *testing.T) {
	svc := newAuthService(&mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
			return nil, context.Canceled
		},
	}, nil)

	_, err := svc.SignIn(context.Background(), form.LoginForm{Email: "user@nextmail.com", Password: "123456"})

	assert.ErrorIs(t, err, context.Canceled)
	var authErr *AuthError
	assert.False(t, errors.As(err, &authErr))
}

func TestAuthService_Authenticate(t *testing.T) {
	tests := []struct {
		name        string
		getByEmail  func(ctx context.Context, email string) (*entity.User, error)
		wantMessage string
		wantErr     error
	}{
		{
			name:        "invalid credentials",
			getByEmail:  func(ctx context.Context, email string) (*entity.User, error) { return nil, nil },
			wantMessage: MsgInvalidCredentials,
		},
		{
			name: "unknown failure",
			getByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return nil, errors.New("database is locked")
			},
			wantMessage: MsgSomethingWentWrong,
		},
		{
			name: "unclassified error is re-raised",
			getByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return nil, context.DeadlineExceeded
			},
			wantErr: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAuthService(&mockUserRepo{getByEmailFunc: tt.getByEmail}, nil)

			session, msg, err := svc.Authenticate(context.Background(),
				form.LoginForm{Email: "user@nextmail.com", Password: "123456"})

			assert.Nil(t, session)
			assert.Equal(t, tt.wantMessage, msg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_CreateUser(t *testing.T) {
	t.Run("stores bcrypt hash", func(t *testing.T) {
		var stored *entity.User
		svc := newAuthService(&mockUserRepo{
			createFunc: func(ctx context.Context, user *entity.User) error {
				stored = user
				return nil
			},
		}, nil)

		user, err := svc.CreateUser(context.Background(), " User ", "user@nextmail.com", "123456")

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, user, stored)
		assert.Equal(t, "User", user.Name)
		assert.NotEmpty(t, user.ID)
		assert.NotEqual(t, "123456", user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("123456")))

		cost, err := bcrypt.Cost([]byte(user.Password))
		require.NoError(t, err)
		assert.Equal(t, PasswordHashCost, cost)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := newAuthService(&mockUserRepo{
			getByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return &entity.User{ID: "u1", Email: email}, nil
			},
		}, nil)

		_, err := svc.CreateUser(context.Background(), "User", "user@nextmail.com", "123456")

		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("invalid input", func(t *testing.T) {
		svc := newAuthService(nil, nil)

		_, err := svc.CreateUser(context.Background(), "", "user@nextmail.com", "123456")
		assert.Error(t, err)

		_, err = svc.CreateUser(context.Background(), "User", "user@nextmail.com", "123")
		assert.Error(t, err)
	})
}
