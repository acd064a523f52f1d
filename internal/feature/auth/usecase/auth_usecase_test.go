package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"messagely/internal/feature/auth/domain"
	"messagely/internal/feature/auth/domain/entity"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
// It simulates database operations during testing.
type mockUserRepository struct {
	CreateFunc          func(ctx context.Context, user *entity.User) error
	FindByUsernameFunc  func(ctx context.Context, username string) (*entity.User, error)
	ListFunc            func(ctx context.Context) ([]entity.User, error)
	UpdateLastLoginFunc func(ctx context.Context, username string, at time.Time) error
}

// Create is the mock implementation of the Create method.
func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil // Default: success
}

// FindByUsername is the mock implementation of the FindByUsername method.
func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	// Default: return user not found error
	return nil, domain.ErrUserNotFound
}

// List is the mock implementation of the List method.
func (m *mockUserRepository) List(ctx context.Context) ([]entity.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// UpdateLastLogin is the mock implementation of the UpdateLastLogin method.
func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, username, at)
	}
	return nil
}

// mockTokenIssuer is a mock implementation of the TokenIssuer interface.
type mockTokenIssuer struct {
	IssueFunc func(username string) (string, error)
}

// Issue is the mock implementation of the Issue method.
func (m *mockTokenIssuer) Issue(username string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(username)
	}
	// Default: return a dummy token
	return "mock-token", nil
}

// memoryUsers is a tiny in-memory UserRepository used for property-style tests.
func memoryUsers() *mockUserRepository {
	store := map[string]entity.User{}
	return &mockUserRepository{
		CreateFunc: func(_ context.Context, u *entity.User) error {
			if _, ok := store[u.Username]; ok {
				return domain.ErrUsernameTaken
			}
			store[u.Username] = *u
			return nil
		},
		FindByUsernameFunc: func(_ context.Context, username string) (*entity.User, error) {
			u, ok := store[username]
			if !ok {
				return nil, domain.ErrUserNotFound
			}
			return &u, nil
		},
		UpdateLastLoginFunc: func(_ context.Context, username string, at time.Time) error {
			u, ok := store[username]
			if !ok {
				return domain.ErrUserNotFound
			}
			u.LastLoginAt = &at
			store[username] = u
			return nil
		},
	}
}

func validInput(username, password string) RegisterInput {
	return RegisterInput{
		Username:  username,
		Password:  password,
		FirstName: "Test",
		LastName:  "User",
		Phone:     "+15555550100",
	}
}

func TestAuthUsecase_Register(t *testing.T) {
	t.Run("successful registration hashes the password", func(t *testing.T) {
		var stored *entity.User
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				stored = user
				return nil
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, bcrypt.MinCost)
		user, err := uc.Register(context.Background(), validInput("alice", "pw1"))

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.NotEqual(t, "pw1", stored.Password, "password is not hashed")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("pw1")), "invalid bcrypt hash")
		cost, err := bcrypt.Cost([]byte(stored.Password))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost, "configured work factor is used")

		assert.Equal(t, "alice", user.Username)
		assert.Empty(t, user.Password, "returned user must not carry the hash")
		assert.Equal(t, "Test", user.FirstName)
		assert.False(t, user.JoinAt.IsZero())
		assert.Nil(t, user.LastLoginAt)
	})

	t.Run("duplicate username", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return domain.ErrUsernameTaken
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, bcrypt.MinCost)
		_, err := uc.Register(context.Background(), validInput("alice", "pw1"))

		assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	})

	t.Run("repository create failure", func(t *testing.T) {
		expectedErr := errors.New("database error")
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return expectedErr
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, bcrypt.MinCost)
		_, err := uc.Register(context.Background(), validInput("alice", "pw1"))

		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("invalid input is rejected before hashing", func(t *testing.T) {
		called := false
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				called = true
				return nil
			},
		}
		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, bcrypt.MinCost)

		_, err := uc.Register(context.Background(), validInput("", "pw1"))
		assert.ErrorIs(t, err, domain.ErrInvalidUsername)

		_, err = uc.Register(context.Background(), validInput(strings.Repeat("a", 65), "pw1"))
		assert.ErrorIs(t, err, domain.ErrInvalidUsername)

		_, err = uc.Register(context.Background(), validInput("alice", ""))
		assert.ErrorIs(t, err, domain.ErrInvalidPassword)

		_, err = uc.Register(context.Background(), validInput("alice", strings.Repeat("p", 73)))
		assert.ErrorIs(t, err, domain.ErrInvalidPassword)

		assert.False(t, called, "repository must not be called")
	})
}

// TestAuthUsecase_Authenticate は登録後の正しいパスワードのみが true になることを検証します。
func TestAuthUsecase_Authenticate(t *testing.T) {
	repo := memoryUsers()
	uc := NewAuthUsecase(repo, &mockTokenIssuer{}, bcrypt.MinCost)
	ctx := context.Background()

	accounts := map[string]string{"alice": "pw1", "bob": "pw2", "carol": "correct horse battery staple"}
	for u, p := range accounts {
		_, err := uc.Register(ctx, validInput(u, p))
		require.NoError(t, err)
	}

	for u, p := range accounts {
		ok, err := uc.Authenticate(ctx, u, p)
		require.NoError(t, err)
		assert.True(t, ok, "%s should authenticate with own password", u)

		for other, op := range accounts {
			if other == u {
				continue
			}
			ok, err := uc.Authenticate(ctx, u, op)
			require.NoError(t, err)
			assert.False(t, ok, "%s must not authenticate with %s's password", u, other)
		}

		ok, err = uc.Authenticate(ctx, u, "")
		require.NoError(t, err)
		assert.False(t, ok)
	}

	ok, err := uc.Authenticate(ctx, "mallory", "pw1")
	require.NoError(t, err, "unknown user is not an error")
	assert.False(t, ok)
}

// TestAuthUsecase_Authenticate_LongPassword は72バイトのパスワードに任意の接尾辞を
// 付けた候補が一致しないことを検証します。
func TestAuthUsecase_Authenticate_LongPassword(t *testing.T) {
	repo := memoryUsers()
	uc := NewAuthUsecase(repo, &mockTokenIssuer{}, bcrypt.MinCost)
	ctx := context.Background()

	password := strings.Repeat("a", 72)
	_, err := uc.Register(ctx, validInput("alice", password))
	require.NoError(t, err)

	ok, err := uc.Authenticate(ctx, "alice", password)
	require.NoError(t, err)
	assert.True(t, ok)

	for _, candidate := range []string{password + "DIFFERENT", password + "a", password + strings.Repeat("b", 100)} {
		ok, err := uc.Authenticate(ctx, "alice", candidate)
		require.NoError(t, err)
		assert.False(t, ok, "%d byte candidate must not authenticate", len(candidate))
	}

	_, err = uc.Login(ctx, "alice", password+"DIFFERENT")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthUsecase_Authenticate_InfrastructureError(t *testing.T) {
	mockRepo := &mockUserRepository{
		FindByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, bcrypt.MinCost)

	ok, err := uc.Authenticate(context.Background(), "alice", "pw1")

	assert.False(t, ok)
	assert.ErrorContains(t, err, "connection refused")
}

func TestAuthUsecase_Login(t *testing.T) {
	// Hashed password for testing
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	testUser := &entity.User{
		Username: "alice",
		Password: string(hashedPassword),
	}

	t.Run("successful login", func(t *testing.T) {
		var touched string
		mockRepo := &mockUserRepository{
			FindByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
				if username == testUser.Username {
					return testUser, nil
				}
				return nil, domain.ErrUserNotFound
			},
			UpdateLastLoginFunc: func(ctx context.Context, username string, at time.Time) error {
				touched = username
				return nil
			},
		}
		mockTokens := &mockTokenIssuer{
			IssueFunc: func(username string) (string, error) {
				if username != testUser.Username {
					t.Errorf("unexpected username: %s", username)
				}
				return "mock-token", nil
			},
		}

		uc := NewAuthUsecase(mockRepo, mockTokens, bcrypt.MinCost)
		token, err := uc.Login(context.Background(), "alice", "password123")

		require.NoError(t, err)
		assert.Equal(t, "mock-token", token)
		assert.Equal(t, "alice", touched, "last login timestamp must be updated")
	})

	// Unknown user and wrong password must be indistinguishable.
	t.Run("user not found and incorrect password produce the same error", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
				if username == testUser.Username {
					return testUser, nil
				}
				return nil, domain.ErrUserNotFound
			},
			UpdateLastLoginFunc: func(ctx context.Context, username string, at time.Time) error {
				t.Error("last login must not be updated on failure")
				return nil
			},
		}
		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, bcrypt.MinCost)

		_, errUnknown := uc.Login(context.Background(), "nobody", "password123")
		_, errWrong := uc.Login(context.Background(), "alice", "wrong-password")

		assert.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, domain.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("token generation failure", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
				return testUser, nil
			},
		}
		mockTokens := &mockTokenIssuer{
			IssueFunc: func(username string) (string, error) {
				return "", errors.New("failed to sign token")
			},
		}

		uc := NewAuthUsecase(mockRepo, mockTokens, bcrypt.MinCost)
		_, err := uc.Login(context.Background(), "alice", "password123")

		require.Error(t, err)
		assert.Equal(t, "failed to generate token: failed to sign token", err.Error())
	})
}

func TestAuthUsecase_Signup(t *testing.T) {
	repo := memoryUsers()
	uc := NewAuthUsecase(repo, &mockTokenIssuer{}, bcrypt.MinCost)
	ctx := context.Background()

	token, err := uc.Signup(ctx, validInput("alice", "pw1"))
	require.NoError(t, err)
	assert.Equal(t, "mock-token", token)

	stored, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt, "signup logs the user in")

	// The second registration fails and leaves the first one untouched.
	_, err = uc.Signup(ctx, RegisterInput{Username: "alice", Password: "other", FirstName: "Eve"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	after, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, stored.Password, after.Password)
	assert.Equal(t, "Test", after.FirstName)

	ok, err := uc.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthUsecase_UpdateLoginTimestamp(t *testing.T) {
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	t.Run("sets now", func(t *testing.T) {
		var got time.Time
		mockRepo := &mockUserRepository{
			UpdateLastLoginFunc: func(ctx context.Context, username string, at time.Time) error {
				got = at
				return nil
			},
		}
		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, bcrypt.MinCost)
		uc.now = func() time.Time { return fixed }

		require.NoError(t, uc.UpdateLoginTimestamp(context.Background(), "alice"))
		assert.Equal(t, fixed, got)
	})

	t.Run("unknown user", func(t *testing.T) {
		uc := NewAuthUsecase(memoryUsers(), &mockTokenIssuer{}, bcrypt.MinCost)

		err := uc.UpdateLoginTimestamp(context.Background(), "ghost")

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestAuthUsecase_GetAndAll(t *testing.T) {
	mockRepo := &mockUserRepository{
		FindByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
			if username == "alice" {
				return &entity.User{Username: "alice", Password: "hash", FirstName: "Alice"}, nil
			}
			return nil, domain.ErrUserNotFound
		},
		ListFunc: func(ctx context.Context) ([]entity.User, error) {
			return []entity.User{
				{Username: "alice", Password: "hash-a"},
				{Username: "bob", Password: "hash-b"},
			}, nil
		},
	}
	uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, bcrypt.MinCost)
	ctx := context.Background()

	user, err := uc.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.FirstName)
	assert.Empty(t, user.Password)

	_, err = uc.Get(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	users, err := uc.All(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.Password)
	}
}

func TestAuthUsecase_All_Error(t *testing.T) {
	mockRepo := &mockUserRepository{
		ListFunc: func(ctx context.Context) ([]entity.User, error) {
			return nil, errors.New("db down")
		},
	}
	uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, bcrypt.MinCost)

	_, err := uc.All(context.Background())

	assert.ErrorContains(t, err, "failed to list users")
}
