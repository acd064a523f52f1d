// Package usecase はauthフィーチャーのビジネスロジックを実装します。
// ユーザーの資格情報の保存・検証と、ログイン時のトークン発行を担います。
package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"messagely/internal/feature/auth/domain"
	"messagely/internal/feature/auth/domain/entity"
)

const (
	maxUsernameLength = 64
	// bcrypt ignores input beyond 72 bytes; GenerateFromPassword rejects it.
	maxPasswordBytes = 72

	// fallbackDummyHash is a valid bcrypt hash compared against when the user does not exist.
	fallbackDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じユーザー名が既に存在する場合、domain.ErrUsernameTakenを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername は指定されたユーザー名に一致するユーザーを取得します。
	// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// List はすべてのユーザーを返します。
	List(ctx context.Context) ([]entity.User, error)

	// UpdateLastLogin はlast_login_atを更新します。
	// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
	UpdateLastLogin(ctx context.Context, username string, at time.Time) error
}

// TokenIssuer はセッショントークン発行のインターフェースを定義します。
type TokenIssuer interface {
	// Issue は指定されたユーザー名の署名済みトークンを生成します。
	Issue(username string) (string, error)
}

// RegisterInput carries the fields of a new user.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users      UserRepository
	tokens     TokenIssuer
	bcryptCost int
	dummyHash  []byte
	now        func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// bcryptCost はパスワードハッシュの作業係数で、起動時の設定から渡されます。
func NewAuthUsecase(users UserRepository, tokens TokenIssuer, bcryptCost int) *authUsecase {
	return &authUsecase{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		dummyHash:  newDummyHash(bcryptCost),
		now:        time.Now,
	}
}

// newDummyHash hashes a random secret at the configured cost so that
// comparing against it takes as long as comparing against a real hash.
func newDummyHash(cost int) []byte {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err == nil {
		if h, err := bcrypt.GenerateFromPassword(secret, cost); err == nil {
			return h
		}
	}
	return []byte(fallbackDummyHash)
}

func validateUsername(username string) error {
	if n := utf8.RuneCountInString(username); n == 0 || n > maxUsernameLength {
		return domain.ErrInvalidUsername
	}
	return nil
}

// validatePassword はパスワードがbcryptで扱える長さかチェックします。
func validatePassword(password string) error {
	if len(password) == 0 || len(password) > maxPasswordBytes {
		return domain.ErrInvalidPassword
	}
	return nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録します。
// 返されるユーザーにパスワードハッシュは含まれません。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if err := validateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{
		Username:  in.Username,
		Password:  string(hashed),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		JoinAt:    u.now().UTC(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return publicUser(user), nil
}

// Authenticate はユーザー名とパスワードの組が正しいかを返します。
// 未登録のユーザー名と誤ったパスワードはどちらも false を返し、エラーにはなりません。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Authenticate(ctx context.Context, username, password string) (bool, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	// bcrypt only looks at the first 72 bytes, so a longer candidate could match
	// a stored 72 byte password. It is compared against the dummy hash instead.
	tooLong := len(password) > maxPasswordBytes
	hash := u.dummyHash
	if user != nil && !tooLong {
		hash = []byte(user.Password)
	}
	compareErr := bcrypt.CompareHashAndPassword(hash, []byte(password))

	return user != nil && !tooLong && compareErr == nil, nil
}

// UpdateLoginTimestamp はlast_login_atを現在時刻に更新します。
func (u *authUsecase) UpdateLoginTimestamp(ctx context.Context, username string) error {
	if err := u.users.UpdateLastLogin(ctx, username, u.now().UTC()); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// Get はユーザー名でユーザーを取得します。
func (u *authUsecase) Get(ctx context.Context, username string) (*entity.User, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return publicUser(user), nil
}

// All はすべてのユーザーを返します。
func (u *authUsecase) All(ctx context.Context) ([]entity.User, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// Login はユーザーを認証し、成功時にトークンを返します。
// 認証に失敗した場合は理由を問わず domain.ErrInvalidCredentials を返します。
func (u *authUsecase) Login(ctx context.Context, username, password string) (string, error) {
	ok, err := u.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrInvalidCredentials
	}
	return u.issueAndTouch(ctx, username)
}

// Signup はユーザーを登録し、そのままログインした状態のトークンを返します。
func (u *authUsecase) Signup(ctx context.Context, in RegisterInput) (string, error) {
	user, err := u.Register(ctx, in)
	if err != nil {
		return "", err
	}
	return u.issueAndTouch(ctx, user.Username)
}

func (u *authUsecase) issueAndTouch(ctx context.Context, username string) (string, error) {
	token, err := u.tokens.Issue(username)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	if err := u.UpdateLoginTimestamp(ctx, username); err != nil {
		return "", err
	}
	return token, nil
}

// publicUser returns a copy of user without the password hash.
func publicUser(user *entity.User) *entity.User {
	out := *user
	out.Password = ""
	return &out
}
