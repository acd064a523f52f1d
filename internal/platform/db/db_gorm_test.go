package db

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestBuildDSN_Postgres はPostgreSQL接続用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN_Postgres(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Driver:   DriverPostgres,
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		Host:     "localhost",
		Port:     "5432",
		SSLMode:  "disable",
	}

	dsn := BuildDSN(cfg)

	expected := "host=localhost user=testuser password=testpass dbname=testdb port=5432 sslmode=disable"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_SQLite はsqliteのDSNで外部キー制約が有効化されることを検証します。
func TestBuildDSN_SQLite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected string
	}{
		{"./messagely.db", "./messagely.db?_foreign_keys=on"},
		{":memory:", ":memory:?_foreign_keys=on"},
		{"file:test.db?cache=shared", "file:test.db?cache=shared&_foreign_keys=on"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, BuildDSN(Config{Driver: DriverSQLite, Path: tt.path}))
		})
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 1, attempts)
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// Not parallel because this test takes time due to retry sleeps

	mockDB := &gorm.DB{}
	attemptCount := 0

	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 2 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 10*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 2, attemptCount)
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	opener := func(dsn string) (*gorm.DB, error) {
		return nil, errors.New("connection refused")
	}

	// A negative timeout gives up after the first attempt.
	_, err := ConnectWithRetry("test-dsn", -time.Second, opener)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

// TestLoadConfigFromEnv は環境変数からデータベース設定が正しく読み込まれることを検証します。
func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_PATH", "")
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("RUN_MIGRATIONS", "false")

	cfg := LoadConfigFromEnv()

	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, "envuser", cfg.User)
	assert.Equal(t, "envpass", cfg.Password)
	assert.Equal(t, "envdb", cfg.Name)
	assert.Equal(t, "envhost", cfg.Host)
	assert.Equal(t, "5433", cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.False(t, cfg.RunMigrations)
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DB_PATH", "DB_PORT", "DB_SSLMODE", "RUN_MIGRATIONS"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfigFromEnv()

	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, "./messagely.db", cfg.Path)
	assert.True(t, cfg.RunMigrations)
}

func TestNewOpener_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	opener, err := NewOpener("mysql")

	assert.Nil(t, opener)
	assert.EqualError(t, err, `unsupported DB_DRIVER "mysql"`)
}

// TestOpen_SQLiteEnforcesForeignKeys はsqlite接続で外部キー制約が有効になっていることを検証します。
func TestOpen_SQLiteEnforcesForeignKeys(t *testing.T) {
	t.Parallel()

	db, err := Open(Config{Driver: DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"gorm duplicated key", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite primary key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, true},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, true},
		{"sqlite foreign key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, false},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsForeignKeyViolation(gorm.ErrForeignKeyViolated))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsForeignKeyViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}))
	assert.False(t, IsForeignKeyViolation(gorm.ErrDuplicatedKey))
	assert.False(t, IsForeignKeyViolation(nil))
}
