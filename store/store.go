// Package store is the gorm-backed persistence layer. Repositories return the
// sentinel errors below so services never have to inspect driver errors.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tikclone/config"
	"tikclone/models"
	"tikclone/pkg/logging"
	"tikclone/pkg/password"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	ErrExpired   = errors.New("record expired")
)

const sqlitePrefix = "sqlite://"

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for tooling (migrations, cmd/ helpers).
func (s *Store) DB() *gorm.DB { return s.db }

// Open connects to Postgres. A DSN of the form sqlite://<file> opens a local
// SQLite database instead, which is what tests and quick local runs use.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
	if strings.HasPrefix(dsn, sqlitePrefix) {
		return OpenSQLite(strings.TrimPrefix(dsn, sqlitePrefix))
	}
	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// OpenSQLite opens a SQLite database. In-memory databases are pinned to a single
// connection so every query sees the same schema.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&models.User{},
		&models.EmailVerificationToken{},
		&models.PasswordResetToken{},
		&models.Video{},
		&models.Like{},
		&models.Follow{},
		&models.Comment{},
		&models.Notification{},
	}
}

// Migrate runs AutoMigrate table by table so a failure on one doesn't block the
// others. Failures are logged and returned joined.
func Migrate(ctx context.Context, db *gorm.DB, log logging.Logger) error {
	var errs []error
	for _, m := range Models() {
		if err := db.WithContext(ctx).AutoMigrate(m); err != nil {
			log.Warn(ctx, "migration warning", "model", fmt.Sprintf("%T", m), "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SeedAdmin creates the configured administrator if no user holds its email or
// username yet. An empty seed is a no-op.
func SeedAdmin(ctx context.Context, db *gorm.DB, seed config.AdminSeed, hasher *password.Hasher, log logging.Logger) error {
	seed.Email = strings.ToLower(strings.TrimSpace(seed.Email))
	seed.Username = strings.TrimSpace(seed.Username)
	if seed.Email == "" || seed.Username == "" || seed.Password == "" {
		return nil
	}
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", seed.Email, seed.Username).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	digest, err := hasher.Hash(seed.Password)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:       seed.Username,
		Email:          seed.Email,
		Fullname:       "Administrator",
		HashedPassword: digest,
		Active:         true,
		IsAdmin:        true,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return translate(err)
	}
	log.Info(ctx, "seeded admin user", "user_id", admin.ID, "username", admin.Username)
	return nil
}

// Ping checks the database connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Ping(ctx context.Context) error { return Ping(ctx, s.db) }

// translate maps gorm and driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueConstraintError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// isUniqueConstraintError catches unique violations the dialect did not translate.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}

// page clamps skip/take to sane bounds.
func page(skip, take int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if take <= 0 {
		take = 10
	}
	if take > 50 {
		take = 50
	}
	return skip, take
}
