package auth

import (
	"context"
	"testing"
	"time"

	"github.com/ekoc03/pokedex/config"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func setupTestRepo(t *testing.T) *UserRepository {
	t.Helper()

	repo := NewUserRepository(setupTestDB(t))
	if err := repo.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return repo
}

// newTestAuthService returns a service with ash/pikachu seeded and session tokens
// backed by the returned memory store.
func newTestAuthService(t *testing.T, ttl time.Duration) (*AuthService, *MemorySessionStore) {
	t.Helper()

	repo := setupTestRepo(t)
	store := NewMemorySessionStore()
	svc := NewAuthService(repo, NewPasswordHasher(bcrypt.MinCost), NewSessionTokens(store, ttl))
	if _, err := svc.SeedUsers(context.Background(), []config.SeedUser{{Username: "ash", Password: "pikachu"}}); err != nil {
		t.Fatalf("failed to seed users: %v", err)
	}
	return svc, store
}
