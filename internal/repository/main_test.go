package repository

import (
	"testing"

	"collabhub/internal/cache"
	"collabhub/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory sqlite database with the full schema.
// Each call gets a private database, so tests can run in parallel.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Collab{},
		&models.CollabTag{},
		&models.Comment{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// noCache returns a cache that degrades every operation to a no-op.
func noCache() *cache.Cache {
	return cache.NewWithClient(nil)
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createTestCollab(t *testing.T, db *gorm.DB, author *models.User, slug string, overrides ...func(*models.Collab)) *models.Collab {
	t.Helper()
	collab := &models.Collab{
		Slug:        slug,
		Title:       "Collab " + slug,
		Description: "A description long enough for the validators elsewhere.",
		ConnectLink: author.Email,
		Type:        models.CollabTypeIndividual,
		AuthorID:    &author.ID,
	}
	for _, o := range overrides {
		o(collab)
	}
	if err := db.Create(collab).Error; err != nil {
		t.Fatalf("create collab %s: %v", slug, err)
	}
	return collab
}
