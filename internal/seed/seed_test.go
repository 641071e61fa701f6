package seed

import (
	"testing"

	"collabhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Collab{},
		&models.CollabTag{},
		&models.Comment{},
	))
	return db
}

func TestFixturesIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Fixtures(db))

	var first int64
	require.NoError(t, db.Model(&models.Collab{}).Count(&first).Error)
	assert.Equal(t, int64(5), first)

	// A second run must not duplicate collabs or their tags.
	require.NoError(t, Fixtures(db))

	var second int64
	require.NoError(t, db.Model(&models.Collab{}).Count(&second).Error)
	assert.Equal(t, first, second)

	var collabs []models.Collab
	require.NoError(t, db.Preload("Tags").Find(&collabs).Error)
	for _, c := range collabs {
		assert.True(t, c.IsFeatured)
		assert.NotEmpty(t, c.Tags, "fixture %s should carry tags", c.Slug)
		seen := map[models.TagName]bool{}
		for _, tag := range c.Tags {
			assert.False(t, seen[tag.Name], "duplicate tag %s on %s", tag.Name, c.Slug)
			seen[tag.Name] = true
		}
	}
}

func TestFixturesUpdatesExistingRow(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Fixtures(db))

	var before models.Collab
	require.NoError(t, db.Where("slug = ?", "open-source-design-system-for-indie-creators").First(&before).Error)

	// Drift the row, then re-seed; fixture content wins.
	require.NoError(t, db.Model(&before).Updates(map[string]interface{}{
		"title":       "tampered",
		"is_featured": false,
	}).Error)

	require.NoError(t, Fixtures(db))

	var after models.Collab
	require.NoError(t, db.Where("slug = ?", before.Slug).First(&after).Error)
	assert.Equal(t, before.ID, after.ID)
	assert.NotEqual(t, "tampered", after.Title)
	assert.True(t, after.IsFeatured)
}

func TestFactoryCreateUser(t *testing.T) {
	db := setupTestDB(t)
	f := NewFactory(db, Options{SkipBcrypt: true})

	user, err := f.CreateUser(func(u *models.User) {
		u.Username = "factoryuser"
		u.Email = "factory@example.com"
	})
	require.NoError(t, err)
	assert.Equal(t, "factoryuser", user.Username)
	assert.NotEmpty(t, user.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFactoryCreateCollabAttachesTags(t *testing.T) {
	db := setupTestDB(t)
	f := NewFactory(db, Options{SkipBcrypt: true})

	author, err := f.CreateUser()
	require.NoError(t, err)

	collab, err := f.CreateCollab(author)
	require.NoError(t, err)
	assert.NotEmpty(t, collab.Slug)
	assert.Equal(t, author.Email, collab.ConnectLink)

	var tags []models.CollabTag
	require.NoError(t, db.Where("collab_id = ?", collab.ID).Find(&tags).Error)
	assert.GreaterOrEqual(t, len(tags), 1)
	assert.LessOrEqual(t, len(tags), 3)
}

func TestFactoryCreateUpvoteIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	f := NewFactory(db, Options{SkipBcrypt: true})

	author, err := f.CreateUser()
	require.NoError(t, err)
	voter, err := f.CreateUser()
	require.NoError(t, err)
	collab, err := f.CreateCollab(author)
	require.NoError(t, err)

	require.NoError(t, f.CreateUpvote(voter, collab))
	require.NoError(t, f.CreateUpvote(voter, collab))

	var got models.Collab
	require.NoError(t, db.First(&got, "id = ?", collab.ID).Error)
	assert.Equal(t, 1, got.Upvotes)

	var rows int64
	require.NoError(t, db.Table("collab_upvoters").Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}
