// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"collabhub/internal/models"
	"collabhub/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumCollabs  int
	ShouldClean bool
	// SkipBcrypt replaces password hashing with a plain marker for fast
	// local iterations. Login will not work for such users.
	SkipBcrypt bool
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	r    *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Image:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCollab constructs and persists a sample `models.Collab` authored by
// the given user, with one to three random tags attached.
func (f *Factory) CreateCollab(author *models.User, overrides ...func(*models.Collab)) (*models.Collab, error) {
	title := strings.TrimSuffix(gofakeit.Sentence(6), ".")
	collab := &models.Collab{
		Title:       title,
		Subtitle:    strings.TrimSuffix(gofakeit.Sentence(8), "."),
		Description: gofakeit.Paragraph(1, 4, 8, "\n"),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		Link:        gofakeit.URL(),
		ConnectLink: author.Email,
		Type:        models.CollabTypes[f.r.Intn(len(models.CollabTypes))],
		AuthorID:    &author.ID,
	}
	// slugs collide often with faked titles; suffix every seeded slug
	collab.Slug = fmt.Sprintf("%s-%d", service.Slugify(title), gofakeit.Number(1000, 9999))

	// realistic created_at spread over the last 90 days
	daysBack := f.r.Intn(90)
	hoursBack := f.r.Intn(24)
	collab.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	numTags := f.r.Intn(3) + 1
	picked := f.r.Perm(len(models.TagNames))[:numTags]
	for _, idx := range picked {
		collab.Tags = append(collab.Tags, models.CollabTag{Name: models.TagNames[idx]})
	}

	for _, override := range overrides {
		override(collab)
	}

	if err := f.db.Create(collab).Error; err != nil {
		return nil, err
	}
	return collab, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided collab authored by the provided user.
func (f *Factory) CreateComment(author *models.User, collab *models.Collab, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:  gofakeit.Sentence(10),
		AuthorID: author.ID,
		CollabID: collab.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateUpvote records an upvote from `user` on `collab`, bumping the
// denormalized counter only when the membership row is new.
func (f *Factory) CreateUpvote(user *models.User, collab *models.Collab) error {
	return f.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Table("collab_upvoters").Clauses(clause.OnConflict{DoNothing: true}).
			Create(map[string]interface{}{"collab_id": collab.ID, "user_id": user.ID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Collab{}).Where("id = ?", collab.ID).
			UpdateColumn("upvotes", gorm.Expr("upvotes + 1")).Error
	})
}

// CreateBookmark records a bookmark from `user` on `collab`. Duplicate
// bookmarks are silently ignored.
func (f *Factory) CreateBookmark(user *models.User, collab *models.Collab) error {
	return f.db.Table("collab_bookmarks").Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]interface{}{"collab_id": collab.ID, "user_id": user.ID}).Error
}

// AddViews bumps the view counter on a collab by n.
func (f *Factory) AddViews(collab *models.Collab, n int) error {
	if n <= 0 {
		return nil
	}
	return f.db.Model(&models.Collab{}).Where("id = ?", collab.ID).
		UpdateColumn("views", gorm.Expr("views + ?", n)).Error
}

func logEvery(i, step int, format string, args ...interface{}) {
	if i > 0 && i%step == 0 {
		log.Printf(format, args...)
	}
}
