package seed

import (
	"fmt"
	"log"

	"collabhub/internal/models"

	"gorm.io/gorm"
)

// Seed populates the database with demo data: users, collabs, comments,
// upvotes, bookmarks, and view counts. Fixture collabs are seeded separately
// via Fixtures.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d collabs...", opts.NumUsers, opts.NumCollabs)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	collabs, err := createCollabs(f, users, opts.NumCollabs)
	if err != nil {
		return fmt.Errorf("failed to create collabs: %w", err)
	}
	log.Printf("✓ %d collabs created", len(collabs))

	commentsCount, err := createComments(f, users, collabs)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ %d comments created", commentsCount)

	engagement, err := createEngagement(f, users, collabs)
	if err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Printf("✓ %d upvotes and bookmarks recorded", engagement)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, collab_upvoters, collab_bookmarks, collab_tags, collabs, sessions, users CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include a known account for manual poking around.
	if count >= 1 {
		user, err := f.CreateUser(func(u *models.User) {
			u.Username = "demo"
			u.Email = "demo@example.com"
		})
		if err == nil {
			users = append(users, user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)
		logEvery(i, 100, "Created %d users...", i)
	}

	return users, nil
}

func createCollabs(f *Factory, users []*models.User, count int) ([]*models.Collab, error) {
	if len(users) == 0 {
		return nil, nil
	}

	collabs := make([]*models.Collab, 0, count)
	for i := 0; i < count; i++ {
		author := users[f.r.Intn(len(users))]
		collab, err := f.CreateCollab(author)
		if err != nil {
			return nil, err
		}
		collabs = append(collabs, collab)
		logEvery(i, 100, "Created %d collabs...", i)
	}

	return collabs, nil
}

func createComments(f *Factory, users []*models.User, collabs []*models.Collab) (int, error) {
	count := 0

	// Each collab gets 0-5 comments
	for _, collab := range collabs {
		numComments := f.r.Intn(6)
		for i := 0; i < numComments; i++ {
			author := users[f.r.Intn(len(users))]
			if _, err := f.CreateComment(author, collab); err != nil {
				return count, err
			}
			count++
		}
	}

	return count, nil
}

func createEngagement(f *Factory, users []*models.User, collabs []*models.Collab) (int, error) {
	count := 0

	for _, collab := range collabs {
		// random subset of users upvotes each collab
		numUpvotes := f.r.Intn(len(users) + 1)
		for _, idx := range f.r.Perm(len(users))[:numUpvotes] {
			if err := f.CreateUpvote(users[idx], collab); err != nil {
				return count, err
			}
			count++
		}

		// bookmarks are rarer
		numBookmarks := f.r.Intn(len(users)/4 + 1)
		for _, idx := range f.r.Perm(len(users))[:numBookmarks] {
			if err := f.CreateBookmark(users[idx], collab); err != nil {
				return count, err
			}
			count++
		}

		if err := f.AddViews(collab, f.r.Intn(500)); err != nil {
			return count, err
		}
	}

	return count, nil
}
