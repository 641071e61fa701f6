package seed

import (
	_ "embed"
	"fmt"

	"collabhub/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed fixtures.yml
var fixturesYAML []byte

// fixtureCollab is one entry from fixtures.yml.
type fixtureCollab struct {
	Title       string   `yaml:"title"`
	Subtitle    string   `yaml:"subtitle"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	ImageURL    string   `yaml:"image_url"`
	Type        string   `yaml:"type"`
	Tags        []string `yaml:"tags"`
}

type fixtureFile struct {
	Council []fixtureCollab `yaml:"council"`
}

// Fixtures loads the permanent featured collabs from the embedded YAML file
// and upserts them by slug. Safe to run repeatedly.
func Fixtures(db *gorm.DB) error {
	var file fixtureFile
	if err := yaml.Unmarshal(fixturesYAML, &file); err != nil {
		return fmt.Errorf("parse fixtures: %w", err)
	}

	for _, item := range file.Council {
		err := db.Transaction(func(tx *gorm.DB) error {
			collab := models.Collab{
				Slug:        item.Slug,
				Title:       item.Title,
				Subtitle:    item.Subtitle,
				Description: item.Description,
				ImageURL:    item.ImageURL,
				ConnectLink: "mailto:hello@collabhub.dev",
				Type:        models.CollabType(item.Type),
				IsFeatured:  true,
			}

			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{"title", "subtitle", "description", "image_url", "is_featured", "updated_at"}),
			}).Create(&collab).Error; err != nil {
				return err
			}

			// On conflict the BeforeCreate hook still assigned a fresh ID
			// that never reached the table; re-read the canonical row.
			if err := tx.Where("slug = ?", item.Slug).First(&collab).Error; err != nil {
				return err
			}

			for _, tag := range item.Tags {
				var existing models.CollabTag
				err := tx.Where(models.CollabTag{CollabID: collab.ID, Name: models.TagName(tag)}).
					FirstOrCreate(&existing).Error
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("seed fixture collab %s: %w", item.Slug, err)
		}
	}

	return nil
}
