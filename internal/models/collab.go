package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollabType is the submitter category of a collab.
type CollabType string

const (
	CollabTypeIndividual CollabType = "INDIVIDUAL"
	CollabTypeBrand      CollabType = "BRAND"
	CollabTypeCreator    CollabType = "CREATOR"
	CollabTypeInvestor   CollabType = "INVESTOR"
)

// CollabTypes lists all valid submitter categories.
var CollabTypes = []CollabType{
	CollabTypeIndividual,
	CollabTypeBrand,
	CollabTypeCreator,
	CollabTypeInvestor,
}

// Collab represents a collaboration pitch post.
type Collab struct {
	ID          string     `gorm:"primaryKey;size:64" json:"id"`
	Slug        string     `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Subtitle    string     `gorm:"size:255" json:"subtitle,omitempty"`
	Description string     `gorm:"type:text;not null" json:"description"`
	ImageURL    string     `json:"image_url,omitempty"`
	Link        string     `json:"link,omitempty"`
	ConnectLink string     `json:"connect_link"`
	Type        CollabType `gorm:"type:varchar(20);not null;default:'INDIVIDUAL'" json:"type"`
	AuthorID    *string    `gorm:"size:64;index" json:"author_id,omitempty"`
	Author      *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Upvotes     int        `gorm:"not null;default:0" json:"upvotes"`
	Views       int        `gorm:"not null;default:0" json:"views"`
	IsFeatured  bool       `gorm:"not null;default:false" json:"is_featured"`

	Tags         []CollabTag `gorm:"foreignKey:CollabID;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Comments     []Comment   `gorm:"foreignKey:CollabID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	UpvotedBy    []User      `gorm:"many2many:collab_upvoters;constraint:OnDelete:CASCADE" json:"upvoted_by,omitempty"`
	BookmarkedBy []User      `gorm:"many2many:collab_bookmarks;constraint:OnDelete:CASCADE" json:"bookmarked_by,omitempty"`

	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none was set.
func (c *Collab) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// TagName is one of the fixed collab tag values.
type TagName string

const (
	TagDesign      TagName = "DESIGN"
	TagDevelopment TagName = "DEVELOPMENT"
	TagAI          TagName = "AI"
	TagEducation   TagName = "EDUCATION"
	TagProduct     TagName = "PRODUCT"
	TagArt         TagName = "ART"
	TagResearch    TagName = "RESEARCH"
	TagMusic       TagName = "MUSIC"
	TagWriting     TagName = "WRITING"
	TagBusiness    TagName = "BUSINESS"
)

// TagNames lists every valid tag value.
var TagNames = []TagName{
	TagDesign, TagDevelopment, TagAI, TagEducation, TagProduct,
	TagArt, TagResearch, TagMusic, TagWriting, TagBusiness,
}

// CollabTag attaches one tag value to a collab. A collab carries at least one
// tag; that floor is enforced by input validation, not the schema.
type CollabTag struct {
	ID       string  `gorm:"primaryKey;size:64" json:"id"`
	Name     TagName `gorm:"type:varchar(20);not null;index" json:"name"`
	CollabID string  `gorm:"size:64;not null;index" json:"collab_id"`
}

// BeforeCreate assigns a UUID when none was set.
func (t *CollabTag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
