package service

import (
	"context"
	"strings"

	"collabhub/internal/models"
	"collabhub/internal/observability"
	"collabhub/internal/repository"
	"collabhub/internal/validation"
)

// SearchPageSize is the fixed page size for search results.
const SearchPageSize = 10

// RecentLimit is how many collabs the recent fallback returns.
const RecentLimit = 6

// FeaturedLimit caps the featured shelf.
const FeaturedLimit = 5

// CollabService implements creation, mutation, and reads for collabs.
type CollabService struct {
	collabRepo  repository.CollabRepository
	commentRepo repository.CommentRepository
}

// NewCollabService returns a new CollabService.
func NewCollabService(collabRepo repository.CollabRepository, commentRepo repository.CommentRepository) *CollabService {
	return &CollabService{
		collabRepo:  collabRepo,
		commentRepo: commentRepo,
	}
}

// CreateCollabInput carries the submitted pitch fields.
type CreateCollabInput struct {
	Title       string            `json:"title"`
	Subtitle    string            `json:"subtitle"`
	Description string            `json:"description"`
	ImageURL    string            `json:"image_url"`
	Link        string            `json:"link"`
	ConnectLink string            `json:"connect_link"`
	Type        models.CollabType `json:"type"`
	Tags        []models.TagName  `json:"tags"`
}

// UpdateCollabInput carries the editable pitch fields.
type UpdateCollabInput struct {
	Title       string           `json:"title"`
	Subtitle    string           `json:"subtitle"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url"`
	Tags        []models.TagName `json:"tags"`
}

// validateCreate applies the submission rules in their fixed order:
// title, description, imageUrl, link, tags. The first failure wins.
func validateCreate(in *CreateCollabInput) error {
	if len(strings.TrimSpace(in.Title)) < 5 {
		return models.NewValidationError("Title must be at least 5 characters long.")
	}
	if len(strings.TrimSpace(in.Description)) < 20 {
		return models.NewValidationError("Description must be at least 20 characters long.")
	}
	if in.ImageURL != "" {
		if err := validation.ValidateHTTPURL(in.ImageURL); err != nil {
			return models.NewValidationError("Image URL must be a valid link.")
		}
	}
	if in.Link != "" {
		if err := validation.ValidateHTTPURL(in.Link); err != nil {
			return models.NewValidationError("Project link must be a valid link.")
		}
	}
	if len(in.Tags) < 1 {
		return models.NewValidationError("Please select at least one tag.")
	}
	for _, tag := range in.Tags {
		if err := validation.ValidateTagName(tag); err != nil {
			return models.NewValidationError("Please select valid tags.")
		}
	}
	return nil
}

// Create validates the pitch, generates a unique slug, and persists the
// collab with its tag rows in one operation. ConnectLink defaults to the
// author's email.
func (s *CollabService) Create(ctx context.Context, author *models.User, in CreateCollabInput) (*models.Collab, error) {
	if author == nil {
		return nil, models.NewUnauthorizedError("Authentication required.")
	}
	if err := validateCreate(&in); err != nil {
		return nil, err
	}

	collabType := in.Type
	if collabType == "" {
		collabType = models.CollabTypeIndividual
	}
	if err := validation.ValidateCollabType(collabType); err != nil {
		return nil, models.NewValidationError("Please select a valid submitter type.")
	}

	slug, err := s.generateSlug(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	connectLink := strings.TrimSpace(in.ConnectLink)
	if connectLink == "" {
		connectLink = author.Email
	}

	tags := make([]models.CollabTag, 0, len(in.Tags))
	for _, name := range in.Tags {
		tags = append(tags, models.CollabTag{Name: name})
	}

	collab := &models.Collab{
		Slug:        slug,
		Title:       strings.TrimSpace(in.Title),
		Subtitle:    strings.TrimSpace(in.Subtitle),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Link:        strings.TrimSpace(in.Link),
		ConnectLink: connectLink,
		Type:        collabType,
		AuthorID:    &author.ID,
		Tags:        tags,
	}
	if err := s.collabRepo.Create(ctx, collab); err != nil {
		return nil, err
	}
	return collab, nil
}

// generateSlug derives a slug from the title and appends a short random hex
// suffix until it is unique among existing slugs.
func (s *CollabService) generateSlug(ctx context.Context, title string) (string, error) {
	slug := Slugify(title)
	if slug == "" {
		slug = slugSuffix()
	}
	for {
		exists, err := s.collabRepo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = slug + "-" + slugSuffix()
	}
}

// requireOwner loads the collab and checks the requesting user owns it.
func (s *CollabService) requireOwner(ctx context.Context, user *models.User, collabID string) (*models.Collab, error) {
	collab, err := s.collabRepo.GetByID(ctx, collabID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Authentication required.")
	}
	if collab.AuthorID == nil || *collab.AuthorID != user.ID {
		return nil, models.NewForbiddenError("You are not authorized to modify this collaboration.")
	}
	return collab, nil
}

// Update replaces the collab's editable fields and its tag set. Tags not in
// the fixed enum are dropped silently; the replacement is destructive, not a
// merge.
func (s *CollabService) Update(ctx context.Context, user *models.User, collabID string, in UpdateCollabInput) (*models.Collab, error) {
	collab, err := s.requireOwner(ctx, user, collabID)
	if err != nil {
		return nil, err
	}

	var tags []models.TagName
	for _, name := range in.Tags {
		if validation.ValidateTagName(name) == nil {
			tags = append(tags, name)
		}
	}

	collab.Title = strings.TrimSpace(in.Title)
	collab.Subtitle = strings.TrimSpace(in.Subtitle)
	collab.Description = strings.TrimSpace(in.Description)
	collab.ImageURL = strings.TrimSpace(in.ImageURL)

	if err := s.collabRepo.UpdateWithTags(ctx, collab, tags); err != nil {
		return nil, err
	}
	return s.collabRepo.GetByID(ctx, collabID)
}

// Delete removes the collab after an ownership check. Tags and comments go
// with it.
func (s *CollabService) Delete(ctx context.Context, user *models.User, collabID string) error {
	collab, err := s.requireOwner(ctx, user, collabID)
	if err != nil {
		return err
	}
	return s.collabRepo.Delete(ctx, collab.ID)
}

// AddComment appends a comment by the given user and returns it with author
// info attached.
func (s *CollabService) AddComment(ctx context.Context, user *models.User, collabID, content string) (*models.Comment, error) {
	if user == nil {
		return nil, models.NewUnauthorizedError("Authentication required.")
	}
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Comment cannot be empty.")
	}
	if _, err := s.collabRepo.GetByID(ctx, collabID); err != nil {
		return nil, err
	}
	return s.commentRepo.Create(ctx, &models.Comment{
		Content:  strings.TrimSpace(content),
		AuthorID: user.ID,
		CollabID: collabID,
	})
}

// Comments lists a collab's comments newest first.
func (s *CollabService) Comments(ctx context.Context, collabID string) ([]*models.Comment, error) {
	return s.commentRepo.ListByCollab(ctx, collabID)
}

// Upvote records one vote per user per collab. Repeat votes are no-ops and
// reported as not applied.
func (s *CollabService) Upvote(ctx context.Context, user *models.User, collabID string) (bool, error) {
	if user == nil {
		return false, models.NewUnauthorizedError("Authentication required.")
	}
	if _, err := s.collabRepo.GetByID(ctx, collabID); err != nil {
		return false, err
	}
	applied, err := s.collabRepo.Upvote(ctx, collabID, user.ID)
	if err != nil {
		return false, err
	}
	if applied {
		observability.CollabVotes.WithLabelValues("applied").Inc()
	} else {
		observability.CollabVotes.WithLabelValues("duplicate").Inc()
	}
	return applied, nil
}

// AddView bumps the view counter.
func (s *CollabService) AddView(ctx context.Context, collabID string) error {
	return s.collabRepo.AddView(ctx, collabID)
}

// Bookmark adds the collab to the user's bookmark set. Idempotent.
func (s *CollabService) Bookmark(ctx context.Context, user *models.User, collabID string) error {
	if user == nil {
		return models.NewUnauthorizedError("Authentication required.")
	}
	if _, err := s.collabRepo.GetByID(ctx, collabID); err != nil {
		return err
	}
	return s.collabRepo.Bookmark(ctx, collabID, user.ID)
}

// Unbookmark removes the collab from the user's bookmark set. Idempotent.
func (s *CollabService) Unbookmark(ctx context.Context, user *models.User, collabID string) error {
	if user == nil {
		return models.NewUnauthorizedError("Authentication required.")
	}
	return s.collabRepo.Unbookmark(ctx, collabID, user.ID)
}

// GetBySlug returns the full detail payload for one collab.
func (s *CollabService) GetBySlug(ctx context.Context, slug string) (*models.Collab, error) {
	return s.collabRepo.GetBySlug(ctx, slug)
}

// List returns collabs newest first.
func (s *CollabService) List(ctx context.Context, limit, offset int) ([]*models.Collab, error) {
	return s.collabRepo.List(ctx, limit, offset)
}

// Featured returns curated collabs, newest first.
func (s *CollabService) Featured(ctx context.Context) ([]*models.Collab, error) {
	return s.collabRepo.Featured(ctx, FeaturedLimit)
}

// ListByAuthor returns the user's own collabs for the account dashboard.
func (s *CollabService) ListByAuthor(ctx context.Context, authorID string) ([]*models.Collab, error) {
	return s.collabRepo.ListByAuthor(ctx, authorID)
}

// ListBookmarks returns the collabs the user has bookmarked.
func (s *CollabService) ListBookmarks(ctx context.Context, userID string) ([]*models.Collab, error) {
	return s.collabRepo.ListBookmarkedBy(ctx, userID)
}

// Search matches the query as a case-insensitive substring of title or
// subtitle, newest first, with a fixed page size. An empty result is an empty
// slice; an error means the store failed.
func (s *CollabService) Search(ctx context.Context, query string, offset int) ([]*models.Collab, error) {
	if offset < 0 {
		offset = 0
	}
	return s.collabRepo.Search(ctx, query, SearchPageSize, offset)
}

// Recent is the fallback feed served when a search has no query or no hits.
func (s *CollabService) Recent(ctx context.Context) ([]*models.Collab, error) {
	return s.collabRepo.Recent(ctx, RecentLimit)
}
