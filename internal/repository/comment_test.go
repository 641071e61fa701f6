package repository

import (
	"context"
	"testing"
	"time"

	"collabhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateReturnsAuthor(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewCommentRepository(db, noCache())
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	commenter := createTestUser(t, db, "commenter")
	collab := createTestCollab(t, db, author, "commented")

	comment, err := repo.Create(ctx, &models.Comment{
		Content:  "love this idea",
		AuthorID: commenter.ID,
		CollabID: collab.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	require.NotNil(t, comment.Author)
	assert.Equal(t, "commenter", comment.Author.Username)
}

func TestCommentRepository_ListByCollabNewestFirst(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewCommentRepository(db, noCache())
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	commenter := createTestUser(t, db, "commenter")
	collab := createTestCollab(t, db, author, "threaded")
	other := createTestCollab(t, db, author, "quiet")

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, db.Create(&models.Comment{
			Content:   content,
			AuthorID:  commenter.ID,
			CollabID:  collab.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	comments, err := repo.ListByCollab(ctx, collab.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "third", comments[0].Content)
	assert.Equal(t, "first", comments[2].Content)
	require.NotNil(t, comments[0].Author)

	comments, err = repo.ListByCollab(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
