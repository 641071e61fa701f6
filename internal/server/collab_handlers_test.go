package server

import (
	"net/http"
	"testing"
	"time"

	"collabhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func validCollabBody() map[string]any {
	return map[string]any{
		"title":       "Build a podcast network",
		"subtitle":    "Hosts and editors wanted",
		"description": "A long enough description of what this collaboration is about.",
		"image_url":   "https://example.com/cover.png",
		"link":        "https://example.com/project",
		"tags":        []string{"PRODUCT", "MUSIC"},
	}
}

func TestCreateCollabRequiresAuth(t *testing.T) {
	t.Parallel()
	_, app, _ := newTestServer(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/collabs/", validCollabBody(), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCollabCrudFlow(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	_, ownerCookie := signupAndLogin(t, s, db, "owner")
	_, otherCookie := signupAndLogin(t, s, db, "other")

	resp, payload := doJSON(t, app, http.MethodPost, "/api/collabs/", validCollabBody(), ownerCookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	collab := payload["collab"].(map[string]any)
	collabID := collab["id"].(string)
	slug := collab["slug"].(string)
	assert.Equal(t, "build-a-podcast-network", slug)
	assert.Equal(t, "INDIVIDUAL", collab["type"])
	assert.Equal(t, "owner@example.com", collab["connect_link"])

	// detail read is public
	resp, payload = doJSON(t, app, http.MethodGet, "/api/collabs/"+slug, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := payload["collab"].(map[string]any)
	assert.Equal(t, "Build a podcast network", detail["title"])
	assert.Len(t, detail["tags"], 2)

	// only the owner can edit
	update := map[string]any{
		"title":       "Renamed podcast network",
		"description": "The updated description is also long enough.",
		"tags":        []string{"PRODUCT"},
	}
	resp, _ = doJSON(t, app, http.MethodPut, "/api/collabs/"+collabID, update, otherCookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, payload = doJSON(t, app, http.MethodPut, "/api/collabs/"+collabID, update, ownerCookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := payload["collab"].(map[string]any)
	assert.Equal(t, "Renamed podcast network", updated["title"])
	assert.Len(t, updated["tags"], 1)
	// slug is stable across edits
	assert.Equal(t, slug, updated["slug"])

	// only the owner can delete
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/collabs/"+collabID, nil, otherCookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/collabs/"+collabID, nil, ownerCookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/collabs/"+slug, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSlugCollisionGetsSuffix(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	_, cookie := signupAndLogin(t, s, db, "owner")

	resp, payload := doJSON(t, app, http.MethodPost, "/api/collabs/", validCollabBody(), cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := payload["collab"].(map[string]any)["slug"].(string)

	resp, payload = doJSON(t, app, http.MethodPost, "/api/collabs/", validCollabBody(), cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	second := payload["collab"].(map[string]any)["slug"].(string)

	assert.Equal(t, "build-a-podcast-network", first)
	assert.NotEqual(t, first, second)
	assert.Contains(t, second, first+"-")
}

func TestUpvoteIsIdempotentPerUser(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	owner, _ := signupAndLogin(t, s, db, "owner")
	_, voterCookie := signupAndLogin(t, s, db, "voter")
	collab := seedCollab(t, db, owner, "votable")

	// anonymous voting is rejected
	resp, _ := doJSON(t, app, http.MethodPost, "/api/collabs/"+collab.ID+"/upvote", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, payload := doJSON(t, app, http.MethodPost, "/api/collabs/"+collab.ID+"/upvote", nil, voterCookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, payload["applied"])

	resp, payload = doJSON(t, app, http.MethodPost, "/api/collabs/"+collab.ID+"/upvote", nil, voterCookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, payload["applied"])

	var got models.Collab
	require.NoError(t, db.First(&got, "id = ?", collab.ID).Error)
	assert.Equal(t, 1, got.Upvotes)
}

func TestViewCounter(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	owner, _ := signupAndLogin(t, s, db, "owner")
	collab := seedCollab(t, db, owner, "viewed")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/collabs/"+collab.ID+"/view", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/collabs/no-such-id/view", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var got models.Collab
	require.NoError(t, db.First(&got, "id = ?", collab.ID).Error)
	assert.Equal(t, 1, got.Views)
}

func TestBookmarks(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	owner, _ := signupAndLogin(t, s, db, "owner")
	_, readerCookie := signupAndLogin(t, s, db, "reader")
	collab := seedCollab(t, db, owner, "saved")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/collabs/"+collab.ID+"/bookmark", nil, readerCookie)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	// repeating is fine
	resp, _ = doJSON(t, app, http.MethodPost, "/api/collabs/"+collab.ID+"/bookmark", nil, readerCookie)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, payload := doJSON(t, app, http.MethodGet, "/api/users/me/bookmarks", nil, readerCookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, payload["collabs"], 1)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/collabs/"+collab.ID+"/bookmark", nil, readerCookie)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, payload = doJSON(t, app, http.MethodGet, "/api/users/me/bookmarks", nil, readerCookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, payload["collabs"])
}

func TestCommentsFlow(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	owner, _ := signupAndLogin(t, s, db, "owner")
	_, cookie := signupAndLogin(t, s, db, "commenter")
	collab := seedCollab(t, db, owner, "discussed")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/collabs/"+collab.ID+"/comments",
		map[string]string{"content": "great idea"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/collabs/"+collab.ID+"/comments",
		map[string]string{"content": "  "}, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, payload := doJSON(t, app, http.MethodPost, "/api/collabs/"+collab.ID+"/comments",
		map[string]string{"content": "great idea"}, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	comment := payload["comment"].(map[string]any)
	assert.Equal(t, "great idea", comment["content"])
	assert.Equal(t, "commenter", comment["author"].(map[string]any)["username"])

	// reading is public
	resp, payload = doJSON(t, app, http.MethodGet, "/api/collabs/"+collab.ID+"/comments", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, payload["comments"], 1)
}

// An empty query or zero hits is a normal response with the recent fallback;
// only a store failure is an error.
func TestSearchFallsBackToRecent(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	owner, _ := signupAndLogin(t, s, db, "owner")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"one", "two", "three", "four", "five", "six", "seven"} {
		seedCollab(t, db, owner, slug, func(c *models.Collab) {
			c.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		})
	}
	seedCollab(t, db, owner, "needle", func(c *models.Collab) {
		c.Title = "A very findable needle"
	})

	// hit
	resp, payload := doJSON(t, app, http.MethodGet, "/api/collabs/search?query=needle", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, payload["results"], 1)
	_, hasRecent := payload["recent"]
	assert.False(t, hasRecent)

	// no hits: empty results plus the six most recent collabs
	resp, payload = doJSON(t, app, http.MethodGet, "/api/collabs/search?query=zzzmissing", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, payload["results"])
	assert.Len(t, payload["recent"], 6)

	// empty query skips the search entirely
	resp, payload = doJSON(t, app, http.MethodGet, "/api/collabs/search", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, payload["results"])
	assert.Len(t, payload["recent"], 6)
}

// Search and fallback payloads expose authors by public profile fields only;
// the account email never rides along.
func TestSearchAuthorIsPublicProfile(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	owner, _ := signupAndLogin(t, s, db, "owner")
	seedCollab(t, db, owner, "needle", func(c *models.Collab) {
		c.Title = "A very findable needle"
	})

	resp, payload := doJSON(t, app, http.MethodGet, "/api/collabs/search?query=needle", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := payload["results"].([]any)
	require.Len(t, results, 1)
	author := results[0].(map[string]any)["author"].(map[string]any)
	assert.Equal(t, "owner", author["username"])
	_, hasEmail := author["email"]
	assert.False(t, hasEmail)

	// the recent fallback is trimmed the same way
	resp, payload = doJSON(t, app, http.MethodGet, "/api/collabs/search?query=zzzmissing", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	recent := payload["recent"].([]any)
	require.NotEmpty(t, recent)
	author = recent[0].(map[string]any)["author"].(map[string]any)
	_, hasEmail = author["email"]
	assert.False(t, hasEmail)
}

// A failing store turns a search into a 500, never into the recent fallback.
func TestSearchStoreFailureIsAnError(t *testing.T) {
	t.Parallel()
	_, app, db := newTestServer(t)
	require.NoError(t, db.Migrator().DropTable(&models.Collab{}))

	resp, payload := doJSON(t, app, http.MethodGet, "/api/collabs/search?query=needle", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, models.CodeInternal, payload["code"])
	_, hasRecent := payload["recent"]
	assert.False(t, hasRecent)
}

func TestLeaderboardEndpoint(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	owner, _ := signupAndLogin(t, s, db, "owner")
	seedCollab(t, db, owner, "strong", func(c *models.Collab) { c.Upvotes = 10; c.Views = 100 })
	seedCollab(t, db, owner, "weak", func(c *models.Collab) { c.Upvotes = 1 })

	resp, payload := doJSON(t, app, http.MethodGet, "/api/collabs/leaderboard", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := payload["leaderboard"].([]any)
	require.Len(t, entries, 2)
	first := entries[0].(map[string]any)
	assert.Equal(t, "strong", first["collab"].(map[string]any)["slug"])
	assert.Equal(t, float64(1), first["upvotes_rank"])
}

func TestMyCollabsAndProfile(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	owner, cookie := signupAndLogin(t, s, db, "owner")
	other, _ := signupAndLogin(t, s, db, "other")
	seedCollab(t, db, owner, "mine")
	seedCollab(t, db, other, "theirs")

	resp, payload := doJSON(t, app, http.MethodGet, "/api/users/me/collabs", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	collabs := payload["collabs"].([]any)
	require.Len(t, collabs, 1)
	assert.Equal(t, "mine", collabs[0].(map[string]any)["slug"])

	resp, payload = doJSON(t, app, http.MethodPut, "/api/users/me", map[string]string{
		"username": "owner_renamed", "image": "https://example.com/new.png",
	}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "owner_renamed", payload["user"].(map[string]any)["username"])

	// taking another account's username is rejected
	resp, _ = doJSON(t, app, http.MethodPut, "/api/users/me", map[string]string{
		"username": "other",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// seedCollab inserts a collab directly, skipping the HTTP layer.
func seedCollab(t *testing.T, db *gorm.DB, owner *models.User, slug string, overrides ...func(*models.Collab)) *models.Collab {
	t.Helper()
	collab := &models.Collab{
		Slug:        slug,
		Title:       "Collab " + slug,
		Description: "A description long enough for the validators elsewhere.",
		ConnectLink: owner.Email,
		Type:        models.CollabTypeIndividual,
		AuthorID:    &owner.ID,
	}
	for _, o := range overrides {
		o(collab)
	}
	if err := db.Create(collab).Error; err != nil {
		t.Fatalf("seed collab %s: %v", slug, err)
	}
	return collab
}
