package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"collabhub/internal/cache"
	"collabhub/internal/config"
	"collabhub/internal/models"
	"collabhub/internal/repository"
	"collabhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a Server against a fresh in-memory sqlite database.
// The prometheus middleware stays nil so repeated setups don't fight over
// collector registration.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
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

	c := cache.NewWithClient(nil)
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	collabRepo := repository.NewCollabRepository(db, c)
	commentRepo := repository.NewCommentRepository(db, c)

	s := &Server{
		config:      &config.Config{Env: "test"},
		db:          db,
		cache:       c,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		collabRepo:  collabRepo,
		commentRepo: commentRepo,
	}
	s.authService = service.NewAuthService(userRepo, sessionRepo)
	s.collabService = service.NewCollabService(collabRepo, commentRepo)
	s.leaderboardService = service.NewLeaderboardService(collabRepo, c)

	app := fiber.New()
	s.SetupRoutes(app)

	return s, app, db
}

// signupAndLogin creates a user directly and returns a live session cookie
// for it, bypassing the HTTP signup flow (covered by its own tests).
func signupAndLogin(t *testing.T, s *Server, db *gorm.DB, username string) (*models.User, *http.Cookie) {
	t.Helper()
	hashed, err := service.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hashed,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}

	session := &models.Session{
		Token:     models.NewSessionToken(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(models.SessionTTL),
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}

	return user, &http.Cookie{Name: "sessionToken", Value: session.Token}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, cookie *http.Cookie) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}

	var payload map[string]any
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	_ = resp.Body.Close()
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}
	return resp, payload
}

func sessionCookieFrom(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "sessionToken" {
			return c
		}
	}
	return nil
}
