package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/samsil2/Real-Time-Chat-App/internal/database"
	"github.com/samsil2/Real-Time-Chat-App/internal/http/middleware"
	"github.com/samsil2/Real-Time-Chat-App/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type fakeUploader struct {
	calls int
	fail  bool
}

func (f *fakeUploader) Upload(ctx context.Context, image string) (string, error) {
	if f.fail {
		return "", fmt.Errorf("upload failed")
	}
	f.calls++
	return fmt.Sprintf("https://media.test/%d.png", f.calls), nil
}

type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	hub      *ws.Hub
	uploader *fakeUploader
}

// newTestEnv builds the API against a throwaway sqlite database, wired the
// same way cmd/api does.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "chat.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	hub := ws.NewHub()
	uploader := &fakeUploader{}

	r := gin.New()

	authH := &AuthHandler{DB: db, JWTSecret: testJWTSecret, Uploader: uploader}
	r.POST("/api/auth/signup", authH.Signup)
	r.POST("/api/auth/login", authH.Login)
	r.POST("/api/auth/logout", authH.Logout)

	authed := r.Group("/api")
	authed.Use(middleware.AuthMiddleware(db, testJWTSecret))
	authed.PUT("/auth/update-profile", authH.UpdateProfile)
	authed.GET("/auth/check", authH.Check)

	msgH := &MessageHandler{DB: db, Hub: hub, Uploader: uploader}
	authed.GET("/messages/users", msgH.ListUsers)
	authed.GET("/messages/:id", msgH.ListMessages)
	authed.POST("/messages/:id", msgH.SendMessage)

	return &testEnv{router: r, db: db, hub: hub, uploader: uploader}
}

func (e *testEnv) request(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signup registers a user and returns the session cookie plus the response
// body.
func (e *testEnv) signup(t *testing.T, fullName, email, password string) (*http.Cookie, map[string]any) {
	t.Helper()

	w := e.request(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"fullName": fullName,
		"email":    email,
		"password": password,
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup %s: status = %d, body = %s", email, w.Code, w.Body.String())
	}

	return sessionCookie(t, w), decodeBody(t, w)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.CookieName {
			return ck
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}
