package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/RushabhMehta2005/todo-auth/models"
	"github.com/RushabhMehta2005/todo-auth/services"
	"github.com/RushabhMehta2005/todo-auth/stores"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const strongPassword = "Abcd1234!"

type testApp struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	tokens *services.TokenService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Todo{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	hasher := services.NewHasher(2, bcrypt.MinCost)
	t.Cleanup(hasher.Close)
	tokens := services.NewTokenService("test-secret", time.Hour)

	h := NewHandler(
		stores.NewCachedUserStore(stores.NewGormUserStore(db), time.Minute),
		stores.NewGormTodoStore(db),
		hasher,
		tokens,
	)
	router := gin.New()
	RegisterRoutes(router, h)

	return &testApp{t: t, router: router, db: db, tokens: tokens}
}

func (a *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) signup(username, email string) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/signup", "", gin.H{
		"username":        username,
		"email":           email,
		"password":        strongPassword,
		"confirmPassword": strongPassword,
	})
	if w.Code != http.StatusCreated {
		a.t.Fatalf("signup %s: status = %d, body %s", username, w.Code, w.Body.String())
	}
}

// signin signs the user in and returns the bearer token.
func (a *testApp) signin(username string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/signin", "", gin.H{"username": username, "password": strongPassword})
	if w.Code != http.StatusOK {
		a.t.Fatalf("signin %s: status = %d, body %s", username, w.Code, w.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	decode(a.t, w, &body)
	return body.Token
}

func (a *testApp) userCount() int64 {
	var count int64
	a.db.Model(&models.User{}).Count(&count)
	return count
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON body %q: %v", w.Body.String(), err)
	}
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decode(t, w, &body)
	return body.Message
}

func TestWelcome(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/", "", nil)
	if w.Code != http.StatusOK || w.Body.String() != welcomeMessage {
		t.Fatalf("GET / = %d %q", w.Code, w.Body.String())
	}
}

func TestSignupThenSignin(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/signup", "", gin.H{
		"username":        "alice",
		"email":           "a@x.com",
		"password":        strongPassword,
		"confirmPassword": strongPassword,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	if got := message(t, w); got != "User registered successfully" {
		t.Fatalf("message = %q", got)
	}

	w = app.do(http.MethodPost, "/signin", "", gin.H{"username": "alice", "password": strongPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("signin status = %d (body %s)", w.Code, w.Body.String())
	}
	var body struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	decode(t, w, &body)
	if body.Message != "Sign in successful" || body.User.Username != "alice" || body.User.Email != "a@x.com" {
		t.Fatalf("unexpected signin body: %#v", body)
	}

	claims, err := app.tokens.Verify(body.Token)
	if err != nil {
		t.Fatalf("signin token does not verify: %v", err)
	}
	if claims.Username != "alice" || claims.UserID == "" {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestSignupValidation(t *testing.T) {
	app := newTestApp(t)
	app.signup("alice", "a@x.com")

	tests := []struct {
		name    string
		body    gin.H
		message string
	}{
		{
			name:    "missing field",
			body:    gin.H{"username": "bob", "email": "b@x.com", "password": strongPassword},
			message: msgAllFieldsRequired,
		},
		{
			name:    "weak password",
			body:    gin.H{"username": "bob", "email": "b@x.com", "password": "password", "confirmPassword": "password"},
			message: msgWeakPassword,
		},
		{
			name:    "weak password with mismatch",
			body:    gin.H{"username": "bob", "email": "b@x.com", "password": "short", "confirmPassword": "other"},
			message: msgWeakPassword,
		},
		{
			name:    "mismatch",
			body:    gin.H{"username": "bob", "email": "b@x.com", "password": strongPassword, "confirmPassword": "Abcd1234?"},
			message: msgPasswordMismatch,
		},
		{
			name:    "duplicate username",
			body:    gin.H{"username": "alice", "email": "b@x.com", "password": strongPassword, "confirmPassword": strongPassword},
			message: msgUserExists,
		},
		{
			name:    "duplicate email",
			body:    gin.H{"username": "bob", "email": "a@x.com", "password": strongPassword, "confirmPassword": strongPassword},
			message: msgUserExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(http.MethodPost, "/signup", "", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
			if got := message(t, w); got != tt.message {
				t.Fatalf("message = %q, want %q", got, tt.message)
			}
		})
	}

	if n := app.userCount(); n != 1 {
		t.Fatalf("user count = %d, want 1", n)
	}
}

func TestSignupInvalidJSON(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSigninFailures(t *testing.T) {
	app := newTestApp(t)
	app.signup("alice", "a@x.com")

	w := app.do(http.MethodPost, "/signin", "", gin.H{"username": "alice"})
	if w.Code != http.StatusBadRequest || message(t, w) != msgSigninFieldsNeeded {
		t.Fatalf("missing password: %d %s", w.Code, w.Body.String())
	}

	wrong := app.do(http.MethodPost, "/signin", "", gin.H{"username": "alice", "password": "wrong"})
	unknown := app.do(http.MethodPost, "/signin", "", gin.H{"username": "nobody", "password": strongPassword})

	for name, w := range map[string]*httptest.ResponseRecorder{"wrong password": wrong, "unknown user": unknown} {
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, w.Code)
		}
		if got := message(t, w); got != msgInvalidCredentials {
			t.Fatalf("%s: message = %q, want %q", name, got, msgInvalidCredentials)
		}
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("responses differ: %q vs %q", wrong.Body.String(), unknown.Body.String())
	}
}

func TestTodosRequireAuth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/todos", "", nil)
	if w.Code != http.StatusUnauthorized || message(t, w) != "Unauthorized" {
		t.Fatalf("no token: %d %s", w.Code, w.Body.String())
	}

	w = app.do(http.MethodGet, "/todos", "not-a-token", nil)
	if w.Code != http.StatusUnauthorized || message(t, w) != "Invalid token" {
		t.Fatalf("bad token: %d %s", w.Code, w.Body.String())
	}
}

func TestTodoRoundTrip(t *testing.T) {
	app := newTestApp(t)
	app.signup("alice", "a@x.com")
	token := app.signin("alice")

	w := app.do(http.MethodPost, "/todos", token, gin.H{"title": "  write docs  "})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d (body %s)", w.Code, w.Body.String())
	}
	var created models.Todo
	decode(t, w, &created)
	if created.ID == "" || created.Title != "write docs" || created.Status != models.StatusPending || created.OwnerID == "" {
		t.Fatalf("unexpected created todo: %#v", created)
	}

	w = app.do(http.MethodGet, "/todos/"+created.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w = app.do(http.MethodPut, "/todos/"+created.ID, token, gin.H{"status": "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d (body %s)", w.Code, w.Body.String())
	}

	w = app.do(http.MethodGet, "/todos/"+created.ID, token, nil)
	var fetched models.Todo
	decode(t, w, &fetched)
	if fetched.Status != models.StatusCompleted || fetched.Title != "write docs" {
		t.Fatalf("update not reflected: %#v", fetched)
	}

	w = app.do(http.MethodGet, "/todos", token, nil)
	var list []models.Todo
	decode(t, w, &list)
	if w.Code != http.StatusOK || len(list) != 1 {
		t.Fatalf("list = %d %#v", w.Code, list)
	}

	w = app.do(http.MethodDelete, "/todos/"+created.ID, token, nil)
	if w.Code != http.StatusOK || message(t, w) != msgTodoDeleted {
		t.Fatalf("delete = %d %s", w.Code, w.Body.String())
	}
	w = app.do(http.MethodGet, "/todos/"+created.ID, token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", w.Code)
	}
}

func TestTodoValidation(t *testing.T) {
	app := newTestApp(t)
	app.signup("alice", "a@x.com")
	token := app.signin("alice")

	for name, body := range map[string]gin.H{
		"missing title": {"status": "pending"},
		"blank title":   {"title": "   "},
		"bad status":    {"title": "x", "status": "done"},
	} {
		w := app.do(http.MethodPost, "/todos", token, body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", name, w.Code)
		}
	}

	w := app.do(http.MethodGet, "/todos", token, nil)
	if w.Body.String() != "[]" {
		t.Fatalf("expected no todos to be persisted, got %s", w.Body.String())
	}

	w = app.do(http.MethodPost, "/todos", token, gin.H{"title": "x", "status": "in-progress"})
	var created models.Todo
	decode(t, w, &created)
	if created.Status != models.StatusInProgress {
		t.Fatalf("status = %q, want in-progress", created.Status)
	}

	w = app.do(http.MethodPut, "/todos/"+created.ID, token, gin.H{"status": "archived"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("update with bad status = %d, want 400", w.Code)
	}
	w = app.do(http.MethodPut, "/todos/"+created.ID, token, gin.H{"title": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("update with empty title = %d, want 400", w.Code)
	}
}

func TestTodosAreOwnerScoped(t *testing.T) {
	app := newTestApp(t)
	app.signup("alice", "a@x.com")
	app.signup("bob", "b@x.com")
	alice := app.signin("alice")
	bob := app.signin("bob")

	w := app.do(http.MethodPost, "/todos", alice, gin.H{"title": "alice's"})
	var todo models.Todo
	decode(t, w, &todo)

	w = app.do(http.MethodGet, "/todos", bob, nil)
	if w.Body.String() != "[]" {
		t.Fatalf("bob sees alice's todos: %s", w.Body.String())
	}

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := app.do(method, "/todos/"+todo.ID, bob, gin.H{"title": "bob was here"})
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s by non-owner: status = %d, want 404", method, w.Code)
		}
	}

	w = app.do(http.MethodGet, "/todos/"+todo.ID, alice, nil)
	var still models.Todo
	decode(t, w, &still)
	if still.Title != "alice's" {
		t.Fatalf("todo modified by non-owner: %#v", still)
	}
}

func TestTodoUnknownAndMalformedIDs(t *testing.T) {
	app := newTestApp(t)
	app.signup("alice", "a@x.com")
	token := app.signin("alice")

	for _, id := range []string{"00000000-0000-0000-0000-000000000000", "not-an-id"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			w := app.do(method, "/todos/"+id, token, gin.H{"title": "x"})
			if w.Code != http.StatusNotFound {
				t.Fatalf("%s %s: status = %d, want 404", method, id, w.Code)
			}
		}
	}
}

type failingTodoStore struct {
	stores.TodoStore
}

func (failingTodoStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Todo, error) {
	return nil, errors.New("connection reset by peer")
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := services.NewTokenService("test-secret", time.Hour)
	h := NewHandler(nil, failingTodoStore{}, nil, tokens)
	router := gin.New()
	RegisterRoutes(router, h)

	token, err := tokens.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if got := message(t, w); got != "Internal server error" {
		t.Fatalf("message = %q", got)
	}
}
