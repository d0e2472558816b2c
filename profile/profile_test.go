package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"labdesk/auth"
	"labdesk/db"
	"labdesk/globals"
	"labdesk/middleware"
	"labdesk/models"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	database, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { database.SQL.Close() })
	if err := database.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewHandler(db.NewUserStore(database))
}

func seedUser(t *testing.T, h *Handler, userID, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{
		UserID:       userID,
		Name:         "Original Name",
		Email:        userID + "@example.com",
		PasswordHash: hash,
		Status:       models.StatusApproved,
	}
	if err := h.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func asUser(r *http.Request, userID string) *http.Request {
	claims := &middleware.Claims{UserID: userID, Name: "Original Name"}
	return r.WithContext(context.WithValue(r.Context(), globals.ClaimsKey, claims))
}

func TestGetOwnProfile(t *testing.T) {
	h := newTestHandler(t)
	seedUser(t, h, "u1", "secret123")

	w := httptest.NewRecorder()
	h.Get(w, asUser(httptest.NewRequest(http.MethodGet, "/api/profile", nil), "u1"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d: %s", w.Code, w.Body.String())
	}

	var u models.User
	if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.UserID != "u1" || u.Email != "u1@example.com" {
		t.Fatalf("profile = %+v", u)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatal("password hash must not be serialized")
	}
}

func TestUpdateProfile(t *testing.T) {
	h := newTestHandler(t)
	seedUser(t, h, "u1", "secret123")

	body := `{"name":"New Name","availability":"mornings"}`
	r := asUser(httptest.NewRequest(http.MethodPatch, "/api/profile", strings.NewReader(body)), "u1")
	w := httptest.NewRecorder()
	h.Update(w, r, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", w.Code, w.Body.String())
	}

	u, err := h.Users.GetByUserID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.Name != "New Name" || u.Availability != "mornings" {
		t.Fatalf("stored profile = %+v", u)
	}
}

func TestUpdateRejectsEmptyName(t *testing.T) {
	h := newTestHandler(t)
	seedUser(t, h, "u1", "secret123")

	r := asUser(httptest.NewRequest(http.MethodPatch, "/api/profile", strings.NewReader(`{"name":""}`)), "u1")
	w := httptest.NewRecorder()
	h.Update(w, r, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty name = %d, want 400", w.Code)
	}
}

func TestChangePassword(t *testing.T) {
	h := newTestHandler(t)
	seedUser(t, h, "u1", "secret123")

	post := func(body string) *httptest.ResponseRecorder {
		r := asUser(httptest.NewRequest(http.MethodPost, "/api/profile/password", strings.NewReader(body)), "u1")
		w := httptest.NewRecorder()
		h.ChangePassword(w, r, nil)
		return w
	}

	if w := post(`{"current":"wrong","new":"longenough"}`); w.Code != http.StatusForbidden {
		t.Fatalf("wrong current password = %d, want 403", w.Code)
	}
	if w := post(`{"current":"secret123","new":"short"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("short new password = %d, want 400", w.Code)
	}
	if w := post(`{"current":"secret123","new":"longenough"}`); w.Code != http.StatusOK {
		t.Fatalf("change = %d: %s", w.Code, w.Body.String())
	}

	u, err := h.Users.GetByUserID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !auth.VerifyPassword("longenough", u.PasswordHash) {
		t.Fatal("new password not stored")
	}
	if auth.VerifyPassword("secret123", u.PasswordHash) {
		t.Fatal("old password still accepted")
	}
}
