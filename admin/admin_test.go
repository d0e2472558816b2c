package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"labdesk/db"
	"labdesk/models"

	"github.com/julienschmidt/httprouter"
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
	return NewHandler(db.NewUserStore(database), db.NewBookingStore(database))
}

func seedUser(t *testing.T, h *Handler, userID string, status models.ApprovalStatus) {
	t.Helper()
	u := &models.User{
		UserID:       userID,
		Name:         userID,
		Email:        userID + "@example.com",
		PasswordHash: "x",
		Status:       status,
	}
	if err := h.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed %s: %v", userID, err)
	}
}

func TestApprovalLifecycle(t *testing.T) {
	h := newTestHandler(t)
	seedUser(t, h, "u1", models.StatusPending)
	seedUser(t, h, "u2", models.StatusPending)

	// pending list holds both
	r := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	w := httptest.NewRecorder()
	h.ListUsers(w, r, nil)
	var users []models.User
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("pending users = %d, want 2", len(users))
	}

	// approve u1
	w = httptest.NewRecorder()
	h.ApproveUser(w, httptest.NewRequest(http.MethodPatch, "/api/admin/user/u1", nil),
		httprouter.Params{{Key: "id", Value: "u1"}})
	if w.Code != http.StatusOK {
		t.Fatalf("approve = %d: %s", w.Code, w.Body.String())
	}

	// pending list shrinks, approved list gains u1
	w = httptest.NewRecorder()
	h.ListUsers(w, httptest.NewRequest(http.MethodGet, "/api/admin/users?status=1", nil), nil)
	users = nil
	json.Unmarshal(w.Body.Bytes(), &users)
	if len(users) != 1 || users[0].UserID != "u1" {
		t.Fatalf("approved users = %+v, want just u1", users)
	}

	// deny u2 removes the account
	w = httptest.NewRecorder()
	h.DenyUser(w, httptest.NewRequest(http.MethodDelete, "/api/admin/user/u2", nil),
		httprouter.Params{{Key: "id", Value: "u2"}})
	if w.Code != http.StatusNoContent {
		t.Fatalf("deny = %d", w.Code)
	}
	if _, err := h.Users.GetByUserID(context.Background(), "u2"); err != db.ErrNotFound {
		t.Fatalf("denied user lookup = %v, want ErrNotFound", err)
	}
}

func TestApproveUnknownUser(t *testing.T) {
	h := newTestHandler(t)
	w := httptest.NewRecorder()
	h.ApproveUser(w, httptest.NewRequest(http.MethodPatch, "/api/admin/user/ghost", nil),
		httprouter.Params{{Key: "id", Value: "ghost"}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("approve ghost = %d, want 404", w.Code)
	}
}

func TestListUsersRejectsBadStatus(t *testing.T) {
	h := newTestHandler(t)
	for _, q := range []string{"?status=9", "?status=-1", "?status=abc"} {
		w := httptest.NewRecorder()
		h.ListUsers(w, httptest.NewRequest(http.MethodGet, "/api/admin/users"+q, nil), nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status %s = %d, want 400", q, w.Code)
		}
	}
}

func TestSetBookingStatus(t *testing.T) {
	h := newTestHandler(t)
	guest := "g@example.com"
	b := &models.Booking{Kind: models.KindTestbed, GuestEmail: &guest, Date: "2026-09-01"}
	tb := int64(1)
	b.TestbedID = &tb
	if err := h.Bookings.Create(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	patch := func(id, body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPatch, "/api/admin/booking/"+id, strings.NewReader(body))
		w := httptest.NewRecorder()
		h.SetBookingStatus(w, r, httprouter.Params{{Key: "id", Value: id}})
		return w
	}

	if w := patch("1", `{"status":"confirmed"}`); w.Code != http.StatusOK {
		t.Fatalf("confirm = %d: %s", w.Code, w.Body.String())
	}
	got, err := h.Bookings.Get(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.BookingConfirmed {
		t.Fatalf("status = %q, want confirmed", got.Status)
	}

	if w := patch("1", `{"status":"vaporized"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("bogus status = %d, want 400", w.Code)
	}
	if w := patch("999", `{"status":"cancelled"}`); w.Code != http.StatusNotFound {
		t.Fatalf("unknown booking = %d, want 404", w.Code)
	}
	if w := patch("nan", `{"status":"cancelled"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id = %d, want 400", w.Code)
	}
}
