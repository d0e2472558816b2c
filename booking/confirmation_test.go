package booking

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"labdesk/globals"
	"labdesk/models"

	"github.com/julienschmidt/httprouter"
)

func TestConfirmationPayloadSigned(t *testing.T) {
	payload := ConfirmationPayload(42, "2026-09-01", "demo")

	parts := strings.Split(payload, "|")
	if len(parts) != 4 {
		t.Fatalf("payload = %q, want id|date|kind|sig", payload)
	}
	if parts[0] != "42" || parts[1] != "2026-09-01" || parts[2] != "demo" {
		t.Fatalf("payload fields = %v", parts[:3])
	}

	mac := hmac.New(sha256.New, globals.JwtSecret)
	mac.Write([]byte("42|2026-09-01|demo"))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if parts[3] != want {
		t.Fatalf("signature = %q, want %q", parts[3], want)
	}
}

func getConfirmation(h *Handler, id string, mutate func(*http.Request) *http.Request) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/bookings/"+id+"/confirmation", nil)
	if mutate != nil {
		r = mutate(r)
	}
	w := httptest.NewRecorder()
	h.Confirmation(w, r, httprouter.Params{{Key: "id", Value: id}})
	return w
}

func TestConfirmationSheet(t *testing.T) {
	h := newTestHandler(t)
	tbID, _ := seedResources(t, h)

	body := fmt.Sprintf(`{"kind":"testbed","testbed_id":%d,"date":"2026-09-01"}`, tbID)
	w := postBooking(h, body, func(r *http.Request) *http.Request { return asUser(r, "u1", false) })
	if w.Code != http.StatusCreated {
		t.Fatalf("seed: %d", w.Code)
	}
	var b models.Booking
	json.Unmarshal(w.Body.Bytes(), &b)
	id := fmt.Sprintf("%d", b.ID)

	w = getConfirmation(h, id, func(r *http.Request) *http.Request { return asUser(r, "u1", false) })
	if w.Code != http.StatusOK {
		t.Fatalf("owner download = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q, want application/pdf", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Fatal("response is not a PDF document")
	}

	if w := getConfirmation(h, id, func(r *http.Request) *http.Request { return asUser(r, "u2", false) }); w.Code != http.StatusForbidden {
		t.Fatalf("stranger download = %d, want 403", w.Code)
	}
	if w := getConfirmation(h, id, func(r *http.Request) *http.Request { return asUser(r, "boss", true) }); w.Code != http.StatusOK {
		t.Fatalf("admin download = %d, want 200", w.Code)
	}
	if w := getConfirmation(h, "999", func(r *http.Request) *http.Request { return asUser(r, "u1", false) }); w.Code != http.StatusNotFound {
		t.Fatalf("unknown booking = %d, want 404", w.Code)
	}
	if w := getConfirmation(h, "nan", func(r *http.Request) *http.Request { return asUser(r, "u1", false) }); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id = %d, want 400", w.Code)
	}
}
