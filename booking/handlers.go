package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"labdesk/db"
	"labdesk/middleware"
	"labdesk/models"
	"labdesk/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Bookings  *db.BookingStore
	Resources *db.ResourceStore
}

func NewHandler(bookings *db.BookingStore, resources *db.ResourceStore) *Handler {
	return &Handler{Bookings: bookings, Resources: resources}
}

type createInput struct {
	Kind       models.BookingKind `json:"kind"`
	GuestEmail string             `json:"guest_email"`
	TimeslotID *int64             `json:"timeslot_id"`
	TestbedID  *int64             `json:"testbed_id"`
	Date       string             `json:"date"`
	Message    string             `json:"message"`
}

// Create books a demo timeslot or a testbed day. Logged-in callers own the
// booking; anonymous callers must supply a guest email instead. Double
// bookings are caught by the unique indexes, so under concurrency exactly
// one of two racing requests gets the slot.
//
// Endpoint: POST /api/bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input createInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	b := &models.Booking{
		Kind:       input.Kind,
		TimeslotID: input.TimeslotID,
		TestbedID:  input.TestbedID,
		Date:       input.Date,
		Message:    input.Message,
	}

	claims := middleware.ClaimsFromRequest(r)
	switch {
	case claims != nil && input.GuestEmail != "":
		utils.RespondWithError(w, http.StatusBadRequest, "Booking cannot carry both a user and a guest email")
		return
	case claims != nil:
		uid := claims.UserID
		b.UserID = &uid
	case input.GuestEmail != "":
		if !utils.ValidEmail(input.GuestEmail) {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid guest email")
			return
		}
		b.GuestEmail = &input.GuestEmail
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Either log in or supply a guest email")
		return
	}

	switch b.Kind {
	case models.KindDemo:
		if b.TimeslotID == nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Demo bookings need a timeslot")
			return
		}
	case models.KindTestbed:
		if b.TestbedID == nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Testbed bookings need a testbed")
			return
		}
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown booking kind")
		return
	}

	if err := h.Bookings.Create(r.Context(), b); err != nil {
		if db.IsConflict(err) {
			if b.Kind == models.KindTestbed {
				utils.RespondWithError(w, http.StatusConflict, "This testbed is already booked for that date")
			} else {
				utils.RespondWithError(w, http.StatusConflict, "This timeslot is already booked for that date")
			}
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	broadcastUpdate(b.Date)
	utils.RespondWithJSON(w, http.StatusCreated, b)
}

// List returns the caller's bookings; admins see everyone's.
//
// Endpoint: GET /api/bookings?date=D (login required)
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims := middleware.ClaimsFromRequest(r)
	date := r.URL.Query().Get("date")

	var (
		bookings []models.Booking
		err      error
	)
	switch {
	case middleware.IsAdmin(claims) && date != "":
		bookings, err = h.Bookings.ListByDate(r.Context(), date)
	case middleware.IsAdmin(claims):
		bookings, err = h.Bookings.ListAll(r.Context())
	default:
		bookings, err = h.Bookings.ListForUser(r.Context(), claims.UserID)
		if err == nil && date != "" {
			filtered := bookings[:0]
			for _, b := range bookings {
				if b.Date == date {
					filtered = append(filtered, b)
				}
			}
			bookings = filtered
		}
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bookings)
}

// Delete cancels a booking. Owner or admin only.
//
// Endpoint: DELETE /api/bookings/:id
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid booking id")
		return
	}

	b, err := h.Bookings.Get(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch booking")
		return
	}

	claims := middleware.ClaimsFromRequest(r)
	owner := b.UserID != nil && claims != nil && *b.UserID == claims.UserID
	if !owner && !middleware.IsAdmin(claims) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if err := h.Bookings.Delete(r.Context(), id); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete booking")
		return
	}
	broadcastUpdate(b.Date)
	w.WriteHeader(http.StatusNoContent)
}

// --- Resource endpoints ---

func (h *Handler) ListTimeslots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	slots, err := h.Resources.ListTimeslots(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch timeslots")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, slots)
}

func (h *Handler) CreateTimeslot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var slot models.Timeslot
	if err := json.NewDecoder(r.Body).Decode(&slot); err != nil || slot.Start == "" || slot.End == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := h.Resources.CreateTimeslot(r.Context(), &slot); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create timeslot")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, slot)
}

func (h *Handler) DeleteTimeslot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.deleteResource(w, r, ps, h.Resources.DeleteTimeslot, "Timeslot")
}

func (h *Handler) ListTestbeds(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	testbeds, err := h.Resources.ListTestbeds(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch testbeds")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, testbeds)
}

func (h *Handler) CreateTestbed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var tb models.Testbed
	if err := json.NewDecoder(r.Body).Decode(&tb); err != nil || tb.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := h.Resources.CreateTestbed(r.Context(), &tb); err != nil {
		if db.IsConflict(err) {
			utils.RespondWithError(w, http.StatusConflict, "A testbed with that name already exists")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create testbed")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, tb)
}

func (h *Handler) DeleteTestbed(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.deleteResource(w, r, ps, h.Resources.DeleteTestbed, "Testbed")
}

func (h *Handler) deleteResource(w http.ResponseWriter, r *http.Request, ps httprouter.Params,
	del func(ctx context.Context, id int64) error, what string) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	err = del(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, what+" not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete "+what)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
