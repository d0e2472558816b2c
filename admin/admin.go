package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"labdesk/db"
	"labdesk/models"
	"labdesk/rdx"
	"labdesk/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Users    *db.UserStore
	Bookings *db.BookingStore
}

func NewHandler(users *db.UserStore, bookings *db.BookingStore) *Handler {
	return &Handler{Users: users, Bookings: bookings}
}

// ListUsers returns accounts filtered by approval status.
//
// Endpoint: GET /api/admin/users?status=S (admin only)
// S is the numeric status code; it defaults to pending.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	status := models.StatusPending
	if s := r.URL.Query().Get("status"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < int(models.StatusPending) || n > int(models.StatusRejected) {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		status = models.ApprovalStatus(n)
	}

	users, err := h.Users.ListByStatus(r.Context(), status)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

// ApproveUser flips a pending account to approved.
//
// Endpoint: PATCH /api/admin/user/:id (admin only)
func (h *Handler) ApproveUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("id")
	err := h.Users.SetStatus(r.Context(), userID, models.StatusApproved)
	if errors.Is(err, db.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to approve user")
		return
	}

	if u, err := h.Users.GetByUserID(r.Context(), userID); err == nil {
		_ = rdx.RdxSet(fmt.Sprintf("users:%s", userID), u.Name)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"userid": userID, "status": models.StatusApproved})
}

// DenyUser removes an account entirely.
//
// Endpoint: DELETE /api/admin/user/:id (admin only)
func (h *Handler) DenyUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("id")
	err := h.Users.Delete(r.Context(), userID)
	if errors.Is(err, db.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	_ = rdx.RdxDel(fmt.Sprintf("users:%s", userID))
	_ = rdx.RdxHdel("tokki", userID)

	w.WriteHeader(http.StatusNoContent)
}

// SetBookingStatus confirms or cancels a booking.
//
// Endpoint: PATCH /api/admin/booking/:id (admin only)
func (h *Handler) SetBookingStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid booking id")
		return
	}

	var body struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	switch body.Status {
	case models.BookingPending, models.BookingConfirmed, models.BookingCancelled:
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	err = h.Bookings.SetStatus(r.Context(), id, body.Status)
	if errors.Is(err, db.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update booking")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"id": id, "status": body.Status})
}
