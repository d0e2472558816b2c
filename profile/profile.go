package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"labdesk/auth"
	"labdesk/db"
	"labdesk/middleware"
	"labdesk/rdx"
	"labdesk/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Users *db.UserStore
}

func NewHandler(users *db.UserStore) *Handler { return &Handler{Users: users} }

// Get returns the caller's own account.
//
// Endpoint: GET /api/profile (login required)
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims := middleware.ClaimsFromRequest(r)
	user, err := h.Users.GetByUserID(r.Context(), claims.UserID)
	if errors.Is(err, db.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Account no longer exists")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

type updateInput struct {
	Name         string `json:"name"`
	Availability string `json:"availability"`
}

// Update edits the caller's display name and availability. Email and admin
// flag are not editable here.
//
// Endpoint: PATCH /api/profile (login required)
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims := middleware.ClaimsFromRequest(r)

	var input updateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name must not be empty")
		return
	}

	err := h.Users.UpdateProfile(r.Context(), claims.UserID, input.Name, input.Availability)
	if errors.Is(err, db.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Account no longer exists")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	if err := rdx.RdxSet(fmt.Sprintf("users:%s", claims.UserID), input.Name); err != nil {
		log.Printf("failed to refresh username cache: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"userid": claims.UserID, "name": input.Name})
}

type passwordInput struct {
	Current string `json:"current"`
	New     string `json:"new"`
}

// ChangePassword verifies the current password before setting the new one.
// The session token keeps working; there is no revocation.
//
// Endpoint: POST /api/profile/password (login required)
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims := middleware.ClaimsFromRequest(r)

	var input passwordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if len(input.New) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "New password must be at least 8 characters")
		return
	}

	user, err := h.Users.GetByUserID(r.Context(), claims.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	if !auth.VerifyPassword(input.Current, user.PasswordHash) {
		utils.RespondWithError(w, http.StatusForbidden, "Current password is wrong")
		return
	}

	hash, err := auth.HashPassword(input.New)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}
	if err := h.Users.SetPassword(r.Context(), claims.UserID, hash); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
