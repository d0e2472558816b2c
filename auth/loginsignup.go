package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"labdesk/db"
	"labdesk/middleware"
	"labdesk/models"
	"labdesk/rdx"
	"labdesk/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Users *db.UserStore
}

func NewHandler(users *db.UserStore) *Handler { return &Handler{Users: users} }

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and sets the session cookie.
//
// This path signals outcomes by redirect only: success goes to "/", every
// failure goes to /login?error=... with wrong password and unknown user
// indistinguishable to the caller. Browser clients depend on this, so it
// stays even though the rest of the API returns JSON errors.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	creds, err := readCredentials(r)
	if err != nil {
		redirectError(w, r, "invalid")
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), creds.Email)
	if err != nil {
		// unknown user gets the same redirect as a wrong password
		redirectError(w, r, "invalid")
		return
	}
	if !VerifyPassword(creds.Password, user.PasswordHash) {
		redirectError(w, r, "invalid")
		return
	}
	if user.Status != models.StatusApproved {
		redirectError(w, r, "not_approved")
		return
	}

	tokenString, err := IssueToken(user)
	if err != nil {
		log.Printf("token issue failed for %s: %v", user.UserID, err)
		redirectError(w, r, "server")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int((12 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if err := rdx.RdxHset("tokki", user.UserID, tokenString); err != nil {
		log.Printf("redis token cache failed: %v", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func readCredentials(r *http.Request) (credentials, error) {
	var creds credentials
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return creds, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return creds, err
		}
		creds.Email = r.PostFormValue("email")
		creds.Password = r.PostFormValue("password")
	}
	if creds.Email == "" || creds.Password == "" {
		return creds, errors.New("missing credentials")
	}
	return creds, nil
}

func redirectError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, fmt.Sprintf("/login?error=%s", code), http.StatusSeeOther)
}

type signupInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Availability string `json:"availability"`
}

// Signup registers a pending account. Approval is an admin action.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input signupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !utils.ValidEmail(input.Email) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		log.Printf("failed to hash password for %s: %v", input.Email, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	user := &models.User{
		UserID:       "u" + utils.GenerateRandomString(10),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Availability: input.Availability,
		Status:       models.StatusPending,
	}

	if err := h.Users.Create(r.Context(), user); err != nil {
		if db.IsConflict(err) {
			// duplicate email must be distinguishable from a generic failure
			utils.RespondWithError(w, http.StatusConflict, "Email already registered")
			return
		}
		log.Printf("signup insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	if err := rdx.RdxSet(fmt.Sprintf("users:%s", user.UserID), user.Name); err != nil {
		log.Printf("failed to cache username: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"status":  http.StatusCreated,
		"userid":  user.UserID,
		"message": "Registration received; an administrator will review your account.",
	})
}

// Logout clears the session cookie and drops the cached token. The JWT
// itself stays valid until expiry; there is no server-side revocation.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if claims := middleware.ClaimsFromRequest(r); claims != nil {
		if err := rdx.RdxHdel("tokki", claims.UserID); err != nil {
			log.Printf("redis token removal failed: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Logged out"})
}
