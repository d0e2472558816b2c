package middleware

import (
	"context"
	"net/http"
	"strings"

	"labdesk/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	UserID       string `json:"userId"`
	Availability string `json:"availability,omitempty"`
	IsAdmin      bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

const SessionCookie = "session_token"

// TokenFromRequest pulls the session token from the cookie or, failing that,
// an Authorization: Bearer header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// ParseToken verifies signature and decodes claims. Any failure (bad
// signature, malformed payload, expired) yields (nil, false), never a panic.
func ParseToken(tokenString string) (*Claims, bool) {
	if tokenString == "" {
		return nil, false
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, false
	}
	return claims, true
}

// ClaimsFromRequest resolves the caller, or nil when unauthenticated.
func ClaimsFromRequest(r *http.Request) *Claims {
	if c, ok := r.Context().Value(globals.ClaimsKey).(*Claims); ok {
		return c
	}
	claims, ok := ParseToken(TokenFromRequest(r))
	if !ok {
		return nil
	}
	return claims
}

// --- Route guard predicates ---
//
// Guards compose from the two predicates below with explicit boolean logic.
// The admin check must never reduce to "logged in OR admin claim": a
// mis-parenthesized composition of these checks has silently granted
// elevated access before, and guards_test.go pins the truth table.

func LoggedIn(c *Claims) bool { return c != nil && c.UserID != "" }

func IsAdmin(c *Claims) bool { return LoggedIn(c) && c.IsAdmin }

func withClaims(r *http.Request, c *Claims) *http.Request {
	ctx := context.WithValue(r.Context(), globals.ClaimsKey, c)
	ctx = context.WithValue(ctx, globals.UserIDKey, c.UserID)
	return r.WithContext(ctx)
}

// RequireLogin rejects unauthenticated callers.
func RequireLogin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, ok := ParseToken(TokenFromRequest(r))
		if !ok || !LoggedIn(claims) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, withClaims(r, claims), ps)
	}
}

// RequireAdmin rejects any caller that is not both logged in and an admin.
func RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, ok := ParseToken(TokenFromRequest(r))
		if !ok || !LoggedIn(claims) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !IsAdmin(claims) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, withClaims(r, claims), ps)
	}
}

// RequireAnonymous rejects callers that already hold a valid session
// (signup and login are for logged-out visitors).
func RequireAnonymous(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, ok := ParseToken(TokenFromRequest(r)); ok && LoggedIn(claims) {
			http.Error(w, "Already logged in", http.StatusForbidden)
			return
		}
		next(w, r, ps)
	}
}
