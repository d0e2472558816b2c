package auth

import (
	"time"

	"labdesk/globals"
	"labdesk/middleware"
	"labdesk/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Session tokens are stateless: signature against the shared secret is the
// only validity check, there is no server-side revocation.
const sessionTTL = 12 * time.Hour

// IssueToken signs the fixed claim set for a user with HS256.
func IssueToken(u *models.User) (string, error) {
	claims := &middleware.Claims{
		Name:         u.Name,
		Email:        u.Email,
		UserID:       u.UserID,
		Availability: u.Availability,
		IsAdmin:      u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// VerifyToken decodes and checks a session token. Forged, tampered or
// malformed input comes back as ok=false.
func VerifyToken(tokenString string) (*middleware.Claims, bool) {
	return middleware.ParseToken(tokenString)
}

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(b), err
}

func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
