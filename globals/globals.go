package globals

import (
	"context"
	"crypto/rand"
	"log"
	"os"
)

var JwtSecret = loadSecret()

// loadSecret reads JWT_SECRET from the environment. Without it every process
// signs with its own random key, so tokens minted by the API server will not
// verify anywhere else, notably the chat relay, which runs as a separate
// process. Configure the same secret everywhere in production.
func loadSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate fallback JWT secret: %v", err)
	}
	log.Println("JWT_SECRET not set; using a random per-process key")
	return key
}

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const ClaimsKey ContextKey = "claims"

var Ctx = context.Background()
