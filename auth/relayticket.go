package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"

	"labdesk/middleware"
	"labdesk/relay"
	"labdesk/utils"

	"github.com/julienschmidt/httprouter"
)

// The chat relay is unauthenticated by default: role and identity are
// asserted by the client at connect time. For deployments that opt into
// verification, the API server signs relay tickets with this key and the
// relay fetches the public half from RelayKey.
var relaySigningKey = loadRelaySigningKey()

func loadRelaySigningKey() ed25519.PrivateKey {
	if seedHex := os.Getenv("RELAY_SIGNING_SEED"); seedHex != "" {
		seed, err := hex.DecodeString(seedHex)
		if err != nil || len(seed) != ed25519.SeedSize {
			log.Fatalf("RELAY_SIGNING_SEED must be %d hex-encoded bytes", ed25519.SeedSize)
		}
		return ed25519.NewKeyFromSeed(seed)
	}
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Fatalf("failed to generate relay signing key: %v", err)
	}
	return priv
}

// RelayKey serves the ticket verification key to the relay process.
//
// Endpoint: GET /api/chat/key
func (h *Handler) RelayKey(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pub := relaySigningKey.Public().(ed25519.PublicKey)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"key": hex.EncodeToString(pub)})
}

// RelayTicket signs a connect ticket for the calling session.
//
// Endpoint: GET /api/chat/ticket (login required)
func (h *Handler) RelayTicket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims := middleware.ClaimsFromRequest(r)
	if claims == nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	role := relay.RoleUser
	if claims.IsAdmin {
		role = relay.RoleAdmin
	}

	sig := ed25519.Sign(relaySigningKey, relay.TicketPayload(claims.UserID, role, claims.Name))
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"id":   claims.UserID,
		"name": claims.Name,
		"role": role,
		"sig":  hex.EncodeToString(sig),
	})
}
