package relay

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Hello is what a client asserts about itself at connect time.
type Hello struct {
	ID        string
	Role      string
	Name      string
	Signature string // hex ed25519 signature over TicketPayload, if any
}

// Verifier decides whether a connecting client's asserted identity is
// acceptable. The relay itself performs no verification: AllowAll is the
// default, Ed25519Verifier is the opt-in ticket check.
type Verifier interface {
	Verify(h Hello) error
}

// AllowAll accepts every asserted identity unchecked.
type AllowAll struct{}

func (AllowAll) Verify(Hello) error { return nil }

// TicketPayload is the byte string the authority signs for a connect ticket.
func TicketPayload(id, role, name string) []byte {
	return []byte(id + "|" + role + "|" + name)
}

// Ed25519Verifier checks the connect signature against the public key of
// the authority that issues sessions.
type Ed25519Verifier struct {
	Key ed25519.PublicKey
}

func (v Ed25519Verifier) Verify(h Hello) error {
	if h.Signature == "" {
		return errors.New("missing signature")
	}
	sig, err := hex.DecodeString(h.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return errors.New("malformed signature")
	}
	if !ed25519.Verify(v.Key, TicketPayload(h.ID, h.Role, h.Name), sig) {
		return errors.New("signature check failed")
	}
	return nil
}

// FetchVerifier pulls the authority's ticket key from authURL
// (GET <authURL>/api/chat/key) and returns a verifier bound to it.
func FetchVerifier(authURL string) (Ed25519Verifier, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(authURL + "/api/chat/key")
	if err != nil {
		return Ed25519Verifier{}, fmt.Errorf("fetch relay key: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Ed25519Verifier{}, fmt.Errorf("fetch relay key: status %d", resp.StatusCode)
	}

	var body struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Ed25519Verifier{}, fmt.Errorf("decode relay key: %w", err)
	}
	key, err := hex.DecodeString(body.Key)
	if err != nil || len(key) != ed25519.PublicKeySize {
		return Ed25519Verifier{}, errors.New("relay key is not a valid ed25519 public key")
	}
	return Ed25519Verifier{Key: ed25519.PublicKey(key)}, nil
}
