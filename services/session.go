package services

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/hkdf"
)

const (
	sessionName = "popcorn-session"
	clientIDKey = "client_id"
)

// Sessions identifies browsers with an anonymous client id kept in a signed
// and encrypted cookie.
type Sessions struct {
	store *sessions.CookieStore
}

// DeriveKey expands secret into a 32-byte key dedicated to purpose.
func DeriveKey(secret, purpose string) ([]byte, error) {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), []byte("popcorn"), []byte(purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return key, nil
}

func NewSessions(secret string, secure bool) (*Sessions, error) {
	hashKey, err := DeriveKey(secret, "session-hash")
	if err != nil {
		return nil, err
	}
	blockKey, err := DeriveKey(secret, "session-block")
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 365, // the watched list should outlive browser restarts
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}, nil
}

// ClientID returns the browser's client id, issuing a new one (and setting
// the cookie on w) when the request has none or it cannot be decoded.
func (s *Sessions) ClientID(w http.ResponseWriter, r *http.Request) (string, error) {
	// A cookie that fails to decode still yields a fresh session.
	session, _ := s.store.Get(r, sessionName)

	if v, ok := session.Values[clientIDKey].(string); ok {
		if _, err := uuid.Parse(v); err == nil {
			return v, nil
		}
	}

	id := uuid.NewString()
	session.Values[clientIDKey] = id
	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return id, nil
}

// Reset expires the session cookie so the next request gets a new client id.
func (s *Sessions) Reset(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, sessionName)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
