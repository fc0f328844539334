package web

import (
	"crypto/sha256"
	"fmt"
	"io"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/hkdf"

	"github.com/dmitrijs2005/postapp/internal/common"
)

// MemoryStore is a sessions.Store that keeps session values in process
// memory. The cookie only carries the signed and encrypted session id.
type MemoryStore struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options

	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	values  map[interface{}]interface{}
	touched time.Time
}

var _ sessions.Store = (*MemoryStore)(nil)

// NewMemoryStore builds a store whose cookie keys are derived from secret.
// An empty secret gets a random one, so sessions do not survive a restart.
func NewMemoryStore(secret string) (*MemoryStore, error) {
	hashKey, blockKey, err := deriveKeys(secret)
	if err != nil {
		return nil, err
	}

	return &MemoryStore{
		Codecs: securecookie.CodecsFromPairs(hashKey, blockKey),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   86400,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}, nil
}

// deriveKeys expands secret into a 64-byte HMAC key and a 32-byte AES key.
func deriveKeys(secret string) ([]byte, []byte, error) {
	ikm := []byte(secret)
	if secret == "" {
		ikm = common.GenerateRandByteArray(32)
	}

	r := hkdf.New(sha256.New, ikm, nil, []byte("postapp-session-cookie"))
	hashKey := make([]byte, 64)
	blockKey := make([]byte, 32)
	if _, err := io.ReadFull(r, hashKey); err != nil {
		return nil, nil, fmt.Errorf("derive hash key: %w", err)
	}
	if _, err := io.ReadFull(r, blockKey); err != nil {
		return nil, nil, fmt.Errorf("derive block key: %w", err)
	}
	return hashKey, blockKey, nil
}

// Get returns the session for name, cached per request.
func (s *MemoryStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New returns the stored session named by the request cookie, or a fresh
// one. A cookie that does not decode or names an unknown session yields a
// fresh session and no error.
func (s *MemoryStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.Codecs...); err != nil {
		return session, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || s.expired(e) {
		delete(s.entries, id)
		return session, nil
	}

	session.ID = id
	session.Values = maps.Clone(e.values)
	session.IsNew = false
	return session, nil
}

// Save stores the session values and writes the id cookie. A negative
// MaxAge deletes the session.
func (s *MemoryStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		s.mu.Lock()
		delete(s.entries, session.ID)
		s.mu.Unlock()
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.prune()
	s.entries[session.ID] = memoryEntry{values: maps.Clone(session.Values), touched: s.now()}
	s.mu.Unlock()

	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Len reports how many sessions are stored.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	if s.Options.MaxAge <= 0 {
		return false
	}
	return s.now().Sub(e.touched) > time.Duration(s.Options.MaxAge)*time.Second
}

// prune drops idle sessions. Callers hold s.mu.
func (s *MemoryStore) prune() {
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
		}
	}
}
