// Package flash carries one-time notifications across a request/response
// boundary using the session cookie. A message is shown once and then cleared.
package flash

import (
	"encoding/gob"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Level is the severity shown by the toast.
type Level string

const (
	Warning Level = "warning"
	Error   Level = "error"
)

// Message is a single flash notification.
type Message struct {
	ID   string
	Type Level
	Text string
}

func init() {
	gob.Register(Message{})
}

const flashKey = "_flash"

// Store reads and writes flash messages in a cookie session.
type Store struct {
	sessions sessions.Store
	name     string
	log      *zap.Logger
}

// NewStore creates a cookie-backed Store. The `secure` flag controls whether
// cookies are marked Secure and which SameSite mode is used.
func NewStore(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*Store, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	cs := sessions.NewCookieStore([]byte(sessionKey))
	cs.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("flash store initialized",
		zap.String("cookie", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &Store{sessions: cs, name: name, log: logger}, nil
}

// Set queues m for display. An ID is assigned when m has none.
func (s *Store) Set(w http.ResponseWriter, r *http.Request, m Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	sess, err := s.sessions.Get(r, s.name)
	if err != nil {
		// A cookie signed with an old key decodes to a fresh session; keep going.
		s.log.Debug("flash session decode failed; starting fresh", zap.Error(err))
	}
	sess.AddFlash(m, flashKey)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save flash: %w", err)
	}
	return nil
}

// Pop returns queued messages and clears them. It must be called before the
// response body is written.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	sess, err := s.sessions.Get(r, s.name)
	if err != nil {
		s.log.Debug("flash session decode failed", zap.Error(err))
	}
	raw := sess.Flashes(flashKey)
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		s.log.Warn("clear flash failed", zap.Error(err))
	}

	out := make([]Message, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(Message); ok {
			out = append(out, m)
		}
	}
	return out
}
