package store

import (
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/AngelCh415/adreport/internal/models"
)

// replaced, never edited in place
type Session struct {
	ID       string              `json:"id"`
	Raw      models.RawTable     `json:"-"`
	Mapping  map[string]string   `json:"mapping"`
	Table    models.Table        `json:"-"`
	Report   models.IngestReport `json:"report"`
	LoadedAt time.Time           `json:"loaded_at"`
}

// MemoryStore keeps the most recently used sessions; the oldest is
// dropped once capacity is reached.
type MemoryStore struct {
	sessions *lru.Cache[string, Session]
}

func NewMemoryStore(capacity int) (*MemoryStore, error) {
	c, err := lru.New[string, Session](capacity)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{sessions: c}, nil
}

func (s *MemoryStore) Create(sess Session) Session {
	sess.ID = uuid.NewString()
	if sess.LoadedAt.IsZero() {
		sess.LoadedAt = time.Now().UTC()
	}
	s.sessions.Add(sess.ID, sess)
	return sess
}

func (s *MemoryStore) Get(id string) (Session, bool) {
	return s.sessions.Get(id)
}

// false for unknown IDs
func (s *MemoryStore) Replace(sess Session) bool {
	if !s.sessions.Contains(sess.ID) {
		return false
	}
	s.sessions.Add(sess.ID, sess)
	return true
}

func (s *MemoryStore) Delete(id string) bool {
	return s.sessions.Remove(id)
}

func (s *MemoryStore) Len() int { return s.sessions.Len() }
