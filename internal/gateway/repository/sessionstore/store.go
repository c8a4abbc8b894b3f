package sessionstore

import (
	"database/sql"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"miosa/internal/workers/plan"
)

// Store persists sessions either in a single JSON file or in Postgres,
// depending on how it was constructed. Methods dispatch on the backend.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Session

	schemaOnce sync.Once
	schemaErr  error

	readCache *lru.Cache[string, Session]
}

func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Session),
	}
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, Session](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, readCache: cache}, nil
}

// NewFromEnv prefers Postgres when SESSION_STORE_PG_DSN is set and reachable,
// otherwise falls back to the file backend at path.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("SESSION_STORE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

func (s *Store) EnsureLoaded() {
	if s == nil {
		return
	}
	if s.db != nil {
		_ = s.ensureSchema()
		return
	}
	s.ensureLoadedFile()
}

func (s *Store) Save() {
	if s == nil || s.db != nil {
		return
	}
	s.saveFile()
}

func (s *Store) Get(sessionID string) (Session, bool) {
	if s == nil {
		return Session{}, false
	}
	if s.db != nil {
		if s.readCache != nil {
			if cached, ok := s.readCache.Get(sessionID); ok {
				return cached, true
			}
		}
		sess, ok := s.getDB(sessionID)
		if ok && s.readCache != nil {
			s.readCache.Add(sessionID, sess)
		}
		return sess, ok
	}
	return s.getFile(sessionID)
}

func (s *Store) Put(sess Session) {
	if s == nil {
		return
	}
	if s.db != nil {
		s.putDB(sess)
		s.invalidate(sess.SessionID)
		return
	}
	s.putFile(sess)
}

func (s *Store) Update(sessionID string, update func(*Session)) (Session, bool) {
	if s == nil {
		return Session{}, false
	}
	if s.db != nil {
		sess, ok := s.updateDB(sessionID, update)
		s.invalidate(sessionID)
		return sess, ok
	}
	return s.updateFile(sessionID, update)
}

func (s *Store) List() []Session {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.listDB()
	}
	return s.listFile()
}

// TryStartPlan atomically flips the session's plan status to planning,
// provided the stored status allows a new run. It is the only gate between
// the foreground turn handler and the background planner.
func (s *Store) TryStartPlan(sessionID string) bool {
	if s == nil {
		return false
	}
	if s.db != nil {
		ok := s.tryStartPlanDB(sessionID)
		s.invalidate(sessionID)
		return ok
	}
	return s.tryStartPlanFile(sessionID)
}

// SetPlanStatus records a planning status transition.
func (s *Store) SetPlanStatus(sessionID string, rec plan.StatusRecord) {
	s.Update(sessionID, func(sess *Session) {
		sess.PlanStatus = rec
	})
}

// SetPlan stores the finished plan document.
func (s *Store) SetPlan(sessionID string, doc plan.Document) {
	s.Update(sessionID, func(sess *Session) {
		sess.Plan = &doc
	})
}

func (s *Store) invalidate(sessionID string) {
	if s.readCache != nil {
		s.readCache.Remove(sessionID)
	}
}
