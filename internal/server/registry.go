package server

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/quizforge/triviaboard/internal/triviaboard"
)

// BoardProvider supplies the board content for a session. The static
// catalog and the generative client both satisfy it.
type BoardProvider interface {
	Board(ctx context.Context) (triviaboard.Board, error)
}

// gameSession is one live session plus its access guard. All reads and
// writes of game go through mu; the engine itself is pure, so a single
// mutex per session is the entire locking discipline.
type gameSession struct {
	id string

	mu        sync.Mutex
	game      triviaboard.Session
	lastError string
	cancelGen context.CancelFunc
}

// Registry holds all live sessions in memory. Sessions are process-local
// and vanish on restart: nothing about a game persists.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*gameSession
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*gameSession),
	}
}

func (r *Registry) Create() *gameSession {
	s := &gameSession{
		id:   uuid.NewString(),
		game: triviaboard.NewSession(),
	}
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*gameSession, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	return s, ok
}

// Close cancels every in-flight generation. Called on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		s.mu.Lock()
		if s.cancelGen != nil {
			s.cancelGen()
		}
		s.mu.Unlock()
	}
}
