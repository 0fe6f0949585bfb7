package redis

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/redis/go-redis/v9"

	"timed-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Sessions own a live countdown, so they stay in a local map; Redis only
//     holds a liveness marker per session.
//   - The marker expires shortly after the quiz time limit, so an instance
//     that dies mid-quiz does not leave stale markers behind.
type SessionStore struct {
	client *redis.Client
	grace  time.Duration

	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, grace time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		grace:    grace,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Save(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	ttl := time.Duration(session.TimeLimit())*time.Second + s.grace
	if err := s.client.Set(context.Background(), s.key(session.ID()), "1", ttl).Err(); err != nil {
		glog.Warningf("mark session %s live: %v", session.ID(), err)
	}
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if err := s.client.Del(context.Background(), s.key(sessionID)).Err(); err != nil {
		glog.Warningf("clear session %s: %v", sessionID, err)
	}
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
