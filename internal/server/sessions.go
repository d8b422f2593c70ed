package server

import (
	"errors"
	"fmt"

	"mmr-history/internal/view"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

var errSessionNotFound = errors.New("session not found")

// sessionStore keeps views in memory; nothing survives a restart. When full,
// adding a session evicts the least recently used one.
type sessionStore struct {
	views *lru.Cache[string, *view.Controller]
}

func newSessionStore(limit int, logger zerolog.Logger) (*sessionStore, error) {
	views, err := lru.NewWithEvict(limit, func(id string, _ *view.Controller) {
		logger.Debug().Str("session_id", id).Msg("session evicted")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}
	return &sessionStore{views: views}, nil
}

func (s *sessionStore) add(c *view.Controller) string {
	id := uuid.NewString()
	s.views.Add(id, c)
	return id
}

func (s *sessionStore) get(id string) (*view.Controller, error) {
	c, ok := s.views.Get(id)
	if !ok {
		return nil, errSessionNotFound
	}
	return c, nil
}

func (s *sessionStore) remove(id string) {
	s.views.Remove(id)
}

func (s *sessionStore) len() int {
	return s.views.Len()
}
