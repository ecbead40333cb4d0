package p4

import (
	"context"
	"log/slog"
	"sync"
)

// SessionStore persists a session's ClientInfo beyond a single process.
type SessionStore interface {
	Load(ctx context.Context, key string) (ClientInfo, bool, error)
	Save(ctx context.Context, key string, info ClientInfo) error
	Delete(ctx context.Context, key string) error
}

// Session is the host-side context shared by every invocation: the working
// directory p4 runs in and the cached ClientInfo. The cache starts empty and
// is only cleared by Reset.
type Session struct {
	key   string
	dir   string
	store SessionStore

	// mu guards info; the workspace watcher resets it from its own goroutine.
	mu   sync.Mutex
	info *ClientInfo
}

// NewSession creates a session rooted at dir. store may be nil, in which case
// the cache only lives in memory.
func NewSession(key, dir string, store SessionStore) *Session {
	return &Session{key: key, dir: dir, store: store}
}

func (s *Session) Key() string {
	return s.key
}

func (s *Session) Dir() string {
	return s.dir
}

// ClientInfo returns the cached ClientInfo, consulting the store when the
// in-memory cache is empty.
func (s *Session) ClientInfo(ctx context.Context) (ClientInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.info != nil {
		return *s.info, true
	}
	if s.store == nil {
		return ClientInfo{}, false
	}
	info, ok, err := s.store.Load(ctx, s.key)
	if err != nil {
		slog.Warn("load cached client info", slog.String("session", s.key), slog.Any("error", err))
		return ClientInfo{}, false
	}
	if !ok {
		return ClientInfo{}, false
	}
	s.info = &info
	return info, true
}

func (s *Session) SetClientInfo(ctx context.Context, info ClientInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = &info
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, s.key, info); err != nil {
		slog.Warn("save client info", slog.String("session", s.key), slog.Any("error", err))
	}
}

// Reset drops the cached ClientInfo so the next lookup runs p4 info again.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = nil
	if s.store == nil {
		return nil
	}
	return s.store.Delete(ctx, s.key)
}
