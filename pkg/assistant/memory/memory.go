// Package memory keeps a short, bounded history per chat session plus a flag
// recording whether the visitor has been greeted.
package memory

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

type Role string

const (
	RoleUser          Role = "user"
	RoleAgent         Role = "agent"
	RoleSystemContext Role = "system-context"
)

const DefaultCap = 10

type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the persisted state for one session id.
type Session struct {
	ID      string `json:"id"`
	Turns   []Turn `json:"turns"`
	Greeted bool   `json:"greeted"`
}

// Store persists sessions. Load returns (nil, nil) for an unknown id.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, session *Session) error
}

// Memory applies the history cap and greeted semantics over a Store.
// Updates to one session are serialized within the process; across
// processes sharing a Store the last write wins.
type Memory struct {
	store Store
	cap   int
	now   func() time.Time

	locks [lockStripes]sync.Mutex
}

// lockStripes bounds the lock set; sessions sharing a stripe serialize.
const lockStripes = 64

type Option func(*Memory)

func WithCap(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.cap = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

func New(store Store, opts ...Option) *Memory {
	m := &Memory{store: store, cap: DefaultCap, now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Memory) stripe(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &m.locks[h.Sum32()%lockStripes]
}

func (m *Memory) lock(sessionID string) func() {
	mu := m.stripe(sessionID)
	mu.Lock()
	return mu.Unlock
}

func (m *Memory) load(ctx context.Context, sessionID string) (*Session, error) {
	s, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = &Session{ID: sessionID}
	}
	return s, nil
}

// Append adds a turn, evicting the oldest turns beyond the cap.
func (m *Memory) Append(ctx context.Context, sessionID string, role Role, text string) error {
	unlock := m.lock(sessionID)
	defer unlock()

	s, err := m.load(ctx, sessionID)
	if err != nil {
		return err
	}

	s.Turns = append(s.Turns, Turn{Role: role, Text: text, Timestamp: m.now()})
	if over := len(s.Turns) - m.cap; over > 0 {
		s.Turns = append([]Turn(nil), s.Turns[over:]...)
	}
	return m.store.Save(ctx, s)
}

// History returns the turns oldest first; empty for an unknown session.
func (m *Memory) History(ctx context.Context, sessionID string) ([]Turn, error) {
	s, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return []Turn{}, nil
	}
	out := make([]Turn, len(s.Turns))
	copy(out, s.Turns)
	return out, nil
}

// MarkGreeted is idempotent. The flag never reverts.
func (m *Memory) MarkGreeted(ctx context.Context, sessionID string) error {
	unlock := m.lock(sessionID)
	defer unlock()

	s, err := m.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if s.Greeted {
		return nil
	}
	s.Greeted = true
	return m.store.Save(ctx, s)
}

func (m *Memory) Greeted(ctx context.Context, sessionID string) (bool, error) {
	s, err := m.store.Load(ctx, sessionID)
	if err != nil || s == nil {
		return false, err
	}
	return s.Greeted, nil
}

// Recent returns at most n of the newest turns, oldest first.
func Recent(turns []Turn, n int) []Turn {
	if n <= 0 || len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

// CountRole counts turns with the given role.
func CountRole(turns []Turn, role Role) int {
	n := 0
	for _, t := range turns {
		if t.Role == role {
			n++
		}
	}
	return n
}
