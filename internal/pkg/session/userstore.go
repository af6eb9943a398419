package session

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/ManuelReschke/Pitchside/internal/pkg/usercontext"
)

// UserStore persists the session user record in the request's fiber session.
// Saving releases a fiber session, so every call fetches a fresh one.
type UserStore struct {
	c     *fiber.Ctx
	store *session.Store
}

var _ usercontext.Store = (*UserStore)(nil)

func NewUserStore(c *fiber.Ctx, store *session.Store) *UserStore {
	return &UserStore{c: c, store: store}
}

func (s *UserStore) Get(key string) ([]byte, error) {
	if s.store == nil {
		return nil, fmt.Errorf("session store not initialized")
	}
	sess, err := s.store.Get(s.c)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	switch v := sess.Get(key).(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("session value %q has unexpected type %T", key, v)
	}
}

func (s *UserStore) Set(key string, value []byte) error {
	if s.store == nil {
		return fmt.Errorf("session store not initialized")
	}
	sess, err := s.store.Get(s.c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	sess.Set(key, string(value))
	return sess.Save()
}

// Delete removes key. An emptied session is destroyed, since fiber skips
// saving sessions without data.
func (s *UserStore) Delete(key string) error {
	if s.store == nil {
		return fmt.Errorf("session store not initialized")
	}
	sess, err := s.store.Get(s.c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	sess.Delete(key)
	if len(sess.Keys()) == 0 {
		return sess.Destroy()
	}
	return sess.Save()
}
