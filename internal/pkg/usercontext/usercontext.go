package usercontext

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/Pitchside/app/models"
	"github.com/ManuelReschke/Pitchside/internal/pkg/entitlements"
)

var ErrInvalidUser = errors.New("invalid user record")

// Store is the durable session storage the current user is written through to.
// Get returns nil without error when the key is missing.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

type FallbackReason string

const (
	FallbackUnknownPlan     FallbackReason = "unknown_plan"
	FallbackUnknownRole     FallbackReason = "unknown_role"
	FallbackCorruptedRecord FallbackReason = "corrupted_record"
)

// FallbackEvent describes a record that was degraded to a safe default.
type FallbackEvent struct {
	Reason FallbackReason
	UserID string
	Value  string
}

type Option func(*Context)

// WithFallbackHook registers fn to be called on every degraded record.
func WithFallbackHook(fn func(FallbackEvent)) Option {
	return func(c *Context) {
		c.onFallback = fn
	}
}

type state struct {
	user *models.User
	ent  *Entitlements
}

// Context holds the current user of one session and the entitlements derived
// from it. The pair is swapped atomically, so readers always observe a
// complete bundle.
type Context struct {
	store      Store
	onFallback func(FallbackEvent)
	current    atomic.Pointer[state]
}

// New returns an unauthenticated context. A nil store disables persistence.
func New(store Store, opts ...Option) *Context {
	c := &Context{store: store}
	for _, opt := range opts {
		opt(c)
	}
	c.current.Store(&state{ent: anonymousEntitlements()})
	return c
}

// Restore loads the persisted user from store. Missing, unreadable or
// invalid records yield an unauthenticated context.
func Restore(store Store, opts ...Option) *Context {
	c := New(store, opts...)
	if store == nil {
		return c
	}

	raw, err := store.Get(SessionUserKey)
	if err != nil {
		fiberlog.Warnf("[Entitlements] failed to read session user: %v", err)
		c.report(FallbackEvent{Reason: FallbackCorruptedRecord})
		return c
	}
	if len(raw) == 0 {
		return c
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		fiberlog.Warnf("[Entitlements] discarding unparsable session user: %v", err)
		c.report(FallbackEvent{Reason: FallbackCorruptedRecord})
		return c
	}
	u.Normalize()
	if err := u.Validate(); err != nil {
		fiberlog.Warnf("[Entitlements] discarding invalid session user %q: %v", u.ID, err)
		c.report(FallbackEvent{Reason: FallbackCorruptedRecord, UserID: u.ID})
		return c
	}

	c.current.Store(&state{user: &u, ent: deriveEntitlements(&u, c.report)})
	return c
}

// SetUser replaces the current user and re-derives entitlements. A nil user
// logs the session out. The record is written through to the store before
// the new bundle becomes visible; on logout the bundle is cleared even if the
// store delete fails.
func (c *Context) SetUser(u *models.User) error {
	if u == nil {
		c.current.Store(&state{ent: anonymousEntitlements()})
		if c.store == nil {
			return nil
		}
		if err := c.store.Delete(SessionUserKey); err != nil {
			return fmt.Errorf("clear session user: %w", err)
		}
		return nil
	}

	user := u.Clone()
	user.Normalize()
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}

	next := &state{user: user, ent: deriveEntitlements(user, c.report)}
	if c.store != nil {
		payload, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode session user: %w", err)
		}
		if err := c.store.Set(SessionUserKey, payload); err != nil {
			return fmt.Errorf("persist session user: %w", err)
		}
	}
	c.current.Store(next)
	return nil
}

// User returns a copy of the current user, or nil when unauthenticated.
func (c *Context) User() *models.User {
	return c.current.Load().user.Clone()
}

func (c *Context) Entitlements() *Entitlements {
	return c.current.Load().ent
}

func (c *Context) IsAuthenticated() bool {
	return c.Entitlements().Authenticated
}

func (c *Context) HasFeature(key entitlements.FeatureKey) bool {
	return c.Entitlements().HasFeature(key)
}

func (c *Context) Allows(perm entitlements.Permission) bool {
	return c.Entitlements().Allows(perm)
}

func (c *Context) IsPro() bool {
	return c.Entitlements().IsPro
}

func (c *Context) IsPartner() bool {
	return c.Entitlements().IsPartner
}

func (c *Context) CanAccessGrassroots() bool {
	return c.Entitlements().CanAccessGrassroots
}

func (c *Context) report(ev FallbackEvent) {
	if c.onFallback != nil {
		c.onFallback(ev)
	}
}

// Attach stores the context in the request locals.
func Attach(c *fiber.Ctx, uc *Context) {
	c.Locals(LocalsKey, uc)
}

// FromFiber retrieves the context from fiber locals.
// Returns a detached anonymous context if none is set
func FromFiber(c *fiber.Ctx) *Context {
	if uc, ok := c.Locals(LocalsKey).(*Context); ok && uc != nil {
		return uc
	}
	return New(nil)
}
