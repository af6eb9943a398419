package middleware

import (
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"

	"github.com/ManuelReschke/Pitchside/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/Pitchside/internal/pkg/session"
	"github.com/ManuelReschke/Pitchside/internal/pkg/usercontext"
)

// UserContextMiddleware restores the session's entitlement context for every
// request from the global session store.
func UserContextMiddleware(c *fiber.Ctx) error {
	return NewUserContextMiddleware(session.GetSessionStore())(c)
}

// NewUserContextMiddleware restores the entitlement context from store. A
// nil store yields anonymous contexts without persistence.
func NewUserContextMiddleware(store *fibersession.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var us usercontext.Store
		if store != nil {
			us = session.NewUserStore(c, store)
		}
		usercontext.Attach(c, usercontext.Restore(us, usercontext.WithFallbackHook(recordFallback)))
		return c.Next()
	}
}

func recordFallback(ev usercontext.FallbackEvent) {
	if err := counter.AddFallback(string(ev.Reason)); err != nil {
		fiberlog.Warnf("[Entitlements] failed to count fallback %s: %v", ev.Reason, err)
	}
}
