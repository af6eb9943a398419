package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/Pitchside/internal/pkg/middleware"
	"github.com/ManuelReschke/Pitchside/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session unless a store was configured already
	if session.GetSessionStore() == nil {
		session.NewSessionStore()
	}

	// Restore the entitlement context before any route runs
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
