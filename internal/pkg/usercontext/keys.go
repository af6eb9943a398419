package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	// LocalsKey holds the request's *Context in fiber locals.
	LocalsKey = "entitlements_context"
	// SessionUserKey is the session key of the serialized user record.
	SessionUserKey = "entitlements_user"
)
