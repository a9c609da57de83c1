// Package requestid assigns a unique request ID to every request handled
// in service mode, for log correlation across the compare pipeline.
package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the response header carrying the request ID.
const Header = "X-Request-Id"

// New returns a middleware that stores a request ID in the context
// locals and echoes it in the response header. An incoming ID is reused
// so callers can propagate their own correlation IDs.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("request_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
