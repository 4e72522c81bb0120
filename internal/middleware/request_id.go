package middleware

import (
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"

	"MaxBot/pkg/utils"
)

const RequestIDKey = "X-Request-ID"

// Caller supplied ids end up in every log line, so only short opaque tokens
// are passed through.
var forwardedRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

func NewRequestIDMiddleware() fiber.Handler {
	ids := utils.New()

	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDKey)
		if !forwardedRequestID.MatchString(requestID) {
			requestID, _ = ids.NewULIDFromTimestamp(time.Now())
		}

		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)

		return c.Next()
	}
}
