package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

const (
	RequestIDKey   = "request_id"
	fiberRequestID = "X-Request-ID"
)

type operatorKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func WithOperator(ctx context.Context, operatorID string) context.Context {
	return context.WithValue(ctx, operatorKey{}, operatorID)
}

func GetOperator(ctx context.Context) string {
	id, _ := ctx.Value(operatorKey{}).(string)
	return id
}

// FromFiberCtx detaches a request-scoped context from the fasthttp context,
// carrying over the request id and the authenticated operator, if any.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	ctx := context.Background()

	requestID, ok := c.Locals(fiberRequestID).(string)
	if !ok || requestID == "" {
		requestID = c.Get(fiberRequestID)

		if requestID == "" {
			requestID = "unknown"
		}
	}
	ctx = WithRequestID(ctx, requestID)

	if operatorID, ok := c.Locals("operator_id").(string); ok && operatorID != "" {
		ctx = WithOperator(ctx, operatorID)
	}

	return ctx
}
