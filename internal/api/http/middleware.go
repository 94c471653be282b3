package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/foundit/lostfound-service/internal/config"
	"github.com/foundit/lostfound-service/internal/observability"
	apperrors "github.com/foundit/lostfound-service/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares: request ids, CORS, timeout,
// error rendering and access logging.
func RegisterMiddlewares(app *fiber.App, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) {
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: joinOrigins(cfg.CORS.AllowedOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,OPTIONS",
	}))
	if timeout := cfg.App.RequestTimeout(); timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware renders every returned error and recovered panic as
// {"message", "code"} with the mapped status.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)
				response := fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}
				if len(domainErr.Details) > 0 {
					response["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed",
						zap.String("path", c.Path()),
						zap.String("method", c.Method()),
						zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				err = c.JSON(response)
			}
		}()
		return c.Next()
	}
}

func joinOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	out := origins[0]
	for _, o := range origins[1:] {
		out += "," + o
	}
	return out
}
