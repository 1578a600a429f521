package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/spec-kit/billing-portal/internal/observability"
	apperrors "github.com/spec-kit/billing-portal/pkg/util/errorutil"
)

// MiddlewareConfig controls the global middleware chain.
type MiddlewareConfig struct {
	Timeout      time.Duration
	Development  bool
	AllowOrigins string
}

// RegisterMiddlewares attaches global middlewares. The request logger runs
// outermost so it records the status written by the error middleware.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, cfg MiddlewareConfig) {
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics, cfg.Development))
	if cfg.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowOrigins,
			AllowCredentials: true,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		}))
	}
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, development bool) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				err = writeError(c, err, logger, metrics, development)
			}
		}()
		return c.Next()
	}
}

func writeError(c *fiber.Ctx, err error, logger *zap.Logger, metrics *observability.Metrics, development bool) error {
	domainErr := apperrors.ToDomainError(err)
	metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)

	response := fiber.Map{
		"message": domainErr.Message,
		"code":    domainErr.Code,
	}
	if len(domainErr.Details) > 0 {
		response["details"] = domainErr.Details
	}
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.Error(domainErr))
		if development && domainErr.Err != nil {
			response["error"] = domainErr.Err.Error()
		}
	}
	return c.Status(domainErr.HTTPStatus).JSON(response)
}

// notFoundHandler answers any route nothing else matched.
func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Endpoint not found",
		"path":    c.Path(),
	})
}
