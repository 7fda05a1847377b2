package router

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"healthtracker/internal/auth"
	"healthtracker/internal/config"
	"healthtracker/internal/errors"
	"healthtracker/internal/handler"
	"healthtracker/internal/metrics"
)

// Authenticator resolves a bearer token into session claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// Handlers bundles the HTTP handlers mounted under /api.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Exercise *handler.ExerciseHandler
	Diet     *handler.DietHandler
	Goal     *handler.GoalHandler
	Group    *handler.GroupHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log *logrus.Logger, authenticator Authenticator, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"request_id": v.RequestID,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
			})
			if v.Status >= http.StatusInternalServerError {
				if v.Error != nil {
					entry = entry.WithError(v.Error)
				}
				entry.Error("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	limiter := NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst, log)
	api.POST("/auth/register", h.Auth.Register, limiter.Middleware())
	api.POST("/auth/login", h.Auth.Login, limiter.Middleware())

	// Secured routes (require a live session token)
	secured := api.Group("", JWTMiddleware(authenticator))

	secured.GET("/auth", h.Auth.Me)
	secured.POST("/auth/logout", h.Auth.Logout)

	secured.GET("/users/me", h.User.Me)
	secured.PUT("/users/weight", h.User.UpdateWeight)
	secured.PUT("/users/profile", h.User.UpdateProfile)

	secured.POST("/exercises", h.Exercise.Create)
	secured.GET("/exercises", h.Exercise.List)
	secured.GET("/exercises/:id", h.Exercise.Get)
	secured.PUT("/exercises/:id", h.Exercise.Update)
	secured.DELETE("/exercises/:id", h.Exercise.Delete)

	secured.POST("/diet", h.Diet.Create)
	secured.GET("/diet", h.Diet.List)
	secured.GET("/diet/summary", h.Diet.Summary)
	secured.GET("/diet/:id", h.Diet.Get)
	secured.PUT("/diet/:id", h.Diet.Update)
	secured.DELETE("/diet/:id", h.Diet.Delete)

	secured.POST("/goals", h.Goal.Create)
	secured.GET("/goals", h.Goal.List)
	secured.GET("/goals/group/:groupId", h.Goal.ListGroup)
	secured.GET("/goals/:id", h.Goal.Get)
	secured.PUT("/goals/:id", h.Goal.Update)
	secured.DELETE("/goals/:id", h.Goal.Delete)
	secured.PUT("/goals/:id/progress", h.Goal.UpdateProgress)

	secured.POST("/groups", h.Group.Create)
	secured.GET("/groups", h.Group.List)
	secured.POST("/groups/invite/:id", h.Group.Invite)
	secured.POST("/groups/join/:inviteCode", h.Group.Join)
	secured.GET("/groups/:id", h.Group.Get)
	secured.PUT("/groups/:id", h.Group.Update)
	secured.DELETE("/groups/:id", h.Group.Delete)
	secured.DELETE("/groups/:id/leave", h.Group.Leave)
	secured.PUT("/groups/:id/admin/:userId", h.Group.TransferAdmin)
}

// JWTMiddleware validates the bearer token through authenticator and stores
// the resulting claims under handler.ClaimsContextKey.
func JWTMiddleware(authenticator Authenticator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ClaimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authenticator.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			msg := "token is not valid"
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				msg = "no token, authorization denied"
			}
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: msg,
				Code:  "UNAUTHENTICATED",
			}).SetInternal(err)
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
