// Package httpapi exposes the account lifecycle over REST. Handlers stay
// thin: they bind the request, call the service, and translate sentinel
// errors to status codes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/thecollekta/airbnb-clone-project/internal/logging"
	"github.com/thecollekta/airbnb-clone-project/internal/server/services"
)

// Server wraps the echo instance and its dependencies.
type Server struct {
	echo     *echo.Echo
	identity *services.IdentityService
	avatar   *services.AvatarService
	logger   logging.Logger
	addr     string
}

func NewServer(identity *services.IdentityService, avatar *services.AvatarService, logger logging.Logger, addr string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())

	headers := []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: headers,
	}))

	s := &Server{
		echo:     e,
		identity: identity,
		avatar:   avatar,
		logger:   logger.With("module", "httpapi"),
		addr:     addr,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.echo.Group("/api/v1/accounts")

	api.POST("/register", s.register)
	api.GET("/verify-email/:ref/:token", s.verifyEmail)
	api.POST("/login", s.login)
	api.POST("/token/refresh", s.refreshSession)

	api.POST("/password-reset", s.requestPasswordReset)
	api.GET("/password-reset/:ref/:token", s.checkResetToken)
	api.PATCH("/password-reset/confirm", s.confirmPasswordReset)

	authed := api.Group("", s.requireSession)
	authed.PUT("/password/change", s.changePassword)
	authed.GET("/profile", s.getProfile)
	authed.PATCH("/profile", s.updateProfile)
	authed.GET("/profile/avatar-upload-url", s.avatarUploadURL)
	authed.GET("/profile/avatar-url", s.avatarDownloadURL)
	authed.DELETE("", s.deleteAccount)
}

// Run serves until ctx is cancelled, then drains with a 10s grace period.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

const accountIDContextKey = "accountID"

// requireSession verifies the bearer access token once and stores the
// resolved account id on the request context. Handlers never re-parse the
// token; they read the id.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}
		accountID, err := s.identity.VerifySession(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
		}
		c.Set(accountIDContextKey, accountID)
		return next(c)
	}
}

func accountID(c echo.Context) string {
	id, _ := c.Get(accountIDContextKey).(string)
	return id
}
