// Package echoapi serves the LMS REST API from the sandbox store.
package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
	"github.com/trezcool/masomo-lms/services/telemetry"
)

const apiPrefix = "/api/v1"

type (
	Options struct {
		Address            string
		Debug              bool
		DisableReqLogs     bool
		SecretKey          string
		JWTExpirationDelta time.Duration
		UserRepo           user.Repository
		CourseRepo         course.Repository
		Logger             core.Logger
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts   *Options
		app    *echo.Echo
		http   *http.Server
		tokens *tokenizer
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.Logger == nil {
		opts.Logger = core.NopLogger{}
	}
	s := &server{
		opts:   opts,
		app:    echo.New(),
		tokens: newTokenizer(opts.SecretKey, opts.JWTExpirationDelta),
	}
	s.http = &http.Server{
		Addr:    opts.Address,
		Handler: telemetry.Handler(s.app, "lms-sandbox"),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in debug mode
	if !s.opts.Debug {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = s.opts.Debug

	s.app.GET("/health", health)

	v1 := s.app.Group(apiPrefix)
	jwt := middleware.JWTWithConfig(s.tokens.middlewareConfig())

	registerAuthAPI(v1, s.tokens, s.opts.UserRepo)
	registerUserAPI(v1, jwt, s.opts.UserRepo)
	registerCourseAPI(v1, jwt, s.opts.CourseRepo, s.opts.UserRepo)
	registerAttendanceAPI(v1, jwt, s.opts.CourseRepo)
}

// Start blocks until the server stops. A graceful Stop is not an error.
func (s *server) Start() error {
	s.opts.Logger.Info("sandbox API listening", map[string]interface{}{"addr": s.opts.Address})
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Responses

func ok(ctx echo.Context, data interface{}) error {
	return ctx.JSON(http.StatusOK, echo.Map{"data": data})
}

func created(ctx echo.Context, id int) error {
	return ctx.JSON(http.StatusCreated, echo.Map{"data": user.CreatedResponse{ID: id}})
}

func status(ctx echo.Context, s string) error {
	return ok(ctx, echo.Map{"status": s})
}

// list is `{"items": [...], "count": n}`, items never null.
func list(ctx echo.Context, items interface{}, count int) error {
	return ok(ctx, echo.Map{"items": items, "count": count})
}
