package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/academic"
	"github.com/trezcool/madrasa/core/content"
	"github.com/trezcool/madrasa/core/homepage"
	"github.com/trezcool/madrasa/core/newsletter"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		ContentSvc      *content.Service
		NewsResolver    *homepage.Resolver[content.News]
		GalleryResolver *homepage.Resolver[content.GalleryImage]
		NewsletterSvc   *newsletter.Service
		Dispatcher      *newsletter.Dispatcher
		AcademicSvc     *academic.Service

		MetricsHandler http.Handler // optional
	}

	Server struct {
		app      *echo.Echo
		address  string
		errors   chan error
		shutdown chan os.Signal
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		app:      echo.New(),
		address:  deps.Conf.Server.Address,
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup(deps)
	return s
}

func (s *Server) setup(deps ServerDeps) {
	conf := deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(deps.Logger, deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home(conf.AppName))
	if deps.MetricsHandler != nil {
		s.app.GET("/metrics", echo.WrapHandler(deps.MetricsHandler))
	}

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))

	registerHomepageAPI(v1, jwt, deps.NewsResolver)
	registerHomepageAPI(v1, jwt, deps.GalleryResolver)
	registerNewsletterAPI(v1, jwt, deps.NewsletterSvc, deps.Dispatcher)
	registerContentAPI(v1, jwt, deps.ContentSvc)
	registerAcademicAPI(v1, jwt, deps.AcademicSvc)
}

// Start listens in the background. Listening errors are sent on Errors().
func (s *Server) Start() {
	go func() {
		if err := s.app.Start(s.address); err != nil && err != http.ErrServerClosed {
			s.errors <- err
		}
	}()
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(appName string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "Welcome to "+appName+" API!")
	}
}
