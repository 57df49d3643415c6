package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/deadlines/core"
)

type (
	// pinger reports whether a dependency of the worker is reachable.
	pinger struct {
		name string
		ping func(ctx context.Context) error
	}

	healthStatus struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}

	// healthServer exposes the worker's liveness over HTTP.
	healthServer struct {
		addr     string
		app      *echo.Echo
		pingers  []pinger
		errors   chan error
		shutdown chan os.Signal
	}
)

func newHealthServer(conf *core.Config, pingers ...pinger) *healthServer {
	s := &healthServer{
		addr:     conf.Server.HealthHost,
		app:      echo.New(),
		pingers:  pingers,
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.Pre(middleware.RemoveTrailingSlash())
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.GET("/", s.home(conf))
	s.app.GET("/healthz", s.healthz)

	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	return s
}

func (s *healthServer) home(conf *core.Config) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, conf.AppName+" deadline worker "+conf.Build)
	}
}

func (s *healthServer) healthz(ctx echo.Context) error {
	res := healthStatus{Status: "ok", Checks: make(map[string]string, len(s.pingers))}
	code := http.StatusOK
	for _, p := range s.pingers {
		if err := p.ping(ctx.Request().Context()); err != nil {
			res.Checks[p.name] = err.Error()
			res.Status = "unavailable"
			code = http.StatusServiceUnavailable
			continue
		}
		res.Checks[p.name] = "ok"
	}
	return ctx.JSON(code, res)
}

func (s *healthServer) Start() {
	if err := s.app.Start(s.addr); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *healthServer) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *healthServer) Errors() <-chan error {
	return s.errors
}

func (s *healthServer) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *healthServer) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
