//go:build backend_echo

package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dialecticianai/hegel-pm-sub000/internal/config"
	hgerrors "github.com/dialecticianai/hegel-pm-sub000/internal/foundation/errors"
	"github.com/dialecticianai/hegel-pm-sub000/internal/logfields"
	"github.com/dialecticianai/hegel-pm-sub000/internal/workerpool"
)

// EchoBackend implements Backend using labstack/echo.
type EchoBackend struct {
	adapter *hgerrors.HTTPErrorAdapter
}

// NewEchoBackend constructs the echo-based HttpBackend.
func NewEchoBackend() *EchoBackend {
	return &EchoBackend{adapter: hgerrors.NewHTTPErrorAdapter(nil)}
}

// NewDefaultBackend returns the backend selected by this binary's build
// tags. Exactly one of the backend_stdlib/backend_echo-tagged files
// provides this function.
func NewDefaultBackend() Backend {
	return NewEchoBackend()
}

// Run starts listening on cfg.ListenAddr and blocks until the server stops.
func (b *EchoBackend) Run(requests chan<- any, cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/api/projects", b.getProjects(requests))
	e.GET("/api/all-projects", b.getAllProjects(requests))
	e.GET("/api/projects/:name/metrics", b.getProjectMetrics(requests))
	e.GET("/*", b.static(cfg.StaticDir))

	slog.Info("http backend listening", logfields.URL("http://"+cfg.ListenAddr))
	return e.Start(cfg.ListenAddr)
}

func (b *EchoBackend) getProjects(requests chan<- any) echo.HandlerFunc {
	return func(c echo.Context) error {
		reply := make(chan workerpool.Result, 1)
		requests <- workerpool.GetProjects{Reply: reply}
		return b.writeReply(c, reply)
	}
}

func (b *EchoBackend) getAllProjects(requests chan<- any) echo.HandlerFunc {
	return func(c echo.Context) error {
		reply := make(chan workerpool.Result, 1)
		requests <- workerpool.GetAllProjects{Reply: reply}
		return b.writeReply(c, reply)
	}
}

func (b *EchoBackend) getProjectMetrics(requests chan<- any) echo.HandlerFunc {
	return func(c echo.Context) error {
		name := c.Param("name")
		reply := make(chan workerpool.Result, 1)
		requests <- workerpool.GetProjectMetrics{Name: name, Reply: reply}
		return b.writeReply(c, reply)
	}
}

func (b *EchoBackend) static(staticDir string) echo.HandlerFunc {
	return func(c echo.Context) error {
		path, ok := resolveStaticPath(staticDir, c.Request().URL.Path)
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return c.File(path)
	}
}

func (b *EchoBackend) writeReply(c echo.Context, reply chan workerpool.Result) error {
	select {
	case result := <-reply:
		if result.Err != nil {
			status := b.adapter.StatusCodeFor(result.Err)
			return c.JSON(status, b.adapter.FormatErrorResponse(result.Err))
		}
		return c.JSONBlob(http.StatusOK, result.Body)
	case <-time.After(replyTimeout):
		err := hgerrors.InternalError("worker pool did not respond in time").Build()
		return c.JSON(b.adapter.StatusCodeFor(err), b.adapter.FormatErrorResponse(err))
	}
}
