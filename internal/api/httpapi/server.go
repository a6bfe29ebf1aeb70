package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	app "vision-inspector/internal/application"
)

const serviceName = "AlfaStack AI"

// Options параметры HTTP-сервера
type Options struct {
	Addr             string
	DefaultThreshold float64
	MaxUploadBytes   int64
}

// Server HTTP-интерфейс инспекций и истории
type Server struct {
	echo        *echo.Echo
	opts        Options
	inspections *app.InspectionService
	history     *app.HistoryService
	logger      *log.Logger
	now         func() time.Time
}

// NewServer собирает роутер echo
func NewServer(opts Options, inspections *app.InspectionService, history *app.HistoryService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		echo:        echo.New(),
		opts:        opts,
		inspections: inspections,
		history:     history,
		logger:      logger,
		now:         time.Now,
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	if opts.MaxUploadBytes > 0 {
		e.Use(middleware.BodyLimit(strconv.FormatInt(opts.MaxUploadBytes, 10)))
	}

	e.GET("/", s.home)
	e.GET("/health", s.health)

	api := e.Group("/api")
	api.POST("/inspections", s.createInspection)
	api.GET("/inspections", s.listInspections)
	api.GET("/inspections/:id", s.getInspection)
	api.GET("/inspections/:id/report", s.inspectionReport)
	api.GET("/history/summary", s.historySummary)
	api.GET("/history/export.csv", s.exportHistory)
	api.POST("/history/archive", s.archiveHistory)
	api.DELETE("/history", s.clearHistory)

	return s
}

// Handler для тестов и встраивания
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run слушает Addr до отмены контекста, затем корректно останавливается.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.opts.Addr)
		errCh <- s.echo.Start(s.opts.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}

func requestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// health-чеки от пингера не засоряют лог
			if v.URI == "/health" {
				return nil
			}
			logger.Info("request",
				"remote_ip", c.RealIP(),
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	})
}
