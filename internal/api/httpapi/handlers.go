package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	app "vision-inspector/internal/application"
	"vision-inspector/internal/domain/entity"
)

func (s *Server) home(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": serviceName + " Inspector",
		"endpoints": echo.Map{
			"health":      "/health",
			"inspections": "/api/inspections",
			"summary":     "/api/history/summary",
			"export":      "/api/history/export.csv",
		},
	})
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": s.now().Unix(),
		"message":   "Server is running",
		"detector":  s.inspections.DetectorName(),
	})
}

func (s *Server) createInspection(c echo.Context) error {
	threshold := s.opts.DefaultThreshold
	if raw := c.FormValue("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "threshold must be a number")
		}
		threshold = v
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart field \"image\" is required")
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	result, err := s.inspections.Inspect(c.Request().Context(), data, fh.Filename, threshold)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (s *Server) listInspections(c echo.Context) error {
	all, err := s.history.All(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, all)
}

func (s *Server) getInspection(c echo.Context) error {
	result, err := s.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) inspectionReport(c echo.Context) error {
	result, err := s.lookup(c)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, app.ExportResult(result))
}

func (s *Server) lookup(c echo.Context) (entity.InspectionResult, error) {
	result, ok, err := s.history.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return entity.InspectionResult{}, err
	}
	if !ok {
		return entity.InspectionResult{}, echo.NewHTTPError(http.StatusNotFound, "inspection not found")
	}
	return result, nil
}

func (s *Server) historySummary(c echo.Context) error {
	summary, err := s.history.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func (s *Server) exportHistory(c echo.Context) error {
	data, err := s.history.ExportCSV(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", app.CSVFileName(s.now())))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(data))
}

func (s *Server) archiveHistory(c echo.Context) error {
	key, err := s.history.Archive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"key": key})
}

func (s *Server) clearHistory(c echo.Context) error {
	if err := s.history.Clear(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// errorHandler переводит доменные ошибки в HTTP-ответы.
// Ошибки разбора изображения и порога показываются как есть, сбои анализа обобщаются.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		httpErr      *echo.HTTPError
		decodeErr    *entity.DecodeError
		thresholdErr *entity.InvalidThresholdError
		malformedErr *entity.MalformedDetectionError
	)

	code := http.StatusInternalServerError
	msg := "analysis failed"

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		msg = fmt.Sprint(httpErr.Message)
	case errors.As(err, &decodeErr):
		code, msg = http.StatusBadRequest, decodeErr.Error()
	case errors.As(err, &thresholdErr):
		code, msg = http.StatusBadRequest, thresholdErr.Error()
	case errors.As(err, &malformedErr):
		s.logger.Error("malformed detector output", "err", err)
	case errors.Is(err, app.ErrArchiveNotConfigured):
		code, msg = http.StatusServiceUnavailable, err.Error()
	default:
		s.logger.Error("request failed", "uri", c.Request().RequestURI, "err", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, echo.Map{"error": msg})
	}
	if err != nil {
		s.logger.Error("write error response", "err", err)
	}
}
