package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/mood2emoji/internal/metrics"
	"github.com/spacesedan/mood2emoji/internal/models"
	"github.com/spacesedan/mood2emoji/internal/mood"
	"github.com/spacesedan/mood2emoji/internal/presenter"
)

func (s *Server) handleMood(c echo.Context) error {
	var req models.MoodRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
	}

	res, err := s.classifier.Classify(c.Request().Context(), req.Text)
	if err != nil {
		slog.Error("[Server] Classification failed",
			slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			slog.String("error", err.Error()))

		if errors.Is(err, mood.ErrOracleUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "mood analyzer is unavailable, please try again"})
		}
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal error"})
	}

	outcome := s.classifier.FilterReason(req.Text)
	if outcome == "" {
		outcome = "scored"
	}
	metrics.ClassificationsTotal.WithLabelValues(string(res.Label), outcome).Inc()

	return c.JSON(http.StatusOK, presenter.Build(res, req.Text, req.TeacherMode))
}

func (s *Server) handleExamples(c echo.Context) error {
	return c.JSON(http.StatusOK, presenter.GetExamples())
}

func (s *Server) handleTeacherPanel(c echo.Context) error {
	return c.JSON(http.StatusOK, presenter.GetTeacherPanel())
}
