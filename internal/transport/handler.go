package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-reveal-quiz/internal/config"
	apperrors "go-reveal-quiz/internal/errors"
	"go-reveal-quiz/internal/logger"
	"go-reveal-quiz/internal/service"
	"go-reveal-quiz/pkg/models"
	"go-reveal-quiz/pkg/validation"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler builds the HTTP surface of the quiz engine. The handler owns no
// game state; it translates requests into service calls and frames into PNG
// responses.
func NewHandler(rounds service.RoundService, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	validator := validation.NewRoundValidator()

	r.GET("/health", healthCheck)
	r.POST("/rounds", createRound(rounds, validator, cfg))
	r.GET("/rounds/:id/frame", roundFrame(rounds))
	r.POST("/rounds/:id/guess", submitGuess(rounds))
	r.GET("/rounds/:id/score", roundScore(rounds))
	r.POST("/rounds/:id/answer", overrideAnswer(rounds))
	r.DELETE("/rounds/:id", closeRound(rounds))
	r.GET("/dataset/stats", datasetStats(rounds))

	return r
}

func createRound(rounds service.RoundService, validator *validation.RoundValidator, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Processing create round request")

		var req models.CreateRoundRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		if err := validator.ValidateCreateRound(req); err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid round request", err)
			return
		}

		resp, err := rounds.CreateRound(ctx, req)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to create round", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"round_id":   resp.ID,
			"mode":       resp.Mode,
			"time_limit": resp.TimeLimit,
		}).Info("Round created")

		c.JSON(http.StatusCreated, resp)
	}
}

func roundFrame(rounds service.RoundService) gin.HandlerFunc {
	return func(c *gin.Context) {
		elapsed, err := optionalElapsed(c)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid elapsed parameter", err)
			return
		}

		frame, at, err := rounds.FrameAt(c.Request.Context(), c.Param("id"), elapsed)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to render frame", err)
			return
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, frame); err != nil {
			respondError(c, http.StatusInternalServerError, "failed to encode frame", err)
			return
		}

		c.Header("X-Elapsed-Seconds", strconv.FormatFloat(at, 'f', 3, 64))
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}

func submitGuess(rounds service.RoundService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.GuessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		resp, err := rounds.SubmitGuess(c.Request.Context(), c.Param("id"), req.Text, req.Elapsed)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to submit guess", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func roundScore(rounds service.RoundService) gin.HandlerFunc {
	return func(c *gin.Context) {
		elapsed, err := optionalElapsed(c)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid elapsed parameter", err)
			return
		}

		resp, err := rounds.ScoreAt(c.Request.Context(), c.Param("id"), elapsed)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to compute score", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func overrideAnswer(rounds service.RoundService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.OverrideAnswerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		if err := rounds.OverrideAnswer(c.Request.Context(), c.Param("id"), req.Answer); err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to override answer", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func closeRound(rounds service.RoundService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rounds.CloseRound(c.Request.Context(), c.Param("id"))
		c.Status(http.StatusNoContent)
	}
}

func datasetStats(rounds service.RoundService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := rounds.DatasetStats(c.Request.Context())
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to compute dataset stats", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// optionalElapsed parses the elapsed query parameter; absence means the
// caller wants server-clock elapsed.
func optionalElapsed(c *gin.Context) (*float64, error) {
	raw := c.Query("elapsed")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
