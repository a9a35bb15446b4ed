package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/voicesync/internal/auth"
	"github.com/satriahrh/voicesync/internal/websocket"
	"github.com/satriahrh/voicesync/usecase"
)

// InitRoutes initializes all API routes
func InitRoutes(
	e *echo.Echo,
	hub *websocket.Hub,
	profiles VoiceProfileManager,
	issuer *auth.TokenIssuer,
	adminAPIKey string,
	logger *zap.Logger,
) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "voicesync",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	v1.POST("/auth/admin", func(c echo.Context) error {
		return adminAuth(c, issuer, adminAPIKey, logger)
	})

	admin := v1.Group("", requireAdmin(issuer, logger))

	admin.GET("/settings", func(c echo.Context) error {
		settings, err := profiles.Settings(c.Request().Context())
		if err != nil {
			return writeError(c, err, logger)
		}
		return c.JSON(http.StatusOK, settings)
	})

	admin.PUT("/settings/voice-profiles", func(c echo.Context) error {
		return updateVoiceProfiles(c, profiles, logger)
	})

	admin.POST("/settings/voice-profiles/sync/:token", func(c echo.Context) error {
		return resync(c, profiles, logger)
	})

	admin.GET("/settings/voice-profiles/:id/agent-config", func(c echo.Context) error {
		payload, err := profiles.PreviewAgentUpdate(c.Request().Context(), c.Param("id"))
		if err != nil {
			return writeError(c, err, logger)
		}
		return c.JSON(http.StatusOK, payload)
	})

	// Sync event stream for the admin UI
	e.GET("/ws/sync-events", func(c echo.Context) error {
		claims := claimsFrom(c)
		logger.Info("WebSocket connection authenticated", zap.String("subject", claims.Subject))
		return websocket.HandleWebSocket(hub, c, claims.Subject, logger)
	}, requireAdmin(issuer, logger))
}

func adminAuth(c echo.Context, issuer *auth.TokenIssuer, adminAPIKey string, logger *zap.Logger) error {
	var req AdminAuthRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind admin auth request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.APIKey == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "API key is required",
		})
	}

	if !auth.CheckAPIKey(adminAPIKey, req.APIKey) {
		logger.Warn("Admin authentication failed", zap.String("remote_ip", c.RealIP()))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: "Invalid API key",
		})
	}

	subject := req.Subject
	if subject == "" {
		subject = "admin"
	}
	token, expiresAt, err := issuer.GenerateAdminToken(subject)
	if err != nil {
		logger.Error("Failed to generate admin token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	logger.Info("Admin authenticated successfully", zap.String("subject", subject))

	return c.JSON(http.StatusOK, AdminAuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

func updateVoiceProfiles(c echo.Context, profiles VoiceProfileManager, logger *zap.Logger) error {
	var req UpdateVoiceProfilesRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Failed to bind voice profiles request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	result, err := profiles.UpdateVoiceProfiles(c.Request().Context(), req.VoiceProfiles, req.Sync)
	if err != nil {
		return writeError(c, err, logger)
	}

	status := http.StatusOK
	if result.SyncToken != "" {
		status = http.StatusAccepted
	}
	return c.JSON(status, result)
}

func resync(c echo.Context, profiles VoiceProfileManager, logger *zap.Logger) error {
	token := c.Param("token")
	report, err := profiles.Resync(c.Request().Context(), token)
	if err != nil {
		return writeError(c, err, logger)
	}

	return c.JSON(http.StatusOK, SyncReportResponse{
		SyncToken:  token,
		SyncReport: report,
		Succeeded:  len(report.Succeeded()),
		Failed:     len(report.Failed()),
	})
}

// writeError maps use case errors to HTTP responses
func writeError(c echo.Context, err error, logger *zap.Logger) error {
	var (
		persistence *usecase.PersistenceError
		resolution  *usecase.ResolutionError
	)

	switch {
	case errors.Is(err, usecase.ErrInvalidProfiles):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_profiles",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrSnapshotNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "sync_not_found",
			Message: "Unknown or expired sync token",
		})
	case errors.Is(err, usecase.ErrProfileNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "profile_not_found",
			Message: "Voice profile not found",
		})
	case errors.As(err, &persistence):
		logger.Error("Settings persistence failed", zap.String("op", persistence.Op), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persistence_failed",
			Message: "Failed to " + persistence.Op + " settings",
		})
	case errors.As(err, &resolution):
		logger.Error("Workspace resolution failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "resolution_failed",
			Message: "Failed to list workspace bindings",
		})
	default:
		logger.Error("Unhandled request error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
		})
	}
}
