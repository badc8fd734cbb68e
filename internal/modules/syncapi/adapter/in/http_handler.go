package in

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	hclog "github.com/hashicorp/go-hclog"

	"timebox/internal/modules/syncapi/dto"
	syncapiin "timebox/internal/modules/syncapi/port/in"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/logging"
)

const (
	headerSyncKey = "X-Sync-Key"
	maxBodyBytes  = 8 << 20
)

// HTTPHandler serves the sync API.
type HTTPHandler struct {
	usecase syncapiin.Usecase
	logger  hclog.Logger
}

func NewHTTPHandler(usecase syncapiin.Usecase, logger hclog.Logger) *HTTPHandler {
	return &HTTPHandler{usecase: usecase, logger: logging.OrNull(logger).Named("syncapi")}
}

// Router builds the gin engine with every sync API route registered.
func (h *HTTPHandler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger(), noStore())
	h.Register(router)
	return router
}

func (h *HTTPHandler) Register(router gin.IRouter) {
	api := router.Group("/api")
	{
		api.POST("/sync/register", h.handleRegister)
		api.GET("/storage", h.handlePull)
		api.POST("/storage", h.handlePush)
	}
}

func (h *HTTPHandler) handleRegister(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	out, err := h.usecase.Register(c.Request.Context(), dto.RegisterInput{
		ContentType: c.GetHeader("Content-Type"),
		Body:        body,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidJSON) {
			h.fail(c, err)
			return
		}
		h.logger.Error("registration failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "REGISTRATION_FAILED"})
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *HTTPHandler) handlePull(c *gin.Context) {
	out, err := h.usecase.Pull(c.Request.Context(), dto.PullInput{SyncKey: c.GetHeader(headerSyncKey)})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *HTTPHandler) handlePush(c *gin.Context) {
	key := c.GetHeader(headerSyncKey)
	if err := h.usecase.Authorize(c.Request.Context(), key); err != nil {
		h.fail(c, err)
		return
	}
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	out, err := h.usecase.Push(c.Request.Context(), dto.PushInput{
		SyncKey:     key,
		ContentType: c.GetHeader("Content-Type"),
		Body:        body,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *HTTPHandler) readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "PAYLOAD_TOO_LARGE"})
		return nil, false
	}
	return body, true
}

func (h *HTTPHandler) fail(c *gin.Context, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": code})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrMissingSyncKey):
		return http.StatusUnauthorized, "MISSING_SYNC_KEY"
	case errors.Is(err, apperrors.ErrInvalidSyncKey):
		return http.StatusForbidden, "INVALID_SYNC_KEY"
	case errors.Is(err, apperrors.ErrInvalidContentType):
		return http.StatusUnsupportedMediaType, "INVALID_CONTENT_TYPE"
	case errors.Is(err, apperrors.ErrInvalidJSON):
		return http.StatusBadRequest, "INVALID_JSON"
	case errors.Is(err, apperrors.ErrEmptyPayload):
		return http.StatusBadRequest, "EMPTY_PAYLOAD"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func noStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

func (h *HTTPHandler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		h.logger.Debug("request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status())
	}
}
