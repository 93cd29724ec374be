package handlers

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standardized error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	maxPageSize       int
	defaultPageSize   int
	enableDebugErrors bool
}

// NewBaseHandler creates a new base handler with environment-aware defaults
func NewBaseHandler(maxPageSize, defaultPageSize int) *BaseHandler {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	if defaultPageSize <= 0 {
		defaultPageSize = 24
	}
	return &BaseHandler{
		maxPageSize:       maxPageSize,
		defaultPageSize:   defaultPageSize,
		enableDebugErrors: os.Getenv("ENVIRONMENT") != "production",
	}
}

// RespondError sends a standardized error response
func (b *BaseHandler) RespondError(c *gin.Context, statusCode int, errorCode, message string, details ...string) {
	response := ErrorResponse{
		Error:   errorCode,
		Message: message,
		Status:  statusCode,
	}

	if len(details) > 0 && b.enableDebugErrors {
		response.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// RespondBadRequest sends a standardized bad request response
func (b *BaseHandler) RespondBadRequest(c *gin.Context, message string, details ...string) {
	b.RespondError(c, http.StatusBadRequest, "invalid_request", message, details...)
}

// RespondNotFound sends a standardized not found response
func (b *BaseHandler) RespondNotFound(c *gin.Context, message string) {
	b.RespondError(c, http.StatusNotFound, "not_found", message)
}

// RespondInternalError sends a standardized internal error response
func (b *BaseHandler) RespondInternalError(c *gin.Context, message string, details ...string) {
	b.RespondError(c, http.StatusInternalServerError, "internal_error", message, details...)
}

// ParsePagination reads page/page_size query params, clamped to the configured bounds
func (b *BaseHandler) ParsePagination(c *gin.Context) (page, pageSize int) {
	page = queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = queryInt(c, "page_size", b.defaultPageSize)
	if pageSize < 1 {
		pageSize = b.defaultPageSize
	}
	if pageSize > b.maxPageSize {
		pageSize = b.maxPageSize
	}
	return page, pageSize
}

func queryInt(c *gin.Context, name string, defaultValue int) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
