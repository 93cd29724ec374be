package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/heurekka/heurekka/internal/domain/dto"
	"github.com/heurekka/heurekka/internal/domain/repositories"
	"github.com/heurekka/heurekka/internal/domain/services"
	"github.com/heurekka/heurekka/internal/infrastructure/database/models"
)

// PropertyProvider is the property service surface the handler consumes
type PropertyProvider interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	ContactLink(ctx context.Context, id uuid.UUID, inquiry dto.ContactRequest) (string, error)
}

type PropertyHandler struct {
	*BaseHandler
	properties PropertyProvider
	search     SearchProvider
}

func NewPropertyHandler(base *BaseHandler, properties PropertyProvider, search SearchProvider) *PropertyHandler {
	return &PropertyHandler{
		BaseHandler: base,
		properties:  properties,
		search:      search,
	}
}

// Featured handles GET /api/v1/properties/featured
func (h *PropertyHandler) Featured(c *gin.Context) {
	properties, err := h.search.Featured(c.Request.Context())
	if err != nil {
		h.RespondInternalError(c, "Featured listings unavailable", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": properties})
}

// GetByID handles GET /api/v1/properties/:id
func (h *PropertyHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.RespondBadRequest(c, "Invalid property ID")
		return
	}

	property, err := h.properties.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			h.RespondNotFound(c, "Property not found")
			return
		}
		h.RespondInternalError(c, "Failed to load property", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": property})
}

// Contact handles POST /api/v1/properties/:id/contact
func (h *PropertyHandler) Contact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.RespondBadRequest(c, "Invalid property ID")
		return
	}

	var inquiry dto.ContactRequest
	if err := c.ShouldBindJSON(&inquiry); err != nil {
		h.RespondBadRequest(c, "Invalid contact request", err.Error())
		return
	}

	link, err := h.properties.ContactLink(c.Request.Context(), id, inquiry)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			h.RespondNotFound(c, "Property not found")
		case errors.Is(err, services.ErrMessagingUnavailable):
			h.RespondError(c, http.StatusServiceUnavailable, "messaging_unavailable",
				"Contact workflow is not available right now")
		default:
			h.RespondInternalError(c, "Failed to prepare contact link", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"contact_url": link}})
}
